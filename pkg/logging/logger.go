// Package logging binds the library's log interfaces to logrus.
package logging

import (
	"io"
	"os"

	opts "github.com/goliatone/go-notify-options"
	"github.com/goliatone/go-notify-options/pkg/ntfy"
	"github.com/sirupsen/logrus"
)

// Fields represents structured logging fields
type Fields = logrus.Fields

// NewLogger creates a JSON logger writing to out (stderr when nil). An
// unknown level falls back to info.
func NewLogger(level string, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if out == nil {
		out = os.Stderr
	}
	logger.SetOutput(out)
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)
	return logger
}

// EvaluatorLogger logs rule evaluations at debug, failures at warn.
func EvaluatorLogger(logger logrus.FieldLogger) opts.EvaluatorLogger {
	return opts.EvaluatorLoggerFunc(func(event opts.EvaluatorLogEvent) {
		entry := logger.WithFields(logrus.Fields(event.Fields()))
		if event.Err != nil {
			entry.Warn("rule evaluation failed")
			return
		}
		entry.Debug("rule evaluated")
	})
}

// EditorLogger logs editor write-backs at info and invalid fields at warn.
func EditorLogger(logger logrus.FieldLogger) ntfy.Logger {
	return ntfy.LoggerFunc(func(event ntfy.LogEvent) {
		fields := logrus.Fields{
			"notifier": event.Notifier,
			"path":     event.Path,
			"action":   event.Action,
		}
		if event.OldValue != nil {
			fields["old_value"] = event.OldValue
		}
		if event.NewValue != "" {
			fields["new_value"] = event.NewValue
		}
		if event.Message != "" {
			fields["message"] = event.Message
		}
		entry := logger.WithFields(fields)
		if event.Err != nil {
			entry = entry.WithError(event.Err)
		}

		switch event.Action {
		case ntfy.ActionInvalid:
			entry.Warn("field invalid")
		default:
			entry.Info("field " + event.Action)
		}
	})
}
