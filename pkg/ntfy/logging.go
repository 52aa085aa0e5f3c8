package ntfy

// Editor log actions.
const (
	ActionNormalized = "normalized"
	ActionDefaulted  = "defaulted"
	ActionInvalid    = "invalid"
)

// LogEvent describes something the editor did to, or found in, the form.
type LogEvent struct {
	Notifier string
	Path     string
	Action   string
	OldValue any
	NewValue string
	Message  string
	Err      error
}

// Logger records editor events.
type Logger interface {
	LogEditor(LogEvent)
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(LogEvent)

// LogEditor implements Logger.
func (f LoggerFunc) LogEditor(event LogEvent) {
	if f != nil {
		f(event)
	}
}

type noopLogger struct{}

func (noopLogger) LogEditor(LogEvent) {}
