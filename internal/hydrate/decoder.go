// Package hydrate turns loosely typed configuration payloads, as produced by
// YAML or JSON parsers, into typed channel snapshots.
package hydrate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// ErrNilPayload is returned when Decode receives no payload at all.
var ErrNilPayload = errors.New("payload is nil")

// Context identifies the payload being decoded.
type Context struct {
	Notifier string
	Scope    string
}

func (c Context) label() string {
	switch {
	case c.Notifier == "":
		return c.Scope
	case c.Scope == "":
		return c.Notifier
	}
	return c.Scope + "/" + c.Notifier
}

// Stage names the step of Decode that failed.
type Stage string

const (
	StageInput  Stage = "input"
	StagePre    Stage = "pre-hook"
	StageDecode Stage = "decode"
	StagePost   Stage = "post-hook"
)

// DecodeError ties a failure to the payload and stage it happened in.
type DecodeError struct {
	Context Context
	Stage   Stage
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("hydrate: %s %q: %v", e.Stage, e.Context.label(), e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// PreHook rewrites the payload before decoding. It receives a private copy
// and may modify it in place.
type PreHook func(Context, map[string]any) (map[string]any, error)

// PostHook adjusts or validates the decoded value.
type PostHook[T any] func(Context, *T) error

// DecodeFunc turns the prepared payload into T.
type DecodeFunc[T any] func(Context, map[string]any) (T, error)

// DecoderOption configures a Decoder.
type DecoderOption[T any] func(*Decoder[T])

// Decoder runs a payload through pre-hooks, a decode step and post-hooks.
// The default decode step is encoding/json.
type Decoder[T any] struct {
	pre    []PreHook
	post   []PostHook[T]
	decode DecodeFunc[T]
	json   jsonSettings
}

type jsonSettings struct {
	useNumber       bool
	disallowUnknown bool
}

// WithPreHook appends hook to the pre-decode chain.
func WithPreHook[T any](hook PreHook) DecoderOption[T] {
	return func(d *Decoder[T]) {
		if hook != nil {
			d.pre = append(d.pre, hook)
		}
	}
}

// WithPostHook appends hook to the post-decode chain.
func WithPostHook[T any](hook PostHook[T]) DecoderOption[T] {
	return func(d *Decoder[T]) {
		if hook != nil {
			d.post = append(d.post, hook)
		}
	}
}

// WithUseNumber keeps JSON numbers as json.Number in the default step.
func WithUseNumber[T any]() DecoderOption[T] {
	return func(d *Decoder[T]) { d.json.useNumber = true }
}

// WithDisallowUnknownFields makes the default step reject unknown keys.
func WithDisallowUnknownFields[T any]() DecoderOption[T] {
	return func(d *Decoder[T]) { d.json.disallowUnknown = true }
}

// WithDecodeFunc replaces the default decode step.
func WithDecodeFunc[T any](fn DecodeFunc[T]) DecoderOption[T] {
	return func(d *Decoder[T]) { d.decode = fn }
}

// WithWeakDecoding decodes through mapstructure with weakly typed input, so
// a YAML `port: 8080` lands in a string field as "8080". Keys T does not
// declare are errors.
func WithWeakDecoding[T any]() DecoderOption[T] {
	return WithDecodeFunc[T](weakDecode[T])
}

// NewDecoder builds a Decoder from opts.
func NewDecoder[T any](opts ...DecoderOption[T]) *Decoder[T] {
	d := &Decoder[T]{}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	if d.decode == nil {
		d.decode = d.jsonDecode
	}
	return d
}

// Decode converts payload into T. The caller's map is never modified.
func (d *Decoder[T]) Decode(ctx Context, payload map[string]any) (T, error) {
	var zero T
	fail := func(stage Stage, err error) (T, error) {
		return zero, &DecodeError{Context: ctx, Stage: stage, Err: err}
	}
	if payload == nil {
		return fail(StageInput, ErrNilPayload)
	}
	current, err := clonePayload(payload)
	if err != nil {
		return fail(StageInput, err)
	}
	for _, hook := range d.pre {
		next, err := hook(ctx, current)
		if err != nil {
			return fail(StagePre, err)
		}
		if next != nil {
			current = next
		}
	}
	result, err := d.decode(ctx, current)
	if err != nil {
		return fail(StageDecode, err)
	}
	for _, hook := range d.post {
		if err := hook(ctx, &result); err != nil {
			return fail(StagePost, err)
		}
	}
	return result, nil
}

func (d *Decoder[T]) jsonDecode(_ Context, payload map[string]any) (T, error) {
	var out T
	buffer, err := json.Marshal(payload)
	if err != nil {
		return out, err
	}
	dec := json.NewDecoder(bytes.NewReader(buffer))
	if d.json.useNumber {
		dec.UseNumber()
	}
	if d.json.disallowUnknown {
		dec.DisallowUnknownFields()
	}
	err = dec.Decode(&out)
	return out, err
}

func weakDecode[T any](_ Context, payload map[string]any) (T, error) {
	var out T
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return out, err
	}
	if err := dec.Decode(payload); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// clonePayload round-trips through JSON, which also turns the
// map[any]any values some YAML parsers emit into map[string]any.
func clonePayload(payload map[string]any) (map[string]any, error) {
	buffer, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(buffer, &out); err != nil {
		return nil, err
	}
	return out, nil
}
