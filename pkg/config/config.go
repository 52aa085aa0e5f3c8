// Package config reads notifier configuration files. A file lists instance
// notifiers under `notify` and per-type service defaults under
// `defaults.notify`:
//
//	notify:
//	  alerts:
//	    type: ntfy
//	    url_fields: {host: ntfy.example.com, topic: releases}
//	defaults:
//	  notify:
//	    ntfy:
//	      params: {priority: high}
//
// Other top-level keys are ignored so the notifier section can live inside a
// larger service config.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	opts "github.com/goliatone/go-notify-options"
	"github.com/goliatone/go-notify-options/internal/hydrate"
	"github.com/goliatone/go-notify-options/pkg/ntfy"
	"github.com/goliatone/go-notify-options/pkg/state"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownNotifier indicates the requested notifier is not configured.
	ErrUnknownNotifier = errors.New("config: unknown notifier")
	// ErrUnsupportedType indicates a notifier whose type has no editor.
	ErrUnsupportedType = errors.New("config: unsupported notifier type")
)

const inlineSource = "inline"

// Document is a parsed configuration file. It also serves as a read-only
// state.Store of channel tiers.
type Document struct {
	Source   string
	Notify   map[string]ntfy.Channel
	Defaults map[string]ntfy.Channel
}

var _ state.Store[ntfy.Channel] = (*Document)(nil)

type rawDocument struct {
	Notify   map[string]map[string]any `yaml:"notify"`
	Defaults struct {
		Notify map[string]map[string]any `yaml:"notify"`
	} `yaml:"defaults"`
}

// Load reads and parses the file at path.
func Load(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	doc, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// Parse decodes a YAML document.
func Parse(data []byte) (*Document, error) {
	var raw rawDocument
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	doc := &Document{
		Source:   inlineSource,
		Notify:   make(map[string]ntfy.Channel, len(raw.Notify)),
		Defaults: make(map[string]ntfy.Channel, len(raw.Defaults.Notify)),
	}
	for name, payload := range raw.Notify {
		channel, err := decodeChannel(hydrate.Context{Notifier: name, Scope: "notify"}, payload)
		if err != nil {
			return nil, err
		}
		doc.Notify[name] = channel
	}
	for typ, payload := range raw.Defaults.Notify {
		channel, err := decodeChannel(hydrate.Context{Notifier: typ, Scope: "defaults"}, payload,
			hydrate.WithPostHook[ntfy.Channel](defaultType(typ)),
		)
		if err != nil {
			return nil, err
		}
		doc.Defaults[strings.ToLower(typ)] = channel
	}
	return doc, nil
}

func decodeChannel(ctx hydrate.Context, payload map[string]any, extra ...hydrate.DecoderOption[ntfy.Channel]) (ntfy.Channel, error) {
	if payload == nil {
		payload = map[string]any{}
	}
	options := append([]hydrate.DecoderOption[ntfy.Channel]{
		hydrate.WithPreHook[ntfy.Channel](hydrate.LowerKeys),
		hydrate.WithPreHook[ntfy.Channel](hydrate.StringifyLeaves),
		hydrate.WithWeakDecoding[ntfy.Channel](),
	}, extra...)
	decoder := hydrate.NewDecoder[ntfy.Channel](options...)
	channel, err := decoder.Decode(ctx, payload)
	if err != nil {
		return ntfy.Channel{}, fmt.Errorf("config: %w", err)
	}
	return channel, nil
}

// defaultType names the type of a service defaults block after the key it
// sits under when the block itself does not.
func defaultType(typ string) hydrate.PostHook[ntfy.Channel] {
	return func(_ hydrate.Context, channel *ntfy.Channel) error {
		if channel.Type == "" {
			channel.Type = strings.ToLower(typ)
		}
		return nil
	}
}

// Names lists the configured notifiers in order.
func (d *Document) Names() []string {
	names := make([]string, 0, len(d.Notify))
	for name := range d.Notify {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Tiers returns the three tiers of the named ntfy notifier.
func (d *Document) Tiers(ctx context.Context, name string) (ntfy.Tiers, error) {
	channel, ok := d.Notify[name]
	if !ok {
		return ntfy.Tiers{}, fmt.Errorf("%w: %q", ErrUnknownNotifier, name)
	}
	if !strings.EqualFold(channel.Type, ntfy.Type) {
		return ntfy.Tiers{}, fmt.Errorf("%w: %q has type %q", ErrUnsupportedType, name, channel.Type)
	}
	return ntfy.LoadTiers(ctx, d, name)
}

// Load implements state.Store. Hard defaults are never stored in a file, so
// that tier always reports a miss.
func (d *Document) Load(ctx context.Context, ref state.Ref) (ntfy.Channel, state.Meta, bool, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return ntfy.Channel{}, state.Meta{}, false, err
		}
	}
	if _, err := ref.Identifier(); err != nil {
		return ntfy.Channel{}, state.Meta{}, false, err
	}

	var (
		channel ntfy.Channel
		key     string
		ok      bool
	)
	switch ref.Scope.Name {
	case opts.ScopeInstance:
		name, _ := ref.Scope.Metadata[state.NotifierKey].(string)
		channel, ok = d.Notify[name]
		ok = ok && strings.EqualFold(channel.Type, ref.Domain)
		key = "notify." + name
	case opts.ScopeDefaults:
		channel, ok = d.Defaults[strings.ToLower(ref.Domain)]
		key = "defaults.notify." + strings.ToLower(ref.Domain)
	}
	if !ok {
		return ntfy.Channel{}, state.Meta{}, false, nil
	}
	return *channel.Clone(), state.Meta{SnapshotID: d.Source + "#" + key}, true, nil
}
