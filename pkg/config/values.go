package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-notify-options/internal/hydrate"
	"gopkg.in/yaml.v3"
)

// formChannel is the shape a JSON form export must have. Leaves keep their
// JSON type; numbers arrive as json.Number.
type formChannel struct {
	Type      string         `json:"type,omitempty"`
	Options   map[string]any `json:"options,omitempty"`
	URLFields map[string]any `json:"url_fields,omitempty"`
	Params    map[string]any `json:"params,omitempty"`
}

func (c formChannel) values() map[string]any {
	out := map[string]any{}
	if c.Type != "" {
		out["type"] = c.Type
	}
	for key, group := range map[string]map[string]any{
		"options":    c.Options,
		"url_fields": c.URLFields,
		"params":     c.Params,
	} {
		if len(group) > 0 {
			out[key] = group
		}
	}
	return out
}

// LoadValues reads the current form values of one or more notifiers, keyed
// by notifier name. A .json file is an export of the form and must only use
// the known groups; any other file is read as YAML and taken as is.
func LoadValues(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read values %s: %w", path, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		values, err := ParseValuesJSON(raw)
		if err != nil {
			return nil, fmt.Errorf("config: values %s: %w", path, err)
		}
		return values, nil
	}
	values := map[string]any{}
	if err := yaml.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("config: parse values %s: %w", path, err)
	}
	return values, nil
}

// ParseValuesJSON decodes a JSON form export. Unknown groups are rejected.
func ParseValuesJSON(data []byte) (map[string]any, error) {
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if payload == nil {
		return map[string]any{}, nil
	}
	decoder := hydrate.NewDecoder[map[string]formChannel](
		hydrate.WithUseNumber[map[string]formChannel](),
		hydrate.WithDisallowUnknownFields[map[string]formChannel](),
	)
	channels, err := decoder.Decode(hydrate.Context{Scope: "values"}, payload)
	if err != nil {
		return nil, err
	}
	values := make(map[string]any, len(channels))
	for name, channel := range channels {
		values[name] = channel.values()
	}
	return values, nil
}
