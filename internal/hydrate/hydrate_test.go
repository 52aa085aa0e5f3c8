package hydrate

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestDecoderFromFixtures(t *testing.T) {
	fx := loadFixture(t, "hydrate_channels.json")

	for _, tc := range fx.Cases {
		t.Run(tc.Name, func(t *testing.T) {
			decoder := NewDecoder[channelSnapshot](buildOptions(tc)...)

			ctx := Context{
				Notifier: tc.Notifier,
				Scope:    tc.Scope,
			}

			result, err := decoder.Decode(ctx, tc.Input)

			if tc.ExpectErr != "" {
				if err == nil {
					t.Fatalf("expected error %q, got nil", tc.ExpectErr)
				}
				if !strings.Contains(err.Error(), tc.ExpectErr) {
					t.Fatalf("expected error containing %q, got %v", tc.ExpectErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected decode error: %v", err)
			}

			if !reflect.DeepEqual(tc.Expect, result) {
				t.Fatalf("decoded snapshot mismatch:\nwant: %#v\n got: %#v", tc.Expect, result)
			}
		})
	}
}

func TestDecoderDoesNotMutateInput(t *testing.T) {
	input := map[string]any{"Params": map[string]any{"Cache": true}}
	decoder := NewDecoder[channelSnapshot](
		WithPreHook[channelSnapshot](LowerKeys),
		WithPreHook[channelSnapshot](StringifyLeaves),
	)

	if _, err := decoder.Decode(Context{Notifier: "alerts"}, input); err != nil {
		t.Fatalf("decode: %v", err)
	}
	params, ok := input["Params"].(map[string]any)
	if !ok || params["Cache"] != true {
		t.Fatalf("input mutated: %#v", input)
	}
}

func TestDecodeErrorStages(t *testing.T) {
	boom := errors.New("boom")
	cases := map[string]struct {
		decoder *Decoder[channelSnapshot]
		payload map[string]any
		stage   Stage
		cause   error
	}{
		"nil payload": {
			decoder: NewDecoder[channelSnapshot](),
			stage:   StageInput,
			cause:   ErrNilPayload,
		},
		"pre hook": {
			decoder: NewDecoder[channelSnapshot](WithPreHook[channelSnapshot](func(Context, map[string]any) (map[string]any, error) {
				return nil, boom
			})),
			payload: map[string]any{},
			stage:   StagePre,
			cause:   boom,
		},
		"decode step": {
			decoder: NewDecoder[channelSnapshot](WithDecodeFunc[channelSnapshot](func(Context, map[string]any) (channelSnapshot, error) {
				return channelSnapshot{}, boom
			})),
			payload: map[string]any{},
			stage:   StageDecode,
			cause:   boom,
		},
		"post hook": {
			decoder: NewDecoder[channelSnapshot](WithPostHook[channelSnapshot](func(Context, *channelSnapshot) error {
				return boom
			})),
			payload: map[string]any{"type": "ntfy"},
			stage:   StagePost,
			cause:   boom,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := tc.decoder.Decode(Context{Notifier: "alerts", Scope: "instance"}, tc.payload)
			var decodeErr *DecodeError
			if !errors.As(err, &decodeErr) {
				t.Fatalf("expected DecodeError, got %T (%v)", err, err)
			}
			if decodeErr.Stage != tc.stage || !errors.Is(err, tc.cause) {
				t.Fatalf("want stage %s wrapping %v, got %v", tc.stage, tc.cause, err)
			}
			if decodeErr.Context.Notifier != "alerts" {
				t.Fatalf("expected context to be kept, got %+v", decodeErr.Context)
			}
		})
	}
}

func TestContextLabel(t *testing.T) {
	cases := map[string]struct {
		ctx  Context
		want string
	}{
		"both":          {ctx: Context{Notifier: "alerts", Scope: "instance"}, want: "instance/alerts"},
		"notifier only": {ctx: Context{Notifier: "alerts"}, want: "alerts"},
		"scope only":    {ctx: Context{Scope: "defaults"}, want: "defaults"},
		"empty":         {ctx: Context{}, want: ""},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if got := tc.ctx.label(); got != tc.want {
				t.Fatalf("want %q, got %q", tc.want, got)
			}
		})
	}
}

func buildOptions(tc fixtureCase) []DecoderOption[channelSnapshot] {
	options := []DecoderOption[channelSnapshot]{}

	for _, optName := range tc.Options {
		switch optName {
		case "use_number":
			options = append(options, WithUseNumber[channelSnapshot]())
		case "disallow_unknown":
			options = append(options, WithDisallowUnknownFields[channelSnapshot]())
		}
	}

	for _, hookName := range tc.PreHooks {
		switch hookName {
		case "lower_keys":
			options = append(options, WithPreHook[channelSnapshot](LowerKeys))
		case "stringify":
			options = append(options, WithPreHook[channelSnapshot](StringifyLeaves))
		}
	}

	for _, hookName := range tc.PostHooks {
		switch hookName {
		case "default_type":
			options = append(options, WithPostHook[channelSnapshot](defaultTypePostHook))
		}
	}

	if tc.Decode == "weak" {
		options = append(options, WithWeakDecoding[channelSnapshot]())
	}

	return options
}

func defaultTypePostHook(_ Context, snapshot *channelSnapshot) error {
	if snapshot == nil {
		return errors.New("snapshot is nil")
	}
	if snapshot.Type == "" {
		snapshot.Type = "ntfy"
	}
	return nil
}

type fixture struct {
	Description string        `json:"description"`
	Cases       []fixtureCase `json:"cases"`
}

type fixtureCase struct {
	Name      string          `json:"name"`
	Notifier  string          `json:"notifier"`
	Scope     string          `json:"scope"`
	Input     map[string]any  `json:"input"`
	Expect    channelSnapshot `json:"expect"`
	ExpectErr string          `json:"expectErr"`
	PreHooks  []string        `json:"preHooks"`
	PostHooks []string        `json:"postHooks"`
	Options   []string        `json:"options"`
	Decode    string          `json:"decode"`
}

type channelSnapshot struct {
	Type      string            `json:"type,omitempty" mapstructure:"type"`
	Options   map[string]string `json:"options,omitempty" mapstructure:"options"`
	URLFields map[string]string `json:"url_fields,omitempty" mapstructure:"url_fields"`
	Params    map[string]string `json:"params,omitempty" mapstructure:"params"`
}

func loadFixture(t *testing.T, name string) fixture {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("failed to read hydrate fixture %q: %v", name, err)
	}
	var fx fixture
	if err := json.Unmarshal(raw, &fx); err != nil {
		t.Fatalf("failed to unmarshal hydrate fixture %q: %v", name, err)
	}
	return fx
}
