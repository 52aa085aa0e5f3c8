package ntfy

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	opts "github.com/goliatone/go-notify-options"
	"github.com/goliatone/go-notify-options/pkg/activity"
	"github.com/goliatone/go-notify-options/pkg/form"
)

type editorFixture struct {
	Cases []editorCase `json:"cases"`
}

type editorCase struct {
	Name                  string         `json:"name"`
	Notifier              string         `json:"notifier"`
	Instance              *Channel       `json:"instance"`
	Defaults              *Channel       `json:"defaults"`
	HardDefaults          *Channel       `json:"hard_defaults"`
	Form                  map[string]any `json:"form"`
	ExpectSchemeOptions   opts.OptionSet `json:"expect_scheme_options"`
	ExpectPriorityOptions opts.OptionSet `json:"expect_priority_options"`
	ExpectForm            map[string]any `json:"expect_form"`
	ExpectWrites          []string       `json:"expect_writes"`
}

func loadEditorFixture(t *testing.T, name string) editorFixture {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	var fx editorFixture
	if err := json.Unmarshal(raw, &fx); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return fx
}

func TestEditorInitializeFromFixture(t *testing.T) {
	fx := loadEditorFixture(t, "editor_initialize.json")

	for _, tc := range fx.Cases {
		t.Run(tc.Name, func(t *testing.T) {
			binding := form.NewMapBinding(tc.Form)
			editor, err := New(tc.Notifier, binding, Tiers{
				Instance:     tc.Instance,
				Defaults:     tc.Defaults,
				HardDefaults: tc.HardDefaults,
			})
			if err != nil {
				t.Fatalf("new editor: %v", err)
			}

			if err := editor.Initialize(context.Background()); err != nil {
				t.Fatalf("initialize: %v", err)
			}

			if got := editor.SchemeOptions(); !reflect.DeepEqual(got, tc.ExpectSchemeOptions) {
				t.Fatalf("scheme options mismatch\nwant: %#v\ngot:  %#v", tc.ExpectSchemeOptions, got)
			}
			if got := editor.PriorityOptions(); !reflect.DeepEqual(got, tc.ExpectPriorityOptions) {
				t.Fatalf("priority options mismatch\nwant: %#v\ngot:  %#v", tc.ExpectPriorityOptions, got)
			}
			if got := binding.Values(); !reflect.DeepEqual(got, tc.ExpectForm) {
				t.Fatalf("form mismatch\nwant: %#v\ngot:  %#v", tc.ExpectForm, got)
			}
			if got := binding.Dirty(); !reflect.DeepEqual(got, tc.ExpectWrites) {
				t.Fatalf("writes mismatch\nwant: %v\ngot:  %v", tc.ExpectWrites, got)
			}
		})
	}
}

type countingBinding struct {
	*form.MapBinding
	sets int
}

func (b *countingBinding) Set(path string, value any) {
	b.sets++
	b.MapBinding.Set(path, value)
}

func TestEditorInitializeRunsOnce(t *testing.T) {
	binding := &countingBinding{MapBinding: form.NewMapBinding(nil)}
	editor, err := New("alerts", binding, Tiers{})
	if err != nil {
		t.Fatalf("new editor: %v", err)
	}

	if err := editor.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if binding.sets != 2 {
		t.Fatalf("expected two write-backs, got %d", binding.sets)
	}

	binding.MapBinding.Set("alerts.params.scheme", "FTP")
	if err := editor.Initialize(context.Background()); err != nil {
		t.Fatalf("second initialize: %v", err)
	}
	if binding.sets != 2 {
		t.Fatalf("second initialize wrote to the form, sets=%d", binding.sets)
	}
	if got := binding.Get("alerts.params.scheme"); got != "FTP" {
		t.Fatalf("user edit was overwritten, got %#v", got)
	}
}

func TestEditorInitializeTreatsNonStringAsUnset(t *testing.T) {
	binding := form.NewMapBinding(map[string]any{
		"alerts": map[string]any{"params": map[string]any{"priority": 5}},
	})
	editor, err := New("alerts", binding, Tiers{})
	if err != nil {
		t.Fatalf("new editor: %v", err)
	}
	if err := editor.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if got := binding.Get("alerts.params.priority"); got != FallbackPriority {
		t.Fatalf("want %q, got %#v", FallbackPriority, got)
	}
}

func TestEditorInitializeEmitsActivityAndLogs(t *testing.T) {
	capture := &activity.CaptureHook{}
	emitter := activity.NewEmitter(activity.Hooks{capture}, activity.Config{Enabled: true})
	var logged []LogEvent

	binding := form.NewMapBinding(map[string]any{
		"alerts": map[string]any{"params": map[string]any{"priority": "HIGH"}},
	})
	editor, err := New("alerts", binding, Tiers{},
		WithActivity(emitter),
		WithActor("cli"),
		WithLogger(LoggerFunc(func(event LogEvent) { logged = append(logged, event) })),
	)
	if err != nil {
		t.Fatalf("new editor: %v", err)
	}
	if err := editor.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	wantVerbs := []string{"ntfy.field.defaulted", "ntfy.field.normalized"}
	if got := capture.Verbs(); !reflect.DeepEqual(got, wantVerbs) {
		t.Fatalf("verbs mismatch\nwant: %v\ngot:  %v", wantVerbs, got)
	}
	normalized := capture.Events[1]
	if normalized.ObjectID != "alerts.params.priority" || normalized.ActorID != "cli" {
		t.Fatalf("unexpected event %+v", normalized)
	}
	if normalized.Metadata["old_value"] != "HIGH" || normalized.Metadata["new_value"] != "high" {
		t.Fatalf("unexpected metadata %+v", normalized.Metadata)
	}

	if len(logged) != 2 {
		t.Fatalf("expected two log events, got %d", len(logged))
	}
	if logged[0].Action != ActionDefaulted || logged[0].NewValue != FallbackScheme {
		t.Fatalf("unexpected scheme log %+v", logged[0])
	}
	if logged[1].Action != ActionNormalized || logged[1].OldValue != "HIGH" {
		t.Fatalf("unexpected priority log %+v", logged[1])
	}
}

func TestEditorInitializeReturnsActivityErrorsAfterWriting(t *testing.T) {
	boom := errors.New("sink down")
	hook := activity.HookFunc(func(context.Context, activity.Event) error { return boom })
	emitter := activity.NewEmitter(activity.Hooks{hook}, activity.Config{Enabled: true})

	binding := form.NewMapBinding(nil)
	editor, err := New("alerts", binding, Tiers{}, WithActivity(emitter))
	if err != nil {
		t.Fatalf("new editor: %v", err)
	}

	err = editor.Initialize(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected activity error, got %v", err)
	}
	if got := binding.Get("alerts.params.scheme"); got != FallbackScheme {
		t.Fatalf("write-back skipped, got %#v", got)
	}
	if err := editor.Initialize(context.Background()); err != nil {
		t.Fatalf("second initialize should be a no-op, got %v", err)
	}
}

func TestNewValidatesArguments(t *testing.T) {
	if _, err := New(" ", form.NewMapBinding(nil), Tiers{}); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}
	if _, err := New("alerts", nil, Tiers{}); !errors.Is(err, ErrBindingRequired) {
		t.Fatalf("expected ErrBindingRequired, got %v", err)
	}
}

func TestEditorOptionListsAreStable(t *testing.T) {
	editor, err := New("alerts", form.NewMapBinding(nil), Tiers{HardDefaults: HardDefaults()})
	if err != nil {
		t.Fatalf("new editor: %v", err)
	}
	first := editor.PriorityOptions()
	first[0].Label = "changed"
	second := editor.PriorityOptions()
	if second[0].Label != "Default (default)" {
		t.Fatalf("option list leaked state, got %q", second[0].Label)
	}
	if got := PriorityOptions(); len(got) != 5 || got[0].Value != "min" {
		t.Fatalf("package option set changed: %#v", got)
	}
}

func TestEditorTraceAndDefault(t *testing.T) {
	editor, err := New("alerts", form.NewMapBinding(nil), Tiers{
		Instance:     &Channel{URLFields: map[string]string{"host": ""}},
		Defaults:     &Channel{URLFields: map[string]string{"host": "push.example.com"}},
		HardDefaults: HardDefaults(),
	})
	if err != nil {
		t.Fatalf("new editor: %v", err)
	}
	if got := editor.Default("url_fields.host"); got != "push.example.com" {
		t.Fatalf("want push.example.com, got %q", got)
	}
	trace := editor.Trace("url_fields.host")
	winner, ok := trace.Winner()
	if !ok || winner.Scope.Name != opts.ScopeDefaults {
		t.Fatalf("unexpected winner %+v", winner)
	}
	if len(trace.Layers) != 3 || trace.Layers[2].Value != "ntfy.sh" {
		t.Fatalf("unexpected trace %+v", trace)
	}
	if got := editor.Path("params.scheme"); got != "alerts.params.scheme" {
		t.Fatalf("unexpected path %q", got)
	}
}
