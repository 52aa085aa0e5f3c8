package ntfy

import (
	"testing"

	"github.com/goliatone/go-notify-options/pkg/form"
)

func TestEditorFieldsResolveDefaults(t *testing.T) {
	editor, err := New("alerts", form.NewMapBinding(nil), Tiers{
		Instance: &Channel{
			URLFields: map[string]string{"topic": "releases"},
			Params:    map[string]string{"icon": ""},
		},
		Defaults: &Channel{
			URLFields: map[string]string{"tags": "tada"},
			Params:    map[string]string{"firebase": "no", "icon": "https://example.com/icon.png", "priority": "HIGH"},
		},
		HardDefaults: HardDefaults(),
	})
	if err != nil {
		t.Fatalf("new editor: %v", err)
	}

	fields := editor.Fields()
	if len(fields) != len(fieldSpecs) {
		t.Fatalf("expected %d fields, got %d", len(fieldSpecs), len(fields))
	}
	if fields[0].Section != SectionOptions || fields[len(fields)-1].Section != SectionParams {
		t.Fatalf("fields out of section order: first=%s last=%s", fields[0].Section, fields[len(fields)-1].Section)
	}

	cases := map[string]struct {
		rel         string
		kind        FieldKind
		required    bool
		def         string
		boolDefault bool
	}{
		"host from hard defaults": {rel: "url_fields.host", kind: KindText, required: true, def: "ntfy.sh"},
		"topic from instance":     {rel: "url_fields.topic", kind: KindText, required: true, def: "releases"},
		"port unset":              {rel: "url_fields.port", kind: KindNumber},
		"tags from defaults":      {rel: "url_fields.tags", kind: KindText, def: "tada"},
		"icon skips empty tier":   {rel: "params.icon", kind: KindPreview, def: "https://example.com/icon.png"},
		"priority lower-cased":    {rel: "params.priority", kind: KindSelect, def: "high"},
		"cache defaults to true":  {rel: "params.cache", kind: KindBool, boolDefault: true},
		"firebase disabled":       {rel: "params.firebase", kind: KindBool, boolDefault: false},
		"max tries":               {rel: "options.max_tries", kind: KindNumber, def: "3"},
		"actions string default":  {rel: "params.actions", kind: KindActions},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			view, ok := editor.Field(tc.rel)
			if !ok {
				t.Fatalf("field %s not found", tc.rel)
			}
			if view.Kind != tc.kind || view.Required != tc.required {
				t.Fatalf("unexpected control %+v", view)
			}
			if view.Default != tc.def {
				t.Fatalf("want default %q, got %q", tc.def, view.Default)
			}
			if view.BoolDefault != tc.boolDefault {
				t.Fatalf("want bool default %v, got %v", tc.boolDefault, view.BoolDefault)
			}
		})
	}

	priority, _ := editor.Field("params.priority")
	if len(priority.Options) != 6 || priority.Options[0].Label != "High (default)" {
		t.Fatalf("unexpected priority options %#v", priority.Options)
	}
	if _, ok := editor.Field("params.unknown"); ok {
		t.Fatalf("unknown field should not be found")
	}
}

func TestEditorFieldsBindUnderNotifierName(t *testing.T) {
	editor, err := New("releases", form.NewMapBinding(nil), Tiers{})
	if err != nil {
		t.Fatalf("new editor: %v", err)
	}
	for _, view := range editor.Fields() {
		if len(view.Path) <= len("releases.") || view.Path[:len("releases.")] != "releases." {
			t.Fatalf("field %q not bound under notifier", view.Path)
		}
		if view.Kind == KindSelect && view.Default != "" {
			t.Fatalf("select %s should have no default without tiers", view.Path)
		}
	}
}

func TestEditorURLFieldsIgnoreParamsDefaults(t *testing.T) {
	editor, err := New("alerts", form.NewMapBinding(nil), Tiers{
		Defaults: &Channel{
			URLFields: map[string]string{"title": "Release"},
			Params: map[string]string{
				"tags":     "warning",
				"attach":   "https://example.com/a.png",
				"filename": "a.png",
				"email":    "ops@example.com",
				"title":    "From params",
				"click":    "https://example.com",
			},
		},
	})
	if err != nil {
		t.Fatalf("new editor: %v", err)
	}

	cases := map[string]struct {
		rel  string
		want string
	}{
		"tags":     {rel: "url_fields.tags"},
		"attach":   {rel: "url_fields.attach"},
		"filename": {rel: "url_fields.filename"},
		"email":    {rel: "url_fields.email"},
		"click":    {rel: "url_fields.click"},
		"title":    {rel: "url_fields.title", want: "Release"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			view, ok := editor.Field(tc.rel)
			if !ok {
				t.Fatalf("field %s not found", tc.rel)
			}
			if view.Default != tc.want {
				t.Fatalf("want default %q, got %q", tc.want, view.Default)
			}
		})
	}
	if _, ok := editor.Field("params.tags"); ok {
		t.Fatalf("tags must bind under url_fields only")
	}
}
