package ntfy

import (
	"strings"

	opts "github.com/goliatone/go-notify-options"
)

// FieldKind selects the control a field is rendered with.
type FieldKind string

const (
	KindText    FieldKind = "text"
	KindNumber  FieldKind = "number"
	KindSelect  FieldKind = "select"
	KindBool    FieldKind = "bool"
	KindPreview FieldKind = "preview"
	KindActions FieldKind = "actions"
)

// Field sections, in display order.
const (
	SectionOptions   = "options"
	SectionURLFields = "url_fields"
	SectionParams    = "params"
)

// FieldView declares one control of the editor: where it is bound, how it is
// labelled and which default it shows when the user leaves it empty.
type FieldView struct {
	Path        string         `json:"path"`
	Section     string         `json:"section"`
	Label       string         `json:"label"`
	Tooltip     string         `json:"tooltip,omitempty"`
	Kind        FieldKind      `json:"kind"`
	Required    bool           `json:"required,omitempty"`
	Default     string         `json:"default,omitempty"`
	BoolDefault bool           `json:"bool_default,omitempty"`
	Options     opts.OptionSet `json:"options,omitempty"`
}

type fieldSpec struct {
	rel      string
	section  string
	label    string
	tooltip  string
	kind     FieldKind
	required bool
}

var fieldSpecs = []fieldSpec{
	{rel: "options.message", section: SectionOptions, label: "Message", kind: KindText},
	{rel: "options.max_tries", section: SectionOptions, label: "Max tries", tooltip: "Number of times to try sending", kind: KindNumber},
	{rel: "options.delay", section: SectionOptions, label: "Delay", tooltip: "Delay before sending, e.g. 1h2m3s", kind: KindText},

	{rel: "url_fields.username", section: SectionURLFields, label: "Username", kind: KindText},
	{rel: "url_fields.password", section: SectionURLFields, label: "Password", kind: KindText},
	{rel: "url_fields.host", section: SectionURLFields, label: "Host", kind: KindText, required: true},
	{rel: "url_fields.port", section: SectionURLFields, label: "Port", kind: KindNumber},
	{rel: "url_fields.topic", section: SectionURLFields, label: "Topic", tooltip: "Target topic", kind: KindText, required: true},

	{rel: "params.scheme", section: SectionParams, label: "Scheme", tooltip: "Server protocol", kind: KindSelect},
	{rel: "params.priority", section: SectionParams, label: "Priority", kind: KindSelect},
	{rel: "url_fields.tags", section: SectionParams, label: "Tags", tooltip: "Comma-separated list of tags that may or may not map to emojis", kind: KindText},
	{rel: "url_fields.attach", section: SectionParams, label: "Attach", tooltip: "URL of an attachment", kind: KindText},
	{rel: "url_fields.filename", section: SectionParams, label: "Filename", tooltip: "File name of the attachment", kind: KindText},
	{rel: "url_fields.email", section: SectionParams, label: "E-mail", tooltip: "E-mail address to send to", kind: KindText},
	{rel: "url_fields.title", section: SectionParams, label: "Title", kind: KindText},
	{rel: "url_fields.click", section: SectionParams, label: "Click", tooltip: "URL to open when notification is clicked", kind: KindText},
	{rel: "params.icon", section: SectionParams, label: "Icon", tooltip: "URL to an icon", kind: KindPreview},
	{rel: "params.actions", section: SectionParams, label: "Actions", tooltip: "Custom action buttons for notifications", kind: KindActions},
	{rel: "params.cache", section: SectionParams, label: "Cache", tooltip: "Cache messages", kind: KindBool},
	{rel: "params.firebase", section: SectionParams, label: "Firebase", tooltip: "Send to Firebase Cloud Messaging", kind: KindBool},
}

// Fields describes every control of the editor in display order.
func (e *Editor) Fields() []FieldView {
	views := make([]FieldView, 0, len(fieldSpecs))
	for _, spec := range fieldSpecs {
		view := FieldView{
			Path:     e.Path(spec.rel),
			Section:  spec.section,
			Label:    spec.label,
			Tooltip:  spec.tooltip,
			Kind:     spec.kind,
			Required: spec.required,
		}
		switch spec.kind {
		case KindSelect:
			view.Default = e.selectDefaults[spec.rel]
			view.Options = e.selectOptions(spec.rel)
		case KindBool:
			view.BoolDefault = opts.ResolveBool(true, e.stack.Candidates(spec.rel)...)
		default:
			view.Default = e.Default(spec.rel)
		}
		views = append(views, view)
	}
	return views
}

// Field returns the view bound to rel.
func (e *Editor) Field(rel string) (FieldView, bool) {
	for _, view := range e.Fields() {
		if view.Path == e.Path(rel) {
			return view, true
		}
	}
	return FieldView{}, false
}

func (e *Editor) selectOptions(rel string) opts.OptionSet {
	switch strings.TrimSpace(rel) {
	case "params.scheme":
		return e.SchemeOptions()
	case "params.priority":
		return e.PriorityOptions()
	default:
		return nil
	}
}
