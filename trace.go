package opts

import "encoding/json"

// Trace explains how one path resolved: what every layer held, strongest
// first.
type Trace struct {
	Path   string       `json:"path"`
	Layers []Provenance `json:"layers"`
}

// Provenance is one layer's entry in a Trace. Found is false when the layer
// held nothing or the empty string.
type Provenance struct {
	Scope      Scope  `json:"scope"`
	SnapshotID string `json:"snapshot_id,omitempty"`
	Path       string `json:"path"`
	Value      string `json:"value,omitempty"`
	Found      bool   `json:"found"`
}

// Winner returns the strongest layer with a value.
func (t Trace) Winner() (Provenance, bool) {
	for _, p := range t.Layers {
		if p.Found {
			return p, true
		}
	}
	return Provenance{}, false
}

// Inherited is true when a weaker layer supplied the value, i.e. the
// strongest layer left the path unset.
func (t Trace) Inherited() bool {
	winner, ok := t.Winner()
	return ok && winner.Scope.Name != t.Layers[0].Scope.Name
}

// ToJSON encodes the trace.
func (t Trace) ToJSON() ([]byte, error) {
	return json.Marshal(t)
}

// TraceFromJSON decodes a payload produced by ToJSON.
func TraceFromJSON(payload []byte) (Trace, error) {
	var trace Trace
	err := json.Unmarshal(payload, &trace)
	return trace, err
}
