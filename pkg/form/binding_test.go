package form

import (
	"reflect"
	"sync"
	"testing"
)

func TestMapBindingGet(t *testing.T) {
	t.Parallel()

	binding := NewMapBinding(map[string]any{
		"notify": map[string]any{
			"alerts": map[string]any{
				"params": map[string]any{"scheme": "HTTP"},
			},
		},
	})

	cases := map[string]struct {
		path string
		want any
	}{
		"leaf":            {path: "notify.alerts.params.scheme", want: "HTTP"},
		"missing leaf":    {path: "notify.alerts.params.priority", want: nil},
		"missing parent":  {path: "notify.other.params.scheme", want: nil},
		"through a value": {path: "notify.alerts.params.scheme.value", want: nil},
		"empty path":      {path: "", want: nil},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if got := binding.Get(tc.path); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("want %#v, got %#v", tc.want, got)
			}
		})
	}
}

func TestMapBindingSetCreatesPathsAndTracksDirty(t *testing.T) {
	binding := NewMapBinding(nil)

	binding.Set("notify.alerts.params.priority", "default")
	binding.Set("notify.alerts.params.scheme", "https")

	if got := binding.Get("notify.alerts.params.priority"); got != "default" {
		t.Fatalf("want default, got %#v", got)
	}
	wantDirty := []string{"notify.alerts.params.priority", "notify.alerts.params.scheme"}
	if got := binding.Dirty(); !reflect.DeepEqual(got, wantDirty) {
		t.Fatalf("dirty mismatch\nwant: %v\ngot:  %v", wantDirty, got)
	}
	if binding.IsDirty("notify.alerts.url_fields.host") {
		t.Fatalf("untouched path reported dirty")
	}
}

func TestMapBindingIsolation(t *testing.T) {
	initial := map[string]any{"params": map[string]any{"scheme": "http"}}
	binding := NewMapBinding(initial)

	initial["params"].(map[string]any)["scheme"] = "ftp"
	if got := binding.Get("params.scheme"); got != "http" {
		t.Fatalf("binding aliases its initial map, got %#v", got)
	}

	params := binding.Get("params").(map[string]any)
	params["scheme"] = "ftp"
	values := binding.Values()
	values["params"].(map[string]any)["scheme"] = "ftp"
	if got := binding.Get("params.scheme"); got != "http" {
		t.Fatalf("binding leaked internal state, got %#v", got)
	}
}

func TestMapBindingConcurrentAccess(t *testing.T) {
	binding := NewMapBinding(nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			binding.Set("notify.alerts.params.scheme", "https")
			_ = binding.Get("notify.alerts.params.scheme")
			_ = binding.Values()
		}()
	}
	wg.Wait()
	if got := binding.Get("notify.alerts.params.scheme"); got != "https" {
		t.Fatalf("want https, got %#v", got)
	}
}
