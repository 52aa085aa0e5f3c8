package opts

import "testing"

func TestResolve(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		candidates []string
		want       string
	}{
		"instance wins":                {candidates: []string{"http", "https", "https"}, want: "http"},
		"empty instance falls through": {candidates: []string{"", "http", "https"}, want: "http"},
		"only hard default":            {candidates: []string{"", "", "https"}, want: "https"},
		"all empty":                    {candidates: []string{"", "", ""}, want: ""},
		"no candidates":                {candidates: nil, want: ""},
		"case is preserved":            {candidates: []string{"", "HIGH"}, want: "HIGH"},
		"whitespace is a value":        {candidates: []string{" ", "https"}, want: " "},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := Resolve(tc.candidates...)

			if got != tc.want {
				t.Fatalf("want %q, got %q", tc.want, got)
			}
		})
	}
}

func TestResolveReturnsFirstNonEmptyCandidate(t *testing.T) {
	values := []string{"", "a", "B"}
	for _, a := range values {
		for _, b := range values {
			for _, c := range values {
				got := Resolve(a, b, c)
				want := c
				if b != "" {
					want = b
				}
				if a != "" {
					want = a
				}
				if got != want {
					t.Fatalf("Resolve(%q, %q, %q): want %q, got %q", a, b, c, want, got)
				}
			}
		}
	}
}

func TestResolveBool(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		fallback   bool
		candidates []string
		want       bool
	}{
		"unset uses fallback":       {fallback: true, candidates: []string{"", "", ""}, want: true},
		"instance disables":         {fallback: true, candidates: []string{"no", "yes"}, want: false},
		"defaults tier disables":    {fallback: true, candidates: []string{"", "false", "yes"}, want: false},
		"upper case is understood":  {fallback: false, candidates: []string{"", "", "ON"}, want: true},
		"garbage uses fallback":     {fallback: true, candidates: []string{"maybe"}, want: true},
		"garbage hides weaker tier": {fallback: false, candidates: []string{"maybe", "yes"}, want: false},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if got := ResolveBool(tc.fallback, tc.candidates...); got != tc.want {
				t.Fatalf("want %v, got %v", tc.want, got)
			}
		})
	}
}

func TestParseBool(t *testing.T) {
	for _, raw := range []string{"true", "Yes", " on ", "1"} {
		if value, ok := ParseBool(raw); !ok || !value {
			t.Fatalf("expected %q to parse as true, got %v (ok=%v)", raw, value, ok)
		}
	}
	for _, raw := range []string{"false", "NO", "off", "0"} {
		if value, ok := ParseBool(raw); !ok || value {
			t.Fatalf("expected %q to parse as false, got %v (ok=%v)", raw, value, ok)
		}
	}
	if _, ok := ParseBool(""); ok {
		t.Fatalf("empty string should not parse")
	}
}
