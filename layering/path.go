package layering

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Split breaks a dot-delimited path into its segments, dropping empty ones.
func Split(path string) []string {
	raw := strings.Split(path, ".")
	segments := raw[:0]
	for _, segment := range raw {
		if segment = strings.TrimSpace(segment); segment != "" {
			segments = append(segments, segment)
		}
	}
	return segments
}

// Join builds a dot-delimited path, skipping empty segments.
func Join(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, segment := range segments {
		if segment != "" {
			parts = append(parts, segment)
		}
	}
	return strings.Join(parts, ".")
}

// Lookup walks value along path. Map keys must match exactly; struct fields
// match their json tag name or, failing that, their Go name ignoring case.
// The boolean reports whether every segment was present.
func Lookup(value any, path string) (any, bool) {
	segments := Split(path)
	if len(segments) == 0 {
		return value, value != nil
	}
	current := reflect.ValueOf(value)
	for _, segment := range segments {
		current = indirect(current)
		if !current.IsValid() {
			return nil, false
		}
		next, ok := child(current, segment)
		if !ok {
			return nil, false
		}
		current = next
	}
	current = indirect(current)
	if !current.IsValid() {
		return nil, false
	}
	return current.Interface(), true
}

// LookupString is Lookup with the result rendered as a string. Missing paths
// and nil values yield the empty string.
func LookupString(value any, path string) string {
	found, ok := Lookup(value, path)
	if !ok {
		return ""
	}
	return Stringify(found)
}

// Stringify renders scalar leaves the way configuration files spell them.
func Stringify(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case fmt.Stringer:
		return typed.String()
	default:
		return fmt.Sprint(typed)
	}
}

// Assign stores value at path inside tree, creating intermediate maps as
// needed. Intermediate scalars are replaced by maps.
func Assign(tree map[string]any, path string, value any) {
	segments := Split(path)
	if tree == nil || len(segments) == 0 {
		return
	}
	current := tree
	for _, segment := range segments[:len(segments)-1] {
		next, ok := current[segment].(map[string]any)
		if !ok {
			next = map[string]any{}
			current[segment] = next
		}
		current = next
	}
	current[segments[len(segments)-1]] = value
}

// Leaves enumerates the dot paths of every scalar leaf in value, sorted.
// Empty, non-nil maps are reported as leaves; nil maps are skipped.
func Leaves(value any) []string {
	var out []string
	collectLeaves(reflect.ValueOf(value), "", &out)
	sort.Strings(out)
	return out
}

func collectLeaves(v reflect.Value, prefix string, out *[]string) {
	v = indirect(v)
	if !v.IsValid() {
		return
	}
	switch v.Kind() {
	case reflect.Map:
		if v.IsNil() {
			return
		}
		if v.Type().Key().Kind() != reflect.String {
			appendLeaf(prefix, out)
			return
		}
		if v.Len() == 0 {
			appendLeaf(prefix, out)
			return
		}
		iter := v.MapRange()
		for iter.Next() {
			collectLeaves(iter.Value(), Join(prefix, iter.Key().String()), out)
		}
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}
			name := fieldName(field)
			if name == "-" {
				continue
			}
			collectLeaves(v.Field(i), Join(prefix, name), out)
		}
	default:
		appendLeaf(prefix, out)
	}
}

func appendLeaf(path string, out *[]string) {
	if path != "" {
		*out = append(*out, path)
	}
}

func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func child(v reflect.Value, segment string) (reflect.Value, bool) {
	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return reflect.Value{}, false
		}
		key := reflect.ValueOf(segment).Convert(v.Type().Key())
		found := v.MapIndex(key)
		if !found.IsValid() {
			return reflect.Value{}, false
		}
		return found, true
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if field.IsExported() && fieldName(field) == segment {
				return v.Field(i), true
			}
		}
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if field.IsExported() && strings.EqualFold(field.Name, segment) {
				return v.Field(i), true
			}
		}
		return reflect.Value{}, false
	default:
		return reflect.Value{}, false
	}
}

func fieldName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" {
		return field.Name
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return field.Name
	}
	return name
}
