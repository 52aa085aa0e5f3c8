package hydrate

import (
	"fmt"
	"strconv"
	"strings"
)

// LowerKeys lower-cases every map key, recursively. Two keys that collide
// once folded are rejected.
func LowerKeys(_ Context, payload map[string]any) (map[string]any, error) {
	return lowerKeys(payload, "")
}

func lowerKeys(in map[string]any, prefix string) (map[string]any, error) {
	out := make(map[string]any, len(in))
	for key, value := range in {
		folded := strings.ToLower(key)
		if _, exists := out[folded]; exists {
			return nil, fmt.Errorf("duplicate key %q", prefix+folded)
		}
		if nested, ok := value.(map[string]any); ok {
			lowered, err := lowerKeys(nested, prefix+folded+".")
			if err != nil {
				return nil, err
			}
			value = lowered
		}
		out[folded] = value
	}
	return out, nil
}

// StringifyLeaves rewrites every scalar leaf below the top level as a
// string. Nulls become "" and lists are rejected.
func StringifyLeaves(_ Context, payload map[string]any) (map[string]any, error) {
	for key, value := range payload {
		nested, ok := value.(map[string]any)
		if !ok {
			continue
		}
		converted, err := stringify(nested, key+".")
		if err != nil {
			return nil, err
		}
		payload[key] = converted
	}
	return payload, nil
}

func stringify(in map[string]any, prefix string) (map[string]any, error) {
	out := make(map[string]any, len(in))
	for key, value := range in {
		switch v := value.(type) {
		case nil:
			out[key] = ""
		case string:
			out[key] = v
		case bool:
			out[key] = strconv.FormatBool(v)
		case float64:
			out[key] = strconv.FormatFloat(v, 'f', -1, 64)
		case map[string]any:
			nested, err := stringify(v, prefix+key+".")
			if err != nil {
				return nil, err
			}
			out[key] = nested
		default:
			return nil, fmt.Errorf("%s%s: unsupported value of type %T", prefix, key, value)
		}
	}
	return out, nil
}
