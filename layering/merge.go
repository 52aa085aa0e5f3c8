package layering

import "reflect"

// MergeLayers folds snapshots ordered strongest first into one value. A
// stronger layer keeps every field it sets; nil pointers, nil maps, nil
// slices and zero scalars (the empty string included) count as unset and
// are filled from the next weaker layer. Maps merge key by key.
func MergeLayers[T any](layers ...T) T {
	var zero T
	if len(layers) == 0 {
		return zero
	}
	merged := cloneValue(reflect.ValueOf(layers[len(layers)-1]))
	for i := len(layers) - 2; i >= 0; i-- {
		merged = overlay(reflect.ValueOf(layers[i]), merged)
	}
	if !merged.IsValid() {
		return zero
	}
	target := reflect.TypeOf(zero)
	switch {
	case target == nil:
		// T is an interface type.
		out, _ := merged.Interface().(T)
		return out
	case merged.Type() != target:
		merged = merged.Convert(target)
	}
	return merged.Interface().(T)
}

// overlay returns a fresh value holding top with its unset parts taken
// from base.
func overlay(top, base reflect.Value) reflect.Value {
	if !top.IsValid() {
		return cloneValue(base)
	}
	if unset(top) {
		return fallback(base, top)
	}
	switch top.Kind() {
	case reflect.Pointer:
		out := reflect.New(top.Type().Elem())
		out.Elem().Set(overlay(top.Elem(), deref(base, reflect.Pointer)))
		return out
	case reflect.Interface:
		inner := base
		if base.IsValid() && base.Kind() == reflect.Interface {
			inner = deref(base, reflect.Interface)
		}
		return overlay(top.Elem(), inner).Convert(top.Type())
	case reflect.Struct:
		return overlayStruct(top, base)
	case reflect.Map:
		return overlayMap(top, base)
	}
	return cloneValue(top)
}

func overlayStruct(top, base reflect.Value) reflect.Value {
	out := reflect.New(top.Type()).Elem()
	sameType := base.IsValid() && base.Type() == top.Type()
	for i := 0; i < top.NumField(); i++ {
		field := out.Field(i)
		if !field.CanSet() {
			continue
		}
		var baseField reflect.Value
		if sameType {
			baseField = base.Field(i)
		}
		field.Set(overlay(top.Field(i), baseField))
	}
	return out
}

func overlayMap(top, base reflect.Value) reflect.Value {
	out := reflect.MakeMapWithSize(top.Type(), top.Len())
	if base.IsValid() && base.Type() == top.Type() && !base.IsNil() {
		for iter := base.MapRange(); iter.Next(); {
			out.SetMapIndex(iter.Key(), cloneValue(iter.Value()))
		}
	}
	for iter := top.MapRange(); iter.Next(); {
		key := iter.Key()
		out.SetMapIndex(key, overlay(iter.Value(), out.MapIndex(key)))
	}
	return out
}

// unset reports whether v leaves its slot open for a weaker layer. Structs
// are never unset as a whole; their fields are merged one by one.
func unset(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return v.IsNil()
	case reflect.Struct:
		return false
	}
	return v.IsZero()
}

// deref unwraps a non-nil pointer or interface of the given kind, or
// returns the invalid Value.
func deref(v reflect.Value, kind reflect.Kind) reflect.Value {
	if v.IsValid() && v.Kind() == kind && !v.IsNil() {
		return v.Elem()
	}
	return reflect.Value{}
}

// fallback clones base when it can stand in for top, otherwise top.
func fallback(base, top reflect.Value) reflect.Value {
	if base.IsValid() && base.Type().AssignableTo(top.Type()) {
		return cloneValue(base)
	}
	return cloneValue(top)
}
