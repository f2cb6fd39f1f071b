package model

import "reflect"

func cloneValues(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = deepCopy(v)
	}
	return out
}

func deepCopy(value any) any {
	switch typed := value.(type) {
	case nil, string, bool, int, int64, float64:
		return typed
	case map[string]any:
		return cloneValues(typed)
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = deepCopy(v)
		}
		return clone
	case []string:
		clone := make([]string, len(typed))
		copy(clone, typed)
		return clone
	case map[string]string:
		clone := make(map[string]string, len(typed))
		for k, v := range typed {
			clone[k] = v
		}
		return clone
	default:
		return copyReflect(reflect.ValueOf(value)).Interface()
	}
}

// copyReflect rebuilds slices, arrays, maps and pointers so the copy shares no
// backing storage with v. Other kinds are returned as is.
func copyReflect(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		clone := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			clone.Index(i).Set(copyReflect(v.Index(i)))
		}
		return clone
	case reflect.Array:
		clone := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			clone.Index(i).Set(copyReflect(v.Index(i)))
		}
		return clone
	case reflect.Map:
		if v.IsNil() {
			return v
		}
		clone := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			clone.SetMapIndex(iter.Key(), copyReflect(iter.Value()))
		}
		return clone
	case reflect.Pointer:
		if v.IsNil() {
			return v
		}
		clone := reflect.New(v.Type().Elem())
		clone.Elem().Set(copyReflect(v.Elem()))
		return clone
	case reflect.Interface:
		if v.IsNil() {
			return v
		}
		inner := copyReflect(v.Elem())
		clone := reflect.New(v.Type()).Elem()
		clone.Set(inner)
		return clone
	default:
		return v
	}
}
