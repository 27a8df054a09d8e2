package testutil

import (
	"fmt"
	"reflect"
)

// DeepEqual is like reflect.DeepEqual except that func values are only equal when both are
// nil. Use Diff to find out where two values differ.
func DeepEqual(x, y interface{}) bool {
	return Diff(x, y) == ""
}

// Diff returns "" if x and y are deeply equal, otherwise a description of the first
// difference found, prefixed by its path, such as "[2].Name: a != b". Cycles are not detected.
func Diff(x, y interface{}) string {
	return diff("", reflect.ValueOf(x), reflect.ValueOf(y))
}

func at(path string) string {
	if path == "" {
		return "value"
	}
	return path
}

func mismatch(path string, v1, v2 reflect.Value) string {
	return fmt.Sprintf("%s: %v != %v", at(path), v1, v2)
}

func diffElems(path string, v1, v2 reflect.Value) string {
	for i := 0; i < v1.Len(); i++ {
		s := diff(fmt.Sprintf("%s[%d]", path, i), v1.Index(i), v2.Index(i))
		if s != "" {
			return s
		}
	}
	return ""
}

func diff(path string, v1, v2 reflect.Value) string {
	if !v1.IsValid() || !v2.IsValid() {
		if v1.IsValid() != v2.IsValid() {
			return fmt.Sprintf("%s: one value is nil", at(path))
		}
		return ""
	}
	if v1.Type() != v2.Type() {
		return fmt.Sprintf("%s: type %s != %s", at(path), v1.Type(), v2.Type())
	}

	switch v1.Kind() {
	case reflect.Array:
		return diffElems(path, v1, v2)
	case reflect.Slice:
		if v1.IsNil() != v2.IsNil() || v1.Len() != v2.Len() {
			return mismatch(path, v1, v2)
		}
		return diffElems(path, v1, v2)
	case reflect.Interface, reflect.Ptr:
		if v1.IsNil() || v2.IsNil() {
			if v1.IsNil() != v2.IsNil() {
				return mismatch(path, v1, v2)
			}
			return ""
		}
		return diff(path, v1.Elem(), v2.Elem())
	case reflect.Struct:
		for i := 0; i < v1.NumField(); i++ {
			s := diff(path+"."+v1.Type().Field(i).Name, v1.Field(i), v2.Field(i))
			if s != "" {
				return s
			}
		}
		return ""
	case reflect.Map:
		if v1.IsNil() != v2.IsNil() || v1.Len() != v2.Len() {
			return mismatch(path, v1, v2)
		}
		for _, k := range v1.MapKeys() {
			kpath := fmt.Sprintf("%s[%v]", path, k)
			val2 := v2.MapIndex(k)
			if !val2.IsValid() {
				return fmt.Sprintf("%s: missing", kpath)
			}
			s := diff(kpath, v1.MapIndex(k), val2)
			if s != "" {
				return s
			}
		}
		return ""
	case reflect.Func:
		if v1.IsNil() && v2.IsNil() {
			return ""
		}
		return fmt.Sprintf("%s: func values are not comparable", at(path))
	}

	var eq bool
	switch v1.Kind() {
	case reflect.Bool:
		eq = v1.Bool() == v2.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		eq = v1.Int() == v2.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Uintptr:
		eq = v1.Uint() == v2.Uint()
	case reflect.Float32, reflect.Float64:
		eq = v1.Float() == v2.Float()
	case reflect.Complex64, reflect.Complex128:
		eq = v1.Complex() == v2.Complex()
	case reflect.String:
		eq = v1.String() == v2.String()
	default:
		eq = v1.Pointer() == v2.Pointer()
	}
	if !eq {
		return mismatch(path, v1, v2)
	}
	return ""
}
