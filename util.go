package scrape

import (
	"encoding"
	"reflect"
)

// TypeDeref returns the underlying type if the given type is a pointer.
func TypeDeref(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// indirect is stolen mostly from pkg/encoding/json/decode.go. It walks down
// v, allocating nil pointers, until it reaches a value that is not a pointer
// or one whose address implements encoding.TextUnmarshaler.
func indirect(v reflect.Value) (encoding.TextUnmarshaler, reflect.Value) {
	if v.Kind() != reflect.Ptr && v.Type().Name() != "" && v.CanAddr() {
		v = v.Addr()
	}
	for {
		if v.Kind() != reflect.Ptr {
			break
		}

		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
		if v.Type().NumMethod() > 0 {
			if u, ok := v.Interface().(encoding.TextUnmarshaler); ok {
				return u, reflect.Value{}
			}
		}
		v = v.Elem()
	}
	return nil, v
}
