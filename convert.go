package scrape

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

var (
	unmarshalerType     = reflect.TypeOf((*Unmarshaler)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	htmlNodeType        = reflect.TypeOf((*html.Node)(nil))
)

// convertible reports whether extracted strings can be stored in t.
func convertible(t reflect.Type) bool {
	if reflect.PointerTo(t).Implements(textUnmarshalerType) {
		return true
	}
	switch t.Kind() {
	case reflect.Interface:
		return t.NumMethod() == 0
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// unmarshalLiteral stores s in v, converting it to v's type. Strings are kept
// verbatim; numbers and booleans are parsed with surrounding space removed.
func unmarshalLiteral(s string, v reflect.Value) error {
	u, v := indirect(v)
	if u != nil {
		return u.UnmarshalText([]byte(s))
	}

	t := v.Type()

	switch t.Kind() {
	case reflect.Interface:
		if t.NumMethod() != 0 {
			return fmt.Errorf("cannot store string in %s", t)
		}
		// For empty interfaces, just set to a string
		v.Set(reflect.ValueOf(s))
	case reflect.Bool:
		b, err := strconv.ParseBool(strings.TrimSpace(s))
		if err != nil {
			return err
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(strings.TrimSpace(s), 10, t.Bits())
		if err != nil {
			return err
		}
		v.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		i, err := strconv.ParseUint(strings.TrimSpace(s), 10, t.Bits())
		if err != nil {
			return err
		}
		v.SetUint(i)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(strings.TrimSpace(s), t.Bits())
		if err != nil {
			return err
		}
		v.SetFloat(f)
	case reflect.String:
		v.SetString(s)
	default:
		return fmt.Errorf("cannot store string in %s", t)
	}
	return nil
}

// Coerce converts an extracted string to T the same way reflective
// extraction does.
func Coerce[T any](s string) (T, error) {
	var v T
	if err := unmarshalLiteral(s, reflect.ValueOf(&v).Elem()); err != nil {
		return v, &ExtractError{Reason: typeConversionError, Val: s, Err: err}
	}
	return v, nil
}
