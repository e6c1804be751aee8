package scrape

import (
	"errors"
	"reflect"
)

// ErrNilDocument is returned when extraction is asked to read a nil document.
var ErrNilDocument = errors.New("scrape: " + nilDocument)

// Unmarshal extracts root into v, which must be a non-nil pointer. A pointer
// to a slice of structs selects the collection form, a pointer to a struct
// the single form.
func Unmarshal(root Node, v interface{}, flavor Flavor, validate Validator) error {
	rv := reflect.ValueOf(v)

	// Must come before rv.IsNil() else IsNil panics on NonPointer value
	if rv.Kind() != reflect.Ptr {
		return &ExtractError{Type: typeString(rv), Reason: nonPointer}
	}
	if v == nil || rv.IsNil() {
		return &ExtractError{Type: typeString(rv), Reason: nilValue}
	}
	if root == nil {
		return ErrNilDocument
	}

	dst := rv.Elem()
	if dst.Kind() == reflect.Slice {
		p, err := Compile(dst.Type().Elem(), flavor, validate)
		if err != nil {
			return err
		}
		return p.All(root, dst)
	}

	p, err := Compile(dst.Type(), flavor, validate)
	if err != nil {
		return err
	}
	return p.One(root, dst)
}

// ExtractOne compiles the plan of T and extracts a single T from root.
func ExtractOne[T any](root Node, flavor Flavor, validate Validator) (T, error) {
	var v T
	if root == nil {
		return v, ErrNilDocument
	}
	p, err := Compile(reflect.TypeOf((*T)(nil)).Elem(), flavor, validate)
	if err != nil {
		return v, err
	}
	err = p.One(root, reflect.ValueOf(&v).Elem())
	return v, err
}

// ExtractAll compiles the plan of T and extracts one T per container match.
func ExtractAll[T any](root Node, flavor Flavor, validate Validator) ([]T, error) {
	if root == nil {
		return nil, ErrNilDocument
	}
	p, err := Compile(reflect.TypeOf((*T)(nil)).Elem(), flavor, validate)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := p.All(root, reflect.ValueOf(&out).Elem()); err != nil {
		return nil, err
	}
	return out, nil
}

// Prepare compiles the plan of T so that annotation errors surface at start
// up rather than on the first document.
func Prepare[T any](flavor Flavor, validate Validator) error {
	_, err := Compile(reflect.TypeOf((*T)(nil)).Elem(), flavor, validate)
	return err
}

func typeString(v reflect.Value) string {
	if !v.IsValid() {
		return "<nil>"
	}
	return v.Type().String()
}
