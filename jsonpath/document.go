// Package jsonpath selects fragments of a JSON document with JSONPath
// expressions and decodes them into Go values.
package jsonpath

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	"astuart.co/scrape"
)

// Flavor names JSONPath in *scrape.PathError values.
const Flavor scrape.Flavor = "jsonpath"

// ErrNoMatch is returned by the single-value selectors when the path matched
// nothing.
var ErrNoMatch = errors.New("jsonpath did not find data in json")

const exprCacheSize = 256

var exprCache = func() *lru.Cache[string, jp.Expr] {
	c, err := lru.New[string, jp.Expr](exprCacheSize)
	if err != nil {
		panic(err)
	}
	return c
}()

func compile(path string) (jp.Expr, error) {
	if x, ok := exprCache.Get(path); ok {
		return x, nil
	}
	x, err := jp.ParseString(path)
	if err != nil {
		return nil, &scrape.PathError{Flavor: Flavor, Path: path, Err: err}
	}
	exprCache.Add(path, x)
	return x, nil
}

// Validate reports whether path is a valid JSONPath expression.
func Validate(path string) error {
	_, err := compile(path)
	return err
}

// Document is a parsed JSON document.
type Document struct {
	data interface{}
}

// NewDocument parses a JSON document held in a string.
func NewDocument(s string) (*Document, error) {
	data, err := oj.ParseString(s)
	if err != nil {
		return nil, err
	}
	return &Document{data: data}, nil
}

// NewDocumentFromBytes parses a JSON document.
func NewDocumentFromBytes(b []byte) (*Document, error) {
	data, err := oj.Parse(b)
	if err != nil {
		return nil, err
	}
	return &Document{data: data}, nil
}

// FromResponse reads and closes resp and parses its body. Unsuccessful
// responses are returned as *scrape.HTTPError.
func FromResponse(resp *http.Response) (*Document, error) {
	body, err := scrape.ReadResponse(resp)
	if err != nil {
		return nil, err
	}
	return NewDocumentFromBytes(body)
}

// Value returns the parsed document as generic Go values.
func (d *Document) Value() interface{} {
	return d.data
}

func (d *Document) get(path string) ([]interface{}, error) {
	x, err := compile(path)
	if err != nil {
		return nil, err
	}
	return x.Get(d.data), nil
}

// writeOptions sorts object members.
var writeOptions = oj.Options{Sort: true}

// SelectAsString returns the matches of path as a JSON array.
func (d *Document) SelectAsString(path string) (string, error) {
	matches, err := d.get(path)
	if err != nil {
		return "", err
	}
	if matches == nil {
		matches = []interface{}{}
	}
	b, err := oj.Marshal(matches, &writeOptions)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// SelectOneAsString returns the first match of path as JSON text, so a string
// value keeps its quotes.
func (d *Document) SelectOneAsString(path string) (string, error) {
	matches, err := d.get(path)
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%q: %w", path, ErrNoMatch)
	}
	b, err := oj.Marshal(matches[0], &writeOptions)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Select decodes every match of path into a T.
func Select[T any](d *Document, path string) ([]T, error) {
	matches, err := d.get(path)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(matches))
	for _, m := range matches {
		v, err := decode[T](m)
		if err != nil {
			return nil, fmt.Errorf("jsonpath %q: %w", path, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// SelectOne decodes the first match of path into a T.
func SelectOne[T any](d *Document, path string) (T, error) {
	var zero T
	matches, err := d.get(path)
	if err != nil {
		return zero, err
	}
	if len(matches) == 0 {
		return zero, fmt.Errorf("%q: %w", path, ErrNoMatch)
	}
	v, err := decode[T](matches[0])
	if err != nil {
		return zero, fmt.Errorf("jsonpath %q: %w", path, err)
	}
	return v, nil
}

// decode round-trips a generic value through encoding/json so that struct
// tags and custom unmarshalers of T apply.
func decode[T any](v interface{}) (T, error) {
	var out T
	b, err := json.Marshal(v)
	if err != nil {
		return out, err
	}
	err = json.Unmarshal(b, &out)
	return out, err
}
