package scrape

import (
	"fmt"
	"strings"
)

// Reasons reported by ConfigError.
const (
	notStruct           = "extraction is only supported on named struct types"
	multipleModes       = "multiple extraction modes"
	invalidMode         = "invalid extraction mode"
	unknownMode         = "unknown extraction mode"
	missingModeArg      = "extraction mode requires a value"
	missingDefault      = "non-optional field needs a default value"
	collectionNeedsPath = "collection field needs its own path"
	defaultNotAllowed   = "default only applies to scalar value fields"
	modeNotAllowed      = "extraction mode does not apply to this field type"
	unsupportedType     = "unsupported field type"
	invalidDefault      = "default value cannot be converted to the field type"
	invalidPath         = "invalid query path"
)

// Reasons reported by ExtractError.
const (
	nonPointer           = "non-pointer value"
	nilValue             = "destination argument is nil"
	nilDocument          = "document is nil"
	typeConversionError  = "could not convert value to field type"
	customUnmarshalError = "a custom Unmarshaler implementation threw an error"
	queryError           = "query failed"
	noContainer          = "type has no container path"
	hasContainer         = "type has a container path, extract it as a collection"
)

// ConfigError reports an annotation that cannot be turned into an extraction
// plan. It is returned before any document is read.
type ConfigError struct {
	Type   string
	Field  string
	Reason string
	Detail string
	Err    error
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString("scrape: ")
	if e.Type != "" {
		b.WriteString(e.Type)
		if e.Field != "" {
			b.WriteString(".")
			b.WriteString(e.Field)
		}
		b.WriteString(": ")
	}
	b.WriteString(e.Reason)
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ConfigError) Unwrap() error { return e.Err }

// ExtractError is returned when a document cannot be extracted into a value.
// Val holds the raw string that failed conversion, if any.
type ExtractError struct {
	Type   string
	Field  string
	Reason string
	Val    string
	Err    error
}

func (e *ExtractError) Error() string {
	var b strings.Builder
	b.WriteString("scrape: could not extract")
	if e.Type != "" {
		b.WriteString(" ")
		b.WriteString(e.Type)
		if e.Field != "" {
			b.WriteString(".")
			b.WriteString(e.Field)
		}
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	if e.Val != "" {
		fmt.Fprintf(&b, " (value %q)", e.Val)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ExtractError) Unwrap() error { return e.Err }

// PathError is returned by a query engine when a path cannot be compiled or
// evaluated.
type PathError struct {
	Flavor Flavor
	Path   string
	Err    error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s path %q: %v", e.Flavor, e.Path, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

// HTTPError is returned when a response handed to a façade did not succeed.
type HTTPError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http request for %q error code:%d, body text:%s", e.URL, e.StatusCode, e.Body)
}

// FieldError attributes err to a field of typeName. It is used by generated
// code so that failures read the same as reflective extraction.
func FieldError(typeName, field string, err error) error {
	if err == nil {
		return nil
	}
	reason := queryError
	if ee, ok := err.(*ExtractError); ok {
		if ee.Type == "" {
			ee.Type, ee.Field = typeName, field
			return ee
		}
		reason = ee.Reason
	}
	return &ExtractError{Type: typeName, Field: field, Reason: reason, Err: err}
}

// NotStructError reports a type that cannot carry annotations.
func NotStructError(typeName, kind string) error {
	return &ConfigError{Type: typeName, Reason: notStruct, Detail: kind}
}

// UnsupportedTypeError reports a field whose type cannot hold extracted
// values.
func UnsupportedTypeError(typeName, field, typ string) error {
	return &ConfigError{Type: typeName, Field: field, Reason: unsupportedType, Detail: typ}
}

// InvalidDefaultError reports a default literal that does not convert to the
// field type.
func InvalidDefaultError(typeName, field, def string, err error) error {
	return &ConfigError{Type: typeName, Field: field, Reason: invalidDefault, Detail: def, Err: err}
}
