package css

import (
	"bytes"

	"astuart.co/scrape"
)

// Prepare validates the `css` annotations of T. Call it from an init function
// or a test to catch annotation errors before the first document arrives.
func Prepare[T any]() error {
	return scrape.Prepare[T](scrape.CSS, Validate)
}

// Extract builds a single T from the whole document. T must not declare a
// container selector.
func Extract[T any](doc *Document) (T, error) {
	if doc == nil {
		var zero T
		return zero, scrape.ErrNilDocument
	}
	return scrape.ExtractOne[T](doc.Root(), scrape.CSS, Validate)
}

// ExtractAll builds one T per element matched by T's container selector, in
// document order.
func ExtractAll[T any](doc *Document) ([]T, error) {
	if doc == nil {
		return nil, scrape.ErrNilDocument
	}
	return scrape.ExtractAll[T](doc.Root(), scrape.CSS, Validate)
}

// Unmarshal takes a byte slice and a destination pointer to any interface{},
// and extracts the document into the destination. A pointer to a slice uses
// the container selector of the element type.
func Unmarshal(bs []byte, v interface{}) error {
	doc, err := NewDocument(bytes.NewReader(bs))
	if err != nil {
		return err
	}
	return UnmarshalDocument(doc, v)
}

// UnmarshalDocument extracts an already parsed document into v.
func UnmarshalDocument(doc *Document, v interface{}) error {
	if doc == nil {
		return scrape.ErrNilDocument
	}
	return scrape.Unmarshal(doc.Root(), v, scrape.CSS, Validate)
}
