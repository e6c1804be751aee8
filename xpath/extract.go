package xpath

import (
	"bytes"

	"astuart.co/scrape"
)

// Prepare validates the `xpath` annotations of T, expressions included.
func Prepare[T any]() error {
	return scrape.Prepare[T](scrape.XPath, Validate)
}

// Extract builds a single T from the whole document.
func Extract[T any](doc *Document) (T, error) {
	if doc == nil {
		var zero T
		return zero, scrape.ErrNilDocument
	}
	return scrape.ExtractOne[T](doc.Root(), scrape.XPath, Validate)
}

// ExtractAll builds one T per node matched by T's container expression.
func ExtractAll[T any](doc *Document) ([]T, error) {
	if doc == nil {
		return nil, scrape.ErrNilDocument
	}
	return scrape.ExtractAll[T](doc.Root(), scrape.XPath, Validate)
}

// Unmarshal parses bs and extracts it into v.
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
	return scrape.Unmarshal(doc.Root(), v, scrape.XPath, Validate)
}
