package scrape

import "golang.org/x/net/html"

// Flavor names a query language and the struct tag key that carries its
// paths.
type Flavor string

// Supported flavors.
const (
	CSS   Flavor = "css"
	XPath Flavor = "xpath"
)

// Validator checks the syntax of a query path without evaluating it.
type Validator func(path string) error

// Node is one element matched by a query engine. Extraction plans and
// generated code only ever talk to this interface; the css and xpath packages
// provide the implementations.
type Node interface {
	// Query evaluates path relative to the node and returns the matches in
	// document order.
	Query(path string) ([]Node, error)

	Name() string
	// ID and Attr return values with surrounding whitespace trimmed.
	ID() (string, bool)
	HasClass(class string) bool
	Attr(name string) (string, bool)
	Text() string
	HTML() (string, error)
	InnerHTML() (string, error)

	// HTMLNodes returns the underlying nodes for Unmarshaler implementations.
	HTMLNodes() []*html.Node
}

// Unmarshaler allows for custom implementations of extraction logic. It is
// handed the matched nodes of the field's path.
type Unmarshaler interface {
	UnmarshalHTML([]*html.Node) error
}
