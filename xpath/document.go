// Package xpath evaluates XPath expressions against an HTML document and
// extracts them into structs annotated with `xpath` tags.
//
// Expressions evaluated from an element treat that element as the document
// root, so `//a` below a container only sees the container's subtree.
package xpath

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"astuart.co/scrape"
)

// Document is a parsed HTML document.
type Document struct {
	root *html.Node
}

// NewDocument parses an HTML document from r.
func NewDocument(r io.Reader) (*Document, error) {
	root, err := htmlquery.Parse(r)
	if err != nil {
		return nil, err
	}
	return &Document{root: root}, nil
}

// NewDocumentFromString parses an HTML document held in a string.
func NewDocumentFromString(s string) (*Document, error) {
	return NewDocument(strings.NewReader(s))
}

// FromResponse reads and closes resp and parses its body. Unsuccessful
// responses are returned as *scrape.HTTPError.
func FromResponse(resp *http.Response) (*Document, error) {
	body, err := scrape.ReadResponse(resp)
	if err != nil {
		return nil, err
	}
	return NewDocument(bytes.NewReader(body))
}

// Root returns the document node as an element.
func (d *Document) Root() *Element {
	return &Element{n: d.root}
}

// Select evaluates a node-set expression against the document.
func (d *Document) Select(expr string) (*Result, error) {
	nodes, err := queryAll(d.root, expr)
	if err != nil {
		return nil, err
	}
	return &Result{nodes: nodes}, nil
}

// Evaluate evaluates any expression against the document. The result is a
// float64, string or bool for scalar expressions and []*Element for node
// sets.
func (d *Document) Evaluate(expr string) (interface{}, error) {
	v, err := evaluate(d.root, expr)
	if err != nil {
		return nil, err
	}
	if nodes, ok := v.([]*html.Node); ok {
		return wrap(nodes), nil
	}
	return v, nil
}

// Result is the node set produced by an expression.
type Result struct {
	nodes []*html.Node
}

// Len returns the number of nodes.
func (r *Result) Len() int {
	return len(r.nodes)
}

// Nodes returns every node of the result.
func (r *Result) Nodes() []*Element {
	return wrap(r.nodes)
}

// First returns the first node of the result.
func (r *Result) First() (*Element, bool) {
	if len(r.nodes) == 0 {
		return nil, false
	}
	return &Element{n: r.nodes[0]}, true
}

// Strings returns the trimmed string value of every node.
func (r *Result) Strings() []string {
	out := make([]string, len(r.nodes))
	for i, n := range r.nodes {
		out[i] = strings.TrimSpace(htmlquery.InnerText(n))
	}
	return out
}

// FirstString returns the trimmed string value of the first node.
func (r *Result) FirstString() (string, bool) {
	if len(r.nodes) == 0 {
		return "", false
	}
	return strings.TrimSpace(htmlquery.InnerText(r.nodes[0])), true
}

func wrap(nodes []*html.Node) []*Element {
	out := make([]*Element, len(nodes))
	for i, n := range nodes {
		out[i] = &Element{n: n}
	}
	return out
}
