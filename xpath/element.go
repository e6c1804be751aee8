package xpath

import (
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"astuart.co/scrape"
)

// Element is a single node of a result. Attribute nodes selected with `@name`
// are elements named after the attribute whose text is its value.
type Element struct {
	n *html.Node
}

var _ scrape.Node = (*Element)(nil)

// Name returns the element name.
func (e *Element) Name() string {
	return e.n.Data
}

// ID returns the trimmed id attribute.
func (e *Element) ID() (string, bool) {
	return e.Attr("id")
}

// Classes returns the classes of the element.
func (e *Element) Classes() []string {
	class, _ := e.Attr("class")
	return strings.Fields(class)
}

// HasClass reports whether the element has the class.
func (e *Element) HasClass(class string) bool {
	for _, c := range e.Classes() {
		if c == class {
			return true
		}
	}
	return false
}

// Attr returns the trimmed value of an attribute.
func (e *Element) Attr(name string) (string, bool) {
	if !htmlquery.ExistsAttr(e.n, name) {
		return "", false
	}
	return strings.TrimSpace(htmlquery.SelectAttr(e.n, name)), true
}

// HasAttr reports whether the attribute exists.
func (e *Element) HasAttr(name string) bool {
	return htmlquery.ExistsAttr(e.n, name)
}

// Text returns the trimmed text of the element and its descendants.
func (e *Element) Text() string {
	return strings.TrimSpace(htmlquery.InnerText(e.n))
}

// HTML returns the outer HTML of the element.
func (e *Element) HTML() (string, error) {
	return htmlquery.OutputHTML(e.n, true), nil
}

// InnerHTML returns the HTML of the element's children.
func (e *Element) InnerHTML() (string, error) {
	return htmlquery.OutputHTML(e.n, false), nil
}

// Children returns the child elements.
func (e *Element) Children() []*Element {
	var out []*Element
	for c := e.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, &Element{n: c})
		}
	}
	return out
}

// FindNodes evaluates a relative expression below the element.
func (e *Element) FindNodes(expr string) ([]*Element, error) {
	nodes, err := queryAll(e.n, expr)
	if err != nil {
		return nil, err
	}
	return wrap(nodes), nil
}

// FindNode returns the first node of a relative expression.
func (e *Element) FindNode(expr string) (*Element, bool, error) {
	nodes, err := queryAll(e.n, expr)
	if err != nil || len(nodes) == 0 {
		return nil, false, err
	}
	return &Element{n: nodes[0]}, true, nil
}

// FindValues returns the trimmed string values of a relative expression.
func (e *Element) FindValues(expr string) ([]string, error) {
	nodes, err := queryAll(e.n, expr)
	if err != nil {
		return nil, err
	}
	return (&Result{nodes: nodes}).Strings(), nil
}

// FindValue returns the trimmed string value of the first node of a relative
// expression.
func (e *Element) FindValue(expr string) (string, bool, error) {
	nodes, err := queryAll(e.n, expr)
	if err != nil {
		return "", false, err
	}
	v, ok := (&Result{nodes: nodes}).FirstString()
	return v, ok, nil
}

// Query implements scrape.Node.
func (e *Element) Query(expr string) ([]scrape.Node, error) {
	nodes, err := queryAll(e.n, expr)
	if err != nil {
		return nil, err
	}
	out := make([]scrape.Node, len(nodes))
	for i, n := range nodes {
		out[i] = &Element{n: n}
	}
	return out, nil
}

// HTMLNodes implements scrape.Node.
func (e *Element) HTMLNodes() []*html.Node {
	return []*html.Node{e.n}
}
