package xpath

import (
	"fmt"

	"github.com/antchfx/htmlquery"
	axpath "github.com/antchfx/xpath"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/net/html"

	"astuart.co/scrape"
)

const exprCacheSize = 512

var exprCache = func() *lru.Cache[string, *axpath.Expr] {
	c, err := lru.New[string, *axpath.Expr](exprCacheSize)
	if err != nil {
		panic(err)
	}
	return c
}()

func compile(expr string) (*axpath.Expr, error) {
	if e, ok := exprCache.Get(expr); ok {
		return e, nil
	}
	e, err := axpath.Compile(expr)
	if err != nil {
		return nil, &scrape.PathError{Flavor: scrape.XPath, Path: expr, Err: err}
	}
	exprCache.Add(expr, e)
	return e, nil
}

// Validate reports whether expr is a valid XPath expression.
func Validate(expr string) error {
	_, err := compile(expr)
	return err
}

// queryAll evaluates expr against top. The xpath engine panics on some
// evaluation failures; those come back as *scrape.PathError.
func queryAll(top *html.Node, expr string) (nodes []*html.Node, err error) {
	e, err := compile(expr)
	if err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			nodes, err = nil, &scrape.PathError{Flavor: scrape.XPath, Path: expr, Err: fmt.Errorf("%v", r)}
		}
	}()
	return htmlquery.QuerySelectorAll(top, e), nil
}

// evaluate returns the raw result of expr: a float64, string, bool or the
// matched nodes.
func evaluate(top *html.Node, expr string) (result interface{}, err error) {
	e, err := compile(expr)
	if err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, &scrape.PathError{Flavor: scrape.XPath, Path: expr, Err: fmt.Errorf("%v", r)}
		}
	}()

	switch v := e.Evaluate(htmlquery.CreateXPathNavigator(top)).(type) {
	case *axpath.NodeIterator:
		var nodes []*html.Node
		for v.MoveNext() {
			if nav, ok := v.Current().(*htmlquery.NodeNavigator); ok {
				nodes = append(nodes, nav.Current())
			}
		}
		return nodes, nil
	default:
		return v, nil
	}
}
