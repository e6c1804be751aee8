package css

import (
	"github.com/andybalholm/cascadia"
	lru "github.com/hashicorp/golang-lru/v2"

	"astuart.co/scrape"
)

const selectorCacheSize = 512

var selectorCache = func() *lru.Cache[string, cascadia.Selector] {
	c, err := lru.New[string, cascadia.Selector](selectorCacheSize)
	if err != nil {
		panic(err)
	}
	return c
}()

// compile parses sel once and keeps the result. goquery's own Find swallows
// selector errors, so every query goes through here.
func compile(sel string) (cascadia.Selector, error) {
	if s, ok := selectorCache.Get(sel); ok {
		return s, nil
	}
	s, err := cascadia.Compile(sel)
	if err != nil {
		return nil, &scrape.PathError{Flavor: scrape.CSS, Path: sel, Err: err}
	}
	selectorCache.Add(sel, s)
	return s, nil
}

// Validate reports whether sel is a valid CSS selector.
func Validate(sel string) error {
	_, err := compile(sel)
	return err
}
