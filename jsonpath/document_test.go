package jsonpath

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"astuart.co/scrape"
)

const store = `{
  "store": {
    "name": "corner",
    "books": [
      {"title": "Go in Action", "price": 29.99, "tags": ["go"]},
      {"title": "The Go Programming Language", "price": 34.5, "tags": []},
      {"title": "Untitled"}
    ],
    "open": true
  }
}`

type book struct {
	Title string   `json:"title"`
	Price float64  `json:"price"`
	Tags  []string `json:"tags"`
}

func TestSelectAsString(t *testing.T) {
	doc, err := NewDocument(store)
	require.NoError(t, err)

	asrt := assert.New(t)

	s, err := doc.SelectAsString("$.store.books[*].title")
	require.NoError(t, err)
	asrt.Equal(`["Go in Action","The Go Programming Language","Untitled"]`, s)

	s, err = doc.SelectAsString("$.store.missing")
	require.NoError(t, err)
	asrt.Equal("[]", s)
}

func TestSelectOneAsString(t *testing.T) {
	doc, err := NewDocument(store)
	require.NoError(t, err)

	asrt := assert.New(t)

	s, err := doc.SelectOneAsString("$.store.name")
	require.NoError(t, err)
	asrt.Equal(`"corner"`, s)

	s, err = doc.SelectOneAsString("$.store.books[0].price")
	require.NoError(t, err)
	asrt.Equal("29.99", s)

	s, err = doc.SelectOneAsString("$.store.open")
	require.NoError(t, err)
	asrt.Equal("true", s)

	s, err = doc.SelectOneAsString("$.store.books[0]")
	require.NoError(t, err)
	asrt.Equal(`{"price":29.99,"tags":["go"],"title":"Go in Action"}`, s)

	_, err = doc.SelectOneAsString("$.store.owner")
	asrt.ErrorIs(err, ErrNoMatch)
	asrt.Contains(err.Error(), `"$.store.owner"`)
}

func TestSelect(t *testing.T) {
	doc, err := NewDocument(store)
	require.NoError(t, err)

	books, err := Select[book](doc, "$.store.books[*]")
	require.NoError(t, err)

	assert.Equal(t, []book{
		{Title: "Go in Action", Price: 29.99, Tags: []string{"go"}},
		{Title: "The Go Programming Language", Price: 34.5, Tags: []string{}},
		{Title: "Untitled"},
	}, books)

	prices, err := Select[float64](doc, "$..price")
	require.NoError(t, err)
	assert.ElementsMatch(t, []float64{29.99, 34.5}, prices)

	none, err := Select[book](doc, "$.store.shelves[*]")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSelectOne(t *testing.T) {
	doc, err := NewDocumentFromBytes([]byte(store))
	require.NoError(t, err)

	b, err := SelectOne[book](doc, "$.store.books[1]")
	require.NoError(t, err)
	assert.Equal(t, "The Go Programming Language", b.Title)

	_, err = SelectOne[book](doc, "$.store.books[9]")
	assert.ErrorIs(t, err, ErrNoMatch)

	_, err = SelectOne[int](doc, "$.store.name")
	assert.Error(t, err)
}

func TestInvalidPath(t *testing.T) {
	doc, err := NewDocument(store)
	require.NoError(t, err)

	_, err = doc.SelectAsString("$.store[")

	var pe *scrape.PathError
	require.True(t, errors.As(err, &pe), "%v", err)
	assert.Equal(t, Flavor, pe.Flavor)
	assert.Equal(t, "$.store[", pe.Path)

	assert.Error(t, Validate("$.store["))
	assert.NoError(t, Validate("$.store.books[?(@.price > 30)].title"))
}

func TestInvalidDocument(t *testing.T) {
	_, err := NewDocument(`{"a": `)
	assert.Error(t, err)
}

func TestFromResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/down" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, store)
	}))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	doc, err := FromResponse(resp)
	require.NoError(t, err)

	name, err := SelectOne[string](doc, "$.store.name")
	require.NoError(t, err)
	assert.Equal(t, "corner", name)

	resp, err = http.Get(srv.URL + "/down")
	require.NoError(t, err)
	_, err = FromResponse(resp)

	var he *scrape.HTTPError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, http.StatusServiceUnavailable, he.StatusCode)
}
