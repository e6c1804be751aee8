package css

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"astuart.co/scrape"
)

type listEntry struct {
	_ struct{} `css:".list"`

	Link  string `css:".item>a" default:""`
	Label string `css:".item>a" extract:"inner_html" default:""`
}

func TestContainerOrder(t *testing.T) {
	doc, err := NewDocumentFromString(`
<div class="list"><p class="item"><a>X</a></p></div>
<div class="other"><p class="item"><a>skipped</a></p></div>
<div class="list"><p class="item"><a>Y</a></p></div>`)
	require.NoError(t, err)

	got, err := ExtractAll[listEntry](doc)
	require.NoError(t, err)

	assert.Equal(t, []listEntry{
		{Link: "<a>X</a>", Label: "X"},
		{Link: "<a>Y</a>", Label: "Y"},
	}, got)
}

type product struct {
	_ struct{} `css:"li.product"`

	ID    string   `css:"" extract:"attr=data-id" default:"none"`
	Name  string   `css:"h2" extract:"text" default:""`
	Price *float64 `css:".price" extract:"text"`
	Tags  []string `css:".tag" extract:"text"`
	Sale  bool     `extract:"has_class=sale"`
	Kind  string   `extract:"name"`
}

const products = `<ul>
<li class="product sale" data-id="p1"><h2> Lamp </h2><span class="price">12.50</span><i class="tag">home</i><i class="tag"></i><i class="tag">light</i></li>
<li class="product"><h2>Chair</h2></li>
</ul>`

func TestModesAndShapes(t *testing.T) {
	doc, err := NewDocumentFromString(products)
	require.NoError(t, err)

	got, err := ExtractAll[product](doc)
	require.NoError(t, err)
	require.Len(t, got, 2)

	asrt := assert.New(t)
	lamp := got[0]
	asrt.Equal("p1", lamp.ID)
	asrt.Equal("Lamp", lamp.Name)
	require.NotNil(t, lamp.Price)
	asrt.Equal(12.5, *lamp.Price)
	asrt.Equal([]string{"home", "light"}, lamp.Tags)
	asrt.True(lamp.Sale)
	asrt.Equal("li", lamp.Kind)

	chair := got[1]
	asrt.Equal("none", chair.ID)
	asrt.Nil(chair.Price)
	asrt.Equal([]string{}, chair.Tags)
	asrt.False(chair.Sale)
}

type page struct {
	Title   string   `css:"title" extract:"text" default:"untitled"`
	Heading *string  `css:"h1" extract:"text"`
	Links   []string `css:"a" extract:"attr=href"`
	Footer  footer   `css:"footer"`
}

type footer struct {
	Year int `css:".year" extract:"text" default:"0"`
}

func TestSingleForm(t *testing.T) {
	doc, err := NewDocumentFromString(`<html><head><title>Home</title></head><body>
<a href="/a">a</a><a>no href</a><a href="/b">b</a>
<footer><span class="year">2024</span></footer></body></html>`)
	require.NoError(t, err)

	p, err := Extract[page](doc)
	require.NoError(t, err)

	asrt := assert.New(t)
	asrt.Equal("Home", p.Title)
	asrt.Nil(p.Heading)
	asrt.Equal([]string{"/a", "/b"}, p.Links)
	asrt.Equal(2024, p.Footer.Year)
}

func TestSingleFormOnCollectionType(t *testing.T) {
	doc, err := NewDocumentFromString(products)
	require.NoError(t, err)

	_, err = Extract[product](doc)
	var ee *scrape.ExtractError
	assert.True(t, errors.As(err, &ee))
}

type badSelector struct {
	V *string `css:"a["`
}

type badContainer struct {
	_ struct{} `css:"li:nth-child("`

	V *string `css:"a"`
}

func TestInvalidSelector(t *testing.T) {
	for _, err := range []error{Prepare[badSelector](), Prepare[badContainer]()} {
		var ce *scrape.ConfigError
		require.True(t, errors.As(err, &ce), "%v", err)

		var pe *scrape.PathError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, scrape.CSS, pe.Flavor)
	}
	assert.Error(t, Validate("div["))
	assert.NoError(t, Validate("div > p.item"))
}

type multiMode struct {
	V string `css:"a" extract:"text,attr=href" default:""`
}

func TestMultipleModes(t *testing.T) {
	err := Prepare[multiMode]()

	var ce *scrape.ConfigError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "V", ce.Field)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

type hrefs []string

func (h *hrefs) UnmarshalHTML(nodes []*html.Node) error {
	for _, n := range nodes {
		for _, a := range n.Attr {
			if a.Key == "href" {
				*h = append(*h, strings.ToUpper(a.Val))
			}
		}
	}
	return nil
}

type withUnmarshaler struct {
	Links hrefs        `css:"a"`
	Raw   []*html.Node `css:"a"`
}

func TestUnmarshaler(t *testing.T) {
	var v withUnmarshaler
	require.NoError(t, Unmarshal([]byte(`<a href="/x">x</a><a href="/y">y</a>`), &v))

	assert.Equal(t, hrefs{"/X", "/Y"}, v.Links)
	assert.Len(t, v.Raw, 2)
}

func TestUnmarshalSlice(t *testing.T) {
	var got []product
	require.NoError(t, Unmarshal([]byte(products), &got))
	assert.Len(t, got, 2)

	assert.ErrorIs(t, UnmarshalDocument(nil, &got), scrape.ErrNilDocument)
	_, err := ExtractAll[product](nil)
	assert.ErrorIs(t, err, scrape.ErrNilDocument)
}

func TestDocumentSelect(t *testing.T) {
	doc, err := NewDocumentFromString(products)
	require.NoError(t, err)

	sel, err := doc.Select("h2")
	require.NoError(t, err)

	asrt := assert.New(t)
	asrt.Equal(2, sel.Len())
	asrt.Equal([]string{"Lamp", "Chair"}, sel.Texts())

	first, ok := sel.First()
	require.True(t, ok)
	asrt.Equal("h2", first.Name())

	items, err := doc.Select("li")
	require.NoError(t, err)
	li := items.Items()[0]
	asrt.Equal([]string{"product", "sale"}, li.Classes())
	asrt.Len(li.Children(), 5)
	id, ok := li.Attr("data-id")
	asrt.True(ok)
	asrt.Equal("p1", id)

	_, err = doc.Select("li[")
	asrt.Error(err)
}

func TestFromResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, "gone")
			return
		}
		_, _ = io.WriteString(w, products)
	}))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	doc, err := FromResponse(resp)
	require.NoError(t, err)
	got, err := ExtractAll[product](doc)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	resp, err = http.Get(srv.URL + "/missing")
	require.NoError(t, err)
	_, err = FromResponse(resp)

	var he *scrape.HTTPError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, http.StatusNotFound, he.StatusCode)
	assert.Equal(t, "gone", he.Body)
	assert.Equal(t, srv.URL+"/missing", he.URL)
}

func TestAttributesAreTrimmed(t *testing.T) {
	doc, err := NewDocumentFromString(`<p id=" intro " data-x="  v  ">t</p>`)
	require.NoError(t, err)

	sel, err := doc.Select("p")
	require.NoError(t, err)
	p, ok := sel.First()
	require.True(t, ok)

	asrt := assert.New(t)
	id, ok := p.ID()
	asrt.True(ok)
	asrt.Equal("intro", id)
	x, ok := p.Attr("data-x")
	asrt.True(ok)
	asrt.Equal("v", x)
	_, ok = p.Attr("missing")
	asrt.False(ok)
}
