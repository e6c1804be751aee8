package example

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"astuart.co/scrape"
	"astuart.co/scrape/css"
	"astuart.co/scrape/xpath"
)

const listing = `<html><body>
<ul id="repos">
  <li class="private">
    <a class="name" href="https://example.com/goq">goq</a>
    <span class="lang"> Go </span>
    <div class="topics"><a>html</a><a>scraping</a></div>
    <a class="stars" data-count="42">42</a>
    <div class="owner" id="o1"><a>astuart</a></div>
  </li>
  <li>
    <a class="name" href="https://example.com/scrape">scrape</a>
    <div class="topics"></div>
  </li>
</ul>
</body></html>`

func strp(s string) *string { return &s }

var wantRepos = []Repo{
	{
		Name:    "goq",
		URL:     "https://example.com/goq",
		Lang:    strp("Go"),
		Topics:  []string{"html", "scraping"},
		Stars:   42,
		Private: true,
		Owner:   &Owner{Login: "astuart", ID: strp("o1")},
	},
	{
		Name:   "scrape",
		URL:    "https://example.com/scrape",
		Topics: []string{},
	},
}

func TestRepoFromCSS(t *testing.T) {
	doc, err := css.NewDocumentFromString(listing)
	require.NoError(t, err)

	generated, err := RepoFromCSS(doc)
	require.NoError(t, err)
	assert.Equal(t, wantRepos, generated)

	reflective, err := css.ExtractAll[Repo](doc)
	require.NoError(t, err)
	assert.Equal(t, reflective, generated)
}

func TestRepoFromXPath(t *testing.T) {
	doc, err := xpath.NewDocumentFromString(listing)
	require.NoError(t, err)

	generated, err := RepoFromXPath(doc)
	require.NoError(t, err)
	assert.Equal(t, wantRepos, generated)

	reflective, err := xpath.ExtractAll[Repo](doc)
	require.NoError(t, err)
	assert.Equal(t, reflective, generated)
}

func TestOwnerFromCSS(t *testing.T) {
	doc, err := css.NewDocumentFromString(`<p>nobody</p>`)
	require.NoError(t, err)

	o, err := OwnerFromCSS(doc)
	require.NoError(t, err)
	assert.Equal(t, Owner{}, o)
}

func TestNilDocument(t *testing.T) {
	_, err := RepoFromCSS(nil)
	assert.ErrorIs(t, err, scrape.ErrNilDocument)

	_, err = OwnerFromXPath(nil)
	assert.ErrorIs(t, err, scrape.ErrNilDocument)
}

func TestConversionError(t *testing.T) {
	doc, err := css.NewDocumentFromString(`<ul id="repos"><li><a class="stars" data-count="lots"></a></li></ul>`)
	require.NoError(t, err)

	_, err = RepoFromCSS(doc)
	require.Error(t, err)

	var ee *scrape.ExtractError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "Repo", ee.Type)
	assert.Equal(t, "Stars", ee.Field)
}
