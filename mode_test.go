package scrape

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveMode(t *testing.T) {
	tests := []struct {
		flags []string
		want  Mode
	}{
		{nil, HTML()},
		{[]string{""}, HTML()},
		{[]string{"name"}, Name()},
		{[]string{"id"}, ID()},
		{[]string{" text "}, Text()},
		{[]string{"html"}, HTML()},
		{[]string{"inner_html"}, InnerHTML()},
		{[]string{"has_class=active"}, HasClass("active")},
		{[]string{"attr = href"}, Attr("href")},
	}

	for _, tt := range tests {
		m, err := ResolveMode("T", "F", tt.flags)
		require.NoError(t, err, "%v", tt.flags)
		assert.Equal(t, tt.want, m, "%v", tt.flags)
	}
}

func TestResolveModeErrors(t *testing.T) {
	tests := []struct {
		flags  []string
		reason string
	}{
		{[]string{"text", "html"}, multipleModes},
		{[]string{"attr=href", "has_class=x"}, multipleModes},
		{[]string{"attr"}, invalidMode},
		{[]string{"has_class="}, invalidMode},
		{[]string{"bogus"}, invalidMode},
		{[]string{"text=x"}, invalidMode},
	}

	for _, tt := range tests {
		_, err := ResolveMode("Page", "Title", tt.flags)

		var ce *ConfigError
		require.True(t, errors.As(err, &ce), "%v", tt.flags)
		assert.Equal(t, tt.reason, ce.Reason)
		assert.Equal(t, "Page", ce.Type)
		assert.Equal(t, "Title", ce.Field)
	}
}

func TestResolveModeListsOptions(t *testing.T) {
	_, err := ResolveMode("Page", "Title", []string{"text", "html"})
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "Page.Title")
	assert.Contains(t, msg, "text, html are mutually exclusive")
	assert.Contains(t, msg, "attr=<name>")
}

func TestModeGoString(t *testing.T) {
	asrt := assert.New(t)

	asrt.Equal("scrape.HTML()", Mode{}.GoString())
	asrt.Equal("scrape.Name()", Name().GoString())
	asrt.Equal("scrape.ID()", ID().GoString())
	asrt.Equal("scrape.Text()", Text().GoString())
	asrt.Equal("scrape.InnerHTML()", InnerHTML().GoString())
	asrt.Equal(`scrape.HasClass("on")`, HasClass("on").GoString())
	asrt.Equal(`scrape.Attr("data-\"x\"")`, Attr(`data-"x"`).GoString())
}

func TestModeGuaranteed(t *testing.T) {
	asrt := assert.New(t)

	for _, m := range []Mode{Name(), Text(), HTML(), InnerHTML(), HasClass("x")} {
		asrt.True(m.Guaranteed(), m.String())
	}
	asrt.False(ID().Guaranteed())
	asrt.False(Attr("href").Guaranteed())
}

func TestModeApply(t *testing.T) {
	n := el("a", map[string]string{"id": "x1", "class": "link active", "href": "/home"}, " Home ",
		el("b", nil, "!"))

	tests := []struct {
		mode Mode
		want string
		ok   bool
	}{
		{Name(), "a", true},
		{ID(), "x1", true},
		{Text(), "Home !", true},
		{HTML(), "<a> Home <b>!</b></a>", true},
		{InnerHTML(), " Home <b>!</b>", true},
		{HasClass("active"), "true", true},
		{HasClass("missing"), "false", true},
		{Attr("href"), "/home", true},
		{Attr("title"), "", false},
	}

	for _, tt := range tests {
		got, ok, err := tt.mode.Apply(n)
		require.NoError(t, err)
		assert.Equal(t, tt.ok, ok, tt.mode.String())
		assert.Equal(t, tt.want, got, tt.mode.String())
	}

	_, ok, err := ID().Apply(el("p", nil, ""))
	assert.NoError(t, err)
	assert.False(t, ok)
}
