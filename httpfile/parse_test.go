package httpfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVariableRequest(t *testing.T) {
	asrt := assert.New(t)

	f, err := Parse("@host = example.com\n###\nget_root\nGET https://{{host}}/")
	require.NoError(t, err)
	require.Len(t, f.Requests, 1)

	r := f.Requests[0]
	asrt.Equal("get_root", r.Name)
	asrt.Equal("GET", r.Method)
	asrt.True(r.URL.IsLiteral())
	asrt.Equal("https://example.com/", r.URL.String())
	asrt.Empty(r.Params)
	asrt.Empty(r.Env)
	asrt.Nil(r.Body)
	asrt.Equal(map[string]string{"host": "example.com"}, f.Variables)
}

func TestParseTypedParameter(t *testing.T) {
	asrt := assert.New(t)

	f, err := Parse("@host = example.com\n### search\nGET https://{{host}}/s?kw={query:String}")
	require.NoError(t, err)
	require.Len(t, f.Requests, 1)

	r := f.Requests[0]
	asrt.Equal([]Parameter{{Name: "query", Type: "string"}}, r.Params)
	asrt.Equal(Template{
		{Kind: Literal, Text: "https://example.com/s?kw="},
		{Kind: Param, Text: "query", Type: "string"},
	}, r.URL)
	asrt.Equal("search(query string)", r.Signature())
}

func TestVariableCycle(t *testing.T) {
	asrt := assert.New(t)

	f, err := Parse("@a = {{b}}\n@b = {{a}}\n@c = x{{d}}\n@d = y\n")
	require.NoError(t, err)

	asrt.Equal("{{b}}", f.Variables["a"])
	asrt.Equal("{{a}}", f.Variables["b"])
	asrt.Equal("xy", f.Variables["c"])
	asrt.Equal([]string{"a", "b", "c", "d"}, f.VariableNames())
	asrt.Empty(f.Requests)
}

func TestVariableDependsOnCycle(t *testing.T) {
	f, err := Parse("@a = {{b}}\n@b = {{a}}\n@c = <{{a}}>\n")
	require.NoError(t, err)
	assert.Equal(t, "<{{a}}>", f.Variables["c"])
}

func TestParseHeadersAndBody(t *testing.T) {
	asrt := assert.New(t)

	src := `
###//comment
### request_baidu
POST https://www.baidu.com/s?kw=xxx HTTP/1.1
User-Agent: reqwest
Content-Type:   application/json
X-Token: {{TOKEN:abc}}
X-Token: {token}

{"body":"{msg}", "n": {n:i64}}
`
	f, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, f.Requests, 1)

	r := f.Requests[0]
	asrt.Equal("request_baidu", r.Name)
	asrt.Equal("POST", r.Method)
	asrt.Equal("HTTP/1.1", r.Proto)
	require.Len(t, r.Headers, 4)
	asrt.Equal("User-Agent", r.Headers[0].Key)
	asrt.Equal("reqwest", r.Headers[0].Value.String())
	asrt.Equal("application/json", r.Headers[1].Value.String())
	asrt.Equal("X-Token", r.Headers[3].Key)

	asrt.Equal([]Parameter{{Name: "token", Type: "string"}, {Name: "msg", Type: "string"}, {Name: "n", Type: "int64"}}, r.Params)
	asrt.Equal([]EnvLookup{{Name: "TOKEN", Default: "abc"}}, r.Env)
	require.NotNil(t, r.Body)
	asrt.Equal(`{"body":"{msg}", "n": {n:int64}}`, r.Body.String())
	asrt.Equal(Literal, r.Body[0].Kind)
	asrt.Equal(`{"body":"`, r.Body[0].Text)
}

func TestParseMultipleRequests(t *testing.T) {
	asrt := assert.New(t)

	src := `@base = https://api.example.com
@users = {{base}}/users

### list_users
GET {{users}}

###@
# fetch one user
get_user
GET {{users}}/{id:int}
Accept: application/json
`
	f, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, f.Requests, 2)

	asrt.Equal("https://api.example.com/users", f.Requests[0].URL.String())

	r, ok := f.Lookup("get_user")
	require.True(t, ok)
	asrt.Equal([]Parameter{{Name: "id", Type: "int"}}, r.Params)
	asrt.Equal(9, r.Line)

	_, ok = f.Lookup("missing")
	asrt.False(ok)
}

func TestParseWithVars(t *testing.T) {
	f, err := Parse("### q\nGET https://{host}/s?kw={query}", WithVars(map[string]string{"host": "example.org"}))
	require.NoError(t, err)

	r := f.Requests[0]
	assert.Equal(t, []Parameter{{Name: "query", Type: "string"}}, r.Params)
	assert.Equal(t, "https://example.org/s?kw={query}", r.URL.String())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
	}{
		{"no request line", "### a\n", 1},
		{"bad method", "### a\nFETCH https://x", 2},
		{"no url", "### a\nGET", 2},
		{"bad proto", "### a\nGET https://x HTTQ/1", 2},
		{"bad name", "### a b\nGET https://x", 1},
		{"bad header", "### a\nGET https://x\nnot a header", 3},
		{"bad type", "### a\nGET https://x/{id:uuid}", 2},
		{"duplicate", "### a\nGET https://x\n### a\nGET https://y", 3},
		{"conflicting types", "### a\nGET https://x/{id:int}?q={id}", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src, WithFilename("api.http"))
			require.Error(t, err)

			var se *SyntaxError
			require.True(t, errors.As(err, &se), "%T", err)
			assert.Equal(t, "api.http", se.File)
			assert.Equal(t, tt.line, se.Line)
		})
	}
}

func TestMustParsePanics(t *testing.T) {
	assert.Panics(t, func() { MustParse("### a\nFETCH https://x") })
	assert.NotPanics(t, func() { MustParse("### a\nGET https://x") })
}

func TestParseIsIdempotent(t *testing.T) {
	src := "@host = example.com\n### search\nGET https://{{host}}/s?kw={query}\nX-Key: {{KEY:none}}\n\nq={query}"

	a, err := Parse(src)
	require.NoError(t, err)
	b, err := Parse(src)
	require.NoError(t, err)

	assert.Equal(t, a.Requests[0].Signature(), b.Requests[0].Signature())
	assert.Equal(t, a.Requests[0].URL, b.Requests[0].URL)
	assert.Equal(t, a.Requests[0].Headers, b.Requests[0].Headers)
	assert.Equal(t, a.Requests[0].Body, b.Requests[0].Body)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.http")
	require.NoError(t, os.WriteFile(path, []byte("### ping\r\nHEAD https://example.com/ping\r\n"), 0o644))

	f, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, f.Name)
	require.Len(t, f.Requests, 1)
	assert.Equal(t, "HEAD", f.Requests[0].Method)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.http"))
	assert.Error(t, err)
}
