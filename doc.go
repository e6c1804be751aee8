// Package scrape was built to allow users to declaratively extract HTML into
// go structs using struct tags composed of css selectors or xpath expressions.
//
// The package itself holds the flavor-independent half: tag parsing, field
// shape classification, extraction modes, the cached extraction plans and the
// helpers called by generated code. The css and xpath subpackages bind it to a
// query engine, jsonpath offers the same façade over JSON documents, and
// httpfile compiles .http request templates.
//
// When creating struct types to be extracted into, the following general rules
// apply:
//
// - A struct declares its container path with a blank field:
//
//	type Repo struct {
//		_ struct{} `css:"#repos > li" xpath:"//ul[@id='repos']/li"`
//
//		Name  string   `css:"a.name" extract:"text" default:"<unnamed>"`
//		Lang  *string  `css:"span.lang" extract:"text"`
//		Tags  []string `css:".topics > a" extract:"text"`
//		Stars int      `css:"a.stars" extract:"attr=data-count" default:"0"`
//	}
//
// A container path yields one instance per matched element (collection form).
// Without one, the whole document is the single implicit element (single
// form).
//
// - A field path is evaluated relative to the current element. An empty path
// applies the extraction mode to the current element itself. `css:"-"`
// ignores the field for that flavor.
//
// - The extraction mode is one of `name`, `id`, `text`, `html`, `inner_html`,
// `has_class=<class>` or `attr=<name>`, given in the `extract` tag. `html` is
// used when none is given. Naming more than one is a configuration error.
//
// - The field type decides the cardinality: `*T` is optional (nil when nothing
// matched), `[]T` collects every non-empty match in document order, anything
// else is a scalar which takes the first match or the `default` literal.
//
// - A scalar field must declare a default unless it has no own path and its
// mode always produces a value (name, text, html, inner_html, has_class).
// Collections must declare their own path.
//
// - Values are converted to the field type: strings, booleans, integers,
// floats, empty interfaces and encoding.TextUnmarshaler implementations.
//
// - Fields whose type is another annotated struct are extracted recursively
// relative to the matched element. Types implementing Unmarshaler receive the
// matched *html.Node values, and []*html.Node fields receive them as is.
//
// All of the above is checked once per type, before any document is read, and
// reported as a *ConfigError.
package scrape
