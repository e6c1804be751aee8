package gen

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"go/format"
	"go/types"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"astuart.co/scrape"
)

//go:embed derive.go.tmpl
var tmplFS embed.FS

var tmpl = template.Must(template.ParseFS(tmplFS, "derive.go.tmpl"))

const scrapeImport = "astuart.co/scrape"

// ErrNoTypes is returned when no type of the package is annotated for the
// requested flavors.
var ErrNoTypes = errors.New("no annotated types")

// DeriveOptions controls Derive.
type DeriveOptions struct {
	// Flavors to generate. Empty means every registered flavor.
	Flavors []scrape.Flavor
	// Types to generate entry functions for. Empty means every annotated
	// struct type.
	Types []string
	// Registry defaults to DefaultRegistry().
	Registry *Registry
	Logger   *slog.Logger
}

type deriveFile struct {
	Package string
	Imports [][]string
	Types   []deriveType
}

type deriveType struct {
	Type   string
	Path   string
	Root   bool
	Func   string
	Doc    string
	Method string
	Stmts  []stmt
}

type stmt struct {
	Field string
	Code  string
}

// Derive generates the extraction functions of pkg.
func Derive(pkg *Package, opts DeriveOptions) ([]byte, error) {
	reg := opts.Registry
	if reg == nil {
		reg = DefaultRegistry()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	names := opts.Flavors
	if len(names) == 0 {
		names = reg.Names()
	}

	data := deriveFile{Package: pkg.Name}
	imports := map[string]bool{}

	for _, name := range names {
		flavor, err := reg.Get(name)
		if err != nil {
			return nil, err
		}
		a := newAnalyzer(pkg, flavor)
		analyzed, err := analyzeWith(a, opts.Types)
		if err != nil {
			return nil, err
		}
		if len(analyzed) == 0 {
			logger.Debug("no annotated types", "package", pkg.Path, "flavor", flavor.Name)
			continue
		}
		imports[scrapeImport] = true
		qual := a.qualifier(imports)

		for _, t := range analyzed {
			dt := deriveType{
				Type:   t.Type,
				Path:   t.Path,
				Root:   t.Root,
				Func:   flavor.FuncName(t.Type),
				Doc:    flavor.Package + ".Document",
				Method: flavor.FillMethod(),
			}
			if t.Root {
				imports[flavor.ImportPath] = true
			}
			for _, f := range t.Fields {
				dt.Stmts = append(dt.Stmts, stmt{Field: f.Name, Code: fieldCode(f, flavor, qual)})
			}
			data.Types = append(data.Types, dt)
			logger.Debug("derived", "type", t.Type, "flavor", flavor.Name, "fields", len(t.Fields), "root", t.Root)
		}
	}
	if len(data.Types) == 0 {
		return nil, fmt.Errorf("package %s: %w", pkg.Path, ErrNoTypes)
	}

	data.Imports = importGroups(imports)

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "derive.go.tmpl", data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	out, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to format generated source: %w", err)
	}
	return out, nil
}

// analyzeWith analyses the roots, every annotated struct when names is empty,
// and returns them followed by the nested types they reach. Named roots that
// are not annotated for the flavor are skipped.
func analyzeWith(a *analyzer, names []string) ([]*Type, error) {
	roots := names
	if len(roots) == 0 {
		for _, name := range a.order {
			if a.annotated(a.decls[name]) {
				roots = append(roots, name)
			}
		}
	}
	for _, name := range roots {
		d, ok := a.decls[name]
		if !ok {
			return nil, a.notStruct(name)
		}
		// A named type without tags for this flavor gets no entry function.
		if !a.annotated(d) {
			continue
		}
		t, err := a.analyze(name)
		if err != nil {
			return nil, err
		}
		t.Root = true
	}
	out := make([]*Type, 0, len(a.queue))
	for _, name := range a.queue {
		out = append(out, a.types[name])
	}
	return out, nil
}

// fieldCode renders the statement filling one field, without the error check.
func fieldCode(f Field, flavor Flavor, qual types.Qualifier) string {
	path := strconv.Quote(f.Path)
	elem := func() string { return types.TypeString(f.elem, qual) }
	dst := "v." + f.Name
	mode := f.Mode.GoString()

	switch f.Target {
	case scrape.NodesTarget:
		return fmt.Sprintf("%s, err = scrape.Nodes(n, %s)", dst, path)
	case scrape.UnmarshalerTarget:
		switch f.Shape {
		case scrape.Optional:
			return fmt.Sprintf("%s, err = scrape.UnmarshalOptional[%s](n, %s)", dst, elem(), path)
		case scrape.Collection:
			return fmt.Sprintf("%s, err = scrape.UnmarshalEach[%s](n, %s)", dst, elem(), path)
		}
		return fmt.Sprintf("err = scrape.UnmarshalInto(n, %s, &%s)", path, dst)
	case scrape.StructTarget:
		fill := fmt.Sprintf("(*%s).%s", f.Nested, flavor.FillMethod())
		switch f.Shape {
		case scrape.Optional:
			return fmt.Sprintf("%s, err = scrape.NestedOptional(n, %s, %s)", dst, path, fill)
		case scrape.Collection:
			return fmt.Sprintf("%s, err = scrape.NestedEach(n, %s, %s)", dst, path, fill)
		}
		return fmt.Sprintf("err = scrape.Nested(n, %s, &%s, %s)", path, dst, fill)
	}

	switch f.Shape {
	case scrape.Optional:
		return fmt.Sprintf("%s, err = scrape.OptionalValue[%s](n, %s, %s)", dst, elem(), path, mode)
	case scrape.Collection:
		return fmt.Sprintf("%s, err = scrape.CollectionValue[%s](n, %s, %s)", dst, elem(), path, mode)
	}
	return fmt.Sprintf("%s, err = scrape.ScalarValue[%s](n, %s, %s, %s)", dst, elem(), path, mode, strconv.Quote(f.Default))
}

// importGroups splits import paths into the standard library group and the
// rest, each sorted, the way goimports lays them out.
func importGroups(set map[string]bool) [][]string {
	var std, other []string
	for path := range set {
		if strings.Contains(strings.SplitN(path, "/", 2)[0], ".") {
			other = append(other, path)
		} else {
			std = append(std, path)
		}
	}
	sort.Strings(std)
	sort.Strings(other)

	var groups [][]string
	for _, g := range [][]string{std, other} {
		if len(g) > 0 {
			groups = append(groups, g)
		}
	}
	return groups
}
