package gen

import (
	"fmt"

	"astuart.co/scrape"
	"astuart.co/scrape/css"
	"astuart.co/scrape/xpath"
)

// Flavor describes how generated code reaches one query engine.
type Flavor struct {
	Name scrape.Flavor
	// Suffix names the generated functions, e.g. RepoFromCSS.
	Suffix string
	// ImportPath and Package locate the package holding Document.
	ImportPath string
	Package    string
	// Validate checks paths while generating.
	Validate scrape.Validator
}

// FuncName returns the name of the entry function generated for typ.
func (f Flavor) FuncName(typ string) string {
	return typ + "From" + f.Suffix
}

// FillMethod returns the name of the per-struct fill method.
func (f Flavor) FillMethod() string {
	return "scrape" + f.Suffix
}

// Registry holds the flavors the generator knows about.
type Registry struct {
	flavors map[scrape.Flavor]Flavor
	order   []scrape.Flavor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{flavors: map[scrape.Flavor]Flavor{}}
}

// DefaultRegistry returns a registry with the css and xpath flavors.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	_ = r.Register(Flavor{
		Name:       scrape.CSS,
		Suffix:     "CSS",
		ImportPath: "astuart.co/scrape/css",
		Package:    "css",
		Validate:   css.Validate,
	})
	_ = r.Register(Flavor{
		Name:       scrape.XPath,
		Suffix:     "XPath",
		ImportPath: "astuart.co/scrape/xpath",
		Package:    "xpath",
		Validate:   xpath.Validate,
	})
	return r
}

// Register adds a flavor. Names must be unique.
func (r *Registry) Register(f Flavor) error {
	if f.Name == "" || f.Suffix == "" || f.ImportPath == "" || f.Package == "" {
		return fmt.Errorf("incomplete flavor %q", f.Name)
	}
	if _, ok := r.flavors[f.Name]; ok {
		return fmt.Errorf("flavor %q already registered", f.Name)
	}
	r.flavors[f.Name] = f
	r.order = append(r.order, f.Name)
	return nil
}

// Get retrieves a flavor by name.
func (r *Registry) Get(name scrape.Flavor) (Flavor, error) {
	f, ok := r.flavors[name]
	if !ok {
		return Flavor{}, fmt.Errorf("unknown flavor: %s", name)
	}
	return f, nil
}

// Names returns the registered flavor names in registration order.
func (r *Registry) Names() []scrape.Flavor {
	return append([]scrape.Flavor(nil), r.order...)
}
