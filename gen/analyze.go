package gen

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"reflect"
	"strconv"
	"strings"

	"astuart.co/scrape"
)

// Type is the analysed annotation of one struct type for one flavor.
type Type struct {
	scrape.ContainerSpec

	// Root is set for types that get an entry function. Other types are only
	// reached as nested fields.
	Root   bool
	Fields []Field
}

// Field is a field of a Type with its resolved Go types.
type Field struct {
	scrape.FieldSpec

	// Elem is the field type without its shape, as written in the output
	// package.
	Elem string
	// Nested names the struct type of a StructTarget field.
	Nested string

	elem types.Type
}

type structDecl struct {
	name string
	st   *ast.StructType
}

type analyzer struct {
	pkg    *Package
	flavor Flavor
	decls  map[string]structDecl
	order  []string
	types  map[string]*Type
	queue  []string
}

func newAnalyzer(pkg *Package, flavor Flavor) *analyzer {
	a := &analyzer{
		pkg:    pkg,
		flavor: flavor,
		decls:  map[string]structDecl{},
		types:  map[string]*Type{},
	}
	for _, f := range pkg.Files {
		if ast.IsGenerated(f) {
			continue
		}
		for _, d := range f.Decls {
			gd, ok := d.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}
			for _, s := range gd.Specs {
				ts := s.(*ast.TypeSpec)
				st, ok := ts.Type.(*ast.StructType)
				if !ok || ts.TypeParams != nil {
					continue
				}
				a.decls[ts.Name.Name] = structDecl{name: ts.Name.Name, st: st}
				a.order = append(a.order, ts.Name.Name)
			}
		}
	}
	return a
}

// Analyze resolves the annotations of the struct types of pkg for flavor.
// With no names, every struct type annotated for flavor is a root. Nested
// struct types reached from a root follow the roots.
func Analyze(pkg *Package, flavor Flavor, names ...string) ([]*Type, error) {
	return analyzeWith(newAnalyzer(pkg, flavor), names)
}

func (a *analyzer) notStruct(name string) error {
	obj := a.pkg.Types.Scope().Lookup(name)
	if obj == nil {
		return fmt.Errorf("type %s not found in package %s", name, a.pkg.Path)
	}
	kind := "not a type"
	if tn, ok := obj.(*types.TypeName); ok {
		kind = types.TypeString(tn.Type().Underlying(), types.RelativeTo(a.pkg.Types))
	}
	return scrape.NotStructError(name, kind)
}

// annotated reports whether a struct declares anything for the flavor.
func (a *analyzer) annotated(d structDecl) bool {
	for _, f := range d.st.Fields.List {
		tag := fieldTag(f)
		for _, name := range fieldNames(f) {
			if _, ok := scrape.ContainerPath(name, tag, a.flavor.Name); ok {
				return true
			}
			if _, ok, err := scrape.ParseField(d.name, name, tag, a.flavor.Name); ok || err != nil {
				return true
			}
		}
	}
	return false
}

func (a *analyzer) analyze(name string) (*Type, error) {
	if t, ok := a.types[name]; ok {
		return t, nil
	}
	d := a.decls[name]
	t := &Type{}
	t.Type = name
	t.Flavor = a.flavor.Name
	a.types[name] = t
	a.queue = append(a.queue, name)

	for _, f := range d.st.Fields.List {
		tag := fieldTag(f)
		for _, fieldName := range fieldNames(f) {
			if path, ok := scrape.ContainerPath(fieldName, tag, a.flavor.Name); ok {
				if err := scrape.ValidatePath(name, "", path, a.flavor.Validate); err != nil {
					return nil, err
				}
				t.Path = path
				continue
			}
			if !ast.IsExported(fieldName) {
				continue
			}
			spec, ok, err := scrape.ParseField(name, fieldName, tag, a.flavor.Name)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			field, err := a.field(name, spec, f.Type)
			if err != nil {
				return nil, err
			}
			t.Fields = append(t.Fields, field)
			t.ContainerSpec.Fields = append(t.ContainerSpec.Fields, field.FieldSpec)
		}
	}
	return t, nil
}

func (a *analyzer) field(typeName string, spec scrape.FieldSpec, expr ast.Expr) (Field, error) {
	ft := a.pkg.Info.TypeOf(expr)
	if ft == nil {
		return Field{}, fmt.Errorf("%s.%s: no type information", typeName, spec.Name)
	}
	unsupported := func() error {
		return scrape.UnsupportedTypeError(typeName, spec.Name, types.TypeString(ft, types.RelativeTo(a.pkg.Types)))
	}

	// Named pointer and slice types carry their shape in the underlying type.
	spec.Shape = scrape.ShapeOfExpr(expr)
	if spec.Shape == scrape.Scalar && !hasMethod(ft, "UnmarshalHTML", htmlNodeSlice) {
		switch ft.Underlying().(type) {
		case *types.Pointer:
			spec.Shape = scrape.Optional
		case *types.Slice:
			spec.Shape = scrape.Collection
		}
	}

	elem := ft
	switch u := ft.Underlying().(type) {
	case *types.Pointer:
		if spec.Shape == scrape.Optional {
			elem = u.Elem()
		}
	case *types.Slice:
		if spec.Shape == scrape.Collection {
			elem = u.Elem()
		}
	}

	field := Field{}
	switch {
	case spec.Shape == scrape.Collection && types.TypeString(elem, nil) == htmlNodePtr:
		spec.Target = scrape.NodesTarget
	case isPointer(elem):
		return Field{}, unsupported()
	case hasMethod(elem, "UnmarshalHTML", htmlNodeSlice):
		spec.Target = scrape.UnmarshalerTarget
	case convertible(elem):
		spec.Target = scrape.ValueTarget
	case isStruct(elem):
		spec.Target = scrape.StructTarget
	default:
		return Field{}, unsupported()
	}

	if err := spec.Validate(typeName, a.flavor.Validate); err != nil {
		return Field{}, err
	}

	if spec.Target == scrape.StructTarget {
		named, ok := elem.(*types.Named)
		if !ok || named.Obj().Pkg() != a.pkg.Types || named.TypeArgs().Len() > 0 {
			return Field{}, fmt.Errorf("%s.%s: nested struct %s must be a non-generic type declared in package %s",
				typeName, spec.Name, types.TypeString(elem, nil), a.pkg.Name)
		}
		if _, ok := a.decls[named.Obj().Name()]; !ok {
			return Field{}, unsupported()
		}
		if _, err := a.analyze(named.Obj().Name()); err != nil {
			return Field{}, err
		}
		field.Nested = named.Obj().Name()
	}

	if spec.HasDefault {
		if err := checkDefault(spec.Default, elem); err != nil {
			return Field{}, scrape.InvalidDefaultError(typeName, spec.Name, spec.Default, err)
		}
	}

	field.FieldSpec = spec
	field.Elem = types.TypeString(elem, types.RelativeTo(a.pkg.Types))
	field.elem = elem
	return field, nil
}

// qualifier writes package names relative to the output package and records
// the imports they need.
func (a *analyzer) qualifier(imports map[string]bool) types.Qualifier {
	return func(p *types.Package) string {
		if p == a.pkg.Types {
			return ""
		}
		imports[p.Path()] = true
		return p.Name()
	}
}

const (
	htmlNodePtr   = "*golang.org/x/net/html.Node"
	htmlNodeSlice = "[]*golang.org/x/net/html.Node"
)

func fieldTag(f *ast.Field) reflect.StructTag {
	if f.Tag == nil {
		return ""
	}
	s, err := strconv.Unquote(f.Tag.Value)
	if err != nil {
		return ""
	}
	return reflect.StructTag(s)
}

// fieldNames returns the declared names of f. An embedded field is named
// after its type.
func fieldNames(f *ast.Field) []string {
	if len(f.Names) > 0 {
		names := make([]string, len(f.Names))
		for i, n := range f.Names {
			names[i] = n.Name
		}
		return names
	}
	expr := f.Type
	if s, ok := expr.(*ast.StarExpr); ok {
		expr = s.X
	}
	switch e := expr.(type) {
	case *ast.Ident:
		return []string{e.Name}
	case *ast.SelectorExpr:
		return []string{e.Sel.Name}
	}
	return nil
}

func isPointer(t types.Type) bool {
	_, ok := t.Underlying().(*types.Pointer)
	return ok
}

func isStruct(t types.Type) bool {
	_, ok := t.Underlying().(*types.Struct)
	return ok
}

// hasMethod reports whether *t has a method `name(param) error`.
func hasMethod(t types.Type, name, param string) bool {
	obj, _, _ := types.LookupFieldOrMethod(types.NewPointer(t), true, nil, name)
	fn, ok := obj.(*types.Func)
	if !ok {
		return false
	}
	sig := fn.Type().(*types.Signature)
	if sig.Params().Len() != 1 || sig.Results().Len() != 1 {
		return false
	}
	if types.TypeString(sig.Params().At(0).Type(), nil) != param {
		return false
	}
	return types.Identical(sig.Results().At(0).Type(), types.Universe.Lookup("error").Type())
}

// convertible mirrors the conversions of reflective extraction.
func convertible(t types.Type) bool {
	if hasMethod(t, "UnmarshalText", "[]byte") {
		return true
	}
	switch u := t.Underlying().(type) {
	case *types.Interface:
		return u.Empty()
	case *types.Basic:
		info := u.Info()
		return info&(types.IsBoolean|types.IsInteger|types.IsFloat|types.IsString) != 0 &&
			info&types.IsComplex == 0 && u.Kind() != types.Uintptr && u.Kind() != types.UnsafePointer
	}
	return false
}

// checkDefault parses def the way the generated code will.
func checkDefault(def string, t types.Type) error {
	if hasMethod(t, "UnmarshalText", "[]byte") {
		return nil
	}
	b, ok := t.Underlying().(*types.Basic)
	if !ok {
		return nil
	}
	s := strings.TrimSpace(def)
	var err error
	switch info := b.Info(); {
	case info&types.IsBoolean != 0:
		_, err = strconv.ParseBool(s)
	case info&types.IsUnsigned != 0:
		_, err = strconv.ParseUint(s, 10, bits(b.Kind()))
	case info&types.IsInteger != 0:
		_, err = strconv.ParseInt(s, 10, bits(b.Kind()))
	case info&types.IsFloat != 0:
		_, err = strconv.ParseFloat(s, bits(b.Kind()))
	}
	return err
}

func bits(k types.BasicKind) int {
	switch k {
	case types.Int8, types.Uint8:
		return 8
	case types.Int16, types.Uint16:
		return 16
	case types.Int32, types.Uint32, types.Float32:
		return 32
	}
	return 64
}
