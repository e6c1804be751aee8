package scrape

import (
	"reflect"
	"sync"
)

type planKey struct {
	typ    reflect.Type
	flavor Flavor
}

var (
	planMut   = sync.Mutex{}
	planCache = map[planKey]*Plan{}
)

// Plan is the compiled extraction of one struct type for one flavor. Plans
// are built once per type and shared.
type Plan struct {
	ContainerSpec

	typ    reflect.Type
	fields []fieldPlan
}

type fieldPlan struct {
	FieldSpec

	index  int
	elem   reflect.Type
	nested *Plan
}

// Compile returns the plan of t for flavor, building and validating it on
// first use. Every annotation problem is reported as a *ConfigError.
func Compile(t reflect.Type, flavor Flavor, validate Validator) (*Plan, error) {
	planMut.Lock()
	defer planMut.Unlock()

	// Plans built on the way are cached only once the whole type compiles.
	built := map[reflect.Type]*Plan{}
	p, err := compile(t, flavor, validate, built)
	if err != nil {
		return nil, err
	}
	for bt, bp := range built {
		planCache[planKey{bt, flavor}] = bp
	}
	return p, nil
}

func compile(t reflect.Type, flavor Flavor, validate Validator, seen map[reflect.Type]*Plan) (*Plan, error) {
	if p := planCache[planKey{t, flavor}]; p != nil {
		return p, nil
	}
	// Self-referential types get the plan that is still being built.
	if p := seen[t]; p != nil {
		return p, nil
	}

	if t == nil || t.Kind() != reflect.Struct {
		name := "<nil>"
		detail := ""
		if t != nil {
			name, detail = t.String(), t.Kind().String()
		}
		return nil, NotStructError(name, detail)
	}

	p := &Plan{typ: t}
	p.Type = t.Name()
	if p.Type == "" {
		p.Type = t.String()
	}
	p.Flavor = flavor
	seen[t] = p

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)

		if path, ok := ContainerPath(sf.Name, sf.Tag, flavor); ok {
			if err := ValidatePath(p.Type, "", path, validate); err != nil {
				return nil, err
			}
			p.Path = path
			continue
		}
		if !sf.IsExported() {
			continue
		}

		spec, ok, err := ParseField(p.Type, sf.Name, sf.Tag, flavor)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		fp, err := compileField(p.Type, i, sf.Type, spec, flavor, validate, seen)
		if err != nil {
			return nil, err
		}
		p.fields = append(p.fields, fp)
		p.Fields = append(p.Fields, fp.FieldSpec)
	}

	return p, nil
}

func compileField(typeName string, index int, ft reflect.Type, spec FieldSpec, flavor Flavor, validate Validator, seen map[reflect.Type]*Plan) (fieldPlan, error) {
	cfgErr := func(reason, detail string) error {
		return &ConfigError{Type: typeName, Field: spec.Name, Reason: reason, Detail: detail}
	}

	spec.Shape = ShapeOf(ft)
	// A named slice with its own UnmarshalHTML takes every match at once.
	if reflect.PointerTo(ft).Implements(unmarshalerType) {
		spec.Shape = Scalar
	}
	fp := fieldPlan{index: index, elem: elemType(ft, spec.Shape)}

	switch {
	case spec.Shape == Collection && fp.elem == htmlNodeType:
		spec.Target = NodesTarget
	case fp.elem.Kind() == reflect.Ptr:
		return fp, cfgErr(unsupportedType, "pointer to pointer or slice of pointers: "+ft.String())
	case reflect.PointerTo(fp.elem).Implements(unmarshalerType):
		spec.Target = UnmarshalerTarget
	case convertible(fp.elem):
		spec.Target = ValueTarget
	case fp.elem.Kind() == reflect.Struct:
		spec.Target = StructTarget
	default:
		return fp, cfgErr(unsupportedType, ft.String())
	}

	if err := spec.Validate(typeName, validate); err != nil {
		return fp, err
	}

	if spec.Target == StructTarget {
		nested, err := compile(fp.elem, flavor, validate, seen)
		if err != nil {
			return fp, err
		}
		fp.nested = nested
	}

	if spec.HasDefault {
		if err := unmarshalLiteral(spec.Default, reflect.New(fp.elem).Elem()); err != nil {
			return fp, InvalidDefaultError(typeName, spec.Name, spec.Default, err)
		}
	}

	fp.FieldSpec = spec
	return fp, nil
}

// One extracts a single instance from root into dst, which must be a settable
// value of the plan's type. dst is left untouched on error.
func (p *Plan) One(root Node, dst reflect.Value) error {
	if p.Path != "" {
		return &ExtractError{Type: p.Type, Reason: hasContainer}
	}
	v := reflect.New(p.typ).Elem()
	if err := p.fill(root, v); err != nil {
		return err
	}
	dst.Set(v)
	return nil
}

// All extracts one instance per element matched by the container path and
// stores them, in document order, in dst, which must be a settable slice of
// the plan's type.
func (p *Plan) All(root Node, dst reflect.Value) error {
	if p.Path == "" {
		return &ExtractError{Type: p.Type, Reason: noContainer}
	}
	items, err := root.Query(p.Path)
	if err != nil {
		return &ExtractError{Type: p.Type, Reason: queryError, Err: err}
	}

	out := reflect.MakeSlice(dst.Type(), 0, len(items))
	for _, item := range items {
		v := reflect.New(p.typ).Elem()
		if err := p.fill(item, v); err != nil {
			return err
		}
		out = reflect.Append(out, v)
	}
	dst.Set(out)
	return nil
}

func (p *Plan) fill(n Node, v reflect.Value) error {
	for i := range p.fields {
		f := &p.fields[i]
		if err := f.extract(n, v.Field(f.index)); err != nil {
			return FieldError(p.Type, f.Name, err)
		}
	}
	return nil
}

func setLiteral(s string, v reflect.Value) error {
	if err := unmarshalLiteral(s, v); err != nil {
		return &ExtractError{Reason: typeConversionError, Val: s, Err: err}
	}
	return nil
}

func (f *fieldPlan) extract(n Node, v reflect.Value) error {
	switch f.Target {
	case NodesTarget:
		nodes, err := Nodes(n, f.Path)
		if err != nil {
			return err
		}
		v.Set(reflect.ValueOf(nodes).Convert(v.Type()))
		return nil
	case UnmarshalerTarget:
		return f.unmarshal(n, v)
	case StructTarget:
		return f.nestedStruct(n, v)
	}

	switch f.Shape {
	case Optional:
		s, ok, err := Value(n, f.Path, f.Mode)
		if err != nil {
			return err
		}
		if !ok {
			v.Set(reflect.Zero(v.Type()))
			return nil
		}
		ptr := reflect.New(f.elem)
		if err := setLiteral(s, ptr.Elem()); err != nil {
			return err
		}
		v.Set(ptr)
	case Collection:
		vals, err := Values(n, f.Path, f.Mode)
		if err != nil {
			return err
		}
		out := reflect.MakeSlice(v.Type(), len(vals), len(vals))
		for i, s := range vals {
			if err := setLiteral(s, out.Index(i)); err != nil {
				return err
			}
		}
		v.Set(out)
	default:
		s, ok, err := Value(n, f.Path, f.Mode)
		if err != nil {
			return err
		}
		if !ok {
			s = f.Default
		}
		return setLiteral(s, v)
	}
	return nil
}

func (f *fieldPlan) unmarshal(n Node, v reflect.Value) error {
	switch f.Shape {
	case Optional:
		nodes, err := Nodes(n, f.Path)
		if err != nil {
			return err
		}
		if len(nodes) == 0 {
			v.Set(reflect.Zero(v.Type()))
			return nil
		}
		ptr := reflect.New(f.elem)
		if err := wrapUnmErr(ptr.Interface().(Unmarshaler).UnmarshalHTML(nodes)); err != nil {
			return err
		}
		v.Set(ptr)
	case Collection:
		matches, err := All(n, f.Path)
		if err != nil {
			return err
		}
		out := reflect.MakeSlice(v.Type(), len(matches), len(matches))
		for i, match := range matches {
			u := out.Index(i).Addr().Interface().(Unmarshaler)
			if err := wrapUnmErr(u.UnmarshalHTML(match.HTMLNodes())); err != nil {
				return err
			}
		}
		v.Set(out)
	default:
		return UnmarshalInto(n, f.Path, v.Addr().Interface().(Unmarshaler))
	}
	return nil
}

func (f *fieldPlan) nestedStruct(n Node, v reflect.Value) error {
	switch f.Shape {
	case Optional:
		match, ok, err := First(n, f.Path)
		if err != nil {
			return err
		}
		if !ok {
			v.Set(reflect.Zero(v.Type()))
			return nil
		}
		ptr := reflect.New(f.elem)
		if err := f.nested.fill(match, ptr.Elem()); err != nil {
			return err
		}
		v.Set(ptr)
	case Collection:
		matches, err := All(n, f.Path)
		if err != nil {
			return err
		}
		out := reflect.MakeSlice(v.Type(), len(matches), len(matches))
		for i, match := range matches {
			if err := f.nested.fill(match, out.Index(i)); err != nil {
				return err
			}
		}
		v.Set(out)
	default:
		match, ok, err := First(n, f.Path)
		if err != nil || !ok {
			return err
		}
		tmp := reflect.New(f.elem).Elem()
		if err := f.nested.fill(match, tmp); err != nil {
			return err
		}
		v.Set(tmp)
	}
	return nil
}
