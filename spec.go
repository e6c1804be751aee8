package scrape

import (
	"reflect"
	"strings"
)

const (
	extractKey     = "extract"
	defaultKey     = "default"
	ignoreTag      = "-"
	containerField = "_"
)

// Flavors lists the flavors whose tag keys are recognised on fields.
var Flavors = []Flavor{CSS, XPath}

// Target is what the matches of a field are turned into.
type Target int

// Targets.
const (
	// ValueTarget converts the extracted string to the field type.
	ValueTarget Target = iota
	// StructTarget extracts a nested annotated struct relative to the match.
	StructTarget
	// UnmarshalerTarget hands the matched nodes to an Unmarshaler.
	UnmarshalerTarget
	// NodesTarget stores the matched *html.Node values.
	NodesTarget
)

// FieldSpec is the resolved annotation of one struct field.
type FieldSpec struct {
	Name   string
	Shape  Shape
	Target Target

	// Path is empty when the field inherits the current element.
	Path string

	Mode    Mode
	HasMode bool

	Default    string
	HasDefault bool
}

// ContainerSpec is the resolved annotation of a struct for one flavor. A
// non-empty Path selects the collection form.
type ContainerSpec struct {
	Type   string
	Flavor Flavor
	Path   string
	Fields []FieldSpec
}

// ContainerPath returns the container path declared on a blank field. ok is
// false when the field is not a container marker for flavor.
func ContainerPath(field string, tag reflect.StructTag, flavor Flavor) (path string, ok bool) {
	if field != containerField {
		return "", false
	}
	path, ok = tag.Lookup(string(flavor))
	path = strings.TrimSpace(path)
	if !ok || path == "" || path == ignoreTag {
		return "", false
	}
	return path, true
}

// ParseField reads the annotation of one field. ok is false when the field
// does not take part in flavor. Shape and Target are left for the caller,
// who knows the field type.
func ParseField(typeName, field string, tag reflect.StructTag, flavor Flavor) (spec FieldSpec, ok bool, err error) {
	if field == containerField {
		return FieldSpec{}, false, nil
	}

	path, hasPath := tag.Lookup(string(flavor))
	if hasPath && strings.TrimSpace(path) == ignoreTag {
		return FieldSpec{}, false, nil
	}
	extract, hasExtract := tag.Lookup(extractKey)
	def, hasDefault := tag.Lookup(defaultKey)

	if !hasPath {
		// Fields annotated for another flavor only do not inherit.
		for _, other := range Flavors {
			if _, tagged := tag.Lookup(string(other)); tagged && other != flavor {
				return FieldSpec{}, false, nil
			}
		}
		if !hasExtract && !hasDefault {
			return FieldSpec{}, false, nil
		}
	}

	spec = FieldSpec{
		Name:       field,
		Path:       strings.TrimSpace(path),
		Default:    def,
		HasDefault: hasDefault,
	}

	var flags []string
	if hasExtract {
		flags = strings.Split(extract, ",")
	}
	spec.Mode, err = ResolveMode(typeName, field, flags)
	if err != nil {
		return FieldSpec{}, false, err
	}
	spec.HasMode = strings.TrimSpace(extract) != ""
	return spec, true, nil
}

// ValidatePath checks path with validate and reports failures as a
// ConfigError.
func ValidatePath(typeName, field, path string, validate Validator) error {
	if path == "" || validate == nil {
		return nil
	}
	if err := validate(path); err != nil {
		return &ConfigError{Type: typeName, Field: field, Reason: invalidPath, Detail: path, Err: err}
	}
	return nil
}

// Validate enforces the invariants that do not depend on the host type
// system.
func (f FieldSpec) Validate(typeName string, validate Validator) error {
	cfgErr := func(reason, detail string) error {
		return &ConfigError{Type: typeName, Field: f.Name, Reason: reason, Detail: detail}
	}

	if err := ValidatePath(typeName, f.Name, f.Path, validate); err != nil {
		return err
	}
	if f.Shape == Collection && f.Path == "" {
		return cfgErr(collectionNeedsPath, "a list without a path has nothing to iterate")
	}

	if f.Target != ValueTarget {
		if f.HasMode {
			return cfgErr(modeNotAllowed, f.Mode.String())
		}
		if f.HasDefault {
			return cfgErr(defaultNotAllowed, "")
		}
		return nil
	}

	if f.HasDefault && f.Shape != Scalar {
		return cfgErr(defaultNotAllowed, f.Shape.String()+" field")
	}
	if f.Shape == Scalar && !f.HasDefault && (f.Path != "" || !f.Mode.Guaranteed()) {
		return cfgErr(missingDefault, `add default:"..." or make the field a pointer`)
	}
	return nil
}
