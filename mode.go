package scrape

import (
	"fmt"
	"strconv"
	"strings"
)

type modeKind int

const (
	modeHTML modeKind = iota
	modeName
	modeID
	modeText
	modeInnerHTML
	modeHasClass
	modeAttr
)

// Flag spellings accepted in the extract tag.
const (
	flagName      = "name"
	flagID        = "id"
	flagText      = "text"
	flagHTML      = "html"
	flagInnerHTML = "inner_html"
	flagHasClass  = "has_class"
	flagAttr      = "attr"
)

var modeOptions = []string{flagName, flagID, flagText, flagHTML, flagInnerHTML, flagHasClass + "=<class>", flagAttr + "=<name>"}

// Mode is the operation applied to a matched element to obtain a field's raw
// value. The zero Mode extracts outer HTML.
type Mode struct {
	kind modeKind
	arg  string
}

// Name extracts the element name.
func Name() Mode { return Mode{kind: modeName} }

// ID extracts the id attribute.
func ID() Mode { return Mode{kind: modeID} }

// Text extracts the trimmed text content.
func Text() Mode { return Mode{kind: modeText} }

// HTML extracts the outer HTML: a match of <a>X</a> yields "<a>X</a>".
// InnerHTML yields just "X".
func HTML() Mode { return Mode{kind: modeHTML} }

// InnerHTML extracts the HTML of the element's children, so <a>X</a> yields
// "X".
func InnerHTML() Mode { return Mode{kind: modeInnerHTML} }

// HasClass reports "true" or "false" depending on class membership.
func HasClass(class string) Mode { return Mode{kind: modeHasClass, arg: class} }

// Attr extracts the value of the named attribute.
func Attr(name string) Mode { return Mode{kind: modeAttr, arg: name} }

// Arg returns the class or attribute name of HasClass and Attr modes.
func (m Mode) Arg() string { return m.arg }

// Guaranteed reports whether the mode yields a value for every element.
func (m Mode) Guaranteed() bool {
	switch m.kind {
	case modeID, modeAttr:
		return false
	}
	return true
}

func (m Mode) String() string {
	switch m.kind {
	case modeName:
		return flagName
	case modeID:
		return flagID
	case modeText:
		return flagText
	case modeInnerHTML:
		return flagInnerHTML
	case modeHasClass:
		return flagHasClass + "=" + m.arg
	case modeAttr:
		return flagAttr + "=" + m.arg
	}
	return flagHTML
}

// GoString renders the constructor call that produces m.
func (m Mode) GoString() string {
	switch m.kind {
	case modeName:
		return "scrape.Name()"
	case modeID:
		return "scrape.ID()"
	case modeText:
		return "scrape.Text()"
	case modeInnerHTML:
		return "scrape.InnerHTML()"
	case modeHasClass:
		return fmt.Sprintf("scrape.HasClass(%q)", m.arg)
	case modeAttr:
		return fmt.Sprintf("scrape.Attr(%q)", m.arg)
	}
	return "scrape.HTML()"
}

// Apply evaluates the mode against n. The boolean is false when the element
// has no such value.
func (m Mode) Apply(n Node) (string, bool, error) {
	switch m.kind {
	case modeName:
		return n.Name(), true, nil
	case modeID:
		v, ok := n.ID()
		return v, ok, nil
	case modeText:
		return n.Text(), true, nil
	case modeInnerHTML:
		s, err := n.InnerHTML()
		if err != nil {
			return "", false, err
		}
		return s, true, nil
	case modeHasClass:
		return strconv.FormatBool(n.HasClass(m.arg)), true, nil
	case modeAttr:
		v, ok := n.Attr(m.arg)
		return v, ok, nil
	}
	s, err := n.HTML()
	if err != nil {
		return "", false, err
	}
	return s, true, nil
}

// ParseMode parses a single extract flag.
func ParseMode(flag string) (Mode, error) {
	key, arg, hasArg := strings.Cut(strings.TrimSpace(flag), "=")
	key = strings.TrimSpace(key)
	arg = strings.TrimSpace(arg)

	var m Mode
	switch key {
	case flagName:
		m = Name()
	case flagID:
		m = ID()
	case flagText:
		m = Text()
	case flagHTML:
		m = HTML()
	case flagInnerHTML:
		m = InnerHTML()
	case flagHasClass, flagAttr:
		if arg == "" {
			return Mode{}, fmt.Errorf("%s: %s", missingModeArg, key)
		}
		if key == flagHasClass {
			return HasClass(arg), nil
		}
		return Attr(arg), nil
	default:
		return Mode{}, fmt.Errorf("%s %q", unknownMode, key)
	}
	if hasArg {
		return Mode{}, fmt.Errorf("%q takes no value", key)
	}
	return m, nil
}

// ResolveMode turns the flags of one field into its single extraction mode.
// No flag means HTML; more than one flag is a configuration error.
func ResolveMode(typeName, field string, flags []string) (Mode, error) {
	var present []string
	for _, f := range flags {
		if strings.TrimSpace(f) != "" {
			present = append(present, f)
		}
	}

	switch len(present) {
	case 0:
		return HTML(), nil
	case 1:
		m, err := ParseMode(present[0])
		if err != nil {
			return Mode{}, &ConfigError{Type: typeName, Field: field, Reason: invalidMode, Err: err}
		}
		return m, nil
	}

	names := make([]string, len(present))
	for i, f := range present {
		names[i] = strings.TrimSpace(f)
	}
	return Mode{}, &ConfigError{
		Type:   typeName,
		Field:  field,
		Reason: multipleModes,
		Detail: fmt.Sprintf("%s are mutually exclusive; use one of %s",
			strings.Join(names, ", "), strings.Join(modeOptions, ", ")),
	}
}
