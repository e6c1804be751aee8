package httpfile

import (
	"regexp"
)

var (
	varDefRe = regexp.MustCompile(`(?m)^[ \t]*@([A-Za-z_][\w.-]*)[ \t]*=[ \t]*(.*?)[ \t\r]*$`)
	varRefRe = regexp.MustCompile(`\{\{\s*([A-Za-z_][\w.-]*)\s*(?::[^{}]*)?\}\}`)
)

// Variables holds the `@name = value` definitions of a file.
type Variables struct {
	names []string
	raw   map[string]string
}

// scanVariables records every definition line of src and blanks it. The
// newline is kept so that line numbers in errors still point at the source.
func scanVariables(src string) (*Variables, string) {
	vars := &Variables{raw: map[string]string{}}
	body := varDefRe.ReplaceAllStringFunc(src, func(line string) string {
		m := varDefRe.FindStringSubmatch(line)
		if _, ok := vars.raw[m[1]]; !ok {
			vars.names = append(vars.names, m[1])
		}
		vars.raw[m[1]] = m[2]
		return ""
	})
	return vars, body
}

// Names returns the variable names in definition order.
func (v *Variables) Names() []string {
	return v.names
}

// Raw returns the unexpanded value of a variable.
func (v *Variables) Raw(name string) (string, bool) {
	s, ok := v.raw[name]
	return s, ok
}

// resolver expands variable references. A reference to a variable that is
// part of, or depends on, a reference cycle is left as written.
type resolver struct {
	vars   *Variables
	done   map[string]resolved
	active map[string]bool
}

type resolved struct {
	value  string
	cyclic bool
}

// Resolve returns every variable with its references expanded.
func (v *Variables) Resolve() map[string]string {
	r := &resolver{vars: v, done: map[string]resolved{}, active: map[string]bool{}}
	out := make(map[string]string, len(v.names))
	for _, name := range v.names {
		out[name] = r.resolve(name).value
	}
	return out
}

func (r *resolver) resolve(name string) resolved {
	if res, ok := r.done[name]; ok {
		return res
	}
	if r.active[name] {
		return resolved{cyclic: true}
	}
	r.active[name] = true
	defer delete(r.active, name)

	cyclic := false
	value := varRefRe.ReplaceAllStringFunc(r.vars.raw[name], func(ref string) string {
		ident := varRefRe.FindStringSubmatch(ref)[1]
		if _, ok := r.vars.raw[ident]; !ok {
			return ref
		}
		res := r.resolve(ident)
		if res.cyclic {
			cyclic = true
			return ref
		}
		return res.value
	})

	res := resolved{value: value, cyclic: cyclic}
	r.done[name] = res
	return res
}

// substitute replaces references to known variables in body.
func substitute(body string, values map[string]string) string {
	return varRefRe.ReplaceAllStringFunc(body, func(ref string) string {
		if v, ok := values[varRefRe.FindStringSubmatch(ref)[1]]; ok {
			return v
		}
		return ref
	})
}
