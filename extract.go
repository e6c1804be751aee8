package scrape

import "golang.org/x/net/html"

// All returns every match of path below n in document order, or n itself when
// path is empty.
func All(n Node, path string) ([]Node, error) {
	if path == "" {
		return []Node{n}, nil
	}
	return n.Query(path)
}

// First returns the first match of path below n, or n itself when path is
// empty.
func First(n Node, path string) (Node, bool, error) {
	if path == "" {
		return n, true, nil
	}
	matches, err := n.Query(path)
	if err != nil || len(matches) == 0 {
		return nil, false, err
	}
	return matches[0], true, nil
}

// Value applies m to the first match of path. The boolean is false when
// nothing matched or the match has no such value.
func Value(n Node, path string, m Mode) (string, bool, error) {
	match, ok, err := First(n, path)
	if err != nil || !ok {
		return "", false, err
	}
	return m.Apply(match)
}

// Values applies m to every match of path and keeps the non-empty results in
// match order. The result is never nil.
func Values(n Node, path string, m Mode) ([]string, error) {
	matches, err := All(n, path)
	if err != nil {
		return nil, err
	}
	vals := make([]string, 0, len(matches))
	for _, match := range matches {
		v, ok, err := m.Apply(match)
		if err != nil {
			return nil, err
		}
		if !ok || v == "" {
			continue
		}
		vals = append(vals, v)
	}
	return vals, nil
}

// ScalarValue extracts a single value, falling back to def when nothing is found.
func ScalarValue[T any](n Node, path string, m Mode, def string) (T, error) {
	v, ok, err := Value(n, path, m)
	if err != nil {
		var zero T
		return zero, err
	}
	if !ok {
		v = def
	}
	return Coerce[T](v)
}

// OptionalValue extracts a single value, or nil when nothing is found.
func OptionalValue[T any](n Node, path string, m Mode) (*T, error) {
	v, ok, err := Value(n, path, m)
	if err != nil || !ok {
		return nil, err
	}
	t, err := Coerce[T](v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CollectionValue extracts every non-empty value in match order.
func CollectionValue[T any](n Node, path string, m Mode) ([]T, error) {
	vals, err := Values(n, path, m)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(vals))
	for _, v := range vals {
		t, err := Coerce[T](v)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// Nodes returns the raw nodes behind every match of path.
func Nodes(n Node, path string) ([]*html.Node, error) {
	matches, err := All(n, path)
	if err != nil {
		return nil, err
	}
	return htmlNodes(matches), nil
}

func htmlNodes(matches []Node) []*html.Node {
	nodes := make([]*html.Node, 0, len(matches))
	for _, m := range matches {
		nodes = append(nodes, m.HTMLNodes()...)
	}
	return nodes
}

// UnmarshalInto hands the nodes matched by path to u, even when there are
// none.
func UnmarshalInto(n Node, path string, u Unmarshaler) error {
	nodes, err := Nodes(n, path)
	if err != nil {
		return err
	}
	return wrapUnmErr(u.UnmarshalHTML(nodes))
}

// UnmarshalOptional allocates a T for the matches of path, or returns nil
// when nothing matched.
func UnmarshalOptional[T any, PT interface {
	*T
	Unmarshaler
}](n Node, path string) (*T, error) {
	nodes, err := Nodes(n, path)
	if err != nil || len(nodes) == 0 {
		return nil, err
	}
	t := new(T)
	if err := wrapUnmErr(PT(t).UnmarshalHTML(nodes)); err != nil {
		return nil, err
	}
	return t, nil
}

// UnmarshalEach unmarshals one T per match of path.
func UnmarshalEach[T any, PT interface {
	*T
	Unmarshaler
}](n Node, path string) ([]T, error) {
	matches, err := All(n, path)
	if err != nil {
		return nil, err
	}
	out := make([]T, len(matches))
	for i, match := range matches {
		if err := wrapUnmErr(PT(&out[i]).UnmarshalHTML(match.HTMLNodes())); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func wrapUnmErr(err error) error {
	if err == nil {
		return nil
	}
	return &ExtractError{Reason: customUnmarshalError, Err: err}
}

// Fill extracts a single T from root with fill. The zero T is returned on
// error.
func Fill[T any](root Node, fill func(*T, Node) error) (T, error) {
	var v T
	if root == nil {
		return v, ErrNilDocument
	}
	if err := fill(&v, root); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// Each extracts one T per element matched by the container path of typeName.
func Each[T any](root Node, typeName, path string, fill func(*T, Node) error) ([]T, error) {
	if root == nil {
		return nil, ErrNilDocument
	}
	items, err := root.Query(path)
	if err != nil {
		return nil, &ExtractError{Type: typeName, Reason: queryError, Err: err}
	}
	out := make([]T, len(items))
	for i, item := range items {
		if err := fill(&out[i], item); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Nested fills dst from the first match of path. dst is left alone when
// nothing matched.
func Nested[T any](n Node, path string, dst *T, fill func(*T, Node) error) error {
	match, ok, err := First(n, path)
	if err != nil || !ok {
		return err
	}
	var v T
	if err := fill(&v, match); err != nil {
		return err
	}
	*dst = v
	return nil
}

// NestedOptional fills a new T from the first match of path, or returns nil
// when nothing matched.
func NestedOptional[T any](n Node, path string, fill func(*T, Node) error) (*T, error) {
	match, ok, err := First(n, path)
	if err != nil || !ok {
		return nil, err
	}
	v := new(T)
	if err := fill(v, match); err != nil {
		return nil, err
	}
	return v, nil
}

// NestedEach fills one T per match of path.
func NestedEach[T any](n Node, path string, fill func(*T, Node) error) ([]T, error) {
	matches, err := All(n, path)
	if err != nil {
		return nil, err
	}
	out := make([]T, len(matches))
	for i, match := range matches {
		if err := fill(&out[i], match); err != nil {
			return nil, err
		}
	}
	return out, nil
}
