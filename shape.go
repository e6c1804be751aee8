package scrape

import (
	"go/ast"
	"reflect"
)

// Shape is the cardinality of a field, decided by its declared type.
type Shape int

// Shapes.
const (
	Scalar Shape = iota
	Optional
	Collection
)

func (s Shape) String() string {
	switch s {
	case Optional:
		return "optional"
	case Collection:
		return "collection"
	default:
		return "scalar"
	}
}

// ShapeOf classifies a reflected type: pointers are optional, slices are
// collections and everything else is a scalar.
func ShapeOf(t reflect.Type) Shape {
	if t == nil {
		return Scalar
	}
	switch t.Kind() {
	case reflect.Ptr:
		return Optional
	case reflect.Slice:
		return Collection
	}
	return Scalar
}

// ShapeOfExpr classifies a type as written in source. Qualified and
// unqualified names are scalars alike; only the pointer and slice forms carry
// a shape.
func ShapeOfExpr(expr ast.Expr) Shape {
	for {
		p, ok := expr.(*ast.ParenExpr)
		if !ok {
			break
		}
		expr = p.X
	}
	switch e := expr.(type) {
	case *ast.StarExpr:
		return Optional
	case *ast.ArrayType:
		if e.Len == nil {
			return Collection
		}
	}
	return Scalar
}

// elemType strips one level of shape from t.
func elemType(t reflect.Type, s Shape) reflect.Type {
	if s == Scalar {
		return t
	}
	return t.Elem()
}
