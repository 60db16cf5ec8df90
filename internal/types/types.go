// Package types provides the structural type shapes consumed by the
// autodiff selection core: scalar types, tuple types, and function
// signatures. It deliberately exposes only the surface the core needs
// (parameter count, plain parameter types, result type, receiver flag,
// tuple elements) and leaves everything else to the full type checker.
package types

import (
	"fmt"
	"strings"
)

// TypeKind classifies a structural type.
type TypeKind int

const (
	KindScalar TypeKind = iota
	KindTuple
	KindFunction
)

// Type is implemented by all structural types.
type Type interface {
	Kind() TypeKind
	String() string
}

// Scalar is a non-tuple, non-function type identified by name.
type Scalar struct {
	Name string
}

// Named creates a scalar type with the given name.
func Named(name string) *Scalar {
	return &Scalar{Name: name}
}

func (s *Scalar) Kind() TypeKind { return KindScalar }
func (s *Scalar) String() string { return s.Name }

// Tuple is an ordered aggregate of element types.
type Tuple struct {
	Elems []Type
}

// NewTuple creates a tuple type from the given element types.
func NewTuple(elems ...Type) *Tuple {
	return &Tuple{Elems: elems}
}

func (t *Tuple) Kind() TypeKind { return KindTuple }

// Elements returns the tuple's element types in order.
func (t *Tuple) Elements() []Type { return t.Elems }

func (t *Tuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}

	return "(" + strings.Join(parts, ", ") + ")"
}

// Function is a function signature. A curried method type is a Function
// with HasSelfParam set whose single parameter is the receiver and whose
// result is the inner function type, i.e. (Self) -> (P0, ..., Pn) -> R.
// A self-uncurried method keeps HasSelfParam set but carries the
// receiver as the last entry of the flat parameter list.
type Function struct {
	ParamTypes   []Type
	ResultType   Type
	HasSelfParam bool
}

// NewFunction creates a plain function signature (P0, ..., Pn) -> R.
func NewFunction(params []Type, result Type) *Function {
	return &Function{ParamTypes: params, ResultType: result}
}

// MethodType creates the curried method shape (Self) -> inner.
func MethodType(self Type, inner *Function) *Function {
	return &Function{
		ParamTypes:   []Type{self},
		ResultType:   inner,
		HasSelfParam: true,
	}
}

// UncurriedMethodType creates the flattened method shape
// (P0, ..., Pn, Self) -> R.
func UncurriedMethodType(params []Type, self Type, result Type) *Function {
	flat := make([]Type, 0, len(params)+1)
	flat = append(flat, params...)
	flat = append(flat, self)

	return &Function{ParamTypes: flat, ResultType: result, HasSelfParam: true}
}

func (f *Function) Kind() TypeKind { return KindFunction }

// NumParams returns the number of parameters in the outermost list.
func (f *Function) NumParams() int { return len(f.ParamTypes) }

// Param returns the i-th parameter type of the outermost list.
func (f *Function) Param(i int) Type { return f.ParamTypes[i] }

// Params returns the outermost parameter list.
func (f *Function) Params() []Type { return f.ParamTypes }

// Result returns the result type.
func (f *Function) Result() Type { return f.ResultType }

func (f *Function) String() string {
	parts := make([]string, len(f.ParamTypes))
	for i, p := range f.ParamTypes {
		parts[i] = p.String()
	}

	return fmt.Sprintf("(%s) -> %s", strings.Join(parts, ", "), f.ResultType)
}

// FlattenedCount returns the number of scalar leaves a type lowers to:
// 1 for anything that is not a tuple, otherwise the recursive sum over
// the tuple's elements. Nested tuples expand fully.
func FlattenedCount(t Type) int {
	tup, ok := t.(*Tuple)
	if !ok {
		return 1
	}

	n := 0
	for _, e := range tup.Elems {
		n += FlattenedCount(e)
	}

	return n
}
