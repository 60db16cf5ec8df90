package autodiff

import "fmt"

// AssociatedFunctionKind identifies which generated derivative function
// an entry refers to: the forward-mode derivative ("jvp") or the
// reverse-mode derivative ("vjp").
type AssociatedFunctionKind int

const (
	// JVP is the forward-mode derivative (Jacobian-vector product).
	JVP AssociatedFunctionKind = iota
	// VJP is the reverse-mode derivative (vector-Jacobian product).
	VJP
)

func (k AssociatedFunctionKind) String() string {
	switch k {
	case JVP:
		return "jvp"
	case VJP:
		return "vjp"
	default:
		return fmt.Sprintf("AssociatedFunctionKind(%d)", int(k))
	}
}

// AssociatedFunctionKindFromString converts an internal tag back to its
// kind. The tag comes from trusted compiler state; anything other than
// "jvp" or "vjp" panics.
func AssociatedFunctionKindFromString(s string) AssociatedFunctionKind {
	k, ok := ParseAssociatedFunctionKind(s)
	if !ok {
		panic(fmt.Sprintf("autodiff: invalid associated function kind %q", s))
	}

	return k
}

// ParseAssociatedFunctionKind is the untrusted-input variant of
// AssociatedFunctionKindFromString.
func ParseAssociatedFunctionKind(s string) (AssociatedFunctionKind, bool) {
	switch s {
	case "jvp":
		return JVP, true
	case "vjp":
		return VJP, true
	default:
		return 0, false
	}
}

// NumAssociatedFunctions returns the number of derivative-table slots
// occupied by the given differentiation order.
func NumAssociatedFunctions(order uint) uint {
	return order * 2
}

// AssociatedFunctionOffset returns the index of an (order, kind) pair
// in a declaration's derivative function table.
//
// The block width is order-dependent: order n's block is n*2 slots
// wide, so blocks are not uniform across orders. External table
// layouts depend on this exact packing; do not normalize it to a
// constant stride.
func AssociatedFunctionOffset(order uint, kind AssociatedFunctionKind) uint {
	if order < 1 {
		panic(fmt.Sprintf("autodiff: differentiation order must be >= 1, got %d", order))
	}

	return (order-1)*NumAssociatedFunctions(order) + uint(kind)
}

// AssociatedFunctionIdentifier names one generated derivative function
// of a declaration: its kind, its differentiation order, and the
// parameter selection it was generated for. Identifiers are allocated
// and uniqued by a Context; equal parameters yield the same pointer,
// so identifiers can be compared by identity and used as map keys.
type AssociatedFunctionIdentifier struct {
	parameterIndices *ParameterIndexSet
	kind             AssociatedFunctionKind
	order            uint
}

// Kind returns the derivative kind.
func (id *AssociatedFunctionIdentifier) Kind() AssociatedFunctionKind { return id.kind }

// DifferentiationOrder returns the derivative order, always >= 1.
func (id *AssociatedFunctionIdentifier) DifferentiationOrder() uint { return id.order }

// ParameterIndices returns the parameter selection the derivative was
// generated for. The set is owned by the allocating context.
func (id *AssociatedFunctionIdentifier) ParameterIndices() *ParameterIndexSet {
	return id.parameterIndices
}

// Offset returns the identifier's slot in the declaration's derivative
// function table.
func (id *AssociatedFunctionIdentifier) Offset() uint {
	return AssociatedFunctionOffset(id.order, id.kind)
}

func (id *AssociatedFunctionIdentifier) String() string {
	return fmt.Sprintf("%s.%d.%s", id.kind, id.order, id.parameterIndices)
}
