package autodiff

import (
	"fmt"
	"strings"

	"github.com/orizon-lang/orizon-autodiff/internal/types"
)

// ParameterIndexSet selects a subset of a function's logical parameters
// for differentiation. For a method, the last bit is reserved for the
// receiver; all other bits index the non-self parameters in declaration
// order.
//
// A set is mutated only through the Set* methods, and only while the
// owning declaration is being constructed. Once handed to other passes
// it is read-only.
type ParameterIndexSet struct {
	bits     BitVector
	isMethod bool
}

// unwrapSelfParameter returns the non-self part of fn when isMethod is
// set, e.g. (Self) -> (A, B) -> R becomes (A, B) -> R. Otherwise it
// returns fn unmodified.
func unwrapSelfParameter(fn *types.Function, isMethod bool) *types.Function {
	if !isMethod {
		return fn
	}

	if fn.NumParams() != 1 {
		panic(fmt.Sprintf("autodiff: curried method type has %d outer parameters, want 1", fn.NumParams()))
	}

	inner, ok := fn.Result().(*types.Function)
	if !ok {
		panic("autodiff: curried method result is not a function type")
	}

	return inner
}

// NewParameterIndexSet creates an empty selection sized for fn. When
// isMethod is set, fn must be the curried method shape and one extra
// bit is reserved for the receiver. When selectAll is set, every bit
// (including the receiver's, if any) starts out selected.
func NewParameterIndexSet(fn *types.Function, isMethod, selectAll bool) *ParameterIndexSet {
	paramCount := unwrapSelfParameter(fn, isMethod).NumParams()
	if isMethod {
		paramCount++
	}

	s := &ParameterIndexSet{bits: NewBitVector(paramCount), isMethod: isMethod}
	if selectAll {
		s.bits.SetAll()
	}

	return s
}

// ParseParameterIndexSet parses the canonical form produced by String:
//
//	[FM][SU]+
//
// "F" for a free function, "M" for a method, then one "S" (set) or "U"
// (unset) per bit. Malformed input yields (nil, false); this is the
// only recoverable failure in the package.
func ParseParameterIndexSet(s string) (*ParameterIndexSet, bool) {
	if len(s) < 2 {
		return nil, false
	}

	var isMethod bool

	switch s[0] {
	case 'M':
		isMethod = true
	case 'F':
	default:
		return nil, false
	}

	bits := NewBitVector(len(s) - 1)

	for i := 1; i < len(s); i++ {
		switch s[i] {
		case 'S':
			bits.Set(i - 1)
		case 'U':
		default:
			return nil, false
		}
	}

	return &ParameterIndexSet{bits: bits, isMethod: isMethod}, true
}

// String returns the canonical textual form, the exact inverse of
// ParseParameterIndexSet. This string is stable and used for
// serialization and name mangling.
func (s *ParameterIndexSet) String() string {
	var b strings.Builder

	if s.isMethod {
		b.WriteByte('M')
	} else {
		b.WriteByte('F')
	}

	for i := 0; i < s.bits.Len(); i++ {
		if s.bits.Test(i) {
			b.WriteByte('S')
		} else {
			b.WriteByte('U')
		}
	}

	return b.String()
}

// IsMethod reports whether the set reserves a receiver bit.
func (s *ParameterIndexSet) IsMethod() bool { return s.isMethod }

// Bits returns the underlying bit vector.
func (s *ParameterIndexSet) Bits() BitVector { return s.bits }

// Equal reports whether the two sets have the same method flag and the
// same bit pattern.
func (s *ParameterIndexSet) Equal(other *ParameterIndexSet) bool {
	return s.isMethod == other.isMethod && s.bits.Equal(other.bits)
}

// NumNonSelfParameters returns the number of bits that index non-self
// parameters.
func (s *ParameterIndexSet) NumNonSelfParameters() int {
	if s.isMethod {
		return s.bits.Len() - 1
	}

	return s.bits.Len()
}

// SetNonSelfParameter selects the i-th non-self parameter. The index
// must be below NumNonSelfParameters.
func (s *ParameterIndexSet) SetNonSelfParameter(i int) {
	if i < 0 || i >= s.NumNonSelfParameters() {
		panic(fmt.Sprintf("autodiff: parameter index %d out of range [0, %d)", i, s.NumNonSelfParameters()))
	}

	s.bits.Set(i)
}

// SetAllNonSelfParameters selects every non-self parameter.
func (s *ParameterIndexSet) SetAllNonSelfParameters() {
	s.bits.SetRange(0, s.NumNonSelfParameters())
}

// SetSelfParameter selects the receiver. The set must be a method set.
func (s *ParameterIndexSet) SetSelfParameter() {
	if !s.isMethod {
		panic("autodiff: cannot select self on a non-method parameter index set")
	}

	s.bits.Set(s.bits.Len() - 1)
}

// SubsetParameterTypes returns the types of the selected parameters in
// declaration order, with the receiver (when selected) always first.
//
// With selfUncurried unset, fn has the curried shape
// (Self) -> (P0, ..., Pn) -> R and the non-self bits index the inner
// list. With selfUncurried set, fn is already flattened to
// (P0, ..., Pn, Self) -> R: the receiver is read from the last flat
// position but is still reported first.
func (s *ParameterIndexSet) SubsetParameterTypes(fn *types.Function, selfUncurried bool) []types.Type {
	var out []types.Type

	if selfUncurried && s.isMethod {
		if s.bits.Test(s.bits.Len() - 1) {
			out = append(out, fn.Param(fn.NumParams()-1))
		}

		for i := 0; i < fn.NumParams()-1; i++ {
			if s.bits.Test(i) {
				out = append(out, fn.Param(i))
			}
		}

		return out
	}

	unwrapped := unwrapSelfParameter(fn, s.isMethod)
	if s.isMethod && s.bits.Test(s.bits.Len()-1) {
		out = append(out, fn.Param(0))
	}

	for i := 0; i < unwrapped.NumParams(); i++ {
		if s.bits.Test(i) {
			out = append(out, unwrapped.Param(i))
		}
	}

	return out
}

// Lower translates the selection to the granularity of the lowered
// function: tuples are exploded into their scalar leaves and a method's
// receiver is placed at the end of the flat parameter list. Each
// selected logical parameter sets the whole contiguous bit range its
// leaves occupy. For example, (A, (B, C), D) -> R with A and (B, C)
// selected lowers to 1110.
func (s *ParameterIndexSet) Lower(fn *types.Function, selfUncurried bool) BitVector {
	unwrapped := fn
	if !selfUncurried {
		unwrapped = unwrapSelfParameter(fn, s.isMethod)
	}

	widths := make([]int, 0, s.bits.Len())
	total := 0

	addWidth := func(t types.Type) {
		w := types.FlattenedCount(t)
		widths = append(widths, w)
		total += w
	}

	for _, p := range unwrapped.Params() {
		addWidth(p)
	}

	if s.isMethod && !selfUncurried {
		addWidth(fn.Param(0))
	}

	lowered := NewBitVector(total)
	pos := 0

	for i := 0; i < s.bits.Len(); i++ {
		w := widths[i]
		if s.bits.Test(i) {
			lowered.SetRange(pos, pos+w)
		}

		pos += w
	}

	return lowered
}
