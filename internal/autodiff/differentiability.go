package autodiff

import "github.com/orizon-lang/orizon-autodiff/internal/types"

// Mode is the differentiation mode tag. It is defined by the
// surrounding differentiation machinery and carried here opaquely.
type Mode int

const (
	// ForwardMode differentiates by propagating tangents forward.
	ForwardMode Mode = iota
	// ReverseMode differentiates by propagating adjoints backward.
	ReverseMode
)

func (m Mode) String() string {
	switch m {
	case ForwardMode:
		return "forward"
	case ReverseMode:
		return "reverse"
	default:
		return "unknown"
	}
}

// Differentiability records how a declaration is differentiable: in
// which mode, whether with respect to the receiver, and over which
// parameters and results.
type Differentiability struct {
	parameterIndices BitVector
	resultIndices    BitVector
	mode             Mode
	wrtSelf          bool
}

// NewDifferentiability builds a Differentiability from explicit index
// vectors.
func NewDifferentiability(mode Mode, wrtSelf bool, parameterIndices, resultIndices BitVector) Differentiability {
	return Differentiability{
		mode:             mode,
		wrtSelf:          wrtSelf,
		parameterIndices: parameterIndices,
		resultIndices:    resultIndices,
	}
}

// FullDifferentiability derives the default selection for fn: every
// parameter, and exactly one result (index 0). Result selection stays
// single until the derivative generator can model choosing among
// multiple results. A signature with a receiver must have the curried
// method shape; its inner parameter list is the one selected over.
func FullDifferentiability(mode Mode, fn *types.Function) Differentiability {
	d := Differentiability{mode: mode, wrtSelf: fn.HasSelfParam}

	params := fn
	if d.wrtSelf {
		params = unwrapSelfParameter(fn, true)
	}

	d.parameterIndices = NewBitVector(params.NumParams())
	d.parameterIndices.SetAll()

	d.resultIndices = NewBitVector(1)
	d.resultIndices.SetAll()

	return d
}

// Mode returns the differentiation mode.
func (d Differentiability) Mode() Mode { return d.mode }

// WrtSelf reports whether the receiver participates.
func (d Differentiability) WrtSelf() bool { return d.wrtSelf }

// ParameterIndices returns the selected parameter bits.
func (d Differentiability) ParameterIndices() BitVector { return d.parameterIndices }

// ResultIndices returns the selected result bits.
func (d Differentiability) ResultIndices() BitVector { return d.resultIndices }
