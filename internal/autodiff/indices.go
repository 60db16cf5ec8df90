package autodiff

import "fmt"

// Indices pairs a differentiable result index with a parameter
// selection at the lowered (tuple-exploded, self-repositioned)
// granularity. Source is currently always 0; selecting any other
// result is a known limitation of the derivative generator.
type Indices struct {
	Parameters BitVector
	Source     uint
}

// NewIndices builds an Indices from a result index and a strictly
// ascending list of lowered parameter positions. The parameter vector
// is sized to hold the largest listed position. Passing unsorted or
// duplicate positions violates the caller contract and panics.
func NewIndices(source uint, params []int) Indices {
	ix := Indices{Source: source}
	if len(params) == 0 {
		return ix
	}

	max := params[len(params)-1]
	for _, p := range params {
		if p > max {
			max = p
		}
	}

	ix.Parameters = NewBitVector(max + 1)

	last := -1
	for _, p := range params {
		if p <= last {
			panic(fmt.Sprintf("autodiff: parameter indices must be strictly ascending, got %d after %d", p, last))
		}

		last = p
		ix.Parameters.Set(p)
	}

	return ix
}

// Equal reports whether the two indices select the same result and the
// same set of lowered parameter positions. Vector lengths are
// irrelevant: the shorter vector is treated as zero-padded, so indices
// derived from differently sized signatures still compare equal when
// their selections agree.
func (ix Indices) Equal(other Indices) bool {
	if ix.Source != other.Source {
		return false
	}

	return ix.Parameters.SameBits(other.Parameters)
}

func (ix Indices) String() string {
	return fmt.Sprintf("(source=%d parameters=%s)", ix.Source, ix.Parameters)
}
