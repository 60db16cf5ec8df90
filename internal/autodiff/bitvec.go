// Package autodiff models differentiation parameter and result
// selections for the compiler's automatic differentiation support:
// which parameters of a function signature participate in a derivative,
// the canonical string form of that selection, its lowering to a
// flattened bit encoding, and the table offsets of generated derivative
// functions.
package autodiff

import (
	"fmt"
	"math/bits"
	"strings"
)

const wordBits = 64

// BitVector is a fixed-length, word-packed vector of bits. The zero
// value is an empty vector. Bits are only ever set, never cleared;
// selections grow monotonically during construction and are read-only
// once published.
type BitVector struct {
	words []uint64
	n     int
}

// NewBitVector creates an all-unset vector of length n.
func NewBitVector(n int) BitVector {
	if n < 0 {
		panic(fmt.Sprintf("autodiff: negative bit vector length %d", n))
	}

	return BitVector{words: make([]uint64, (n+wordBits-1)/wordBits), n: n}
}

// Len returns the vector's length in bits.
func (v BitVector) Len() int { return v.n }

// Test reports whether bit i is set. Indices past the end read as
// unset, which is what length-tolerant comparisons rely on.
func (v BitVector) Test(i int) bool {
	if i < 0 || i >= v.n {
		return false
	}

	return v.words[i/wordBits]&(1<<(i%wordBits)) != 0
}

// Set sets bit i. The index must be within the vector's length.
func (v *BitVector) Set(i int) {
	if i < 0 || i >= v.n {
		panic(fmt.Sprintf("autodiff: bit index %d out of range [0, %d)", i, v.n))
	}

	v.words[i/wordBits] |= 1 << (i % wordBits)
}

// SetRange sets every bit in [lo, hi).
func (v *BitVector) SetRange(lo, hi int) {
	if lo < 0 || hi > v.n || lo > hi {
		panic(fmt.Sprintf("autodiff: bit range [%d, %d) out of range [0, %d)", lo, hi, v.n))
	}

	for i := lo; i < hi; i++ {
		v.words[i/wordBits] |= 1 << (i % wordBits)
	}
}

// SetAll sets every bit.
func (v *BitVector) SetAll() {
	v.SetRange(0, v.n)
}

// Count returns the number of set bits.
func (v BitVector) Count() int {
	n := 0
	for _, w := range v.words {
		n += bits.OnesCount64(w)
	}

	return n
}

// SetBits returns the set bit positions in ascending order.
func (v BitVector) SetBits() []int {
	out := make([]int, 0, v.Count())
	for i := 0; i < v.n; i++ {
		if v.Test(i) {
			out = append(out, i)
		}
	}

	return out
}

// SameBits reports whether the two vectors have exactly the same set
// bit positions. Lengths may differ; the shorter vector is treated as
// zero-padded. This is deliberately not Equal: selections lowered
// against differently sized signatures must still compare equal when
// they select the same positions.
func (v BitVector) SameBits(other BitVector) bool {
	long, short := v.words, other.words
	if len(long) < len(short) {
		long, short = short, long
	}

	for i, w := range long {
		var sw uint64
		if i < len(short) {
			sw = short[i]
		}

		if w != sw {
			return false
		}
	}

	return true
}

// Equal reports strict equality: same length and same bits.
func (v BitVector) Equal(other BitVector) bool {
	return v.n == other.n && v.SameBits(other)
}

// String renders the vector as a run of '1' and '0' characters, bit 0
// first.
func (v BitVector) String() string {
	var b strings.Builder
	for i := 0; i < v.n; i++ {
		if v.Test(i) {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}

	return b.String()
}
