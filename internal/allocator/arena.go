// Package allocator provides arena-based allocation for long-lived
// compiler objects. Objects allocated from an arena are never freed
// individually; they live until the arena is reset together with the
// owning compilation context.
package allocator

// DefaultChunkSize is the per-chunk element count used when an arena is
// created with a non-positive chunk size.
const DefaultChunkSize = 64

// Arena is a chunked bump allocator for values of type T. Allocated
// pointers are stable: growing the arena appends new chunks and never
// moves existing elements.
//
// An Arena is not safe for concurrent use. The intended pattern is
// single-threaded allocation during construction of a compilation
// context, after which the allocated objects are read-only.
type Arena[T any] struct {
	chunks    [][]T
	chunkSize int
	allocs    uint64
}

// NewArena creates an arena whose chunks hold chunkSize elements each.
func NewArena[T any](chunkSize int) *Arena[T] {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	return &Arena[T]{chunkSize: chunkSize}
}

// Alloc returns a pointer to a new zero value placed in the arena.
func (a *Arena[T]) Alloc() *T {
	n := len(a.chunks)
	if n == 0 || len(a.chunks[n-1]) == cap(a.chunks[n-1]) {
		a.chunks = append(a.chunks, make([]T, 0, a.chunkSize))
		n++
	}

	chunk := &a.chunks[n-1]
	*chunk = append(*chunk, *new(T))
	a.allocs++

	return &(*chunk)[len(*chunk)-1]
}

// New places a copy of v in the arena and returns its stable address.
func (a *Arena[T]) New(v T) *T {
	p := a.Alloc()
	*p = v

	return p
}

// Len returns the number of live elements in the arena.
func (a *Arena[T]) Len() int {
	n := 0
	for _, c := range a.chunks {
		n += len(c)
	}

	return n
}

// Cap returns the total element capacity currently reserved.
func (a *Arena[T]) Cap() int {
	n := 0
	for _, c := range a.chunks {
		n += cap(c)
	}

	return n
}

// Reset releases every allocation at once. The first chunk's storage is
// retained for reuse; pointers handed out before the reset are invalid.
func (a *Arena[T]) Reset() {
	if len(a.chunks) > 0 {
		a.chunks[0] = a.chunks[0][:0]
		a.chunks = a.chunks[:1]
	}
}

// Mark captures the current allocation position.
type Mark struct {
	chunk int
	used  int
}

// Mark returns a marker for the arena's current state.
func (a *Arena[T]) Mark() Mark {
	if len(a.chunks) == 0 {
		return Mark{}
	}

	n := len(a.chunks)

	return Mark{chunk: n - 1, used: len(a.chunks[n-1])}
}

// Release rewinds the arena to a previously captured mark, discarding
// every allocation made after it. Releasing a stale mark (one taken
// before a Reset) is a no-op when it no longer fits.
func (a *Arena[T]) Release(m Mark) {
	if m.chunk >= len(a.chunks) {
		return
	}

	if m.used > len(a.chunks[m.chunk]) {
		return
	}

	a.chunks[m.chunk] = a.chunks[m.chunk][:m.used]
	a.chunks = a.chunks[:m.chunk+1]
}

// ArenaStats reports allocation statistics for an arena.
type ArenaStats struct {
	Live            int
	Capacity        int
	Chunks          int
	AllocationCount uint64
}

// Stats returns a snapshot of the arena's allocation statistics.
func (a *Arena[T]) Stats() ArenaStats {
	return ArenaStats{
		Live:            a.Len(),
		Capacity:        a.Cap(),
		Chunks:          len(a.chunks),
		AllocationCount: a.allocs,
	}
}
