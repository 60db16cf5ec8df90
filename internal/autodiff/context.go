package autodiff

import (
	"fmt"

	"github.com/orizon-lang/orizon-autodiff/internal/allocator"
	"github.com/orizon-lang/orizon-autodiff/internal/types"
)

// Context owns the long-lived autodiff objects of one compilation:
// parameter index sets and associated function identifiers. Objects
// are placed in per-type arenas and handed out as borrowed pointers;
// nothing is freed individually, everything is released together by
// Reset when the compilation ends.
//
// A Context is not safe for concurrent allocation. Allocated objects,
// once published, are read-only and safe to share across threads.
type Context struct {
	sets        *allocator.Arena[ParameterIndexSet]
	identifiers *allocator.Arena[AssociatedFunctionIdentifier]
	idCache     map[identifierKey]*AssociatedFunctionIdentifier
}

type identifierKey struct {
	params string
	kind   AssociatedFunctionKind
	order  uint
}

// NewContext creates an empty allocation context.
func NewContext() *Context {
	return &Context{
		sets:        allocator.NewArena[ParameterIndexSet](0),
		identifiers: allocator.NewArena[AssociatedFunctionIdentifier](0),
		idCache:     make(map[identifierKey]*AssociatedFunctionIdentifier),
	}
}

// NewParameterIndexSet allocates an empty (or, with selectAll, full)
// selection for fn in the context's arena.
func (c *Context) NewParameterIndexSet(fn *types.Function, isMethod, selectAll bool) *ParameterIndexSet {
	return c.sets.New(*NewParameterIndexSet(fn, isMethod, selectAll))
}

// ParseParameterIndexSet parses a canonical selection string into the
// context's arena. Malformed input yields (nil, false).
func (c *Context) ParseParameterIndexSet(s string) (*ParameterIndexSet, bool) {
	set, ok := ParseParameterIndexSet(s)
	if !ok {
		return nil, false
	}

	return c.sets.New(*set), true
}

// AssociatedFunctionIdentifier returns the unique identifier for the
// given kind, order and parameter selection. Repeated calls with an
// equal selection return the same pointer, so identifiers compare by
// identity. The order must be >= 1 and the selection must be owned by
// this context (or at least outlive it).
func (c *Context) AssociatedFunctionIdentifier(
	kind AssociatedFunctionKind, order uint, parameterIndices *ParameterIndexSet,
) *AssociatedFunctionIdentifier {
	if order < 1 {
		panic(fmt.Sprintf("autodiff: differentiation order must be >= 1, got %d", order))
	}

	key := identifierKey{kind: kind, order: order, params: parameterIndices.String()}
	if id, ok := c.idCache[key]; ok {
		return id
	}

	id := c.identifiers.New(AssociatedFunctionIdentifier{
		kind:             kind,
		order:            order,
		parameterIndices: parameterIndices,
	})
	c.idCache[key] = id

	return id
}

// Reset releases every object the context owns. Pointers handed out
// before the reset are invalid.
func (c *Context) Reset() {
	c.sets.Reset()
	c.identifiers.Reset()
	c.idCache = make(map[identifierKey]*AssociatedFunctionIdentifier)
}

// ContextStats reports per-arena allocation statistics.
type ContextStats struct {
	ParameterIndexSets allocator.ArenaStats
	Identifiers        allocator.ArenaStats
}

// Stats returns a snapshot of the context's arena statistics.
func (c *Context) Stats() ContextStats {
	return ContextStats{
		ParameterIndexSets: c.sets.Stats(),
		Identifiers:        c.identifiers.Stats(),
	}
}
