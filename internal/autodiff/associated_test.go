package autodiff

import (
	"testing"

	"github.com/orizon-lang/orizon-autodiff/internal/types"
)

func TestAssociatedFunctionKindStrings(t *testing.T) {
	if JVP.String() != "jvp" || VJP.String() != "vjp" {
		t.Errorf("kind strings = %q, %q; want jvp, vjp", JVP, VJP)
	}

	if AssociatedFunctionKindFromString("jvp") != JVP {
		t.Error(`FromString("jvp") should yield JVP`)
	}

	if AssociatedFunctionKindFromString("vjp") != VJP {
		t.Error(`FromString("vjp") should yield VJP`)
	}
}

func TestAssociatedFunctionKindFromStringPanicsOnUnknownTag(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("unknown internal tag should panic")
		}
	}()

	AssociatedFunctionKindFromString("grad")
}

func TestParseAssociatedFunctionKind(t *testing.T) {
	if _, ok := ParseAssociatedFunctionKind("grad"); ok {
		t.Error(`Parse("grad") should fail`)
	}

	if _, ok := ParseAssociatedFunctionKind(""); ok {
		t.Error(`Parse("") should fail`)
	}

	k, ok := ParseAssociatedFunctionKind("vjp")
	if !ok || k != VJP {
		t.Errorf(`Parse("vjp") = %v, %v; want VJP, true`, k, ok)
	}
}

func TestAssociatedFunctionOffset(t *testing.T) {
	// Block width is order*2, so blocks widen with the order. The
	// external derivative table depends on this exact packing.
	tests := []struct {
		order uint
		kind  AssociatedFunctionKind
		want  uint
	}{
		{1, JVP, 0},
		{1, VJP, 1},
		{2, JVP, 4},
		{2, VJP, 5},
		{3, JVP, 12},
		{3, VJP, 13},
		{4, JVP, 24},
		{4, VJP, 25},
	}

	for _, tt := range tests {
		got := AssociatedFunctionOffset(tt.order, tt.kind)
		if got != tt.want {
			t.Errorf("AssociatedFunctionOffset(%d, %s) = %d, want %d", tt.order, tt.kind, got, tt.want)
		}

		if want := (tt.order-1)*tt.order*2 + uint(tt.kind); got != want {
			t.Errorf("offset formula drifted for order %d: got %d, want %d", tt.order, got, want)
		}
	}
}

func TestNumAssociatedFunctions(t *testing.T) {
	for order := uint(1); order <= 4; order++ {
		if got := NumAssociatedFunctions(order); got != order*2 {
			t.Errorf("NumAssociatedFunctions(%d) = %d, want %d", order, got, order*2)
		}
	}
}

func TestAssociatedFunctionOffsetZeroOrderPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("order 0 should panic")
		}
	}()

	AssociatedFunctionOffset(0, JVP)
}

func TestAssociatedFunctionIdentifierOffset(t *testing.T) {
	ctx := NewContext()
	fn := types.NewFunction([]types.Type{types.Named("A")}, types.Named("R"))
	set := ctx.NewParameterIndexSet(fn, false, true)

	id := ctx.AssociatedFunctionIdentifier(VJP, 2, set)

	if id.Kind() != VJP || id.DifferentiationOrder() != 2 {
		t.Errorf("identifier = %s, want vjp order 2", id)
	}

	if id.Offset() != 5 {
		t.Errorf("Offset() = %d, want 5", id.Offset())
	}

	if id.ParameterIndices() != set {
		t.Error("identifier should reference the selection it was created with")
	}
}
