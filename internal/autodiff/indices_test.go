package autodiff

import "testing"

func TestNewIndices(t *testing.T) {
	ix := NewIndices(0, []int{0, 2, 5})

	if ix.Source != 0 {
		t.Errorf("Source = %d, want 0", ix.Source)
	}

	if ix.Parameters.Len() != 6 {
		t.Errorf("Parameters.Len() = %d, want 6 (max index + 1)", ix.Parameters.Len())
	}

	if got := ix.Parameters.String(); got != "101001" {
		t.Errorf("Parameters = %s, want 101001", got)
	}
}

func TestNewIndicesEmpty(t *testing.T) {
	ix := NewIndices(0, nil)

	if ix.Parameters.Len() != 0 {
		t.Errorf("Parameters.Len() = %d, want 0", ix.Parameters.Len())
	}
}

func TestNewIndicesContractViolations(t *testing.T) {
	tests := []struct {
		name   string
		params []int
	}{
		{"Descending", []int{2, 1}},
		{"Duplicate", []int{1, 1}},
		{"Unsorted", []int{0, 3, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("NewIndices(0, %v) should panic", tt.params)
				}
			}()

			NewIndices(0, tt.params)
		})
	}
}

func TestIndicesEqualityIsLengthTolerant(t *testing.T) {
	a := NewIndices(0, []int{0})
	b := NewIndices(0, []int{0, 2})

	// Same selection as a, longer vector with trailing unset bits.
	padded := Indices{Source: 0, Parameters: NewBitVector(10)}
	padded.Parameters.Set(0)

	if !a.Equal(padded) {
		t.Error("indices with the same set bits should be equal regardless of vector length")
	}

	if !padded.Equal(a) {
		t.Error("length-tolerant equality should be symmetric")
	}

	differentSource := NewIndices(1, []int{0})
	if a.Equal(differentSource) {
		t.Error("indices with different sources should not be equal")
	}

	if a.Equal(b) {
		t.Error("indices with different set bits should not be equal")
	}
}
