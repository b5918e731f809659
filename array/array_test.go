package array

import (
	"math"
	"testing"
)

func TestFromSliceCopiesInput(t *testing.T) {
	src := []float64{1, 2, 3}
	a := FromSlice(src)
	src[0] = 99
	if a.At(0) != 1 {
		t.Fatalf("FromSlice must copy: got %v after mutating source", a.At(0))
	}
}

func TestReshapeRoundTrip(t *testing.T) {
	a := FromSlice([]float64{1, 2, 3, 4, 5, 6})
	b, err := a.Reshape(2, 3)
	if err != nil {
		t.Fatalf("reshape: %v", err)
	}
	if b.At(0, 0) != 1 || b.At(0, 2) != 3 || b.At(1, 0) != 4 || b.At(1, 2) != 6 {
		t.Fatalf("row-major layout broken: %v", b.Ravel())
	}
	if _, err := a.Reshape(4, 2); err == nil {
		t.Fatalf("expected error reshaping 6 elements into 4x2")
	}
	if _, err := a.Reshape(-1, 6); err == nil {
		t.Fatalf("expected error for negative dimension")
	}
}

func TestScalarHasNoDimensions(t *testing.T) {
	s := Scalar(2.5)
	if s.NDim() != 0 || s.Size() != 1 {
		t.Fatalf("scalar: ndim=%d size=%d", s.NDim(), s.Size())
	}
	if s.At() != 2.5 {
		t.Fatalf("scalar value: %v", s.At())
	}
}

func TestEqualTreatsNaNBitwise(t *testing.T) {
	a := FromSlice([]float64{1, math.NaN(), 3})
	b := FromSlice([]float64{1, math.NaN(), 3})
	if !a.Equal(b) {
		t.Fatalf("arrays with NaN in the same position must compare equal")
	}
	c := FromSlice([]float64{1, 2, 3})
	if a.Equal(c) {
		t.Fatalf("NaN must not equal a number")
	}
}

func TestAtPanicsOutOfRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on out-of-range coordinate")
		}
	}()
	FromSlice([]float64{1, 2}).At(5)
}

func TestCloneIsIndependent(t *testing.T) {
	a := FromSlice([]float64{1, 2, 3})
	b := a.Clone()
	b.Set(42, 0)
	if a.At(0) != 1 {
		t.Fatalf("clone shares storage with original")
	}
}

func TestHasNaN(t *testing.T) {
	if FromSlice([]float64{1, 2, 3}).HasNaN() {
		t.Fatalf("clean array reported NaN")
	}
	if !FromSlice([]float64{1, math.NaN()}).HasNaN() {
		t.Fatalf("NaN not detected")
	}
}
