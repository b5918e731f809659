// Package array provides a dense row-major n-dimensional float64 array and
// the axis machinery used to apply 1-D statistic kernels over slices of it.
package array

import (
	"fmt"

	"statkit/domain/core"
)

// Array is a dense row-major n-dimensional array of float64 values.
// A zero-dimensional Array holds exactly one scalar.
type Array struct {
	data  []float64
	shape []int
}

// New creates a zero-filled array with the given shape.
func New(shape ...int) (*Array, error) {
	size := 1
	for _, d := range shape {
		if d < 0 {
			return nil, core.NewInvalidArgument("negative dimension %d in shape %v", d, shape)
		}
		size *= d
	}
	return &Array{
		data:  make([]float64, size),
		shape: append([]int(nil), shape...),
	}, nil
}

// FromSlice creates a 1-D array by copying the given values. The caller's
// slice is never aliased, so later operations cannot mutate it.
func FromSlice(values []float64) *Array {
	data := make([]float64, len(values))
	copy(data, values)
	return &Array{data: data, shape: []int{len(values)}}
}

// Scalar creates a zero-dimensional array holding a single value.
func Scalar(v float64) *Array {
	return &Array{data: []float64{v}, shape: []int{}}
}

// Reshape returns a view-free copy of the array with a new shape. The total
// element count must be preserved.
func (a *Array) Reshape(shape ...int) (*Array, error) {
	size := 1
	for _, d := range shape {
		if d < 0 {
			return nil, core.NewInvalidArgument("negative dimension %d in shape %v", d, shape)
		}
		size *= d
	}
	if size != len(a.data) {
		return nil, core.NewInvalidArgument("cannot reshape array of size %d into shape %v", len(a.data), shape)
	}
	data := make([]float64, len(a.data))
	copy(data, a.data)
	return &Array{data: data, shape: append([]int(nil), shape...)}, nil
}

// NDim returns the number of dimensions.
func (a *Array) NDim() int { return len(a.shape) }

// Size returns the total number of elements.
func (a *Array) Size() int { return len(a.data) }

// Shape returns a copy of the array's shape.
func (a *Array) Shape() []int { return append([]int(nil), a.shape...) }

// At returns the element at the given coordinates.
func (a *Array) At(coords ...int) float64 {
	return a.data[a.offset(coords)]
}

// Set stores v at the given coordinates.
func (a *Array) Set(v float64, coords ...int) {
	a.data[a.offset(coords)] = v
}

// Ravel returns the elements flattened in row-major order. The returned
// slice is a copy.
func (a *Array) Ravel() []float64 {
	out := make([]float64, len(a.data))
	copy(out, a.data)
	return out
}

// Equal reports whether two arrays have identical shape and bit-identical
// elements (NaN compares equal to NaN here, since the comparison is bitwise
// on purpose for no-mutation contracts).
func (a *Array) Equal(b *Array) bool {
	if len(a.shape) != len(b.shape) {
		return false
	}
	for i := range a.shape {
		if a.shape[i] != b.shape[i] {
			return false
		}
	}
	for i := range a.data {
		if a.data[i] != b.data[i] && !(a.data[i] != a.data[i] && b.data[i] != b.data[i]) {
			return false
		}
	}
	return true
}

// HasNaN reports whether any element is NaN.
func (a *Array) HasNaN() bool {
	for _, v := range a.data {
		if v != v {
			return true
		}
	}
	return false
}

// Clone returns a deep copy.
func (a *Array) Clone() *Array {
	data := make([]float64, len(a.data))
	copy(data, a.data)
	return &Array{data: data, shape: append([]int(nil), a.shape...)}
}

func (a *Array) offset(coords []int) int {
	if len(coords) != len(a.shape) {
		panic(fmt.Sprintf("array: got %d coordinates for %d-d array", len(coords), len(a.shape)))
	}
	off := 0
	stride := 1
	for i := len(a.shape) - 1; i >= 0; i-- {
		c := coords[i]
		if c < 0 || c >= a.shape[i] {
			panic(fmt.Sprintf("array: coordinate %d out of range for dimension %d (size %d)", c, i, a.shape[i]))
		}
		off += c * stride
		stride *= a.shape[i]
	}
	return off
}

// strides returns the row-major strides for a shape.
func strides(shape []int) []int {
	s := make([]int, len(shape))
	stride := 1
	for i := len(shape) - 1; i >= 0; i-- {
		s[i] = stride
		stride *= shape[i]
	}
	return s
}
