package array

import (
	"context"
	"math"
	"sort"
	"sync"

	"golang.org/x/sync/semaphore"

	"statkit/domain/core"
)

// Axis selects which dimensions a 1-D statistic reduces over: either the
// whole input flattened, or one or more named dimensions.
type Axis struct {
	flatten bool
	dims    []int
}

// Flatten reduces over every element of every input, raveled in row-major order.
func Flatten() Axis { return Axis{flatten: true} }

// Along reduces over the named dimensions. Negative values count from the end.
func Along(dims ...int) Axis { return Axis{dims: append([]int(nil), dims...)} }

// IsFlatten reports whether this selector flattens the input.
func (ax Axis) IsFlatten() bool { return ax.flatten }

// Dims returns a copy of the selected dimensions.
func (ax Axis) Dims() []int { return append([]int(nil), ax.dims...) }

// normalize resolves negative axes against ndim and rejects out-of-range or
// duplicated entries.
func (ax Axis) normalize(ndim int) ([]int, error) {
	if ax.flatten {
		return nil, nil
	}
	if len(ax.dims) == 0 {
		return nil, core.NewInvalidArgument("axis selector has no dimensions")
	}
	seen := make(map[int]bool, len(ax.dims))
	out := make([]int, 0, len(ax.dims))
	for _, d := range ax.dims {
		nd := d
		if nd < 0 {
			nd += ndim
		}
		if nd < 0 || nd >= ndim {
			return nil, core.NewInvalidArgument("axis %d is out of bounds for array of dimension %d", d, ndim)
		}
		if seen[nd] {
			return nil, core.NewInvalidArgument("duplicate axis %d", d)
		}
		seen[nd] = true
		out = append(out, nd)
	}
	sort.Ints(out)
	return out, nil
}

// BroadcastShapes combines shapes under standard broadcasting rules:
// shapes are aligned at their trailing dimensions and each dimension must
// either match or be one.
func BroadcastShapes(shapes ...[]int) ([]int, error) {
	ndim := 0
	for _, s := range shapes {
		if len(s) > ndim {
			ndim = len(s)
		}
	}
	out := make([]int, ndim)
	for i := range out {
		out[i] = 1
	}
	for _, s := range shapes {
		off := ndim - len(s)
		for j, d := range s {
			k := off + j
			switch {
			case d == out[k] || d == 1:
			case out[k] == 1:
				out[k] = d
			default:
				return nil, core.NewInvalidArgument("shapes cannot be broadcast together: dimension %d has sizes %d and %d", k, out[k], d)
			}
		}
	}
	return out, nil
}

// SliceFunc consumes one 1-D slice per input and returns a fixed number of
// scalar fields for that coordinate. pos is the output coordinate over the
// non-reduction dimensions; nil when the input is flattened.
type SliceFunc func(pos []int, slices [][]float64) ([]float64, error)

// ApplyOptions configures an Apply call.
type ApplyOptions struct {
	// NumFields is the number of scalar outputs the SliceFunc produces.
	NumFields int
	// KeepDims retains reduction axes in the output with size one.
	KeepDims bool
	// Workers bounds concurrent slice evaluations. Values below two run
	// sequentially. Results are identical either way: every slice reads
	// only its own data and writes a distinct output position.
	Workers int
}

// Apply evaluates fn over every 1-D slice of the broadcast inputs along the
// given axis and assembles one output array per field. A zero-length
// reduction axis yields NaN for every field at that coordinate; the output
// shape is still computed from the non-reduction dimensions.
func Apply(fn SliceFunc, inputs []*Array, axis Axis, opts ApplyOptions) ([]*Array, error) {
	if len(inputs) == 0 {
		return nil, core.NewInvalidArgument("at least one input array is required")
	}
	if opts.NumFields < 1 {
		return nil, core.NewInvalidArgument("kernel must declare at least one output field")
	}

	if axis.IsFlatten() {
		slices := make([][]float64, len(inputs))
		for i, in := range inputs {
			slices[i] = in.Ravel()
		}
		vals, err := evalSlice(fn, nil, slices, opts.NumFields)
		if err != nil {
			return nil, err
		}
		outs := make([]*Array, opts.NumFields)
		for f := range outs {
			outs[f] = Scalar(vals[f])
		}
		return outs, nil
	}

	shapes := make([][]int, len(inputs))
	for i, in := range inputs {
		shapes[i] = in.shape
	}
	bshape, err := BroadcastShapes(shapes...)
	if err != nil {
		return nil, err
	}
	red, err := axis.normalize(len(bshape))
	if err != nil {
		return nil, err
	}

	isRed := make([]bool, len(bshape))
	for _, d := range red {
		isRed[d] = true
	}
	var kept []int
	outShape := []int{}
	for d, sz := range bshape {
		if isRed[d] {
			if opts.KeepDims {
				outShape = append(outShape, 1)
			}
			continue
		}
		kept = append(kept, d)
		outShape = append(outShape, sz)
	}

	// Virtual strides of each input against the broadcast shape: stride
	// zero where the input is missing the dimension or has size one.
	vstrides := make([][]int, len(inputs))
	for i, in := range inputs {
		nat := strides(in.shape)
		vs := make([]int, len(bshape))
		off := len(bshape) - len(in.shape)
		for d := range bshape {
			j := d - off
			if j < 0 || (in.shape[j] == 1 && bshape[d] > 1) {
				vs[d] = 0
			} else {
				vs[d] = nat[j]
			}
		}
		vstrides[i] = vs
	}

	outer := 1
	for _, d := range kept {
		outer *= bshape[d]
	}
	inner := 1
	for _, d := range red {
		inner *= bshape[d]
	}

	outs := make([]*Array, opts.NumFields)
	for f := range outs {
		a, err := New(outShape...)
		if err != nil {
			return nil, err
		}
		outs[f] = a
	}

	eval := func(o int) error {
		// Decode the outer linear index into coordinates over kept dims
		// and the base offset into each input.
		base := make([]int, len(inputs))
		pos := make([]int, len(kept))
		rem := o
		for k := len(kept) - 1; k >= 0; k-- {
			d := kept[k]
			c := rem % bshape[d]
			rem /= bshape[d]
			pos[k] = c
			for i := range inputs {
				base[i] += c * vstrides[i][d]
			}
		}

		var vals []float64
		if inner == 0 {
			vals = nanFields(opts.NumFields)
		} else {
			slices := make([][]float64, len(inputs))
			for i := range inputs {
				slices[i] = make([]float64, inner)
			}
			for t := 0; t < inner; t++ {
				rem := t
				off := make([]int, len(inputs))
				for k := len(red) - 1; k >= 0; k-- {
					d := red[k]
					c := rem % bshape[d]
					rem /= bshape[d]
					for i := range inputs {
						off[i] += c * vstrides[i][d]
					}
				}
				for i, in := range inputs {
					slices[i][t] = in.data[base[i]+off[i]]
				}
			}
			var err error
			vals, err = evalSlice(fn, pos, slices, opts.NumFields)
			if err != nil {
				return err
			}
		}
		for f := range outs {
			outs[f].data[o] = vals[f]
		}
		return nil
	}

	if opts.Workers > 1 && outer > 1 {
		sem := semaphore.NewWeighted(int64(opts.Workers))
		var wg sync.WaitGroup
		var mu sync.Mutex
		var firstErr error
		ctx := context.Background()
		for o := 0; o < outer; o++ {
			if err := sem.Acquire(ctx, 1); err != nil {
				return nil, err
			}
			wg.Add(1)
			go func(o int) {
				defer wg.Done()
				defer sem.Release(1)
				if err := eval(o); err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
				}
			}(o)
		}
		wg.Wait()
		if firstErr != nil {
			return nil, firstErr
		}
	} else {
		for o := 0; o < outer; o++ {
			if err := eval(o); err != nil {
				return nil, err
			}
		}
	}

	return outs, nil
}

func evalSlice(fn SliceFunc, pos []int, slices [][]float64, numFields int) ([]float64, error) {
	vals, err := fn(pos, slices)
	if err != nil {
		return nil, err
	}
	if len(vals) != numFields {
		return nil, core.NewInvalidArgument("kernel returned %d fields, expected %d", len(vals), numFields)
	}
	return vals, nil
}

func nanFields(n int) []float64 {
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = math.NaN()
	}
	return vals
}
