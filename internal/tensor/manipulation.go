package tensor

import (
	"math"

	"github.com/pkg/errors"
)

// End is a Stop value meaning "through the last element".
const End = math.MaxInt

// Transpose permutes the axes of a. Without axes it reverses them (NumPy .T).
func Transpose(a *Array, axes ...int) (*Array, error) {
	ndim := len(a.shape)
	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}
	if err := validatePermutation(axes, ndim); err != nil {
		return nil, err
	}

	newShape := make(Shape, ndim)
	for i, ax := range axes {
		newShape[i] = a.shape[ax]
	}
	if ndim < 2 {
		return a.Clone(), nil
	}

	newStrides := newShape.ComputeStrides()
	out := make([]float64, len(a.data))
	for i := range out {
		oldIdx := 0
		temp := i
		for d := 0; d < ndim; d++ {
			coord := temp / newStrides[d]
			temp %= newStrides[d]
			oldIdx += coord * a.stride[axes[d]]
		}
		out[i] = a.data[oldIdx]
	}
	return fromData(out, newShape), nil
}

// InversePermutation returns the permutation undoing axes.
func InversePermutation(axes []int) []int {
	inv := make([]int, len(axes))
	for i, ax := range axes {
		inv[ax] = i
	}
	return inv
}

func validatePermutation(axes []int, ndim int) error {
	if len(axes) != ndim {
		return errors.Wrapf(ErrInvalidParams, "transpose needs %d axes, got %d", ndim, len(axes))
	}
	seen := make([]bool, ndim)
	for _, ax := range axes {
		if ax < 0 || ax >= ndim || seen[ax] {
			return errors.Wrapf(ErrInvalidParams, "axes %v are not a permutation of %d dimensions", axes, ndim)
		}
		seen[ax] = true
	}
	return nil
}

// Pad2D surrounds a 2-D array with p rows/columns of zeros on every side.
func Pad2D(a *Array, p int) (*Array, error) {
	if len(a.shape) != 2 {
		return nil, errors.Wrapf(ErrDimension, "Pad2D expects 2 dimensions, got %d", len(a.shape))
	}
	if p < 0 {
		return nil, errors.Wrapf(ErrInvalidParams, "negative padding %d", p)
	}
	if p == 0 {
		return a.Clone(), nil
	}
	h, w := a.shape[0], a.shape[1]
	out := Zeros(Shape{h + 2*p, w + 2*p})
	for i := 0; i < h; i++ {
		copy(out.data[(i+p)*out.stride[0]+p:], a.data[i*w:(i+1)*w])
	}
	return out, nil
}

// Unpad2D strips p rows/columns from every side of a 2-D array.
func Unpad2D(a *Array, p int) (*Array, error) {
	if len(a.shape) != 2 {
		return nil, errors.Wrapf(ErrDimension, "Unpad2D expects 2 dimensions, got %d", len(a.shape))
	}
	if p == 0 {
		return a.Clone(), nil
	}
	h, w := a.shape[0]-2*p, a.shape[1]-2*p
	if p < 0 || h <= 0 || w <= 0 {
		return nil, errors.Wrapf(ErrInvalidParams, "cannot unpad %v by %d", a.shape, p)
	}
	out := Zeros(Shape{h, w})
	for i := 0; i < h; i++ {
		start := (i+p)*a.stride[0] + p
		copy(out.data[i*w:(i+1)*w], a.data[start:start+w])
	}
	return out, nil
}

// Take returns the sub-array at position i of the first axis.
// Negative i counts from the end.
func Take(a *Array, i int) (*Array, error) {
	if len(a.shape) == 0 {
		return nil, errors.Wrap(ErrDimension, "cannot index a scalar")
	}
	n := a.shape[0]
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return nil, errors.Wrapf(ErrIndexOutOfRange, "index %d for axis of size %d", i, n)
	}
	size := a.stride[0]
	return New(a.data[i*size:(i+1)*size], a.shape[1:])
}

// SliceRange returns rows start, start+step, ... < stop of the first axis.
// start and stop follow NumPy clamping; a zero step means 1.
func SliceRange(a *Array, start, stop, step int) (*Array, error) {
	if len(a.shape) == 0 {
		return nil, errors.Wrap(ErrDimension, "cannot slice a scalar")
	}
	if step == 0 {
		step = 1
	}
	if step < 0 {
		return nil, errors.Wrapf(ErrInvalidParams, "negative slice step %d", step)
	}
	n := a.shape[0]
	start = clampIndex(start, n)
	stop = clampIndex(stop, n)
	if stop <= start {
		return nil, errors.Wrapf(ErrIndexOutOfRange, "empty slice [%d:%d] of axis of size %d", start, stop, n)
	}

	size := a.stride[0]
	rows := (stop - start + step - 1) / step
	out := make([]float64, 0, rows*size)
	for r := start; r < stop; r += step {
		out = append(out, a.data[r*size:(r+1)*size]...)
	}
	shape := a.shape.Clone()
	shape[0] = rows
	return fromData(out, shape), nil
}

func clampIndex(i, n int) int {
	if i < 0 {
		i += n
	}
	return min(max(i, 0), n)
}
