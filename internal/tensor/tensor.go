package tensor

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// Array is a dense, row-major float64 n-dimensional array.
//
// Arrays returned by operations are treated as immutable; only gradient
// accumulators are modified in place (see AddInPlace).
type Array struct {
	shape  Shape
	stride []int
	data   []float64
}

// New creates an Array from a flat slice and shape. The slice is copied.
func New(data []float64, shape Shape) (*Array, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if shape.NumElements() != len(data) {
		return nil, errors.Wrapf(ErrInvalidShape, "shape %v requires %d elements, but got %d",
			shape, shape.NumElements(), len(data))
	}
	buf := make([]float64, len(data))
	copy(buf, data)
	return fromData(buf, shape), nil
}

// fromData wraps data without copying. Callers own data.
func fromData(data []float64, shape Shape) *Array {
	return &Array{
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		data:   data,
	}
}

// Shape returns the array's shape.
func (a *Array) Shape() Shape {
	return a.shape
}

// Strides returns the row-major strides.
func (a *Array) Strides() []int {
	return a.stride
}

// Rank returns the number of dimensions.
func (a *Array) Rank() int {
	return len(a.shape)
}

// NumElements returns the total number of elements.
func (a *Array) NumElements() int {
	return len(a.data)
}

// Data returns the underlying flat slice (zero-copy).
//
// WARNING: Modifications to the returned slice will modify the array.
func (a *Array) Data() []float64 {
	return a.data
}

// Item returns the single value of a one-element array.
// Panics if the array holds more than one element.
func (a *Array) Item() float64 {
	if len(a.data) != 1 {
		panic(fmt.Sprintf("Item() only works for single-element arrays, got shape %v", a.shape))
	}
	return a.data[0]
}

// At returns the element at the given indices.
// Panics if indices are out of bounds.
func (a *Array) At(indices ...int) float64 {
	return a.data[a.offset(indices)]
}

// Set sets the element at the given indices.
// Panics if indices are out of bounds.
func (a *Array) Set(value float64, indices ...int) {
	a.data[a.offset(indices)] = value
}

func (a *Array) offset(indices []int) int {
	if len(indices) != len(a.shape) {
		panic(fmt.Sprintf("expected %d indices, got %d", len(a.shape), len(indices)))
	}
	off := 0
	for i, idx := range indices {
		if idx < 0 || idx >= a.shape[i] {
			panic(fmt.Sprintf("index %d out of bounds for dimension %d (size %d)", idx, i, a.shape[i]))
		}
		off += idx * a.stride[i]
	}
	return off
}

// Clone creates a deep copy.
func (a *Array) Clone() *Array {
	buf := make([]float64, len(a.data))
	copy(buf, a.data)
	return fromData(buf, a.shape)
}

// Reshape returns a copy with a new shape holding the same number of elements.
func (a *Array) Reshape(shape Shape) (*Array, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if shape.NumElements() != len(a.data) {
		return nil, errors.Wrapf(ErrShapeMismatch, "cannot reshape %v into %v", a.shape, shape)
	}
	return a.Clone().withShape(shape), nil
}

func (a *Array) withShape(shape Shape) *Array {
	a.shape = shape.Clone()
	a.stride = shape.ComputeStrides()
	return a
}

// Equal reports whether both arrays have the same shape and identical values.
func (a *Array) Equal(b *Array) bool {
	return a.shape.Equal(b.shape) && floats.Equal(a.data, b.data)
}

// AllClose reports whether both arrays have the same shape and all values
// within tol of each other.
func (a *Array) AllClose(b *Array, tol float64) bool {
	return a.shape.Equal(b.shape) && floats.EqualApprox(a.data, b.data, tol)
}

// AddInPlace adds b into a. b must have a's shape or broadcast to it.
func (a *Array) AddInPlace(b *Array) error {
	if !b.shape.Equal(a.shape) {
		bb, err := BroadcastTo(b, a.shape)
		if err != nil {
			return err
		}
		b = bb
	}
	floats.Add(a.data, b.data)
	return nil
}

// Fill sets every element to v.
func (a *Array) Fill(v float64) {
	for i := range a.data {
		a.data[i] = v
	}
}

// String renders the array NumPy-style, e.g. [[1 2] [3 4]].
func (a *Array) String() string {
	var sb strings.Builder
	a.format(&sb, 0, 0)
	return sb.String()
}

func (a *Array) format(sb *strings.Builder, dim, off int) {
	if dim == len(a.shape) {
		fmt.Fprintf(sb, "%g", a.data[off])
		return
	}
	sb.WriteByte('[')
	for i := 0; i < a.shape[dim]; i++ {
		if i > 0 {
			sb.WriteByte(' ')
		}
		a.format(sb, dim+1, off+i*a.stride[dim])
	}
	sb.WriteByte(']')
}
