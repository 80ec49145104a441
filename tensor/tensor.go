// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/gradgraph/internal/tensor"
)

// Type aliases for public API

// Shape represents the dimensions of an array.
// Example: Shape{2, 3, 4} represents a 3D array with dimensions 2×3×4.
type Shape = tensor.Shape

// Array is a dense row-major float64 array.
type Array = tensor.Array

// End is a slice stop meaning "through the last element".
const End = tensor.End

// Errors returned by array operations.
var (
	ErrShapeMismatch   = tensor.ErrShapeMismatch
	ErrInvalidShape    = tensor.ErrInvalidShape
	ErrDimension       = tensor.ErrDimension
	ErrRaggedData      = tensor.ErrRaggedData
	ErrUnsupportedData = tensor.ErrUnsupportedData
	ErrIndexOutOfRange = tensor.ErrIndexOutOfRange
	ErrInvalidParams   = tensor.ErrInvalidParams
)

// New creates an array from a copy of data.
func New(data []float64, shape Shape) (*Array, error) {
	return tensor.New(data, shape)
}

// FromValue converts a Go value (scalar, slice, nested slice or *Array) to an array.
func FromValue(v any) (*Array, error) {
	return tensor.FromValue(v)
}

// Zeros creates a zero-filled array.
func Zeros(shape Shape) *Array {
	return tensor.Zeros(shape)
}

// Ones creates an array filled with ones.
func Ones(shape Shape) *Array {
	return tensor.Ones(shape)
}

// Full creates an array filled with value.
func Full(shape Shape, value float64) *Array {
	return tensor.Full(shape, value)
}

// Scalar creates a rank-0 array.
func Scalar(v float64) *Array {
	return tensor.Scalar(v)
}

// BroadcastShapes returns the broadcast of a and b and whether either operand
// had to be stretched.
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	return tensor.BroadcastShapes(a, b)
}

// Add returns a + b with broadcasting.
func Add(a, b *Array) (*Array, error) {
	return tensor.Add(a, b)
}

// Mul returns a * b element-wise with broadcasting.
func Mul(a, b *Array) (*Array, error) {
	return tensor.Mul(a, b)
}

// MatMul multiplies two 2-D arrays.
func MatMul(a, b *Array) (*Array, error) {
	return tensor.MatMul(a, b)
}

// BroadcastTo expands a to target.
func BroadcastTo(a *Array, target Shape) (*Array, error) {
	return tensor.BroadcastTo(a, target)
}

// ReduceTo sums grad down to target, undoing a broadcast.
func ReduceTo(grad *Array, target Shape) (*Array, error) {
	return tensor.ReduceTo(grad, target)
}
