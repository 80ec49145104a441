// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the dense float64 arrays that back gradgraph tensors.
//
// # Overview
//
// Arrays are row-major, immutable from the point of view of the graph, and
// combine under NumPy broadcasting rules:
//
//	a := tensor.Zeros(tensor.Shape{3, 1}) // (3, 1)
//	b := tensor.Ones(tensor.Shape{3, 4})  // (3, 4)
//	c, err := tensor.Add(a, b)            // (3, 4)
//
// # Creating Arrays
//
// FromValue accepts Go scalars, (nested) slices and arrays of numbers:
//
//	m, err := tensor.FromValue([][]float64{{1, 2}, {3, 4}})
//
// Ragged input is rejected with ErrRaggedData, unsupported element types with
// ErrUnsupportedData.
//
// # Broadcasting
//
// Shapes are aligned from the trailing dimension; each pair must be equal or
// one of them must be 1. BroadcastShapes reports the combined shape and
// whether any operand was stretched. ReduceTo sums a gradient computed at the
// broadcast shape back down to an operand's shape.
package tensor
