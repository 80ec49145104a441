// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides reverse-mode automatic differentiation.
//
// A Graph records every operation on tensors that require gradients.
// Calling Backward on a result propagates gradients to everything it depends
// on, accumulating into each tensor's Grad.
//
// Example:
//
//	import "github.com/born-ml/gradgraph/autodiff"
//
//	func main() {
//	    g := autodiff.New()
//	    w, _ := g.NewTensor([][]float64{{0.5, -1}, {2, 0}}, autodiff.WithGrad())
//	    x, _ := g.NewTensor([]float64{1, 2})
//
//	    y := autodiff.Must(w.Dot(x))
//	    loss := autodiff.Must(autodiff.Must(y.Pow(2)).Sum())
//	    if err := loss.Backward(); err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(w.Grad())
//	}
package autodiff

import (
	"github.com/born-ml/gradgraph/internal/autodiff"
	"github.com/born-ml/gradgraph/internal/autodiff/ops"
)

// Graph owns tracked tensors and the tracking state.
type Graph = autodiff.Graph

// Config controls graph construction.
type Config = autodiff.Config

// Tensor is a value in the computation graph.
type Tensor = autodiff.Tensor

// TensorOption configures Graph.NewTensor.
type TensorOption = autodiff.TensorOption

// Node is the graph-side record of a tracked tensor.
type Node = autodiff.Node

// NodeID indexes a node in its graph.
type NodeID = autodiff.NodeID

// Range selects rows along the first axis for Tensor.Index.
type Range = autodiff.Range

// Op identifies the operation that produced a node.
type Op = ops.Kind

// Operations recorded on nodes.
const (
	OpAdd       Op = ops.Add
	OpSub       Op = ops.Sub
	OpMul       Op = ops.Mul
	OpDiv       Op = ops.Div
	OpPow       Op = ops.Pow
	OpDot       Op = ops.Dot
	OpExp       Op = ops.Exp
	OpLog       Op = ops.Log
	OpSum       Op = ops.Sum
	OpTranspose Op = ops.Transpose
	OpReLU      Op = ops.ReLU
	OpSigmoid   Op = ops.Sigmoid
	OpTanh      Op = ops.Tanh
	OpConv2D    Op = ops.Conv2D
)

// NoNode marks an absent node.
const NoNode = autodiff.NoNode

// End is a Range.Stop meaning "through the last row".
const End = autodiff.End

// Errors returned by graph operations.
var (
	ErrUnsupportedIndex = autodiff.ErrUnsupportedIndex
	ErrGraphMismatch    = autodiff.ErrGraphMismatch
	ErrNilTensor        = autodiff.ErrNilTensor
)

// New creates a tracking graph.
func New() *Graph {
	return autodiff.New()
}

// NewGraph creates a graph with the given configuration.
func NewGraph(cfg Config) *Graph {
	return autodiff.NewGraph(cfg)
}

// DefaultConfig returns the default graph configuration.
func DefaultConfig() Config {
	return autodiff.DefaultConfig()
}

// WithGrad marks a new tensor as requiring gradients.
func WithGrad() TensorOption {
	return autodiff.WithGrad()
}

// From returns the Range from start through the last row.
func From(start int) Range {
	return autodiff.From(start)
}

// Must returns t or panics if err is non-nil.
func Must(t *Tensor, err error) *Tensor {
	return autodiff.Must(t, err)
}
