// Package ops defines the differentiable primitives of the engine.
//
// Every primitive is a Kind. A Kind supplies a forward kernel over raw arrays
// and a gradient rule mapping the upstream gradient to one gradient per
// operand. Forward returns a Rule: the record a graph node stores so the rule
// can be replayed during backpropagation.
//
// Supported operations (ug = upstream gradient):
//   - Add:       d(a+b)  = ug, ug
//   - Sub:       d(a-b)  = ug, -ug
//   - Mul:       d(a*b)  = b*ug, a*ug
//   - Div:       d(a/b)  = ug/b, -a*ug/b²
//   - Pow:       d(a^b)  = b*a^(b-1)*ug, a^b*ln(a)*ug
//   - Dot:       d(A@B)  = ug@Bᵗ, Aᵗ@ug
//   - Exp, Log, ReLU, Sigmoid, Tanh: unary element-wise
//   - Sum:       upstream replicated over the reduced axis
//   - Transpose: upstream transposed back
//   - Conv2D:    single-channel 2-D sliding window
//
// Gradients of broadcast-aware kinds are returned at the broadcast shape;
// reducing them to each operand's shape is the caller's job (see
// tensor.ReduceTo).
package ops

import (
	"fmt"

	"github.com/born-ml/gradgraph/internal/tensor"
	"github.com/pkg/errors"
)

// Kind enumerates the primitive operations.
type Kind int

// Primitive operations.
const (
	Add Kind = iota
	Sub
	Mul
	Div
	Pow
	Dot
	Exp
	Log
	Sum
	Transpose
	ReLU
	Sigmoid
	Tanh
	Conv2D
	numKinds
)

var kindNames = [numKinds]string{
	Add:       "add",
	Sub:       "sub",
	Mul:       "mul",
	Div:       "div",
	Pow:       "pow",
	Dot:       "dot",
	Exp:       "exp",
	Log:       "log",
	Sum:       "sum",
	Transpose: "transpose",
	ReLU:      "relu",
	Sigmoid:   "sigmoid",
	Tanh:      "tanh",
	Conv2D:    "conv2d",
}

// String returns the lowercase operation name.
func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Arity returns the number of operands the operation consumes.
func (k Kind) Arity() int {
	return kernels[k].arity
}

// Broadcasts reports whether operands of different shapes are broadcast
// against each other.
func (k Kind) Broadcasts() bool {
	return kernels[k].broadcast
}

// Params holds per-call configuration.
type Params struct {
	Axis    int   // Sum: reduced axis when HasAxis
	HasAxis bool  // Sum: false reduces everything
	Axes    []int // Transpose: permutation, empty reverses
	Padding int   // Conv2D
	Stride  int   // Conv2D
}

// Rule is the gradient record of one executed operation.
type Rule struct {
	Kind           Kind
	Params         Params
	Operands       []*tensor.Array
	Output         *tensor.Array
	BroadcastShape tensor.Shape // nil unless operands were broadcast
}

type kernel struct {
	arity     int
	broadcast bool
	forward   func(p Params, in []*tensor.Array) (*tensor.Array, error)
	backward  func(r *Rule, ug *tensor.Array) ([]*tensor.Array, error)
}

var kernels [numKinds]kernel

func init() {
	kernels = [numKinds]kernel{
		Add:       {2, true, addForward, addBackward},
		Sub:       {2, true, subForward, subBackward},
		Mul:       {2, true, mulForward, mulBackward},
		Div:       {2, true, divForward, divBackward},
		Pow:       {2, true, powForward, powBackward},
		Dot:       {2, false, dotForward, dotBackward},
		Exp:       {1, false, expForward, expBackward},
		Log:       {1, false, logForward, logBackward},
		Sum:       {1, false, sumForward, sumBackward},
		Transpose: {1, false, transposeForward, transposeBackward},
		ReLU:      {1, false, reluForward, reluBackward},
		Sigmoid:   {1, false, sigmoidForward, sigmoidBackward},
		Tanh:      {1, false, tanhForward, tanhBackward},
		Conv2D:    {2, false, conv2DForward, conv2DBackward},
	}
}

// Forward runs kind on operands and returns the rule recording it.
// Nothing is retained on failure.
func Forward(kind Kind, params Params, operands ...*tensor.Array) (*Rule, error) {
	if kind < 0 || kind >= numKinds {
		return nil, errors.Errorf("unknown operation %v", kind)
	}
	k := kernels[kind]
	if len(operands) != k.arity {
		return nil, errors.Errorf("%s expects %d operands, got %d", kind, k.arity, len(operands))
	}

	var broadcastShape tensor.Shape
	if k.broadcast {
		shape, needs, err := tensor.BroadcastShapes(operands[0].Shape(), operands[1].Shape())
		if err != nil {
			return nil, errors.Wrap(err, kind.String())
		}
		if needs {
			broadcastShape = shape
		}
	}

	out, err := k.forward(params, operands)
	if err != nil {
		return nil, errors.Wrap(err, kind.String())
	}
	return &Rule{
		Kind:           kind,
		Params:         params,
		Operands:       operands,
		Output:         out,
		BroadcastShape: broadcastShape,
	}, nil
}

// Backward maps the upstream gradient to one gradient per operand.
func (r *Rule) Backward(upstream *tensor.Array) ([]*tensor.Array, error) {
	if !upstream.Shape().Equal(r.Output.Shape()) {
		return nil, errors.Wrapf(tensor.ErrShapeMismatch, "%s backward: upstream %v vs output %v",
			r.Kind, upstream.Shape(), r.Output.Shape())
	}
	grads, err := kernels[r.Kind].backward(r, upstream)
	if err != nil {
		return nil, errors.Wrapf(err, "%s backward", r.Kind)
	}
	return grads, nil
}
