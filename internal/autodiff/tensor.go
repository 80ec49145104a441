package autodiff

import (
	"fmt"

	"github.com/born-ml/gradgraph/internal/tensor"
	"github.com/pkg/errors"
)

// Tensor is a value in the computation graph: an immutable data array, a
// gradient accumulator of the same shape, and an optional reference to the
// node that tracks it.
//
// Not safe for concurrent use.
type Tensor struct {
	graph        *Graph
	data         *tensor.Array
	grad         *tensor.Array
	requiresGrad bool
	node         NodeID
	generation   uint64
}

// TensorOption configures NewTensor.
type TensorOption func(*Tensor)

// WithGrad marks the new tensor as requiring gradients.
func WithGrad() TensorOption {
	return func(t *Tensor) {
		t.requiresGrad = true
	}
}

// NewTensor creates a leaf tensor from raw data (see tensor.FromValue for the
// accepted values). Passing a *Tensor copies its data.
//
// Example:
//
//	w, err := g.NewTensor([][]float64{{1, 2}, {3, 4}}, autodiff.WithGrad())
func (g *Graph) NewTensor(value any, opts ...TensorOption) (*Tensor, error) {
	if t, ok := value.(*Tensor); ok {
		if t == nil {
			return nil, ErrNilTensor
		}
		value = t.data
	}
	data, err := tensor.FromValue(value)
	if err != nil {
		return nil, err
	}
	t := g.wrap(data, false)
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// wrap creates an untracked tensor around data without copying.
func (g *Graph) wrap(data *tensor.Array, requiresGrad bool) *Tensor {
	return &Tensor{
		graph:        g,
		data:         data,
		grad:         tensor.ZerosLike(data),
		requiresGrad: requiresGrad,
		node:         NoNode,
	}
}

// Must returns t or panics if err is non-nil. It is intended for chaining
// operations whose operands are known to be compatible.
//
// Example:
//
//	loss := autodiff.Must(autodiff.Must(pred.Sub(target)).Pow(2))
func Must(t *Tensor, err error) *Tensor {
	if err != nil {
		panic(err)
	}
	return t
}

// Graph returns the owning graph.
func (t *Tensor) Graph() *Graph { return t.graph }

// Data returns the tensor's values.
func (t *Tensor) Data() *tensor.Array { return t.data }

// Shape returns the tensor's shape.
func (t *Tensor) Shape() tensor.Shape { return t.data.Shape() }

// Item returns the value of a single-element tensor.
// Panics if the tensor holds more than one element.
func (t *Tensor) Item() float64 { return t.data.Item() }

// RequiresGrad reports whether gradients are tracked for t.
func (t *Tensor) RequiresGrad() bool { return t.requiresGrad }

// RequireGrad marks t for gradient computation.
// Returns the tensor itself for method chaining.
func (t *Tensor) RequireGrad() *Tensor {
	t.requiresGrad = true
	return t
}

// Node returns the node tracking t, if any.
func (t *Tensor) Node() (*Node, bool) {
	return t.graph.NodeOf(t)
}

// Grad returns the gradient accumulator. It has t's shape and starts at zero.
func (t *Tensor) Grad() *tensor.Array { return t.grad }

// SetGrad replaces the gradient accumulator. value must have t's shape.
func (t *Tensor) SetGrad(value any) error {
	grad, err := tensor.FromValue(value)
	if err != nil {
		return err
	}
	if !grad.Shape().Equal(t.Shape()) {
		return errors.Wrapf(tensor.ErrShapeMismatch, "gradient %v for tensor %v", grad.Shape(), t.Shape())
	}
	t.grad = grad
	return nil
}

// ZeroGrad resets the gradient accumulator to zero. Gradients are never
// cleared automatically; call this between training iterations.
func (t *Tensor) ZeroGrad() {
	t.grad.Fill(0)
}

// Detach returns a tensor sharing t's data that does not track gradients.
func (t *Tensor) Detach() *Tensor {
	return t.graph.wrap(t.data, false)
}

// Backward propagates a gradient of ones from t.
//
// Backward walks every node reachable from t. In a training loop call
// Graph.Clear once per iteration: otherwise a parameter's leaf keeps the
// children of every earlier step and each pass revisits the whole history.
func (t *Tensor) Backward() error {
	return t.BackwardWith(tensor.OnesLike(t.data))
}

// BackwardWith propagates seed from t. seed is added to t's gradient and, if
// t was produced by a tracked operation, flows to every tensor t depends on.
// seed may be any value broadcastable to t's shape. See Backward for why
// training loops should Clear the graph between iterations.
func (t *Tensor) BackwardWith(seed any) error {
	upstream, err := tensor.FromValue(seed)
	if err != nil {
		return errors.Wrap(err, "backward seed")
	}
	if !upstream.Shape().Equal(t.Shape()) {
		if upstream, err = tensor.BroadcastTo(upstream, t.Shape()); err != nil {
			return errors.Wrap(err, "backward seed")
		}
	}

	if err := t.grad.AddInPlace(upstream); err != nil {
		return err
	}
	n, ok := t.graph.NodeOf(t)
	if !ok || n.IsLeaf() {
		return nil
	}
	return t.graph.backward(n, upstream)
}

// String returns a human-readable representation of the tensor.
func (t *Tensor) String() string {
	return fmt.Sprintf("Tensor(%s, requiresGrad=%t)", t.data, t.requiresGrad)
}
