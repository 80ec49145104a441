package autodiff

import (
	"slices"

	"github.com/born-ml/gradgraph/internal/autodiff/ops"
)

// Graph-level operations accept any operand: *Tensor values of this graph or
// raw data (see tensor.FromValue), which becomes a constant. They cover the
// reflected forms, e.g. g.Sub(1, t).

// Add returns a + b with broadcasting.
func (g *Graph) Add(a, b any) (*Tensor, error) { return g.apply(ops.Add, ops.Params{}, a, b) }

// Sub returns a - b with broadcasting.
func (g *Graph) Sub(a, b any) (*Tensor, error) { return g.apply(ops.Sub, ops.Params{}, a, b) }

// Mul returns a * b element-wise with broadcasting.
func (g *Graph) Mul(a, b any) (*Tensor, error) { return g.apply(ops.Mul, ops.Params{}, a, b) }

// Div returns a / b element-wise with broadcasting.
func (g *Graph) Div(a, b any) (*Tensor, error) { return g.apply(ops.Div, ops.Params{}, a, b) }

// Pow returns a ** b element-wise with broadcasting.
func (g *Graph) Pow(a, b any) (*Tensor, error) { return g.apply(ops.Pow, ops.Params{}, a, b) }

// Dot returns the matrix product of 1-D or 2-D operands.
func (g *Graph) Dot(a, b any) (*Tensor, error) { return g.apply(ops.Dot, ops.Params{}, a, b) }

// Exp returns e^x element-wise.
func (g *Graph) Exp(x any) (*Tensor, error) { return g.apply(ops.Exp, ops.Params{}, x) }

// Log returns the natural logarithm element-wise.
func (g *Graph) Log(x any) (*Tensor, error) { return g.apply(ops.Log, ops.Params{}, x) }

// ReLU returns max(0, x) element-wise.
func (g *Graph) ReLU(x any) (*Tensor, error) { return g.apply(ops.ReLU, ops.Params{}, x) }

// Sigmoid returns 1 / (1 + e^-x) element-wise.
func (g *Graph) Sigmoid(x any) (*Tensor, error) { return g.apply(ops.Sigmoid, ops.Params{}, x) }

// Tanh returns tanh(x) element-wise.
func (g *Graph) Tanh(x any) (*Tensor, error) { return g.apply(ops.Tanh, ops.Params{}, x) }

// Neg returns -x.
func (g *Graph) Neg(x any) (*Tensor, error) { return g.Mul(-1.0, x) }

// Sum reduces all elements to a scalar.
func (g *Graph) Sum(x any) (*Tensor, error) { return g.apply(ops.Sum, ops.Params{}, x) }

// SumAxis reduces along axis, dropping it. Negative axes count from the end.
func (g *Graph) SumAxis(x any, axis int) (*Tensor, error) {
	return g.apply(ops.Sum, ops.Params{Axis: axis, HasAxis: true}, x)
}

// Transpose permutes axes; without axes it reverses them.
// The node keeps its own copy of axes.
func (g *Graph) Transpose(x any, axes ...int) (*Tensor, error) {
	return g.apply(ops.Transpose, ops.Params{Axes: slices.Clone(axes)}, x)
}

// Conv2D slides kernel over a zero-padded 2-D input. Both must be 2-D.
// Gradients flow to input and kernel.
func (g *Graph) Conv2D(input, kernel any, padding, stride int) (*Tensor, error) {
	return g.apply(ops.Conv2D, ops.Params{Padding: padding, Stride: stride}, input, kernel)
}

// Add returns t + other.
func (t *Tensor) Add(other any) (*Tensor, error) { return t.graph.Add(t, other) }

// Sub returns t - other.
func (t *Tensor) Sub(other any) (*Tensor, error) { return t.graph.Sub(t, other) }

// Mul returns t * other element-wise.
func (t *Tensor) Mul(other any) (*Tensor, error) { return t.graph.Mul(t, other) }

// Div returns t / other element-wise.
func (t *Tensor) Div(other any) (*Tensor, error) { return t.graph.Div(t, other) }

// Pow returns t ** other element-wise.
func (t *Tensor) Pow(other any) (*Tensor, error) { return t.graph.Pow(t, other) }

// Dot returns the matrix product t · other.
func (t *Tensor) Dot(other any) (*Tensor, error) { return t.graph.Dot(t, other) }

// Exp returns e^t.
func (t *Tensor) Exp() (*Tensor, error) { return t.graph.Exp(t) }

// Log returns ln(t).
func (t *Tensor) Log() (*Tensor, error) { return t.graph.Log(t) }

// ReLU returns max(0, t).
func (t *Tensor) ReLU() (*Tensor, error) { return t.graph.ReLU(t) }

// Sigmoid returns σ(t).
func (t *Tensor) Sigmoid() (*Tensor, error) { return t.graph.Sigmoid(t) }

// Tanh returns tanh(t).
func (t *Tensor) Tanh() (*Tensor, error) { return t.graph.Tanh(t) }

// Neg returns -t.
func (t *Tensor) Neg() (*Tensor, error) { return t.graph.Neg(t) }

// Sum reduces all elements to a scalar.
func (t *Tensor) Sum() (*Tensor, error) { return t.graph.Sum(t) }

// SumAxis reduces along axis.
func (t *Tensor) SumAxis(axis int) (*Tensor, error) { return t.graph.SumAxis(t, axis) }

// T reverses the axes (matrix transpose for 2-D).
func (t *Tensor) T() (*Tensor, error) { return t.graph.Transpose(t) }

// Transpose permutes the axes.
func (t *Tensor) Transpose(axes ...int) (*Tensor, error) { return t.graph.Transpose(t, axes...) }
