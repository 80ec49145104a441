// Package nn provides loss functions built from graph operations.
package nn

import (
	"github.com/born-ml/gradgraph/internal/autodiff"
	"github.com/born-ml/gradgraph/internal/tensor"
	"github.com/pkg/errors"
)

// DefaultEpsilon keeps the logarithms in BCELoss finite at 0 and 1.
const DefaultEpsilon = 1e-5

// Loss reduces outputs and targets to a scalar tensor on the outputs' graph.
type Loss interface {
	Forward(outputs *autodiff.Tensor, targets any) (*autodiff.Tensor, error)
	String() string
}

// MSELoss computes the halved mean squared error.
//
// Loss = sum((outputs - targets)²) / (2n)
//
// n is the size of the last axis (1 for a scalar), so for a batch laid out
// as features × examples the loss is averaged over examples.
type MSELoss struct{}

// NewMSELoss creates a mean squared error loss.
func NewMSELoss() *MSELoss {
	return &MSELoss{}
}

// Forward computes the loss. targets may be a tensor or raw data of the
// same shape as outputs.
func (m *MSELoss) Forward(outputs *autodiff.Tensor, targets any) (*autodiff.Tensor, error) {
	t, n, err := prepare(m, outputs, targets)
	if err != nil {
		return nil, err
	}
	g := outputs.Graph()
	diff, err := g.Sub(outputs, t)
	if err != nil {
		return nil, err
	}
	sq, err := diff.Pow(2)
	if err != nil {
		return nil, err
	}
	sum, err := sq.Sum()
	if err != nil {
		return nil, err
	}
	return sum.Div(float64(2 * n))
}

func (m *MSELoss) String() string { return "MeanSquaredError" }

// BCELoss computes binary cross entropy over probabilities in [0, 1].
//
// Loss = -sum(t·log(o + ε) + (1 - t)·log(1 - o + ε)) / n
//
// with n as for MSELoss.
type BCELoss struct {
	Epsilon float64
}

// NewBCELoss creates a binary cross entropy loss with DefaultEpsilon.
func NewBCELoss() *BCELoss {
	return &BCELoss{Epsilon: DefaultEpsilon}
}

// Forward computes the loss. outputs are predicted probabilities.
func (b *BCELoss) Forward(outputs *autodiff.Tensor, targets any) (*autodiff.Tensor, error) {
	t, n, err := prepare(b, outputs, targets)
	if err != nil {
		return nil, err
	}
	g := outputs.Graph()
	eps := b.Epsilon

	logP, err := g.Log(autodiff.Must(outputs.Add(eps)))
	if err != nil {
		return nil, errors.Wrap(err, b.String())
	}
	logQ, err := g.Log(autodiff.Must(g.Sub(1+eps, outputs)))
	if err != nil {
		return nil, errors.Wrap(err, b.String())
	}
	pos, err := t.Mul(logP)
	if err != nil {
		return nil, err
	}
	neg, err := g.Mul(autodiff.Must(g.Sub(1, t)), logQ)
	if err != nil {
		return nil, err
	}
	sum, err := autodiff.Must(pos.Add(neg)).Sum()
	if err != nil {
		return nil, err
	}
	return sum.Div(-float64(n))
}

func (b *BCELoss) String() string { return "BinaryCrossEntropy" }

// prepare turns targets into a constant on the outputs' graph and returns
// the averaging size.
func prepare(loss Loss, outputs *autodiff.Tensor, targets any) (*autodiff.Tensor, int, error) {
	if outputs == nil {
		return nil, 0, errors.Wrap(autodiff.ErrNilTensor, loss.String())
	}
	t, ok := targets.(*autodiff.Tensor)
	if ok && t == nil {
		return nil, 0, errors.Wrapf(autodiff.ErrNilTensor, "%s: targets", loss)
	}
	if !ok {
		var err error
		t, err = outputs.Graph().NewTensor(targets)
		if err != nil {
			return nil, 0, errors.Wrapf(err, "%s: targets", loss)
		}
	}
	if !outputs.Shape().Equal(t.Shape()) {
		return nil, 0, errors.Wrapf(tensor.ErrShapeMismatch, "%s: outputs %v, targets %v",
			loss, outputs.Shape(), t.Shape())
	}
	n := 1
	if shape := outputs.Shape(); len(shape) > 0 {
		n = shape[len(shape)-1]
	}
	return t, n, nil
}
