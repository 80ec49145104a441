package optim

import (
	"github.com/born-ml/gradgraph/internal/autodiff"
	"github.com/born-ml/gradgraph/internal/tensor"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// SGD implements stochastic gradient descent with optional momentum.
//
// Without momentum:
//
//	param = param - lr * grad
//
// With momentum:
//
//	velocity = momentum * velocity + grad
//	param = param - lr * velocity
//
// The update runs with tracking disabled, so it adds no nodes to the graph.
type SGD struct {
	params     []**autodiff.Tensor
	lr         float64
	momentum   float64
	velocities []*tensor.Array
}

// SGDConfig holds configuration for SGD.
type SGDConfig struct {
	LR       float64 // default 0.01
	Momentum float64 // default 0, range [0, 1)
}

// NewSGD creates an SGD optimizer over params.
func NewSGD(params []**autodiff.Tensor, config SGDConfig) *SGD {
	if config.LR == 0 {
		config.LR = 0.01
	}
	return &SGD{
		params:     params,
		lr:         config.LR,
		momentum:   config.Momentum,
		velocities: make([]*tensor.Array, len(params)),
	}
}

// Step replaces every parameter with its updated value. Gradients of the
// replaced tensors are left untouched.
func (s *SGD) Step() error {
	for i, p := range s.params {
		if p == nil || *p == nil {
			return errors.Wrapf(autodiff.ErrNilTensor, "parameter %d", i)
		}
		param := *p
		grad := param.Grad()
		if s.momentum != 0 {
			v, err := s.velocity(i, grad)
			if err != nil {
				return errors.Wrapf(err, "parameter %d", i)
			}
			grad = v
		}

		var next *autodiff.Tensor
		err := param.Graph().NoTrack(func() error {
			var err error
			next, err = param.Sub(grad.Scale(s.lr))
			return err
		})
		if err != nil {
			return errors.Wrapf(err, "parameter %d", i)
		}
		*p = next
	}
	klog.V(4).InfoS("SGD step", "params", len(s.params), "lr", s.lr, "momentum", s.momentum)
	return nil
}

// velocity folds grad into the running velocity of parameter i.
func (s *SGD) velocity(i int, grad *tensor.Array) (*tensor.Array, error) {
	prev := s.velocities[i]
	if prev == nil {
		s.velocities[i] = grad.Clone()
		return s.velocities[i], nil
	}
	v, err := tensor.Add(prev.Scale(s.momentum), grad)
	if err != nil {
		return nil, err
	}
	s.velocities[i] = v
	return v, nil
}

// ZeroGrad resets the gradient of every parameter.
func (s *SGD) ZeroGrad() {
	for _, p := range s.params {
		if p != nil && *p != nil {
			(*p).ZeroGrad()
		}
	}
}

// LR returns the learning rate.
func (s *SGD) LR() float64 { return s.lr }

// SetLR sets the learning rate.
func (s *SGD) SetLR(lr float64) { s.lr = lr }

var _ Optimizer = (*SGD)(nil)
