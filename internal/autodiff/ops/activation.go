package ops

import (
	"math"

	"github.com/born-ml/gradgraph/internal/tensor"
)

func expForward(_ Params, in []*tensor.Array) (*tensor.Array, error) {
	return in[0].Map(math.Exp), nil
}

// d(e^x)/dx = e^x, which is the output itself.
func expBackward(r *Rule, ug *tensor.Array) ([]*tensor.Array, error) {
	grad, err := tensor.Mul(r.Output, ug)
	if err != nil {
		return nil, err
	}
	return []*tensor.Array{grad}, nil
}

func logForward(_ Params, in []*tensor.Array) (*tensor.Array, error) {
	return in[0].Map(math.Log), nil
}

// d(ln x)/dx = 1/x
func logBackward(r *Rule, ug *tensor.Array) ([]*tensor.Array, error) {
	grad, err := tensor.Binary(ug, r.Operands[0], func(g, x float64) float64 { return g / x })
	if err != nil {
		return nil, err
	}
	return []*tensor.Array{grad}, nil
}

func reluForward(_ Params, in []*tensor.Array) (*tensor.Array, error) {
	return in[0].Map(func(x float64) float64 { return math.Max(0, x) }), nil
}

// Gradient passes where x >= 0. Zero counts as active.
func reluBackward(r *Rule, ug *tensor.Array) ([]*tensor.Array, error) {
	grad, err := tensor.Binary(ug, r.Operands[0], func(g, x float64) float64 {
		if x >= 0 {
			return g
		}
		return 0
	})
	if err != nil {
		return nil, err
	}
	return []*tensor.Array{grad}, nil
}

func sigmoidForward(_ Params, in []*tensor.Array) (*tensor.Array, error) {
	return in[0].Map(func(x float64) float64 { return 1.0 / (1.0 + math.Exp(-x)) }), nil
}

// σ'(x) = σ(x)(1-σ(x))
func sigmoidBackward(r *Rule, ug *tensor.Array) ([]*tensor.Array, error) {
	grad, err := tensor.Binary(ug, r.Output, func(g, s float64) float64 { return g * s * (1 - s) })
	if err != nil {
		return nil, err
	}
	return []*tensor.Array{grad}, nil
}

func tanhForward(_ Params, in []*tensor.Array) (*tensor.Array, error) {
	return in[0].Map(math.Tanh), nil
}

// tanh'(x) = 1 - tanh²(x)
func tanhBackward(r *Rule, ug *tensor.Array) ([]*tensor.Array, error) {
	grad, err := tensor.Binary(ug, r.Output, func(g, t float64) float64 { return g * (1 - t*t) })
	if err != nil {
		return nil, err
	}
	return []*tensor.Array{grad}, nil
}
