package ops

import (
	"math"

	"github.com/born-ml/gradgraph/internal/tensor"
)

func addForward(_ Params, in []*tensor.Array) (*tensor.Array, error) {
	return tensor.Add(in[0], in[1])
}

// d(a+b)/da = d(a+b)/db = 1, so the gradient flows unchanged to both inputs.
func addBackward(_ *Rule, ug *tensor.Array) ([]*tensor.Array, error) {
	return []*tensor.Array{ug.Clone(), ug.Clone()}, nil
}

func subForward(_ Params, in []*tensor.Array) (*tensor.Array, error) {
	return tensor.Binary(in[0], in[1], func(x, y float64) float64 { return x - y })
}

func subBackward(_ *Rule, ug *tensor.Array) ([]*tensor.Array, error) {
	return []*tensor.Array{ug.Clone(), ug.Scale(-1)}, nil
}

func mulForward(_ Params, in []*tensor.Array) (*tensor.Array, error) {
	return tensor.Mul(in[0], in[1])
}

// grad_a = b * ug, grad_b = a * ug
func mulBackward(r *Rule, ug *tensor.Array) ([]*tensor.Array, error) {
	a, b := r.Operands[0], r.Operands[1]
	gradA, err := tensor.Mul(b, ug)
	if err != nil {
		return nil, err
	}
	gradB, err := tensor.Mul(a, ug)
	if err != nil {
		return nil, err
	}
	return []*tensor.Array{gradA, gradB}, nil
}

func divForward(_ Params, in []*tensor.Array) (*tensor.Array, error) {
	return tensor.Binary(in[0], in[1], func(x, y float64) float64 { return x / y })
}

// grad_a = ug / b, grad_b = -a * ug / b²
func divBackward(r *Rule, ug *tensor.Array) ([]*tensor.Array, error) {
	a, b := r.Operands[0], r.Operands[1]
	gradA, err := tensor.Binary(ug, b, func(g, y float64) float64 { return g / y })
	if err != nil {
		return nil, err
	}
	ab, err := tensor.Binary(a, b, func(x, y float64) float64 { return -x / (y * y) })
	if err != nil {
		return nil, err
	}
	gradB, err := tensor.Mul(ab, ug)
	if err != nil {
		return nil, err
	}
	return []*tensor.Array{gradA, gradB}, nil
}

func powForward(_ Params, in []*tensor.Array) (*tensor.Array, error) {
	return tensor.Binary(in[0], in[1], math.Pow)
}

// grad_a = b * a^(b-1) * ug, grad_b = a^b * ln(a) * ug
//
// ln(a) is NaN for negative bases; grad_b is then NaN as well.
func powBackward(r *Rule, ug *tensor.Array) ([]*tensor.Array, error) {
	a, b := r.Operands[0], r.Operands[1]
	local, err := tensor.Binary(a, b, func(x, y float64) float64 { return y * math.Pow(x, y-1) })
	if err != nil {
		return nil, err
	}
	gradA, err := tensor.Mul(local, ug)
	if err != nil {
		return nil, err
	}
	logA := a.Map(math.Log)
	local, err = tensor.Mul(r.Output, logA)
	if err != nil {
		return nil, err
	}
	gradB, err := tensor.Mul(local, ug)
	if err != nil {
		return nil, err
	}
	return []*tensor.Array{gradA, gradB}, nil
}
