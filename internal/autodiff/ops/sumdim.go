package ops

import "github.com/born-ml/gradgraph/internal/tensor"

func sumForward(p Params, in []*tensor.Array) (*tensor.Array, error) {
	if !p.HasAxis {
		return tensor.Sum(in[0]), nil
	}
	return tensor.SumAxis(in[0], p.Axis, false)
}

// Each input element contributes once to the sum, so the upstream gradient is
// replicated across the reduced extent.
func sumBackward(r *Rule, ug *tensor.Array) ([]*tensor.Array, error) {
	x := r.Operands[0]
	grad := ug
	if r.Params.HasAxis {
		axis, err := x.Shape().NormalizeAxis(r.Params.Axis)
		if err != nil {
			return nil, err
		}
		kept := x.Shape().Clone()
		kept[axis] = 1
		if grad, err = ug.Reshape(kept); err != nil {
			return nil, err
		}
	}
	gradX, err := tensor.BroadcastTo(grad, x.Shape())
	if err != nil {
		return nil, err
	}
	return []*tensor.Array{gradX}, nil
}
