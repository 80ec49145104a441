package ops

import "github.com/born-ml/gradgraph/internal/tensor"

func transposeForward(p Params, in []*tensor.Array) (*tensor.Array, error) {
	return tensor.Transpose(in[0], p.Axes...)
}

// The gradient of a transpose is the transpose with the inverse permutation.
// Reversing all axes is its own inverse.
func transposeBackward(r *Rule, ug *tensor.Array) ([]*tensor.Array, error) {
	var axes []int
	if len(r.Params.Axes) > 0 {
		axes = tensor.InversePermutation(r.Params.Axes)
	}
	grad, err := tensor.Transpose(ug, axes...)
	if err != nil {
		return nil, err
	}
	return []*tensor.Array{grad}, nil
}
