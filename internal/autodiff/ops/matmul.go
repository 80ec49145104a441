package ops

import (
	"github.com/born-ml/gradgraph/internal/tensor"
	"github.com/pkg/errors"
)

// Dot is the matrix product. 1-D operands are promoted NumPy-style:
// a vector on the left becomes a row (1, k), on the right a column (k, 1),
// and the promoted axis is dropped from the result.

func dotForward(_ Params, in []*tensor.Array) (*tensor.Array, error) {
	a, b := in[0], in[1]
	a2, b2, err := promote(a, b)
	if err != nil {
		return nil, err
	}
	out, err := tensor.MatMul(a2, b2)
	if err != nil {
		return nil, err
	}
	return out.Reshape(dotShape(a.Shape(), b.Shape()))
}

// grad_a = ug @ bᵗ, grad_b = aᵗ @ ug
func dotBackward(r *Rule, ug *tensor.Array) ([]*tensor.Array, error) {
	a, b := r.Operands[0], r.Operands[1]
	a2, b2, err := promote(a, b)
	if err != nil {
		return nil, err
	}
	ug2, err := ug.Reshape(tensor.Shape{a2.Shape()[0], b2.Shape()[1]})
	if err != nil {
		return nil, err
	}

	bT, err := tensor.Transpose(b2)
	if err != nil {
		return nil, err
	}
	gradA, err := tensor.MatMul(ug2, bT)
	if err != nil {
		return nil, err
	}
	aT, err := tensor.Transpose(a2)
	if err != nil {
		return nil, err
	}
	gradB, err := tensor.MatMul(aT, ug2)
	if err != nil {
		return nil, err
	}

	if gradA, err = gradA.Reshape(a.Shape()); err != nil {
		return nil, err
	}
	if gradB, err = gradB.Reshape(b.Shape()); err != nil {
		return nil, err
	}
	return []*tensor.Array{gradA, gradB}, nil
}

func promote(a, b *tensor.Array) (*tensor.Array, *tensor.Array, error) {
	for _, x := range []*tensor.Array{a, b} {
		if x.Rank() < 1 || x.Rank() > 2 {
			return nil, nil, errors.Wrapf(tensor.ErrDimension, "dot supports 1-D and 2-D operands, got %v", x.Shape())
		}
	}
	a2, b2 := a, b
	var err error
	if a.Rank() == 1 {
		if a2, err = a.Reshape(tensor.Shape{1, a.Shape()[0]}); err != nil {
			return nil, nil, err
		}
	}
	if b.Rank() == 1 {
		if b2, err = b.Reshape(tensor.Shape{b.Shape()[0], 1}); err != nil {
			return nil, nil, err
		}
	}
	return a2, b2, nil
}

func dotShape(a, b tensor.Shape) tensor.Shape {
	shape := tensor.Shape{}
	if len(a) == 2 {
		shape = append(shape, a[0])
	}
	if len(b) == 2 {
		shape = append(shape, b[1])
	}
	return shape
}
