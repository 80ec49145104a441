package tensor

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// MatMul multiplies two 2-D arrays: (m, k) x (k, n) -> (m, n).
func MatMul(a, b *Array) (*Array, error) {
	if len(a.shape) != 2 || len(b.shape) != 2 {
		return nil, errors.Wrapf(ErrDimension, "MatMul expects 2-D operands, got %v and %v", a.shape, b.shape)
	}
	m, k := a.shape[0], a.shape[1]
	k2, n := b.shape[0], b.shape[1]
	if k != k2 {
		return nil, errors.Wrapf(ErrShapeMismatch, "matrix product of %v and %v (inner dimensions %d vs %d)",
			a.shape, b.shape, k, k2)
	}

	var out mat.Dense
	out.Mul(a.Dense(), b.Dense())
	return fromData(out.RawMatrix().Data, Shape{m, n}), nil
}

// Dense views a 2-D array as a gonum matrix sharing its data.
// Panics if a is not 2-D.
func (a *Array) Dense() *mat.Dense {
	if len(a.shape) != 2 {
		panic("Dense() requires a 2-D array")
	}
	return mat.NewDense(a.shape[0], a.shape[1], a.data)
}
