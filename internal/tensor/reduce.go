package tensor

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// Sum reduces every element into a rank-0 array.
func Sum(a *Array) *Array {
	return Scalar(floats.Sum(a.data))
}

// SumAxis sums a along axis. Negative axes count from the end.
// With keepDims the reduced axis stays with size 1, otherwise it is removed.
func SumAxis(a *Array, axis int, keepDims bool) (*Array, error) {
	axis, err := a.shape.NormalizeAxis(axis)
	if err != nil {
		return nil, err
	}

	shape := a.shape
	outer := 1
	for _, d := range shape[:axis] {
		outer *= d
	}
	n := shape[axis]
	inner := a.stride[axis]

	out := make([]float64, outer*inner)
	for o := 0; o < outer; o++ {
		base := o * n * inner
		dst := out[o*inner : (o+1)*inner]
		for k := 0; k < n; k++ {
			floats.Add(dst, a.data[base+k*inner:base+(k+1)*inner])
		}
	}

	outShape := shape.Clone()
	if keepDims {
		outShape[axis] = 1
	} else {
		outShape = append(outShape[:axis], outShape[axis+1:]...)
	}
	return fromData(out, outShape), nil
}

// ReduceTo sums a gradient computed at a broadcast shape back down to target.
//
// Leading axes that target does not have are summed first, then every axis
// where target has size 1 and grad does not. The result has exactly target's
// shape.
//
// Example:
//
//	Forward: a(3,) + b(2, 3) -> c(2, 3)
//	Backward: grad_c(2, 3) -> grad_a(3,) (sum over axis 0)
func ReduceTo(grad *Array, target Shape) (*Array, error) {
	if grad.shape.Equal(target) {
		return grad.Clone(), nil
	}
	if len(target) == 0 {
		return Sum(grad), nil
	}
	if len(target) > len(grad.shape) {
		return nil, errors.Wrapf(ErrShapeMismatch, "cannot reduce %v to higher rank %v", grad.shape, target)
	}

	result := grad
	var err error
	for i := len(grad.shape) - len(target); i > 0; i-- {
		result, err = SumAxis(result, 0, false)
		if err != nil {
			return nil, err
		}
	}

	for i := range target {
		switch {
		case result.shape[i] == target[i]:
		case target[i] == 1:
			result, err = SumAxis(result, i, true)
			if err != nil {
				return nil, err
			}
		default:
			return nil, errors.Wrapf(ErrShapeMismatch, "cannot reduce %v to %v", grad.shape, target)
		}
	}

	if result == grad {
		return grad.Clone(), nil
	}
	return result, nil
}
