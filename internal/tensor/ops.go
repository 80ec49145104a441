package tensor

import "github.com/pkg/errors"

// Binary applies f element-wise to a and b with NumPy broadcasting.
// Incompatible shapes fail with ErrShapeMismatch.
func Binary(a, b *Array, f func(x, y float64) float64) (*Array, error) {
	if a.shape.Equal(b.shape) {
		out := make([]float64, len(a.data))
		for i := range out {
			out[i] = f(a.data[i], b.data[i])
		}
		return fromData(out, a.shape), nil
	}

	outShape, _, err := BroadcastShapes(a.shape, b.shape)
	if err != nil {
		return nil, err
	}
	aIdx := broadcastIndex(a.shape, outShape)
	bIdx := broadcastIndex(b.shape, outShape)
	out := make([]float64, outShape.NumElements())
	for i := range out {
		out[i] = f(a.data[aIdx[i]], b.data[bIdx[i]])
	}
	return fromData(out, outShape), nil
}

// Map applies f to every element and returns a new array.
func (a *Array) Map(f func(float64) float64) *Array {
	out := make([]float64, len(a.data))
	for i, v := range a.data {
		out[i] = f(v)
	}
	return fromData(out, a.shape)
}

// Add returns a + b with broadcasting.
func Add(a, b *Array) (*Array, error) {
	return Binary(a, b, func(x, y float64) float64 { return x + y })
}

// Mul returns a * b with broadcasting.
func Mul(a, b *Array) (*Array, error) {
	return Binary(a, b, func(x, y float64) float64 { return x * y })
}

// Scale returns a * s.
func (a *Array) Scale(s float64) *Array {
	return a.Map(func(v float64) float64 { return v * s })
}

// BroadcastTo expands a to target following broadcasting rules.
func BroadcastTo(a *Array, target Shape) (*Array, error) {
	if a.shape.Equal(target) {
		return a.Clone(), nil
	}
	out, _, err := BroadcastShapes(a.shape, target)
	if err != nil {
		return nil, err
	}
	if !out.Equal(target) {
		return nil, errors.Wrapf(ErrShapeMismatch, "cannot broadcast %v to %v", a.shape, target)
	}
	idx := broadcastIndex(a.shape, target)
	data := make([]float64, len(idx))
	for i, j := range idx {
		data[i] = a.data[j]
	}
	return fromData(data, target), nil
}

// broadcastIndex maps every flat index of dstShape to the flat index of the
// element of srcShape it reads from. srcShape must broadcast to dstShape.
func broadcastIndex(srcShape, dstShape Shape) []int {
	srcStrides := srcShape.ComputeStrides()
	dstStrides := dstShape.ComputeStrides()
	numElements := dstShape.NumElements()
	lead := len(dstShape) - len(srcShape)

	idx := make([]int, numElements)
	for i := 0; i < numElements; i++ {
		srcIdx := 0
		temp := i
		for d := 0; d < len(dstShape); d++ {
			coord := temp / dstStrides[d]
			temp %= dstStrides[d]

			srcDim := d - lead
			if srcDim < 0 {
				continue
			}
			// Stretched dimensions always read coordinate 0
			if srcShape[srcDim] == 1 {
				coord = 0
			}
			srcIdx += coord * srcStrides[srcDim]
		}
		idx[i] = srcIdx
	}
	return idx
}
