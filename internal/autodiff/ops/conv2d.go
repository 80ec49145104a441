package ops

import (
	"github.com/born-ml/gradgraph/internal/tensor"
	"github.com/pkg/errors"
)

// Conv2D slides a 2-D kernel over a zero-padded 2-D single-channel input:
//
//	out[r, c] = Σ_ij padded[r*s+i, c*s+j] * kernel[i, j]
//
// Output size per dimension: floor((in + 2*padding - k) / stride) + 1.
//
// Backward (both against padded coordinates):
//   - d_input:  scatter-add kernel * ug[r, c] into each window, then unpad
//   - d_kernel: Σ_rc window(r, c) * ug[r, c]

func conv2DForward(p Params, in []*tensor.Array) (*tensor.Array, error) {
	input, kernel := in[0], in[1]
	padded, outShape, err := convSetup(p, input, kernel)
	if err != nil {
		return nil, err
	}

	kh, kw := kernel.Shape()[0], kernel.Shape()[1]
	kData := kernel.Data()
	out := tensor.Zeros(outShape)
	for r := 0; r < outShape[0]; r++ {
		for c := 0; c < outShape[1]; c++ {
			var acc float64
			for i := 0; i < kh; i++ {
				for j := 0; j < kw; j++ {
					acc += padded.At(r*p.Stride+i, c*p.Stride+j) * kData[i*kw+j]
				}
			}
			out.Set(acc, r, c)
		}
	}
	return out, nil
}

func conv2DBackward(r *Rule, ug *tensor.Array) ([]*tensor.Array, error) {
	p := r.Params
	input, kernel := r.Operands[0], r.Operands[1]
	padded, outShape, err := convSetup(p, input, kernel)
	if err != nil {
		return nil, err
	}

	kh, kw := kernel.Shape()[0], kernel.Shape()[1]
	kData := kernel.Data()
	paddedGrad := tensor.ZerosLike(padded)
	kernelGrad := tensor.ZerosLike(kernel)
	kgData := kernelGrad.Data()

	for row := 0; row < outShape[0]; row++ {
		for col := 0; col < outShape[1]; col++ {
			g := ug.At(row, col)
			for i := 0; i < kh; i++ {
				for j := 0; j < kw; j++ {
					y, x := row*p.Stride+i, col*p.Stride+j
					paddedGrad.Set(paddedGrad.At(y, x)+kData[i*kw+j]*g, y, x)
					kgData[i*kw+j] += padded.At(y, x) * g
				}
			}
		}
	}

	inputGrad, err := tensor.Unpad2D(paddedGrad, p.Padding)
	if err != nil {
		return nil, err
	}
	return []*tensor.Array{inputGrad, kernelGrad}, nil
}

func convSetup(p Params, input, kernel *tensor.Array) (*tensor.Array, tensor.Shape, error) {
	if input.Rank() != 2 {
		return nil, nil, errors.Wrapf(tensor.ErrDimension, "only 2-D inputs are supported, got %v", input.Shape())
	}
	if kernel.Rank() != 2 {
		return nil, nil, errors.Wrapf(tensor.ErrDimension, "only 2-D kernels are supported, got %v", kernel.Shape())
	}
	if p.Stride < 1 {
		return nil, nil, errors.Wrapf(tensor.ErrInvalidParams, "stride must be >= 1, got %d", p.Stride)
	}
	if p.Padding < 0 {
		return nil, nil, errors.Wrapf(tensor.ErrInvalidParams, "padding must be >= 0, got %d", p.Padding)
	}

	padded, err := tensor.Pad2D(input, p.Padding)
	if err != nil {
		return nil, nil, err
	}
	ps, ks := padded.Shape(), kernel.Shape()
	if ks[0] > ps[0] || ks[1] > ps[1] {
		return nil, nil, errors.Wrapf(tensor.ErrShapeMismatch, "kernel %v larger than padded input %v", ks, ps)
	}
	outShape := tensor.Shape{
		(ps[0]-ks[0])/p.Stride + 1,
		(ps[1]-ks[1])/p.Stride + 1,
	}
	return padded, outShape, nil
}
