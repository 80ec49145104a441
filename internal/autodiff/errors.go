package autodiff

import "github.com/pkg/errors"

// Common errors.
var (
	ErrUnsupportedIndex = errors.New("unsupported index type (supported: int, autodiff.Range)")
	ErrGraphMismatch    = errors.New("tensors belong to different graphs")
	ErrNilTensor        = errors.New("nil tensor")
)
