package tensor

import "github.com/pkg/errors"

// Common errors.
var (
	ErrShapeMismatch   = errors.New("shapes cannot be combined")
	ErrInvalidShape    = errors.New("invalid shape")
	ErrDimension       = errors.New("unsupported number of dimensions")
	ErrRaggedData      = errors.New("nested data is ragged")
	ErrUnsupportedData = errors.New("unsupported data type")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrInvalidParams   = errors.New("invalid operation parameters")
)
