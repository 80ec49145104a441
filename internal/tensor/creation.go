package tensor

import (
	"reflect"

	"github.com/pkg/errors"
)

// Zeros creates an array filled with zeros.
//
// Example:
//
//	a := tensor.Zeros(tensor.Shape{3, 4})
func Zeros(shape Shape) *Array {
	if err := shape.Validate(); err != nil {
		panic(err) // Callers pass shapes taken from existing arrays
	}
	return fromData(make([]float64, shape.NumElements()), shape)
}

// Ones creates an array filled with ones.
func Ones(shape Shape) *Array {
	return Full(shape, 1)
}

// Full creates an array filled with value.
func Full(shape Shape, value float64) *Array {
	a := Zeros(shape)
	a.Fill(value)
	return a
}

// Scalar creates a rank-0 array.
func Scalar(v float64) *Array {
	return fromData([]float64{v}, Shape{})
}

// ZerosLike creates a zero array with a's shape.
func ZerosLike(a *Array) *Array {
	return Zeros(a.shape)
}

// OnesLike creates a ones array with a's shape.
func OnesLike(a *Array) *Array {
	return Ones(a.shape)
}

// FromValue normalizes raw numeric data into an Array.
//
// Accepted values:
//   - *Array (copied)
//   - float64, float32, int, int32, int64 scalars (rank 0)
//   - nested slices or arrays of those numeric types, any depth; every
//     sibling must have the same length
//
// Example:
//
//	a, err := tensor.FromValue([][]float64{{1, 2}, {3, 4}}) // shape (2, 2)
func FromValue(v any) (*Array, error) {
	switch x := v.(type) {
	case *Array:
		if x == nil {
			return nil, errors.Wrap(ErrUnsupportedData, "nil array")
		}
		return x.Clone(), nil
	case float64:
		return Scalar(x), nil
	case float32:
		return Scalar(float64(x)), nil
	case int:
		return Scalar(float64(x)), nil
	case []float64:
		return New(x, Shape{len(x)})
	case nil:
		return nil, errors.Wrap(ErrUnsupportedData, "nil value")
	}

	rv := reflect.ValueOf(v)
	shape, err := inferShape(rv)
	if err != nil {
		return nil, err
	}
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	data := make([]float64, 0, shape.NumElements())
	data, err = flatten(rv, shape, data)
	if err != nil {
		return nil, err
	}
	return fromData(data, shape), nil
}

func inferShape(rv reflect.Value) (Shape, error) {
	var shape Shape
	for {
		switch rv.Kind() {
		case reflect.Slice, reflect.Array:
			shape = append(shape, rv.Len())
			if rv.Len() == 0 {
				return shape, nil
			}
			rv = rv.Index(0)
		case reflect.Interface:
			rv = rv.Elem()
		default:
			if !isNumeric(rv.Kind()) {
				return nil, errors.Wrapf(ErrUnsupportedData, "element kind %s", rv.Kind())
			}
			return shape, nil
		}
	}
}

func flatten(rv reflect.Value, shape Shape, out []float64) ([]float64, error) {
	if rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}
	if len(shape) == 0 {
		if !isNumeric(rv.Kind()) {
			return nil, errors.Wrapf(ErrRaggedData, "expected a number, got %s", rv.Kind())
		}
		return append(out, toFloat(rv)), nil
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, errors.Wrapf(ErrRaggedData, "expected a sequence of length %d, got %s", shape[0], rv.Kind())
	}
	if rv.Len() != shape[0] {
		return nil, errors.Wrapf(ErrRaggedData, "expected length %d, got %d", shape[0], rv.Len())
	}
	var err error
	for i := 0; i < rv.Len(); i++ {
		out, err = flatten(rv.Index(i), shape[1:], out)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Float32, reflect.Float64,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	default:
		return false
	}
}

func toFloat(rv reflect.Value) float64 {
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint())
	default:
		return float64(rv.Int())
	}
}
