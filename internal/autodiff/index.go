package autodiff

import (
	"github.com/born-ml/gradgraph/internal/tensor"
	"github.com/pkg/errors"
)

// End is a Range.Stop meaning "through the last row".
const End = tensor.End

// Range selects rows Start, Start+Step, ... < Stop of the first axis.
// Negative bounds count from the end; a zero Step means 1.
//
// Stop has no open-ended zero value: Range{Start: 1} selects nothing and
// fails with tensor.ErrIndexOutOfRange. Use End (or From) for "to the last row".
type Range struct {
	Start, Stop, Step int
}

// From returns the range from start through the last row.
func From(start int) Range {
	return Range{Start: start, Stop: End, Step: 1}
}

// Index selects along the first axis with an int or a Range.
//
// The result copies the selected data and keeps t's RequiresGrad, but it is
// not connected to the graph: no gradient flows back through an index.
func (t *Tensor) Index(idx any) (*Tensor, error) {
	var (
		data *tensor.Array
		err  error
	)
	switch i := idx.(type) {
	case int:
		data, err = tensor.Take(t.data, i)
	case Range:
		data, err = tensor.SliceRange(t.data, i.Start, i.Stop, i.Step)
	default:
		return nil, errors.Wrapf(ErrUnsupportedIndex, "got %T", idx)
	}
	if err != nil {
		return nil, err
	}
	return t.graph.wrap(data, t.requiresGrad), nil
}
