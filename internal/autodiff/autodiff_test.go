package autodiff_test

import (
	"testing"

	"github.com/born-ml/gradgraph/internal/autodiff"
	"github.com/born-ml/gradgraph/internal/autodiff/ops"
	"github.com/born-ml/gradgraph/internal/tensor"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTensor(t *testing.T, g *autodiff.Graph, value any, opts ...autodiff.TensorOption) *autodiff.Tensor {
	t.Helper()
	x, err := g.NewTensor(value, opts...)
	require.NoError(t, err)
	return x
}

func TestGraph_DefaultConfig(t *testing.T) {
	assert.True(t, autodiff.New().Tracking())
	assert.False(t, autodiff.NewGraph(autodiff.Config{}).Tracking())
}

func TestNewTensor(t *testing.T) {
	g := autodiff.New()
	x := newTensor(t, g, [][]float64{{1, 2}, {3, 4}})

	assert.Equal(t, tensor.Shape{2, 2}, x.Shape())
	assert.False(t, x.RequiresGrad())
	assert.Equal(t, []float64{0, 0, 0, 0}, x.Grad().Data())
	_, ok := x.Node()
	assert.False(t, ok, "leaves get a node only when used")

	w := newTensor(t, g, x, autodiff.WithGrad())
	assert.True(t, w.RequiresGrad())
	w.Data().Data()[0] = 9
	assert.Equal(t, 1.0, x.Data().At(0, 0), "NewTensor copies tensors")

	_, err := g.NewTensor("text")
	assert.True(t, errors.Is(err, tensor.ErrUnsupportedData))
}

func TestDiamond(t *testing.T) {
	g := autodiff.New()
	x := newTensor(t, g, 3.0, autodiff.WithGrad())
	y := autodiff.Must(x.Add(x))
	z := autodiff.Must(y.Mul(y))

	require.NoError(t, z.Backward())
	assert.Equal(t, 36.0, z.Item())
	assert.Equal(t, 24.0, x.Grad().Item())
	assert.Equal(t, 12.0, y.Grad().Item())
	assert.Equal(t, 1.0, z.Grad().Item())
}

func TestBackward_Broadcast(t *testing.T) {
	g := autodiff.New()
	a := newTensor(t, g, []float64{1, 1, 1}, autodiff.WithGrad())
	b := newTensor(t, g, [][]float64{{1, 2, 3}, {4, 5, 6}}, autodiff.WithGrad())

	c := autodiff.Must(a.Add(b))
	n, ok := c.Node()
	require.True(t, ok)
	assert.Equal(t, tensor.Shape{2, 3}, n.BroadcastShape())

	require.NoError(t, autodiff.Must(c.Sum()).Backward())
	assert.Equal(t, tensor.Shape{3}, a.Grad().Shape())
	assert.Equal(t, []float64{2, 2, 2}, a.Grad().Data())
	assert.Equal(t, []float64{1, 1, 1, 1, 1, 1}, b.Grad().Data())
}

func TestBackward_BroadcastKeepDims(t *testing.T) {
	g := autodiff.New()
	col := newTensor(t, g, [][]float64{{1}, {2}}, autodiff.WithGrad())
	m := newTensor(t, g, [][]float64{{1, 2, 3}, {4, 5, 6}})

	prod := autodiff.Must(col.Mul(m))
	require.NoError(t, prod.Backward())
	assert.Equal(t, tensor.Shape{2, 1}, col.Grad().Shape())
	assert.Equal(t, []float64{6, 15}, col.Grad().Data())
}

func TestBackward_ScalarConstant(t *testing.T) {
	g := autodiff.New()
	x := newTensor(t, g, []float64{1, 2, 3}, autodiff.WithGrad())

	y := autodiff.Must(g.Sub(1, x))
	require.NoError(t, y.Backward())
	assert.Equal(t, []float64{0, -1, -2}, y.Data().Data())
	assert.Equal(t, []float64{-1, -1, -1}, x.Grad().Data())
}

func TestBackward_DotIdentity(t *testing.T) {
	g := autodiff.New()
	a := newTensor(t, g, [][]float64{{1, 2}, {3, 4}}, autodiff.WithGrad())
	eye := newTensor(t, g, [][]float64{{1, 0}, {0, 1}}, autodiff.WithGrad())

	out := autodiff.Must(a.Dot(eye))
	assert.True(t, out.Data().Equal(a.Data()))

	require.NoError(t, out.Backward())
	assert.Equal(t, []float64{1, 1, 1, 1}, a.Grad().Data())
	assert.Equal(t, []float64{4, 4, 6, 6}, eye.Grad().Data())
}

func TestBackward_Accumulates(t *testing.T) {
	g := autodiff.New()
	x := newTensor(t, g, 2.0, autodiff.WithGrad())
	y := autodiff.Must(x.Mul(x))

	require.NoError(t, y.Backward())
	require.NoError(t, y.Backward())
	assert.Equal(t, 8.0, x.Grad().Item(), "gradients add up across calls")

	x.ZeroGrad()
	y.ZeroGrad()
	require.NoError(t, y.Backward())
	assert.Equal(t, 4.0, x.Grad().Item())
}

func TestBackwardWith_Seed(t *testing.T) {
	g := autodiff.New()
	x := newTensor(t, g, []float64{1, 2}, autodiff.WithGrad())
	y := autodiff.Must(x.Mul(3))

	require.NoError(t, y.BackwardWith([]float64{1, 10}))
	assert.Equal(t, []float64{3, 30}, x.Grad().Data())

	x.ZeroGrad()
	require.NoError(t, y.BackwardWith(2.0), "seed broadcasts to the tensor shape")
	assert.Equal(t, []float64{6, 6}, x.Grad().Data())

	err := y.BackwardWith([]float64{1, 2, 3})
	assert.True(t, errors.Is(err, tensor.ErrShapeMismatch))
}

func TestBackward_Leaf(t *testing.T) {
	g := autodiff.New()
	x := newTensor(t, g, []float64{1, 2}, autodiff.WithGrad())
	require.NoError(t, x.Backward())
	assert.Equal(t, []float64{1, 1}, x.Grad().Data())
}

func TestBackward_DisconnectedSubgraph(t *testing.T) {
	g := autodiff.New()
	x := newTensor(t, g, 2.0, autodiff.WithGrad())
	y := newTensor(t, g, 5.0, autodiff.WithGrad())

	a := autodiff.Must(x.Mul(4))
	b := autodiff.Must(y.Exp())
	_ = b

	require.NoError(t, a.Backward())
	assert.Equal(t, 4.0, x.Grad().Item())
	assert.Equal(t, 0.0, y.Grad().Item())
}

func TestBackward_OffPathConsumer(t *testing.T) {
	g := autodiff.New()
	x := newTensor(t, g, 2.0, autodiff.WithGrad())
	y := autodiff.Must(x.Mul(x))
	z := autodiff.Must(y.Mul(10)) // consumer of y, not on the path from y

	require.NoError(t, y.Backward())
	assert.Equal(t, 4.0, x.Grad().Item())
	assert.Equal(t, 0.0, z.Grad().Item())
	assert.Equal(t, 1.0, y.Grad().Item())
}

func TestBackward_IndependentSecondCall(t *testing.T) {
	g := autodiff.New()
	x := newTensor(t, g, 3.0, autodiff.WithGrad())
	y := autodiff.Must(x.Mul(2))
	z := autodiff.Must(x.Mul(5))

	require.NoError(t, y.Backward())
	assert.Equal(t, 2.0, x.Grad().Item())
	require.NoError(t, z.Backward())
	assert.Equal(t, 7.0, x.Grad().Item())

	for id := 0; id < g.Len(); id++ {
		assert.False(t, g.Node(autodiff.NodeID(id)).Visited(), "markers are cleared after backward")
	}
}

func TestConstants_NoNode(t *testing.T) {
	g := autodiff.New()
	a := newTensor(t, g, []float64{1, 2})
	b := autodiff.Must(a.Mul(a))

	assert.False(t, b.RequiresGrad())
	_, ok := b.Node()
	assert.False(t, ok)
	assert.Equal(t, 0, g.Len())
}

func TestNodeLinks(t *testing.T) {
	g := autodiff.New()
	w := newTensor(t, g, []float64{1, 2}, autodiff.WithGrad())
	c := newTensor(t, g, []float64{3, 4})

	out := autodiff.Must(c.Mul(w))
	n, ok := out.Node()
	require.True(t, ok)
	wn, ok := w.Node()
	require.True(t, ok)

	assert.False(t, n.IsLeaf())
	kind, ok := n.Kind()
	assert.True(t, ok)
	assert.Equal(t, ops.Mul, kind)
	assert.Equal(t, []autodiff.NodeID{wn.ID()}, n.Parents())
	assert.Equal(t, []autodiff.NodeID{autodiff.NoNode, wn.ID()}, n.Inputs())
	assert.Equal(t, []autodiff.NodeID{n.ID()}, wn.Children())
	assert.True(t, wn.IsLeaf())
	assert.Same(t, w, wn.Tensor())
	assert.Equal(t, 2, g.Len())
}

func TestNoTrack(t *testing.T) {
	g := autodiff.New()
	x := newTensor(t, g, []float64{1, 2}, autodiff.WithGrad())

	var y *autodiff.Tensor
	err := g.NoTrack(func() error {
		assert.False(t, g.Tracking())
		var err error
		y, err = x.Mul(2)
		return err
	})
	require.NoError(t, err)
	assert.True(t, g.Tracking())
	assert.True(t, y.RequiresGrad(), "requires-grad still propagates")
	_, ok := y.Node()
	assert.False(t, ok)
	assert.Equal(t, 0, g.Len())

	require.NoError(t, y.Backward())
	assert.Equal(t, []float64{0, 0}, x.Grad().Data())
}

func TestNoTrack_RestoresState(t *testing.T) {
	g := autodiff.New()
	x := newTensor(t, g, []float64{1, 2}, autodiff.WithGrad())

	err := g.NoTrack(func() error {
		_, err := x.Add([]float64{1, 2, 3})
		return err
	})
	assert.True(t, errors.Is(err, tensor.ErrShapeMismatch))
	assert.True(t, g.Tracking())

	assert.Panics(t, func() {
		_ = g.NoTrack(func() error { panic("boom") })
	})
	assert.True(t, g.Tracking())

	off := autodiff.NewGraph(autodiff.Config{})
	require.NoError(t, off.NoTrack(func() error { return nil }))
	assert.False(t, off.Tracking(), "nested disabled state is preserved")
}

func TestNoTrack_Nested(t *testing.T) {
	g := autodiff.New()
	err := g.NoTrack(func() error {
		return g.NoTrack(func() error {
			assert.False(t, g.Tracking())
			return nil
		})
	})
	require.NoError(t, err)
	assert.True(t, g.Tracking())
}

func TestFailedForward_RegistersNothing(t *testing.T) {
	g := autodiff.New()
	a := newTensor(t, g, []float64{1, 2, 3}, autodiff.WithGrad())
	b := newTensor(t, g, []float64{1, 2}, autodiff.WithGrad())

	_, err := a.Add(b)
	require.Error(t, err)
	assert.True(t, errors.Is(err, tensor.ErrShapeMismatch))
	assert.Contains(t, err.Error(), "shapes cannot be combined")
	assert.Equal(t, 0, g.Len())

	_, err = a.Dot(newTensor(t, g, [][][]float64{{{1}}}))
	assert.True(t, errors.Is(err, tensor.ErrDimension))
	assert.Equal(t, 0, g.Len())
}

func TestOperandErrors(t *testing.T) {
	g := autodiff.New()
	x := newTensor(t, g, 1.0, autodiff.WithGrad())

	other := newTensor(t, autodiff.New(), 1.0)
	_, err := x.Add(other)
	assert.True(t, errors.Is(err, autodiff.ErrGraphMismatch))

	var nilTensor *autodiff.Tensor
	_, err = x.Mul(nilTensor)
	assert.True(t, errors.Is(err, autodiff.ErrNilTensor))

	_, err = x.Mul("two")
	assert.True(t, errors.Is(err, tensor.ErrUnsupportedData))
	assert.Equal(t, 0, g.Len())
}

func TestMust(t *testing.T) {
	g := autodiff.New()
	x := newTensor(t, g, []float64{1, 2})
	assert.Same(t, x, autodiff.Must(x, nil))
	assert.Panics(t, func() { autodiff.Must(x.Add([]float64{1, 2, 3})) })
}

func TestClear(t *testing.T) {
	g := autodiff.New()
	x := newTensor(t, g, 2.0, autodiff.WithGrad())
	y := autodiff.Must(x.Mul(x))
	require.Equal(t, 2, g.Len())

	g.Clear()
	assert.Equal(t, 0, g.Len())
	_, ok := y.Node()
	assert.False(t, ok, "stale references are invalidated")
	assert.Equal(t, 4.0, y.Item())

	// x rejoins the fresh graph as a new leaf.
	z := autodiff.Must(x.Mul(3))
	require.NoError(t, z.Backward())
	assert.Equal(t, 3.0, x.Grad().Item())
	assert.Equal(t, 2, g.Len())
}

func TestClear_PerIteration(t *testing.T) {
	g := autodiff.New()
	w := newTensor(t, g, 2.0, autodiff.WithGrad())

	for range 3 {
		w.ZeroGrad()
		require.NoError(t, autodiff.Must(w.Mul(3)).Backward())
		assert.Equal(t, 3.0, w.Grad().Item())
	}
	n, ok := w.Node()
	require.True(t, ok)
	assert.Len(t, n.Children(), 3, "an uncleared leaf keeps every step's consumer")
	assert.Equal(t, 4, g.Len())

	g.Clear()
	for range 3 {
		w.ZeroGrad()
		require.NoError(t, autodiff.Must(w.Mul(3)).Backward())
		assert.Equal(t, 3.0, w.Grad().Item())
		assert.Equal(t, 2, g.Len())
		g.Clear()
	}
}

func TestSetGrad(t *testing.T) {
	g := autodiff.New()
	x := newTensor(t, g, []float64{1, 2}, autodiff.WithGrad())

	require.NoError(t, x.SetGrad([]float64{5, 6}))
	assert.Equal(t, []float64{5, 6}, x.Grad().Data())

	err := x.SetGrad([]float64{1})
	assert.True(t, errors.Is(err, tensor.ErrShapeMismatch))
}

func TestDetach(t *testing.T) {
	g := autodiff.New()
	x := newTensor(t, g, []float64{1, 2}, autodiff.WithGrad())
	y := autodiff.Must(x.Mul(2))

	d := y.Detach()
	assert.False(t, d.RequiresGrad())
	assert.Same(t, y.Data(), d.Data())
	_, ok := d.Node()
	assert.False(t, ok)
}

func TestSumAxis_Backward(t *testing.T) {
	g := autodiff.New()
	x := newTensor(t, g, [][]float64{{1, 2, 3}, {4, 5, 6}}, autodiff.WithGrad())

	s := autodiff.Must(x.SumAxis(1))
	assert.Equal(t, []float64{6, 15}, s.Data().Data())
	require.NoError(t, s.BackwardWith([]float64{1, 2}))
	assert.Equal(t, []float64{1, 1, 1, 2, 2, 2}, x.Grad().Data())

	_, err := x.SumAxis(2)
	assert.True(t, errors.Is(err, tensor.ErrDimension))
}

func TestTranspose_Backward(t *testing.T) {
	g := autodiff.New()
	x := newTensor(t, g, [][]float64{{1, 2, 3}, {4, 5, 6}}, autodiff.WithGrad())
	w := newTensor(t, g, [][]float64{{1, 2}, {3, 4}, {5, 6}})

	y := autodiff.Must(autodiff.Must(x.T()).Mul(w))
	require.NoError(t, y.Backward())
	assert.Equal(t, tensor.Shape{2, 3}, x.Grad().Shape())
	assert.Equal(t, []float64{1, 3, 5, 2, 4, 6}, x.Grad().Data())
}

func TestTranspose_AxesCopied(t *testing.T) {
	g := autodiff.New()
	x := newTensor(t, g, [][][]float64{{{1, 2}, {3, 4}, {5, 6}}}, autodiff.WithGrad())
	w := newTensor(t, g, [][][]float64{{{1}, {2}}, {{3}, {4}}, {{5}, {6}}})

	perm := []int{1, 2, 0}
	y := autodiff.Must(x.Transpose(perm...))
	require.Equal(t, tensor.Shape{3, 2, 1}, y.Shape())
	perm[0], perm[1], perm[2] = 2, 0, 1

	require.NoError(t, autodiff.Must(y.Mul(w)).Backward())
	assert.Equal(t, tensor.Shape{1, 3, 2}, x.Grad().Shape())
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, x.Grad().Data())
}

func TestConv2D_Backward(t *testing.T) {
	g := autodiff.New()
	input := newTensor(t, g, [][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}, autodiff.WithGrad())
	kernel := newTensor(t, g, [][]float64{{1, 0}, {0, -1}}, autodiff.WithGrad())

	out := autodiff.Must(g.Conv2D(input, kernel, 0, 1))
	require.NoError(t, autodiff.Must(out.Sum()).Backward())
	assert.Equal(t, []float64{12, 16, 24, 28}, kernel.Grad().Data())
	assert.Equal(t, []float64{1, 1, 0, 1, 0, -1, 0, -1, -1}, input.Grad().Data())
}

func TestIndex(t *testing.T) {
	g := autodiff.New()
	x := newTensor(t, g, [][]float64{{1, 2}, {3, 4}, {5, 6}}, autodiff.WithGrad())

	row, err := x.Index(1)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 4}, row.Data().Data())
	assert.True(t, row.RequiresGrad())
	_, ok := row.Node()
	assert.False(t, ok, "indexing is not tracked")

	last, err := x.Index(-1)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 6}, last.Data().Data())

	tail, err := x.Index(autodiff.Range{Start: 1, Stop: autodiff.End})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 2}, tail.Shape())

	from, err := x.Index(autodiff.From(1))
	require.NoError(t, err)
	assert.True(t, from.Data().Equal(tail.Data()))

	_, err = x.Index(autodiff.Range{Start: 1})
	assert.True(t, errors.Is(err, tensor.ErrIndexOutOfRange), "Stop must be set")

	even, err := x.Index(autodiff.Range{Stop: autodiff.End, Step: 2})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 5, 6}, even.Data().Data())

	_, err = x.Index(3)
	assert.True(t, errors.Is(err, tensor.ErrIndexOutOfRange))

	_, err = x.Index("a")
	assert.True(t, errors.Is(err, autodiff.ErrUnsupportedIndex))
	_, err = x.Index(1.5)
	assert.True(t, errors.Is(err, autodiff.ErrUnsupportedIndex))
}

func TestTensor_String(t *testing.T) {
	g := autodiff.New()
	x := newTensor(t, g, []float64{1, 2}, autodiff.WithGrad())
	assert.Equal(t, "Tensor([1 2], requiresGrad=true)", x.String())
}
