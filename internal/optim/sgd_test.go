package optim_test

import (
	"testing"

	"github.com/born-ml/gradgraph/internal/autodiff"
	"github.com/born-ml/gradgraph/internal/optim"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSGD_SimpleUpdate(t *testing.T) {
	g := autodiff.New()
	w := autodiff.Must(g.NewTensor([]float64{1, 2}, autodiff.WithGrad()))
	require.NoError(t, w.SetGrad([]float64{0.5, 1}))
	before := g.Len()
	old := w

	opt := optim.NewSGD([]**autodiff.Tensor{&w}, optim.SGDConfig{LR: 0.1})
	require.NoError(t, opt.Step())

	assert.NotSame(t, old, w, "parameters are replaced")
	assert.InDeltaSlice(t, []float64{0.95, 1.9}, w.Data().Data(), 1e-12)
	assert.True(t, w.RequiresGrad())
	assert.Equal(t, []float64{0, 0}, w.Grad().Data())
	_, ok := w.Node()
	assert.False(t, ok, "the update is not tracked")
	assert.Equal(t, before, g.Len())
	assert.True(t, g.Tracking())
}

func TestSGD_WithMomentum(t *testing.T) {
	g := autodiff.New()
	x := autodiff.Must(g.NewTensor(1.0, autodiff.WithGrad()))
	opt := optim.NewSGD([]**autodiff.Tensor{&x}, optim.SGDConfig{LR: 0.1, Momentum: 0.9})

	require.NoError(t, x.SetGrad(1.0))
	require.NoError(t, opt.Step())
	assert.InDelta(t, 0.9, x.Item(), 1e-12)

	// velocity = 0.9·1 + 1
	require.NoError(t, x.SetGrad(1.0))
	require.NoError(t, opt.Step())
	assert.InDelta(t, 0.71, x.Item(), 1e-12)
}

func TestSGD_ZeroGrad(t *testing.T) {
	g := autodiff.New()
	a := autodiff.Must(g.NewTensor([]float64{1, 2}, autodiff.WithGrad()))
	b := autodiff.Must(g.NewTensor(3.0, autodiff.WithGrad()))
	require.NoError(t, autodiff.Must(autodiff.Must(a.Mul(b)).Sum()).Backward())
	require.NotEqual(t, 0.0, b.Grad().Item())

	opt := optim.NewSGD([]**autodiff.Tensor{&a, &b}, optim.SGDConfig{})
	opt.ZeroGrad()
	assert.Equal(t, []float64{0, 0}, a.Grad().Data())
	assert.Equal(t, 0.0, b.Grad().Item())
}

func TestSGD_LR(t *testing.T) {
	opt := optim.NewSGD(nil, optim.SGDConfig{})
	assert.Equal(t, 0.01, opt.LR())
	opt.SetLR(0.5)
	assert.Equal(t, 0.5, opt.LR())
	assert.NoError(t, opt.Step())
}

func TestSGD_NilParameter(t *testing.T) {
	var w *autodiff.Tensor
	opt := optim.NewSGD([]**autodiff.Tensor{&w}, optim.SGDConfig{LR: 0.1})
	err := opt.Step()
	assert.True(t, errors.Is(err, autodiff.ErrNilTensor))
}

func TestSGD_Converges(t *testing.T) {
	g := autodiff.New()
	w := autodiff.Must(g.NewTensor(0.0, autodiff.WithGrad()))
	opt := optim.NewSGD([]**autodiff.Tensor{&w}, optim.SGDConfig{LR: 0.1, Momentum: 0.5})

	for range 100 {
		loss := autodiff.Must(autodiff.Must(w.Sub(3)).Pow(2))
		require.NoError(t, loss.Backward())
		require.NoError(t, opt.Step())
		g.Clear()
		assert.Equal(t, 0, g.Len())
	}
	assert.InDelta(t, 3.0, w.Item(), 1e-6)
}
