package optim_test

import (
	"fmt"

	"github.com/born-ml/gradgraph/autodiff"
	"github.com/born-ml/gradgraph/nn"
	"github.com/born-ml/gradgraph/optim"
)

func ExampleNewSGD() {
	g := autodiff.New()
	w, _ := g.NewTensor(0.0, autodiff.WithGrad())
	mse := nn.NewMSELoss()
	opt := optim.NewSGD([]**autodiff.Tensor{&w}, optim.SGDConfig{LR: 0.5})

	for range 20 {
		loss, _ := mse.Forward(w, 3.0)
		_ = loss.Backward()
		_ = opt.Step()
		g.Clear()
	}
	fmt.Printf("w = %.3f, nodes = %d\n", w.Item(), g.Len())
	// Output: w = 3.000, nodes = 0
}
