// Package optim implements gradient-based parameter updates.
//
// Parameters are held as **autodiff.Tensor: tensors are immutable, so a step
// replaces each parameter with its updated value. The replacement keeps
// RequiresGrad and starts with a zero gradient.
//
// Example:
//
//	opt := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.1})
//	for epoch := range epochs {
//	    loss, _ := lossFn.Forward(model.Forward(x), y)
//	    _ = loss.Backward()
//	    _ = opt.Step()
//	    g.Clear()
//	}
package optim

// Optimizer updates a fixed set of parameters from their gradients.
type Optimizer interface {
	// Step applies one update to every parameter.
	Step() error

	// ZeroGrad resets every parameter's gradient.
	ZeroGrad()

	// LR returns the current learning rate.
	LR() float64
}
