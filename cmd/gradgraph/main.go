// Package main provides the gradgraph CLI.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/born-ml/gradgraph/autodiff"
	"github.com/born-ml/gradgraph/nn"
	"github.com/born-ml/gradgraph/optim"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

const version = "v0.0.1-dev"

func main() {
	ctx := context.Background()
	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	klog.InitFlags(nil)
	steps := flag.Int("steps", 50, "gradient descent steps for the fit demo")
	lr := flag.Float64("lr", 0.1, "learning rate for the fit demo")
	flag.Parse()

	log := klog.FromContext(ctx)

	switch cmd := flag.Arg(0); cmd {
	case "version":
		fmt.Printf("gradgraph %s\n", version)
		return nil
	case "demo":
		return demo()
	case "fit":
		log.Info("Fitting line", "steps", *steps, "lr", *lr)
		return fit(*steps, *lr)
	case "":
		usage()
		return nil
	default:
		usage()
		return errors.Errorf("unknown command %q", cmd)
	}
}

func usage() {
	fmt.Println("gradgraph - reverse-mode automatic differentiation")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  demo       Print gradients of a diamond graph and a broadcast sum")
	fmt.Println("  fit        Fit y = 2x + 1 with SGD on a mean squared error (-steps, -lr)")
}

func demo() error {
	g := autodiff.New()

	x, err := g.NewTensor(3.0, autodiff.WithGrad())
	if err != nil {
		return err
	}
	y, err := x.Add(x)
	if err != nil {
		return err
	}
	z, err := y.Mul(y)
	if err != nil {
		return err
	}
	if err := z.Backward(); err != nil {
		return err
	}
	fmt.Printf("z = (x + x)^2 at x = 3: z = %v, dz/dx = %v\n", z.Data(), x.Grad())

	a, err := g.NewTensor([]float64{1, 1, 1}, autodiff.WithGrad())
	if err != nil {
		return err
	}
	b, err := g.NewTensor([][]float64{{1, 2, 3}, {4, 5, 6}}, autodiff.WithGrad())
	if err != nil {
		return err
	}
	sum, err := a.Add(b)
	if err != nil {
		return err
	}
	total, err := sum.Sum()
	if err != nil {
		return err
	}
	if err := total.Backward(); err != nil {
		return err
	}
	fmt.Printf("sum(a + b) with a %v, b %v: da = %v, db = %v\n", a.Shape(), b.Shape(), a.Grad(), b.Grad())
	return nil
}

// fit runs plain gradient descent on a mean squared error. The graph is
// cleared after every step.
func fit(steps int, lr float64) error {
	g := autodiff.New()
	xs := []float64{0, 1, 2, 3, 4}
	ys := []float64{1, 3, 5, 7, 9}

	w := autodiff.Must(g.NewTensor(0.0, autodiff.WithGrad()))
	b := autodiff.Must(g.NewTensor(0.0, autodiff.WithGrad()))
	mse := nn.NewMSELoss()
	opt := optim.NewSGD([]**autodiff.Tensor{&w, &b}, optim.SGDConfig{LR: lr})

	for step := 0; step < steps; step++ {
		pred, err := g.Add(autodiff.Must(w.Mul(xs)), b)
		if err != nil {
			return err
		}
		loss, err := mse.Forward(pred, ys)
		if err != nil {
			return err
		}
		if err := loss.Backward(); err != nil {
			return errors.Wrapf(err, "step %d", step)
		}
		if err := opt.Step(); err != nil {
			return errors.Wrapf(err, "step %d", step)
		}
		g.Clear()
		klog.V(2).InfoS("Step", "step", step, "loss", loss.Item(), "w", w.Item(), "b", b.Item())
	}
	fmt.Printf("w = %.4f, b = %.4f\n", w.Item(), b.Item())
	return nil
}
