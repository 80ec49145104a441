// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimizers for autodiff parameters.
package optim

import (
	"github.com/born-ml/gradgraph/autodiff"
	"github.com/born-ml/gradgraph/internal/optim"
)

// Optimizer is the common interface for all optimizers.
type Optimizer = optim.Optimizer

// SGD is stochastic gradient descent with optional momentum.
type SGD = optim.SGD

// SGDConfig contains configuration for SGD.
type SGDConfig = optim.SGDConfig

// NewSGD creates an SGD optimizer. Each step replaces *params[i].
//
// Example:
//
//	opt := optim.NewSGD([]**autodiff.Tensor{&w, &b}, optim.SGDConfig{
//	    LR:       0.01,
//	    Momentum: 0.9,
//	})
func NewSGD(params []**autodiff.Tensor, config SGDConfig) *SGD {
	return optim.NewSGD(params, config)
}
