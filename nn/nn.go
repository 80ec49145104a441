// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides loss functions for training with autodiff graphs.
package nn

import (
	"github.com/born-ml/gradgraph/internal/nn"
)

// Loss reduces outputs and targets to a scalar tensor.
type Loss = nn.Loss

// MSELoss is the halved mean squared error.
type MSELoss = nn.MSELoss

// BCELoss is binary cross entropy over probabilities.
type BCELoss = nn.BCELoss

// DefaultEpsilon is the BCELoss epsilon used by NewBCELoss.
const DefaultEpsilon = nn.DefaultEpsilon

// NewMSELoss creates a mean squared error loss.
//
// Example:
//
//	loss, err := nn.NewMSELoss().Forward(pred, targets)
func NewMSELoss() *MSELoss {
	return nn.NewMSELoss()
}

// NewBCELoss creates a binary cross entropy loss.
func NewBCELoss() *BCELoss {
	return nn.NewBCELoss()
}
