// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimization algorithms for scalar parameters.
//
// # Overview
//
// This package contains:
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation with bias correction
//   - Optimizer interface for custom optimizers
//
// # Training Loop Pattern
//
// Graph nodes are immutable, so parameters are kept in a []float64 and the
// graph is rebuilt from them on every step:
//
//	params := []float64{0.5, 0.3, 0.1}
//	optimizer := optim.NewAdam(params, optim.AdamConfig{LR: 0.05})
//
//	g := autodiff.NewGraph()
//	s := autodiff.NewSession()
//	for step := range numSteps {
//	    g.Reset()
//	    s.Reset()
//
//	    // 1. Forward pass
//	    loss, leaves := buildLoss(g, params)
//
//	    // 2. Backward pass
//	    if err := s.ComputeGradients(loss); err != nil {
//	        return err
//	    }
//
//	    // 3. Update parameters
//	    optimizer.Step(optim.Gradients(s, leaves))
//	}
package optim
