// Package optim implements gradient-based optimizers for scalar parameters.
//
// This package provides:
//   - Optimizer interface: Base interface for all optimizers
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation
//
// Graph nodes are immutable, so parameters live in a plain []float64 owned by
// the caller. Each iteration rebuilds the graph from the current parameters,
// differentiates it, and hands the gradients to Step.
//
// Example usage:
//
//	params := []float64{0.5, 0.3}
//	opt := optim.NewAdam(params, optim.AdamConfig{LR: 0.05})
//
//	for step := 0; step < steps; step++ {
//	    g := graph.New()
//	    loss, leaves := buildLoss(g, params)
//
//	    s := autodiff.NewSession()
//	    if err := s.ComputeGradients(loss); err != nil {
//	        return err
//	    }
//	    opt.Step(optim.Gradients(s, leaves))
//	    g.Reset()
//	}
package optim

import (
	"github.com/born-ml/scalargrad/internal/autodiff"
	"github.com/born-ml/scalargrad/internal/graph"
)

// Optimizer is the base interface for all optimization algorithms.
type Optimizer interface {
	// Step applies one update to the parameters given their gradients.
	// grads[i] is the gradient for params[i]; extra entries are ignored.
	Step(grads []float64)

	// GetLR returns the current learning rate.
	GetLR() float64

	// SetLR updates the learning rate, e.g. for scheduling.
	SetLR(lr float64)
}

// Gradients returns the session's gradient for each parameter node, in order.
// Parameters that received no gradient report zero.
func Gradients(s *autodiff.Session, params []*graph.Node) []float64 {
	grads := make([]float64, len(params))
	for i, p := range params {
		grads[i], _ = s.GradientOf(p)
	}
	return grads
}
