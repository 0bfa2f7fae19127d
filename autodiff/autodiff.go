// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides reverse-mode automatic differentiation for scalar
// computation graphs.
//
// Expressions are built on a Graph arena. Interior nodes whose gradients must
// be kept are marked trainable, then a Session accumulates gradients from one
// or more roots. Contributions that reach a node along several paths are
// summed before they propagate further.
//
// Example:
//
//	import "github.com/born-ml/scalargrad/autodiff"
//
//	func main() {
//	    g := autodiff.NewGraph()
//	    a := g.Leaf(0.5, true)
//	    b := g.Leaf(0.3, true)
//	    p := g.Add(a, b)
//	    p.SetTrainable(true)
//	    out := g.Sigmoid(g.Mul(p, b))
//
//	    s := autodiff.NewSession()
//	    if err := s.ComputeGradients(out); err != nil {
//	        log.Fatal(err)
//	    }
//	    grad, _ := s.GradientOf(b) // both paths through b are summed
//
//	    g.Release(out)
//	}
package autodiff

import (
	"log/slog"

	"github.com/born-ml/scalargrad/internal/autodiff"
	"github.com/born-ml/scalargrad/internal/graph"
)

// Graph is the node arena and operation builder.
type Graph = graph.Graph

// Node is a scalar value with its construction history.
type Node = graph.Node

// NodeID identifies a node within its graph.
type NodeID = graph.NodeID

// Session accumulates gradients for one multi-root differentiation.
type Session = autodiff.Session

// Stats summarizes a session's work.
type Stats = autodiff.Stats

// CallStats describes a single ComputeGradients call.
type CallStats = autodiff.CallStats

// Observer receives per-call statistics.
type Observer = autodiff.Observer

// Option configures a Session.
type Option = autodiff.Option

// BuildFunc builds an expression for gradient checking.
type BuildFunc = autodiff.BuildFunc

// CheckOptions controls CheckGradients.
type CheckOptions = autodiff.CheckOptions

// CheckReport holds analytic and numerical gradients per input.
type CheckReport = autodiff.CheckReport

// Errors returned by sessions and gradient checks.
var (
	ErrGraphMismatch    = autodiff.ErrGraphMismatch
	ErrReleasedNode     = autodiff.ErrReleasedNode
	ErrGradientMismatch = autodiff.ErrGradientMismatch
	ErrInvalidEpsilon   = autodiff.ErrInvalidEpsilon
	ErrLeafCount        = autodiff.ErrLeafCount
)

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return graph.New()
}

// NewSession creates an empty differentiation session.
func NewSession(opts ...Option) *Session {
	return autodiff.NewSession(opts...)
}

// WithLogger sets the logger used for debug traces.
func WithLogger(logger *slog.Logger) Option {
	return autodiff.WithLogger(logger)
}

// WithObserver registers a per-call statistics observer.
func WithObserver(o Observer) Option {
	return autodiff.WithObserver(o)
}

// DefaultCheckOptions returns default gradient check options.
func DefaultCheckOptions() CheckOptions {
	return autodiff.DefaultCheckOptions()
}

// CheckGradients compares analytic gradients of build's output with central
// differences.
func CheckGradients(build BuildFunc, inputs []float64, opts CheckOptions) (CheckReport, error) {
	return autodiff.CheckGradients(build, inputs, opts)
}

// NumericalGradient computes df/dx at x with a central difference.
func NumericalGradient(f func(float64) float64, x, eps float64) float64 {
	return autodiff.NumericalGradient(f, x, eps)
}
