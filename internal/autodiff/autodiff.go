// Package autodiff implements reverse-mode automatic differentiation over the
// scalar DAGs built by package graph.
//
// Architecture:
//   - Session: per-computation state mapping reached nodes to accumulated gradients
//   - ComputeGradients: topological reverse accumulation from one or more roots
//   - Trainable boundary: only trainable nodes receive gradients and propagate them
//   - CheckGradients: finite-difference validation of analytic gradients
//
// Usage:
//
//	g := graph.New()
//	a := g.Leaf(0.5, true)
//	b := g.Leaf(0.3, true)
//	m := g.Mul(a, b)
//	m.SetTrainable(true)
//	out := g.Sigmoid(m)
//
//	s := autodiff.NewSession()
//	if err := s.ComputeGradients(out); err != nil {
//	    return err
//	}
//	grad, ok := s.GradientOf(a) // d(out)/d(a)
package autodiff

import (
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/born-ml/scalargrad/internal/graph"
)

// Session accumulates gradients for one multi-root differentiation.
//
// A session binds to the graph of the first roots it is given and never
// mutates graph nodes. It is not safe for concurrent use; independent
// sessions on disjoint graphs may run in parallel.
//
// Entries belong to the graph generation they were computed in. Once the
// bound graph is Reset, queries report no entries and the next
// ComputeGradients call starts from an empty accumulator.
//
// All methods accept a nil *Session and behave like an empty session.
type Session struct {
	id         uuid.UUID
	graph      *graph.Graph
	generation uint64 // graph.Generation() when entries were recorded
	roots      []*graph.Node
	grads      []float64     // Accumulated gradient, indexed by NodeID
	present    []bool        // Whether grads[id] holds an entry
	touched    []*graph.Node // Nodes with an entry, in first-contribution order
	stats      Stats
	logger     *slog.Logger
	observer   Observer
}

// Stats summarizes the work done by a session across all ComputeGradients calls.
type Stats struct {
	Calls        int // ComputeGradients calls that ran
	Roots        int // Roots registered
	NodesVisited int // Nodes expanded in topological order
	EdgesVisited int // Child edges inspected
	Entries      int // Distinct nodes holding a gradient
}

// NewSession creates an empty session.
func NewSession(opts ...Option) *Session {
	s := &Session{
		id:     uuid.New(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session identifier used in logs and metrics.
func (s *Session) ID() string {
	if s == nil {
		return ""
	}
	return s.id.String()
}

// Graph returns the graph the session is bound to, or nil before the first
// successful ComputeGradients call.
func (s *Session) Graph() *graph.Graph {
	if s == nil {
		return nil
	}
	return s.graph
}

// live reports whether the session holds entries for the current generation
// of its graph.
func (s *Session) live() bool {
	return s != nil && s.graph != nil && s.generation == s.graph.Generation()
}

// GradientOf returns the accumulated gradient of n and whether n has an entry.
// Nodes never reached, untrainable nodes and nodes of other graphs report false.
func (s *Session) GradientOf(n *graph.Node) (float64, bool) {
	if n == nil || !s.live() || n.Graph() != s.graph {
		return 0, false
	}
	id := int(n.ID())
	if id >= len(s.present) || !s.present[id] {
		return 0, false
	}
	return s.grads[id], true
}

// Gradients returns a snapshot of every entry keyed by node id.
func (s *Session) Gradients() map[graph.NodeID]float64 {
	if !s.live() {
		return map[graph.NodeID]float64{}
	}
	out := make(map[graph.NodeID]float64, len(s.touched))
	for _, n := range s.touched {
		out[n.ID()] = s.grads[n.ID()]
	}
	return out
}

// Touched returns the distinct nodes that received at least one contribution,
// in the order of their first contribution.
func (s *Session) Touched() []*graph.Node {
	if !s.live() {
		return nil
	}
	out := make([]*graph.Node, len(s.touched))
	copy(out, s.touched)
	return out
}

// Roots returns the registered roots in caller order.
func (s *Session) Roots() []*graph.Node {
	if !s.live() {
		return nil
	}
	out := make([]*graph.Node, len(s.roots))
	copy(out, s.roots)
	return out
}

// Stats returns cumulative counters for the session.
func (s *Session) Stats() Stats {
	if s == nil {
		return Stats{}
	}
	st := s.stats
	if s.live() {
		st.Entries = len(s.touched)
	}
	return st
}

// Reset drops every entry, root and the graph binding so the session can be
// reused, possibly on another graph.
func (s *Session) Reset() {
	if s == nil {
		return
	}
	s.graph = nil
	s.generation = 0
	s.clearEntries()
	s.stats = Stats{}
}

// clearEntries drops roots and entries but keeps the binding and counters.
func (s *Session) clearEntries() {
	s.roots = nil
	s.grads = nil
	s.present = nil
	s.touched = nil
}
