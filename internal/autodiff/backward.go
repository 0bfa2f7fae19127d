package autodiff

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/born-ml/scalargrad/internal/graph"
)

// ComputeGradients differentiates every root with respect to the trainable
// nodes upstream of it and accumulates the results into the session.
//
// Algorithm:
//  1. Depth-first post-order walk from all roots over a shared visited set,
//     following only edges into trainable nodes. Roots are always expanded.
//  2. Seed each root with a path value of 1.
//  3. Walk the post-order backwards (a topological order, parents first) and
//     visit each node once: its path value is its seed plus everything its
//     parents contributed. Each edge into a trainable child adds
//     path * local derivative to that child's entry.
//
// Because every node is expanded only after all of its parents, fan-in
// contributions are summed before they propagate further, independent of the
// order of roots or children.
//
// Untrainable nodes receive no entry and stop traversal. A root receives an
// entry only when another root reaches it through an edge. Repeated calls add
// into the existing entries.
//
// If the bound graph has been Reset since the last call, the previous entries
// and roots are discarded before accumulating.
//
// A nil session or an empty root list is a no-op. Nil roots are skipped.
func (s *Session) ComputeGradients(roots ...*graph.Node) error {
	if s == nil {
		return nil
	}

	live := make([]*graph.Node, 0, len(roots))
	for _, r := range roots {
		if r != nil {
			live = append(live, r)
		}
	}
	if len(live) == 0 {
		return nil
	}

	start := time.Now()
	if err := s.bind(live); err != nil {
		s.notify(CallStats{Roots: len(live), Duration: time.Since(start)}, err)
		return err
	}

	s.roots = append(s.roots, live...)
	order := topoOrder(s.graph, live)
	call := s.accumulate(order, live)
	call.Duration = time.Since(start)

	s.stats.Calls++
	s.stats.Roots += call.Roots
	s.stats.NodesVisited += call.Nodes
	s.stats.EdgesVisited += call.Edges

	s.logger.Debug("gradients computed",
		slog.String("session", s.ID()),
		slog.Int("roots", call.Roots),
		slog.Int("nodes", call.Nodes),
		slog.Int("edges", call.Edges),
		slog.Int("new_entries", call.NewEntries),
		slog.Duration("duration", call.Duration))
	s.notify(call, nil)

	return nil
}

// bind validates roots and sizes the accumulator for the graph.
func (s *Session) bind(roots []*graph.Node) error {
	g := s.graph
	if g == nil {
		g = roots[0].Graph()
	}
	for _, r := range roots {
		if r.Graph() != g {
			return fmt.Errorf("compute gradients: root %d: %w", r.ID(), ErrGraphMismatch)
		}
		if r.Released() {
			return fmt.Errorf("compute gradients: root %d: %w", r.ID(), ErrReleasedNode)
		}
	}

	if s.graph == g && s.generation != g.Generation() {
		s.logger.Debug("graph reset, discarding gradients",
			slog.String("session", s.ID()),
			slog.Int("entries", len(s.touched)))
		s.clearEntries()
	}

	s.graph = g
	s.generation = g.Generation()
	if n := g.Len(); n > len(s.grads) {
		s.grads = append(s.grads, make([]float64, n-len(s.grads))...)
		s.present = append(s.present, make([]bool, n-len(s.present))...)
	}
	return nil
}

// topoOrder returns the nodes reachable from roots through trainable children
// in DFS post-order: every node appears after all of its reachable children.
func topoOrder(g *graph.Graph, roots []*graph.Node) []*graph.Node {
	visited := make([]bool, g.Len())
	order := make([]*graph.Node, 0, g.Len())

	var build func(n *graph.Node)
	build = func(n *graph.Node) {
		if visited[n.ID()] {
			return
		}
		visited[n.ID()] = true
		for i := 0; i < n.NumChildren(); i++ {
			if c, _ := n.Child(i); c.Trainable() {
				build(c)
			}
		}
		order = append(order, n)
	}

	for _, r := range roots {
		build(r)
	}
	return order
}

// accumulate walks order from its end and pushes path values to children.
func (s *Session) accumulate(order, roots []*graph.Node) CallStats {
	call := CallStats{Roots: len(roots)}
	debug := s.logger.Enabled(context.Background(), slog.LevelDebug)

	path := make([]float64, s.graph.Len())
	for _, r := range roots {
		path[r.ID()]++
	}

	for i := len(order) - 1; i >= 0; i-- {
		n := order[i]
		pv := path[n.ID()]
		call.Nodes++

		for j := 0; j < n.NumChildren(); j++ {
			c, local := n.Child(j)
			call.Edges++
			if !c.Trainable() {
				continue
			}

			contribution := pv * local
			path[c.ID()] += contribution
			if s.add(c, contribution) {
				call.NewEntries++
			}

			if debug {
				s.logger.Debug("gradient contribution",
					slog.String("session", s.ID()),
					slog.Int("parent", int(n.ID())),
					slog.Int("child", int(c.ID())),
					slog.Float64("contribution", contribution),
					slog.Float64("total", s.grads[c.ID()]))
			}
		}
	}

	return call
}

// add folds a contribution into n's entry and reports whether it created one.
func (s *Session) add(n *graph.Node, contribution float64) bool {
	id := n.ID()
	if s.present[id] {
		s.grads[id] += contribution
		return false
	}
	s.present[id] = true
	s.grads[id] = contribution
	s.touched = append(s.touched, n)
	return true
}

func (s *Session) notify(call CallStats, err error) {
	if s.observer != nil {
		s.observer.ObserveCompute(s.ID(), call, err)
	}
}
