package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/born-ml/scalargrad/internal/autodiff"
	"github.com/born-ml/scalargrad/internal/graph"
)

// buildDemo builds sigmoid((a+b)*(b+c)) with every node trainable except the output.
func buildDemo(g *graph.Graph, in []float64) (*graph.Node, []*graph.Node) {
	a := g.Leaf(in[0], true)
	b := g.Leaf(in[1], true)
	c := g.Leaf(in[2], true)
	p := g.Add(a, b)
	r := g.Add(b, c)
	m := g.Mul(p, r)
	for _, n := range []*graph.Node{p, r, m} {
		n.SetTrainable(true)
	}
	return g.Sigmoid(m), []*graph.Node{a, b, c}
}

func newDemoCmd(opts *options) *cobra.Command {
	var a, b, c float64

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Differentiate sigmoid((a+b)*(b+c)) and print every gradient",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := opts.cfg.Demo
			if cmd.Flags().Changed("a") {
				in.A = a
			}
			if cmd.Flags().Changed("b") {
				in.B = b
			}
			if cmd.Flags().Changed("c") {
				in.C = c
			}
			return opts.runDemo(cmd.OutOrStdout(), []float64{in.A, in.B, in.C})
		},
	}

	cmd.Flags().Float64Var(&a, "a", 0, "value of leaf a (default from config)")
	cmd.Flags().Float64Var(&b, "b", 0, "value of leaf b (default from config)")
	cmd.Flags().Float64Var(&c, "c", 0, "value of leaf c (default from config)")
	return cmd
}

func (o *options) runDemo(w io.Writer, inputs []float64) error {
	g := graph.New()
	out, _ := buildDemo(g, inputs)
	defer g.Release(out)

	s := autodiff.NewSession(o.sessionOptions()...)
	if err := s.ComputeGradients(out); err != nil {
		return fmt.Errorf("demo: %w", err)
	}

	fmt.Fprintf(w, "output: %.6f\n\n", out.Value())
	printGradients(w, s, g)

	st := s.Stats()
	o.logger.Info("demo finished",
		"session", s.ID(),
		"nodes", st.NodesVisited,
		"edges", st.EdgesVisited,
		"entries", st.Entries)

	return o.flushMetrics(w)
}

// printGradients writes one row per node of g in id order.
func printGradients(w io.Writer, s *autodiff.Session, g *graph.Graph) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tOP\tVALUE\tTRAINABLE\tGRADIENT")
	for id := 0; id < g.Len(); id++ {
		n := g.Node(graph.NodeID(id))
		grad := "-"
		if v, ok := s.GradientOf(n); ok {
			grad = fmt.Sprintf("%.6f", v)
		}
		fmt.Fprintf(tw, "%d\t%s\t%.6f\t%t\t%s\n", n.ID(), n.Op(), n.Value(), n.Trainable(), grad)
	}
	tw.Flush()
}
