package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/born-ml/scalargrad/internal/autodiff"
	"github.com/born-ml/scalargrad/internal/config"
	"github.com/born-ml/scalargrad/internal/graph"
	"github.com/born-ml/scalargrad/internal/optim"
)

// buildLoss builds (sigmoid((a+b)*(b+c)) - target)² over params.
func buildLoss(g *graph.Graph, params []float64, target float64) (loss, out *graph.Node, leaves []*graph.Node) {
	out, leaves = buildDemo(g, params)
	out.SetTrainable(true)
	diff := g.Sub(out, g.Leaf(target, false))
	diff.SetTrainable(true)
	return g.Pow(diff, 2), out, leaves
}

func newFitCmd(opts *options) *cobra.Command {
	var (
		target, lr float64
		steps      int
		optimizer  string
	)

	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Fit the demo leaves so sigmoid((a+b)*(b+c)) reaches a target",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fc := opts.cfg.Fit
			if cmd.Flags().Changed("target") {
				fc.Target = target
			}
			if cmd.Flags().Changed("lr") {
				fc.LR = lr
			}
			if cmd.Flags().Changed("steps") {
				fc.Steps = steps
			}
			if cmd.Flags().Changed("optimizer") {
				fc.Optimizer = optimizer
			}
			if err := fc.Validate(); err != nil {
				return err
			}

			d := opts.cfg.Demo
			return opts.runFit(cmd.OutOrStdout(), []float64{d.A, d.B, d.C}, fc)
		},
	}

	cmd.Flags().Float64Var(&target, "target", 0, "target output (default from config)")
	cmd.Flags().Float64Var(&lr, "lr", 0, "learning rate (default from config)")
	cmd.Flags().IntVar(&steps, "steps", 0, "optimization steps (default from config)")
	cmd.Flags().StringVar(&optimizer, "optimizer", "", "sgd or adam (default from config)")
	return cmd
}

func newOptimizer(params []float64, fc config.FitConfig) optim.Optimizer {
	if strings.EqualFold(fc.Optimizer, "sgd") {
		return optim.NewSGD(params, optim.SGDConfig{LR: fc.LR, Momentum: fc.Momentum})
	}
	return optim.NewAdam(params, optim.AdamConfig{LR: fc.LR})
}

func (o *options) runFit(w io.Writer, params []float64, fc config.FitConfig) error {
	opt := newOptimizer(params, fc)
	g := graph.New()
	s := autodiff.NewSession(o.sessionOptions()...)
	every := max(fc.Steps/10, 1)

	var lossVal, outVal float64
	for step := 0; step < fc.Steps; step++ {
		g.Reset()
		s.Reset()

		loss, out, leaves := buildLoss(g, params, fc.Target)
		if err := s.ComputeGradients(loss); err != nil {
			return fmt.Errorf("fit step %d: %w", step, err)
		}
		lossVal, outVal = loss.Value(), out.Value()
		if step%every == 0 {
			fmt.Fprintf(w, "step %4d  loss %.6e  output %.6f\n", step, lossVal, outVal)
		}
		opt.Step(optim.Gradients(s, leaves))
	}

	fmt.Fprintf(w, "\nparams: a=%.6f b=%.6f c=%.6f\n", params[0], params[1], params[2])
	fmt.Fprintf(w, "final loss %.6e, output %.6f (target %.6f)\n", lossVal, outVal, fc.Target)
	o.logger.Info("fit finished",
		"optimizer", fc.Optimizer,
		"steps", fc.Steps,
		"loss", lossVal)

	return o.flushMetrics(w)
}
