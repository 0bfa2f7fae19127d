package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/born-ml/scalargrad/internal/autodiff"
	"github.com/born-ml/scalargrad/internal/parallel"
)

func newCheckCmd(opts *options) *cobra.Command {
	var (
		eps, tol float64
		workers  int
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Compare demo gradients against finite differences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := opts.cfg.Check
			if cmd.Flags().Changed("eps") {
				cc.Epsilon = eps
			}
			if cmd.Flags().Changed("tol") {
				cc.Tolerance = tol
			}
			if cmd.Flags().Changed("workers") {
				cc.Workers = workers
			}
			if err := cc.Validate(); err != nil {
				return err
			}

			check := autodiff.CheckOptions{
				Epsilon:   cc.Epsilon,
				Tolerance: cc.Tolerance,
				Parallel:  parallel.DefaultConfig(),
			}
			if cc.Workers > 0 {
				check.Parallel = parallel.Config{Enabled: cc.Workers > 1, NumWorkers: cc.Workers}
			}

			d := opts.cfg.Demo
			return opts.runCheck(cmd.OutOrStdout(), []float64{d.A, d.B, d.C}, check)
		},
	}

	cmd.Flags().Float64Var(&eps, "eps", 0, "finite-difference step (default from config)")
	cmd.Flags().Float64Var(&tol, "tol", 0, "relative tolerance (default from config)")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent evaluations, 0 for one per CPU")
	return cmd
}

func (o *options) runCheck(w io.Writer, inputs []float64, check autodiff.CheckOptions) error {
	report, err := autodiff.CheckGradients(buildDemo, inputs, check)
	if report.Analytic != nil {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "INPUT\tVALUE\tANALYTIC\tNUMERICAL")
		for i, x := range inputs {
			fmt.Fprintf(tw, "%d\t%.6f\t%.9f\t%.9f\n", i, x, report.Analytic[i], report.Numerical[i])
		}
		tw.Flush()
		fmt.Fprintf(w, "\nmax abs error: %.3e (input %d)\n", report.MaxAbsError, report.WorstInput)
	}
	if err != nil {
		o.logger.Error("gradient check failed", "error", err)
		return err
	}
	o.logger.Info("gradient check passed", "max_abs_error", report.MaxAbsError)
	return nil
}
