package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/born-ml/scalargrad/internal/autodiff"
	"github.com/born-ml/scalargrad/internal/config"
	"github.com/born-ml/scalargrad/internal/telemetry"
)

// options holds global flag values shared by subcommands.
type options struct {
	configPath string
	logLevel   string
	logFormat  string
	metrics    bool

	cfg      config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	observer autodiff.Observer
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "scalargrad",
		Short:        "Reverse-mode automatic differentiation for scalar expressions",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load(cmd)
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML config file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "log format (text, json)")
	root.PersistentFlags().BoolVar(&opts.metrics, "metrics", false, "print Prometheus metrics after the run")

	root.AddCommand(newVersionCmd(), newDemoCmd(opts), newCheckCmd(opts), newFitCmd(opts))
	return root
}

// load loads the config file, applies flag overrides and builds the logger.
func (o *options) load(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Log.Format = o.logFormat
	}

	logger, err := cfg.Log.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	o.cfg = cfg
	o.logger = logger
	if o.metrics {
		o.registry = prometheus.NewRegistry()
		o.observer = telemetry.New(o.registry)
	}
	return nil
}

func (o *options) sessionOptions() []autodiff.Option {
	opts := []autodiff.Option{autodiff.WithLogger(o.logger)}
	if o.observer != nil {
		opts = append(opts, autodiff.WithObserver(o.observer))
	}
	return opts
}

// flushMetrics writes collected metrics when --metrics is set.
func (o *options) flushMetrics(w io.Writer) error {
	if o.registry == nil {
		return nil
	}
	fmt.Fprintln(w)
	return telemetry.WriteText(w, o.registry)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "scalargrad %s\n", version)
		},
	}
}
