// Package telemetry exports differentiation session statistics as Prometheus metrics.
package telemetry

import (
	"errors"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"

	"github.com/born-ml/scalargrad/internal/autodiff"
)

// Result label values for scalargrad_compute_total.
const (
	ResultSuccess       = "success"
	ResultGraphMismatch = "graph_mismatch"
	ResultReleasedNode  = "released_node"
	ResultOther         = "other"
)

// Collector implements autodiff.Observer on top of Prometheus metrics.
//
// Thread Safety: safe for concurrent use by sessions on different goroutines.
type Collector struct {
	computeTotal *prometheus.CounterVec
	edgesTotal   prometheus.Counter
	nodesTotal   prometheus.Counter
	entriesTotal prometheus.Counter
	rootsPerCall prometheus.Histogram
	duration     prometheus.Histogram
}

// New registers the collector's metrics with reg.
func New(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		computeTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "scalargrad_compute_total",
			Help: "ComputeGradients calls by result",
		}, []string{"result"}),
		edgesTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "scalargrad_edges_visited_total",
			Help: "Graph edges inspected during reverse accumulation",
		}),
		nodesTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "scalargrad_nodes_visited_total",
			Help: "Graph nodes expanded during reverse accumulation",
		}),
		entriesTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "scalargrad_gradient_entries_total",
			Help: "Gradient entries created",
		}),
		rootsPerCall: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "scalargrad_roots_per_call",
			Help:    "Roots per ComputeGradients call",
			Buckets: []float64{1, 2, 5, 10, 20, 50},
		}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "scalargrad_compute_duration_seconds",
			Help:    "ComputeGradients duration",
			Buckets: []float64{0.000001, 0.00001, 0.0001, 0.001, 0.01, 0.1},
		}),
	}
}

// ObserveCompute implements autodiff.Observer.
func (c *Collector) ObserveCompute(_ string, stats autodiff.CallStats, err error) {
	c.computeTotal.WithLabelValues(result(err)).Inc()
	if err != nil {
		return
	}
	c.edgesTotal.Add(float64(stats.Edges))
	c.nodesTotal.Add(float64(stats.Nodes))
	c.entriesTotal.Add(float64(stats.NewEntries))
	c.rootsPerCall.Observe(float64(stats.Roots))
	c.duration.Observe(stats.Duration.Seconds())
}

func result(err error) string {
	switch {
	case err == nil:
		return ResultSuccess
	case errors.Is(err, autodiff.ErrGraphMismatch):
		return ResultGraphMismatch
	case errors.Is(err, autodiff.ErrReleasedNode):
		return ResultReleasedNode
	default:
		return ResultOther
	}
}

// WriteText writes every metric gathered by g in the Prometheus text format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
