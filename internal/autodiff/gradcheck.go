package autodiff

import (
	"fmt"
	"math"

	"github.com/born-ml/scalargrad/internal/graph"
	"github.com/born-ml/scalargrad/internal/parallel"
)

// BuildFunc builds an expression on g whose leaves hold inputs, in order.
// It returns the output node and the leaves.
type BuildFunc func(g *graph.Graph, inputs []float64) (out *graph.Node, leaves []*graph.Node)

// CheckOptions controls CheckGradients.
type CheckOptions struct {
	Epsilon   float64         // Finite-difference step.
	Tolerance float64         // Allowed |analytic - numerical| / (1 + |numerical|).
	Parallel  parallel.Config // Fan-out for the perturbed evaluations.
}

// DefaultCheckOptions returns options suitable for float64 expressions.
func DefaultCheckOptions() CheckOptions {
	return CheckOptions{
		Epsilon:   1e-6,
		Tolerance: 1e-5,
		Parallel:  parallel.DefaultConfig(),
	}
}

// CheckReport holds per-input gradients from both methods.
type CheckReport struct {
	Analytic    []float64
	Numerical   []float64
	MaxAbsError float64
	WorstInput  int
}

// NumericalGradient computes df/dx at x with a central difference.
func NumericalGradient(f func(float64) float64, x, eps float64) float64 {
	return (f(x+eps) - f(x-eps)) / (2 * eps)
}

// CheckGradients compares reverse-mode gradients of build's output against
// central differences for every input.
//
// Every node of the analytic graph is marked trainable so that gradients reach
// the leaves. Each perturbed evaluation builds a fresh graph, so evaluations
// share no state and run under opts.Parallel.
//
// Returns ErrGradientMismatch (wrapped) when any input exceeds the tolerance;
// the report is filled in either case.
func CheckGradients(build BuildFunc, inputs []float64, opts CheckOptions) (CheckReport, error) {
	if opts.Epsilon <= 0 {
		return CheckReport{}, fmt.Errorf("check gradients: %w", ErrInvalidEpsilon)
	}

	analytic, err := analyticGradients(build, inputs)
	if err != nil {
		return CheckReport{}, err
	}

	numerical, err := parallel.Map(len(inputs), func(i int) (float64, error) {
		f := func(x float64) float64 {
			perturbed := make([]float64, len(inputs))
			copy(perturbed, inputs)
			perturbed[i] = x
			out, _ := build(graph.New(), perturbed)
			return out.Value()
		}
		return NumericalGradient(f, inputs[i], opts.Epsilon), nil
	}, opts.Parallel)
	if err != nil {
		return CheckReport{}, fmt.Errorf("check gradients: %w", err)
	}

	report := CheckReport{Analytic: analytic, Numerical: numerical, WorstInput: -1}
	var mismatch error
	for i := range inputs {
		diff := math.Abs(analytic[i] - numerical[i])
		if diff > report.MaxAbsError || report.WorstInput < 0 {
			report.MaxAbsError = diff
			report.WorstInput = i
		}
		if mismatch == nil && diff > opts.Tolerance*(1+math.Abs(numerical[i])) {
			mismatch = fmt.Errorf("check gradients: input %d: analytic %g, numerical %g: %w",
				i, analytic[i], numerical[i], ErrGradientMismatch)
		}
	}

	return report, mismatch
}

func analyticGradients(build BuildFunc, inputs []float64) ([]float64, error) {
	g := graph.New()
	out, leaves := build(g, inputs)
	if len(leaves) != len(inputs) {
		return nil, fmt.Errorf("check gradients: got %d leaves for %d inputs: %w",
			len(leaves), len(inputs), ErrLeafCount)
	}

	for id := 0; id < g.Len(); id++ {
		g.Node(graph.NodeID(id)).SetTrainable(true)
	}

	s := NewSession()
	if err := s.ComputeGradients(out); err != nil {
		return nil, fmt.Errorf("check gradients: %w", err)
	}

	grads := make([]float64, len(leaves))
	for i, leaf := range leaves {
		grads[i], _ = s.GradientOf(leaf) // Unreached leaves have zero gradient.
	}
	return grads, nil
}
