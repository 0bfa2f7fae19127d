// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/scalargrad/autodiff"
	"github.com/born-ml/scalargrad/optim"
)

// TestTrainingLoop fits w in sigmoid(w*x) towards 0.8 through the public API.
func TestTrainingLoop(t *testing.T) {
	params := []float64{0}
	var opt optim.Optimizer = optim.NewAdam(params, optim.AdamConfig{LR: 0.1})

	g := autodiff.NewGraph()
	s := autodiff.NewSession()
	var out *autodiff.Node
	for iter := 0; iter < 300; iter++ {
		g.Reset()
		s.Reset()

		w := g.Leaf(params[0], true)
		wx := g.Mul(w, g.Leaf(2, false))
		out = g.Sigmoid(wx)
		diff := g.Sub(out, g.Leaf(0.8, false))
		loss := g.Pow(diff, 2)
		for _, n := range []*autodiff.Node{wx, out, diff} {
			n.SetTrainable(true)
		}

		require.NoError(t, s.ComputeGradients(loss))
		opt.Step(optim.Gradients(s, []*autodiff.Node{w}))
	}

	assert.InDelta(t, 0.8, out.Value(), 1e-3)
}
