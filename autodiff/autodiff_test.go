// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package autodiff_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/scalargrad/autodiff"
)

// TestPublicAPI exercises the full lifecycle through the public package.
func TestPublicAPI(t *testing.T) {
	g := autodiff.NewGraph()
	a := g.Leaf(2, true)
	b := g.Leaf(3, true)
	p := g.Add(a, b)
	p.SetTrainable(true)
	q := g.Mul(p, a)

	s := autodiff.NewSession()
	require.NoError(t, s.ComputeGradients(q))

	grad, ok := s.GradientOf(a)
	require.True(t, ok)
	assert.InDelta(t, 7.0, grad, 1e-12)

	assert.Equal(t, 4, g.Release(q))
	assert.ErrorIs(t, autodiff.NewSession().ComputeGradients(q), autodiff.ErrReleasedNode)
}

func Example() {
	g := autodiff.NewGraph()
	a := g.Leaf(0.5, true)
	b := g.Leaf(0.3, true)
	c := g.Leaf(0.1, true)
	p := g.Add(a, b)
	r := g.Add(b, c)
	m := g.Mul(p, r)
	p.SetTrainable(true)
	r.SetTrainable(true)
	m.SetTrainable(true)
	out := g.Sigmoid(m)

	s := autodiff.NewSession()
	if err := s.ComputeGradients(out); err != nil {
		panic(err)
	}

	for _, n := range []*autodiff.Node{m, p, r, a, b, c} {
		grad, _ := s.GradientOf(n)
		fmt.Printf("node %d: %.5f\n", n.ID(), grad)
	}
	fmt.Println("released:", g.Release(out))

	// Output:
	// node 5: 0.24371
	// node 3: 0.09748
	// node 4: 0.19497
	// node 0: 0.09748
	// node 1: 0.29245
	// node 2: 0.19497
	// released: 7
}
