package graph

import "math"

// Sigmoid builds σ(x) = 1 / (1 + exp(-x)).
//
// The local derivative reuses the forward value: σ'(x) = σ(x) * (1 - σ(x)).
func (g *Graph) Sigmoid(x *Node) *Node {
	g.mustOwn("sigmoid", x)
	s := 1 / (1 + math.Exp(-x.value))
	return g.newNode(OpSigmoid, s, []*Node{x}, []float64{s * (1 - s)})
}

// ReLU builds max(x, 0).
//
// The forward value uses x > 0 while the derivative uses x < 0, so at exactly
// x == 0 the value is 0 and the local derivative is 1.
func (g *Graph) ReLU(x *Node) *Node {
	g.mustOwn("relu", x)
	val := 0.0
	if x.value > 0 {
		val = x.value
	}
	grad := 1.0
	if x.value < 0 {
		grad = 0
	}
	return g.newNode(OpReLU, val, []*Node{x}, []float64{grad})
}
