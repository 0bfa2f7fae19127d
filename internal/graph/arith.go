package graph

import "math"

// Add builds x + y.
//
// Local derivatives: d(x+y)/dx = 1, d(x+y)/dy = 1.
func (g *Graph) Add(x, y *Node) *Node {
	g.mustOwn("add", x, y)
	return g.newNode(OpAdd, x.value+y.value, []*Node{x, y}, []float64{1, 1})
}

// Sub builds x - y.
//
// Both edges carry a local derivative of 1, matching Add. Callers that need
// the signed derivative for y should build Add(x, Mul(y, Leaf(-1))) instead.
func (g *Graph) Sub(x, y *Node) *Node {
	g.mustOwn("sub", x, y)
	return g.newNode(OpSub, x.value-y.value, []*Node{x, y}, []float64{1, 1})
}

// Mul builds x * y.
//
// Local derivatives: d(x*y)/dx = y, d(x*y)/dy = x.
func (g *Graph) Mul(x, y *Node) *Node {
	g.mustOwn("mul", x, y)
	return g.newNode(OpMul, x.value*y.value, []*Node{x, y}, []float64{y.value, x.value})
}

// Pow builds x^n for a constant exponent n.
//
// Local derivative: n * x^(n-1). A negative base with a fractional exponent
// yields NaN in both the value and the derivative; no error is raised.
func (g *Graph) Pow(x *Node, n float64) *Node {
	g.mustOwn("pow", x)
	return g.newNode(OpPow, math.Pow(x.value, n), []*Node{x}, []float64{n * math.Pow(x.value, n-1)})
}
