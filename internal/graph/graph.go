// Package graph implements the scalar computation DAG used for reverse-mode
// automatic differentiation.
//
// Every node lives in a Graph arena and is identified by its dense index in
// that arena. Nodes are built by the operation builders:
//   - Leaf: an input value with no children
//   - Add:  x + y  (d/dx = 1, d/dy = 1)
//   - Sub:  x - y  (d/dx = 1, d/dy = 1)
//   - Mul:  x * y  (d/dx = y, d/dy = x)
//   - Pow:  x^n    (d/dx = n*x^(n-1))
//   - Sigmoid, ReLU activations
//
// Each builder computes the forward value and stores one local derivative per
// child edge, so the backward pass never re-evaluates an operation.
package graph

import "fmt"

// Operation names reported by Node.Op.
const (
	OpLeaf    = "leaf"
	OpAdd     = "add"
	OpSub     = "sub"
	OpMul     = "mul"
	OpPow     = "pow"
	OpSigmoid = "sigmoid"
	OpReLU    = "relu"
)

// NodeID identifies a node inside its Graph. IDs are dense, start at zero and
// grow by one per constructed node.
type NodeID int

// Graph is an arena owning every node built through it.
//
// A Graph is not safe for concurrent use. Distinct graphs share no state and
// may be used from separate goroutines.
type Graph struct {
	nodes      []*Node
	generation uint64
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes: make([]*Node, 0, 64), // Pre-allocate for common case
	}
}

// Len returns the number of nodes ever created in the graph, released or not.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Node returns the node with the given id, or nil if the id is out of range.
func (g *Graph) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(g.nodes) {
		return nil
	}
	return g.nodes[id]
}

// Leaf creates an input node with no children.
func (g *Graph) Leaf(value float64, trainable bool) *Node {
	n := g.newNode(OpLeaf, value, nil, nil)
	n.trainable = trainable
	return n
}

// Generation counts Reset calls. Node ids are only unique within one
// generation.
func (g *Graph) Generation() uint64 {
	return g.generation
}

// Reset releases every node of the graph at once, restarts id assignment and
// advances the generation.
// Nodes obtained before Reset must not be used afterwards.
func (g *Graph) Reset() {
	for _, n := range g.nodes {
		n.release()
	}
	clear(g.nodes)
	g.nodes = g.nodes[:0]
	g.generation++
}

// newNode appends a node to the arena. Builders call it after validating inputs.
func (g *Graph) newNode(op string, value float64, children []*Node, localGrads []float64) *Node {
	n := &Node{
		id:         NodeID(len(g.nodes)),
		graph:      g,
		op:         op,
		value:      value,
		children:   children,
		localGrads: localGrads,
	}
	g.nodes = append(g.nodes, n)
	return n
}

// mustOwn panics if any input is nil, released, or built by another graph.
func (g *Graph) mustOwn(op string, inputs ...*Node) {
	for i, in := range inputs {
		switch {
		case in == nil:
			panic(fmt.Sprintf("%s: input %d is nil", op, i))
		case in.graph != g:
			panic(fmt.Sprintf("%s: input %d (node %d) belongs to another graph", op, i, in.id))
		case in.released:
			panic(fmt.Sprintf("%s: input %d (node %d) has been released", op, i, in.id))
		}
	}
}
