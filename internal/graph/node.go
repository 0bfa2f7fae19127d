package graph

import "fmt"

// Node is a scalar value together with its construction history.
//
// Children and local gradients are parallel: LocalGrads()[i] is the partial
// derivative of this node's value with respect to Children()[i]. Both are
// fixed at construction. Only the trainable flag may change afterwards.
type Node struct {
	id         NodeID
	graph      *Graph
	op         string
	value      float64
	children   []*Node   // Shared with other parents, never owned
	localGrads []float64 // One per child
	trainable  bool
	released   bool
}

// ID returns the node's identity within its graph.
func (n *Node) ID() NodeID {
	return n.id
}

// Graph returns the graph that built the node.
func (n *Node) Graph() *Graph {
	return n.graph
}

// Op returns the name of the builder that created the node.
func (n *Node) Op() string {
	return n.op
}

// Value returns the forward value.
func (n *Node) Value() float64 {
	return n.value
}

// NumChildren returns the number of child edges.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// Children returns a copy of the child references.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// Child returns the i-th child and the local derivative on that edge.
func (n *Node) Child(i int) (*Node, float64) {
	return n.children[i], n.localGrads[i]
}

// LocalGrads returns a copy of the per-edge local derivatives.
func (n *Node) LocalGrads() []float64 {
	out := make([]float64, len(n.localGrads))
	copy(out, n.localGrads)
	return out
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return len(n.children) == 0
}

// Trainable reports whether gradients are retained and propagated through n.
func (n *Node) Trainable() bool {
	return n.trainable
}

// SetTrainable marks n as a differentiation boundary (or clears the mark).
func (n *Node) SetTrainable(trainable bool) {
	n.trainable = trainable
}

// Released reports whether n has been torn down by the graph's lifecycle methods.
func (n *Node) Released() bool {
	return n.released
}

// String implements fmt.Stringer.
func (n *Node) String() string {
	return fmt.Sprintf("%s(id=%d, val=%g, children=%d, trainable=%t)",
		n.op, n.id, n.value, len(n.children), n.trainable)
}

func (n *Node) release() {
	n.children = nil
	n.localGrads = nil
	n.released = true
}
