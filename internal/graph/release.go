package graph

// Release tears down root and every node reachable through its children.
//
// Shared nodes are released exactly once even when several paths reach them.
// Nodes already released are skipped, so releasing the same graph twice is a
// no-op. Returns the number of nodes released by this call.
//
// After Release no reference into the released subgraph may be passed to a
// builder. Subgraphs shared with a still-live root are released too; callers
// release each disjoint graph from a single owning root.
func (g *Graph) Release(root *Node) int {
	return g.ReleaseAll(root)
}

// ReleaseAll releases everything reachable from any of roots.
func (g *Graph) ReleaseAll(roots ...*Node) int {
	released := 0
	stack := make([]*Node, 0, len(roots))
	for _, r := range roots {
		if r != nil && r.graph == g {
			stack = append(stack, r)
		}
	}

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.released {
			continue
		}
		// Children must be captured before release() drops them.
		stack = append(stack, n.children...)
		n.release()
		released++
	}

	return released
}
