package newick

import "iter"

// Walk returns a depth-first pre-order sequence over all nodes reachable
// from root. Like the writer it needs only the Cursor capability and
// keeps its traversal state on an explicit stack.
func Walk(root Cursor) iter.Seq[Cursor] {
	return func(yield func(Cursor) bool) {
		stack := []Cursor{root}
		for len(stack) > 0 {
			node := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(node) {
				return
			}
			kids := node.Children()
			for i := len(kids) - 1; i >= 0; i-- {
				stack = append(stack, kids[i])
			}
		}
	}
}
