package newick

// Cursor is the minimal read-only traversal capability a tree
// representation must expose to be serializable. Implementations must
// not mutate the tree through the cursor, and an assigned identifier or
// branch length never changes for the lifetime of the tree.
type Cursor interface {
	// IsLeaf reports whether the node is a leaf.
	IsLeaf() bool

	// Label returns the node's label. Leaves always carry one; internal
	// nodes usually return the empty string.
	Label() string

	// Length returns the branch length between the node and its parent,
	// if one exists.
	Length() (float64, bool)

	// Children returns cursors over the node's children in order. It is
	// empty for leaves.
	Children() []Cursor
}

// Indexed is the optional capability exposing stable integer
// identifiers for internal nodes. Representations that do not need to
// cross-reference internal nodes simply do not implement it.
type Indexed interface {
	// ID returns the node's identifier. The second return is false for
	// nodes without one (typically leaves).
	ID() (uint32, bool)
}
