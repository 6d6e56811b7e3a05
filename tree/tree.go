// Package tree bundles two reference tree representations for the
// newick parser and writer: a plain n-ary Tree and an IndexedTree whose
// internal nodes carry stable identifiers. Both exist mainly as
// examples; callers with their own representation implement
// newick.Builder and newick.Cursor directly instead.
package tree

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/manpen/pace26io/newick"
)

// Tree is a single node of a plain n-ary tree. A node with no children
// is a leaf.
type Tree struct {
	// All children of this node, in input order. Empty for leaves.
	Children []*Tree

	// The label of this node. Leaves always carry one; internal nodes
	// only if the input annotated them.
	Label string

	// The branch length between this node and its parent, or nil if no
	// length exists.
	Length *float64
}

// TopDown returns a read-only cursor over the subtree rooted at t.
func (t *Tree) TopDown() newick.Cursor {
	return cursor{t}
}

// String converts a tree to a string, with whitespace indenting to
// indicate depth.
func (t *Tree) String() string {
	buf := new(bytes.Buffer)

	type entry struct {
		node  *Tree
		depth int
	}
	stack := []entry{{t, 0}}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		name, length := e.node.Label, ""
		if len(name) == 0 {
			name = "N/A"
		}
		if e.node.Length != nil {
			length = fmt.Sprintf(" (%f)", *e.node.Length)
		}
		fmt.Fprintf(buf, "%s%s%s\n", strings.Repeat("  ", e.depth), name, length)

		for i := len(e.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, entry{e.node.Children[i], e.depth + 1})
		}
	}
	return buf.String()
}

type cursor struct {
	t *Tree
}

func (c cursor) IsLeaf() bool {
	return len(c.t.Children) == 0
}

func (c cursor) Label() string {
	return c.t.Label
}

func (c cursor) Length() (float64, bool) {
	if c.t.Length == nil {
		return 0, false
	}
	return *c.t.Length, true
}

func (c cursor) Children() []newick.Cursor {
	kids := make([]newick.Cursor, len(c.t.Children))
	for i, child := range c.t.Children {
		kids[i] = cursor{child}
	}
	return kids
}

// Builder constructs *Tree nodes for the newick parser. The zero value
// is ready for use.
type Builder struct {
	open []*Tree
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) BeginInternal() newick.Handle {
	b.open = append(b.open, &Tree{})
	return newick.Handle(len(b.open) - 1)
}

func (b *Builder) AddChild(parent newick.Handle, child *Tree) error {
	if int(parent) < 0 || int(parent) >= len(b.open) {
		return fmt.Errorf("add child to scope %d of %d open: %w",
			parent, len(b.open), newick.ErrProtocol)
	}
	node := b.open[parent]
	node.Children = append(node.Children, child)
	return nil
}

func (b *Builder) EndInternal(h newick.Handle, label string, length *float64) (*Tree, error) {
	if len(b.open) == 0 {
		return nil, fmt.Errorf("end internal with no open scope: %w", newick.ErrProtocol)
	}
	if int(h) != len(b.open)-1 {
		return nil, fmt.Errorf("end internal for scope %d, but scope %d is innermost: %w",
			h, len(b.open)-1, newick.ErrProtocol)
	}
	node := b.open[len(b.open)-1]
	b.open = b.open[:len(b.open)-1]
	node.Label = label
	node.Length = length
	return node, nil
}

func (b *Builder) MakeLeaf(label string, length *float64) (*Tree, error) {
	return &Tree{Label: label, Length: length}, nil
}

func (b *Builder) FinishTree(root *Tree) (*Tree, error) {
	if n := len(b.open); n != 0 {
		b.open = b.open[:0]
		return nil, fmt.Errorf("finish tree with %d open scopes: %w", n, newick.ErrProtocol)
	}
	return root, nil
}
