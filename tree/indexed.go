package tree

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/manpen/pace26io/newick"
)

// IndexedTree is a Tree whose internal nodes additionally carry a
// stable identifier, assigned in the order the nodes were closed during
// construction (0, 1, 2, ... per tree). Identifiers never change once
// assigned.
type IndexedTree struct {
	Children []*IndexedTree
	Label    string
	Length   *float64

	id      uint32
	indexed bool
}

// ID returns the node's identifier. Leaves report none.
func (t *IndexedTree) ID() (uint32, bool) {
	return t.id, t.indexed
}

// TopDown returns a read-only cursor over the subtree rooted at t. The
// cursor also implements newick.Indexed.
func (t *IndexedTree) TopDown() newick.Cursor {
	return icursor{t}
}

type icursor struct {
	t *IndexedTree
}

func (c icursor) IsLeaf() bool {
	return len(c.t.Children) == 0
}

func (c icursor) Label() string {
	return c.t.Label
}

func (c icursor) Length() (float64, bool) {
	if c.t.Length == nil {
		return 0, false
	}
	return *c.t.Length, true
}

func (c icursor) Children() []newick.Cursor {
	kids := make([]newick.Cursor, len(c.t.Children))
	for i, child := range c.t.Children {
		kids[i] = icursor{child}
	}
	return kids
}

func (c icursor) ID() (uint32, bool) {
	return c.t.ID()
}

// IndexedBuilder constructs *IndexedTree nodes, numbering internal
// nodes in close order. The zero value is ready for use.
type IndexedBuilder struct {
	open []*IndexedTree
	next int
}

func NewIndexedBuilder() *IndexedBuilder {
	return &IndexedBuilder{}
}

func (b *IndexedBuilder) BeginInternal() newick.Handle {
	b.open = append(b.open, &IndexedTree{})
	return newick.Handle(len(b.open) - 1)
}

func (b *IndexedBuilder) AddChild(parent newick.Handle, child *IndexedTree) error {
	if int(parent) < 0 || int(parent) >= len(b.open) {
		return fmt.Errorf("add child to scope %d of %d open: %w",
			parent, len(b.open), newick.ErrProtocol)
	}
	node := b.open[parent]
	node.Children = append(node.Children, child)
	return nil
}

func (b *IndexedBuilder) EndInternal(h newick.Handle, label string, length *float64) (*IndexedTree, error) {
	if len(b.open) == 0 {
		return nil, fmt.Errorf("end internal with no open scope: %w", newick.ErrProtocol)
	}
	if int(h) != len(b.open)-1 {
		return nil, fmt.Errorf("end internal for scope %d, but scope %d is innermost: %w",
			h, len(b.open)-1, newick.ErrProtocol)
	}
	id, err := safecast.Conv[uint32](b.next)
	if err != nil {
		return nil, fmt.Errorf("node identifier overflow: %w", err)
	}
	b.next++

	node := b.open[len(b.open)-1]
	b.open = b.open[:len(b.open)-1]
	node.Label = label
	node.Length = length
	node.id = id
	node.indexed = true
	return node, nil
}

func (b *IndexedBuilder) MakeLeaf(label string, length *float64) (*IndexedTree, error) {
	return &IndexedTree{Label: label, Length: length}, nil
}

func (b *IndexedBuilder) FinishTree(root *IndexedTree) (*IndexedTree, error) {
	if n := len(b.open); n != 0 {
		b.open = b.open[:0]
		b.next = 0
		return nil, fmt.Errorf("finish tree with %d open scopes: %w", n, newick.ErrProtocol)
	}
	b.next = 0
	return root, nil
}
