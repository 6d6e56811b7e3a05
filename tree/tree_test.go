package tree

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manpen/pace26io/diag"
	"github.com/manpen/pace26io/newick"
)

func sampleReader(s string) io.Reader {
	return strings.NewReader(s)
}

func TestBuilderHappyPath(t *testing.T) {
	b := NewBuilder()

	h := b.BeginInternal()
	leafA, err := b.MakeLeaf("A", nil)
	require.NoError(t, err)
	require.NoError(t, b.AddChild(h, leafA))

	length := 2.5
	leafB, err := b.MakeLeaf("B", &length)
	require.NoError(t, err)
	require.NoError(t, b.AddChild(h, leafB))

	node, err := b.EndInternal(h, "R", nil)
	require.NoError(t, err)
	root, err := b.FinishTree(node)
	require.NoError(t, err)

	assert.Equal(t, "R", root.Label)
	require.Len(t, root.Children, 2)
	assert.Equal(t, "A", root.Children[0].Label)
	require.NotNil(t, root.Children[1].Length)
	assert.Equal(t, 2.5, *root.Children[1].Length)
}

func TestBuilderProtocolViolations(t *testing.T) {
	t.Run("end without open scope", func(t *testing.T) {
		b := NewBuilder()
		_, err := b.EndInternal(0, "", nil)
		assert.ErrorIs(t, err, newick.ErrProtocol)
	})

	t.Run("end non-innermost scope", func(t *testing.T) {
		b := NewBuilder()
		outer := b.BeginInternal()
		b.BeginInternal()
		_, err := b.EndInternal(outer, "", nil)
		assert.ErrorIs(t, err, newick.ErrProtocol)
	})

	t.Run("add child to unknown scope", func(t *testing.T) {
		b := NewBuilder()
		b.BeginInternal()
		leaf, _ := b.MakeLeaf("A", nil)
		assert.ErrorIs(t, b.AddChild(newick.Handle(5), leaf), newick.ErrProtocol)
	})

	t.Run("finish with open scopes", func(t *testing.T) {
		b := NewBuilder()
		b.BeginInternal()
		leaf, _ := b.MakeLeaf("A", nil)
		_, err := b.FinishTree(leaf)
		assert.ErrorIs(t, err, newick.ErrProtocol)

		// the failed finish resets the builder for the next tree
		root, err := b.FinishTree(leaf)
		require.NoError(t, err)
		assert.Equal(t, "A", root.Label)
	})
}

func TestCursor(t *testing.T) {
	length := 0.5
	root := &Tree{Children: []*Tree{
		{Label: "A", Length: &length},
		{Label: "B"},
	}}

	c := root.TopDown()
	assert.False(t, c.IsLeaf())
	assert.Empty(t, c.Label())
	_, ok := c.Length()
	assert.False(t, ok)

	kids := c.Children()
	require.Len(t, kids, 2)
	assert.True(t, kids[0].IsLeaf())
	assert.Equal(t, "A", kids[0].Label())
	v, ok := kids[0].Length()
	require.True(t, ok)
	assert.Equal(t, 0.5, v)
}

func TestTreeString(t *testing.T) {
	bag := diag.NewBag(diag.Pedantic)
	root, err := newick.ParseString("(A:1,(B,C)D);", NewBuilder(), bag)
	require.NoError(t, err)

	assert.Equal(t, "N/A\n  A (1.000000)\n  D\n    B\n    C\n", root.String())
}
