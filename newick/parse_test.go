package newick_test

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manpen/pace26io/diag"
	"github.com/manpen/pace26io/newick"
	"github.com/manpen/pace26io/tree"
)

func mustParse(t *testing.T, s string) *tree.Tree {
	t.Helper()
	bag := diag.NewBag(diag.Pedantic)
	root, err := newick.ParseString(s, tree.NewBuilder(), bag)
	require.NoError(t, err)
	return root
}

func TestParseStructure(t *testing.T) {
	root := mustParse(t, "(A:1,(B:2,C:3):4);")

	require.Len(t, root.Children, 2)
	a, inner := root.Children[0], root.Children[1]

	assert.Equal(t, "A", a.Label)
	require.NotNil(t, a.Length)
	assert.Equal(t, 1.0, *a.Length)

	require.Len(t, inner.Children, 2)
	assert.Equal(t, "B", inner.Children[0].Label)
	assert.Equal(t, "C", inner.Children[1].Label)
	require.NotNil(t, inner.Length)
	assert.Equal(t, 4.0, *inner.Length)

	assert.Empty(t, root.Label)
	assert.Nil(t, root.Length)
}

func TestParseInternalLabel(t *testing.T) {
	root := mustParse(t, "((X,Y)C,Z)ROOT;")
	assert.Equal(t, "ROOT", root.Label)
	assert.Equal(t, "C", root.Children[0].Label)
}

func TestParseQuotedEmptyLeaf(t *testing.T) {
	// '' is an explicitly empty label, unlike a missing one
	root := mustParse(t, "('',A);")
	require.Len(t, root.Children, 2)
	assert.Empty(t, root.Children[0].Label)
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
		kind  diag.Kind
		msg   string
	}{
		{"unclosed scope", "(A,B;", diag.Syntax, "unbalanced '('"},
		{"extra close", "(A,B));", diag.Syntax, "unbalanced ')'"},
		{"close without open", "A);", diag.Syntax, "unbalanced ')'"},
		{"second top-level leaf", "A,B;", diag.Syntax, "second top-level subtree"},
		{"second top-level subtree", "(A,B)X,C;", diag.Syntax, "second top-level subtree"},
		{"empty leaf label", "(,A);", diag.Syntax, "empty leaf label"},
		{"bad length", "(A:x,B);", diag.Syntax, "invalid branch length"},
		{"missing length", "(A:,B);", diag.Syntax, "expected a branch length"},
		{"missing terminator", "(A,B)", diag.Structure, "missing ';'"},
		{"banned rune", "(A]B,C);", diag.Syntax, "unquoted label"},
		{"unterminated quote", "('A,B);", diag.Syntax, "unterminated quoted label"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			bag := diag.NewBag(diag.Lenient)
			_, err := newick.ParseString(c.input, tree.NewBuilder(), bag)

			var d *diag.Diagnostic
			require.ErrorAs(t, err, &d)
			assert.Equal(t, c.kind, d.Kind)
			assert.Contains(t, d.Message, c.msg)
			assert.True(t, bag.HasErrors())
		})
	}
}

func TestParseStrictness(t *testing.T) {
	// the deviation is unambiguous, so it must never change the result,
	// only the diagnostics
	const input = "(A ,B);"

	pedantic := diag.NewBag(diag.Pedantic)
	_, err := newick.ParseString(input, tree.NewBuilder(), pedantic)
	require.NoError(t, err)
	require.Equal(t, 1, pedantic.Len())
	assert.Equal(t, diag.Warning, pedantic.Items()[0].Severity)

	lenient := diag.NewBag(diag.Lenient)
	_, err = newick.ParseString(input, tree.NewBuilder(), lenient)
	require.NoError(t, err)
	assert.Equal(t, 0, lenient.Len())
}

func TestParseUnaryInternalWarning(t *testing.T) {
	bag := diag.NewBag(diag.Pedantic)
	_, err := newick.ParseString("((A)B,C);", tree.NewBuilder(), bag)
	require.NoError(t, err)

	require.Equal(t, 1, bag.Len())
	d := bag.Items()[0]
	assert.Equal(t, diag.Warning, d.Severity)
	assert.Equal(t, diag.Structure, d.Kind)
	assert.Contains(t, d.Message, "1 children")
}

func TestParseTrailingDataWarning(t *testing.T) {
	bag := diag.NewBag(diag.Pedantic)
	_, err := newick.ParseString("(A,B); (C", tree.NewBuilder(), bag)
	require.NoError(t, err)

	require.Equal(t, 1, bag.Len())
	assert.Contains(t, bag.Items()[0].Message, "trailing data")
}

func TestReadAll(t *testing.T) {
	bag := diag.NewBag(diag.Pedantic)
	p := newick.NewParser(strings.NewReader("(A,B);\n(C,D)E;\n"), tree.NewBuilder(), bag)

	trees, err := p.ReadAll()
	require.NoError(t, err)
	require.Len(t, trees, 2)
	assert.Equal(t, "E", trees[1].Label)
}

func TestReadTreeEOF(t *testing.T) {
	bag := diag.NewBag(diag.Pedantic)
	p := newick.NewParser(strings.NewReader("  \n"), tree.NewBuilder(), bag)

	_, err := p.ReadTree()
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, 0, bag.Len())
}

func TestParseDeepNesting(t *testing.T) {
	const depth = 100000
	input := strings.Repeat("(", depth) + "0" + strings.Repeat(",1)", depth) + ";"

	bag := diag.NewBag(diag.Lenient)
	root, err := newick.ParseString(input, tree.NewBuilder(), bag)
	require.NoError(t, err)

	leaves := 0
	for c := range newick.Walk(root.TopDown()) {
		if c.IsLeaf() {
			leaves++
		}
	}
	assert.Equal(t, depth+1, leaves)

	// the writer must survive the same depth
	assert.Equal(t, input, newick.String(root.TopDown()))
}

// rejectBuilder refuses one specific leaf label, standing in for
// caller-defined policies like duplicate detection.
type rejectBuilder struct {
	reject string
}

func (b *rejectBuilder) BeginInternal() newick.Handle           { return 0 }
func (b *rejectBuilder) AddChild(newick.Handle, string) error   { return nil }
func (b *rejectBuilder) FinishTree(root string) (string, error) { return root, nil }

func (b *rejectBuilder) EndInternal(_ newick.Handle, label string, _ *float64) (string, error) {
	return label, nil
}

func (b *rejectBuilder) MakeLeaf(label string, _ *float64) (string, error) {
	if label == b.reject {
		return "", fmt.Errorf("label %q is not allowed", label)
	}
	return label, nil
}

func TestParseBuilderRejection(t *testing.T) {
	bag := diag.NewBag(diag.Pedantic)
	_, err := newick.ParseString("(A,B);", &rejectBuilder{reject: "B"}, bag)

	var d *diag.Diagnostic
	require.ErrorAs(t, err, &d)
	assert.Equal(t, diag.Builder, d.Kind)
	assert.Contains(t, d.Message, "not allowed")
}

type protocolBuilder struct {
	rejectBuilder
}

func (b *protocolBuilder) AddChild(newick.Handle, string) error {
	return fmt.Errorf("lost track of scope: %w", newick.ErrProtocol)
}

func TestParseProtocolViolation(t *testing.T) {
	bag := diag.NewBag(diag.Pedantic)
	_, err := newick.ParseString("(A,B);", &protocolBuilder{}, bag)

	var d *diag.Diagnostic
	require.ErrorAs(t, err, &d)
	assert.Equal(t, diag.Protocol, d.Kind)
}
