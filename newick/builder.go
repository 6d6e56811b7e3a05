package newick

import "errors"

// ErrProtocol marks a builder call issued out of nesting order, e.g.
// closing a scope that was never opened. Builders wrap it so the parser
// can tell protocol violations apart from ordinary builder rejections.
var ErrProtocol = errors.New("builder called out of nesting order")

// A Handle names an open internal-node scope between BeginInternal and
// EndInternal.
type Handle int

// Builder receives construction events from the parser and hands back
// finished subtrees. The parser calls it in a strict nesting discipline
// mirroring the grammar: scopes open on '(' and close on ')', with
// children attached in input order.
//
// Implementations may assume calls are well-nested for syntactically
// valid input, but must still detect out-of-order calls and fail them
// with an error wrapping ErrProtocol rather than corrupting previously
// returned nodes. Conditions a builder itself cares about, such as
// duplicate labels, are its own policy and surface as plain errors.
type Builder[Node any] interface {
	// BeginInternal opens a new internal-node scope.
	BeginInternal() Handle

	// AddChild attaches a finished child to an open scope, preserving
	// call order as child order.
	AddChild(parent Handle, child Node) error

	// EndInternal closes the most recently opened scope and returns the
	// finished node. The label is empty unless the input annotated the
	// closing parenthesis.
	EndInternal(h Handle, label string, length *float64) (Node, error)

	// MakeLeaf returns a finished leaf node. It never opens a scope.
	MakeLeaf(label string, length *float64) (Node, error)

	// FinishTree finalizes one tree from a completed root and resets the
	// builder's scope state for the next tree in the stream.
	FinishTree(root Node) (Node, error)
}
