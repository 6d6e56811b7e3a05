/*
Package newick provides facilities for reading and writing phylogenetic
trees in the Newick format, as used by the PACE 2026 container format.
The grammar is roughly equivalent to the conventions established here:
http://evolution.genetics.washington.edu/phylip/newick_doc.html.
Bracketed comments are not implemented; quoted labels are.

The package does not fix a tree representation. Parsing drives a
caller-supplied Builder that receives construction events and hands
back finished subtrees; writing traverses any tree exposing the
read-only Cursor capability. Two reference representations live in the
sibling package tree.

The parser is iterative: nesting depth is tracked on an explicit stack
of open builder scopes, so instances with very deep trees never risk
exhausting the call stack.
*/
package newick
