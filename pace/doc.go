/*
Package pace reads and assembles instances in the PACE 2026 container
format. An instance is a sequence of lines:

	#p <numtrees> <numleaves>   header, exactly one, before all trees
	# <text>                    comment
	#s <key> <value>            stride line
	#a <a> <b>                  approximation parameters
	#x <key> <value>            instance parameter ("treedecomp" JSON)
	(...);                      one Newick tree per line

Reader exposes the raw line structure through a visitor without
interpreting any tree. ReadInstance drives the newick
parser over every tree line and assembles the forest, applying the
selected strictness policy; Read is the lenient convenience facade.
*/
package pace
