package main

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/manpen/pace26io/newick"
	"github.com/manpen/pace26io/pace"
	"github.com/manpen/pace26io/tree"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize [instance]",
	Short: "Reorder children so the subtree with the smallest leaf label comes first",
	Long: `Normalize reads an instance, reorders the children of every internal
node such that the child subtree containing the smallest leaf label
comes first, and writes the resulting instance to stdout.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNormalize,
}

func init() {
	rootCmd.AddCommand(normalizeCmd)
}

func runNormalize(cmd *cobra.Command, args []string) error {
	in, err := openInput(args)
	if err != nil {
		return err
	}
	defer in.Close()

	inst, err := pace.Read(in, tree.NewBuilder())
	if err != nil {
		return err
	}

	out := bufio.NewWriter(os.Stdout)
	fmt.Fprintf(out, "#p %d %d\n", len(inst.Trees), inst.NumLeaves)
	for _, t := range inst.Trees {
		normalize(t)
		if err := newick.Write(out, t.TopDown()); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}
	return out.Flush()
}

// normalize sorts every child list by the smallest leaf label found in
// the child's subtree. Post-order over an explicit stack, so deep
// instances do not exhaust the call stack.
func normalize(root *tree.Tree) {
	min := make(map[*tree.Tree]string)

	type frame struct {
		node     *tree.Tree
		expanded bool
	}
	stack := []frame{{node: root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if len(f.node.Children) == 0 {
			min[f.node] = f.node.Label
			continue
		}
		if !f.expanded {
			stack = append(stack, frame{node: f.node, expanded: true})
			for _, child := range f.node.Children {
				stack = append(stack, frame{node: child})
			}
			continue
		}
		sort.SliceStable(f.node.Children, func(i, j int) bool {
			return labelLess(min[f.node.Children[i]], min[f.node.Children[j]])
		})
		min[f.node] = min[f.node.Children[0]]
	}
}

// labelLess orders labels numerically when both are numbers (the PACE
// case) and lexicographically otherwise.
func labelLess(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return na < nb
	}
	return a < b
}
