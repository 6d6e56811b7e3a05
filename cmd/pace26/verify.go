package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/manpen/pace26io/diag"
	"github.com/manpen/pace26io/newick"
	"github.com/manpen/pace26io/pace"
	"github.com/manpen/pace26io/tree"
)

var flagJobs int

var verifyCmd = &cobra.Command{
	Use:   "verify [instance]",
	Short: "Pedantically check an instance and report every diagnostic",
	Long: `Verify reads an instance in pedantic mode and prints every warning and
error the library produces, plus container-level checks (declared vs.
observed tree and leaf counts). Trees are independent and checked
concurrently; diagnostics are reported in input order.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().IntVar(&flagJobs, "jobs", runtime.NumCPU(),
		"number of trees to check concurrently")
	rootCmd.AddCommand(verifyCmd)
}

type treeLine struct {
	line int
	text string
}

// collectVisitor records the container structure without parsing any
// tree, so the trees can be handed to parallel workers afterwards.
type collectVisitor struct {
	pace.NopVisitor
	bag        *diag.Bag
	haveHeader bool
	numTrees   int
	numLeaves  int
	trees      []treeLine
}

func (v *collectVisitor) VisitHeader(line, numTrees, numLeaves int) pace.Action {
	v.haveHeader = true
	v.numTrees = numTrees
	v.numLeaves = numLeaves
	return pace.Continue
}

func (v *collectVisitor) VisitTree(line int, text string) pace.Action {
	v.trees = append(v.trees, treeLine{line: line, text: text})
	return pace.Continue
}

func (v *collectVisitor) VisitExtraWhitespace(line int, text string) pace.Action {
	v.bag.Warnf(diag.Syntax, diag.Pos{Line: line}, "line has extra whitespace")
	return pace.Continue
}

func (v *collectVisitor) VisitUnknownHashLine(line int, text string) pace.Action {
	v.bag.Warnf(diag.Syntax, diag.Pos{Line: line}, "unrecognized '#' line")
	return pace.Continue
}

func (v *collectVisitor) VisitUnknownLine(line int, text string) pace.Action {
	v.bag.Errorf(diag.Syntax, diag.Pos{Line: line}, "unrecognized line %q", text)
	return pace.Continue
}

func runVerify(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if flagJobs < 1 {
		flagJobs = 1
	}

	in, err := openInput(args)
	if err != nil {
		return err
	}
	defer in.Close()

	bag := diag.NewBag(diag.Pedantic)
	cv := &collectVisitor{bag: bag}
	if err := pace.NewReader(cv).Read(in); err != nil {
		if d, ok := err.(*diag.Diagnostic); ok {
			bag.Add(*d)
		} else {
			return err
		}
	}

	if !cv.haveHeader {
		bag.Errorf(diag.Structure, diag.Pos{}, "missing '#p' header")
	} else if len(cv.trees) != cv.numTrees {
		bag.Errorf(diag.Structure, diag.Pos{},
			"instance declares %d trees, found %d", cv.numTrees, len(cv.trees))
	}

	// Trees are independent, so each worker parses with its own builder
	// and bag; results are merged back in input order.
	perTree := make([]*diag.Bag, len(cv.trees))
	leaves := make([]int, len(cv.trees))
	var g errgroup.Group
	g.SetLimit(flagJobs)
	for i, tl := range cv.trees {
		g.Go(func() error {
			tb := diag.NewBag(diag.Pedantic)
			perTree[i] = tb
			root, err := newick.ParseStringAt(tl.text, tree.NewBuilder(), tb, tl.line)
			if err != nil {
				return nil // recorded in tb
			}
			n := 0
			for c := range newick.Walk(root.TopDown()) {
				if c.IsLeaf() {
					n++
				}
			}
			leaves[i] = n
			return nil
		})
	}
	_ = g.Wait()

	for i, tb := range perTree {
		bag.Merge(tb)
		if cv.haveHeader && !tb.HasErrors() && leaves[i] != cv.numLeaves {
			bag.Errorf(diag.Structure, diag.Pos{Line: cv.trees[i].line},
				"tree has %d leaves, header declares %d", leaves[i], cv.numLeaves)
		}
	}

	errTag := color.New(color.FgRed, color.Bold).Sprint("error")
	warnTag := color.New(color.FgYellow).Sprint("warning")
	nErrors, nWarnings := 0, 0
	for _, d := range bag.Items() {
		tag := warnTag
		if d.Severity == diag.Error {
			tag = errTag
			nErrors++
		} else {
			nWarnings++
		}
		fmt.Printf("%s: %s [%s]: %s\n", d.Pos, tag, d.Kind, d.Message)
	}

	logger.Info("verification finished",
		"trees", len(cv.trees), "warnings", nWarnings, "errors", nErrors)
	if nErrors > 0 {
		return fmt.Errorf("instance is invalid: %d error(s)", nErrors)
	}
	return nil
}
