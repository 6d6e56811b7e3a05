// Command pace26 provides tooling around instances in the PACE 2026
// container format: a pedantic verifier and a tree normalizer. It is a
// consumer of the library, not part of its core.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "pace26",
	Short:         "Read, verify and normalize PACE 2026 phylogenetic-tree instances",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// openInput returns the instance source: the named file, or stdin for
// no argument or "-".
func openInput(args []string) (io.ReadCloser, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(args[0])
}
