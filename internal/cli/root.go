// Package cli implements the parapply command line.
package cli

import (
	"github.com/spf13/cobra"
)

// Version is reported by --version. Release builds override it with -ldflags.
var Version = "dev"

// NewRootCmd builds the parapply command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "parapply",
		Short: "Apply a function to every group of a CSV table in parallel",
		Long: `parapply groups the rows of a CSV table by one or more key columns, applies a
built-in operation to every group on a pool of workers and writes the recombined table.

Aggregations (sum, mean, ...) produce one row per group; transforms (scale, cumsum, ...)
rewrite the rows of each group. Groups are emitted in completion order unless --sort
is given.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(newRunCmd(), newOpsCmd())
	return root
}
