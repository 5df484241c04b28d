package cli

import (
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/utkarsh5026/parapply/internal/ops"
)

func newOpsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ops",
		Short: "List the built-in operations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header("Operation", "Kind", "Description")
			for _, op := range ops.All() {
				_ = table.Append(op.Name, string(op.Kind), op.Description)
			}
			return table.Render()
		},
	}
}
