// Package summary prints the headline dashboard figures.
package summary

import (
	"context"
	"io"

	"fjacquet/up-budget/cmd/root"
	"fjacquet/up-budget/internal/container"

	"github.com/spf13/cobra"
)

// Cmd represents the summary command
var Cmd = &cobra.Command{
	Use:   "summary",
	Short: "Show balance, income, spending by category and monthly totals",
	Long: `Show the total balance across accounts, this month's income, the estimated
annual income, expenses by category with their share, the monthly spending
totals and where the data came from.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(cmd.Context(), root.Container(), cmd.OutOrStdout(), root.SharedFlags.Format)
	},
}

// Run renders the dashboard summary to out.
func Run(ctx context.Context, c *container.Container, out io.Writer, format string) error {
	snap, err := c.GetDashboard().Summary(ctx)
	if err != nil {
		return err
	}
	if snap.Source.UsedFallback {
		c.GetLogger().Warn("Showing mock data: the Up API could not be reached")
	}
	return c.GetReportGenerator().Render(out, snap, format)
}
