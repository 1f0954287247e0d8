// Package trend prints monthly spending per category.
package trend

import (
	"context"
	"fmt"
	"io"

	"fjacquet/up-budget/cmd/root"
	"fjacquet/up-budget/internal/container"
	"fjacquet/up-budget/internal/validation"

	"github.com/spf13/cobra"
)

// Options holds the trend command flags.
type Options struct {
	CSVFile       string
	TotalsCSVFile string
}

var opts Options

// Cmd represents the trend command
var Cmd = &cobra.Command{
	Use:   "trend",
	Short: "Show monthly spending per category and month-over-month totals",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(cmd.Context(), root.Container(), cmd.OutOrStdout(), root.SharedFlags.Format, opts)
	},
}

func init() {
	Cmd.Flags().StringVar(&opts.CSVFile, "csv", "", "Write the per-category trend to this CSV file")
	Cmd.Flags().StringVar(&opts.TotalsCSVFile, "totals-csv", "", "Write the monthly totals to this CSV file")
}

// Run renders the trend to out and writes any requested CSV files.
func Run(ctx context.Context, c *container.Container, out io.Writer, format string, o Options) error {
	for _, path := range []string{o.CSVFile, o.TotalsCSVFile} {
		if path == "" {
			continue
		}
		if err := validation.IsValidOutputFile(path); err != nil {
			return err
		}
	}
	r, err := c.GetDashboard().Trend(ctx)
	if err != nil {
		return err
	}

	w := c.GetCSVWriter()
	if o.CSVFile != "" {
		if err := w.WriteFile(o.CSVFile, func(f io.Writer) error { return w.WriteTrend(f, r.Points) }); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %d trend rows to %s\n", len(r.Points), o.CSVFile)
	}
	if o.TotalsCSVFile != "" {
		if err := w.WriteFile(o.TotalsCSVFile, func(f io.Writer) error { return w.WriteMonthlyTotals(f, r.Totals) }); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %d monthly totals to %s\n", len(r.Totals), o.TotalsCSVFile)
	}
	if o.CSVFile != "" || o.TotalsCSVFile != "" {
		return nil
	}
	return c.GetReportGenerator().Render(out, r, format)
}
