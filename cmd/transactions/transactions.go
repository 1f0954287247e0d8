// Package transactions lists the canonical transaction table.
package transactions

import (
	"context"
	"fmt"
	"io"

	"fjacquet/up-budget/cmd/root"
	"fjacquet/up-budget/internal/container"
	"fjacquet/up-budget/internal/dashboard"
	"fjacquet/up-budget/internal/logging"
	"fjacquet/up-budget/internal/validation"

	"github.com/spf13/cobra"
)

// Options holds the transactions command flags.
type Options struct {
	Today   bool
	Week    bool
	CSVFile string
}

var opts Options

// Cmd represents the transactions command
var Cmd = &cobra.Command{
	Use:   "transactions",
	Short: "List normalized transactions",
	Long: `List the canonical transaction table, newest first. Transfers between your own
accounts are never shown. Use --today or --week to restrict the list to the
current day or Monday-to-Sunday week in the reporting timezone.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(cmd.Context(), root.Container(), cmd.OutOrStdout(), root.SharedFlags.Format, opts)
	},
}

func init() {
	Cmd.Flags().BoolVar(&opts.Today, "today", false, "Only today's transactions")
	Cmd.Flags().BoolVar(&opts.Week, "week", false, "Only this week's transactions")
	Cmd.Flags().StringVar(&opts.CSVFile, "csv", "", "Write the transactions to this CSV file")
	Cmd.MarkFlagsMutuallyExclusive("today", "week")
}

// Period maps the flags to a dashboard period.
func (o Options) Period() dashboard.Period {
	switch {
	case o.Today:
		return dashboard.PeriodToday
	case o.Week:
		return dashboard.PeriodWeek
	default:
		return dashboard.PeriodAll
	}
}

// Run lists transactions to out, or exports them when CSVFile is set.
func Run(ctx context.Context, c *container.Container, out io.Writer, format string, o Options) error {
	if o.CSVFile != "" {
		if err := validation.IsValidOutputFile(o.CSVFile); err != nil {
			return err
		}
	}
	list, err := c.GetDashboard().Transactions(ctx, o.Period())
	if err != nil {
		return err
	}

	if o.CSVFile == "" {
		return c.GetReportGenerator().Render(out, list, format)
	}

	w := c.GetCSVWriter()
	if err := w.WriteFile(o.CSVFile, func(f io.Writer) error {
		return w.WriteTransactions(f, list.Transactions)
	}); err != nil {
		return err
	}
	c.GetLogger().Info("Exported transactions",
		logging.F(logging.FieldCount, len(list.Transactions)),
		logging.F(logging.FieldOutputFile, o.CSVFile))
	_, err = fmt.Fprintf(out, "Wrote %d transactions to %s\n", len(list.Transactions), o.CSVFile)
	return err
}
