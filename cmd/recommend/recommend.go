// Package recommend prints budget recommendations.
package recommend

import (
	"context"
	"fmt"
	"io"
	"strings"

	"fjacquet/up-budget/cmd/root"
	"fjacquet/up-budget/internal/container"
	"fjacquet/up-budget/internal/currencyutils"
	"fjacquet/up-budget/internal/dataerror"
	"fjacquet/up-budget/internal/validation"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// Options holds the recommend command flags.
type Options struct {
	Income  string
	CSVFile string
}

var opts Options

// Cmd represents the recommend command
var Cmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend spending limits and compare them with this month's spending",
	Long: `Split a monthly income into recommended spending limits per budget category,
compare them with the categories you actually spent in, and rate your
financial health. Without --income the salary received this month is used.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(cmd.Context(), root.Container(), cmd.OutOrStdout(), root.SharedFlags.Format, opts)
	},
}

func init() {
	Cmd.Flags().StringVar(&opts.Income, "income", "", "Monthly income to budget for (default: observed salary)")
	Cmd.Flags().StringVar(&opts.CSVFile, "csv", "", "Write the spend comparison to this CSV file")
}

// ParseIncome parses the --income value; "" means not provided.
func ParseIncome(s string) (*decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	income, err := currencyutils.ParseAmount(s)
	if err != nil {
		return nil, &dataerror.ValidationError{Field: "income", Reason: fmt.Sprintf("%q is not a number", s)}
	}
	if income.IsNegative() {
		return nil, &dataerror.ValidationError{Field: "income", Reason: "must not be negative"}
	}
	return &income, nil
}

// Run renders the recommendation to out.
func Run(ctx context.Context, c *container.Container, out io.Writer, format string, o Options) error {
	income, err := ParseIncome(o.Income)
	if err != nil {
		return err
	}
	if o.CSVFile != "" {
		if err := validation.IsValidOutputFile(o.CSVFile); err != nil {
			return err
		}
	}

	rec, err := c.GetDashboard().Recommend(ctx, income)
	if err != nil {
		return err
	}

	if o.CSVFile != "" {
		w := c.GetCSVWriter()
		if err := w.WriteFile(o.CSVFile, func(f io.Writer) error { return w.WriteComparisons(f, rec.Comparisons) }); err != nil {
			return err
		}
	}
	return c.GetReportGenerator().Render(out, rec, format)
}
