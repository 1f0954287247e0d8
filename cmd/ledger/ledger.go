// Package ledger manages manual expense entries and the recorded income.
package ledger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"fjacquet/up-budget/cmd/root"
	"fjacquet/up-budget/internal/container"
	"fjacquet/up-budget/internal/currencyutils"
	"fjacquet/up-budget/internal/dataerror"
	"fjacquet/up-budget/internal/dateutils"
	entries "fjacquet/up-budget/internal/ledger"
	"fjacquet/up-budget/internal/logging"
	"fjacquet/up-budget/internal/models"
	"fjacquet/up-budget/internal/report"
	"fjacquet/up-budget/internal/validation"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// AddOptions holds the ledger add flags.
type AddOptions struct {
	Amount      string
	Category    string
	Date        string
	Description string
}

// ListOptions holds the ledger list flags.
type ListOptions struct {
	Month   string
	CSVFile string
}

var (
	addOpts  AddOptions
	listOpts ListOptions
)

// Cmd represents the ledger command
var Cmd = &cobra.Command{
	Use:   "ledger",
	Short: "Record manual expenses and your monthly income",
	Long: `Keep a local ledger of expenses that do not appear in your bank feed, together
with the monthly income you budget against. Entries are stored in a SQLite
database (ledger.path in the configuration).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an expense",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunAdd(cmd.Context(), root.Container(), cmd.OutOrStdout(), root.SharedFlags.Format, addOpts)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List a month of expenses with totals",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunList(cmd.Context(), root.Container(), cmd.OutOrStdout(), root.SharedFlags.Format, listOpts)
	},
}

var incomeCmd = &cobra.Command{
	Use:   "income [amount]",
	Short: "Show or set the monthly income",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount := ""
		if len(args) == 1 {
			amount = args[0]
		}
		return RunIncome(cmd.Context(), root.Container(), cmd.OutOrStdout(), root.SharedFlags.Format, amount)
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Import expenses from a CSV file (date,amount,category,description)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunImport(cmd.Context(), root.Container(), cmd.OutOrStdout(), args[0])
	},
}

func init() {
	addCmd.Flags().StringVarP(&addOpts.Amount, "amount", "a", "", "Amount spent")
	addCmd.Flags().StringVarP(&addOpts.Category, "category", "c", "", "Expense category")
	addCmd.Flags().StringVarP(&addOpts.Date, "date", "d", "", "Date of the expense (default: today)")
	addCmd.Flags().StringVarP(&addOpts.Description, "description", "n", "", "Free-text note")
	_ = addCmd.MarkFlagRequired("amount")
	_ = addCmd.MarkFlagRequired("category")

	listCmd.Flags().StringVarP(&listOpts.Month, "month", "m", "", "Month to list as YYYY-MM (default: current month)")
	listCmd.Flags().StringVar(&listOpts.CSVFile, "csv", "", "Write the expenses to this CSV file")

	Cmd.AddCommand(addCmd, listCmd, incomeCmd, importCmd)
}

func parseAmount(field, s string) (decimal.Decimal, error) {
	d, err := currencyutils.ParseAmount(s)
	if err != nil {
		return decimal.Zero, &dataerror.ValidationError{Field: field, Reason: fmt.Sprintf("%q is not a number", s)}
	}
	return d, nil
}

// RunAdd stores one expense and prints it.
func RunAdd(ctx context.Context, c *container.Container, out io.Writer, format string, o AddOptions) error {
	amount, err := parseAmount("amount", o.Amount)
	if err != nil {
		return err
	}

	date := dateutils.StartOfDay(c.Now())
	if o.Date != "" {
		date, _, err = dateutils.ParseDate(o.Date, c.GetLocation())
		if err != nil {
			return &dataerror.ValidationError{Field: "date", Reason: err.Error()}
		}
	}

	l, err := c.Ledger(ctx)
	if err != nil {
		return err
	}
	saved, err := l.AddExpense(ctx, entries.Expense{
		Date:        date,
		Amount:      amount,
		Category:    o.Category,
		Description: o.Description,
	})
	if err != nil {
		return err
	}

	if format != report.FormatText {
		return c.GetReportGenerator().Render(out, saved, format)
	}
	_, err = fmt.Fprintf(out, "Saved %s %s on %s (%s)\n",
		saved.Category, saved.Amount.StringFixed(2), saved.Date.Format(dateutils.DateLayoutISO), saved.ID)
	return err
}

// RunList prints one month of expenses, or exports them when CSVFile is set.
func RunList(ctx context.Context, c *container.Container, out io.Writer, format string, o ListOptions) error {
	month := strings.TrimSpace(o.Month)
	if month == "" {
		month = c.Now().Format(models.MonthKeyLayout)
	}
	if err := validation.IsValidMonthKey(month); err != nil {
		return err
	}
	if o.CSVFile != "" {
		if err := validation.IsValidOutputFile(o.CSVFile); err != nil {
			return err
		}
	}

	l, err := c.Ledger(ctx)
	if err != nil {
		return err
	}
	expenses, err := l.ListExpenses(ctx, month)
	if err != nil {
		return err
	}

	if o.CSVFile != "" {
		w := c.GetCSVWriter()
		if err := w.WriteFile(o.CSVFile, func(f io.Writer) error { return w.WriteExpenses(f, expenses) }); err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "Wrote %d expenses to %s\n", len(expenses), o.CSVFile)
		return err
	}

	summary, err := l.MonthSummary(ctx, month)
	if err != nil {
		return err
	}
	return c.GetReportGenerator().Render(out, &report.LedgerReport{Summary: summary, Expenses: expenses}, format)
}

// RunIncome records amount as the monthly income when given, then prints the
// current month's ledger totals.
func RunIncome(ctx context.Context, c *container.Container, out io.Writer, format, amount string) error {
	l, err := c.Ledger(ctx)
	if err != nil {
		return err
	}

	if strings.TrimSpace(amount) != "" {
		income, err := parseAmount("income", amount)
		if err != nil {
			return err
		}
		if err := l.SetIncome(ctx, income); err != nil {
			return err
		}
	}

	summary, err := l.MonthSummary(ctx, c.Now().Format(models.MonthKeyLayout))
	if err != nil {
		return err
	}
	return c.GetReportGenerator().Render(out, &report.LedgerReport{Summary: summary}, format)
}

// RunImport adds every expense of a CSV file. Rows are validated before any
// is stored.
func RunImport(ctx context.Context, c *container.Container, out io.Writer, path string) error {
	if err := validation.IsValidInputFile(path); err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	expenses, err := c.GetCSVWriter().ReadExpenses(f)
	if err != nil {
		return err
	}
	for i, e := range expenses {
		if !e.Amount.IsPositive() || strings.TrimSpace(e.Category) == "" {
			return &dataerror.ValidationError{Field: fmt.Sprintf("row %d", i+1), Reason: "amount must be positive and category set"}
		}
	}

	l, err := c.Ledger(ctx)
	if err != nil {
		return err
	}
	for _, e := range expenses {
		if _, err := l.AddExpense(ctx, e); err != nil {
			return err
		}
	}

	c.GetLogger().Info("Imported expenses",
		logging.F(logging.FieldCount, len(expenses)),
		logging.F("file", path))
	_, err = fmt.Fprintf(out, "Imported %d expenses from %s\n", len(expenses), path)
	return err
}
