package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"fjacquet/up-budget/internal/aggregate"
	"fjacquet/up-budget/internal/dashboard"
	"fjacquet/up-budget/internal/models"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02 15:04"

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func money(d decimal.Decimal) string {
	return models.FormatCurrency(d)
}

func percent(d *decimal.Decimal) string {
	if d == nil {
		return "n/a"
	}
	return d.String() + "%"
}

func writeSource(w io.Writer, src dashboard.SourceStatus) {
	switch {
	case src.UsedFallback:
		fmt.Fprintf(w, "Data source: %s (fell back to mock data for %s)\n", src.Mode, strings.Join(src.FallbackResources, ", "))
	case src.Mode == dashboard.ModeMock:
		fmt.Fprintln(w, "Data source: mock data")
	default:
		fmt.Fprintf(w, "Data source: %s\n", src.Mode)
	}
}

// WriteSummary prints the dashboard headline figures.
func WriteSummary(w io.Writer, s *dashboard.Snapshot) error {
	writeSource(w, s.Source)
	fmt.Fprintf(w, "Current month: %s\n\n", s.CurrentMonth)

	tw := newTable(w)
	fmt.Fprintf(tw, "Total balance\t%s\n", money(s.TotalBalance))
	fmt.Fprintf(tw, "Monthly income\t%s\n", money(s.MonthlyIncome))
	fmt.Fprintf(tw, "Estimated annual income\t%s\n", money(s.EstimatedAnnualIncome))
	fmt.Fprintf(tw, "Expenses (%s)\t%s\n", orNone(s.ExpenseMonth), money(s.TotalExpenses))
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(s.Breakdown) > 0 {
		fmt.Fprintln(w, "\nExpenses by category:")
		tw = newTable(w)
		fmt.Fprintln(tw, "CATEGORY\tAMOUNT\tSHARE")
		for _, share := range s.Breakdown {
			fmt.Fprintf(tw, "%s\t%s\t%s%%\n", share.Category, money(share.Amount), share.Percent.StringFixed(1))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if len(s.MonthlyTotals) > 0 {
		fmt.Fprintln(w, "\nMonthly totals:")
		if err := writeMonthlyTotals(w, s.MonthlyTotals); err != nil {
			return err
		}
	}

	fmt.Fprintf(w, "\n%d transactions, %d transfers filtered, %d skipped", s.TransactionCount, s.TransfersFiltered, len(s.Diagnostics))
	if s.Duplicates > 0 {
		fmt.Fprintf(w, ", %d possible duplicates", s.Duplicates)
	}
	fmt.Fprintln(w)
	for _, d := range s.Diagnostics {
		fmt.Fprintf(w, "  skipped %s: %s\n", d.TransactionID, d.Reason)
	}
	return nil
}

// WriteTransactions prints a period of the canonical table.
func WriteTransactions(w io.Writer, l *dashboard.TransactionList) error {
	writeSource(w, l.Source)
	if !l.Range.IsZero() {
		fmt.Fprintf(w, "Period: %s (%s to %s)\n", l.Period,
			l.Range.Start.Format("2006-01-02"), l.Range.End.AddDate(0, 0, -1).Format("2006-01-02"))
	}
	if len(l.Transactions) == 0 {
		fmt.Fprintln(w, "No transactions.")
		return nil
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "DATE\tDESCRIPTION\tCATEGORY\tAMOUNT\tTAGS")
	for _, tx := range l.Transactions {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			tx.Date.Format(dateLayout), tx.Description, tx.Category, money(tx.Amount), strings.Join(tx.Tags, ","))
	}
	fmt.Fprintf(tw, "\tTotal\t\t%s\t\n", money(l.Total))
	return tw.Flush()
}

// WriteTrend prints the spending trend and the monthly totals.
func WriteTrend(w io.Writer, r *dashboard.TrendReport) error {
	writeSource(w, r.Source)
	if len(r.Points) == 0 {
		fmt.Fprintln(w, "No spending recorded.")
		return nil
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "MONTH\tCATEGORY\tAMOUNT")
	for _, p := range r.Points {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Month, p.Category, money(p.Amount))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	return writeMonthlyTotals(w, r.Totals)
}

// WriteRecommendation prints limits, the spend comparison, the health score
// and advice.
func WriteRecommendation(w io.Writer, r *dashboard.Recommendation) error {
	writeSource(w, r.Source)
	fmt.Fprintf(w, "Income: %s (%s)\n", money(r.Income), r.IncomeSource)
	fmt.Fprintf(w, "Compared month: %s\n\n", orNone(r.ExpenseMonth))

	tw := newTable(w)
	fmt.Fprintln(tw, "CATEGORY\tLIMIT\tSPENT\tUSED\tSTATUS\tMATCHED")
	for _, c := range r.Comparisons {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			c.Category, money(c.Limit), money(c.Spent), percent(c.PercentUsed), c.Status, c.MatchedCategory)
	}
	fmt.Fprintf(tw, "Total\t%s\t\t\t\t\n", money(r.LimitsTotal))
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nFinancial health: %d/100, %s\n", r.HealthScore, r.HealthMessage)
	for _, a := range r.Advice {
		fmt.Fprintf(w, "  - %s\n", a)
	}
	return nil
}

// WriteLedger prints a month of manual entries with totals.
func WriteLedger(w io.Writer, r *LedgerReport) error {
	s := r.Summary
	fmt.Fprintf(w, "Ledger for %s\n", orNone(s.Month))

	if len(r.Expenses) > 0 {
		tw := newTable(w)
		fmt.Fprintln(tw, "DATE\tCATEGORY\tAMOUNT\tDESCRIPTION")
		for _, e := range r.Expenses {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Date.Format("2006-01-02"), e.Category, money(e.Amount), e.Description)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	tw := newTable(w)
	fmt.Fprintf(tw, "Income\t%s\n", money(s.Income))
	fmt.Fprintf(tw, "Expenses\t%s\n", money(s.Expenses))
	fmt.Fprintf(tw, "Remaining\t%s\n", money(s.Remaining))
	return tw.Flush()
}

func writeMonthlyTotals(w io.Writer, totals []aggregate.MonthlyTotal) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "MONTH\tTOTAL\tCHANGE")
	for _, t := range totals {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", t.Month, money(t.Total), percent(t.ChangePercent))
	}
	return tw.Flush()
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
