// Package report renders dashboard results as text, JSON or YAML.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"fjacquet/up-budget/internal/dashboard"
	"fjacquet/up-budget/internal/ledger"
	"fjacquet/up-budget/internal/logging"

	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ReportGenerator renders reports in the supported formats.
type ReportGenerator struct {
	logger logging.Logger
}

// NewReportGenerator creates a new instance of ReportGenerator.
func NewReportGenerator(logger logging.Logger) *ReportGenerator {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &ReportGenerator{logger: logger.WithField("component", "ReportGenerator")}
}

// GenerateReport encodes report as json or yaml.
func (g *ReportGenerator) GenerateReport(report interface{}, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		return g.generateJSONReport(report)
	case FormatYAML:
		return g.generateYAMLReport(report)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

// Render writes report to w. Text output is available for the dashboard
// result types and ledger summaries.
func (g *ReportGenerator) Render(w io.Writer, report interface{}, format string) error {
	if format == "" || format == FormatText {
		return g.renderText(w, report)
	}
	data, err := g.GenerateReport(report, format)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func (g *ReportGenerator) renderText(w io.Writer, report interface{}) error {
	switch r := report.(type) {
	case *dashboard.Snapshot:
		return WriteSummary(w, r)
	case *dashboard.TransactionList:
		return WriteTransactions(w, r)
	case *dashboard.TrendReport:
		return WriteTrend(w, r)
	case *dashboard.Recommendation:
		return WriteRecommendation(w, r)
	case *LedgerReport:
		return WriteLedger(w, r)
	default:
		return fmt.Errorf("no text rendering for %T", report)
	}
}

// LedgerReport is a month of manual entries.
type LedgerReport struct {
	Summary  ledger.Summary   `json:"summary" yaml:"summary"`
	Expenses []ledger.Expense `json:"expenses" yaml:"expenses"`
}

func (g *ReportGenerator) generateJSONReport(report interface{}) ([]byte, error) {
	jsonReport, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return append(jsonReport, '\n'), nil
}

func (g *ReportGenerator) generateYAMLReport(report interface{}) ([]byte, error) {
	yamlReport, err := yaml.Marshal(report)
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal YAML report")
		return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
	}
	return yamlReport, nil
}
