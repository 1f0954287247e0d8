package pipeline

import (
	"errors"
	"time"

	"fjacquet/up-budget/internal/dataerror"
	"fjacquet/up-budget/internal/logging"
	"fjacquet/up-budget/internal/models"

	"github.com/google/uuid"
)

// Diagnostic records a raw transaction that was skipped because it could not
// be normalized.
type Diagnostic struct {
	TransactionID string
	Reason        string
	Err           error
}

// Table is the result of one pipeline run.
type Table struct {
	RunID        string
	Transactions []models.CanonicalTransaction
	Diagnostics  []Diagnostic
	// Filtered counts transfers dropped by the normalizer.
	Filtered int
}

// Skipped returns the number of records rejected with a diagnostic.
func (t Table) Skipped() int {
	return len(t.Diagnostics)
}

// TableBuilder runs the normalizer over a full raw transaction collection.
type TableBuilder struct {
	logger logging.Logger
	loc    *time.Location
}

// NewTableBuilder creates a TableBuilder bucketing months in loc.
func NewTableBuilder(logger logging.Logger, loc *time.Location) *TableBuilder {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &TableBuilder{logger: logger, loc: loc}
}

// Build normalizes txs in input order. Bad records are skipped with a
// diagnostic and never abort the run. Empty input yields an empty table.
func (b *TableBuilder) Build(txs []models.RawTransaction, categories []models.RawCategory) Table {
	runID := uuid.NewString()
	log := b.logger.WithField(logging.FieldRunID, runID)

	resolver := NewResolver(categories)
	normalizer := NewNormalizer(resolver, b.loc)

	table := Table{
		RunID:        runID,
		Transactions: make([]models.CanonicalTransaction, 0, len(txs)),
		Diagnostics:  []Diagnostic{},
	}

	for _, raw := range txs {
		canonical, ok, err := normalizer.Normalize(raw)
		if err != nil {
			reason := "normalization failed"
			if errors.Is(err, dataerror.ErrMissingTimestamp) {
				reason = "missing timestamp"
			}
			table.Diagnostics = append(table.Diagnostics, Diagnostic{
				TransactionID: raw.ID,
				Reason:        reason,
				Err:           err,
			})
			log.WithError(err).Warn("Skipping transaction",
				logging.F(logging.FieldTransactionID, raw.ID),
				logging.F(logging.FieldReason, reason))
			continue
		}
		if !ok {
			table.Filtered++
			log.Debug("Filtered internal transfer", logging.F(logging.FieldTransactionID, raw.ID))
			continue
		}
		table.Transactions = append(table.Transactions, canonical)
	}

	log.Debug("Built transaction table",
		logging.F(logging.FieldCount, len(table.Transactions)),
		logging.F("categories", resolver.Len()),
		logging.F("filtered", table.Filtered),
		logging.F("skipped", len(table.Diagnostics)))

	return table
}
