package pipeline

import (
	"time"

	"fjacquet/up-budget/internal/dataerror"
	"fjacquet/up-budget/internal/dateutils"
	"fjacquet/up-budget/internal/models"
)

// Normalizer converts one raw transaction into its canonical form.
type Normalizer struct {
	resolver *Resolver
	loc      *time.Location
}

// NewNormalizer creates a Normalizer that buckets months in loc. A nil loc
// keeps each timestamp's own offset.
func NewNormalizer(resolver *Resolver, loc *time.Location) *Normalizer {
	if resolver == nil {
		resolver = NewResolver(nil)
	}
	return &Normalizer{resolver: resolver, loc: loc}
}

// Normalize returns the canonical transaction and true, or false when the
// record is a transfer. A record with no timestamp yields a
// *dataerror.MissingTimestampError.
func (n *Normalizer) Normalize(tx models.RawTransaction) (models.CanonicalTransaction, bool, error) {
	// Transfers are dropped before anything else is looked at.
	if tx.IsTransfer() {
		return models.CanonicalTransaction{}, false, nil
	}

	var date time.Time
	switch {
	case tx.SettledAt != nil:
		date = *tx.SettledAt
	case tx.CreatedAt != nil:
		date = *tx.CreatedAt
	default:
		return models.CanonicalTransaction{}, false, &dataerror.MissingTimestampError{TransactionID: tx.ID}
	}
	if n.loc != nil {
		date = date.In(n.loc)
	}

	tags := make([]string, len(tx.Tags))
	copy(tags, tx.Tags)

	return models.CanonicalTransaction{
		ID:              tx.ID,
		Date:            date,
		Description:     tx.Description,
		Amount:          tx.Amount,
		Category:        n.resolver.Resolve(tx.CategoryID),
		AccountID:       tx.AccountID,
		RawText:         tx.RawText,
		Tags:            tags,
		TransactionType: tx.TransactionType,
		Message:         tx.Message,
		Month:           dateutils.MonthKey(date, n.loc),
	}, true, nil
}
