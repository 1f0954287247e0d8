package aggregate

import (
	"strings"

	"fjacquet/up-budget/internal/logging"
	"fjacquet/up-budget/internal/models"
)

// DuplicatePair is two transactions that look like the same purchase.
type DuplicatePair struct {
	First  models.CanonicalTransaction
	Second models.CanonicalTransaction
}

// DetectDuplicates finds potential duplicate transactions and logs a warning
// for each. Nothing is removed from the table.
func DetectDuplicates(table []models.CanonicalTransaction, logger logging.Logger) []DuplicatePair {
	pairs := make([]DuplicatePair, 0)

	for i := 0; i < len(table)-1; i++ {
		for j := i + 1; j < len(table); j++ {
			if arePotentialDuplicates(table[i], table[j]) {
				pairs = append(pairs, DuplicatePair{First: table[i], Second: table[j]})
				if logger != nil {
					logger.Warn("Potential duplicate transaction",
						logging.F(logging.FieldTransactionID, table[i].ID),
						logging.F("duplicate_of", table[j].ID),
						logging.F("date", table[i].Date.Format("2006-01-02")),
						logging.F("amount", table[i].Amount.String()),
						logging.F("description", table[i].Description))
				}
				// Only report once per transaction
				break
			}
		}
	}

	if len(pairs) > 0 && logger != nil {
		logger.Warn("Found potential duplicate transactions", logging.F(logging.FieldCount, len(pairs)))
	}
	return pairs
}

// arePotentialDuplicates checks if two transactions might be duplicates:
// same calendar day, same amount, same description ignoring case.
func arePotentialDuplicates(a, b models.CanonicalTransaction) bool {
	if a.Date.Format("2006-01-02") != b.Date.Format("2006-01-02") {
		return false
	}

	if !a.Amount.Equal(b.Amount) {
		return false
	}

	descA := strings.ToLower(strings.TrimSpace(a.Description))
	descB := strings.ToLower(strings.TrimSpace(b.Description))
	return descA == descB
}
