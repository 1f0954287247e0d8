package budget

import (
	"context"
	"sort"
	"strings"

	"fjacquet/up-budget/internal/logging"
)

// MatchStrategy finds which observed provider category corresponds to a
// recommendation category.
type MatchStrategy interface {
	// Match returns the observed category name and true on a match. An error
	// means the strategy could not decide; the matcher moves on.
	Match(ctx context.Context, recommendation string, observed []string) (string, bool, error)

	// Name returns the name of this strategy for logging and debugging purposes.
	Name() string
}

// MappingStrategy matches through an explicit table of recommendation
// category -> provider category names. Names compare case-insensitively.
type MappingStrategy struct {
	table  map[string][]string
	logger logging.Logger
}

// NewMappingStrategy creates a MappingStrategy. A nil table uses
// DefaultMappings.
func NewMappingStrategy(table map[string][]string, logger logging.Logger) *MappingStrategy {
	if table == nil {
		table = DefaultMappings()
	}
	normalized := make(map[string][]string, len(table))
	for recommendation, names := range table {
		key := strings.ToLower(strings.TrimSpace(recommendation))
		normalized[key] = append(normalized[key], names...)
	}
	return &MappingStrategy{table: normalized, logger: logger}
}

// Name returns the name of this strategy for logging and debugging.
func (s *MappingStrategy) Name() string {
	return "Mapping"
}

// Match returns the first mapped provider name, in table order, that was
// observed.
func (s *MappingStrategy) Match(_ context.Context, recommendation string, observed []string) (string, bool, error) {
	names, ok := s.table[strings.ToLower(strings.TrimSpace(recommendation))]
	if !ok {
		return "", false, nil
	}
	for _, name := range names {
		for _, obs := range observed {
			if strings.EqualFold(strings.TrimSpace(name), strings.TrimSpace(obs)) {
				return obs, true, nil
			}
		}
	}
	return "", false, nil
}

// Mappings returns a copy of the table, keyed by lower-cased recommendation.
func (s *MappingStrategy) Mappings() map[string][]string {
	out := make(map[string][]string, len(s.table))
	for k, v := range s.table {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// DefaultMappings returns the built-in table from recommendation categories
// to Up category names.
func DefaultMappings() map[string][]string {
	return map[string][]string{
		CategoryHousing:        {"Housing", "Rent", "Mortgage", "Home", "Rates & Insurance", "Home Maintenance & Improvements"},
		CategoryFood:           {"Food & Drink", "Food", "Groceries", "Dining Out", "Restaurants & Cafes", "Takeaway"},
		CategoryTransportation: {"Transportation", "Transport", "Public Transport", "Fuel", "Car Repayments", "Taxis & Share Cars", "Parking", "Tolls"},
		CategoryUtilities:      {"Utilities", "Internet", "Mobile Phone", "Home Utilities"},
		CategoryEntertainment:  {"Entertainment", "TV & Music", "Games & Software", "Events & Gigs", "Hobbies", "Apps, Games & Software"},
		CategoryHealthcare:     {"Healthcare", "Health & Medical", "Health"},
		CategoryPersonal:       {"Personal", "Clothing & Accessories", "Hair & Beauty", "Fitness & Wellbeing", "Gifts & Charity"},
		CategorySavings:        {"Savings", "Investments"},
		CategoryDebt:           {"Debt", "Loans", "Debt Repayments", "Credit Card"},
		CategoryOther:          {"Other", "Miscellaneous"},
	}
}

// SubstringStrategy is the last-resort matcher: either name contains the
// other, ignoring case. Observed names are tried in sorted order so the
// outcome does not depend on map iteration.
type SubstringStrategy struct{}

// NewSubstringStrategy creates a SubstringStrategy.
func NewSubstringStrategy() *SubstringStrategy {
	return &SubstringStrategy{}
}

// Name returns the name of this strategy for logging and debugging.
func (s *SubstringStrategy) Name() string {
	return "Substring"
}

// Match returns the first observed name related by substring.
func (s *SubstringStrategy) Match(_ context.Context, recommendation string, observed []string) (string, bool, error) {
	rec := strings.ToLower(strings.TrimSpace(recommendation))
	if rec == "" {
		return "", false, nil
	}
	for _, obs := range sortedCopy(observed) {
		o := strings.ToLower(strings.TrimSpace(obs))
		if o == "" {
			continue
		}
		if strings.Contains(rec, o) || strings.Contains(o, rec) {
			return obs, true, nil
		}
	}
	return "", false, nil
}

func sortedCopy(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}
