package budget

import (
	"context"

	"fjacquet/up-budget/internal/logging"
)

// Match is the outcome of matching one recommendation category.
type Match struct {
	Observed string
	Strategy string
}

// Matcher resolves recommendation categories to observed provider
// categories by trying its strategies in order. Only the first match counts.
type Matcher struct {
	strategies []MatchStrategy
	logger     logging.Logger
}

// NewMatcher creates a Matcher over the given strategies, tried in order.
func NewMatcher(logger logging.Logger, strategies ...MatchStrategy) *Matcher {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Matcher{strategies: strategies, logger: logger}
}

// NewDefaultMatcher uses the mapping table, then substring matching.
func NewDefaultMatcher(table map[string][]string, logger logging.Logger) *Matcher {
	return NewMatcher(logger, NewMappingStrategy(table, logger), NewSubstringStrategy())
}

// Strategies returns the names of the configured strategies, in order.
func (m *Matcher) Strategies() []string {
	names := make([]string, 0, len(m.strategies))
	for _, s := range m.strategies {
		names = append(names, s.Name())
	}
	return names
}

// Match returns the first strategy's match for recommendation.
func (m *Matcher) Match(ctx context.Context, recommendation string, observed []string) (Match, bool) {
	for _, strategy := range m.strategies {
		if err := ctx.Err(); err != nil {
			return Match{}, false
		}
		name, ok, err := strategy.Match(ctx, recommendation, observed)
		if err != nil {
			m.logger.WithError(err).Warn("Category match strategy failed",
				logging.F("strategy", strategy.Name()),
				logging.F(logging.FieldCategory, recommendation))
			continue
		}
		if ok {
			m.logger.Debug("Matched recommendation category",
				logging.F("strategy", strategy.Name()),
				logging.F(logging.FieldCategory, recommendation),
				logging.F("observed", name))
			return Match{Observed: name, Strategy: strategy.Name()}, true
		}
	}
	return Match{}, false
}
