package budget

import (
	"context"
	"strings"

	"fjacquet/up-budget/internal/logging"
)

// AIClient picks, among observed provider categories, the one that best
// corresponds to a recommendation category. It returns "" when none fits.
type AIClient interface {
	MatchCategory(ctx context.Context, recommendation string, observed []string) (string, error)
}

// AIStrategy asks an AIClient to match the categories that neither the
// mapping table nor substring matching could place.
type AIStrategy struct {
	aiClient AIClient
	logger   logging.Logger
}

// NewAIStrategy creates a new AIStrategy instance.
func NewAIStrategy(aiClient AIClient, logger logging.Logger) *AIStrategy {
	return &AIStrategy{
		aiClient: aiClient,
		logger:   logger,
	}
}

// Name returns the name of this strategy for logging and debugging.
func (s *AIStrategy) Name() string {
	return "AI"
}

// Match only accepts answers that name one of the observed categories. Client
// failures are logged and reported as no match.
func (s *AIStrategy) Match(ctx context.Context, recommendation string, observed []string) (string, bool, error) {
	if s.aiClient == nil || len(observed) == 0 {
		return "", false, nil
	}

	answer, err := s.aiClient.MatchCategory(ctx, recommendation, observed)
	if err != nil {
		s.logger.WithError(err).WithFields(
			logging.F("strategy", s.Name()),
			logging.F(logging.FieldCategory, recommendation),
		).Warn("AI category matching failed")
		return "", false, nil
	}

	answer = strings.TrimSpace(answer)
	for _, obs := range observed {
		if strings.EqualFold(obs, answer) {
			s.logger.Debug("AI matched category",
				logging.F("strategy", s.Name()),
				logging.F(logging.FieldCategory, recommendation),
				logging.F("observed", obs))
			return obs, true, nil
		}
	}

	if answer != "" {
		s.logger.Debug("AI answer is not an observed category",
			logging.F(logging.FieldCategory, recommendation),
			logging.F("answer", answer))
	}
	return "", false, nil
}
