package budget

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fjacquet/up-budget/internal/logging"

	"github.com/google/generative-ai-go/genai"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
)

// GeminiConfig configures the Gemini category matcher.
type GeminiConfig struct {
	APIKey            string
	Model             string
	RequestsPerMinute int
	Timeout           time.Duration
}

// contentGenerator is the part of *genai.GenerativeModel the client uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiClient implements AIClient with the Google Gemini API.
type GeminiClient struct {
	client  *genai.Client
	model   contentGenerator
	limiter *rate.Limiter
	timeout time.Duration
	logger  logging.Logger
}

// NewGeminiClient connects to Gemini. Requests are throttled to
// RequestsPerMinute.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig, logger logging.Logger) (*GeminiClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.SetTemperature(0)

	c := newGeminiClient(model, cfg, logger)
	c.client = client
	return c, nil
}

func newGeminiClient(model contentGenerator, cfg GeminiConfig, logger logging.Logger) *GeminiClient {
	rpm := cfg.RequestsPerMinute
	if rpm < 1 {
		rpm = 1
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &GeminiClient{
		model:   model,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1),
		timeout: timeout,
		logger:  logger,
	}
}

// MatchCategory asks Gemini which observed category corresponds to
// recommendation.
func (c *GeminiClient) MatchCategory(ctx context.Context, recommendation string, observed []string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	prompt := buildMatchPrompt(recommendation, observed)
	c.logger.Debug("Requesting category match from Gemini",
		logging.F(logging.FieldOperation, "gemini_match"),
		logging.F(logging.FieldCategory, recommendation))

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from Gemini API")
	}

	responseText := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])
	return extractCategoryFromResponse(responseText, observed), nil
}

// Close releases the underlying client.
func (c *GeminiClient) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

func buildMatchPrompt(recommendation string, observed []string) string {
	return fmt.Sprintf(`A budget has a spending category named "%s".
Which one of the following bank transaction categories belongs to it?
%s

Respond in this format:
Category: [Exact category name from the list, or NONE]`,
		recommendation,
		"- "+strings.Join(observed, "\n- "))
}

// extractCategoryFromResponse parses "Category: X" from the answer. Without
// that line it falls back to the first observed name mentioned anywhere.
func extractCategoryFromResponse(response string, observed []string) string {
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "Category:") {
			answer := strings.Trim(strings.TrimSpace(strings.TrimPrefix(line, "Category:")), `"'[]`)
			if strings.EqualFold(answer, "none") {
				return ""
			}
			return answer
		}
	}

	lower := strings.ToLower(response)
	for _, name := range sortedCopy(observed) {
		if name != "" && strings.Contains(lower, strings.ToLower(name)) {
			return name
		}
	}
	return ""
}
