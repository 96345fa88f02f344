// Package gemini provides a sentiment client backed by the Google Gemini API
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/jmorrell/stockgraph/internal/common"
	"github.com/jmorrell/stockgraph/internal/interfaces"
	"github.com/jmorrell/stockgraph/internal/models"
)

const DefaultModel = "gemini-2.0-flash"

// Client implements the SentimentClient interface
type Client struct {
	client *genai.Client
	model  string
	logger *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithModel sets the model to use
func WithModel(model string) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Gemini sentiment client
func NewClient(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	c := &Client{
		client: genaiClient,
		model:  DefaultModel,
		logger: common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// AnalyzeSentiment asks the model for a sentiment reading on a ticker. The
// scoring is entirely the model's; a failed call surfaces as an error and is
// never replaced with synthesized data.
func (c *Client) AnalyzeSentiment(ctx context.Context, ticker string) (*models.StockSentiment, error) {
	c.logger.Debug().Str("ticker", ticker).Str("model", c.model).Msg("Analyzing sentiment")

	prompt := buildSentimentPrompt(ticker)
	contents := genai.Text(prompt)

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate sentiment for %s: %w", ticker, err)
	}

	text, err := extractTextFromResponse(result)
	if err != nil {
		return nil, err
	}

	sentiment, err := parseSentimentResponse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse sentiment response for %s: %w", ticker, err)
	}

	sentiment.Ticker = ticker
	sentiment.GeneratedAt = time.Now()
	return sentiment, nil
}

// buildSentimentPrompt creates the prompt for a sentiment reading.
func buildSentimentPrompt(ticker string) string {
	return fmt.Sprintf(`You are a financial sentiment analyst. Assess the current market sentiment for the stock %s based on recent news, earnings, and market conditions you know about.

Return ONLY valid JSON:
{
  "label": "positive|neutral|negative",
  "confidence": 0.0,
  "summary": "2-3 sentence rationale for the sentiment reading"
}

Rules:
- confidence is a number between 0 and 1
- Return ONLY the JSON object, no markdown code fences, no explanation`, ticker)
}

// sentimentResponse is the expected JSON shape from Gemini.
type sentimentResponse struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Summary    string  `json:"summary"`
}

// parseSentimentResponse parses the model's JSON response.
func parseSentimentResponse(response string) (*models.StockSentiment, error) {
	// Strip markdown code fences if present
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	response = strings.TrimSpace(response)

	var data sentimentResponse
	if err := json.Unmarshal([]byte(response), &data); err != nil {
		return nil, err
	}

	label := strings.ToLower(data.Label)
	switch label {
	case models.SentimentPositive, models.SentimentNeutral, models.SentimentNegative:
	default:
		return nil, fmt.Errorf("unexpected sentiment label %q", data.Label)
	}

	confidence := data.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	return &models.StockSentiment{
		Label:      label,
		Confidence: confidence,
		Summary:    data.Summary,
	}, nil
}

// extractTextFromResponse extracts text from a generate content response
func extractTextFromResponse(result *genai.GenerateContentResponse) (string, error) {
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	text := ""
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}

	return text, nil
}

// Ensure Client implements SentimentClient
var _ interfaces.SentimentClient = (*Client)(nil)
