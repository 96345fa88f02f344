package models

import "time"

// Sentiment labels returned by the AI provider.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// StockSentiment is an AI-derived sentiment reading for one ticker. The scoring
// itself happens inside the external model call; this type only carries the
// opaque label, confidence, and supporting summary text.
type StockSentiment struct {
	Ticker      string    `json:"ticker"`
	Label       string    `json:"label"`
	Confidence  float64   `json:"confidence"`
	Summary     string    `json:"summary"`
	GeneratedAt time.Time `json:"generated_at"`
}
