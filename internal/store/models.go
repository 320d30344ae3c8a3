package store

// Sentiment labels assigned by the analyzer.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// AnalyzedItem is one feedback record after sentiment/classification
// enrichment. It is the sole input to the aggregation engine and is treated
// as immutable once loaded.
type AnalyzedItem struct {
	ID         string   `json:"id"`
	SourceType string   `json:"source_type"`
	SourceName string   `json:"source_name"`
	IsTarget   bool     `json:"is_target"`
	Text       string   `json:"text"`
	Rating     *float64 `json:"rating,omitempty"`
	CreatedAt  string   `json:"created_at,omitempty"`
	AnalyzedAt string   `json:"analyzed_at,omitempty"`
	Analysis   Analysis `json:"analysis"`
}

// Analysis holds the classification results for a single item.
type Analysis struct {
	Sentiment          string   `json:"sentiment"`
	ProblemType        *string  `json:"problem_type"`
	KeyPhrases         []string `json:"key_phrases,omitempty"`
	ChurnSignal        bool     `json:"churn_signal"`
	ChurnKeywords      []string `json:"churn_keywords,omitempty"`
	CompetitorMentions []string `json:"competitor_mentions,omitempty"`
}

// Date returns the calendar-day bucket key (YYYY-MM-DD) for the item,
// or "" when created_at is missing or too short.
func (it *AnalyzedItem) Date() string {
	if len(it.CreatedAt) < 10 {
		return ""
	}
	return it.CreatedAt[:10]
}

// normalize applies the explicit field defaults: an absent or unknown
// sentiment becomes neutral so every record is processable.
func (it *AnalyzedItem) normalize() {
	switch it.Analysis.Sentiment {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
	default:
		it.Analysis.Sentiment = SentimentNeutral
	}
}
