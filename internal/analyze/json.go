package analyze

import (
	"encoding/json"
	"log"
	"strings"

	"github.com/reviewpulse/reviewpulse/internal/store"
)

// ParseAnalysisResponse parses the classifier's JSON response, handling
// markdown code fences. Returns nil when the response is not usable.
func ParseAnalysisResponse(text string) *store.Analysis {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	// Strip markdown code fences
	if strings.HasPrefix(text, "```") {
		lines := strings.Split(text, "\n")
		endIdx := len(lines) - 1
		for i := len(lines) - 1; i > 0; i-- {
			if strings.TrimSpace(lines[i]) == "```" {
				endIdx = i
				break
			}
		}
		text = strings.Join(lines[1:endIdx], "\n")
	}

	var analysis store.Analysis
	if err := json.Unmarshal([]byte(text), &analysis); err != nil {
		log.Printf("Failed to parse analysis response as JSON: %v", err)
		return nil
	}

	switch analysis.Sentiment {
	case store.SentimentPositive, store.SentimentNeutral, store.SentimentNegative:
	default:
		analysis.Sentiment = store.SentimentNeutral
	}
	if analysis.ProblemType != nil && *analysis.ProblemType == "" {
		analysis.ProblemType = nil
	}

	return &analysis
}
