package analyze

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/reviewpulse/reviewpulse/internal/config"
	"github.com/reviewpulse/reviewpulse/internal/database"
	"github.com/reviewpulse/reviewpulse/internal/store"
)

const analysisPrompt = `You are classifying customer feedback about %s (AI English tutoring) and its competitors.

Feedback text:
"%s"

Known competitors: %s

Respond with ONLY this JSON:
{
    "sentiment": "positive" | "neutral" | "negative",
    "problem_type": "Audio Quality" | "App Stability" | "Tutor Matching" | "Pricing" | "UI/UX" | "Curriculum" | null,
    "key_phrases": ["1-3 short phrases, original language"],
    "churn_signal": true or false,
    "churn_keywords": ["keywords indicating intent to quit, e.g. refund, cancel"],
    "competitor_mentions": ["competitor names mentioned, from the known list"]
}

problem_type is null unless the feedback describes a concrete problem.
churn_signal is true only when the author indicates quitting or switching away.`

// Result holds the results of an analysis run.
type Result struct {
	Processed int
	Skipped   int
	Errors    int
}

// Analyzer classifies raw feedback items and writes analyzed item
// documents for the aggregation engine.
type Analyzer struct {
	db       *database.DB
	store    *store.Store
	provider Provider
	cfg      *config.Config
	maxTok   int
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer(cfg *config.Config, db *database.DB, st *store.Store, provider Provider) *Analyzer {
	maxTok := cfg.Analysis.MaxTokens
	if maxTok <= 0 {
		maxTok = 300
	}
	return &Analyzer{db: db, store: st, provider: provider, cfg: cfg, maxTok: maxTok}
}

// AnalyzeItems classifies all pending raw items. Per-item failures are
// logged and skipped; the run continues.
func (a *Analyzer) AnalyzeItems(ctx context.Context) *Result {
	if a.provider == nil {
		log.Println("No analysis provider available")
		return &Result{Errors: 1}
	}

	items, err := a.db.GetUnanalyzedItems()
	if err != nil {
		log.Printf("Error getting unanalyzed items: %v", err)
		return &Result{Errors: 1}
	}

	if len(items) == 0 {
		log.Println("No items pending analysis")
		return &Result{}
	}

	log.Printf("Analyzing %d items...", len(items))
	competitors := strings.Join(a.cfg.CompetitorNames(), ", ")

	result := &Result{}
	for i := range items {
		item := &items[i]
		if strings.TrimSpace(item.Text) == "" {
			result.Skipped++
			continue
		}

		prompt := fmt.Sprintf(analysisPrompt, a.cfg.TargetName(), item.Text, competitors)
		response, err := a.provider.Generate(ctx, prompt, a.maxTok)
		if err != nil {
			log.Printf("Error analyzing item %d: %v", item.ID, err)
			result.Errors++
			continue
		}

		analysis := ParseAnalysisResponse(response)
		if analysis == nil {
			log.Printf("Unparseable analysis for item %d", item.ID)
			result.Errors++
			continue
		}

		analyzed := buildAnalyzedItem(item, analysis)
		if err := a.store.WriteAnalyzedItem(analyzed); err != nil {
			log.Printf("Error writing analyzed item %d: %v", item.ID, err)
			result.Errors++
			continue
		}
		if err := a.db.MarkItemAnalyzed(item.ID); err != nil {
			log.Printf("Error marking item %d analyzed: %v", item.ID, err)
		}
		result.Processed++
	}

	log.Printf("Analysis complete: %d processed, %d skipped, %d errors",
		result.Processed, result.Skipped, result.Errors)
	return result
}

func buildAnalyzedItem(item *database.RawItem, analysis *store.Analysis) *store.AnalyzedItem {
	analyzed := &store.AnalyzedItem{
		ID:         fmt.Sprintf("item_%d", item.ID),
		SourceType: item.SourceType,
		SourceName: item.SourceName,
		IsTarget:   item.IsTarget,
		Text:       item.Text,
		Rating:     item.Rating,
		AnalyzedAt: time.Now().Format(time.RFC3339),
		Analysis:   *analysis,
	}
	if item.CreatedAt != nil {
		analyzed.CreatedAt = *item.CreatedAt
	}
	return analyzed
}
