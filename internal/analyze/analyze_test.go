package analyze

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/reviewpulse/reviewpulse/internal/config"
	"github.com/reviewpulse/reviewpulse/internal/database"
	"github.com/reviewpulse/reviewpulse/internal/store"
)

type mockProvider struct {
	response string
	err      error
	calls    int
}

func (m *mockProvider) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockProvider) IsConfigured() bool { return true }

func testSetup(t *testing.T) (*config.Config, *database.DB, *store.Store) {
	t.Helper()
	cfg, err := config.Load(writeTestConfig(t))
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return cfg, db, store.New(t.TempDir())
}

func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`
apps:
  - key: ringle
    name: Ringle
    is_target: true
  - key: speak
    name: Speak
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func insertPendingItem(t *testing.T, db *database.DB, externalID, text string) int64 {
	t.Helper()
	createdAt := "2026-08-01T00:00:00Z"
	id, err := db.InsertRawItem(&database.RawItem{
		ExternalID: externalID,
		SourceType: "app-store",
		SourceName: "AppStore",
		IsTarget:   true,
		Text:       text,
		CreatedAt:  &createdAt,
	})
	if err != nil {
		t.Fatalf("inserting item: %v", err)
	}
	return id
}

func TestAnalyzeItems(t *testing.T) {
	cfg, db, st := testSetup(t)
	insertPendingItem(t, db, "as_1", "너무 좋아요")

	provider := &mockProvider{response: `{"sentiment":"positive","problem_type":null,"key_phrases":["좋아요"],"churn_signal":false}`}
	analyzer := NewAnalyzer(cfg, db, st, provider)

	result := analyzer.AnalyzeItems(context.Background())
	if result.Processed != 1 {
		t.Fatalf("expected 1 processed, got %+v", result)
	}
	if provider.calls != 1 {
		t.Errorf("expected 1 provider call, got %d", provider.calls)
	}

	items, err := st.LoadAnalyzedItems()
	if err != nil {
		t.Fatalf("loading analyzed items: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 analyzed item, got %d", len(items))
	}
	if items[0].Analysis.Sentiment != store.SentimentPositive {
		t.Errorf("expected positive sentiment, got %q", items[0].Analysis.Sentiment)
	}
	if !items[0].IsTarget {
		t.Error("expected is_target carried through")
	}

	pending, _ := db.GetUnanalyzedItems()
	if len(pending) != 0 {
		t.Errorf("expected item marked analyzed, %d still pending", len(pending))
	}
}

func TestAnalyzeItemsProviderError(t *testing.T) {
	cfg, db, st := testSetup(t)
	insertPendingItem(t, db, "as_1", "some text")

	provider := &mockProvider{err: errors.New("api down")}
	result := NewAnalyzer(cfg, db, st, provider).AnalyzeItems(context.Background())

	if result.Errors != 1 || result.Processed != 0 {
		t.Errorf("expected 1 error and 0 processed, got %+v", result)
	}

	// Failed items stay pending for the next run.
	pending, _ := db.GetUnanalyzedItems()
	if len(pending) != 1 {
		t.Errorf("expected item still pending, got %d", len(pending))
	}
}

func TestAnalyzeItemsUnparseableResponse(t *testing.T) {
	cfg, db, st := testSetup(t)
	insertPendingItem(t, db, "as_1", "some text")

	provider := &mockProvider{response: "I cannot classify this."}
	result := NewAnalyzer(cfg, db, st, provider).AnalyzeItems(context.Background())

	if result.Errors != 1 {
		t.Errorf("expected 1 error, got %+v", result)
	}
}

func TestAnalyzeItemsNothingPending(t *testing.T) {
	cfg, db, st := testSetup(t)

	provider := &mockProvider{response: "{}"}
	result := NewAnalyzer(cfg, db, st, provider).AnalyzeItems(context.Background())

	if result.Processed != 0 || provider.calls != 0 {
		t.Errorf("expected no work, got %+v with %d calls", result, provider.calls)
	}
}

func TestParseAnalysisResponse(t *testing.T) {
	analysis := ParseAnalysisResponse(`{"sentiment":"negative","problem_type":"Pricing","key_phrases":["비싸다"],"churn_signal":true,"churn_keywords":["환불"]}`)
	if analysis == nil {
		t.Fatal("expected parsed analysis")
	}
	if analysis.Sentiment != store.SentimentNegative {
		t.Errorf("expected negative, got %q", analysis.Sentiment)
	}
	if analysis.ProblemType == nil || *analysis.ProblemType != "Pricing" {
		t.Errorf("expected Pricing, got %v", analysis.ProblemType)
	}
	if !analysis.ChurnSignal || len(analysis.ChurnKeywords) != 1 {
		t.Errorf("expected churn signal with keyword, got %+v", analysis)
	}
}

func TestParseAnalysisResponseCodeFence(t *testing.T) {
	analysis := ParseAnalysisResponse("```json\n{\"sentiment\":\"positive\",\"problem_type\":null}\n```")
	if analysis == nil {
		t.Fatal("expected parsed analysis from fenced response")
	}
	if analysis.Sentiment != store.SentimentPositive {
		t.Errorf("expected positive, got %q", analysis.Sentiment)
	}
}

func TestParseAnalysisResponseDefaults(t *testing.T) {
	analysis := ParseAnalysisResponse(`{"sentiment":"angry","problem_type":""}`)
	if analysis == nil {
		t.Fatal("expected parsed analysis")
	}
	if analysis.Sentiment != store.SentimentNeutral {
		t.Errorf("expected unknown sentiment defaulted to neutral, got %q", analysis.Sentiment)
	}
	if analysis.ProblemType != nil {
		t.Errorf("expected empty problem_type normalized to nil, got %v", analysis.ProblemType)
	}
}

func TestParseAnalysisResponseGarbage(t *testing.T) {
	if ParseAnalysisResponse("") != nil {
		t.Error("expected nil for empty response")
	}
	if ParseAnalysisResponse("not json at all") != nil {
		t.Error("expected nil for non-JSON response")
	}
}
