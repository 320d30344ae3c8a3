package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/reviewpulse/reviewpulse/internal/aggregate"
	"github.com/reviewpulse/reviewpulse/internal/analyze"
	"github.com/reviewpulse/reviewpulse/internal/collect"
	"github.com/reviewpulse/reviewpulse/internal/config"
	"github.com/reviewpulse/reviewpulse/internal/database"
	"github.com/reviewpulse/reviewpulse/internal/fetch"
	"github.com/reviewpulse/reviewpulse/internal/report"
	"github.com/reviewpulse/reviewpulse/internal/store"
)

// StepResult holds the result of a single pipeline step.
type StepResult struct {
	Name    string
	Summary string
	Err     error
}

// Result holds the results of a full pipeline run.
type Result struct {
	Steps []StepResult
}

// Pipeline orchestrates the 5-step run: collect -> fetch -> analyze ->
// aggregate -> report.
type Pipeline struct {
	cfg      *config.Config
	db       *database.DB
	store    *store.Store
	provider analyze.Provider
}

// New creates a new pipeline.
func New(cfg *config.Config, db *database.DB, st *store.Store) *Pipeline {
	provider := analyze.CreateProvider(
		cfg.Analysis.Provider,
		cfg.Analysis.Model,
		cfg.Analysis.APIKeyEnv,
		cfg.Analysis.OllamaURL,
	)
	return &Pipeline{cfg: cfg, db: db, store: st, provider: provider}
}

// Run executes the full 5-step pipeline.
func (p *Pipeline) Run(ctx context.Context) *Result {
	r := &Result{}

	r.Steps = append(r.Steps, p.runCollect())
	r.Steps = append(r.Steps, p.runFetch())
	r.Steps = append(r.Steps, p.runAnalyze(ctx))

	step := p.runAggregate()
	r.Steps = append(r.Steps, step)
	if step.Err != nil {
		return r
	}

	r.Steps = append(r.Steps, p.runReport())
	return r
}

// DryRun shows what would be done without executing.
func (p *Pipeline) DryRun() *Result {
	r := &Result{}

	stats, _ := p.db.GetStats()
	if stats == nil {
		stats = &database.Stats{}
	}
	r.Steps = append(r.Steps, StepResult{
		Name:    "Collect",
		Summary: fmt.Sprintf("[dry-run] %d items already collected", stats.TotalItems),
	})

	needing, _ := p.db.GetItemsNeedingFetch()
	r.Steps = append(r.Steps, StepResult{
		Name:    "Fetch",
		Summary: fmt.Sprintf("[dry-run] %d items need content fetching", len(needing)),
	})

	r.Steps = append(r.Steps, StepResult{
		Name:    "Analyze",
		Summary: fmt.Sprintf("[dry-run] %d items need analysis", stats.PendingItems),
	})

	items, _ := p.store.LoadAnalyzedItems()
	r.Steps = append(r.Steps, StepResult{
		Name:    "Aggregate",
		Summary: fmt.Sprintf("[dry-run] %d analyzed items would be aggregated", len(items)),
	})

	r.Steps = append(r.Steps, StepResult{
		Name:    "Report",
		Summary: "[dry-run] Would regenerate digest.md",
	})

	return r
}

func (p *Pipeline) runCollect() StepResult {
	log.Println("Step 1/5: Collecting feedback...")
	collector := collect.NewCollector(p.cfg, p.db)
	result := collector.Collect()
	return StepResult{
		Name:    "Collect",
		Summary: fmt.Sprintf("Found %d new items (%d total, %d duplicates)", result.NewItems, result.TotalFound, result.Duplicates),
	}
}

func (p *Pipeline) runFetch() StepResult {
	log.Println("Step 2/5: Fetching full post content...")
	fetcher := fetch.NewContentFetcher(p.db, 15*time.Second)
	result := fetcher.FetchMissingContent()
	return StepResult{
		Name:    "Fetch",
		Summary: fmt.Sprintf("Fetched %d items, %d failed", result.Fetched, result.Failed),
	}
}

func (p *Pipeline) runAnalyze(ctx context.Context) StepResult {
	log.Println("Step 3/5: Analyzing feedback...")
	analyzer := analyze.NewAnalyzer(p.cfg, p.db, p.store, p.provider)
	result := analyzer.AnalyzeItems(ctx)
	return StepResult{
		Name:    "Analyze",
		Summary: fmt.Sprintf("Analyzed %d items: %d skipped, %d errors", result.Processed, result.Skipped, result.Errors),
	}
}

func (p *Pipeline) runAggregate() StepResult {
	log.Println("Step 4/5: Aggregating views...")
	aggregator := aggregate.New(p.store)
	result, err := aggregator.Run()
	if err != nil {
		return StepResult{Name: "Aggregate", Err: err}
	}
	if result.Items == 0 {
		return StepResult{
			Name:    "Aggregate",
			Summary: "No analyzed items found, views not regenerated",
		}
	}
	summary := fmt.Sprintf("Regenerated %d views from %d items", len(result.Written), result.Items)
	if len(result.Errors) > 0 {
		summary += fmt.Sprintf(" (%d views failed)", len(result.Errors))
	}
	return StepResult{Name: "Aggregate", Summary: summary}
}

func (p *Pipeline) runReport() StepResult {
	log.Println("Step 5/5: Writing digest...")
	gen := report.NewGenerator(p.store)
	if err := gen.Run(); err != nil {
		return StepResult{Name: "Report", Err: err}
	}
	return StepResult{Name: "Report", Summary: "Digest regenerated"}
}
