package aggregate

import (
	"log"
	"time"

	"github.com/reviewpulse/reviewpulse/internal/store"
)

// Result holds the results of an aggregation run.
type Result struct {
	Items   int
	Written []string
	Errors  []error
}

// Aggregator derives the three reporting views from the analyzed item set.
// Each run recomputes every view from scratch; no cross-run state exists.
type Aggregator struct {
	store *store.Store
	now   func() time.Time
}

// New creates an Aggregator over the given store.
func New(st *store.Store) *Aggregator {
	return &Aggregator{store: st, now: time.Now}
}

// Run loads the full analyzed item set and regenerates all three views.
// Zero items is not an error: generation is skipped with a warning. A
// failed view write fails that view only; the remaining views still run.
func (a *Aggregator) Run() (*Result, error) {
	items, err := a.store.LoadAnalyzedItems()
	if err != nil {
		return nil, err
	}

	result := &Result{Items: len(items)}
	if len(items) == 0 {
		log.Println("Warning: no analyzed items found, skipping aggregation")
		return result, nil
	}

	log.Printf("Aggregating %d items...", len(items))
	updatedAt := a.now().Format(time.RFC3339)

	views := []struct {
		name string
		view any
	}{
		{StatsFile, BuildStats(items, updatedAt)},
		{TrendsFile, BuildTrends(items, updatedAt)},
		{TopIssuesFile, BuildTopIssues(items, updatedAt)},
	}

	for _, v := range views {
		if err := a.store.WriteView(v.name, v.view); err != nil {
			log.Printf("Error writing %s: %v", v.name, err)
			result.Errors = append(result.Errors, err)
			continue
		}
		result.Written = append(result.Written, v.name)
	}

	log.Printf("Aggregation complete: %d views written", len(result.Written))
	return result, nil
}
