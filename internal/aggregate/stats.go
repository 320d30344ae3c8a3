package aggregate

import (
	"github.com/reviewpulse/reviewpulse/internal/store"
)

const wordCloudSize = 50

// BuildStats computes the snapshot statistics view over the full item set.
func BuildStats(items []store.AnalyzedItem, updatedAt string) *StatsView {
	view := &StatsView{
		UpdatedAt: updatedAt,
		Total: TotalBlock{
			Reviews: len(items),
			Sources: make(map[string]int),
		},
		Target: TargetStats{
			SentimentDistribution:   zeroSentiments(),
			ProblemTypeDistribution: make(map[string]float64),
		},
		Competitors: make(map[string]*CompetitorStats),
		WordCloud:   []WordCount{},
	}

	var (
		targetRatings    []float64
		targetSentiments = map[string]int{}
		targetNegatives  int
		churnCount       int
		problemCounts    = newCounter()
		phraseCounts     = newCounter()
		compAccum        = map[string]*competitorAccum{}
		compOrder        []string
	)

	for i := range items {
		it := &items[i]

		sourceType := it.SourceType
		if sourceType == "" {
			sourceType = "unknown"
		}
		view.Total.Sources[sourceType]++

		if it.IsTarget {
			view.Target.Total++
			targetSentiments[it.Analysis.Sentiment]++
			if it.Rating != nil {
				targetRatings = append(targetRatings, *it.Rating)
			}
			if it.Analysis.Sentiment == store.SentimentNegative {
				targetNegatives++
				if it.Analysis.ProblemType != nil && *it.Analysis.ProblemType != "" {
					problemCounts.Inc(*it.Analysis.ProblemType)
				}
			}
			if it.Analysis.ChurnSignal {
				churnCount++
			}
			countPhrases(phraseCounts, it.Analysis.KeyPhrases)
			continue
		}

		name := it.SourceName
		if name == "" {
			name = "unknown"
		}
		acc, ok := compAccum[name]
		if !ok {
			acc = &competitorAccum{sentiments: map[string]int{}}
			compAccum[name] = acc
			compOrder = append(compOrder, name)
		}
		acc.total++
		acc.sentiments[it.Analysis.Sentiment]++
		if it.Rating != nil {
			acc.ratings = append(acc.ratings, *it.Rating)
		}
	}

	if view.Target.Total > 0 {
		if avg, ok := mean2(targetRatings); ok {
			view.Target.AverageRating = avg
		}
		view.Target.SentimentDistribution = sentimentRatios(targetSentiments, view.Target.Total)
		view.Target.ChurnSignalRate = round2(float64(churnCount) / float64(view.Target.Total))
	}
	// Problem types are tagged on negative items, so the distribution is
	// normalized against the negative-item count: "1 of 2 negative items
	// mention Pricing" reads as 0.5.
	if targetNegatives > 0 {
		for _, pc := range problemCounts.Top(0) {
			view.Target.ProblemTypeDistribution[pc.Key] = round2(float64(pc.Count) / float64(targetNegatives))
		}
	}

	for _, name := range compOrder {
		acc := compAccum[name]
		block := &CompetitorStats{
			Total:                 acc.total,
			SentimentDistribution: sentimentRatios(acc.sentiments, acc.total),
		}
		if avg, ok := mean2(acc.ratings); ok {
			block.AverageRating = &avg
		}
		view.Competitors[name] = block
	}

	for _, wc := range phraseCounts.Top(wordCloudSize) {
		view.WordCloud = append(view.WordCloud, WordCount{Text: wc.Key, Weight: wc.Count})
	}

	return view
}

type competitorAccum struct {
	total      int
	ratings    []float64
	sentiments map[string]int
}

// countPhrases counts each distinct phrase once per item, even when an
// item's phrase list repeats it.
func countPhrases(c *counter, phrases []string) {
	seen := make(map[string]struct{}, len(phrases))
	for _, p := range phrases {
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		c.Inc(p)
	}
}

func zeroSentiments() map[string]float64 {
	return map[string]float64{
		store.SentimentPositive: 0,
		store.SentimentNeutral:  0,
		store.SentimentNegative: 0,
	}
}

func sentimentRatios(counts map[string]int, total int) map[string]float64 {
	ratios := zeroSentiments()
	if total == 0 {
		return ratios
	}
	for sentiment := range ratios {
		ratios[sentiment] = round2(float64(counts[sentiment]) / float64(total))
	}
	return ratios
}
