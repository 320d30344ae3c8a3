package aggregate

import (
	"sort"

	"github.com/reviewpulse/reviewpulse/internal/store"
)

// BuildTrends computes the daily time-series view. Items without a
// created_at timestamp are excluded; remaining items bucket by the first
// 10 characters (YYYY-MM-DD) and buckets sort ascending, which for
// zero-padded ISO dates is plain lexical order.
func BuildTrends(items []store.AnalyzedItem, updatedAt string) *TrendsView {
	buckets := make(map[string]*dailyAccum)

	for i := range items {
		it := &items[i]
		date := it.Date()
		if date == "" {
			continue
		}

		bucket, ok := buckets[date]
		if !ok {
			bucket = &dailyAccum{
				targetSentiments: map[string]int{},
				competitors:      map[string]*dailyCompAccum{},
			}
			buckets[date] = bucket
		}

		if it.IsTarget {
			bucket.targetCount++
			bucket.targetSentiments[it.Analysis.Sentiment]++
			if it.Rating != nil {
				bucket.targetRatings = append(bucket.targetRatings, *it.Rating)
			}
			if it.Analysis.ChurnSignal {
				bucket.churnSignals++
			}
			continue
		}

		name := it.SourceName
		if name == "" {
			name = "unknown"
		}
		comp, ok := bucket.competitors[name]
		if !ok {
			comp = &dailyCompAccum{sentiments: map[string]int{}}
			bucket.competitors[name] = comp
		}
		comp.count++
		comp.sentiments[it.Analysis.Sentiment]++
		if it.Rating != nil {
			comp.ratings = append(comp.ratings, *it.Rating)
		}
	}

	dates := make([]string, 0, len(buckets))
	for date := range buckets {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	view := &TrendsView{UpdatedAt: updatedAt, Daily: []DailySummary{}}
	for _, date := range dates {
		bucket := buckets[date]

		target := DailyTarget{
			Count:        bucket.targetCount,
			Sentiment:    sentimentCounts(bucket.targetSentiments),
			ChurnSignals: bucket.churnSignals,
		}
		if avg, ok := mean2(bucket.targetRatings); ok {
			target.AvgRating = &avg
		}

		competitors := make(map[string]*DailyCompetitor, len(bucket.competitors))
		for name, acc := range bucket.competitors {
			comp := &DailyCompetitor{
				Count:     acc.count,
				Sentiment: sentimentCounts(acc.sentiments),
			}
			if avg, ok := mean2(acc.ratings); ok {
				comp.AvgRating = &avg
			}
			competitors[name] = comp
		}

		view.Daily = append(view.Daily, DailySummary{
			Date:        date,
			Target:      target,
			Competitors: competitors,
		})
	}

	return view
}

type dailyAccum struct {
	targetCount      int
	targetRatings    []float64
	targetSentiments map[string]int
	churnSignals     int
	competitors      map[string]*dailyCompAccum
}

type dailyCompAccum struct {
	count      int
	ratings    []float64
	sentiments map[string]int
}

func sentimentCounts(counts map[string]int) map[string]int {
	return map[string]int{
		store.SentimentPositive: counts[store.SentimentPositive],
		store.SentimentNeutral:  counts[store.SentimentNeutral],
		store.SentimentNegative: counts[store.SentimentNegative],
	}
}
