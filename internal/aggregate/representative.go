package aggregate

import (
	"sort"
	"unicode/utf8"

	"github.com/reviewpulse/reviewpulse/internal/store"
)

const representativeLimit = 3

// selectRepresentative picks up to n items to attach as examples: longer
// text first, on the assumption that longer reviews carry more substance.
// The sort is stable so equal-length items keep their original order. Each
// pick is projected to the reduced public shape; the analysis payload is
// never exposed.
func selectRepresentative(candidates []store.AnalyzedItem, n int) []ReviewSample {
	ranked := make([]store.AnalyzedItem, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return utf8.RuneCountInString(ranked[i].Text) > utf8.RuneCountInString(ranked[j].Text)
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}

	samples := []ReviewSample{}
	for i := range ranked {
		it := &ranked[i]
		samples = append(samples, ReviewSample{
			ID:        it.ID,
			Text:      it.Text,
			Source:    it.SourceType,
			Rating:    it.Rating,
			CreatedAt: it.CreatedAt,
		})
	}
	return samples
}
