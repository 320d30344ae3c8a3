package aggregate

import (
	"math"
	"sort"
)

// counter tallies string keys while remembering first-seen order, so
// ranked output is deterministic: ties break by insertion order, never by
// map iteration.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) Inc(key string) {
	if _, seen := c.counts[key]; !seen {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

// keyCount is one ranked (key, count) pair.
type keyCount struct {
	Key   string
	Count int
}

// Top returns all keys ranked by count descending, ties in first-seen
// order, truncated to n. n <= 0 means no cap.
func (c *counter) Top(n int) []keyCount {
	ranked := make([]keyCount, 0, len(c.order))
	for _, key := range c.order {
		ranked = append(ranked, keyCount{Key: key, Count: c.counts[key]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// round2 rounds to 2 decimal places; every ratio and average in the views
// is rounded independently, so distributions may not sum to exactly 1.0.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// mean2 returns the mean of ratings rounded to 2 decimals, with ok=false
// when there are no ratings.
func mean2(ratings []float64) (float64, bool) {
	if len(ratings) == 0 {
		return 0, false
	}
	var sum float64
	for _, r := range ratings {
		sum += r
	}
	return round2(sum / float64(len(ratings))), true
}
