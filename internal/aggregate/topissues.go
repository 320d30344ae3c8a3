package aggregate

import (
	"github.com/reviewpulse/reviewpulse/internal/store"
)

const (
	topIssueLimit     = 5
	issueKeywordLimit = 5
	// Negative problem categories at or above this count are high severity.
	highSeverityCount = 10
)

// BuildTopIssues computes the ranked issue report over target items only.
// The four lists run as independent passes; an item may appear in several.
func BuildTopIssues(items []store.AnalyzedItem, updatedAt string) *TopIssuesView {
	var target []store.AnalyzedItem
	for i := range items {
		if items[i].IsTarget {
			target = append(target, items[i])
		}
	}

	return &TopIssuesView{
		UpdatedAt: updatedAt,
		Target: IssueReport{
			NegativeIssues:        rankIssues(target, store.SentimentNegative, true),
			PositiveHighlights:    rankIssues(target, store.SentimentPositive, false),
			ChurnAlerts:           rankChurnAlerts(target),
			CompetitorComparisons: rankCompetitorMentions(target),
		},
	}
}

// rankIssues groups items of one sentiment by problem type and ranks the
// top 5 categories. withSeverity adds the severity classification used for
// negative issues.
func rankIssues(target []store.AnalyzedItem, sentiment string, withSeverity bool) []Issue {
	var matched []store.AnalyzedItem
	counts := newCounter()
	for i := range target {
		it := &target[i]
		if it.Analysis.Sentiment != sentiment {
			continue
		}
		matched = append(matched, *it)
		if it.Analysis.ProblemType != nil && *it.Analysis.ProblemType != "" {
			counts.Inc(*it.Analysis.ProblemType)
		}
	}

	issues := []Issue{}
	for _, pc := range counts.Top(topIssueLimit) {
		var related []store.AnalyzedItem
		keywords := newCounter()
		for i := range matched {
			it := &matched[i]
			if it.Analysis.ProblemType == nil || *it.Analysis.ProblemType != pc.Key {
				continue
			}
			related = append(related, *it)
			for _, phrase := range it.Analysis.KeyPhrases {
				if phrase != "" {
					keywords.Inc(phrase)
				}
			}
		}

		issue := Issue{
			ProblemType:           pc.Key,
			Count:                 pc.Count,
			RepresentativeReviews: selectRepresentative(related, representativeLimit),
			Keywords:              topKeys(keywords, issueKeywordLimit),
		}
		if withSeverity {
			issue.Severity = "medium"
			if pc.Count >= highSeverityCount {
				issue.Severity = "high"
			}
		}
		issues = append(issues, issue)
	}
	return issues
}

// rankChurnAlerts ranks the churn keywords flattened across all items
// carrying a churn signal.
func rankChurnAlerts(target []store.AnalyzedItem) []ChurnAlert {
	var churning []store.AnalyzedItem
	counts := newCounter()
	for i := range target {
		it := &target[i]
		if !it.Analysis.ChurnSignal {
			continue
		}
		churning = append(churning, *it)
		for _, kw := range it.Analysis.ChurnKeywords {
			if kw != "" {
				counts.Inc(kw)
			}
		}
	}

	alerts := []ChurnAlert{}
	for _, kc := range counts.Top(topIssueLimit) {
		var related []store.AnalyzedItem
		for i := range churning {
			if containsString(churning[i].Analysis.ChurnKeywords, kc.Key) {
				related = append(related, churning[i])
			}
		}
		alerts = append(alerts, ChurnAlert{
			Keyword:        kc.Key,
			Count:          kc.Count,
			RecentExamples: selectRepresentative(related, representativeLimit),
		})
	}
	return alerts
}

// rankCompetitorMentions ranks every mentioned competitor by mention count.
// Unlike the other lists this one is not capped.
func rankCompetitorMentions(target []store.AnalyzedItem) []CompetitorComparison {
	var mentioning []store.AnalyzedItem
	counts := newCounter()
	for i := range target {
		it := &target[i]
		if len(it.Analysis.CompetitorMentions) == 0 {
			continue
		}
		mentioning = append(mentioning, *it)
		for _, name := range it.Analysis.CompetitorMentions {
			if name != "" {
				counts.Inc(name)
			}
		}
	}

	comparisons := []CompetitorComparison{}
	for _, cc := range counts.Top(0) {
		var related []store.AnalyzedItem
		for i := range mentioning {
			if containsString(mentioning[i].Analysis.CompetitorMentions, cc.Key) {
				related = append(related, mentioning[i])
			}
		}
		comparisons = append(comparisons, CompetitorComparison{
			Competitor:   cc.Key,
			MentionCount: cc.Count,
			Examples:     selectRepresentative(related, representativeLimit),
		})
	}
	return comparisons
}

func topKeys(c *counter, n int) []string {
	keys := []string{}
	for _, kc := range c.Top(n) {
		keys = append(keys, kc.Key)
	}
	return keys
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
