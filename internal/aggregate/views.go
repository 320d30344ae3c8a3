package aggregate

// View file names under the aggregated directory.
const (
	StatsFile     = "stats.json"
	TrendsFile    = "trends.json"
	TopIssuesFile = "top-issues.json"
)

// StatsView is the point-in-time snapshot written to stats.json.
type StatsView struct {
	UpdatedAt   string                      `json:"updated_at"`
	Total       TotalBlock                  `json:"total"`
	Target      TargetStats                 `json:"target"`
	Competitors map[string]*CompetitorStats `json:"competitors"`
	WordCloud   []WordCount                 `json:"word_cloud"`
}

// TotalBlock holds overall item counts.
type TotalBlock struct {
	Reviews int            `json:"reviews"`
	Sources map[string]int `json:"sources"`
}

// TargetStats is the target-product block of the Stats view. All
// distribution values are ratios rounded to 2 decimals; average_rating is
// 0.0 when no ratings exist.
type TargetStats struct {
	Total                   int                `json:"total"`
	AverageRating           float64            `json:"average_rating"`
	SentimentDistribution   map[string]float64 `json:"sentiment_distribution"`
	ProblemTypeDistribution map[string]float64 `json:"problem_type_distribution"`
	ChurnSignalRate         float64            `json:"churn_signal_rate"`
}

// CompetitorStats is the reduced per-competitor block: no problem-type or
// churn tracking. AverageRating is absent when the group has no ratings.
type CompetitorStats struct {
	Total                 int                `json:"total"`
	AverageRating         *float64           `json:"average_rating,omitempty"`
	SentimentDistribution map[string]float64 `json:"sentiment_distribution"`
}

// WordCount is one keyword-cloud entry.
type WordCount struct {
	Text   string `json:"text"`
	Weight int    `json:"weight"`
}

// TrendsView is the daily time series written to trends.json, sorted
// ascending by date.
type TrendsView struct {
	UpdatedAt string         `json:"updated_at"`
	Daily     []DailySummary `json:"daily"`
}

// DailySummary is one calendar-day bucket. Daily blocks carry raw counts,
// not ratios: daily volumes are small and absolute counts are more
// actionable at that granularity.
type DailySummary struct {
	Date        string                    `json:"date"`
	Target      DailyTarget               `json:"target"`
	Competitors map[string]*DailyCompetitor `json:"competitors"`
}

// DailyTarget holds the target-product counts for one day.
type DailyTarget struct {
	Count        int            `json:"count"`
	Sentiment    map[string]int `json:"sentiment"`
	ChurnSignals int            `json:"churn_signals"`
	AvgRating    *float64       `json:"avg_rating"`
}

// DailyCompetitor holds one competitor's counts for one day.
type DailyCompetitor struct {
	Count     int            `json:"count"`
	Sentiment map[string]int `json:"sentiment"`
	AvgRating *float64       `json:"avg_rating"`
}

// TopIssuesView is the ranked issue report written to top-issues.json.
type TopIssuesView struct {
	UpdatedAt string      `json:"updated_at"`
	Target    IssueReport `json:"target"`
}

// IssueReport holds the four ranked lists for the target product.
type IssueReport struct {
	NegativeIssues        []Issue                `json:"negative_issues"`
	PositiveHighlights    []Issue                `json:"positive_highlights"`
	ChurnAlerts           []ChurnAlert           `json:"churn_alerts"`
	CompetitorComparisons []CompetitorComparison `json:"competitor_comparisons"`
}

// Issue is one ranked problem category. Severity is set for negative
// issues only.
type Issue struct {
	ProblemType           string         `json:"problem_type"`
	Count                 int            `json:"count"`
	Severity              string         `json:"severity,omitempty"`
	RepresentativeReviews []ReviewSample `json:"representative_reviews"`
	Keywords              []string       `json:"keywords"`
}

// ChurnAlert is one ranked churn keyword.
type ChurnAlert struct {
	Keyword        string         `json:"keyword"`
	Count          int            `json:"count"`
	RecentExamples []ReviewSample `json:"recent_examples"`
}

// CompetitorComparison is one competitor ranked by mention count.
type CompetitorComparison struct {
	Competitor   string         `json:"competitor"`
	MentionCount int            `json:"mention_count"`
	Examples     []ReviewSample `json:"examples"`
}

// ReviewSample is the reduced public projection of an item attached to a
// ranked entry. The full analysis payload is never exposed here.
type ReviewSample struct {
	ID        string   `json:"id"`
	Text      string   `json:"text"`
	Source    string   `json:"source"`
	Rating    *float64 `json:"rating"`
	CreatedAt string   `json:"created_at"`
}
