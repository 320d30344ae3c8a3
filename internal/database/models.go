package database

// RawItem is one collected feedback record before analysis.
type RawItem struct {
	ID          int64
	ExternalID  string
	SourceType  string
	SourceName  string
	IsTarget    bool
	URL         *string
	Author      *string
	Rating      *float64
	Text        string
	CreatedAt   *string
	CollectedAt *string
	TextFetched bool
	Analyzed    bool
}

// Stats contains aggregate database statistics.
type Stats struct {
	TotalItems     int
	AnalyzedItems  int
	PendingItems   int
	TargetItems    int
	SourceTypes    int
	CollectionRuns int
}
