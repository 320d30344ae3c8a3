package database

// GetStats returns aggregate database statistics.
func (db *DB) GetStats() (*Stats, error) {
	s := &Stats{}

	queries := []struct {
		sql  string
		dest *int
	}{
		{"SELECT COUNT(*) FROM raw_items", &s.TotalItems},
		{"SELECT COUNT(*) FROM raw_items WHERE analyzed = 1", &s.AnalyzedItems},
		{"SELECT COUNT(*) FROM raw_items WHERE analyzed = 0 AND text != ''", &s.PendingItems},
		{"SELECT COUNT(*) FROM raw_items WHERE is_target = 1", &s.TargetItems},
		{"SELECT COUNT(DISTINCT source_type) FROM raw_items", &s.SourceTypes},
		{"SELECT COUNT(*) FROM collection_runs", &s.CollectionRuns},
	}

	for _, q := range queries {
		if err := db.conn.QueryRow(q.sql).Scan(q.dest); err != nil {
			return nil, err
		}
	}

	return s, nil
}
