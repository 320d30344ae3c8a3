package database

import (
	"database/sql"
)

// InsertRawItem inserts a collected item. Returns the ID on success, 0 when
// the external_id already exists (duplicate).
func (db *DB) InsertRawItem(item *RawItem) (int64, error) {
	isTarget := 0
	if item.IsTarget {
		isTarget = 1
	}
	result, err := db.conn.Exec(
		`INSERT INTO raw_items (external_id, source_type, source_name, is_target, url, author, rating, text, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ExternalID, item.SourceType, item.SourceName, isTarget,
		item.URL, item.Author, item.Rating, item.Text, item.CreatedAt,
	)
	if err != nil {
		// Duplicate external_id constraint
		return 0, nil //nolint: nilerr
	}
	return result.LastInsertId()
}

// GetUnanalyzedItems returns items with text that have not been analyzed.
func (db *DB) GetUnanalyzedItems() ([]RawItem, error) {
	rows, err := db.conn.Query(
		`SELECT id, external_id, source_type, source_name, is_target, url, author, rating, text, created_at, collected_at, text_fetched, analyzed
		FROM raw_items WHERE analyzed = 0 AND text != '' ORDER BY collected_at ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows)
}

// GetItemsNeedingFetch returns blog/article items whose text is empty or a
// short summary and that have not had a full-text fetch attempted.
func (db *DB) GetItemsNeedingFetch() ([]RawItem, error) {
	rows, err := db.conn.Query(
		`SELECT id, external_id, source_type, source_name, is_target, url, author, rating, text, created_at, collected_at, text_fetched, analyzed
		FROM raw_items
		WHERE text_fetched = 0 AND url IS NOT NULL AND source_type IN ('blog', 'article-search')
		ORDER BY collected_at ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows)
}

// UpdateItemText replaces an item's text after a full-text fetch.
func (db *DB) UpdateItemText(itemID int64, text string) error {
	_, err := db.conn.Exec(
		"UPDATE raw_items SET text = ?, text_fetched = 1 WHERE id = ?",
		text, itemID,
	)
	return err
}

// MarkItemFetchAttempted marks that a full-text fetch was tried.
func (db *DB) MarkItemFetchAttempted(itemID int64) error {
	_, err := db.conn.Exec(
		"UPDATE raw_items SET text_fetched = 1 WHERE id = ?", itemID,
	)
	return err
}

// MarkItemAnalyzed flags an item as analyzed.
func (db *DB) MarkItemAnalyzed(itemID int64) error {
	_, err := db.conn.Exec(
		"UPDATE raw_items SET analyzed = 1 WHERE id = ?", itemID,
	)
	return err
}

// GetItemByID returns a single item by ID.
func (db *DB) GetItemByID(itemID int64) (*RawItem, error) {
	row := db.conn.QueryRow(
		`SELECT id, external_id, source_type, source_name, is_target, url, author, rating, text, created_at, collected_at, text_fetched, analyzed
		FROM raw_items WHERE id = ?`, itemID,
	)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// RecordCollectionRun stores the outcome of one collection run.
func (db *DB) RecordCollectionRun(totalFound, newItems, duplicates int) error {
	_, err := db.conn.Exec(
		"INSERT INTO collection_runs (total_found, new_items, duplicates) VALUES (?, ?, ?)",
		totalFound, newItems, duplicates,
	)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*RawItem, error) {
	var item RawItem
	var isTarget, textFetched, analyzed int
	err := row.Scan(
		&item.ID, &item.ExternalID, &item.SourceType, &item.SourceName,
		&isTarget, &item.URL, &item.Author, &item.Rating, &item.Text,
		&item.CreatedAt, &item.CollectedAt, &textFetched, &analyzed,
	)
	if err != nil {
		return nil, err
	}
	item.IsTarget = isTarget != 0
	item.TextFetched = textFetched != 0
	item.Analyzed = analyzed != 0
	return &item, nil
}

func scanItems(rows *sql.Rows) ([]RawItem, error) {
	var items []RawItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}
