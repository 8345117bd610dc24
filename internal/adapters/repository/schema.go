package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// CreateSchema creates the words table and its index.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// Dates are stored as YYYY-MM-DD text so they compare lexically in both dialects.
const schema = `
CREATE TABLE IF NOT EXISTS words (
    id TEXT PRIMARY KEY,
    word_primary TEXT NOT NULL,
    word_secondary TEXT NOT NULL,
    active_date TEXT,
    times_used INTEGER NOT NULL DEFAULT 0 CHECK (times_used >= 0),
    last_used_date TEXT
);

CREATE INDEX IF NOT EXISTS idx_words_active_date ON words(active_date);
CREATE INDEX IF NOT EXISTS idx_words_times_used ON words(times_used, id)
`
