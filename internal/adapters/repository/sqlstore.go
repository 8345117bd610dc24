package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"           // postgres driver
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver

	"github.com/okian/dailyword/internal/domain/model"
)

// Supported SQL dialects.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite3"
)

// Default pool settings.
const (
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 5 * time.Minute
)

const wordColumns = "id, word_primary, word_secondary, active_date, times_used, last_used_date"

// SQLStore implements Backend over database/sql for Postgres and SQLite.
type SQLStore struct {
	db      *sql.DB
	dialect string

	maxOpenConns    int
	maxIdleConns    int
	connMaxLifetime time.Duration
}

// OpenSQL connects to dsn using dialect, verifies the connection and
// creates the schema if needed.
func OpenSQL(ctx context.Context, dialect, dsn string, opts ...SQLOption) (*SQLStore, error) {
	if dialect != DialectPostgres && dialect != DialectSQLite {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, dialect)
	}

	db, err := sql.Open(dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}

	s := &SQLStore{
		db:              db,
		dialect:         dialect,
		maxOpenConns:    defaultMaxOpenConns,
		maxIdleConns:    defaultMaxIdleConns,
		connMaxLifetime: defaultConnMaxLifetime,
	}
	for _, opt := range opts {
		opt(s)
	}
	// Every connection to an in-memory SQLite database is a separate database.
	if dialect == DialectSQLite && strings.Contains(dsn, ":memory:") {
		s.maxOpenConns = 1
		s.maxIdleConns = 1
	}

	db.SetMaxOpenConns(s.maxOpenConns)
	db.SetMaxIdleConns(s.maxIdleConns)
	db.SetConnMaxLifetime(s.connMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}
	if err := CreateSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLStore wraps an existing connection whose schema is already in place.
func NewSQLStore(db *sql.DB, dialect string) *SQLStore {
	return &SQLStore{db: db, dialect: dialect}
}

// DB exposes the underlying pool.
func (s *SQLStore) DB() *sql.DB { return s.db }

// rebind converts ? placeholders to $n for Postgres.
func (s *SQLStore) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

// FindByActiveDate implements Store. If a race left two rows on the same
// date the lowest id is returned so every reader sees the same one.
func (s *SQLStore) FindByActiveDate(ctx context.Context, date string) (model.WordRecord, error) {
	q := s.rebind(`SELECT ` + wordColumns + ` FROM words WHERE active_date = ? ORDER BY id LIMIT 1`)
	rec, err := scanWord(s.db.QueryRowContext(ctx, q, date))
	if errors.Is(err, sql.ErrNoRows) {
		return model.WordRecord{}, ErrNotFound
	}
	if err != nil {
		return model.WordRecord{}, fmt.Errorf("find by active date: %w", err)
	}
	return rec, nil
}

// ListCandidates implements Store.
func (s *SQLStore) ListCandidates(ctx context.Context, filter CandidateFilter) ([]model.WordRecord, error) {
	q := s.rebind(`SELECT ` + wordColumns + ` FROM words
		WHERE times_used < ?
		  AND (active_date IS NULL OR last_used_date IS NULL OR last_used_date < ?)
		ORDER BY times_used, id`)
	return s.query(ctx, q, filter.UsageBelow, filter.StaleBefore)
}

// ListNeverActive implements Store.
func (s *SQLStore) ListNeverActive(ctx context.Context) ([]model.WordRecord, error) {
	return s.query(ctx, `SELECT `+wordColumns+` FROM words WHERE active_date IS NULL ORDER BY times_used, id`)
}

// List implements Provisioner.
func (s *SQLStore) List(ctx context.Context) ([]model.WordRecord, error) {
	return s.query(ctx, `SELECT `+wordColumns+` FROM words ORDER BY id`)
}

// SumTimesUsed implements Store.
func (s *SQLStore) SumTimesUsed(ctx context.Context) (int, error) {
	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(times_used), 0) FROM words`).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum times used: %w", err)
	}
	return int(total), nil
}

// UpdateAssignment implements Store as one single-row UPDATE.
func (s *SQLStore) UpdateAssignment(ctx context.Context, id string, a Assignment) error {
	q := s.rebind(`UPDATE words SET active_date = ?, last_used_date = ?, times_used = ? WHERE id = ?`)
	res, err := s.db.ExecContext(ctx, q, a.ActiveDate, a.LastUsedDate, a.TimesUsed, id)
	if err != nil {
		return fmt.Errorf("update assignment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update assignment: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Upsert implements Provisioner. Existing rows only get their words
// refreshed; rotation metadata is left alone.
func (s *SQLStore) Upsert(ctx context.Context, records []model.WordRecord) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin upsert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	update := s.rebind(`UPDATE words SET word_primary = ?, word_secondary = ? WHERE id = ?`)
	insert := s.rebind(`INSERT INTO words (id, word_primary, word_secondary, times_used) VALUES (?, ?, ?, 0)`)

	inserted := 0
	for _, r := range records {
		if err := validateRecord(r); err != nil {
			return 0, err
		}
		res, err := tx.ExecContext(ctx, update, r.WordPrimary, r.WordSecondary, r.ID)
		if err != nil {
			return 0, fmt.Errorf("upsert %s: %w", r.ID, err)
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			continue
		}
		if _, err := tx.ExecContext(ctx, insert, r.ID, r.WordPrimary, r.WordSecondary); err != nil {
			return 0, fmt.Errorf("insert %s: %w", r.ID, err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit upsert: %w", err)
	}
	return inserted, nil
}

// Close implements Backend.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) query(ctx context.Context, q string, args ...any) ([]model.WordRecord, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query words: %w", err)
	}
	defer rows.Close()

	var out []model.WordRecord
	for rows.Next() {
		rec, err := scanWord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan word: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate words: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWord(row rowScanner) (model.WordRecord, error) {
	var (
		rec       model.WordRecord
		active    sql.NullString
		lastUsed  sql.NullString
		timesUsed int64
	)
	if err := row.Scan(&rec.ID, &rec.WordPrimary, &rec.WordSecondary, &active, &timesUsed, &lastUsed); err != nil {
		return model.WordRecord{}, err
	}
	rec.TimesUsed = int(timesUsed)
	if active.Valid {
		rec.ActiveDate = model.Date(active.String)
	}
	if lastUsed.Valid {
		rec.LastUsedDate = model.Date(lastUsed.String)
	}
	return rec, nil
}
