package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/slidelens/deck-analyzer/internal/domain"
	"github.com/slidelens/deck-analyzer/internal/observability"
)

const schema = `
CREATE TABLE IF NOT EXISTS reports (
	fingerprint  TEXT PRIMARY KEY,
	source_file  TEXT NOT NULL,
	generated_at TIMESTAMP NOT NULL,
	report_json  TEXT NOT NULL
);
`

// SQLiteStore implements domain.CacheStore on a local SQLite database.
// Writes go through transactions, so a crash mid-store leaves either the
// previous entry or the new one, never a torn row.
type SQLiteStore struct {
	db     *sql.DB
	logger *observability.Logger
}

// NewSQLiteStore opens (creating if needed) the cache database at path.
func NewSQLiteStore(path string, logger *observability.Logger) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, domain.CacheError("cannot create cache directory", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, domain.CacheError("cannot open cache database", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, domain.CacheError("cannot initialize cache schema", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: logger.WithComponent("cache"),
	}, nil
}

// Lookup returns the cached report for fp, or domain.ErrCacheMiss.
func (s *SQLiteStore) Lookup(ctx context.Context, fp domain.Fingerprint) (*domain.Report, error) {
	var reportJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT report_json FROM reports WHERE fingerprint = ?`, string(fp),
	).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		return nil, domain.CacheError("cache lookup failed", err)
	}

	var report domain.Report
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		// A corrupt row behaves like a miss; the caller re-analyzes and
		// the next Store overwrites it.
		s.logger.Warn().Str("fingerprint", string(fp)).Err(err).
			Msg("cached report unreadable, treating as miss")
		return nil, domain.ErrCacheMiss
	}

	return &report, nil
}

// Store saves the report under fp, replacing any previous entry.
func (s *SQLiteStore) Store(ctx context.Context, fp domain.Fingerprint, report *domain.Report) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return domain.CacheError("cannot encode report", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.CacheError("cannot begin cache transaction", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO reports (fingerprint, source_file, generated_at, report_json)
		 VALUES (?, ?, ?, ?)`,
		string(fp), report.SourceFile, report.GeneratedAt.UTC().Format(time.RFC3339Nano),
		string(reportJSON))
	if err != nil {
		tx.Rollback()
		return domain.CacheError("cache write failed", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.CacheError("cache commit failed", err)
	}

	s.logger.Debug().Str("fingerprint", string(fp)).Msg("report cached")
	return nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close cache database: %w", err)
	}
	return nil
}
