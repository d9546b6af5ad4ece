// Package sqlite implements the record store on a single SQLite database.
//
// The (team_id, task_id) uniqueness of submissions is enforced by the schema
// itself, so a duplicate current-evidence record is structurally impossible
// no matter how requests interleave.
package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	errs "github.com/hunt-ops/hunt-manager/pkg/errors"
	"github.com/hunt-ops/hunt-manager/pkg/store"
	"github.com/hunt-ops/hunt-manager/pkg/store/sqlite/migrations"
)

// Store provides the SQLite-backed record store.
type Store struct {
	sqlDB *sql.DB
}

var _ store.Store = (*Store)(nil)

// Open opens (creating if needed) and migrates the database at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, &errs.ErrStorage{Op: "open database", Sub: errPathRequired}
	}

	// The _pragma parameters are applied by the driver on every pooled
	// connection; foreign_keys in particular is per-connection state and
	// cascade deletion depends on it.
	dsn := filepath.Clean(path) +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=foreign_keys(1)" +
		"&_pragma=busy_timeout(5000)" +
		"&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &errs.ErrStorage{Op: "open database", Sub: err}
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, &errs.ErrStorage{Op: "ping database", Sub: err}
	}

	s := &Store{sqlDB: sqlDB}
	if err := applyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return s, nil
}

// Ping checks the database file is still reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.sqlDB.PingContext(ctx); err != nil {
		return &errs.ErrStorage{Op: "ping database", Sub: err}
	}
	return nil
}

// Close releases the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Timestamps are stored as unix milliseconds.
func encodeTime(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func decodeTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
