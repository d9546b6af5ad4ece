package sqlite

import (
	"database/sql"
	"errors"
	"io/fs"
	"sort"
	"strings"
	"time"

	errs "github.com/hunt-ops/hunt-manager/pkg/errors"
)

var errPathRequired = errors.New("database path is required")

const migrationTable = "schema_migrations"

// applyMigrations executes the embedded .sql files in lexical order, each at
// most once per database, each in its own transaction.
func applyMigrations(sqlDB *sql.DB, migrationFS fs.FS) error {
	entries, err := fs.ReadDir(migrationFS, ".")
	if err != nil {
		return &errs.ErrStorage{Op: "read migrations", Sub: err}
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	if _, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS ` + migrationTable + ` (
	name TEXT PRIMARY KEY,
	applied_at INTEGER NOT NULL
)`); err != nil {
		return &errs.ErrStorage{Op: "ensure migration table", Sub: err}
	}

	for _, file := range files {
		applied, err := isApplied(sqlDB, file)
		if err != nil {
			return &errs.ErrStorage{Op: "check migration " + file, Sub: err}
		}
		if applied {
			continue
		}

		content, err := fs.ReadFile(migrationFS, file)
		if err != nil {
			return &errs.ErrStorage{Op: "read migration " + file, Sub: err}
		}

		tx, err := sqlDB.Begin()
		if err != nil {
			return &errs.ErrStorage{Op: "begin migration " + file, Sub: err}
		}
		if _, err := tx.Exec(string(content)); err != nil {
			_ = tx.Rollback()
			return &errs.ErrStorage{Op: "exec migration " + file, Sub: err}
		}
		if _, err := tx.Exec(
			"INSERT INTO "+migrationTable+" (name, applied_at) VALUES (?, ?)",
			file, time.Now().UTC().UnixMilli(),
		); err != nil {
			_ = tx.Rollback()
			return &errs.ErrStorage{Op: "record migration " + file, Sub: err}
		}
		if err := tx.Commit(); err != nil {
			return &errs.ErrStorage{Op: "commit migration " + file, Sub: err}
		}
	}

	return nil
}

func isApplied(sqlDB *sql.DB, name string) (bool, error) {
	var found int
	err := sqlDB.QueryRow("SELECT 1 FROM "+migrationTable+" WHERE name = ?", name).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
