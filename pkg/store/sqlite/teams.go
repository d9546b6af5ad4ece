package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	errs "github.com/hunt-ops/hunt-manager/pkg/errors"
	"github.com/hunt-ops/hunt-manager/pkg/store"
)

func (s *Store) InsertTeams(ctx context.Context, teams []store.Team) error {
	if len(teams) == 0 {
		return nil
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return &errs.ErrStorage{Op: "begin team batch", Sub: err}
	}
	for _, team := range teams {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO teams (id, name, started_hunt_id, created_at)
			 VALUES (?, ?, ?, ?)`,
			team.ID, team.Name, team.StartedHuntID, encodeTime(team.CreatedAt),
		); err != nil {
			_ = tx.Rollback()
			if isForeignKeyViolation(err) {
				return &errs.ErrStartedHuntExist{ID: team.StartedHuntID, Exist: false}
			}
			if isUniqueViolation(err) {
				// Name taken within the hunt.
				return &errs.ErrTeamExist{ID: team.Name, Exist: true}
			}
			return &errs.ErrStorage{Op: "insert team", Sub: err}
		}
	}
	if err := tx.Commit(); err != nil {
		return &errs.ErrStorage{Op: "commit team batch", Sub: err}
	}
	return nil
}

func (s *Store) GetTeam(ctx context.Context, id string) (store.Team, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, name, started_hunt_id, created_at FROM teams WHERE id = ?`, id)

	team, err := scanTeam(row)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Team{}, &errs.ErrTeamExist{ID: id, Exist: false}
	}
	return team, err
}

func (s *Store) ListTeams(ctx context.Context) ([]store.Team, error) {
	return s.listTeams(ctx,
		`SELECT id, name, started_hunt_id, created_at FROM teams`)
}

func (s *Store) ListTeamsByStartedHunt(ctx context.Context, huntID string) ([]store.Team, error) {
	return s.listTeams(ctx,
		`SELECT id, name, started_hunt_id, created_at FROM teams WHERE started_hunt_id = ?`,
		huntID)
}

func (s *Store) CountTeamsByStartedHunt(ctx context.Context, huntID string) (int, error) {
	var n int
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM teams WHERE started_hunt_id = ?`, huntID).Scan(&n)
	if err != nil {
		return 0, &errs.ErrStorage{Op: "count teams", Sub: err}
	}
	return n, nil
}

func (s *Store) DeleteTeam(ctx context.Context, id string) error {
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM teams WHERE id = ?`, id)
	if err != nil {
		return &errs.ErrStorage{Op: "delete team", Sub: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &errs.ErrStorage{Op: "delete team", Sub: err}
	}
	if n == 0 {
		return &errs.ErrTeamExist{ID: id, Exist: false}
	}
	return nil
}

func (s *Store) DeleteTeamsByStartedHunt(ctx context.Context, huntID string) error {
	if _, err := s.sqlDB.ExecContext(ctx,
		`DELETE FROM teams WHERE started_hunt_id = ?`, huntID); err != nil {
		return &errs.ErrStorage{Op: "delete hunt teams", Sub: err}
	}
	return nil
}

func (s *Store) listTeams(ctx context.Context, query string, args ...any) ([]store.Team, error) {
	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &errs.ErrStorage{Op: "list teams", Sub: err}
	}
	defer func() {
		_ = rows.Close()
	}()

	teams := []store.Team{}
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}
	if err := rows.Err(); err != nil {
		return nil, &errs.ErrStorage{Op: "list teams", Sub: err}
	}
	return teams, nil
}

func scanTeam(row rowScanner) (store.Team, error) {
	var team store.Team
	var createdAt int64
	if err := row.Scan(&team.ID, &team.Name, &team.StartedHuntID, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Team{}, err
		}
		return store.Team{}, &errs.ErrStorage{Op: "scan team", Sub: err}
	}
	team.CreatedAt = decodeTime(createdAt)
	return team, nil
}

// isForeignKeyViolation detects SQLITE_CONSTRAINT_FOREIGNKEY without binding
// to the driver's error type.
func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(strings.ToUpper(err.Error()), "FOREIGN KEY")
}

// isUniqueViolation detects SQLITE_CONSTRAINT_UNIQUE the same way.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(strings.ToUpper(err.Error()), "UNIQUE CONSTRAINT")
}
