package sqlite

import (
	"context"
	"database/sql"
	"errors"

	json "github.com/goccy/go-json"

	errs "github.com/hunt-ops/hunt-manager/pkg/errors"
	"github.com/hunt-ops/hunt-manager/pkg/store"
)

func (s *Store) InsertStartedHunt(ctx context.Context, hunt store.StartedHunt) error {
	template, err := json.Marshal(hunt.Template)
	if err != nil {
		return &errs.ErrInternal{Sub: err}
	}

	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO started_hunts (id, access_code, status, template_json, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		hunt.ID, hunt.AccessCode, string(hunt.Status), string(template), encodeTime(hunt.CreatedAt),
	)
	if err != nil {
		return &errs.ErrStorage{Op: "insert started hunt", Sub: err}
	}
	return nil
}

func (s *Store) GetStartedHunt(ctx context.Context, id string) (store.StartedHunt, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, access_code, status, template_json, created_at
		 FROM started_hunts WHERE id = ?`, id)
	hunt, err := scanStartedHunt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return store.StartedHunt{}, &errs.ErrStartedHuntExist{ID: id, Exist: false}
	}
	return hunt, err
}

func (s *Store) GetStartedHuntByAccessCode(ctx context.Context, code string) (store.StartedHunt, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, access_code, status, template_json, created_at
		 FROM started_hunts WHERE access_code = ? AND status != ?`,
		code, string(store.StatusCompleted))
	hunt, err := scanStartedHunt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return store.StartedHunt{}, &errs.ErrStartedHuntExist{ID: code, Exist: false}
	}
	return hunt, err
}

func (s *Store) AccessCodeInUse(ctx context.Context, code string) (bool, error) {
	var one int
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT 1 FROM started_hunts WHERE access_code = ? AND status != ?`,
		code, string(store.StatusCompleted)).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, &errs.ErrStorage{Op: "check access code", Sub: err}
	}
	return true, nil
}

func (s *Store) UpdateStartedHuntStatus(ctx context.Context, id string, status store.Status) error {
	res, err := s.sqlDB.ExecContext(ctx,
		`UPDATE started_hunts SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return &errs.ErrStorage{Op: "update started hunt status", Sub: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &errs.ErrStorage{Op: "update started hunt status", Sub: err}
	}
	if n == 0 {
		return &errs.ErrStartedHuntExist{ID: id, Exist: false}
	}
	return nil
}

func (s *Store) DeleteStartedHunt(ctx context.Context, id string) error {
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM started_hunts WHERE id = ?`, id)
	if err != nil {
		return &errs.ErrStorage{Op: "delete started hunt", Sub: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &errs.ErrStorage{Op: "delete started hunt", Sub: err}
	}
	if n == 0 {
		return &errs.ErrStartedHuntExist{ID: id, Exist: false}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStartedHunt(row rowScanner) (store.StartedHunt, error) {
	var hunt store.StartedHunt
	var status, template string
	var createdAt int64
	if err := row.Scan(&hunt.ID, &hunt.AccessCode, &status, &template, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.StartedHunt{}, err
		}
		return store.StartedHunt{}, &errs.ErrStorage{Op: "scan started hunt", Sub: err}
	}
	hunt.Status = store.Status(status)
	hunt.CreatedAt = decodeTime(createdAt)
	if err := json.Unmarshal([]byte(template), &hunt.Template); err != nil {
		return store.StartedHunt{}, &errs.ErrInternal{Sub: err}
	}
	return hunt, nil
}
