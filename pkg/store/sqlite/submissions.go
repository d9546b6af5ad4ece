package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	errs "github.com/hunt-ops/hunt-manager/pkg/errors"
	"github.com/hunt-ops/hunt-manager/pkg/identity"
	"github.com/hunt-ops/hunt-manager/pkg/store"
)

const submissionColumns = `id, task_id, team_id, COALESCE(photo_ref, ''), submitted_at`

func (s *Store) GetSubmission(ctx context.Context, id string) (store.Submission, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT `+submissionColumns+` FROM submissions WHERE id = ?`, id)

	sub, err := scanSubmission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Submission{}, &errs.ErrSubmissionExist{ID: id, Exist: false}
	}
	return sub, err
}

func (s *Store) ListSubmissionsByTeam(ctx context.Context, teamID string) ([]store.Submission, error) {
	return s.listSubmissions(ctx,
		`SELECT `+submissionColumns+` FROM submissions WHERE team_id = ?`, teamID)
}

func (s *Store) ListSubmissionsByTask(ctx context.Context, taskID string) ([]store.Submission, error) {
	return s.listSubmissions(ctx,
		`SELECT `+submissionColumns+` FROM submissions WHERE task_id = ?`, taskID)
}

func (s *Store) GetSubmissionByTeamAndTask(ctx context.Context, teamID, taskID string) (store.Submission, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT `+submissionColumns+` FROM submissions WHERE team_id = ? AND task_id = ?`,
		teamID, taskID)

	sub, err := scanSubmission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Submission{}, &errs.ErrSubmissionExist{ID: teamID + "/" + taskID, Exist: false}
	}
	return sub, err
}

// ListSubmissionsByStartedHunt joins the ledger with the hunt's teams on
// demand. There is no maintained submission-id list on the hunt record that
// could drift from the ledger after a partial failure.
func (s *Store) ListSubmissionsByStartedHunt(ctx context.Context, huntID string) ([]store.Submission, error) {
	return s.listSubmissions(ctx,
		`SELECT s.id, s.task_id, s.team_id, COALESCE(s.photo_ref, ''), s.submitted_at
		 FROM submissions s
		 JOIN teams t ON t.id = s.team_id
		 WHERE t.started_hunt_id = ?`, huntID)
}

func (s *Store) ListPhotoRefsByStartedHunt(ctx context.Context, huntID string) ([]string, error) {
	return s.listRefs(ctx,
		`SELECT s.photo_ref
		 FROM submissions s
		 JOIN teams t ON t.id = s.team_id
		 WHERE t.started_hunt_id = ? AND s.photo_ref IS NOT NULL AND s.photo_ref != ''`,
		huntID)
}

func (s *Store) ListPhotoRefs(ctx context.Context) ([]string, error) {
	return s.listRefs(ctx,
		`SELECT photo_ref FROM submissions WHERE photo_ref IS NOT NULL AND photo_ref != ''`)
}

// UpsertSubmission is the swap step of record-evidence: the blob referenced
// by photoRef is already durable when this runs, and the previous reference
// is returned so the caller can reclaim it afterwards. A crash between those
// steps leaves either the old or the new state fully intact.
func (s *Store) UpsertSubmission(ctx context.Context, teamID, taskID, photoRef string, at time.Time) (store.Submission, string, error) {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return store.Submission{}, "", &errs.ErrStorage{Op: "begin evidence swap", Sub: err}
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var prevRef string
	var prevID string
	err = tx.QueryRowContext(ctx,
		`SELECT id, COALESCE(photo_ref, '') FROM submissions WHERE team_id = ? AND task_id = ?`,
		teamID, taskID).Scan(&prevID, &prevRef)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return store.Submission{}, "", &errs.ErrStorage{Op: "read previous evidence", Sub: err}
	}

	sub := store.Submission{
		ID:          prevID,
		TaskID:      taskID,
		TeamID:      teamID,
		PhotoRef:    photoRef,
		SubmittedAt: at.UTC().Truncate(time.Millisecond),
	}
	if sub.ID == "" {
		sub.ID = identity.New()
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO submissions (id, task_id, team_id, photo_ref, submitted_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (team_id, task_id) DO UPDATE SET
		     photo_ref = excluded.photo_ref,
		     submitted_at = excluded.submitted_at`,
		sub.ID, sub.TaskID, sub.TeamID, sub.PhotoRef, encodeTime(sub.SubmittedAt),
	); err != nil {
		if isForeignKeyViolation(err) {
			return store.Submission{}, "", &errs.ErrTeamExist{ID: teamID, Exist: false}
		}
		return store.Submission{}, "", &errs.ErrStorage{Op: "upsert submission", Sub: err}
	}

	// Two interleaved swaps can race between the read and the upsert; the
	// conflict clause keeps the record unique and last-writer-wins, and the
	// id is re-read so the caller always sees the persisted one.
	if err := tx.QueryRowContext(ctx,
		`SELECT id FROM submissions WHERE team_id = ? AND task_id = ?`,
		teamID, taskID).Scan(&sub.ID); err != nil {
		return store.Submission{}, "", &errs.ErrStorage{Op: "read submission id", Sub: err}
	}

	if err := tx.Commit(); err != nil {
		return store.Submission{}, "", &errs.ErrStorage{Op: "commit evidence swap", Sub: err}
	}

	if prevRef == photoRef {
		prevRef = ""
	}
	return sub, prevRef, nil
}

func (s *Store) DeleteSubmission(ctx context.Context, id string) error {
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM submissions WHERE id = ?`, id)
	if err != nil {
		return &errs.ErrStorage{Op: "delete submission", Sub: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &errs.ErrStorage{Op: "delete submission", Sub: err}
	}
	if n == 0 {
		return &errs.ErrSubmissionExist{ID: id, Exist: false}
	}
	return nil
}

func (s *Store) DeleteSubmissionsByTeam(ctx context.Context, teamID string) error {
	if _, err := s.sqlDB.ExecContext(ctx,
		`DELETE FROM submissions WHERE team_id = ?`, teamID); err != nil {
		return &errs.ErrStorage{Op: "delete team submissions", Sub: err}
	}
	return nil
}

func (s *Store) DeleteSubmissionsByStartedHunt(ctx context.Context, huntID string) error {
	if _, err := s.sqlDB.ExecContext(ctx,
		`DELETE FROM submissions WHERE team_id IN (SELECT id FROM teams WHERE started_hunt_id = ?)`,
		huntID); err != nil {
		return &errs.ErrStorage{Op: "delete hunt submissions", Sub: err}
	}
	return nil
}

func (s *Store) listSubmissions(ctx context.Context, query string, args ...any) ([]store.Submission, error) {
	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &errs.ErrStorage{Op: "list submissions", Sub: err}
	}
	defer func() {
		_ = rows.Close()
	}()

	subs := []store.Submission{}
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, &errs.ErrStorage{Op: "list submissions", Sub: err}
	}
	return subs, nil
}

func (s *Store) listRefs(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &errs.ErrStorage{Op: "list photo refs", Sub: err}
	}
	defer func() {
		_ = rows.Close()
	}()

	refs := []string{}
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, &errs.ErrStorage{Op: "scan photo ref", Sub: err}
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, &errs.ErrStorage{Op: "list photo refs", Sub: err}
	}
	return refs, nil
}

func scanSubmission(row rowScanner) (store.Submission, error) {
	var sub store.Submission
	var submittedAt int64
	if err := row.Scan(&sub.ID, &sub.TaskID, &sub.TeamID, &sub.PhotoRef, &submittedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Submission{}, err
		}
		return store.Submission{}, &errs.ErrStorage{Op: "scan submission", Sub: err}
	}
	sub.SubmittedAt = decodeTime(submittedAt)
	return sub, nil
}
