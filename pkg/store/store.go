// Package store defines the persisted records of the session ledger and the
// contract their single authoritative store implements.
package store

import (
	"context"
	"time"
)

// Status of a started hunt. Transitions are triggered by session-play
// collaborators and move strictly forward; the store persists whatever value
// passed validation.
type Status string

const (
	StatusNotStarted Status = "NotStarted"
	StatusActive     Status = "Active"
	StatusCompleted  Status = "Completed"
)

// Valid reports whether the status is one of the three known values.
func (s Status) Valid() bool {
	switch s {
	case StatusNotStarted, StatusActive, StatusCompleted:
		return true
	}
	return false
}

// rank orders statuses along the NotStarted -> Active -> Completed line.
func (s Status) rank() int {
	switch s {
	case StatusNotStarted:
		return 0
	case StatusActive:
		return 1
	case StatusCompleted:
		return 2
	}
	return -1
}

// CanTransitionTo reports whether moving from s to next respects the
// forward-only state machine. Idempotent re-submission of the current status
// is allowed.
func (s Status) CanTransitionTo(next Status) bool {
	return next.Valid() && s.Valid() && next.rank() >= s.rank()
}

// Task is one entry of a hunt template snapshot.
type Task struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// Template is the immutable copy of the originating hunt frozen at start
// time, denormalized so later edits or deletion of the template never affect
// a running hunt.
type Template struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Tasks       []Task `json:"tasks"`
}

// StartedHunt is one in-progress or completed playthrough of a hunt
// template.
type StartedHunt struct {
	ID         string    `json:"id"`
	AccessCode string    `json:"accessCode"`
	Status     Status    `json:"status"`
	Template   Template  `json:"template"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Team is a participant group bound to exactly one started hunt for its
// whole life.
type Team struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	StartedHuntID string    `json:"startedHuntId"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Submission is the current evidence record for one team on one task: at
// most one exists per (TeamID, TaskID) pair, re-uploads swap PhotoRef in
// place.
type Submission struct {
	ID          string    `json:"id"`
	TaskID      string    `json:"taskId"`
	TeamID      string    `json:"teamId"`
	PhotoRef    string    `json:"photoRef,omitempty"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// Store is the single authoritative record store. Single-record operations
// are atomic; multi-record sequences built on top of them are not, unless a
// method documents running in one transaction.
//
// Lookup methods return typed existence errors (pkg/errors) when the record
// is absent; list methods return empty slices instead.
type Store interface {
	// Started hunts.

	InsertStartedHunt(ctx context.Context, hunt StartedHunt) error
	GetStartedHunt(ctx context.Context, id string) (StartedHunt, error)
	GetStartedHuntByAccessCode(ctx context.Context, code string) (StartedHunt, error)
	// AccessCodeInUse reports whether the code is bound to a non-Completed
	// hunt.
	AccessCodeInUse(ctx context.Context, code string) (bool, error)
	UpdateStartedHuntStatus(ctx context.Context, id string, status Status) error
	// DeleteStartedHunt removes the hunt record; team and submission rows
	// cascade at the store level. Photo blobs do not, the caller reclaims
	// them.
	DeleteStartedHunt(ctx context.Context, id string) error

	// Teams.

	// InsertTeams writes the batch in one transaction: either all teams are
	// visible afterward or none are.
	InsertTeams(ctx context.Context, teams []Team) error
	GetTeam(ctx context.Context, id string) (Team, error)
	ListTeams(ctx context.Context) ([]Team, error)
	ListTeamsByStartedHunt(ctx context.Context, huntID string) ([]Team, error)
	CountTeamsByStartedHunt(ctx context.Context, huntID string) (int, error)
	DeleteTeam(ctx context.Context, id string) error
	DeleteTeamsByStartedHunt(ctx context.Context, huntID string) error

	// Submissions.

	GetSubmission(ctx context.Context, id string) (Submission, error)
	ListSubmissionsByTeam(ctx context.Context, teamID string) ([]Submission, error)
	ListSubmissionsByTask(ctx context.Context, taskID string) ([]Submission, error)
	GetSubmissionByTeamAndTask(ctx context.Context, teamID, taskID string) (Submission, error)
	// ListSubmissionsByStartedHunt joins submissions with the hunt's teams.
	// It is derived on demand, there is no maintained cross-reference list
	// to drift from the ledger.
	ListSubmissionsByStartedHunt(ctx context.Context, huntID string) ([]Submission, error)
	// ListPhotoRefsByStartedHunt returns the non-empty photo references of
	// all submissions belonging to the hunt, for blob reclamation before a
	// cascade.
	ListPhotoRefsByStartedHunt(ctx context.Context, huntID string) ([]string, error)
	// ListPhotoRefs returns every non-empty photo reference in the ledger.
	ListPhotoRefs(ctx context.Context) ([]string, error)
	// UpsertSubmission records evidence for a (team, task) pair in one
	// transaction: it creates the submission on first upload, swaps the
	// reference and refreshes the timestamp on re-upload, and returns the
	// previous reference (empty on first upload) so the caller can reclaim
	// the old blob.
	UpsertSubmission(ctx context.Context, teamID, taskID, photoRef string, at time.Time) (sub Submission, prevRef string, err error)
	DeleteSubmission(ctx context.Context, id string) error
	DeleteSubmissionsByTeam(ctx context.Context, teamID string) error
	DeleteSubmissionsByStartedHunt(ctx context.Context, huntID string) error

	Close() error
}
