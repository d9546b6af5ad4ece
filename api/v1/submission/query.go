package submission

import (
	"context"
	"net/http"

	"github.com/hunt-ops/hunt-manager/api/v1/common"
	"github.com/hunt-ops/hunt-manager/global"
	errs "github.com/hunt-ops/hunt-manager/pkg/errors"
	"github.com/hunt-ops/hunt-manager/pkg/identity"
	"github.com/hunt-ops/hunt-manager/pkg/store"
)

// QueryByTeam returns the submissions of one team, possibly empty.
func (led *Ledger) QueryByTeam(ctx context.Context, teamID string) ([]store.Submission, error) {
	ctx = global.WithTeamID(ctx, teamID)

	if !identity.Validate(teamID) {
		return nil, &errs.ErrInvalidID{ID: teamID}
	}
	return led.store.ListSubmissionsByTeam(ctx, teamID)
}

// QueryByTask returns every submission for one task, across teams.
func (led *Ledger) QueryByTask(ctx context.Context, taskID string) ([]store.Submission, error) {
	ctx = global.WithTaskID(ctx, taskID)

	if !identity.Validate(taskID) {
		return nil, &errs.ErrInvalidID{ID: taskID}
	}
	return led.store.ListSubmissionsByTask(ctx, taskID)
}

// QueryByStartedHunt returns every submission of a started hunt, derived
// by joining through its teams. An unknown hunt id yields an empty
// slice, not an error.
func (led *Ledger) QueryByStartedHunt(ctx context.Context, huntID string) ([]store.Submission, error) {
	ctx = global.WithStartedHuntID(ctx, huntID)

	if !identity.Validate(huntID) {
		return nil, &errs.ErrInvalidID{ID: huntID}
	}
	return led.store.ListSubmissionsByStartedHunt(ctx, huntID)
}

func respondList(ctx context.Context, w http.ResponseWriter, subs []store.Submission, err error) {
	if err != nil {
		common.RespondError(ctx, w, err)
		return
	}
	if subs == nil {
		subs = []store.Submission{}
	}
	common.RespondJSON(ctx, w, http.StatusOK, subs)
}

// QuerySubmissionsByTeam handles GET /api/submissions/team/{teamId}.
func (led *Ledger) QuerySubmissionsByTeam(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subs, err := led.QueryByTeam(ctx, r.PathValue("teamId"))
	respondList(ctx, w, subs, err)
}

// QuerySubmissionsByTask handles GET /api/submissions/task/{taskId}.
func (led *Ledger) QuerySubmissionsByTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subs, err := led.QueryByTask(ctx, r.PathValue("taskId"))
	respondList(ctx, w, subs, err)
}

// QuerySubmissionsByStartedHunt handles GET /api/submissions/startedHunt/{startedHuntId}.
func (led *Ledger) QuerySubmissionsByStartedHunt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subs, err := led.QueryByStartedHunt(ctx, r.PathValue("startedHuntId"))
	respondList(ctx, w, subs, err)
}
