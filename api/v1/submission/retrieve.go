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

// Retrieve returns one submission by id.
func (led *Ledger) Retrieve(ctx context.Context, id string) (store.Submission, error) {
	ctx = global.WithSubmissionID(ctx, id)

	if !identity.Validate(id) {
		return store.Submission{}, &errs.ErrInvalidID{ID: id}
	}
	return led.store.GetSubmission(ctx, id)
}

// RetrieveByPair returns the submission of a (team, task) pair, of which
// there is at most one.
func (led *Ledger) RetrieveByPair(ctx context.Context, teamID, taskID string) (store.Submission, error) {
	ctx = global.WithTeamID(ctx, teamID)
	ctx = global.WithTaskID(ctx, taskID)

	if !identity.Validate(teamID) {
		return store.Submission{}, &errs.ErrInvalidID{ID: teamID}
	}
	if !identity.Validate(taskID) {
		return store.Submission{}, &errs.ErrInvalidID{ID: taskID}
	}
	return led.store.GetSubmissionByTeamAndTask(ctx, teamID, taskID)
}

// RetrieveSubmission handles GET /api/submissions/{id}.
func (led *Ledger) RetrieveSubmission(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sub, err := led.Retrieve(ctx, r.PathValue("id"))
	if err != nil {
		common.RespondError(ctx, w, err)
		return
	}
	common.RespondJSON(ctx, w, http.StatusOK, sub)
}

// RetrieveSubmissionByPair handles GET /api/submissions/team/{teamId}/task/{taskId}.
func (led *Ledger) RetrieveSubmissionByPair(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sub, err := led.RetrieveByPair(ctx, r.PathValue("teamId"), r.PathValue("taskId"))
	if err != nil {
		common.RespondError(ctx, w, err)
		return
	}
	common.RespondJSON(ctx, w, http.StatusOK, sub)
}
