package startedhunt

import (
	"context"
	"fmt"
	"net/http"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/hunt-ops/hunt-manager/api/v1/common"
	"github.com/hunt-ops/hunt-manager/global"
	errs "github.com/hunt-ops/hunt-manager/pkg/errors"
	"github.com/hunt-ops/hunt-manager/pkg/identity"
	"github.com/hunt-ops/hunt-manager/pkg/store"
)

// UpdateStatus moves a started hunt to the given status. Transitions
// only go forward (NotStarted -> Active -> Completed); re-asserting the
// current status is a no-op rather than an error.
func (coord *Coordinator) UpdateStatus(ctx context.Context, id string, next store.Status) (store.StartedHunt, error) {
	logger := global.Log()
	ctx = global.WithStartedHuntID(ctx, id)

	if !identity.Validate(id) {
		return store.StartedHunt{}, &errs.ErrInvalidID{ID: id}
	}
	if !next.Valid() {
		return store.StartedHunt{}, &errs.ErrValidationFailed{
			Reason: fmt.Sprintf("unknown status %q", next),
		}
	}

	hunt, err := coord.store.GetStartedHunt(ctx, id)
	if err != nil {
		return store.StartedHunt{}, err
	}
	if !hunt.Status.CanTransitionTo(next) {
		return store.StartedHunt{}, &errs.ErrValidationFailed{
			Reason: fmt.Sprintf("cannot move status from %s to %s", hunt.Status, next),
		}
	}
	if hunt.Status == next {
		return hunt, nil
	}

	if err := coord.store.UpdateStartedHuntStatus(ctx, id, next); err != nil {
		return store.StartedHunt{}, err
	}
	hunt.Status = next

	logger.Info(ctx, "updated hunt status",
		zap.String("status", string(next)),
	)
	return hunt, nil
}

// UpdateStartedHuntStatus handles PUT /api/startedHunts/{id}/status.
func (coord *Coordinator) UpdateStartedHuntStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		Status store.Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(ctx, w, &errs.ErrValidationFailed{Reason: "invalid JSON body"})
		return
	}

	hunt, err := coord.UpdateStatus(ctx, r.PathValue("id"), req.Status)
	if err != nil {
		common.RespondError(ctx, w, err)
		return
	}
	common.RespondJSON(ctx, w, http.StatusOK, hunt)
}
