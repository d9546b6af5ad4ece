package team

import (
	"context"
	"net/http"

	"github.com/hunt-ops/hunt-manager/api/v1/common"
	"github.com/hunt-ops/hunt-manager/global"
	errs "github.com/hunt-ops/hunt-manager/pkg/errors"
	"github.com/hunt-ops/hunt-manager/pkg/identity"
)

// Delete removes one team, sweeping its submissions and their photo
// blobs first so the FK cascade never strands evidence bytes.
func (reg *Registry) Delete(ctx context.Context, id string) error {
	ctx = global.WithTeamID(ctx, id)

	if !identity.Validate(id) {
		return &errs.ErrInvalidID{ID: id}
	}
	if err := reg.evidence.DeleteAllForTeam(ctx, id); err != nil {
		return err
	}
	if err := reg.store.DeleteTeam(ctx, id); err != nil {
		return err
	}

	common.TeamsUDCounter().Add(ctx, -1)
	return nil
}

// DeleteAllForHunt removes every team of a started hunt. Callers are
// expected to hold the started hunt lock and to have dealt with the
// submission blobs beforehand.
func (reg *Registry) DeleteAllForHunt(ctx context.Context, huntID string) error {
	ctx = global.WithStartedHuntID(ctx, huntID)

	count, err := reg.store.CountTeamsByStartedHunt(ctx, huntID)
	if err != nil {
		return err
	}
	if err := reg.store.DeleteTeamsByStartedHunt(ctx, huntID); err != nil {
		return err
	}

	common.TeamsUDCounter().Add(ctx, -int64(count))
	return nil
}

// DeleteTeam handles DELETE /api/teams/{id}.
func (reg *Registry) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := reg.Delete(ctx, r.PathValue("id")); err != nil {
		common.RespondError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
