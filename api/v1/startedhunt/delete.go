package startedhunt

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/hunt-ops/hunt-manager/api/v1/common"
	"github.com/hunt-ops/hunt-manager/global"
	errs "github.com/hunt-ops/hunt-manager/pkg/errors"
	"github.com/hunt-ops/hunt-manager/pkg/identity"
)

// EndHunt tears a started hunt down: submissions and their photos, then
// teams, then the hunt record itself, under the started hunt lock so no
// late team creation interleaves with the cascade.
func (coord *Coordinator) EndHunt(ctx context.Context, id string) error {
	logger := global.Log()
	ctx = global.WithStartedHuntID(ctx, id)

	if !identity.Validate(id) {
		return &errs.ErrInvalidID{ID: id}
	}

	// 1. Lock the started hunt.
	hlock, err := common.LockStartedHunt(ctx, id)
	if err != nil {
		err := &errs.ErrInternal{Sub: err}
		logger.Error(ctx, "build started hunt lock", zap.Error(err))
		return errs.ErrInternalNoSub
	}
	defer common.LClose(hlock)
	if err := hlock.Lock(ctx); err != nil {
		err := &errs.ErrInternal{Sub: err}
		logger.Error(ctx, "started hunt lock", zap.Error(err))
		return errs.ErrInternalNoSub
	}
	defer func() {
		if err := hlock.Unlock(ctx); err != nil {
			logger.Error(ctx, "started hunt unlock", zap.Error(err))
		}
	}()

	// 2. The hunt must exist.
	if _, err := coord.store.GetStartedHunt(ctx, id); err != nil {
		return err
	}

	// 3. Cascade: submissions (records then blobs), teams, hunt record.
	// The sweep only fails on record-store errors; blob failures are
	// logged inside it and left to the janitor.
	if err := coord.subs.DeleteAllForHunt(ctx, id); err != nil {
		return err
	}
	if err := coord.teams.DeleteAllForHunt(ctx, id); err != nil {
		return err
	}
	if err := coord.store.DeleteStartedHunt(ctx, id); err != nil {
		return err
	}

	common.HuntsUDCounter().Add(ctx, -1)
	logger.Info(ctx, "ended hunt")
	return nil
}

// DeleteStartedHunt handles DELETE /api/startedHunts/{id}.
func (coord *Coordinator) DeleteStartedHunt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := coord.EndHunt(ctx, r.PathValue("id")); err != nil {
		common.RespondError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
