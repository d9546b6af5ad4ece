package submission

import (
	"context"
	"net/http"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/hunt-ops/hunt-manager/api/v1/common"
	"github.com/hunt-ops/hunt-manager/global"
	errs "github.com/hunt-ops/hunt-manager/pkg/errors"
	"github.com/hunt-ops/hunt-manager/pkg/identity"
)

// Delete removes one submission record and reclaims its photo blob.
// The record goes first: a leftover blob is recoverable, a record
// pointing at deleted bytes is not.
func (led *Ledger) Delete(ctx context.Context, id string) error {
	logger := global.Log()
	ctx = global.WithSubmissionID(ctx, id)

	if !identity.Validate(id) {
		return &errs.ErrInvalidID{ID: id}
	}

	sub, err := led.store.GetSubmission(ctx, id)
	if err != nil {
		return err
	}
	if err := led.store.DeleteSubmission(ctx, id); err != nil {
		return err
	}
	common.SubmissionsUDCounter().Add(ctx, -1)

	if sub.PhotoRef != "" {
		if derr := led.blobs.Delete(ctx, sub.PhotoRef); derr != nil {
			logger.Error(ctx, "reclaiming photo",
				zap.String("photo_ref", sub.PhotoRef),
				zap.Error(derr),
			)
		}
	}
	return nil
}

// DeleteAllForHunt removes every submission of a started hunt, records
// then blobs. A returned error always comes from the record store; blob
// failures are aggregated and logged only, so an unreachable photo never
// stops a cascade the janitor can finish later.
// Callers are expected to hold the started hunt lock.
func (led *Ledger) DeleteAllForHunt(ctx context.Context, huntID string) error {
	ctx = global.WithStartedHuntID(ctx, huntID)

	refs, err := led.store.ListPhotoRefsByStartedHunt(ctx, huntID)
	if err != nil {
		return err
	}
	subs, err := led.store.ListSubmissionsByStartedHunt(ctx, huntID)
	if err != nil {
		return err
	}

	if err := led.store.DeleteSubmissionsByStartedHunt(ctx, huntID); err != nil {
		return err
	}
	common.SubmissionsUDCounter().Add(ctx, -int64(len(subs)))

	led.reclaimBlobs(ctx, refs)
	return nil
}

// DeleteAllForTeam removes every submission of a team, records then
// blobs. Same error contract as DeleteAllForHunt: record-store failures
// are returned, blob failures are logged only.
func (led *Ledger) DeleteAllForTeam(ctx context.Context, teamID string) error {
	ctx = global.WithTeamID(ctx, teamID)

	subs, err := led.store.ListSubmissionsByTeam(ctx, teamID)
	if err != nil {
		return err
	}
	if err := led.store.DeleteSubmissionsByTeam(ctx, teamID); err != nil {
		return err
	}
	common.SubmissionsUDCounter().Add(ctx, -int64(len(subs)))

	refs := make([]string, 0, len(subs))
	for _, sub := range subs {
		if sub.PhotoRef != "" {
			refs = append(refs, sub.PhotoRef)
		}
	}
	led.reclaimBlobs(ctx, refs)
	return nil
}

// reclaimBlobs deletes the given photo blobs, best effort.
func (led *Ledger) reclaimBlobs(ctx context.Context, refs []string) {
	var merr error
	for _, ref := range refs {
		merr = multierr.Append(merr, led.blobs.Delete(ctx, ref))
	}
	if merr != nil {
		global.Log().Error(ctx, "reclaiming photos",
			zap.Error(merr),
		)
	}
}

// DeleteSubmission handles DELETE /api/submissions/{id}.
func (led *Ledger) DeleteSubmission(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := led.Delete(ctx, r.PathValue("id")); err != nil {
		common.RespondError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
