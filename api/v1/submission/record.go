package submission

import (
	"context"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/hunt-ops/hunt-manager/api/v1/common"
	"github.com/hunt-ops/hunt-manager/global"
	errs "github.com/hunt-ops/hunt-manager/pkg/errors"
	"github.com/hunt-ops/hunt-manager/pkg/identity"
	"github.com/hunt-ops/hunt-manager/pkg/store"
)

// Record stores new photographic evidence for a (team, task) pair.
// If the pair already has a submission the photo is swapped in place:
// blob first, then the record, then the previous blob is reclaimed.
// A failure between the first two steps leaves an orphan blob at worst,
// never a record pointing at missing bytes.
func (led *Ledger) Record(ctx context.Context, teamID, taskID string, photo io.Reader, filename string) (store.Submission, error) {
	logger := global.Log()
	ctx = global.WithTeamID(ctx, teamID)
	ctx = global.WithTaskID(ctx, taskID)

	if !identity.Validate(teamID) {
		return store.Submission{}, &errs.ErrInvalidID{ID: teamID}
	}
	if !identity.Validate(taskID) {
		return store.Submission{}, &errs.ErrInvalidID{ID: taskID}
	}

	// 1. Persist the photo bytes.
	ref, err := led.blobs.Store(ctx, photo, filename)
	if err != nil {
		return store.Submission{}, err
	}

	// 2. Swap the record to the new photo.
	sub, prevRef, err := led.store.UpsertSubmission(ctx, teamID, taskID, ref, time.Now())
	if err != nil {
		// The record never pointed at the new blob, reclaim it.
		if derr := led.blobs.Delete(ctx, ref); derr != nil {
			logger.Error(ctx, "reclaiming unreferenced photo",
				zap.String("photo_ref", ref),
				zap.Error(derr),
			)
		}
		return store.Submission{}, err
	}
	ctx = global.WithSubmissionID(ctx, sub.ID)

	// 3. Reclaim the previous photo, best effort: the swap already
	// happened, a leftover blob is the janitor's problem.
	if prevRef != "" {
		if derr := led.blobs.Delete(ctx, prevRef); derr != nil {
			logger.Error(ctx, "reclaiming previous photo",
				zap.String("photo_ref", prevRef),
				zap.Error(derr),
			)
		}
	} else {
		common.SubmissionsUDCounter().Add(ctx, 1)
	}

	logger.Info(ctx, "recorded evidence",
		zap.String("photo_ref", ref),
	)
	return sub, nil
}

// RecordForPair handles POST /api/submissions/team/{teamId}/task/{taskId}.
func (led *Ledger) RecordForPair(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	photo, filename, err := photoFromRequest(r)
	if err != nil {
		common.RespondError(ctx, w, err)
		return
	}
	defer func() { _ = photo.Close() }()

	sub, err := led.Record(ctx, r.PathValue("teamId"), r.PathValue("taskId"), photo, filename)
	if err != nil {
		common.RespondError(ctx, w, err)
		return
	}
	common.RespondJSON(ctx, w, http.StatusCreated, sub)
}

// recordForExisting swaps the photo of an already known submission.
func (led *Ledger) recordForExisting(w http.ResponseWriter, r *http.Request, status int) {
	ctx := r.Context()

	sub, err := led.Retrieve(ctx, r.PathValue("id"))
	if err != nil {
		common.RespondError(ctx, w, err)
		return
	}

	photo, filename, err := photoFromRequest(r)
	if err != nil {
		common.RespondError(ctx, w, err)
		return
	}
	defer func() { _ = photo.Close() }()

	sub, err = led.Record(ctx, sub.TeamID, sub.TaskID, photo, filename)
	if err != nil {
		common.RespondError(ctx, w, err)
		return
	}
	common.RespondJSON(ctx, w, status, sub)
}

// AttachPhoto handles POST /api/submissions/{id}.
func (led *Ledger) AttachPhoto(w http.ResponseWriter, r *http.Request) {
	led.recordForExisting(w, r, http.StatusCreated)
}

// ReplacePhoto handles PUT /api/submissions/{id}.
func (led *Ledger) ReplacePhoto(w http.ResponseWriter, r *http.Request) {
	led.recordForExisting(w, r, http.StatusOK)
}
