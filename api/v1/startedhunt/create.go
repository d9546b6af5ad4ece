package startedhunt

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/hunt-ops/hunt-manager/api/v1/common"
	"github.com/hunt-ops/hunt-manager/api/v1/team"
	"github.com/hunt-ops/hunt-manager/global"
	errs "github.com/hunt-ops/hunt-manager/pkg/errors"
	"github.com/hunt-ops/hunt-manager/pkg/identity"
	"github.com/hunt-ops/hunt-manager/pkg/store"
)

// BeginHunt starts a hunt: it snapshots the template, allocates an
// access code unique among non-completed hunts, persists the record
// with status NotStarted, then registers the initial teams.
func (coord *Coordinator) BeginHunt(ctx context.Context, tmpl store.Template, numTeams int) (store.StartedHunt, error) {
	logger := global.Log()

	if strings.TrimSpace(tmpl.Title) == "" {
		return store.StartedHunt{}, &errs.ErrValidationFailed{Reason: "template title is required"}
	}
	if len(tmpl.Tasks) == 0 {
		return store.StartedHunt{}, &errs.ErrValidationFailed{Reason: "template must carry at least one task"}
	}
	if numTeams < 1 || numTeams > team.MaxBatch {
		return store.StartedHunt{}, &errs.ErrValidationFailed{
			Reason: fmt.Sprintf("numTeams must be between 1 and %d, got %d", team.MaxBatch, numTeams),
		}
	}

	// 1. Snapshot the template. Tasks keep their ids when the authoring
	// side provided some, and get fresh ones otherwise.
	for i, task := range tmpl.Tasks {
		if strings.TrimSpace(task.Description) == "" {
			return store.StartedHunt{}, &errs.ErrValidationFailed{
				Reason: fmt.Sprintf("task %d has no description", i),
			}
		}
		if !identity.Validate(task.ID) {
			tmpl.Tasks[i].ID = identity.New()
		}
	}

	// 2. Allocate an access code not currently in use. Completed hunts
	// release theirs, so only live ones are checked.
	var code string
	for i := 0; ; i++ {
		if i >= accessCodeAttempts {
			err := &errs.ErrInternal{Sub: fmt.Errorf("no unique access code in %d attempts", accessCodeAttempts)}
			logger.Error(ctx, "allocating access code", zap.Error(err))
			return store.StartedHunt{}, errs.ErrInternalNoSub
		}
		code = identity.NewAccessCode()
		inUse, err := coord.store.AccessCodeInUse(ctx, code)
		if err != nil {
			return store.StartedHunt{}, err
		}
		if !inUse {
			break
		}
	}

	hunt := store.StartedHunt{
		ID:         identity.New(),
		AccessCode: code,
		Status:     store.StatusNotStarted,
		Template:   tmpl,
		CreatedAt:  time.Now(),
	}
	ctx = global.WithStartedHuntID(ctx, hunt.ID)

	if err := coord.store.InsertStartedHunt(ctx, hunt); err != nil {
		return store.StartedHunt{}, err
	}

	// 3. Register the initial teams. On failure the hunt record is
	// rolled back so the caller can simply retry.
	if _, err := coord.teams.CreateBatch(ctx, hunt.ID, numTeams); err != nil {
		if derr := coord.store.DeleteStartedHunt(ctx, hunt.ID); derr != nil {
			logger.Error(ctx, "rolling back started hunt", zap.Error(derr))
		}
		return store.StartedHunt{}, err
	}

	common.HuntsUDCounter().Add(ctx, 1)
	logger.Info(ctx, "began hunt",
		zap.String("access_code", hunt.AccessCode),
		zap.Int("num_teams", numTeams),
	)
	return hunt, nil
}

// CreateStartedHunt handles POST /api/startedHunts.
func (coord *Coordinator) CreateStartedHunt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		Template store.Template `json:"template"`
		NumTeams int            `json:"numTeams"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(ctx, w, &errs.ErrValidationFailed{Reason: "invalid JSON body"})
		return
	}

	hunt, err := coord.BeginHunt(ctx, req.Template, req.NumTeams)
	if err != nil {
		common.RespondError(ctx, w, err)
		return
	}
	common.RespondJSON(ctx, w, http.StatusCreated, hunt)
}
