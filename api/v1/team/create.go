package team

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/hunt-ops/hunt-manager/api/v1/common"
	"github.com/hunt-ops/hunt-manager/global"
	errs "github.com/hunt-ops/hunt-manager/pkg/errors"
	"github.com/hunt-ops/hunt-manager/pkg/identity"
	"github.com/hunt-ops/hunt-manager/pkg/store"
)

// CreateBatch creates n teams for a started hunt, named sequentially
// after the teams already registered ("Team <count+1>" .. "Team <count+n>").
// The whole batch is inserted in one transaction: either all teams exist
// afterwards, or none do.
func (reg *Registry) CreateBatch(ctx context.Context, huntID string, n int) ([]store.Team, error) {
	logger := global.Log()
	ctx = global.WithStartedHuntID(ctx, huntID)

	if !identity.Validate(huntID) {
		return nil, &errs.ErrInvalidID{ID: huntID}
	}
	if n < 1 || n > MaxBatch {
		return nil, &errs.ErrValidationFailed{
			Reason: fmt.Sprintf("numTeams must be between 1 and %d, got %d", MaxBatch, n),
		}
	}

	// 1. Lock the started hunt. Numbering depends on the current count,
	// so concurrent batches must not interleave between count and insert.
	hlock, err := common.LockStartedHunt(ctx, huntID)
	if err != nil {
		err := &errs.ErrInternal{Sub: err}
		logger.Error(ctx, "build started hunt lock", zap.Error(err))
		return nil, errs.ErrInternalNoSub
	}
	defer common.LClose(hlock)
	if err := hlock.Lock(ctx); err != nil {
		err := &errs.ErrInternal{Sub: err}
		logger.Error(ctx, "started hunt lock", zap.Error(err))
		return nil, errs.ErrInternalNoSub
	}
	defer func() {
		if err := hlock.Unlock(ctx); err != nil {
			logger.Error(ctx, "started hunt unlock", zap.Error(err))
		}
	}()

	// 2. The started hunt must exist.
	if _, err := reg.store.GetStartedHunt(ctx, huntID); err != nil {
		return nil, err
	}

	// 3. Name the new teams after the existing ones.
	count, err := reg.store.CountTeamsByStartedHunt(ctx, huntID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	teams := make([]store.Team, 0, n)
	for i := 1; i <= n; i++ {
		teams = append(teams, store.Team{
			ID:            identity.New(),
			Name:          fmt.Sprintf("Team %d", count+i),
			StartedHuntID: huntID,
			CreatedAt:     now,
		})
	}

	// 4. All-or-nothing insert.
	if err := reg.store.InsertTeams(ctx, teams); err != nil {
		return nil, err
	}

	common.TeamsUDCounter().Add(ctx, int64(n))
	logger.Info(ctx, "created teams",
		zap.Int("count", n),
	)
	return teams, nil
}

// Create registers a single team with an explicit name.
func (reg *Registry) Create(ctx context.Context, huntID, name string) (store.Team, error) {
	ctx = global.WithStartedHuntID(ctx, huntID)

	if !identity.Validate(huntID) {
		return store.Team{}, &errs.ErrInvalidID{ID: huntID}
	}
	if strings.TrimSpace(name) == "" {
		return store.Team{}, &errs.ErrValidationFailed{Reason: "team name is required"}
	}

	t := store.Team{
		ID:            identity.New(),
		Name:          name,
		StartedHuntID: huntID,
		CreatedAt:     time.Now(),
	}
	if err := reg.store.InsertTeams(ctx, []store.Team{t}); err != nil {
		return store.Team{}, err
	}

	common.TeamsUDCounter().Add(ctx, 1)
	return t, nil
}

// AddTeams handles POST /api/teams/addTeams/{startedHuntId}/{numTeams}.
func (reg *Registry) AddTeams(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	n, err := strconv.Atoi(r.PathValue("numTeams"))
	if err != nil {
		common.RespondError(ctx, w, &errs.ErrValidationFailed{
			Reason: fmt.Sprintf("numTeams must be an integer, got %q", r.PathValue("numTeams")),
		})
		return
	}

	teams, err := reg.CreateBatch(ctx, r.PathValue("startedHuntId"), n)
	if err != nil {
		common.RespondError(ctx, w, err)
		return
	}
	common.RespondJSON(ctx, w, http.StatusCreated, map[string]any{
		"numTeamsCreated": len(teams),
		"teams":           teams,
	})
}

// CreateTeam handles POST /api/teams.
func (reg *Registry) CreateTeam(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		Name          string `json:"name"`
		StartedHuntID string `json:"startedHuntId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(ctx, w, &errs.ErrValidationFailed{Reason: "invalid JSON body"})
		return
	}

	t, err := reg.Create(ctx, req.StartedHuntID, req.Name)
	if err != nil {
		common.RespondError(ctx, w, err)
		return
	}
	common.RespondJSON(ctx, w, http.StatusCreated, t)
}
