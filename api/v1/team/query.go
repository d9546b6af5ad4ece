package team

import (
	"context"
	"net/http"

	"github.com/hunt-ops/hunt-manager/api/v1/common"
	"github.com/hunt-ops/hunt-manager/global"
	errs "github.com/hunt-ops/hunt-manager/pkg/errors"
	"github.com/hunt-ops/hunt-manager/pkg/identity"
	"github.com/hunt-ops/hunt-manager/pkg/store"
)

// Query returns every registered team.
func (reg *Registry) Query(ctx context.Context) ([]store.Team, error) {
	return reg.store.ListTeams(ctx)
}

// QueryByStartedHunt returns the teams of one started hunt. An unknown
// hunt id yields an empty slice, not an error.
func (reg *Registry) QueryByStartedHunt(ctx context.Context, huntID string) ([]store.Team, error) {
	ctx = global.WithStartedHuntID(ctx, huntID)

	if !identity.Validate(huntID) {
		return nil, &errs.ErrInvalidID{ID: huntID}
	}
	return reg.store.ListTeamsByStartedHunt(ctx, huntID)
}

// QueryTeams handles GET /api/teams.
func (reg *Registry) QueryTeams(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	teams, err := reg.Query(ctx)
	if err != nil {
		common.RespondError(ctx, w, err)
		return
	}
	if teams == nil {
		teams = []store.Team{}
	}
	common.RespondJSON(ctx, w, http.StatusOK, teams)
}

// QueryTeamsByStartedHunt handles GET /api/teams/startedHunt/{startedHuntId}.
func (reg *Registry) QueryTeamsByStartedHunt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	teams, err := reg.QueryByStartedHunt(ctx, r.PathValue("startedHuntId"))
	if err != nil {
		common.RespondError(ctx, w, err)
		return
	}
	if teams == nil {
		teams = []store.Team{}
	}
	common.RespondJSON(ctx, w, http.StatusOK, teams)
}
