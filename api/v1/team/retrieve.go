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

// Retrieve returns one team by id.
func (reg *Registry) Retrieve(ctx context.Context, id string) (store.Team, error) {
	ctx = global.WithTeamID(ctx, id)

	if !identity.Validate(id) {
		return store.Team{}, &errs.ErrInvalidID{ID: id}
	}
	return reg.store.GetTeam(ctx, id)
}

// RetrieveTeam handles GET /api/teams/{id}.
func (reg *Registry) RetrieveTeam(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	t, err := reg.Retrieve(ctx, r.PathValue("id"))
	if err != nil {
		common.RespondError(ctx, w, err)
		return
	}
	common.RespondJSON(ctx, w, http.StatusOK, t)
}
