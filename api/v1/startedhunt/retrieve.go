package startedhunt

import (
	"context"
	"net/http"
	"strings"

	"github.com/hunt-ops/hunt-manager/api/v1/common"
	"github.com/hunt-ops/hunt-manager/global"
	errs "github.com/hunt-ops/hunt-manager/pkg/errors"
	"github.com/hunt-ops/hunt-manager/pkg/identity"
	"github.com/hunt-ops/hunt-manager/pkg/store"
)

// Retrieve returns one started hunt by id.
func (coord *Coordinator) Retrieve(ctx context.Context, id string) (store.StartedHunt, error) {
	ctx = global.WithStartedHuntID(ctx, id)

	if !identity.Validate(id) {
		return store.StartedHunt{}, &errs.ErrInvalidID{ID: id}
	}
	return coord.store.GetStartedHunt(ctx, id)
}

// RetrieveByAccessCode returns the live (non-completed) hunt behind an
// access code. This is the join flow for players.
func (coord *Coordinator) RetrieveByAccessCode(ctx context.Context, code string) (store.StartedHunt, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != identity.AccessCodeLen {
		return store.StartedHunt{}, &errs.ErrInvalidID{ID: code}
	}
	return coord.store.GetStartedHuntByAccessCode(ctx, code)
}

// RetrieveStartedHunt handles GET /api/startedHunts/{id}.
func (coord *Coordinator) RetrieveStartedHunt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	hunt, err := coord.Retrieve(ctx, r.PathValue("id"))
	if err != nil {
		common.RespondError(ctx, w, err)
		return
	}
	common.RespondJSON(ctx, w, http.StatusOK, hunt)
}

// RetrieveStartedHuntByAccessCode handles GET /api/startedHunts/accessCode/{accessCode}.
func (coord *Coordinator) RetrieveStartedHuntByAccessCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	hunt, err := coord.RetrieveByAccessCode(ctx, r.PathValue("accessCode"))
	if err != nil {
		common.RespondError(ctx, w, err)
		return
	}
	common.RespondJSON(ctx, w, http.StatusOK, hunt)
}
