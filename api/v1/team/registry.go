package team

import (
	"context"

	"github.com/hunt-ops/hunt-manager/pkg/store"
)

// EvidenceSweeper reclaims a team's submission records and their photo
// blobs. Satisfied by the submission ledger.
type EvidenceSweeper interface {
	DeleteAllForTeam(ctx context.Context, teamID string) error
}

// NewRegistry returns a Registry operating on the given record store,
// sweeping evidence through the given sweeper when a team goes away.
func NewRegistry(s store.Store, evidence EvidenceSweeper) *Registry {
	return &Registry{
		store:    s,
		evidence: evidence,
	}
}

// Registry handles the teams of started hunts.
// Batch creation numbers teams sequentially after the ones already
// registered, so it runs under the started hunt lock to keep the
// count-then-insert sequence atomic across concurrent calls.
type Registry struct {
	store    store.Store
	evidence EvidenceSweeper
}

// MaxBatch is the largest number of teams a single batch call may create.
const MaxBatch = 10
