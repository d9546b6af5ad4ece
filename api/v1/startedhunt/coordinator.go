package startedhunt

import (
	"github.com/hunt-ops/hunt-manager/api/v1/submission"
	"github.com/hunt-ops/hunt-manager/api/v1/team"
	"github.com/hunt-ops/hunt-manager/pkg/store"
)

// NewCoordinator returns a Coordinator orchestrating started hunts over
// the given record store and the team/submission services.
func NewCoordinator(s store.Store, teams *team.Registry, subs *submission.Ledger) *Coordinator {
	return &Coordinator{
		store: s,
		teams: teams,
		subs:  subs,
	}
}

// Coordinator handles the lifecycle of started hunts: beginning one
// (access code allocation, template snapshot, initial teams), looking it
// up for hosts and joining players, moving its status forward, and
// tearing everything down at the end.
type Coordinator struct {
	store store.Store
	teams *team.Registry
	subs  *submission.Ledger
}

// accessCodeAttempts bounds the uniqueness retry loop at hunt creation.
// 31^6 codes make collisions vanishingly rare, so hitting the bound
// means the code space is effectively exhausted or the store is lying.
const accessCodeAttempts = 10
