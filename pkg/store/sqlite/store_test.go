package sqlite_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/hunt-ops/hunt-manager/pkg/errors"
	"github.com/hunt-ops/hunt-manager/pkg/identity"
	"github.com/hunt-ops/hunt-manager/pkg/store"
	"github.com/hunt-ops/hunt-manager/pkg/store/sqlite"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.Open(filepath.Join(t.TempDir(), "hunt-manager.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}

func newHunt(t *testing.T, s *sqlite.Store) store.StartedHunt {
	t.Helper()

	hunt := store.StartedHunt{
		ID:         identity.New(),
		AccessCode: identity.NewAccessCode(),
		Status:     store.StatusNotStarted,
		Template: store.Template{
			Title:       "Campus hunt",
			Description: "Find them all",
			Tasks: []store.Task{
				{ID: identity.New(), Description: "Take a picture of a fountain"},
				{ID: identity.New(), Description: "Take a picture of a statue"},
			},
		},
		CreatedAt: time.Now(),
	}
	require.NoError(t, s.InsertStartedHunt(t.Context(), hunt))
	return hunt
}

func newTeam(t *testing.T, s *sqlite.Store, huntID, name string) store.Team {
	t.Helper()

	team := store.Team{
		ID:            identity.New(),
		Name:          name,
		StartedHuntID: huntID,
		CreatedAt:     time.Now(),
	}
	require.NoError(t, s.InsertTeams(t.Context(), []store.Team{team}))
	return team
}

func Test_U_OpenRequiresPath(t *testing.T) {
	t.Parallel()

	_, err := sqlite.Open(" ")
	assert.Error(t, err)
}

func Test_I_StartedHuntRoundTrip(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	require := require.New(t)

	s := newStore(t)
	hunt := newHunt(t, s)

	got, err := s.GetStartedHunt(t.Context(), hunt.ID)
	require.NoError(err)
	assert.Equal(hunt.ID, got.ID)
	assert.Equal(hunt.AccessCode, got.AccessCode)
	assert.Equal(store.StatusNotStarted, got.Status)
	assert.Equal(hunt.Template, got.Template)

	byCode, err := s.GetStartedHuntByAccessCode(t.Context(), hunt.AccessCode)
	require.NoError(err)
	assert.Equal(hunt.ID, byCode.ID)

	inUse, err := s.AccessCodeInUse(t.Context(), hunt.AccessCode)
	require.NoError(err)
	assert.True(inUse)

	// A completed hunt releases its access code.
	require.NoError(s.UpdateStartedHuntStatus(t.Context(), hunt.ID, store.StatusCompleted))
	inUse, err = s.AccessCodeInUse(t.Context(), hunt.AccessCode)
	require.NoError(err)
	assert.False(inUse)
}

func Test_I_StartedHuntMissing(t *testing.T) {
	t.Parallel()

	require := require.New(t)

	s := newStore(t)

	var target *errs.ErrStartedHuntExist
	_, err := s.GetStartedHunt(t.Context(), identity.New())
	require.ErrorAs(err, &target)
	require.False(target.Exist)

	err = s.DeleteStartedHunt(t.Context(), identity.New())
	require.ErrorAs(err, &target)

	err = s.UpdateStartedHuntStatus(t.Context(), identity.New(), store.StatusActive)
	require.ErrorAs(err, &target)
}

func Test_I_TeamBatchAllOrNothing(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	require := require.New(t)

	s := newStore(t)
	hunt := newHunt(t, s)

	dup := identity.New()
	batch := []store.Team{
		{ID: identity.New(), Name: "Team 1", StartedHuntID: hunt.ID, CreatedAt: time.Now()},
		{ID: dup, Name: "Team 2", StartedHuntID: hunt.ID, CreatedAt: time.Now()},
		{ID: dup, Name: "Team 3", StartedHuntID: hunt.ID, CreatedAt: time.Now()},
	}
	require.Error(s.InsertTeams(t.Context(), batch))

	// The failed batch must not be partially visible.
	n, err := s.CountTeamsByStartedHunt(t.Context(), hunt.ID)
	require.NoError(err)
	assert.Zero(n)
}

func Test_I_TeamUnknownHunt(t *testing.T) {
	t.Parallel()

	require := require.New(t)

	s := newStore(t)

	var target *errs.ErrStartedHuntExist
	err := s.InsertTeams(t.Context(), []store.Team{
		{ID: identity.New(), Name: "Team 1", StartedHuntID: identity.New(), CreatedAt: time.Now()},
	})
	require.ErrorAs(err, &target)
	require.False(target.Exist)
}

func Test_I_SubmissionUpsert(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	require := require.New(t)

	s := newStore(t)
	hunt := newHunt(t, s)
	team := newTeam(t, s, hunt.ID, "Team 1")
	taskID := hunt.Template.Tasks[0].ID

	// First upload creates the record.
	sub, prevRef, err := s.UpsertSubmission(t.Context(), team.ID, taskID, identity.New()+".png", time.Now())
	require.NoError(err)
	assert.Empty(prevRef)
	assert.NotEmpty(sub.ID)

	// Re-upload swaps the reference in place and reports the old one.
	newRef := identity.New() + ".jpg"
	sub2, prevRef, err := s.UpsertSubmission(t.Context(), team.ID, taskID, newRef, time.Now())
	require.NoError(err)
	assert.Equal(sub.ID, sub2.ID)
	assert.Equal(sub.PhotoRef, prevRef)
	assert.Equal(newRef, sub2.PhotoRef)

	// Exactly one record for the pair, whatever the upload count.
	subs, err := s.ListSubmissionsByTeam(t.Context(), team.ID)
	require.NoError(err)
	require.Len(subs, 1)
	assert.Equal(newRef, subs[0].PhotoRef)

	got, err := s.GetSubmissionByTeamAndTask(t.Context(), team.ID, taskID)
	require.NoError(err)
	assert.Equal(sub.ID, got.ID)
}

func Test_I_SubmissionUpsertUnknownTeam(t *testing.T) {
	t.Parallel()

	require := require.New(t)

	s := newStore(t)

	var target *errs.ErrTeamExist
	_, _, err := s.UpsertSubmission(t.Context(), identity.New(), identity.New(), identity.New()+".png", time.Now())
	require.ErrorAs(err, &target)
	require.False(target.Exist)
}

func Test_I_ListSubmissionsByStartedHunt(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	require := require.New(t)

	s := newStore(t)
	hunt := newHunt(t, s)
	other := newHunt(t, s)
	team1 := newTeam(t, s, hunt.ID, "Team 1")
	team2 := newTeam(t, s, hunt.ID, "Team 2")
	foreign := newTeam(t, s, other.ID, "Team 1")
	taskID := hunt.Template.Tasks[0].ID

	_, _, err := s.UpsertSubmission(t.Context(), team1.ID, taskID, identity.New()+".png", time.Now())
	require.NoError(err)
	_, _, err = s.UpsertSubmission(t.Context(), team2.ID, taskID, identity.New()+".png", time.Now())
	require.NoError(err)
	_, _, err = s.UpsertSubmission(t.Context(), foreign.ID, taskID, identity.New()+".png", time.Now())
	require.NoError(err)

	subs, err := s.ListSubmissionsByStartedHunt(t.Context(), hunt.ID)
	require.NoError(err)
	assert.Len(subs, 2)

	refs, err := s.ListPhotoRefsByStartedHunt(t.Context(), hunt.ID)
	require.NoError(err)
	assert.Len(refs, 2)

	// Unknown hunt id yields an empty sequence, not an error.
	subs, err = s.ListSubmissionsByStartedHunt(t.Context(), identity.New())
	require.NoError(err)
	assert.Empty(subs)
}

func Test_I_CascadeDeleteStartedHunt(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	require := require.New(t)

	s := newStore(t)
	hunt := newHunt(t, s)
	team := newTeam(t, s, hunt.ID, "Team 1")
	taskID := hunt.Template.Tasks[0].ID

	sub, _, err := s.UpsertSubmission(t.Context(), team.ID, taskID, identity.New()+".png", time.Now())
	require.NoError(err)

	require.NoError(s.DeleteStartedHunt(t.Context(), hunt.ID))

	var teamErr *errs.ErrTeamExist
	_, err = s.GetTeam(t.Context(), team.ID)
	require.ErrorAs(err, &teamErr)

	var subErr *errs.ErrSubmissionExist
	_, err = s.GetSubmission(t.Context(), sub.ID)
	require.ErrorAs(err, &subErr)

	subs, err := s.ListSubmissionsByStartedHunt(t.Context(), hunt.ID)
	require.NoError(err)
	assert.Empty(subs)
}

func Test_I_DeleteSubmission(t *testing.T) {
	t.Parallel()

	require := require.New(t)

	s := newStore(t)
	hunt := newHunt(t, s)
	team := newTeam(t, s, hunt.ID, "Team 1")

	sub, _, err := s.UpsertSubmission(t.Context(), team.ID, hunt.Template.Tasks[0].ID, identity.New()+".png", time.Now())
	require.NoError(err)

	require.NoError(s.DeleteSubmission(t.Context(), sub.ID))

	var target *errs.ErrSubmissionExist
	require.ErrorAs(s.DeleteSubmission(t.Context(), sub.ID), &target)
	require.False(target.Exist)
}
