package team_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hunt-ops/hunt-manager/api/v1/submission"
	"github.com/hunt-ops/hunt-manager/api/v1/team"
	"github.com/hunt-ops/hunt-manager/pkg/blob"
	errs "github.com/hunt-ops/hunt-manager/pkg/errors"
)

func Test_I_DeleteTeamReclaimsPhotos(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	require := require.New(t)

	s := newStore(t)
	hunt := newHunt(t, s)
	blobs := blob.NewMemory()
	led := submission.NewLedger(s, blobs)
	reg := team.NewRegistry(s, led)

	teams, err := reg.CreateBatch(t.Context(), hunt.ID, 1)
	require.NoError(err)

	_, err = led.Record(t.Context(), teams[0].ID, hunt.Template.Tasks[0].ID,
		bytes.NewReader([]byte("fountain bytes")), "fountain.jpg")
	require.NoError(err)
	require.Equal(1, blobs.Len())

	// Deleting the team takes its submission records and photo blobs
	// with it, nothing is left for the janitor.
	require.NoError(reg.Delete(t.Context(), teams[0].ID))
	assert.Equal(0, blobs.Len())

	subs, err := s.ListSubmissionsByTeam(t.Context(), teams[0].ID)
	require.NoError(err)
	assert.Empty(subs)

	var target *errs.ErrTeamExist
	_, err = s.GetTeam(t.Context(), teams[0].ID)
	require.ErrorAs(err, &target)
	assert.False(target.Exist)
}
