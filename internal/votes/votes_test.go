package votes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artist-atlas/backend/internal/models"
	"github.com/artist-atlas/backend/internal/testutil"
	"github.com/artist-atlas/backend/internal/votes"
)

func TestCastToggleAndSwitch(t *testing.T) {
	db := testutil.StartPostgres(t)
	svc := votes.NewService(db)

	const artistID, voterID = 10, 1

	// First cast creates the vote.
	result, err := svc.Cast(votes.TargetArtist, artistID, voterID, votes.Up)
	require.NoError(t, err)
	require.NotNil(t, result.Vote)
	assert.False(t, result.Removed)
	assert.Equal(t, int(votes.Up), result.Vote.Value)

	summary, err := svc.SummaryByTarget(votes.TargetArtist, artistID)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Upvotes.Count)
	assert.Equal(t, []int{voterID}, summary.Upvotes.Users)

	// Same value again toggles the vote off.
	result, err = svc.Cast(votes.TargetArtist, artistID, voterID, votes.Up)
	require.NoError(t, err)
	assert.True(t, result.Removed)

	summary, err = svc.SummaryByTarget(votes.TargetArtist, artistID)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Upvotes.Count)
	assert.Empty(t, summary.Upvotes.Users)

	var count int64
	db.Model(&models.Vote{}).Where("target_id = ? AND voter_id = ?", artistID, voterID).Count(&count)
	assert.Zero(t, count, "toggled-off vote must leave no row behind")

	// Up then down switches in place: the voter is in exactly one list.
	_, err = svc.Cast(votes.TargetArtist, artistID, voterID, votes.Up)
	require.NoError(t, err)
	result, err = svc.Cast(votes.TargetArtist, artistID, voterID, votes.Down)
	require.NoError(t, err)
	assert.False(t, result.Removed)
	assert.Equal(t, int(votes.Down), result.Vote.Value)

	summary, err = svc.SummaryByTarget(votes.TargetArtist, artistID)
	require.NoError(t, err)
	assert.Equal(t, []int{voterID}, summary.Downvotes.Users)
	assert.NotContains(t, summary.Upvotes.Users, voterID)

	db.Model(&models.Vote{}).Where("target_id = ? AND voter_id = ?", artistID, voterID).Count(&count)
	assert.EqualValues(t, 1, count, "a switch must never leave two rows")
}

func TestCastRejectsBadInput(t *testing.T) {
	db := testutil.StartPostgres(t)
	svc := votes.NewService(db)

	_, err := svc.Cast(votes.TargetArtist, 1, 1, votes.Value(0))
	assert.ErrorIs(t, err, votes.ErrBadValue)

	_, err = svc.Cast(votes.TargetKind("album"), 1, 1, votes.Up)
	assert.ErrorIs(t, err, votes.ErrBadKind)

	_, err = votes.ParseValue("sideways")
	assert.ErrorIs(t, err, votes.ErrBadValue)
}

func TestSummaryInvariants(t *testing.T) {
	db := testutil.StartPostgres(t)
	svc := votes.NewService(db)

	const artistID = 7
	voters := map[int]votes.Value{1: votes.Up, 2: votes.Up, 3: votes.Down, 4: votes.Up, 5: votes.Down}
	for voterID, value := range voters {
		_, err := svc.Cast(votes.TargetArtist, artistID, voterID, value)
		require.NoError(t, err)
	}

	summary, err := svc.SummaryByTarget(votes.TargetArtist, artistID)
	require.NoError(t, err)

	assert.Equal(t, len(summary.Upvotes.Users), summary.Upvotes.Count)
	assert.Equal(t, len(summary.Downvotes.Users), summary.Downvotes.Count)
	assert.Equal(t, 3, summary.Upvotes.Count)
	assert.Equal(t, 2, summary.Downvotes.Count)
	for _, voterID := range summary.Upvotes.Users {
		assert.NotContains(t, summary.Downvotes.Users, voterID)
	}
}

func TestLedgersAreIndependentPerKind(t *testing.T) {
	db := testutil.StartPostgres(t)
	svc := votes.NewService(db)

	// Same numeric target id in both ledgers must not conflate.
	const targetID, voterID = 42, 1
	_, err := svc.Cast(votes.TargetArtist, targetID, voterID, votes.Up)
	require.NoError(t, err)
	_, err = svc.Cast(votes.TargetComment, targetID, voterID, votes.Down)
	require.NoError(t, err)

	artistSummary, err := svc.SummaryByTarget(votes.TargetArtist, targetID)
	require.NoError(t, err)
	commentSummary, err := svc.SummaryByTarget(votes.TargetComment, targetID)
	require.NoError(t, err)

	assert.Equal(t, 1, artistSummary.Upvotes.Count)
	assert.Equal(t, 0, artistSummary.Downvotes.Count)
	assert.Equal(t, 0, commentSummary.Upvotes.Count)
	assert.Equal(t, 1, commentSummary.Downvotes.Count)
}

func TestSummaryByVoter(t *testing.T) {
	db := testutil.StartPostgres(t)
	svc := votes.NewService(db)

	const voterID = 9
	_, err := svc.Cast(votes.TargetArtist, 1, voterID, votes.Up)
	require.NoError(t, err)
	_, err = svc.Cast(votes.TargetArtist, 2, voterID, votes.Down)
	require.NoError(t, err)
	_, err = svc.Cast(votes.TargetArtist, 3, voterID, votes.Up)
	require.NoError(t, err)

	summary, err := svc.SummaryByVoter(votes.TargetArtist, voterID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{1, 3}, summary.Upvotes)
	assert.Equal(t, []int{2}, summary.Downvotes)
}

func TestCascadeDeletes(t *testing.T) {
	db := testutil.StartPostgres(t)
	svc := votes.NewService(db)

	_, err := svc.Cast(votes.TargetArtist, 1, 1, votes.Up)
	require.NoError(t, err)
	_, err = svc.Cast(votes.TargetComment, 5, 1, votes.Up)
	require.NoError(t, err)
	_, err = svc.Cast(votes.TargetComment, 5, 2, votes.Down)
	require.NoError(t, err)
	_, err = svc.Cast(votes.TargetComment, 6, 2, votes.Up)
	require.NoError(t, err)

	// Voter 1 leaves: both of their votes go, nobody else's do.
	require.NoError(t, svc.DeleteByVoter(1))
	var count int64
	db.Model(&models.Vote{}).Where("voter_id = ?", 1).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.Vote{}).Count(&count)
	assert.EqualValues(t, 2, count)

	// Comments 5 and 6 are removed: their votes go with them.
	require.NoError(t, svc.DeleteByTargets(votes.TargetComment, []int{5, 6}))
	db.Model(&models.Vote{}).Count(&count)
	assert.Zero(t, count)
}
