package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beermile/backend/internal/domain"
	"github.com/beermile/backend/internal/repository"
)

func TestEnterPreviewDoesNotMutate(t *testing.T) {
	f, alice, bob := lockedFixture(t)

	_, err := f.bets.Place(f.ctx, f.eventID, alice.ID, BetInput{
		Type:             domain.BetTypeTimeOverUnder,
		ThresholdSeconds: 360,
		Direction:        domain.DirectionOver,
	})
	require.NoError(t, err)
	_, err = f.bets.Place(f.ctx, f.eventID, bob.ID, BetInput{
		Type:       domain.BetTypeVomitProp,
		Prediction: domain.PredictionYes,
	})
	require.NoError(t, err)

	preview, err := f.results.Enter(f.ctx, f.eventID, 400, false)
	require.NoError(t, err)

	assert.Equal(t, 400, preview.FinalTimeSeconds)
	assert.False(t, preview.VomitOutcome)

	// The projected board ranks the two bettors with alice on top.
	require.Len(t, preview.Leaderboard, 2)
	assert.Equal(t, LeaderboardRow{Rank: 1, UserID: alice.ID, Username: "alice", Points: 1}, preview.Leaderboard[0])
	assert.Equal(t, LeaderboardRow{Rank: 2, UserID: bob.ID, Username: "bob", Points: 0}, preview.Leaderboard[1])

	// Nothing is settled yet: bets stay pending, points stay zero.
	bets, err := f.betRepo.ListByEvent(f.ctx, f.eventID)
	require.NoError(t, err)
	for _, bet := range bets {
		assert.Equal(t, domain.BetStatusPending, bet.Status)
		assert.Zero(t, bet.PointsAwarded)
		assert.Nil(t, bet.Payload.Won)
	}
	entries, err := f.leaderboardRepo.ListByEvent(f.ctx, f.eventID)
	require.NoError(t, err)
	for _, entry := range entries {
		assert.Zero(t, entry.PointsEarned)
		assert.Nil(t, entry.Rank)
	}
}

func TestEnterCanBeRevisedUntilFinalize(t *testing.T) {
	f, _, _ := lockedFixture(t)

	_, err := f.results.Enter(f.ctx, f.eventID, 400, false)
	require.NoError(t, err)
	_, err = f.results.Enter(f.ctx, f.eventID, 385, true)
	require.NoError(t, err)

	event, err := f.events.CurrentEvent(f.ctx, f.eventID)
	require.NoError(t, err)
	require.NotNil(t, event.FinalTimeSeconds)
	assert.Equal(t, 385, *event.FinalTimeSeconds)
	require.NotNil(t, event.VomitOutcome)
	assert.True(t, *event.VomitOutcome)
}

func TestEnterRejectsOutOfRangeTime(t *testing.T) {
	f, _, _ := lockedFixture(t)

	_, err := f.results.Enter(f.ctx, f.eventID, 1201, false)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.results.Enter(f.ctx, f.eventID, -5, false)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestFinalizeRequiresEnteredResults(t *testing.T) {
	f, _, _ := lockedFixture(t)

	_, err := f.results.Finalize(f.ctx, f.eventID)
	assert.ErrorIs(t, err, ErrResultsNotEntered)
}

func TestFinalizeGuardsAgainstDoubleAward(t *testing.T) {
	f, alice, _ := lockedFixture(t)

	_, err := f.bets.Place(f.ctx, f.eventID, alice.ID, BetInput{
		Type:       domain.BetTypeVomitProp,
		Prediction: domain.PredictionNo,
	})
	require.NoError(t, err)

	_, err = f.results.Enter(f.ctx, f.eventID, 400, false)
	require.NoError(t, err)

	event, err := f.results.Finalize(f.ctx, f.eventID)
	require.NoError(t, err)
	assert.True(t, event.ResultsFinalized)
	assert.NotNil(t, event.FinalizedAt)
	assert.Equal(t, domain.EventStatusCompleted, event.Status)

	_, err = f.results.Finalize(f.ctx, f.eventID)
	require.ErrorIs(t, err, ErrResultsFinalized)

	bets, err := f.betRepo.ListByEvent(f.ctx, f.eventID)
	require.NoError(t, err)
	require.Len(t, bets, 1)
	assert.Equal(t, 1, bets[0].PointsAwarded)
}

func TestResetReturnsBetsToPending(t *testing.T) {
	f, alice, _ := lockedFixture(t)

	_, err := f.bets.Place(f.ctx, f.eventID, alice.ID, BetInput{
		Type:       domain.BetTypeVomitProp,
		Prediction: domain.PredictionNo,
	})
	require.NoError(t, err)

	_, err = f.results.Enter(f.ctx, f.eventID, 400, false)
	require.NoError(t, err)

	err = f.results.Reset(f.ctx, f.eventID, "")
	require.ErrorIs(t, err, ErrValidation)

	require.NoError(t, f.results.Reset(f.ctx, f.eventID, "timer dispute"))

	event, err := f.events.CurrentEvent(f.ctx, f.eventID)
	require.NoError(t, err)
	assert.Nil(t, event.FinalTimeSeconds)
	assert.Nil(t, event.VomitOutcome)
	assert.True(t, event.IsLocked())

	bets, err := f.betRepo.ListByEvent(f.ctx, f.eventID)
	require.NoError(t, err)
	require.Len(t, bets, 1)
	assert.Equal(t, domain.BetStatusPending, bets[0].Status)
}

func TestResetAfterFinalizeConflicts(t *testing.T) {
	f, _, _ := lockedFixture(t)

	_, err := f.results.Enter(f.ctx, f.eventID, 400, false)
	require.NoError(t, err)
	_, err = f.results.Finalize(f.ctx, f.eventID)
	require.NoError(t, err)

	err = f.results.Reset(f.ctx, f.eventID, "too late")
	assert.ErrorIs(t, err, repository.ErrAlreadyFinalized)
}

// Full lifecycle: marks, consensus, lock, bets, preview, finalize, board.
func TestSeasonLifecycle(t *testing.T) {
	f := newFixture(t)
	alice := f.signup(t, "alice")
	bob := f.signup(t, "bob")
	carol := f.signup(t, "carol")

	for _, u := range []*domain.User{alice, bob, carol} {
		f.markDate(t, u.ID, "2026-03-15", true)
	}
	f.markDate(t, alice.ID, "2026-03-16", true)
	f.markDate(t, bob.ID, "2026-03-16", false)

	view, err := f.availability.MonthView(f.ctx, f.eventID, alice.ID, 2026, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-03-15"}, view.ConsensusDates)

	f.lockDate(t, "2026-03-15")
	_, err = f.events.Lock(f.ctx, f.eventID, "2026-03-16")
	require.ErrorIs(t, err, repository.ErrAlreadyLocked)

	_, err = f.bets.Place(f.ctx, f.eventID, alice.ID, BetInput{
		Type:             domain.BetTypeTimeOverUnder,
		ThresholdSeconds: 360,
		Direction:        domain.DirectionOver,
	})
	require.NoError(t, err)
	_, err = f.bets.Place(f.ctx, f.eventID, bob.ID, BetInput{
		Type:               domain.BetTypeExactTimeGuess,
		GuessedTimeSeconds: 347,
	})
	require.NoError(t, err)
	_, err = f.bets.Place(f.ctx, f.eventID, carol.ID, BetInput{
		Type:       domain.BetTypeVomitProp,
		Prediction: domain.PredictionNo,
	})
	require.NoError(t, err)

	preview, err := f.results.Enter(f.ctx, f.eventID, 400, false)
	require.NoError(t, err)
	require.Len(t, preview.Winners, 3)
	for _, row := range preview.Leaderboard {
		assert.Equal(t, 1, row.Points)
	}

	_, err = f.results.Finalize(f.ctx, f.eventID)
	require.NoError(t, err)

	board, err := f.leaderboard.Leaderboard(f.ctx, f.eventID)
	require.NoError(t, err)
	assert.True(t, board.ResultsFinalized)
	require.NotNil(t, board.FinalTimeSeconds)
	assert.Equal(t, 400, *board.FinalTimeSeconds)

	require.Len(t, board.Entries, 3)
	for i, row := range board.Entries {
		require.NotNil(t, row.Rank)
		assert.Equal(t, i+1, *row.Rank)
		assert.Equal(t, 1, row.PointsEarned)
		require.Len(t, row.Bets, 1)
		assert.Equal(t, domain.BetStatusWon, row.Bets[0].Status)
		assert.Equal(t, 1, row.Bets[0].PointsAwarded)
		require.NotNil(t, row.Bets[0].Payload.Won)
		assert.True(t, *row.Bets[0].Payload.Won)
	}
	// Ties keep signup order, ranks stay sequential.
	assert.Equal(t, []string{"alice", "bob", "carol"}, []string{
		board.Entries[0].Username, board.Entries[1].Username, board.Entries[2].Username,
	})
}

// Users with no bets appear on the final board at zero points even
// though the preview never showed them.
func TestFinalizeSeedsEveryUser(t *testing.T) {
	f, alice, bob := lockedFixture(t)

	_, err := f.bets.Place(f.ctx, f.eventID, alice.ID, BetInput{
		Type:       domain.BetTypeVomitProp,
		Prediction: domain.PredictionNo,
	})
	require.NoError(t, err)

	preview, err := f.results.Enter(f.ctx, f.eventID, 400, false)
	require.NoError(t, err)
	require.Len(t, preview.Leaderboard, 1)
	assert.Equal(t, alice.ID, preview.Leaderboard[0].UserID)

	_, err = f.results.Finalize(f.ctx, f.eventID)
	require.NoError(t, err)

	board, err := f.leaderboard.Leaderboard(f.ctx, f.eventID)
	require.NoError(t, err)
	require.Len(t, board.Entries, 2)
	assert.Equal(t, alice.ID, board.Entries[0].UserID)
	assert.Equal(t, 1, board.Entries[0].PointsEarned)
	assert.Equal(t, bob.ID, board.Entries[1].UserID)
	assert.Equal(t, 0, board.Entries[1].PointsEarned)
}
