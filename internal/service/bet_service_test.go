package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beermile/backend/internal/domain"
	"github.com/beermile/backend/internal/repository"
)

// lockedFixture brings the event to the state where betting is open.
func lockedFixture(t *testing.T) (*fixture, *domain.User, *domain.User) {
	t.Helper()

	f := newFixture(t)
	alice := f.signup(t, "alice")
	bob := f.signup(t, "bob")

	f.markDate(t, alice.ID, "2026-03-15", true)
	f.markDate(t, bob.ID, "2026-03-15", true)
	f.lockDate(t, "2026-03-15")

	return f, alice, bob
}

func TestPlaceRequiresLockedDate(t *testing.T) {
	f := newFixture(t)
	alice := f.signup(t, "alice")

	_, err := f.bets.Place(f.ctx, f.eventID, alice.ID, BetInput{
		Type:       domain.BetTypeVomitProp,
		Prediction: domain.PredictionYes,
	})
	assert.ErrorIs(t, err, repository.ErrNotLocked)
}

func TestPlaceValidation(t *testing.T) {
	f, alice, _ := lockedFixture(t)

	tests := []struct {
		name  string
		input BetInput
	}{
		{"unknown type", BetInput{Type: "parlay"}},
		{"bad direction", BetInput{Type: domain.BetTypeTimeOverUnder, ThresholdSeconds: 360, Direction: "above"}},
		{"threshold too large", BetInput{Type: domain.BetTypeTimeOverUnder, ThresholdSeconds: 1201, Direction: domain.DirectionOver}},
		{"negative guess", BetInput{Type: domain.BetTypeExactTimeGuess, GuessedTimeSeconds: -1}},
		{"bad prediction", BetInput{Type: domain.BetTypeVomitProp, Prediction: "maybe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.bets.Place(f.ctx, f.eventID, alice.ID, tt.input)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestSingleBetTypesReplace(t *testing.T) {
	f, alice, _ := lockedFixture(t)

	_, err := f.bets.Place(f.ctx, f.eventID, alice.ID, BetInput{
		Type:       domain.BetTypeVomitProp,
		Prediction: domain.PredictionYes,
	})
	require.NoError(t, err)

	_, err = f.bets.Place(f.ctx, f.eventID, alice.ID, BetInput{
		Type:       domain.BetTypeVomitProp,
		Prediction: domain.PredictionNo,
	})
	require.NoError(t, err)

	_, err = f.bets.Place(f.ctx, f.eventID, alice.ID, BetInput{
		Type:               domain.BetTypeExactTimeGuess,
		GuessedTimeSeconds: 390,
	})
	require.NoError(t, err)

	_, err = f.bets.Place(f.ctx, f.eventID, alice.ID, BetInput{
		Type:               domain.BetTypeExactTimeGuess,
		GuessedTimeSeconds: 410,
	})
	require.NoError(t, err)

	list, err := f.bets.List(f.ctx, f.eventID, alice.ID)
	require.NoError(t, err)

	require.Len(t, list.MyBets, 2)
	byType := make(map[domain.BetType]domain.Bet)
	for _, bet := range list.MyBets {
		byType[bet.Type] = bet
	}
	assert.Equal(t, domain.PredictionNo, byType[domain.BetTypeVomitProp].Payload.Prediction)
	assert.Equal(t, 410, byType[domain.BetTypeExactTimeGuess].Payload.GuessedTimeSeconds)
}

func TestOverUnderBetsStack(t *testing.T) {
	f, alice, _ := lockedFixture(t)

	for _, threshold := range []int{330, 360} {
		_, err := f.bets.Place(f.ctx, f.eventID, alice.ID, BetInput{
			Type:             domain.BetTypeTimeOverUnder,
			ThresholdSeconds: threshold,
			Direction:        domain.DirectionOver,
		})
		require.NoError(t, err)
	}

	list, err := f.bets.List(f.ctx, f.eventID, alice.ID)
	require.NoError(t, err)
	assert.Len(t, list.MyBets, 2)
}

func TestDeleteOnlyByOwner(t *testing.T) {
	f, alice, bob := lockedFixture(t)

	bet, err := f.bets.Place(f.ctx, f.eventID, alice.ID, BetInput{
		Type:       domain.BetTypeVomitProp,
		Prediction: domain.PredictionYes,
	})
	require.NoError(t, err)

	err = f.bets.Delete(f.ctx, f.eventID, bet.ID, bob.ID)
	require.ErrorIs(t, err, ErrNotBetOwner)

	require.NoError(t, f.bets.Delete(f.ctx, f.eventID, bet.ID, alice.ID))

	err = f.bets.Delete(f.ctx, f.eventID, bet.ID, alice.ID)
	assert.ErrorIs(t, err, repository.ErrBetNotFound)
}

func TestDeleteScopedToEvent(t *testing.T) {
	f, alice, _ := lockedFixture(t)

	bet, err := f.bets.Place(f.ctx, f.eventID, alice.ID, BetInput{
		Type:       domain.BetTypeVomitProp,
		Prediction: domain.PredictionYes,
	})
	require.NoError(t, err)

	other := domain.NewEvent("Beer Mile 2027")
	require.NoError(t, f.eventRepo.Create(f.ctx, other))

	// A bet id from another event is as good as missing.
	err = f.bets.Delete(f.ctx, other.ID, bet.ID, alice.ID)
	require.ErrorIs(t, err, repository.ErrBetNotFound)

	list, err := f.bets.List(f.ctx, f.eventID, alice.ID)
	require.NoError(t, err)
	assert.Len(t, list.MyBets, 1)
}

func TestBettingClosesOnFinalize(t *testing.T) {
	f, alice, _ := lockedFixture(t)

	bet, err := f.bets.Place(f.ctx, f.eventID, alice.ID, BetInput{
		Type:       domain.BetTypeVomitProp,
		Prediction: domain.PredictionNo,
	})
	require.NoError(t, err)

	_, err = f.results.Enter(f.ctx, f.eventID, 400, false)
	require.NoError(t, err)
	_, err = f.results.Finalize(f.ctx, f.eventID)
	require.NoError(t, err)

	_, err = f.bets.Place(f.ctx, f.eventID, alice.ID, BetInput{
		Type:               domain.BetTypeExactTimeGuess,
		GuessedTimeSeconds: 400,
	})
	assert.ErrorIs(t, err, ErrResultsFinalized)

	err = f.bets.Delete(f.ctx, f.eventID, bet.ID, alice.ID)
	assert.ErrorIs(t, err, ErrResultsFinalized)
}

func TestListDistribution(t *testing.T) {
	f, alice, bob := lockedFixture(t)

	_, err := f.bets.Place(f.ctx, f.eventID, alice.ID, BetInput{
		Type:             domain.BetTypeTimeOverUnder,
		ThresholdSeconds: 360,
		Direction:        domain.DirectionOver,
	})
	require.NoError(t, err)
	_, err = f.bets.Place(f.ctx, f.eventID, bob.ID, BetInput{
		Type:             domain.BetTypeTimeOverUnder,
		ThresholdSeconds: 360,
		Direction:        domain.DirectionOver,
	})
	require.NoError(t, err)
	_, err = f.bets.Place(f.ctx, f.eventID, alice.ID, BetInput{
		Type:               domain.BetTypeExactTimeGuess,
		GuessedTimeSeconds: 410,
	})
	require.NoError(t, err)
	_, err = f.bets.Place(f.ctx, f.eventID, bob.ID, BetInput{
		Type:               domain.BetTypeExactTimeGuess,
		GuessedTimeSeconds: 390,
	})
	require.NoError(t, err)
	_, err = f.bets.Place(f.ctx, f.eventID, bob.ID, BetInput{
		Type:       domain.BetTypeVomitProp,
		Prediction: domain.PredictionNo,
	})
	require.NoError(t, err)

	list, err := f.bets.List(f.ctx, f.eventID, alice.ID)
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"360_over": 2}, list.Distribution.TimeOverUnder)
	// Guesses are public and sorted by time, not by placement order.
	require.Len(t, list.Distribution.ExactTimeGuess, 2)
	assert.Equal(t, GuessEntry{TimeSeconds: 390, Username: "bob"}, list.Distribution.ExactTimeGuess[0])
	assert.Equal(t, GuessEntry{TimeSeconds: 410, Username: "alice"}, list.Distribution.ExactTimeGuess[1])
	assert.Equal(t, map[string]int{"yes": 0, "no": 1}, list.Distribution.VomitProp)
}
