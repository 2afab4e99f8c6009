package domain

import (
	"time"

	"github.com/google/uuid"
)

type BetType string

const (
	BetTypeTimeOverUnder  BetType = "time_over_under"
	BetTypeExactTimeGuess BetType = "exact_time_guess"
	BetTypeVomitProp      BetType = "vomit_prop"
)

type Direction string

const (
	DirectionOver  Direction = "over"
	DirectionUnder Direction = "under"
)

type Prediction string

const (
	PredictionYes Prediction = "yes"
	PredictionNo  Prediction = "no"
)

type BetStatus string

const (
	BetStatusPending BetStatus = "pending"
	BetStatusWon     BetStatus = "won"
	BetStatusLost    BetStatus = "lost"
)

// MaxTimeSeconds bounds every seconds field a bet or result may carry.
const MaxTimeSeconds = 1200

// SingleBetType reports whether a user may hold at most one bet of this
// type per event. Placing another replaces the existing one; over/under
// bets have no such limit.
func SingleBetType(t BetType) bool {
	return t == BetTypeExactTimeGuess || t == BetTypeVomitProp
}

// ValidBetType reports membership in the closed bet-type set.
func ValidBetType(t BetType) bool {
	switch t {
	case BetTypeTimeOverUnder, BetTypeExactTimeGuess, BetTypeVomitProp:
		return true
	}
	return false
}

// BetPayload is the type-specific slice of a bet. Only the fields for the
// bet's type are meaningful; Won is annotated at finalization for display
// (the canonical outcome lives in Bet.Status and Bet.PointsAwarded).
type BetPayload struct {
	ThresholdSeconds   int        `json:"thresholdSeconds,omitempty"`
	Direction          Direction  `json:"direction,omitempty"`
	GuessedTimeSeconds int        `json:"guessedTimeSeconds,omitempty"`
	Prediction         Prediction `json:"prediction,omitempty"`
	Won                *bool      `json:"won,omitempty"`
}

type Bet struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	EventID       uuid.UUID  `json:"event_id"`
	Type          BetType    `json:"bet_type"`
	Payload       BetPayload `json:"bet_data"`
	Status        BetStatus  `json:"status"`
	PointsAwarded int        `json:"points_awarded"`
	CreatedAt     time.Time  `json:"created_at"`
}

func NewBet(userID, eventID uuid.UUID, betType BetType, payload BetPayload) *Bet {
	return &Bet{
		ID:        uuid.New(),
		UserID:    userID,
		EventID:   eventID,
		Type:      betType,
		Payload:   payload,
		Status:    BetStatusPending,
		CreatedAt: time.Now().UTC(),
	}
}
