package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/beermile/backend/internal/domain"
	"github.com/beermile/backend/internal/scoring"
)

type UserInteractor interface {
	Signup(ctx context.Context, eventID uuid.UUID, username, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type EventInteractor interface {
	CurrentEvent(ctx context.Context, eventID uuid.UUID) (*domain.Event, error)
	Lock(ctx context.Context, eventID uuid.UUID, dateISO string) (*domain.Event, error)
	Unlock(ctx context.Context, eventID uuid.UUID) (*domain.Event, error)
}

type AvailabilityInteractor interface {
	Update(ctx context.Context, eventID, userID uuid.UUID, updates []AvailabilityUpdate) (int, error)
	MonthView(ctx context.Context, eventID, userID uuid.UUID, year, month int) (*MonthView, error)
}

type BetInteractor interface {
	Place(ctx context.Context, eventID, userID uuid.UUID, input BetInput) (*domain.Bet, error)
	Delete(ctx context.Context, eventID, betID, requesterID uuid.UUID) error
	List(ctx context.Context, eventID, userID uuid.UUID) (*BetList, error)
}

type ResultsInteractor interface {
	Enter(ctx context.Context, eventID uuid.UUID, finalTimeSeconds int, vomitOutcome bool) (*ResultsPreview, error)
	Finalize(ctx context.Context, eventID uuid.UUID) (*domain.Event, error)
	Reset(ctx context.Context, eventID uuid.UUID, reason string) error
}

type LeaderboardInteractor interface {
	Leaderboard(ctx context.Context, eventID uuid.UUID) (*LeaderboardView, error)
}

// AvailabilityUpdate is one yes/no mark for one ISO date.
type AvailabilityUpdate struct {
	Date        string `json:"date"`
	IsAvailable bool   `json:"isAvailable"`
}

// DayAvailability summarizes one calendar date across the whole group.
type DayAvailability struct {
	Date             string   `json:"date"`
	AllAvailable     bool     `json:"allAvailable"`
	UnavailableCount int      `json:"unavailableCount"`
	UnavailableUsers []string `json:"unavailableUsers"`
}

// MonthView is everything the calendar page needs for one month.
type MonthView struct {
	EventID          uuid.UUID         `json:"eventId"`
	EventLocked      bool              `json:"eventLocked"`
	Month            string            `json:"month"`
	Days             []DayAvailability `json:"availabilities"`
	UserAvailability map[string]bool   `json:"userAvailability"`
	ConsensusDates   []string          `json:"consensusDates"`
}

// BetInput is the type-discriminated payload of a new bet.
type BetInput struct {
	Type               domain.BetType    `json:"betType"`
	ThresholdSeconds   int               `json:"thresholdSeconds"`
	Direction          domain.Direction  `json:"direction"`
	GuessedTimeSeconds int               `json:"guessedTimeSeconds"`
	Prediction         domain.Prediction `json:"prediction"`
}

// GuessEntry is one exact-time guess in the public distribution.
type GuessEntry struct {
	TimeSeconds int    `json:"time"`
	Username    string `json:"user"`
}

// BetDistribution is the anonymized-where-possible summary of everyone's
// bets shown on the betting page.
type BetDistribution struct {
	TimeOverUnder  map[string]int `json:"time_over_under"`
	ExactTimeGuess []GuessEntry   `json:"exact_time_guess"`
	VomitProp      map[string]int `json:"vomit_prop"`
}

// BetList is the caller's bets plus the distribution across all users.
type BetList struct {
	EventID          uuid.UUID       `json:"eventId"`
	ResultsFinalized bool            `json:"resultsFinalized"`
	MyBets           []domain.Bet    `json:"myBets"`
	Distribution     BetDistribution `json:"distribution"`
}

// LeaderboardRow is one projected or final standing with a username.
type LeaderboardRow struct {
	Rank     int       `json:"rank"`
	UserID   uuid.UUID `json:"userId"`
	Username string    `json:"username"`
	Points   int       `json:"points"`
}

// ResultsPreview is the dry-run summary returned by Enter: winners by
// type and the projected board, computed without mutating any bet.
type ResultsPreview struct {
	EventID          uuid.UUID             `json:"eventId"`
	FinalTimeSeconds int                   `json:"finalTimeSeconds"`
	VomitOutcome     bool                  `json:"vomitOutcome"`
	Winners          []scoring.WinnerGroup `json:"winners"`
	Leaderboard      []LeaderboardRow      `json:"finalLeaderboard"`
}

// LeaderboardViewRow is one persisted standing with a per-bet breakdown.
type LeaderboardViewRow struct {
	Rank         *int         `json:"rank"`
	UserID       uuid.UUID    `json:"userId"`
	Username     string       `json:"username"`
	PointsEarned int          `json:"pointsEarned"`
	Bets         []domain.Bet `json:"bets"`
}

// LeaderboardView is the published leaderboard for an event.
type LeaderboardView struct {
	EventID          uuid.UUID            `json:"eventId"`
	EventName        string               `json:"eventName"`
	ResultsFinalized bool                 `json:"resultsFinalized"`
	FinalTimeSeconds *int                 `json:"finalTimeSeconds"`
	VomitOutcome     *bool                `json:"vomitOutcome"`
	Entries          []LeaderboardViewRow `json:"leaderboard"`
}
