package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/beermile/backend/internal/domain"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailExists      = errors.New("user with email already exists")
	ErrUsernameExists   = errors.New("username already taken")
	ErrEventNotFound    = errors.New("event not found")
	ErrBetNotFound      = errors.New("bet not found")
	ErrAlreadyLocked    = errors.New("event date already locked")
	ErrNotLocked        = errors.New("event date is not locked")
	ErrAlreadyFinalized = errors.New("results already finalized")
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// List returns every registered user in creation order.
	List(ctx context.Context) ([]*domain.User, error)
}

type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error)
	// LockDate sets the scheduled date only if none is set yet, so two
	// concurrent lock attempts cannot both succeed.
	LockDate(ctx context.Context, id uuid.UUID, date, lockedAt time.Time) error
	// Unlock clears the scheduled date, lock timestamp, and any entered
	// but unfinalized outcome values. Fails once results are finalized.
	Unlock(ctx context.Context, id uuid.UUID) error
	// SetResults stores the entered outcome values; they stay mutable
	// until finalization.
	SetResults(ctx context.Context, id uuid.UUID, finalTimeSeconds int, vomitOutcome bool) error
}

type AvailabilityRepository interface {
	// Upsert creates or updates the (user, event, date) mark atomically.
	Upsert(ctx context.Context, rec *domain.AvailabilityRecord) error
	// ListRange returns every user's records with dates in [from, to].
	ListRange(ctx context.Context, eventID uuid.UUID, from, to time.Time) ([]domain.AvailabilityRecord, error)
	// ListForDate returns every user's record for a single calendar date.
	ListForDate(ctx context.Context, eventID uuid.UUID, date time.Time) ([]domain.AvailabilityRecord, error)
}

type BetRepository interface {
	Create(ctx context.Context, bet *domain.Bet) error
	// Replace removes any existing bet of the same type for the same user
	// and event, then creates the new one, as one atomic step.
	Replace(ctx context.Context, bet *domain.Bet) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Bet, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// ListByEvent returns all bets for the event in creation order.
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]domain.Bet, error)
	// ListByUser returns one user's bets, newest first.
	ListByUser(ctx context.Context, eventID, userID uuid.UUID) ([]domain.Bet, error)
	ListPending(ctx context.Context, eventID uuid.UUID) ([]domain.Bet, error)
}

type LeaderboardRepository interface {
	Create(ctx context.Context, entry *domain.LeaderboardEntry) error
	// ListByEvent returns entries ordered by rank, unranked entries last.
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]domain.LeaderboardEntry, error)
}

// SettlementRepository applies the finalize and reset transitions. Both
// are all-or-nothing and guarded by the event's results_finalized flag,
// so a retry or a concurrent call can never double-award points.
type SettlementRepository interface {
	// Finalize writes the scored bets and ranked leaderboard entries and
	// flips the event to finalized/completed in a single transaction.
	// Returns ErrAlreadyFinalized if another call got there first.
	Finalize(ctx context.Context, eventID uuid.UUID, bets []domain.Bet, entries []domain.LeaderboardEntry, finalizedAt time.Time) error
	// Reset returns every bet to pending with zero points, clears the
	// event's outcome values, and zeroes all leaderboard rows.
	Reset(ctx context.Context, eventID uuid.UUID) error
}
