package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username     string    `gorm:"size:20;uniqueIndex;not null"`
	Email        string    `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string    `gorm:"size:255;not null"`
	Role         string    `gorm:"size:16;not null"`
	CreatedAt    time.Time `gorm:"not null"`
}

type Event struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name             string    `gorm:"size:255;not null"`
	Status           string    `gorm:"size:32;not null"`
	ScheduledDate    *time.Time
	LockedAt         *time.Time
	FinalTimeSeconds *int
	VomitOutcome     *bool
	ResultsFinalized bool `gorm:"not null;default:false"`
	FinalizedAt      *time.Time
	CreatedAt        time.Time `gorm:"not null"`
}

type Availability struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_availability_user_event_date"`
	EventID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_availability_user_event_date"`
	CalendarDate time.Time `gorm:"not null;uniqueIndex:idx_availability_user_event_date"`
	IsAvailable  bool      `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Bet carries its type-specific payload as JSON. The partial unique index
// enforces at most one exact-guess and one vomit-prop bet per user per
// event at the storage layer; over/under bets are exempt.
type Bet struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID      `gorm:"type:uuid;index;not null;uniqueIndex:idx_bets_single_per_type,where:bet_type <> 'time_over_under'"`
	EventID       uuid.UUID      `gorm:"type:uuid;index;not null;uniqueIndex:idx_bets_single_per_type"`
	BetType       string         `gorm:"size:32;not null;uniqueIndex:idx_bets_single_per_type"`
	BetData       datatypes.JSON `gorm:"not null"`
	Status        string         `gorm:"size:16;not null"`
	PointsAwarded int            `gorm:"not null;default:0"`
	CreatedAt     time.Time      `gorm:"not null"`
}

type LeaderboardEntry struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_leaderboard_user_event"`
	EventID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_leaderboard_user_event"`
	PointsEarned int       `gorm:"not null;default:0"`
	Rank         *int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
