package domain

import (
	"time"

	"github.com/google/uuid"
)

// LeaderboardEntry is one user's standing for an event. Rank stays nil
// until results are finalized; the whole board is recomputed wholesale on
// every finalize rather than maintained incrementally.
type LeaderboardEntry struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	EventID      uuid.UUID `json:"event_id"`
	PointsEarned int       `json:"points_earned"`
	Rank         *int      `json:"rank"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewLeaderboardEntry(userID, eventID uuid.UUID) *LeaderboardEntry {
	return &LeaderboardEntry{
		ID:        uuid.New(),
		UserID:    userID,
		EventID:   eventID,
		UpdatedAt: time.Now().UTC(),
	}
}
