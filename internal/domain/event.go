package domain

import (
	"time"

	"github.com/google/uuid"
)

type EventStatus string

const (
	EventStatusScheduled EventStatus = "scheduled"
	EventStatusCompleted EventStatus = "completed"
)

// Event is the single race everyone coordinates around. ScheduledDate is
// nil until an admin locks a consensus date; once ResultsFinalized flips
// the record is immutable.
type Event struct {
	ID               uuid.UUID   `json:"id"`
	Name             string      `json:"name"`
	Status           EventStatus `json:"status"`
	ScheduledDate    *time.Time  `json:"scheduled_date"`
	LockedAt         *time.Time  `json:"locked_at"`
	FinalTimeSeconds *int        `json:"final_time_seconds"`
	VomitOutcome     *bool       `json:"vomit_outcome"`
	ResultsFinalized bool        `json:"results_finalized"`
	FinalizedAt      *time.Time  `json:"finalized_at"`
	CreatedAt        time.Time   `json:"created_at"`
}

func NewEvent(name string) *Event {
	return &Event{
		ID:        uuid.New(),
		Name:      name,
		Status:    EventStatusScheduled,
		CreatedAt: time.Now().UTC(),
	}
}

// IsLocked reports whether a date has been locked in.
func (e *Event) IsLocked() bool {
	return e.ScheduledDate != nil
}

// ResultsEntered reports whether the admin has entered both outcome values.
func (e *Event) ResultsEntered() bool {
	return e.FinalTimeSeconds != nil && e.VomitOutcome != nil
}
