package domain

import (
	"time"

	"github.com/google/uuid"
)

// AvailabilityRecord is one user's explicit yes/no for one calendar date.
// The absence of a record means "not yet marked", which is distinct from
// an explicit false; consensus treats only explicit trues as available.
type AvailabilityRecord struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	EventID      uuid.UUID `json:"event_id"`
	CalendarDate time.Time `json:"calendar_date"`
	IsAvailable  bool      `json:"is_available"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewAvailabilityRecord(userID, eventID uuid.UUID, date time.Time, available bool) *AvailabilityRecord {
	return &AvailabilityRecord{
		ID:           uuid.New(),
		UserID:       userID,
		EventID:      eventID,
		CalendarDate: date,
		IsAvailable:  available,
		UpdatedAt:    time.Now().UTC(),
	}
}
