package converter

import (
	"time"

	"github.com/google/uuid"

	"github.com/beermile/backend/internal/dateutil"
	"github.com/beermile/backend/internal/domain"
	"github.com/beermile/backend/internal/timefmt"
)

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type EventResponse struct {
	ID               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	Status           string     `json:"status"`
	ScheduledDate    *string    `json:"scheduledDate"`
	LockedAt         *time.Time `json:"lockedAt"`
	FinalTimeSeconds *int       `json:"finalTimeSeconds"`
	FinalTime        *string    `json:"finalTime"`
	VomitOutcome     *bool      `json:"vomitOutcome"`
	ResultsFinalized bool       `json:"resultsFinalized"`
	FinalizedAt      *time.Time `json:"finalizedAt"`
}

type BetResponse struct {
	ID            uuid.UUID         `json:"id"`
	Type          domain.BetType    `json:"betType"`
	Payload       domain.BetPayload `json:"betData"`
	Status        domain.BetStatus  `json:"status"`
	PointsAwarded int               `json:"pointsAwarded"`
	CreatedAt     time.Time         `json:"created_at"`
}

func UserToApi(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

func EventToApi(e *domain.Event) *EventResponse {
	resp := &EventResponse{
		ID:               e.ID,
		Name:             e.Name,
		Status:           string(e.Status),
		LockedAt:         e.LockedAt,
		FinalTimeSeconds: e.FinalTimeSeconds,
		VomitOutcome:     e.VomitOutcome,
		ResultsFinalized: e.ResultsFinalized,
		FinalizedAt:      e.FinalizedAt,
	}
	if e.ScheduledDate != nil {
		date := dateutil.ToISODate(*e.ScheduledDate)
		resp.ScheduledDate = &date
	}
	if e.FinalTimeSeconds != nil {
		formatted := timefmt.Format(*e.FinalTimeSeconds)
		resp.FinalTime = &formatted
	}
	return resp
}

func BetToApi(b *domain.Bet) *BetResponse {
	return &BetResponse{
		ID:            b.ID,
		Type:          b.Type,
		Payload:       b.Payload,
		Status:        b.Status,
		PointsAwarded: b.PointsAwarded,
		CreatedAt:     b.CreatedAt,
	}
}
