package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/beermile/backend/internal/consensus"
	"github.com/beermile/backend/internal/dateutil"
	"github.com/beermile/backend/internal/domain"
	"github.com/beermile/backend/internal/repository"
	"github.com/beermile/backend/lib/logger/sl"
)

// EventService owns the lock state machine: unscheduled -> locked ->
// results entered -> finalized, with unlock walking a not-yet-finalized
// event back to unscheduled.
type EventService struct {
	events       repository.EventRepository
	users        repository.UserRepository
	availability repository.AvailabilityRepository
	log          *slog.Logger
	now          func() time.Time
}

func NewEventService(events repository.EventRepository, users repository.UserRepository, availability repository.AvailabilityRepository, log *slog.Logger) *EventService {
	if log == nil {
		log = slog.Default()
	}
	return &EventService{
		events:       events,
		users:        users,
		availability: availability,
		log:          log,
		now:          time.Now,
	}
}

func (s *EventService) CurrentEvent(ctx context.Context, eventID uuid.UUID) (*domain.Event, error) {
	return s.events.GetByID(ctx, eventID)
}

// Lock schedules the event on a consensus date. The date must not be in
// the past and every registered user must have explicitly marked it
// available at call time; the storage-level conditional write keeps two
// concurrent locks from both succeeding.
func (s *EventService) Lock(ctx context.Context, eventID uuid.UUID, dateISO string) (*domain.Event, error) {
	const op = "service.event.lock"
	log := s.log.With(slog.String("op", op), slog.String("date", dateISO))

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.IsLocked() {
		return nil, repository.ErrAlreadyLocked
	}

	date, err := dateutil.FromISODate(dateISO)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", ErrValidation, dateISO)
	}
	if dateutil.IsPastDate(date, s.now()) {
		return nil, ErrPastDate
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	allIDs := make([]uuid.UUID, len(users))
	for i, u := range users {
		allIDs[i] = u.ID
	}

	records, err := s.availability.ListForDate(ctx, eventID, date)
	if err != nil {
		return nil, err
	}
	if !consensus.Holds(allIDs, records) {
		return nil, ErrNoConsensus
	}

	if err := s.events.LockDate(ctx, eventID, date, s.now().UTC()); err != nil {
		log.Warn("lock rejected", sl.Err(err))
		return nil, err
	}

	log.Info("event date locked")
	return s.events.GetByID(ctx, eventID)
}

// Unlock returns a locked event to unscheduled so availability can be
// edited again. Entered-but-unfinalized outcome values are cleared with
// the date; a finalized event can never be unlocked.
func (s *EventService) Unlock(ctx context.Context, eventID uuid.UUID) (*domain.Event, error) {
	const op = "service.event.unlock"

	if err := s.events.Unlock(ctx, eventID); err != nil {
		return nil, err
	}

	s.log.Info("event date unlocked", slog.String("op", op), slog.String("event_id", eventID.String()))
	return s.events.GetByID(ctx, eventID)
}
