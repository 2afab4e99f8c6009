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
)

type AvailabilityService struct {
	availability repository.AvailabilityRepository
	events       repository.EventRepository
	users        repository.UserRepository
	log          *slog.Logger
	now          func() time.Time
}

func NewAvailabilityService(availability repository.AvailabilityRepository, events repository.EventRepository, users repository.UserRepository, log *slog.Logger) *AvailabilityService {
	if log == nil {
		log = slog.Default()
	}
	return &AvailabilityService{
		availability: availability,
		events:       events,
		users:        users,
		log:          log,
		now:          time.Now,
	}
}

// Update upserts the caller's yes/no marks. All dates are validated
// before any write, so a bad batch changes nothing.
func (s *AvailabilityService) Update(ctx context.Context, eventID, userID uuid.UUID, updates []AvailabilityUpdate) (int, error) {
	const op = "service.availability.update"
	log := s.log.With(slog.String("op", op), slog.String("user_id", userID.String()))

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return 0, err
	}
	if event.IsLocked() {
		return 0, ErrEventLocked
	}

	today := s.now()
	dates := make([]time.Time, 0, len(updates))
	for _, upd := range updates {
		date, err := dateutil.FromISODate(upd.Date)
		if err != nil {
			return 0, fmt.Errorf("%w: invalid date %q", ErrValidation, upd.Date)
		}
		if dateutil.IsPastDate(date, today) {
			return 0, fmt.Errorf("%w: %s", ErrPastDate, upd.Date)
		}
		if dateutil.OutOfWindow(date, today) {
			return 0, fmt.Errorf("%w: %s", ErrOutOfWindow, upd.Date)
		}
		dates = append(dates, date)
	}

	for i, upd := range updates {
		rec := domain.NewAvailabilityRecord(userID, eventID, dates[i], upd.IsAvailable)
		if err := s.availability.Upsert(ctx, rec); err != nil {
			return i, err
		}
	}

	log.Info("availability updated", slog.Int("count", len(updates)))
	return len(updates), nil
}

// MonthView assembles the calendar page: group availability per date,
// the caller's own marks, and the consensus dates that could be locked.
func (s *AvailabilityService) MonthView(ctx context.Context, eventID, userID uuid.UUID, year, month int) (*MonthView, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month must be between 1 and 12", ErrValidation)
	}

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	allIDs := make([]uuid.UUID, len(users))
	usernames := make(map[uuid.UUID]string, len(users))
	for i, u := range users {
		allIDs[i] = u.ID
		usernames[u.ID] = u.Username
	}

	records, err := s.availability.ListRange(ctx, eventID, dateutil.MonthStart(year, month), dateutil.MonthEnd(year, month))
	if err != nil {
		return nil, err
	}
	byDate := consensus.ByDate(records)

	days := make([]DayAvailability, 0, dateutil.DaysInMonth(year, month))
	for d := 1; d <= dateutil.DaysInMonth(year, month); d++ {
		dateStr := dateutil.ToISODate(time.Date(year, time.Month(month), d, 0, 0, 0, 0, time.UTC))
		recs := byDate[dateStr]

		unavailable := consensus.UnavailableUsers(recs)
		names := make([]string, 0, len(unavailable))
		for _, id := range unavailable {
			names = append(names, usernames[id])
		}

		days = append(days, DayAvailability{
			Date:             dateStr,
			AllAvailable:     consensus.Holds(allIDs, recs),
			UnavailableCount: len(names),
			UnavailableUsers: names,
		})
	}

	mine := make(map[string]bool)
	for _, rec := range records {
		if rec.UserID == userID {
			mine[dateutil.ToISODate(rec.CalendarDate)] = rec.IsAvailable
		}
	}

	return &MonthView{
		EventID:          eventID,
		EventLocked:      event.IsLocked(),
		Month:            fmt.Sprintf("%04d-%02d", year, month),
		Days:             days,
		UserAvailability: mine,
		ConsensusDates:   consensus.Dates(allIDs, records, s.now()),
	}, nil
}
