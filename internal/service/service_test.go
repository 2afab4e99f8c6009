package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/beermile/backend/internal/domain"
	"github.com/beermile/backend/internal/repository"
)

// testNow pins the clock so past-date and window checks are stable.
var testNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	ctx     context.Context
	eventID uuid.UUID

	userRepo         *repository.InMemoryUserRepository
	eventRepo        *repository.InMemoryEventRepository
	availabilityRepo *repository.InMemoryAvailabilityRepository
	betRepo          *repository.InMemoryBetRepository
	leaderboardRepo  *repository.InMemoryLeaderboardRepository

	users        *UserService
	events       *EventService
	availability *AvailabilityService
	bets         *BetService
	results      *ResultsService
	leaderboard  *LeaderboardService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	userRepo := repository.NewInMemoryUserRepository()
	eventRepo := repository.NewInMemoryEventRepository()
	availabilityRepo := repository.NewInMemoryAvailabilityRepository()
	betRepo := repository.NewInMemoryBetRepository()
	leaderboardRepo := repository.NewInMemoryLeaderboardRepository()
	settlementRepo := repository.NewInMemorySettlementRepository(eventRepo, betRepo, leaderboardRepo)

	f := &fixture{
		ctx:              context.Background(),
		userRepo:         userRepo,
		eventRepo:        eventRepo,
		availabilityRepo: availabilityRepo,
		betRepo:          betRepo,
		leaderboardRepo:  leaderboardRepo,
		users:            NewUserService(userRepo, leaderboardRepo, nil),
		events:           NewEventService(eventRepo, userRepo, availabilityRepo, nil),
		availability:     NewAvailabilityService(availabilityRepo, eventRepo, userRepo, nil),
		bets:             NewBetService(betRepo, eventRepo, userRepo, nil),
		results:          NewResultsService(eventRepo, betRepo, userRepo, leaderboardRepo, settlementRepo, nil),
		leaderboard:      NewLeaderboardService(leaderboardRepo, betRepo, eventRepo, userRepo, nil),
	}

	f.events.now = func() time.Time { return testNow }
	f.availability.now = func() time.Time { return testNow }
	f.results.now = func() time.Time { return testNow }

	event := domain.NewEvent("Beer Mile 2026")
	require.NoError(t, eventRepo.Create(f.ctx, event))
	f.eventID = event.ID

	return f
}

func (f *fixture) signup(t *testing.T, username string) *domain.User {
	t.Helper()

	user, err := f.users.Signup(f.ctx, f.eventID, username, username+"@example.com", "sixpack1!")
	require.NoError(t, err)
	return user
}

func (f *fixture) markDate(t *testing.T, userID uuid.UUID, date string, available bool) {
	t.Helper()

	_, err := f.availability.Update(f.ctx, f.eventID, userID, []AvailabilityUpdate{
		{Date: date, IsAvailable: available},
	})
	require.NoError(t, err)
}

func (f *fixture) lockDate(t *testing.T, date string) *domain.Event {
	t.Helper()

	event, err := f.events.Lock(f.ctx, f.eventID, date)
	require.NoError(t, err)
	return event
}
