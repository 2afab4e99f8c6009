package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/beermile/backend/internal/domain"
	"github.com/beermile/backend/internal/repository"
)

type LeaderboardService struct {
	leaderboard repository.LeaderboardRepository
	bets        repository.BetRepository
	events      repository.EventRepository
	users       repository.UserRepository
	log         *slog.Logger
}

func NewLeaderboardService(leaderboard repository.LeaderboardRepository, bets repository.BetRepository, events repository.EventRepository, users repository.UserRepository, log *slog.Logger) *LeaderboardService {
	if log == nil {
		log = slog.Default()
	}
	return &LeaderboardService{leaderboard: leaderboard, bets: bets, events: events, users: users, log: log}
}

// Leaderboard returns the persisted standings with each user's bets
// attached for the breakdown view.
func (s *LeaderboardService) Leaderboard(ctx context.Context, eventID uuid.UUID) (*LeaderboardView, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	entries, err := s.leaderboard.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	allBets, err := s.bets.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	betsByUser := make(map[uuid.UUID][]domain.Bet)
	for _, bet := range allBets {
		betsByUser[bet.UserID] = append(betsByUser[bet.UserID], bet)
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	usernames := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		usernames[u.ID] = u.Username
	}

	rows := make([]LeaderboardViewRow, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, LeaderboardViewRow{
			Rank:         entry.Rank,
			UserID:       entry.UserID,
			Username:     usernames[entry.UserID],
			PointsEarned: entry.PointsEarned,
			Bets:         betsByUser[entry.UserID],
		})
	}

	return &LeaderboardView{
		EventID:          event.ID,
		EventName:        event.Name,
		ResultsFinalized: event.ResultsFinalized,
		FinalTimeSeconds: event.FinalTimeSeconds,
		VomitOutcome:     event.VomitOutcome,
		Entries:          rows,
	}, nil
}
