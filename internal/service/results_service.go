package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/beermile/backend/internal/domain"
	"github.com/beermile/backend/internal/repository"
	"github.com/beermile/backend/internal/scoring"
	"github.com/beermile/backend/lib/logger/sl"
)

// ResultsService runs the settlement lifecycle: enter outcome values and
// preview the winners, finalize (the point of no return), or reset the
// entered values while that is still allowed.
type ResultsService struct {
	events      repository.EventRepository
	bets        repository.BetRepository
	users       repository.UserRepository
	leaderboard repository.LeaderboardRepository
	settlement  repository.SettlementRepository
	log         *slog.Logger
	now         func() time.Time
}

func NewResultsService(
	events repository.EventRepository,
	bets repository.BetRepository,
	users repository.UserRepository,
	leaderboard repository.LeaderboardRepository,
	settlement repository.SettlementRepository,
	log *slog.Logger,
) *ResultsService {
	if log == nil {
		log = slog.Default()
	}
	return &ResultsService{
		events:      events,
		bets:        bets,
		users:       users,
		leaderboard: leaderboard,
		settlement:  settlement,
		log:         log,
		now:         time.Now,
	}
}

// Enter stores the outcome values and returns a scoring preview. The
// preview is a dry run: no bet and no leaderboard row is touched, and
// the stored values stay mutable until Finalize.
func (s *ResultsService) Enter(ctx context.Context, eventID uuid.UUID, finalTimeSeconds int, vomitOutcome bool) (*ResultsPreview, error) {
	const op = "service.results.enter"
	log := s.log.With(slog.String("op", op))

	if err := checkSeconds(finalTimeSeconds); err != nil {
		return nil, err
	}

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.ResultsFinalized {
		return nil, ErrResultsFinalized
	}

	if err := s.events.SetResults(ctx, eventID, finalTimeSeconds, vomitOutcome); err != nil {
		return nil, err
	}

	outcome := scoring.Outcome{FinalTimeSeconds: finalTimeSeconds, Vomit: vomitOutcome}

	pending, err := s.bets.ListPending(ctx, eventID)
	if err != nil {
		return nil, err
	}
	results := scoring.Settle(pending, outcome)

	usernames, err := s.usernames(ctx)
	if err != nil {
		return nil, err
	}

	// The preview board ranks only users who have placed a bet, seeded
	// in bet creation order; the finalize path ranks everyone.
	allBets, err := s.bets.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	population := make([]uuid.UUID, 0, len(allBets))
	for _, bet := range allBets {
		population = append(population, bet.UserID)
	}

	log.Info("results entered",
		slog.Int("final_time_seconds", finalTimeSeconds),
		slog.Bool("vomit_outcome", vomitOutcome),
	)

	return &ResultsPreview{
		EventID:          eventID,
		FinalTimeSeconds: finalTimeSeconds,
		VomitOutcome:     vomitOutcome,
		Winners:          scoring.WinnerGroups(results, usernames, outcome),
		Leaderboard:      toRows(scoring.Rank(population, results), usernames),
	}, nil
}

// Finalize scores every pending bet, publishes the leaderboard, and
// freezes the event. The settlement repository applies it all-or-nothing
// behind a finalized check-and-set, so a second call (concurrent or
// retried) fails with a conflict instead of awarding points twice.
func (s *ResultsService) Finalize(ctx context.Context, eventID uuid.UUID) (*domain.Event, error) {
	const op = "service.results.finalize"
	log := s.log.With(slog.String("op", op))

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.ResultsEntered() {
		return nil, ErrResultsNotEntered
	}
	if event.ResultsFinalized {
		return nil, ErrResultsFinalized
	}

	outcome := scoring.Outcome{FinalTimeSeconds: *event.FinalTimeSeconds, Vomit: *event.VomitOutcome}

	pending, err := s.bets.ListPending(ctx, eventID)
	if err != nil {
		return nil, err
	}
	results := scoring.Settle(pending, outcome)

	scored := make([]domain.Bet, len(pending))
	for i, bet := range pending {
		scored[i] = bet
		won := results[i].Won
		if won {
			scored[i].Status = domain.BetStatusWon
			scored[i].PointsAwarded = results[i].Points
		} else {
			scored[i].Status = domain.BetStatusLost
			scored[i].PointsAwarded = 0
		}
		scored[i].Payload.Won = &won
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	population := make([]uuid.UUID, len(users))
	for i, u := range users {
		population[i] = u.ID
	}

	finalizedAt := s.now().UTC()
	entries := make([]domain.LeaderboardEntry, 0, len(population))
	for _, st := range scoring.Rank(population, results) {
		rank := st.Rank
		entries = append(entries, domain.LeaderboardEntry{
			ID:           uuid.New(),
			UserID:       st.UserID,
			EventID:      eventID,
			PointsEarned: st.Points,
			Rank:         &rank,
			UpdatedAt:    finalizedAt,
		})
	}

	if err := s.settlement.Finalize(ctx, eventID, scored, entries, finalizedAt); err != nil {
		log.Warn("finalize rejected", sl.Err(err))
		return nil, err
	}

	log.Info("results finalized", slog.Int("bets_scored", len(scored)))
	return s.events.GetByID(ctx, eventID)
}

// Reset walks entered-but-unfinalized results back: bets return to
// pending, outcome values and leaderboard points are cleared. The reason
// is an audit-trail string and is only required to be non-empty.
func (s *ResultsService) Reset(ctx context.Context, eventID uuid.UUID, reason string) error {
	const op = "service.results.reset"

	if reason == "" {
		return fmt.Errorf("%w: reason is required", ErrValidation)
	}

	if err := s.settlement.Reset(ctx, eventID); err != nil {
		return err
	}

	s.log.Info("results reset",
		slog.String("op", op),
		slog.String("event_id", eventID.String()),
		slog.String("reason", reason),
	)
	return nil
}

func (s *ResultsService) usernames(ctx context.Context) (map[uuid.UUID]string, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	usernames := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		usernames[u.ID] = u.Username
	}
	return usernames, nil
}

func toRows(standings []scoring.Standing, usernames map[uuid.UUID]string) []LeaderboardRow {
	rows := make([]LeaderboardRow, 0, len(standings))
	for _, st := range standings {
		rows = append(rows, LeaderboardRow{
			Rank:     st.Rank,
			UserID:   st.UserID,
			Username: usernames[st.UserID],
			Points:   st.Points,
		})
	}
	return rows
}
