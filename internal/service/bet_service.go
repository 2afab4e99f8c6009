package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/beermile/backend/internal/domain"
	"github.com/beermile/backend/internal/repository"
)

type BetService struct {
	bets   repository.BetRepository
	events repository.EventRepository
	users  repository.UserRepository
	log    *slog.Logger
}

func NewBetService(bets repository.BetRepository, events repository.EventRepository, users repository.UserRepository, log *slog.Logger) *BetService {
	if log == nil {
		log = slog.Default()
	}
	return &BetService{bets: bets, events: events, users: users, log: log}
}

// Place creates a pending bet. Exact-time-guess and vomit-prop bets
// replace any existing bet of the same type for the user; over/under
// bets stack freely.
func (s *BetService) Place(ctx context.Context, eventID, userID uuid.UUID, input BetInput) (*domain.Bet, error) {
	const op = "service.bet.place"
	log := s.log.With(slog.String("op", op), slog.String("user_id", userID.String()))

	payload, err := validateBetInput(input)
	if err != nil {
		return nil, err
	}

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.IsLocked() {
		return nil, repository.ErrNotLocked
	}
	if event.ResultsFinalized {
		return nil, ErrResultsFinalized
	}

	bet := domain.NewBet(userID, eventID, input.Type, payload)

	if domain.SingleBetType(input.Type) {
		err = s.bets.Replace(ctx, bet)
	} else {
		err = s.bets.Create(ctx, bet)
	}
	if err != nil {
		return nil, err
	}

	log.Info("bet placed", slog.String("bet_type", string(input.Type)))
	return bet, nil
}

// Delete removes a bet. Only the owner may delete, and nothing can be
// deleted once results are finalized.
func (s *BetService) Delete(ctx context.Context, eventID, betID, requesterID uuid.UUID) error {
	const op = "service.bet.delete"

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if event.ResultsFinalized {
		return ErrResultsFinalized
	}

	bet, err := s.bets.GetByID(ctx, betID)
	if err != nil {
		return err
	}
	if bet.EventID != eventID {
		return repository.ErrBetNotFound
	}
	if bet.UserID != requesterID {
		return ErrNotBetOwner
	}

	if err := s.bets.Delete(ctx, betID); err != nil {
		return err
	}

	s.log.Info("bet deleted", slog.String("op", op), slog.String("bet_id", betID.String()))
	return nil
}

// List returns the caller's own bets plus the distribution of everyone's
// bets: over/under counts per threshold+direction, exact guesses sorted
// by time, and the yes/no prop split.
func (s *BetService) List(ctx context.Context, eventID, userID uuid.UUID) (*BetList, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	myBets, err := s.bets.ListByUser(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}

	allBets, err := s.bets.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	usernames := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		usernames[u.ID] = u.Username
	}

	return &BetList{
		EventID:          eventID,
		ResultsFinalized: event.ResultsFinalized,
		MyBets:           myBets,
		Distribution:     buildDistribution(allBets, usernames),
	}, nil
}

func buildDistribution(bets []domain.Bet, usernames map[uuid.UUID]string) BetDistribution {
	dist := BetDistribution{
		TimeOverUnder: make(map[string]int),
		VomitProp:     map[string]int{"yes": 0, "no": 0},
	}

	for _, bet := range bets {
		switch bet.Type {
		case domain.BetTypeTimeOverUnder:
			key := fmt.Sprintf("%d_%s", bet.Payload.ThresholdSeconds, bet.Payload.Direction)
			dist.TimeOverUnder[key]++
		case domain.BetTypeExactTimeGuess:
			dist.ExactTimeGuess = append(dist.ExactTimeGuess, GuessEntry{
				TimeSeconds: bet.Payload.GuessedTimeSeconds,
				Username:    usernames[bet.UserID],
			})
		case domain.BetTypeVomitProp:
			dist.VomitProp[string(bet.Payload.Prediction)]++
		}
	}

	sort.Slice(dist.ExactTimeGuess, func(i, j int) bool {
		return dist.ExactTimeGuess[i].TimeSeconds < dist.ExactTimeGuess[j].TimeSeconds
	})

	return dist
}

func validateBetInput(input BetInput) (domain.BetPayload, error) {
	switch input.Type {
	case domain.BetTypeTimeOverUnder:
		if err := checkSeconds(input.ThresholdSeconds); err != nil {
			return domain.BetPayload{}, err
		}
		if input.Direction != domain.DirectionOver && input.Direction != domain.DirectionUnder {
			return domain.BetPayload{}, fmt.Errorf("%w: direction must be over or under", ErrValidation)
		}
		return domain.BetPayload{
			ThresholdSeconds: input.ThresholdSeconds,
			Direction:        input.Direction,
		}, nil

	case domain.BetTypeExactTimeGuess:
		if err := checkSeconds(input.GuessedTimeSeconds); err != nil {
			return domain.BetPayload{}, err
		}
		return domain.BetPayload{GuessedTimeSeconds: input.GuessedTimeSeconds}, nil

	case domain.BetTypeVomitProp:
		if input.Prediction != domain.PredictionYes && input.Prediction != domain.PredictionNo {
			return domain.BetPayload{}, fmt.Errorf("%w: prediction must be yes or no", ErrValidation)
		}
		return domain.BetPayload{Prediction: input.Prediction}, nil

	default:
		return domain.BetPayload{}, fmt.Errorf("%w: unknown bet type %q", ErrValidation, input.Type)
	}
}

func checkSeconds(n int) error {
	if n < 0 || n > domain.MaxTimeSeconds {
		return fmt.Errorf("%w: time must be between 0 and %d seconds", ErrValidation, domain.MaxTimeSeconds)
	}
	return nil
}
