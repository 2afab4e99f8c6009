package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/beermile/backend/internal/domain"
	"github.com/beermile/backend/internal/repository"
	"github.com/beermile/backend/lib/logger/sl"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)

type UserService struct {
	users       repository.UserRepository
	leaderboard repository.LeaderboardRepository
	log         *slog.Logger
}

func NewUserService(users repository.UserRepository, leaderboard repository.LeaderboardRepository, log *slog.Logger) *UserService {
	if log == nil {
		log = slog.Default()
	}
	return &UserService{users: users, leaderboard: leaderboard, log: log}
}

// Signup registers a user and seeds a zero-point leaderboard row for the
// current event.
func (s *UserService) Signup(ctx context.Context, eventID uuid.UUID, username, email, password string) (*domain.User, error) {
	const op = "service.user.signup"
	log := s.log.With(slog.String("op", op), slog.String("username", username))

	if !usernamePattern.MatchString(username) {
		return nil, fmt.Errorf("%w: username must be 3-20 letters, numbers, or underscores", ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email format", ErrValidation)
	}
	if err := checkPassword(password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := domain.NewUser(username, email, string(hash))
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.leaderboard.Create(ctx, domain.NewLeaderboardEntry(user.ID, eventID)); err != nil {
		log.Error("failed to seed leaderboard entry", sl.Err(err))
		return nil, err
	}

	log.Info("user registered", slog.String("user_id", user.ID.String()))
	return user, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	const op = "service.user.login"

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.Info("failed login attempt", slog.String("op", op), slog.String("email", email))
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func checkPassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}
	if !strings.ContainsAny(password, "0123456789") {
		return fmt.Errorf("%w: password must contain at least one number", ErrValidation)
	}
	if !strings.ContainsAny(password, `!@#$%^&*(),.?":{}|<>`) {
		return fmt.Errorf("%w: password must contain at least one special character", ErrValidation)
	}
	return nil
}
