package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	httpapi "github.com/beermile/backend/internal/api/http"
	"github.com/beermile/backend/internal/config"
	"github.com/beermile/backend/internal/domain"
	"github.com/beermile/backend/internal/repository"
	"github.com/beermile/backend/internal/repository/model"
	"github.com/beermile/backend/internal/service"
	"github.com/beermile/backend/lib/logger/sl"
	"github.com/beermile/backend/lib/logger/slogpretty"
)

func main() {
	_ = godotenv.Load(".env")

	cfg := config.MustLoad()
	log := setupLogger(cfg.Env)

	eventID, err := uuid.Parse(cfg.Event.ID)
	if err != nil {
		log.Error("invalid event id in config", sl.Err(err))
		os.Exit(1)
	}

	db, err := connectDatabase(cfg.Database)
	if err != nil {
		log.Error("failed to connect database", sl.Err(err))
		os.Exit(1)
	}

	userRepo := repository.NewPostgresUserRepository(db)
	eventRepo := repository.NewPostgresEventRepository(db)
	availabilityRepo := repository.NewPostgresAvailabilityRepository(db)
	betRepo := repository.NewPostgresBetRepository(db)
	leaderboardRepo := repository.NewPostgresLeaderboardRepository(db)
	settlementRepo := repository.NewPostgresSettlementRepository(db)

	if err := ensureEvent(eventRepo, eventID, cfg.Event.Name); err != nil {
		log.Error("failed to ensure event", sl.Err(err))
		os.Exit(1)
	}

	userService := service.NewUserService(userRepo, leaderboardRepo, log)
	eventService := service.NewEventService(eventRepo, userRepo, availabilityRepo, log)
	availabilityService := service.NewAvailabilityService(availabilityRepo, eventRepo, userRepo, log)
	betService := service.NewBetService(betRepo, eventRepo, userRepo, log)
	resultsService := service.NewResultsService(eventRepo, betRepo, userRepo, leaderboardRepo, settlementRepo, log)
	leaderboardService := service.NewLeaderboardService(leaderboardRepo, betRepo, eventRepo, userRepo, log)

	controllers := httpapi.Controllers{
		Auth:         httpapi.NewAuthController(userService, eventID, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Event:        httpapi.NewEventController(eventService, eventID),
		Availability: httpapi.NewAvailabilityController(availabilityService, eventID),
		Bet:          httpapi.NewBetController(betService, eventID),
		Results:      httpapi.NewResultsController(resultsService, eventID),
		Leaderboard:  httpapi.NewLeaderboardController(leaderboardService, eventID),
	}

	router := httpapi.SetupRouter(controllers, cfg.Auth.JWTSecret)

	log.Info("starting application", slog.String("addr", cfg.HTTP.Address))
	if err := router.Run(cfg.HTTP.Address); err != nil {
		log.Error("http server stopped", sl.Err(err))
		os.Exit(1)
	}
}

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = setupPrettySlog()
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}

func connectDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	if cfg.DSN == "" {
		return nil, errors.New("database dsn is empty")
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN), gormConfig())
	if err != nil {
		return nil, err
	}

	db.AutoMigrate(
		&model.User{},
		&model.Event{},
		&model.Availability{},
		&model.Bet{},
		&model.LeaderboardEntry{},
	)

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

// gorm only runs the dialector's error translator when TranslateError
// is set; the repository layer matches unique violations against
// gorm.ErrDuplicatedKey, so without it they would surface as raw pg
// errors and miss the conflict mapping.
func gormConfig() *gorm.Config {
	return &gorm.Config{TranslateError: true}
}

// ensureEvent creates the configured event on first start so the
// calendar and betting endpoints have something to point at.
func ensureEvent(events repository.EventRepository, id uuid.UUID, name string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := events.GetByID(ctx, id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrEventNotFound) {
		return err
	}

	event := domain.NewEvent(name)
	event.ID = id
	return events.Create(ctx, event)
}
