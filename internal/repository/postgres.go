package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/beermile/backend/internal/domain"
	"github.com/beermile/backend/internal/repository/model"
)

type PostgresUserRepository struct {
	db *gorm.DB
}

func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Create(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if user == nil {
		return errors.New("user is nil")
	}

	if err := r.db.WithContext(ctx).Create(toModelUser(user)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if strings.Contains(err.Error(), "username") {
				return ErrUsernameExists
			}
			return ErrEmailExists
		}
		return err
	}
	return nil
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var user model.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return toDomainUser(&user), nil
}

func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var user model.User
	if err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return toDomainUser(&user), nil
}

func (r *PostgresUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var users []model.User
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&users).Error; err != nil {
		return nil, err
	}

	result := make([]*domain.User, 0, len(users))
	for i := range users {
		result = append(result, toDomainUser(&users[i]))
	}
	return result, nil
}

type PostgresEventRepository struct {
	db *gorm.DB
}

func NewPostgresEventRepository(db *gorm.DB) *PostgresEventRepository {
	return &PostgresEventRepository{db: db}
}

func (r *PostgresEventRepository) Create(ctx context.Context, event *domain.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if event == nil {
		return errors.New("event is nil")
	}
	return r.db.WithContext(ctx).Create(toModelEvent(event)).Error
}

func (r *PostgresEventRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var event model.Event
	if err := r.db.WithContext(ctx).First(&event, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return toDomainEvent(&event), nil
}

func (r *PostgresEventRepository) LockDate(ctx context.Context, id uuid.UUID, date, lockedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	res := r.db.WithContext(ctx).Model(&model.Event{}).
		Where("id = ? AND scheduled_date IS NULL", id).
		Updates(map[string]any{
			"scheduled_date": date,
			"locked_at":      lockedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.conflictReason(ctx, id, ErrAlreadyLocked)
	}
	return nil
}

func (r *PostgresEventRepository) Unlock(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	res := r.db.WithContext(ctx).Model(&model.Event{}).
		Where("id = ? AND scheduled_date IS NOT NULL AND results_finalized = false", id).
		Updates(map[string]any{
			"scheduled_date":     gorm.Expr("NULL"),
			"locked_at":          gorm.Expr("NULL"),
			"final_time_seconds": gorm.Expr("NULL"),
			"vomit_outcome":      gorm.Expr("NULL"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.conflictReason(ctx, id, ErrNotLocked)
	}
	return nil
}

func (r *PostgresEventRepository) SetResults(ctx context.Context, id uuid.UUID, finalTimeSeconds int, vomitOutcome bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	res := r.db.WithContext(ctx).Model(&model.Event{}).
		Where("id = ? AND results_finalized = false", id).
		Updates(map[string]any{
			"final_time_seconds": finalTimeSeconds,
			"vomit_outcome":      vomitOutcome,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.conflictReason(ctx, id, ErrAlreadyFinalized)
	}
	return nil
}

// conflictReason separates "row exists but the guard failed" from "row
// does not exist" after a zero-row conditional update.
func (r *PostgresEventRepository) conflictReason(ctx context.Context, id uuid.UUID, conflict error) error {
	var event model.Event
	if err := r.db.WithContext(ctx).Select("id", "results_finalized").First(&event, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		return err
	}
	if event.ResultsFinalized {
		return ErrAlreadyFinalized
	}
	return conflict
}

type PostgresAvailabilityRepository struct {
	db *gorm.DB
}

func NewPostgresAvailabilityRepository(db *gorm.DB) *PostgresAvailabilityRepository {
	return &PostgresAvailabilityRepository{db: db}
}

func (r *PostgresAvailabilityRepository) Upsert(ctx context.Context, rec *domain.AvailabilityRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rec == nil {
		return errors.New("availability record is nil")
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "event_id"}, {Name: "calendar_date"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_available", "updated_at"}),
	}).Create(toModelAvailability(rec)).Error
}

func (r *PostgresAvailabilityRepository) ListRange(ctx context.Context, eventID uuid.UUID, from, to time.Time) ([]domain.AvailabilityRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var records []model.Availability
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND calendar_date >= ? AND calendar_date <= ?", eventID, from, to).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return toDomainAvailabilities(records), nil
}

func (r *PostgresAvailabilityRepository) ListForDate(ctx context.Context, eventID uuid.UUID, date time.Time) ([]domain.AvailabilityRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var records []model.Availability
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND calendar_date = ?", eventID, date).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return toDomainAvailabilities(records), nil
}

type PostgresBetRepository struct {
	db *gorm.DB
}

func NewPostgresBetRepository(db *gorm.DB) *PostgresBetRepository {
	return &PostgresBetRepository{db: db}
}

func (r *PostgresBetRepository) Create(ctx context.Context, bet *domain.Bet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if bet == nil {
		return errors.New("bet is nil")
	}

	betModel, err := toModelBet(bet)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(betModel).Error
}

func (r *PostgresBetRepository) Replace(ctx context.Context, bet *domain.Bet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if bet == nil {
		return errors.New("bet is nil")
	}

	betModel, err := toModelBet(bet)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND event_id = ? AND bet_type = ?",
			bet.UserID, bet.EventID, string(bet.Type)).
			Delete(&model.Bet{}).Error
		if err != nil {
			return err
		}
		return tx.Create(betModel).Error
	})
}

func (r *PostgresBetRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Bet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var bet model.Bet
	if err := r.db.WithContext(ctx).First(&bet, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBetNotFound
		}
		return nil, err
	}
	return toDomainBet(&bet)
}

func (r *PostgresBetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	res := r.db.WithContext(ctx).Delete(&model.Bet{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrBetNotFound
	}
	return nil
}

func (r *PostgresBetRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]domain.Bet, error) {
	return r.list(ctx, "event_id = ?", []any{eventID}, "created_at asc")
}

func (r *PostgresBetRepository) ListByUser(ctx context.Context, eventID, userID uuid.UUID) ([]domain.Bet, error) {
	return r.list(ctx, "event_id = ? AND user_id = ?", []any{eventID, userID}, "created_at desc")
}

func (r *PostgresBetRepository) ListPending(ctx context.Context, eventID uuid.UUID) ([]domain.Bet, error) {
	return r.list(ctx, "event_id = ? AND status = ?", []any{eventID, string(domain.BetStatusPending)}, "created_at asc")
}

func (r *PostgresBetRepository) list(ctx context.Context, query string, args []any, order string) ([]domain.Bet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var bets []model.Bet
	if err := r.db.WithContext(ctx).Where(query, args...).Order(order).Find(&bets).Error; err != nil {
		return nil, err
	}

	result := make([]domain.Bet, 0, len(bets))
	for i := range bets {
		bet, err := toDomainBet(&bets[i])
		if err != nil {
			return nil, err
		}
		result = append(result, *bet)
	}
	return result, nil
}

type PostgresLeaderboardRepository struct {
	db *gorm.DB
}

func NewPostgresLeaderboardRepository(db *gorm.DB) *PostgresLeaderboardRepository {
	return &PostgresLeaderboardRepository{db: db}
}

func (r *PostgresLeaderboardRepository) Create(ctx context.Context, entry *domain.LeaderboardEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if entry == nil {
		return errors.New("leaderboard entry is nil")
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "event_id"}},
		DoNothing: true,
	}).Create(toModelLeaderboardEntry(entry)).Error
}

func (r *PostgresLeaderboardRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]domain.LeaderboardEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var entries []model.LeaderboardEntry
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("rank asc NULLS LAST").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}

	result := make([]domain.LeaderboardEntry, 0, len(entries))
	for i := range entries {
		result = append(result, *toDomainLeaderboardEntry(&entries[i]))
	}
	return result, nil
}

type PostgresSettlementRepository struct {
	db *gorm.DB
}

func NewPostgresSettlementRepository(db *gorm.DB) *PostgresSettlementRepository {
	return &PostgresSettlementRepository{db: db}
}

func (r *PostgresSettlementRepository) Finalize(ctx context.Context, eventID uuid.UUID, bets []domain.Bet, entries []domain.LeaderboardEntry, finalizedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The check-and-set on results_finalized is the point of no
		// return; everything below rolls back with it.
		res := tx.Model(&model.Event{}).
			Where("id = ? AND results_finalized = false", eventID).
			Updates(map[string]any{
				"results_finalized": true,
				"finalized_at":      finalizedAt,
				"status":            string(domain.EventStatusCompleted),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var event model.Event
			if err := tx.Select("id").First(&event, "id = ?", eventID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrEventNotFound
				}
				return err
			}
			return ErrAlreadyFinalized
		}

		for i := range bets {
			payload, err := json.Marshal(bets[i].Payload)
			if err != nil {
				return err
			}
			err = tx.Model(&model.Bet{}).Where("id = ?", bets[i].ID).Updates(map[string]any{
				"status":         string(bets[i].Status),
				"points_awarded": bets[i].PointsAwarded,
				"bet_data":       datatypes.JSON(payload),
			}).Error
			if err != nil {
				return err
			}
		}

		for i := range entries {
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "event_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"points_earned", "rank", "updated_at"}),
			}).Create(toModelLeaderboardEntry(&entries[i])).Error
			if err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *PostgresSettlementRepository) Reset(ctx context.Context, eventID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Event{}).
			Where("id = ? AND results_finalized = false", eventID).
			Updates(map[string]any{
				"final_time_seconds": gorm.Expr("NULL"),
				"vomit_outcome":      gorm.Expr("NULL"),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var event model.Event
			if err := tx.Select("id").First(&event, "id = ?", eventID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrEventNotFound
				}
				return err
			}
			return ErrAlreadyFinalized
		}

		err := tx.Model(&model.Bet{}).Where("event_id = ?", eventID).Updates(map[string]any{
			"status":         string(domain.BetStatusPending),
			"points_awarded": 0,
		}).Error
		if err != nil {
			return err
		}

		return tx.Model(&model.LeaderboardEntry{}).Where("event_id = ?", eventID).Updates(map[string]any{
			"points_earned": 0,
			"rank":          gorm.Expr("NULL"),
		}).Error
	})
}

func toModelUser(user *domain.User) *model.User {
	return &model.User{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Role:         string(user.Role),
		CreatedAt:    user.CreatedAt.UTC(),
	}
}

func toDomainUser(user *model.User) *domain.User {
	return &domain.User{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Role:         domain.Role(user.Role),
		CreatedAt:    user.CreatedAt.UTC(),
	}
}

func toModelEvent(event *domain.Event) *model.Event {
	return &model.Event{
		ID:               event.ID,
		Name:             event.Name,
		Status:           string(event.Status),
		ScheduledDate:    event.ScheduledDate,
		LockedAt:         event.LockedAt,
		FinalTimeSeconds: event.FinalTimeSeconds,
		VomitOutcome:     event.VomitOutcome,
		ResultsFinalized: event.ResultsFinalized,
		FinalizedAt:      event.FinalizedAt,
		CreatedAt:        event.CreatedAt.UTC(),
	}
}

func toDomainEvent(event *model.Event) *domain.Event {
	return &domain.Event{
		ID:               event.ID,
		Name:             event.Name,
		Status:           domain.EventStatus(event.Status),
		ScheduledDate:    event.ScheduledDate,
		LockedAt:         event.LockedAt,
		FinalTimeSeconds: event.FinalTimeSeconds,
		VomitOutcome:     event.VomitOutcome,
		ResultsFinalized: event.ResultsFinalized,
		FinalizedAt:      event.FinalizedAt,
		CreatedAt:        event.CreatedAt.UTC(),
	}
}

func toModelAvailability(rec *domain.AvailabilityRecord) *model.Availability {
	return &model.Availability{
		ID:           rec.ID,
		UserID:       rec.UserID,
		EventID:      rec.EventID,
		CalendarDate: rec.CalendarDate.UTC(),
		IsAvailable:  rec.IsAvailable,
		UpdatedAt:    rec.UpdatedAt.UTC(),
	}
}

func toDomainAvailabilities(records []model.Availability) []domain.AvailabilityRecord {
	result := make([]domain.AvailabilityRecord, 0, len(records))
	for i := range records {
		rec := records[i]
		result = append(result, domain.AvailabilityRecord{
			ID:           rec.ID,
			UserID:       rec.UserID,
			EventID:      rec.EventID,
			CalendarDate: rec.CalendarDate.UTC(),
			IsAvailable:  rec.IsAvailable,
			UpdatedAt:    rec.UpdatedAt.UTC(),
		})
	}
	return result
}

func toModelBet(bet *domain.Bet) (*model.Bet, error) {
	payload, err := json.Marshal(bet.Payload)
	if err != nil {
		return nil, err
	}
	return &model.Bet{
		ID:            bet.ID,
		UserID:        bet.UserID,
		EventID:       bet.EventID,
		BetType:       string(bet.Type),
		BetData:       datatypes.JSON(payload),
		Status:        string(bet.Status),
		PointsAwarded: bet.PointsAwarded,
		CreatedAt:     bet.CreatedAt.UTC(),
	}, nil
}

func toDomainBet(bet *model.Bet) (*domain.Bet, error) {
	var payload domain.BetPayload
	if len(bet.BetData) > 0 {
		if err := json.Unmarshal(bet.BetData, &payload); err != nil {
			return nil, err
		}
	}
	return &domain.Bet{
		ID:            bet.ID,
		UserID:        bet.UserID,
		EventID:       bet.EventID,
		Type:          domain.BetType(bet.BetType),
		Payload:       payload,
		Status:        domain.BetStatus(bet.Status),
		PointsAwarded: bet.PointsAwarded,
		CreatedAt:     bet.CreatedAt.UTC(),
	}, nil
}

func toModelLeaderboardEntry(entry *domain.LeaderboardEntry) *model.LeaderboardEntry {
	return &model.LeaderboardEntry{
		ID:           entry.ID,
		UserID:       entry.UserID,
		EventID:      entry.EventID,
		PointsEarned: entry.PointsEarned,
		Rank:         entry.Rank,
		UpdatedAt:    entry.UpdatedAt.UTC(),
	}
}

func toDomainLeaderboardEntry(entry *model.LeaderboardEntry) *domain.LeaderboardEntry {
	return &domain.LeaderboardEntry{
		ID:           entry.ID,
		UserID:       entry.UserID,
		EventID:      entry.EventID,
		PointsEarned: entry.PointsEarned,
		Rank:         entry.Rank,
		UpdatedAt:    entry.UpdatedAt.UTC(),
	}
}
