package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/beermile/backend/internal/dateutil"
	"github.com/beermile/backend/internal/domain"
)

type InMemoryUserRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*domain.User
	order []uuid.UUID
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{users: make(map[uuid.UUID]*domain.User)}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return ErrEmailExists
		}
		if u.Username == user.Username {
			return ErrUsernameExists
		}
	}

	clone := *user
	r.users[user.ID] = &clone
	r.order = append(r.order, user.ID)
	return nil
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *InMemoryUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.User, 0, len(r.order))
	for _, id := range r.order {
		clone := *r.users[id]
		result = append(result, &clone)
	}
	return result, nil
}

type InMemoryEventRepository struct {
	mu     sync.RWMutex
	events map[uuid.UUID]*domain.Event
}

func NewInMemoryEventRepository() *InMemoryEventRepository {
	return &InMemoryEventRepository{events: make(map[uuid.UUID]*domain.Event)}
}

func (r *InMemoryEventRepository) Create(ctx context.Context, event *domain.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *event
	r.events[event.ID] = &clone
	return nil
}

func (r *InMemoryEventRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	event, ok := r.events[id]
	if !ok {
		return nil, ErrEventNotFound
	}
	clone := *event
	return &clone, nil
}

func (r *InMemoryEventRepository) LockDate(ctx context.Context, id uuid.UUID, date, lockedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	event, ok := r.events[id]
	if !ok {
		return ErrEventNotFound
	}
	if event.ResultsFinalized {
		return ErrAlreadyFinalized
	}
	if event.ScheduledDate != nil {
		return ErrAlreadyLocked
	}

	d, l := date, lockedAt
	event.ScheduledDate = &d
	event.LockedAt = &l
	return nil
}

func (r *InMemoryEventRepository) Unlock(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	event, ok := r.events[id]
	if !ok {
		return ErrEventNotFound
	}
	if event.ResultsFinalized {
		return ErrAlreadyFinalized
	}
	if event.ScheduledDate == nil {
		return ErrNotLocked
	}

	event.ScheduledDate = nil
	event.LockedAt = nil
	event.FinalTimeSeconds = nil
	event.VomitOutcome = nil
	return nil
}

func (r *InMemoryEventRepository) SetResults(ctx context.Context, id uuid.UUID, finalTimeSeconds int, vomitOutcome bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	event, ok := r.events[id]
	if !ok {
		return ErrEventNotFound
	}
	if event.ResultsFinalized {
		return ErrAlreadyFinalized
	}

	t, v := finalTimeSeconds, vomitOutcome
	event.FinalTimeSeconds = &t
	event.VomitOutcome = &v
	return nil
}

type availabilityKey struct {
	userID  uuid.UUID
	eventID uuid.UUID
	date    string
}

type InMemoryAvailabilityRepository struct {
	mu      sync.RWMutex
	records map[availabilityKey]*domain.AvailabilityRecord
}

func NewInMemoryAvailabilityRepository() *InMemoryAvailabilityRepository {
	return &InMemoryAvailabilityRepository{records: make(map[availabilityKey]*domain.AvailabilityRecord)}
}

func (r *InMemoryAvailabilityRepository) Upsert(ctx context.Context, rec *domain.AvailabilityRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := availabilityKey{rec.UserID, rec.EventID, dateutil.ToISODate(rec.CalendarDate)}
	if existing, ok := r.records[key]; ok {
		existing.IsAvailable = rec.IsAvailable
		existing.UpdatedAt = rec.UpdatedAt
		return nil
	}
	clone := *rec
	r.records[key] = &clone
	return nil
}

func (r *InMemoryAvailabilityRepository) ListRange(ctx context.Context, eventID uuid.UUID, from, to time.Time) ([]domain.AvailabilityRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []domain.AvailabilityRecord
	for _, rec := range r.records {
		if rec.EventID != eventID {
			continue
		}
		if rec.CalendarDate.Before(from) || rec.CalendarDate.After(to) {
			continue
		}
		result = append(result, *rec)
	}
	sortAvailability(result)
	return result, nil
}

func (r *InMemoryAvailabilityRepository) ListForDate(ctx context.Context, eventID uuid.UUID, date time.Time) ([]domain.AvailabilityRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	key := dateutil.ToISODate(date)
	var result []domain.AvailabilityRecord
	for _, rec := range r.records {
		if rec.EventID == eventID && dateutil.ToISODate(rec.CalendarDate) == key {
			result = append(result, *rec)
		}
	}
	sortAvailability(result)
	return result, nil
}

func sortAvailability(records []domain.AvailabilityRecord) {
	sort.Slice(records, func(i, j int) bool {
		if !records[i].CalendarDate.Equal(records[j].CalendarDate) {
			return records[i].CalendarDate.Before(records[j].CalendarDate)
		}
		return records[i].UserID.String() < records[j].UserID.String()
	})
}

type InMemoryBetRepository struct {
	mu    sync.RWMutex
	bets  map[uuid.UUID]*domain.Bet
	order []uuid.UUID
}

func NewInMemoryBetRepository() *InMemoryBetRepository {
	return &InMemoryBetRepository{bets: make(map[uuid.UUID]*domain.Bet)}
}

func (r *InMemoryBetRepository) Create(ctx context.Context, bet *domain.Bet) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *bet
	r.bets[bet.ID] = &clone
	r.order = append(r.order, bet.ID)
	return nil
}

func (r *InMemoryBetRepository) Replace(ctx context.Context, bet *domain.Bet) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for id, existing := range r.bets {
		if existing.UserID == bet.UserID && existing.EventID == bet.EventID && existing.Type == bet.Type {
			delete(r.bets, id)
			r.order = removeID(r.order, id)
		}
	}

	clone := *bet
	r.bets[bet.ID] = &clone
	r.order = append(r.order, bet.ID)
	return nil
}

func (r *InMemoryBetRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Bet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	bet, ok := r.bets[id]
	if !ok {
		return nil, ErrBetNotFound
	}
	clone := *bet
	return &clone, nil
}

func (r *InMemoryBetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bets[id]; !ok {
		return ErrBetNotFound
	}
	delete(r.bets, id)
	r.order = removeID(r.order, id)
	return nil
}

func (r *InMemoryBetRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]domain.Bet, error) {
	return r.filter(ctx, func(b *domain.Bet) bool {
		return b.EventID == eventID
	}, false)
}

func (r *InMemoryBetRepository) ListByUser(ctx context.Context, eventID, userID uuid.UUID) ([]domain.Bet, error) {
	return r.filter(ctx, func(b *domain.Bet) bool {
		return b.EventID == eventID && b.UserID == userID
	}, true)
}

func (r *InMemoryBetRepository) ListPending(ctx context.Context, eventID uuid.UUID) ([]domain.Bet, error) {
	return r.filter(ctx, func(b *domain.Bet) bool {
		return b.EventID == eventID && b.Status == domain.BetStatusPending
	}, false)
}

func (r *InMemoryBetRepository) filter(ctx context.Context, keep func(*domain.Bet) bool, newestFirst bool) ([]domain.Bet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []domain.Bet
	for _, id := range r.order {
		if bet := r.bets[id]; keep(bet) {
			result = append(result, *bet)
		}
	}
	if newestFirst {
		for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
			result[i], result[j] = result[j], result[i]
		}
	}
	return result, nil
}

// update applies fn to a stored bet under the write lock. Used by the
// in-memory settlement repository.
func (r *InMemoryBetRepository) update(id uuid.UUID, fn func(*domain.Bet)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if bet, ok := r.bets[id]; ok {
		fn(bet)
	}
}

func removeID(order []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := order[:0]
	for _, x := range order {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}

type leaderboardKey struct {
	userID  uuid.UUID
	eventID uuid.UUID
}

type InMemoryLeaderboardRepository struct {
	mu      sync.RWMutex
	entries map[leaderboardKey]*domain.LeaderboardEntry
}

func NewInMemoryLeaderboardRepository() *InMemoryLeaderboardRepository {
	return &InMemoryLeaderboardRepository{entries: make(map[leaderboardKey]*domain.LeaderboardEntry)}
}

func (r *InMemoryLeaderboardRepository) Create(ctx context.Context, entry *domain.LeaderboardEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := leaderboardKey{entry.UserID, entry.EventID}
	if _, ok := r.entries[key]; ok {
		return nil
	}
	clone := *entry
	r.entries[key] = &clone
	return nil
}

func (r *InMemoryLeaderboardRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]domain.LeaderboardEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []domain.LeaderboardEntry
	for _, entry := range r.entries {
		if entry.EventID == eventID {
			result = append(result, *entry)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		ri, rj := result[i].Rank, result[j].Rank
		switch {
		case ri == nil && rj == nil:
			return result[i].UserID.String() < result[j].UserID.String()
		case ri == nil:
			return false
		case rj == nil:
			return true
		default:
			return *ri < *rj
		}
	})
	return result, nil
}

func (r *InMemoryLeaderboardRepository) upsert(entry domain.LeaderboardEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := leaderboardKey{entry.UserID, entry.EventID}
	if existing, ok := r.entries[key]; ok {
		existing.PointsEarned = entry.PointsEarned
		existing.Rank = entry.Rank
		existing.UpdatedAt = entry.UpdatedAt
		return
	}
	clone := entry
	r.entries[key] = &clone
}

func (r *InMemoryLeaderboardRepository) zeroAll(eventID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, entry := range r.entries {
		if entry.EventID == eventID {
			entry.PointsEarned = 0
			entry.Rank = nil
		}
	}
}

// InMemorySettlementRepository applies finalize/reset against the other
// in-memory stores. A single mutex serializes the finalized check-and-set
// the way the conditional update does in postgres.
type InMemorySettlementRepository struct {
	mu          sync.Mutex
	events      *InMemoryEventRepository
	bets        *InMemoryBetRepository
	leaderboard *InMemoryLeaderboardRepository
}

func NewInMemorySettlementRepository(events *InMemoryEventRepository, bets *InMemoryBetRepository, leaderboard *InMemoryLeaderboardRepository) *InMemorySettlementRepository {
	return &InMemorySettlementRepository{events: events, bets: bets, leaderboard: leaderboard}
}

func (r *InMemorySettlementRepository) Finalize(ctx context.Context, eventID uuid.UUID, bets []domain.Bet, entries []domain.LeaderboardEntry, finalizedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.events.mu.Lock()
	event, ok := r.events.events[eventID]
	if !ok {
		r.events.mu.Unlock()
		return ErrEventNotFound
	}
	if event.ResultsFinalized {
		r.events.mu.Unlock()
		return ErrAlreadyFinalized
	}
	event.ResultsFinalized = true
	t := finalizedAt
	event.FinalizedAt = &t
	event.Status = domain.EventStatusCompleted
	r.events.mu.Unlock()

	for i := range bets {
		scored := bets[i]
		r.bets.update(scored.ID, func(b *domain.Bet) {
			b.Status = scored.Status
			b.PointsAwarded = scored.PointsAwarded
			b.Payload = scored.Payload
		})
	}

	for i := range entries {
		r.leaderboard.upsert(entries[i])
	}
	return nil
}

func (r *InMemorySettlementRepository) Reset(ctx context.Context, eventID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.events.mu.Lock()
	event, ok := r.events.events[eventID]
	if !ok {
		r.events.mu.Unlock()
		return ErrEventNotFound
	}
	if event.ResultsFinalized {
		r.events.mu.Unlock()
		return ErrAlreadyFinalized
	}
	event.FinalTimeSeconds = nil
	event.VomitOutcome = nil
	r.events.mu.Unlock()

	r.bets.mu.Lock()
	for _, bet := range r.bets.bets {
		if bet.EventID == eventID {
			bet.Status = domain.BetStatusPending
			bet.PointsAwarded = 0
		}
	}
	r.bets.mu.Unlock()

	r.leaderboard.zeroAll(eventID)
	return nil
}
