package store

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/golden-glimpses/internal/logger"
	"github.com/MKhiriev/golden-glimpses/models"
)

// MemoryStorage keeps users, capsules and refresh tokens in process
// memory. It implements [CapsuleRepository], [UserRepository] and
// [TokenRepository] with the same semantics as the database drivers.
// Values are copied in and out so callers never share a media slice with
// the store.
type MemoryStorage struct {
	mu sync.RWMutex

	capsules     map[string]models.Capsule
	users        map[string]models.User
	usersByLogin map[string]string
	tokens       map[string]models.RefreshToken

	logger *logger.Logger
}

func NewMemoryStorage(logger *logger.Logger) *MemoryStorage {
	logger.Debug().Msg("creating in-memory storage")
	return &MemoryStorage{
		capsules:     make(map[string]models.Capsule),
		users:        make(map[string]models.User),
		usersByLogin: make(map[string]string),
		tokens:       make(map[string]models.RefreshToken),
		logger:       logger,
	}
}

func (m *MemoryStorage) CreateCapsule(ctx context.Context, capsule models.Capsule) (models.Capsule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.capsules[capsule.ID]; ok {
		return models.Capsule{}, ErrCapsuleAlreadyExists
	}

	if capsule.Version == 0 {
		capsule.Version = 1
	}
	if capsule.Media == nil {
		capsule.Media = make([]models.MediaItem, 0)
	}

	m.capsules[capsule.ID] = capsule.Clone()
	return capsule.Clone(), nil
}

func (m *MemoryStorage) GetCapsule(ctx context.Context, capsuleID string) (models.Capsule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	capsule, ok := m.capsules[capsuleID]
	if !ok {
		return models.Capsule{}, ErrCapsuleNotFound
	}
	return capsule.Clone(), nil
}

func (m *MemoryStorage) UpdateCapsule(ctx context.Context, capsule models.Capsule) (models.Capsule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.capsules[capsule.ID]
	if !ok {
		return models.Capsule{}, ErrCapsuleNotFound
	}
	if stored.Version != capsule.Version {
		logger.FromContext(ctx).Debug().
			Str("func", "*MemoryStorage.UpdateCapsule").
			Str("capsule_id", capsule.ID).
			Int64("version", capsule.Version).
			Msg("stale capsule version")
		return models.Capsule{}, ErrVersionConflict
	}

	capsule.Version++
	capsule.OwnerID = stored.OwnerID
	capsule.CreatedAt = stored.CreatedAt
	if capsule.Media == nil {
		capsule.Media = make([]models.MediaItem, 0)
	}

	m.capsules[capsule.ID] = capsule.Clone()
	return capsule.Clone(), nil
}

func (m *MemoryStorage) DeleteCapsule(ctx context.Context, capsuleID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.capsules[capsuleID]; !ok {
		return ErrCapsuleNotFound
	}
	delete(m.capsules, capsuleID)
	return nil
}

func (m *MemoryStorage) ListByOwner(ctx context.Context, ownerID string) ([]models.Capsule, error) {
	return m.collect(func(c models.Capsule) bool {
		return c.OwnerID == ownerID
	}), nil
}

func (m *MemoryStorage) ListPublic(ctx context.Context, filter models.CapsuleFilter) ([]models.Capsule, int64, error) {
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	matched := m.collect(func(c models.Capsule) bool {
		if !c.IsPublic {
			return false
		}
		if search == "" {
			return true
		}
		return strings.Contains(strings.ToLower(c.Title), search) ||
			strings.Contains(strings.ToLower(c.Description), search)
	})

	total := int64(len(matched))

	start := min(max(filter.Offset, 0), len(matched))
	end := len(matched)
	if filter.Limit > 0 {
		end = min(start+filter.Limit, len(matched))
	}

	return matched[start:end], total, nil
}

// collect returns deep copies of the capsules accepted by keep, newest
// first with ties broken by id.
func (m *MemoryStorage) collect(keep func(models.Capsule) bool) []models.Capsule {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]models.Capsule, 0)
	for _, c := range m.capsules {
		if keep(c) {
			result = append(result, c.Clone())
		}
	}

	slices.SortFunc(result, func(a, b models.Capsule) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
	return result
}

func (m *MemoryStorage) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.usersByLogin[user.Login]; ok {
		return models.User{}, ErrLoginAlreadyExists
	}

	m.users[user.UserID] = user
	m.usersByLogin[user.Login] = user.UserID
	return user, nil
}

func (m *MemoryStorage) FindUserByLogin(ctx context.Context, login string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.usersByLogin[login]
	if !ok {
		return models.User{}, ErrNoUserWasFound
	}
	return m.users[id], nil
}

func (m *MemoryStorage) FindUserByID(ctx context.Context, userID string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[userID]
	if !ok {
		return models.User{}, ErrNoUserWasFound
	}
	return user, nil
}

func (m *MemoryStorage) SaveRefreshToken(ctx context.Context, token models.RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tokens[token.TokenHash] = token
	return nil
}

func (m *MemoryStorage) GetRefreshToken(ctx context.Context, tokenHash string) (models.RefreshToken, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	token, ok := m.tokens[tokenHash]
	if !ok {
		return models.RefreshToken{}, ErrRefreshTokenNotFound
	}
	return token, nil
}

func (m *MemoryStorage) DeleteRefreshToken(ctx context.Context, tokenHash string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.tokens[tokenHash]
	delete(m.tokens, tokenHash)
	return ok, nil
}

func (m *MemoryStorage) DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var removed int64
	for hash, token := range m.tokens {
		if token.IsExpired(now) {
			delete(m.tokens, hash)
			removed++
		}
	}
	return removed, nil
}

// Ping always succeeds.
func (m *MemoryStorage) Ping(ctx context.Context) error {
	return nil
}
