// Package memory is the in-memory storage backend used for local development
// and tests. All operations are safe for concurrent use.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/nvarma/eldercare-hub/internal/storage"
)

type MemoryStorage struct {
	mu        sync.RWMutex
	users     map[string]storage.User // keyed by uid
	messages  map[string][]storage.ChatMessage
	reports   map[string][]storage.WeeklyReport
	documents map[string][]storage.Document
}

func New() *MemoryStorage {
	return &MemoryStorage{
		users:     make(map[string]storage.User),
		messages:  make(map[string][]storage.ChatMessage),
		reports:   make(map[string][]storage.WeeklyReport),
		documents: make(map[string][]storage.Document),
	}
}

func (m *MemoryStorage) CreateUser(ctx context.Context, user *storage.User) error {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[user.UID]; exists {
		return storage.ErrDuplicate
	}
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return storage.ErrDuplicate
		}
	}

	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	m.users[user.UID] = cloneUser(*user)
	return nil
}

func (m *MemoryStorage) GetUser(ctx context.Context, uid string) (*storage.User, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[uid]
	if !ok {
		return nil, storage.ErrNotFound
	}
	clone := cloneUser(user)
	return &clone, nil
}

func (m *MemoryStorage) UpdateUser(ctx context.Context, user *storage.User) error {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.users[user.UID]
	if !ok {
		return storage.ErrNotFound
	}

	updated := cloneUser(*user)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	m.users[user.UID] = updated
	return nil
}

func (m *MemoryStorage) SavePlan(ctx context.Context, uid string, mealPlan, needs []byte, at time.Time) error {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[uid]
	if !ok {
		return storage.ErrNotFound
	}

	user.MealPlan = append([]byte(nil), mealPlan...)
	user.NutritionalNeeds = append([]byte(nil), needs...)
	stamp := at
	user.LastPlanUpdate = &stamp
	user.UpdatedAt = time.Now().UTC()
	m.users[uid] = user
	return nil
}

func (m *MemoryStorage) Close() error {
	return nil
}

func cloneUser(u storage.User) storage.User {
	u.Medications = append([]byte(nil), u.Medications...)
	u.MealPlan = append([]byte(nil), u.MealPlan...)
	u.NutritionalNeeds = append([]byte(nil), u.NutritionalNeeds...)
	if u.LastPlanUpdate != nil {
		stamp := *u.LastPlanUpdate
		u.LastPlanUpdate = &stamp
	}
	return u
}
