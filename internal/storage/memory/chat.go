package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nvarma/eldercare-hub/internal/storage"
)

func (m *MemoryStorage) InsertMessage(ctx context.Context, uid, role, content string) (storage.ChatMessage, error) {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()

	msg := storage.ChatMessage{
		ID:        uuid.New(),
		UID:       uid,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	m.messages[uid] = append(m.messages[uid], msg)
	return msg, nil
}

func (m *MemoryStorage) ListMessages(ctx context.Context, uid string, limit int) ([]storage.ChatMessage, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.messages[uid]
	if limit > 0 && len(all) > limit {
		all = all[len(all)-limit:]
	}

	out := make([]storage.ChatMessage, len(all))
	copy(out, all)
	return out, nil
}
