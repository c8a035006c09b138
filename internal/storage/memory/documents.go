package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nvarma/eldercare-hub/internal/storage"
)

func (m *MemoryStorage) CreateDocument(ctx context.Context, doc *storage.Document) error {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()

	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	m.documents[doc.UID] = append(m.documents[doc.UID], *doc)
	return nil
}

func (m *MemoryStorage) GetDocument(ctx context.Context, id uuid.UUID) (*storage.Document, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, docs := range m.documents {
		for _, doc := range docs {
			if doc.ID == id {
				clone := doc
				return &clone, nil
			}
		}
	}
	return nil, storage.ErrNotFound
}

func (m *MemoryStorage) ListDocuments(ctx context.Context, uid string, limit int) ([]storage.Document, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.documents[uid]

	// Newest first.
	out := make([]storage.Document, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		out = append(out, all[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
