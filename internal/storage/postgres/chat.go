package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nvarma/eldercare-hub/internal/storage"
)

func (p *PostgresStorage) InsertMessage(ctx context.Context, uid, role, content string) (storage.ChatMessage, error) {
	msg := storage.ChatMessage{
		ID:        uuid.New(),
		UID:       uid,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	query := `
		INSERT INTO chat_messages (id, uid, role, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	if _, err := p.pool.Exec(ctx, query, msg.ID, msg.UID, msg.Role, msg.Content, msg.CreatedAt); err != nil {
		return storage.ChatMessage{}, err
	}
	return msg, nil
}

func (p *PostgresStorage) ListMessages(ctx context.Context, uid string, limit int) ([]storage.ChatMessage, error) {
	// Grab the most recent window, then flip it back to chronological order.
	query := `
		SELECT id, uid, role, content, created_at
		FROM chat_messages
		WHERE uid = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := p.pool.Query(ctx, query, uid, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []storage.ChatMessage
	for rows.Next() {
		var msg storage.ChatMessage
		if err := rows.Scan(&msg.ID, &msg.UID, &msg.Role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
