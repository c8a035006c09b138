package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/nvarma/eldercare-hub/internal/storage"
)

func (p *PostgresStorage) CreateDocument(ctx context.Context, doc *storage.Document) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO documents (
			id, uid, filename, content_type, object_key,
			size_bytes, extracted_text, analysis, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := p.pool.Exec(ctx, query,
		doc.ID, doc.UID, doc.Filename, doc.ContentType, doc.ObjectKey,
		doc.SizeBytes, doc.ExtractedText, doc.Analysis, doc.CreatedAt,
	)
	return err
}

func (p *PostgresStorage) GetDocument(ctx context.Context, id uuid.UUID) (*storage.Document, error) {
	query := `
		SELECT id, uid, filename, content_type, object_key,
		       size_bytes, extracted_text, analysis, created_at
		FROM documents
		WHERE id = $1
	`

	var doc storage.Document
	err := p.pool.QueryRow(ctx, query, id).Scan(
		&doc.ID, &doc.UID, &doc.Filename, &doc.ContentType, &doc.ObjectKey,
		&doc.SizeBytes, &doc.ExtractedText, &doc.Analysis, &doc.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (p *PostgresStorage) ListDocuments(ctx context.Context, uid string, limit int) ([]storage.Document, error) {
	query := `
		SELECT id, uid, filename, content_type, object_key,
		       size_bytes, extracted_text, analysis, created_at
		FROM documents
		WHERE uid = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := p.pool.Query(ctx, query, uid, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []storage.Document
	for rows.Next() {
		var doc storage.Document
		if err := rows.Scan(
			&doc.ID, &doc.UID, &doc.Filename, &doc.ContentType, &doc.ObjectKey,
			&doc.SizeBytes, &doc.ExtractedText, &doc.Analysis, &doc.CreatedAt,
		); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}
