package documents

import (
	"time"

	"github.com/google/uuid"
	"github.com/nvarma/eldercare-hub/internal/storage"
)

// DocumentDTO — API shape of an uploaded document. DownloadURL is a
// presigned link, present only when blob storage holds the original.
type DocumentDTO struct {
	ID            uuid.UUID `json:"id"`
	Filename      string    `json:"filename"`
	ContentType   string    `json:"contentType"`
	SizeBytes     int64     `json:"sizeBytes"`
	ExtractedText string    `json:"extractedText,omitempty"`
	Analysis      string    `json:"analysis"`
	DownloadURL   string    `json:"downloadUrl,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// DocumentsResponse — response for GET /v1/documents/{uid}
type DocumentsResponse struct {
	Documents []DocumentDTO `json:"documents"`
}

func toDTO(doc *storage.Document) DocumentDTO {
	return DocumentDTO{
		ID:            doc.ID,
		Filename:      doc.Filename,
		ContentType:   doc.ContentType,
		SizeBytes:     doc.SizeBytes,
		ExtractedText: doc.ExtractedText,
		Analysis:      doc.Analysis,
		CreatedAt:     doc.CreatedAt,
	}
}
