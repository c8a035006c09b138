package documents

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nvarma/eldercare-hub/internal/ai"
	"github.com/nvarma/eldercare-hub/internal/blob"
	"github.com/nvarma/eldercare-hub/internal/extract"
	"github.com/nvarma/eldercare-hub/internal/prompts"
	"github.com/nvarma/eldercare-hub/internal/storage"
	"github.com/nvarma/eldercare-hub/internal/users"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrDocumentNotFound = errors.New("document not found")
	ErrFileTooLarge     = errors.New("file too large")
	ErrUnsupportedMime  = errors.New("unsupported mime type")
	ErrEmptyDocument    = errors.New("document has no extractable text")
)

// listLimit caps how many documents a single list call returns.
const listLimit = 50

// Store is the persistence surface the documents service needs.
type Store interface {
	storage.UsersStorage
	storage.DocumentsStorage
}

// Service handles uploaded medical documents: store the original (when blob
// storage is on), extract text, run the analysis completion, persist both.
type Service struct {
	storage      Store
	blobStore    blob.Store // nil when blob mode is off
	extractor    extract.Extractor
	client       ai.Client
	maxUploadMB  int
	allowedMimes []string
	presignTTL   int
	now          func() time.Time
}

func NewService(st Store, blobStore blob.Store, extractor extract.Extractor, client ai.Client, maxUploadMB int, allowedMimes string, presignTTL int) *Service {
	mimes := strings.Split(allowedMimes, ",")
	for i, m := range mimes {
		mimes[i] = strings.TrimSpace(m)
	}

	return &Service{
		storage:      st,
		blobStore:    blobStore,
		extractor:    extractor,
		client:       client,
		maxUploadMB:  maxUploadMB,
		allowedMimes: mimes,
		presignTTL:   presignTTL,
		now:          time.Now,
	}
}

// Upload runs the whole document pipeline for one file. The blob write (if
// any) happens before the metadata insert; a failed insert rolls the object
// back so storage and the bucket stay consistent.
func (s *Service) Upload(ctx context.Context, uid, filename, contentType string, data []byte) (*DocumentDTO, error) {
	user, err := s.storage.GetUser(ctx, uid)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	maxBytes := int64(s.maxUploadMB) * 1024 * 1024
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: limit is %d MB", ErrFileTooLarge, s.maxUploadMB)
	}
	if !s.isAllowedMime(contentType) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMime, contentType)
	}

	text, err := s.extractor.Extract(data, contentType)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, ErrEmptyDocument
	}

	analysis, err := s.analyze(ctx, user, text)
	if err != nil {
		return nil, err
	}

	doc := &storage.Document{
		ID:            uuid.New(),
		UID:           uid,
		Filename:      filename,
		ContentType:   contentType,
		SizeBytes:     int64(len(data)),
		ExtractedText: text,
		Analysis:      analysis,
		CreatedAt:     s.now().UTC(),
	}

	if s.blobStore != nil {
		objectKey := fmt.Sprintf("documents/%s/%s", uid, doc.ID)
		if _, err := s.blobStore.PutObject(ctx, objectKey, data, contentType); err != nil {
			return nil, fmt.Errorf("store original: %w", err)
		}
		doc.ObjectKey = &objectKey
	}

	if err := s.storage.CreateDocument(ctx, doc); err != nil {
		if doc.ObjectKey != nil {
			_ = s.blobStore.DeleteObject(ctx, *doc.ObjectKey)
		}
		return nil, err
	}

	dto := toDTO(doc)
	return &dto, nil
}

// Get returns one document with a presigned download link when the original
// is in the bucket.
func (s *Service) Get(ctx context.Context, uid string, id uuid.UUID) (*DocumentDTO, error) {
	doc, err := s.storage.GetDocument(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	if doc.UID != uid {
		return nil, ErrDocumentNotFound
	}

	dto := toDTO(doc)
	if doc.ObjectKey != nil && s.blobStore != nil {
		url, err := s.blobStore.PresignGet(ctx, *doc.ObjectKey, s.presignTTL)
		if err != nil {
			return nil, fmt.Errorf("presign download: %w", err)
		}
		dto.DownloadURL = url
	}
	return &dto, nil
}

// List returns the user's documents, newest first, without extracted text to
// keep the payload small.
func (s *Service) List(ctx context.Context, uid string) ([]DocumentDTO, error) {
	if _, err := s.storage.GetUser(ctx, uid); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	docs, err := s.storage.ListDocuments(ctx, uid, listLimit)
	if err != nil {
		return nil, err
	}

	dtos := make([]DocumentDTO, 0, len(docs))
	for i := range docs {
		dto := toDTO(&docs[i])
		dto.ExtractedText = ""
		dtos = append(dtos, dto)
	}
	return dtos, nil
}

func (s *Service) analyze(ctx context.Context, user *storage.User, text string) (string, error) {
	profile, err := users.ProfileFromUser(user)
	if err != nil {
		return "", err
	}

	system := prompts.DocumentAnalysis(text, user.Name, &profile)

	return s.client.Complete(ctx, ai.CompletionRequest{
		Messages: []ai.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: prompts.DocumentAnalysisUserMessage},
		},
	})
}

func (s *Service) isAllowedMime(contentType string) bool {
	mime := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	for _, allowed := range s.allowedMimes {
		if mime == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}
