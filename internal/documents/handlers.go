package documents

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/nvarma/eldercare-hub/internal/ai"
	"github.com/nvarma/eldercare-hub/internal/extract"
)

// Handler contains HTTP handlers for document upload and retrieval.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleUpload handles POST /v1/documents/{uid} (multipart upload, field
// "file").
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	// Parse multipart form (max 32 MB in memory)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Failed to parse multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing_file", "file field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Failed to read file")
		return
	}

	contentType := header.Header.Get("Content-Type")

	doc, err := h.service.Upload(r.Context(), r.PathValue("uid"), header.Filename, contentType, data)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			writeError(w, http.StatusNotFound, "not_found", "User not found")
		case errors.Is(err, ErrFileTooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, "file_too_large", err.Error())
		case errors.Is(err, ErrUnsupportedMime), errors.Is(err, extract.ErrUnsupported):
			writeError(w, http.StatusUnsupportedMediaType, "unsupported_type", err.Error())
		case errors.Is(err, ErrEmptyDocument):
			writeError(w, http.StatusBadRequest, "empty_document", "Document has no extractable text")
		case errors.Is(err, ai.ErrCompletionFailed):
			writeError(w, http.StatusBadGateway, "completion_failed", "Document analysis is unavailable")
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to process document")
		}
		return
	}

	writeJSON(w, http.StatusCreated, doc)
}

// HandleGet handles GET /v1/documents/{uid}/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid document ID")
		return
	}

	doc, err := h.service.Get(r.Context(), r.PathValue("uid"), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrDocumentNotFound):
			writeError(w, http.StatusNotFound, "not_found", "Document not found")
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to load document")
		}
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

// HandleList handles GET /v1/documents/{uid}
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	docs, err := h.service.List(r.Context(), r.PathValue("uid"))
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			writeError(w, http.StatusNotFound, "not_found", "User not found")
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to list documents")
		}
		return
	}

	writeJSON(w, http.StatusOK, DocumentsResponse{Documents: docs})
}

type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: errorDetail{Code: code, Message: message}})
}
