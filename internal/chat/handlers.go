package chat

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nvarma/eldercare-hub/internal/ai"
	"github.com/nvarma/eldercare-hub/internal/plan"
)

// Handler contains HTTP handlers for the chat surface.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleSendMessage handles POST /v1/chat/{uid}
func (h *Handler) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	resp, err := h.service.SendMessage(r.Context(), r.PathValue("uid"), req.Message)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyMessage):
			writeError(w, http.StatusBadRequest, "empty_message", "Message cannot be empty")
		case errors.Is(err, ErrUserNotFound):
			writeError(w, http.StatusNotFound, "not_found", "User not found")
		case errors.Is(err, ai.ErrCompletionFailed):
			writeError(w, http.StatusBadGateway, "completion_failed", "Assistant is unavailable")
		case errors.Is(err, plan.ErrMalformedOutput), errors.Is(err, plan.ErrSchemaViolation):
			writeError(w, http.StatusBadGateway, "bad_model_output", "Assistant returned an unusable answer")
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to process message")
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleHistory handles GET /v1/chat/{uid}
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	messages, err := h.service.History(r.Context(), r.PathValue("uid"))
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			writeError(w, http.StatusNotFound, "not_found", "User not found")
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to load history")
		}
		return
	}

	writeJSON(w, http.StatusOK, HistoryResponse{Messages: messages})
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
