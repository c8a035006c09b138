package reports

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Handler contains HTTP handlers for weekly reports.
type Handler struct {
	service   *Service
	generator *Generator
}

func NewHandler(service *Service, generator *Generator) *Handler {
	return &Handler{service: service, generator: generator}
}

// HandleSubmit handles POST /v1/reports/{uid}
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var req SubmitReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	report, err := h.service.Submit(r.Context(), r.PathValue("uid"), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidReport):
			writeError(w, http.StatusBadRequest, "invalid_report", err.Error())
		case errors.Is(err, ErrUserNotFound):
			writeError(w, http.StatusNotFound, "not_found", "User not found")
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to store report")
		}
		return
	}

	writeJSON(w, http.StatusCreated, report)
}

// HandleList handles GET /v1/reports/{uid}
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	reports, err := h.service.List(r.Context(), r.PathValue("uid"))
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			writeError(w, http.StatusNotFound, "not_found", "User not found")
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to list reports")
		}
		return
	}

	writeJSON(w, http.StatusOK, ReportsResponse{Reports: reports})
}

// HandleCareSummary handles GET /v1/reports/{uid}/summary.pdf
func (h *Handler) HandleCareSummary(w http.ResponseWriter, r *http.Request) {
	data, err := h.generator.GenerateCareSummary(r.Context(), r.PathValue("uid"))
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			writeError(w, http.StatusNotFound, "not_found", "User not found")
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to generate summary")
		}
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="care-summary.pdf"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
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
