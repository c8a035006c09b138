package users

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nvarma/eldercare-hub/internal/nutrition"
	"github.com/nvarma/eldercare-hub/internal/planner"
)

// Handler contains HTTP handlers for user records.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleRegister handles POST /v1/users
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		writePlanError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// HandleGet handles GET /v1/users/{uid}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Get(r.Context(), r.PathValue("uid"))
	if err != nil {
		writePlanError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleUpdate handles PATCH /v1/users/{uid}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	user, err := h.service.Update(r.Context(), r.PathValue("uid"), req)
	if err != nil {
		writePlanError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleReplaceMedications handles PUT /v1/users/{uid}/medications
func (h *Handler) HandleReplaceMedications(w http.ResponseWriter, r *http.Request) {
	var req MedicationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	user, err := h.service.ReplaceMedications(r.Context(), r.PathValue("uid"), req.Medications)
	if err != nil {
		writePlanError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleRegeneratePlan handles POST /v1/users/{uid}/meal-plan
func (h *Handler) HandleRegeneratePlan(w http.ResponseWriter, r *http.Request) {
	var change planner.ChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&change); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	user, err := h.service.RegeneratePlan(r.Context(), r.PathValue("uid"), change)
	if err != nil {
		writePlanError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// writePlanError maps service and planner errors onto the standard error
// response.
func writePlanError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "User not found")
	case errors.Is(err, ErrDuplicate):
		writeError(w, http.StatusConflict, "already_exists", "User with this uid or email already exists")
	case errors.Is(err, ErrValidation),
		errors.Is(err, nutrition.ErrInvalidProfile),
		errors.Is(err, planner.ErrInvalidMedication):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, planner.ErrGenerationFailed):
		writeError(w, http.StatusBadGateway, "generation_failed", "Meal plan generation failed")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "Internal error")
	}
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
