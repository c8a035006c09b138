package users

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nvarma/eldercare-hub/internal/ai"
	"github.com/nvarma/eldercare-hub/internal/nutrition"
	"github.com/nvarma/eldercare-hub/internal/planner"
	"github.com/nvarma/eldercare-hub/internal/storage/memory"
)

func newTestHandler() (*Handler, *Service) {
	st := memory.New()
	service := NewService(st, planner.NewService(ai.NewMockClient()))
	return NewHandler(service), service
}

func validRegisterRequest() RegisterRequest {
	return RegisterRequest{
		UID:           "user1",
		Email:         "margaret@example.com",
		Name:          "Margaret",
		Age:           72,
		Weight:        65,
		Height:        160,
		Gender:        "female",
		Goal:          "maintenance",
		ActivityLevel: "light",
		Medications: []nutrition.Medication{
			{Name: "Metformin", Timing: "morning", Dosage: "500mg", WithFood: true},
		},
	}
}

func register(t *testing.T, handler *Handler, reqBody RegisterRequest) UserDTO {
	t.Helper()

	body, _ := json.Marshal(reqBody)
	req := httptest.NewRequest(http.MethodPost, "/v1/users", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.HandleRegister(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var user UserDTO
	if err := json.NewDecoder(w.Body).Decode(&user); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return user
}

func TestHandleRegister_GeneratesPlanAndNeeds(t *testing.T) {
	handler, _ := newTestHandler()

	user := register(t, handler, validRegisterRequest())

	if user.UID != "user1" {
		t.Errorf("expected uid user1, got %q", user.UID)
	}
	if len(user.MealPlan) == 0 {
		t.Fatal("expected a meal plan on the registered user")
	}
	if len(user.NutritionalNeeds) == 0 {
		t.Fatal("expected nutritional needs on the registered user")
	}
	if user.LastPlanUpdate == nil {
		t.Error("expected lastPlanUpdate to be stamped")
	}

	var needs nutrition.Needs
	if err := json.Unmarshal(user.NutritionalNeeds, &needs); err != nil {
		t.Fatalf("needs are not valid JSON: %v", err)
	}
	if needs.TargetCalories <= 0 {
		t.Errorf("expected positive target calories, got %d", needs.TargetCalories)
	}
}

func TestHandleRegister_MissingFields(t *testing.T) {
	handler, _ := newTestHandler()

	reqBody := validRegisterRequest()
	reqBody.Email = ""
	reqBody.Age = 0

	body, _ := json.Marshal(reqBody)
	req := httptest.NewRequest(http.MethodPost, "/v1/users", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.HandleRegister(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}

	var resp errorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error: %v", err)
	}
	if resp.Error.Code != "invalid_request" {
		t.Errorf("expected code invalid_request, got %q", resp.Error.Code)
	}
}

func TestHandleRegister_Duplicate(t *testing.T) {
	handler, _ := newTestHandler()

	register(t, handler, validRegisterRequest())

	body, _ := json.Marshal(validRegisterRequest())
	req := httptest.NewRequest(http.MethodPost, "/v1/users", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.HandleRegister(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", w.Code)
	}
}

func TestHandleRegister_BadMedicationSkipsStorage(t *testing.T) {
	handler, service := newTestHandler()

	reqBody := validRegisterRequest()
	reqBody.Medications = append(reqBody.Medications, nutrition.Medication{Name: "Aspirin"})

	body, _ := json.Marshal(reqBody)
	req := httptest.NewRequest(http.MethodPost, "/v1/users", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.HandleRegister(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}

	if _, err := service.Get(req.Context(), "user1"); err == nil {
		t.Error("expected no record for a rejected registration")
	}
}

func TestHandleGet_NotFound(t *testing.T) {
	handler, _ := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/v1/users/ghost", nil)
	req.SetPathValue("uid", "ghost")
	w := httptest.NewRecorder()
	handler.HandleGet(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}

func TestHandleUpdate_RecomputesNeedsOnWeightChange(t *testing.T) {
	handler, _ := newTestHandler()

	created := register(t, handler, validRegisterRequest())

	var before nutrition.Needs
	if err := json.Unmarshal(created.NutritionalNeeds, &before); err != nil {
		t.Fatalf("decode needs: %v", err)
	}

	newWeight := 80.0
	body, _ := json.Marshal(UpdateRequest{Weight: &newWeight})
	req := httptest.NewRequest(http.MethodPatch, "/v1/users/user1", bytes.NewReader(body))
	req.SetPathValue("uid", "user1")
	w := httptest.NewRecorder()
	handler.HandleUpdate(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var updated UserDTO
	if err := json.NewDecoder(w.Body).Decode(&updated); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if updated.Weight != 80 {
		t.Errorf("expected weight 80, got %v", updated.Weight)
	}

	var after nutrition.Needs
	if err := json.Unmarshal(updated.NutritionalNeeds, &after); err != nil {
		t.Fatalf("decode needs: %v", err)
	}
	if after.BMR <= before.BMR {
		t.Errorf("expected BMR to increase with weight: before=%d after=%d", before.BMR, after.BMR)
	}
	// Heavier profile, higher protein floor.
	if after.MacroTargets.Protein <= before.MacroTargets.Protein {
		t.Errorf("expected protein target to increase: before=%d after=%d",
			before.MacroTargets.Protein, after.MacroTargets.Protein)
	}
}

func TestHandleUpdate_ContactFieldKeepsNeeds(t *testing.T) {
	handler, _ := newTestHandler()

	created := register(t, handler, validRegisterRequest())

	phone := "+1-555-0100"
	body, _ := json.Marshal(UpdateRequest{PhoneNo: &phone})
	req := httptest.NewRequest(http.MethodPatch, "/v1/users/user1", bytes.NewReader(body))
	req.SetPathValue("uid", "user1")
	w := httptest.NewRecorder()
	handler.HandleUpdate(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var updated UserDTO
	if err := json.NewDecoder(w.Body).Decode(&updated); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if updated.PhoneNo != phone {
		t.Errorf("expected phone %q, got %q", phone, updated.PhoneNo)
	}
	if !bytes.Equal(updated.NutritionalNeeds, created.NutritionalNeeds) {
		t.Error("expected needs untouched by a contact-only update")
	}
}

func TestHandleReplaceMedications_RegeneratesPlan(t *testing.T) {
	handler, _ := newTestHandler()

	created := register(t, handler, validRegisterRequest())

	meds := MedicationsRequest{
		Medications: []nutrition.Medication{
			{Name: "Lisinopril", Timing: "evening", Dosage: "10mg", WithFood: false},
		},
	}
	body, _ := json.Marshal(meds)
	req := httptest.NewRequest(http.MethodPut, "/v1/users/user1/medications", bytes.NewReader(body))
	req.SetPathValue("uid", "user1")
	w := httptest.NewRecorder()
	handler.HandleReplaceMedications(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var updated UserDTO
	if err := json.NewDecoder(w.Body).Decode(&updated); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	var stored []nutrition.Medication
	if err := json.Unmarshal(updated.Medications, &stored); err != nil {
		t.Fatalf("decode medications: %v", err)
	}
	if len(stored) != 1 || stored[0].Name != "Lisinopril" {
		t.Errorf("expected the replacement batch, got %+v", stored)
	}
	if updated.LastPlanUpdate == nil || created.LastPlanUpdate == nil {
		t.Fatal("expected lastPlanUpdate stamps")
	}
	if updated.LastPlanUpdate.Before(*created.LastPlanUpdate) {
		t.Error("expected lastPlanUpdate to move forward on regeneration")
	}
}

func TestHandleReplaceMedications_BadBatchLeavesRecord(t *testing.T) {
	handler, _ := newTestHandler()

	created := register(t, handler, validRegisterRequest())

	meds := MedicationsRequest{
		Medications: []nutrition.Medication{
			{Name: "Lisinopril", Timing: "evening"}, // no dosage
		},
	}
	body, _ := json.Marshal(meds)
	req := httptest.NewRequest(http.MethodPut, "/v1/users/user1/medications", bytes.NewReader(body))
	req.SetPathValue("uid", "user1")
	w := httptest.NewRecorder()
	handler.HandleReplaceMedications(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}

	getReq := httptest.NewRequest(http.MethodGet, "/v1/users/user1", nil)
	getReq.SetPathValue("uid", "user1")
	getW := httptest.NewRecorder()
	handler.HandleGet(getW, getReq)

	var current UserDTO
	if err := json.NewDecoder(getW.Body).Decode(&current); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !bytes.Equal(current.Medications, created.Medications) {
		t.Error("expected stored medications untouched after a rejected batch")
	}
}

func TestHandleRegeneratePlan_AppliesOverrides(t *testing.T) {
	handler, _ := newTestHandler()

	register(t, handler, validRegisterRequest())

	goal := "gain"
	body, _ := json.Marshal(planner.ChangeRequest{Goal: &goal})
	req := httptest.NewRequest(http.MethodPost, "/v1/users/user1/meal-plan", bytes.NewReader(body))
	req.SetPathValue("uid", "user1")
	w := httptest.NewRecorder()
	handler.HandleRegeneratePlan(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var updated UserDTO
	if err := json.NewDecoder(w.Body).Decode(&updated); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	var needs nutrition.Needs
	if err := json.Unmarshal(updated.NutritionalNeeds, &needs); err != nil {
		t.Fatalf("decode needs: %v", err)
	}
	if needs.TargetCalories <= needs.TDEE {
		t.Errorf("expected gain target above TDEE, got target=%d tdee=%d",
			needs.TargetCalories, needs.TDEE)
	}
}
