package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nvarma/eldercare-hub/internal/storage"
	"github.com/nvarma/eldercare-hub/internal/storage/memory"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	st := memory.New()
	now := time.Now().UTC()
	user := &storage.User{
		UID:         "user1",
		Email:       "margaret@example.com",
		Name:        "Margaret",
		Age:         72,
		WeightKg:    65,
		HeightCm:    160,
		Gender:      "female",
		Medications: []byte("[]"),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := st.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	return NewHandler(NewService(st), NewGenerator(st))
}

func validReport() SubmitReportRequest {
	return SubmitReportRequest{
		ReportDate:       "2026-08-23",
		OverallFeeling:   4,
		EnergyLevels:     3,
		SleepQuality:     4,
		StressLevels:     2,
		DietAdherence:    5,
		PhysicalActivity: 3,
		DigestiveHealth:  4,
		Challenges:       "Low appetite on two days",
		Improvements:     "Walked every morning",
		Notes:            "Feeling steadier than last week",
	}
}

func submit(t *testing.T, handler *Handler, uid string, report SubmitReportRequest) *httptest.ResponseRecorder {
	t.Helper()

	body, _ := json.Marshal(report)
	req := httptest.NewRequest(http.MethodPost, "/v1/reports/"+uid, bytes.NewReader(body))
	req.SetPathValue("uid", uid)
	w := httptest.NewRecorder()
	handler.HandleSubmit(w, req)
	return w
}

func TestHandleSubmit_Success(t *testing.T) {
	handler := newTestHandler(t)

	w := submit(t, handler, "user1", validReport())

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var report ReportDTO
	if err := json.NewDecoder(w.Body).Decode(&report); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if report.OverallFeeling != 4 {
		t.Errorf("expected overallFeeling 4, got %d", report.OverallFeeling)
	}
	if report.ReportDate.Format("2006-01-02") != "2026-08-23" {
		t.Errorf("expected the supplied date, got %s", report.ReportDate)
	}
}

func TestHandleSubmit_ScoreOutOfRange(t *testing.T) {
	handler := newTestHandler(t)

	report := validReport()
	report.SleepQuality = 6

	w := submit(t, handler, "user1", report)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}

	var resp errorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if resp.Error.Code != "invalid_report" {
		t.Errorf("expected invalid_report, got %q", resp.Error.Code)
	}
}

func TestHandleSubmit_BadDate(t *testing.T) {
	handler := newTestHandler(t)

	report := validReport()
	report.ReportDate = "23-08-2026"

	w := submit(t, handler, "user1", report)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestHandleSubmit_UnknownUser(t *testing.T) {
	handler := newTestHandler(t)

	w := submit(t, handler, "ghost", validReport())

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}

func TestHandleList_ChronologicalOrder(t *testing.T) {
	handler := newTestHandler(t)

	first := validReport()
	first.ReportDate = "2026-08-16"
	second := validReport()
	second.ReportDate = "2026-08-23"

	submit(t, handler, "user1", second)
	submit(t, handler, "user1", first)

	req := httptest.NewRequest(http.MethodGet, "/v1/reports/user1", nil)
	req.SetPathValue("uid", "user1")
	w := httptest.NewRecorder()
	handler.HandleList(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp ReportsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(resp.Reports))
	}
	if !resp.Reports[0].ReportDate.Before(resp.Reports[1].ReportDate) {
		t.Error("expected oldest report first")
	}
}

func TestHandleCareSummary_ReturnsPDF(t *testing.T) {
	handler := newTestHandler(t)

	submit(t, handler, "user1", validReport())

	req := httptest.NewRequest(http.MethodGet, "/v1/reports/user1/summary.pdf", nil)
	req.SetPathValue("uid", "user1")
	w := httptest.NewRecorder()
	handler.HandleCareSummary(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Content-Type"); got != "application/pdf" {
		t.Errorf("expected application/pdf, got %q", got)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")) {
		t.Error("expected a PDF payload")
	}
}

func TestHandleCareSummary_UnknownUser(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/reports/ghost/summary.pdf", nil)
	req.SetPathValue("uid", "ghost")
	w := httptest.NewRecorder()
	handler.HandleCareSummary(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}
