package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nvarma/eldercare-hub/internal/ai"
	"github.com/nvarma/eldercare-hub/internal/storage"
	"github.com/nvarma/eldercare-hub/internal/storage/memory"
)

func newTestHandler(t *testing.T) (*Handler, *memory.MemoryStorage) {
	t.Helper()

	st := memory.New()
	now := time.Now().UTC()
	user := &storage.User{
		UID:           "user1",
		Email:         "margaret@example.com",
		Name:          "Margaret",
		Age:           72,
		WeightKg:      65,
		HeightCm:      160,
		Gender:        "female",
		ActivityLevel: "light",
		Medications:   []byte("[]"),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := st.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	service := NewService(st, ai.NewMockClient(), 20)
	return NewHandler(service), st
}

func sendMessage(t *testing.T, handler *Handler, uid, message string) *httptest.ResponseRecorder {
	t.Helper()

	body, _ := json.Marshal(SendMessageRequest{Message: message})
	req := httptest.NewRequest(http.MethodPost, "/v1/chat/"+uid, bytes.NewReader(body))
	req.SetPathValue("uid", uid)
	w := httptest.NewRecorder()
	handler.HandleSendMessage(w, req)
	return w
}

func TestHandleSendMessage_GeneralChat(t *testing.T) {
	handler, st := newTestHandler(t)

	w := sendMessage(t, handler, "user1", "how am I doing?")

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp SendMessageResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Intent != IntentGeneralChat {
		t.Errorf("expected general chat intent, got %q", resp.Intent)
	}
	if resp.Response == "" {
		t.Error("expected a non-empty reply")
	}
	if resp.Modifications != nil {
		t.Error("general chat must not carry modifications")
	}

	messages, err := st.ListMessages(context.Background(), "user1", 10)
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected both turns stored, got %d", len(messages))
	}
	if messages[0].Role != "user" || messages[1].Role != "assistant" {
		t.Errorf("expected user then assistant, got %q then %q", messages[0].Role, messages[1].Role)
	}
}

func TestHandleSendMessage_MealModification(t *testing.T) {
	handler, _ := newTestHandler(t)

	w := sendMessage(t, handler, "user1", "please modify meal plan for Tuesday")

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp SendMessageResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Intent != IntentMealModification {
		t.Fatalf("expected meal modification intent, got %q", resp.Intent)
	}
	if resp.Modifications == nil {
		t.Fatal("expected a parsed modification result")
	}
	if len(resp.Modifications.Modifications.Changes) == 0 {
		t.Error("expected at least one change record")
	}
}

func TestHandleSendMessage_DocumentAnalysis(t *testing.T) {
	handler, _ := newTestHandler(t)

	w := sendMessage(t, handler, "user1", "Analyze this medical document: blood test results")

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp SendMessageResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Intent != IntentDocumentAnalysis {
		t.Fatalf("expected document analysis intent, got %q", resp.Intent)
	}
	if !strings.Contains(resp.Response, "Key health indicators") {
		t.Errorf("expected a structured analysis, got %q", resp.Response)
	}
}

func TestHandleSendMessage_EmptyMessage(t *testing.T) {
	handler, st := newTestHandler(t)

	w := sendMessage(t, handler, "user1", "   ")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}

	messages, err := st.ListMessages(context.Background(), "user1", 10)
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if len(messages) != 0 {
		t.Errorf("rejected message must not be stored, got %d", len(messages))
	}
}

func TestHandleSendMessage_UnknownUser(t *testing.T) {
	handler, _ := newTestHandler(t)

	w := sendMessage(t, handler, "ghost", "hello")

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}

func TestHandleHistory_ChronologicalWindow(t *testing.T) {
	handler, _ := newTestHandler(t)

	sendMessage(t, handler, "user1", "how am I doing?")
	sendMessage(t, handler, "user1", "what should I eat tonight?")

	req := httptest.NewRequest(http.MethodGet, "/v1/chat/user1", nil)
	req.SetPathValue("uid", "user1")
	w := httptest.NewRecorder()
	handler.HandleHistory(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp HistoryResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Messages) != 4 {
		t.Fatalf("expected 4 stored turns, got %d", len(resp.Messages))
	}
	if resp.Messages[0].Content != "how am I doing?" {
		t.Errorf("expected oldest message first, got %q", resp.Messages[0].Content)
	}
	for i := 1; i < len(resp.Messages); i++ {
		if resp.Messages[i].CreatedAt.Before(resp.Messages[i-1].CreatedAt) {
			t.Fatal("expected chronological order")
		}
	}
}

func TestHandleHistory_UnknownUser(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/chat/ghost", nil)
	req.SetPathValue("uid", "ghost")
	w := httptest.NewRecorder()
	handler.HandleHistory(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}
