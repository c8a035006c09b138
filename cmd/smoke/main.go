package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

const (
	defaultAPIBase = "http://localhost:8080"
)

var (
	apiBase    string
	uid        string
	client     = &http.Client{Timeout: 60 * time.Second}
	createdIDs = make(map[string]string) // track created resources for later steps
)

func main() {
	fmt.Println("=== Eldercare Hub E2E Smoke Test ===")
	fmt.Println()

	apiBase = getEnv("API_BASE_URL", defaultAPIBase)
	uid = getEnv("SMOKE_UID", fmt.Sprintf("smoke-%d", time.Now().Unix()))

	fmt.Printf("API Base: %s\n", apiBase)
	fmt.Printf("UID: %s\n", uid)
	fmt.Println()

	steps := []struct {
		name string
		fn   func() error
	}{
		{"Healthz", testHealthz},
		{"Register User", testRegisterUser},
		{"Get User", testGetUser},
		{"Update Weight", testUpdateWeight},
		{"Replace Medications", testReplaceMedications},
		{"Regenerate Plan", testRegeneratePlan},
		{"Chat (General)", testChatGeneral},
		{"Chat (Meal Modification)", testChatModification},
		{"Chat History", testChatHistory},
		{"Submit Weekly Report", testSubmitReport},
		{"List Reports", testListReports},
		{"Download Care Summary", testDownloadCareSummary},
		{"Upload Document", testUploadDocument},
		{"List Documents", testListDocuments},
		{"Get Document", testGetDocument},
	}

	failed := false
	for i, step := range steps {
		fmt.Printf("[%d/%d] %s... ", i+1, len(steps), step.name)
		if err := step.fn(); err != nil {
			fmt.Printf("❌ FAILED\n")
			fmt.Printf("  Error: %v\n\n", err)
			failed = true
			break
		}
		fmt.Printf("✅ OK\n")
	}

	fmt.Println()
	if failed {
		fmt.Println("❌ SMOKE TEST FAILED")
		os.Exit(1)
	}

	fmt.Println("✅ ALL SMOKE TESTS PASSED")
}

func testHealthz() error {
	resp, err := client.Get(apiBase + "/healthz")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	return nil
}

func testRegisterUser() error {
	payload := map[string]interface{}{
		"uid":           uid,
		"phoneNo":       "+15550100",
		"email":         fmt.Sprintf("%s@example.com", uid),
		"name":          "Margaret",
		"age":           72,
		"weight":        65,
		"height":        160,
		"gender":        "female",
		"goal":          "maintenance",
		"activityLevel": "light",
		"healthIssues":  "hypertension",
		"medications": []map[string]interface{}{
			{"name": "Metformin", "dosage": "500mg", "timing": "with breakfast and dinner", "withFood": true},
		},
	}

	resp, err := postJSON(apiBase+"/v1/users", payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return statusError(resp)
	}
	return nil
}

func testGetUser() error {
	resp, err := client.Get(apiBase + "/v1/users/" + uid)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}

	var user struct {
		UID              string          `json:"uid"`
		MealPlan         json.RawMessage `json:"mealPlan"`
		NutritionalNeeds json.RawMessage `json:"nutritionalNeeds"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	if len(user.MealPlan) == 0 {
		return fmt.Errorf("registered user has no meal plan")
	}
	if len(user.NutritionalNeeds) == 0 {
		return fmt.Errorf("registered user has no nutritional needs")
	}
	return nil
}

func testUpdateWeight() error {
	payload := map[string]interface{}{"weight": 68}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("PATCH", apiBase+"/v1/users/"+uid, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	return nil
}

func testReplaceMedications() error {
	payload := map[string]interface{}{
		"medications": []map[string]interface{}{
			{"name": "Lisinopril", "dosage": "10mg", "timing": "morning", "withFood": false},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("PUT", apiBase+"/v1/users/"+uid+"/medications", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	return nil
}

func testRegeneratePlan() error {
	payload := map[string]interface{}{"goal": "gain"}

	resp, err := postJSON(apiBase+"/v1/users/"+uid+"/meal-plan", payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	return nil
}

func testChatGeneral() error {
	resp, err := postJSON(apiBase+"/v1/chat/"+uid, map[string]interface{}{
		"message": "How am I doing with my health this week?",
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}

	var result struct {
		Intent   string `json:"intent"`
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	if result.Intent != "general_chat" {
		return fmt.Errorf("expected intent=general_chat, got %s", result.Intent)
	}
	if strings.TrimSpace(result.Response) == "" {
		return fmt.Errorf("empty assistant response")
	}
	return nil
}

func testChatModification() error {
	resp, err := postJSON(apiBase+"/v1/chat/"+uid, map[string]interface{}{
		"message": "Please change meal for Monday lunch, I want something lighter",
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}

	var result struct {
		Intent        string          `json:"intent"`
		Modifications json.RawMessage `json:"modifications"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	if result.Intent != "meal_modification" {
		return fmt.Errorf("expected intent=meal_modification, got %s", result.Intent)
	}
	if len(result.Modifications) == 0 {
		return fmt.Errorf("no parsed modifications in response")
	}
	return nil
}

func testChatHistory() error {
	resp, err := client.Get(apiBase + "/v1/chat/" + uid)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}

	var result struct {
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	// Two chat steps ran before this, each storing a user and an assistant turn.
	if len(result.Messages) < 4 {
		return fmt.Errorf("expected at least 4 stored messages, got %d", len(result.Messages))
	}
	return nil
}

func testSubmitReport() error {
	payload := map[string]interface{}{
		"reportDate":       time.Now().Format("2006-01-02"),
		"overallFeeling":   4,
		"energyLevels":     3,
		"sleepQuality":     4,
		"stressLevels":     2,
		"dietAdherence":    5,
		"physicalActivity": 3,
		"digestiveHealth":  4,
		"challenges":       "Some evening fatigue",
		"improvements":     "Walking daily",
	}

	resp, err := postJSON(apiBase+"/v1/reports/"+uid, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return statusError(resp)
	}
	return nil
}

func testListReports() error {
	resp, err := client.Get(apiBase + "/v1/reports/" + uid)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}

	var result struct {
		Reports []struct {
			ID string `json:"id"`
		} `json:"reports"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	if len(result.Reports) == 0 {
		return fmt.Errorf("no reports found")
	}
	return nil
}

func testDownloadCareSummary() error {
	resp, err := client.Get(apiBase + "/v1/reports/" + uid + "/summary.pdf")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read body: %w", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		return fmt.Errorf("response is not a PDF (%d bytes)", len(data))
	}
	return nil
}

func testUploadDocument() error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", "lab-results.txt")
	if err != nil {
		return err
	}
	if _, err := part.Write([]byte("Blood glucose: 105 mg/dL. Blood pressure: 128/82. Cholesterol: 190 mg/dL.")); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	req, err := http.NewRequest("POST", apiBase+"/v1/documents/"+uid, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return statusError(resp)
	}

	var doc struct {
		ID       string `json:"id"`
		Analysis string `json:"analysis"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	if doc.ID == "" {
		return fmt.Errorf("no document id in response")
	}
	if strings.TrimSpace(doc.Analysis) == "" {
		return fmt.Errorf("document has no analysis")
	}
	createdIDs["document"] = doc.ID
	return nil
}

func testListDocuments() error {
	resp, err := client.Get(apiBase + "/v1/documents/" + uid)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}

	var result struct {
		Documents []struct {
			ID string `json:"id"`
		} `json:"documents"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	if len(result.Documents) == 0 {
		return fmt.Errorf("no documents found")
	}
	return nil
}

func testGetDocument() error {
	docID := createdIDs["document"]
	if docID == "" {
		return fmt.Errorf("no document ID from upload step")
	}

	resp, err := client.Get(apiBase + "/v1/documents/" + uid + "/" + docID)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}

	var doc struct {
		ID            string `json:"id"`
		ExtractedText string `json:"extractedText"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	if doc.ID != docID {
		return fmt.Errorf("expected id=%s, got %s", docID, doc.ID)
	}
	return nil
}

// Helper functions

func postJSON(url string, payload interface{}) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest("POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return client.Do(req)
}

func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
