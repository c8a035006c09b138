package planner

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nvarma/eldercare-hub/internal/ai"
	"github.com/nvarma/eldercare-hub/internal/nutrition"
)

type fakeClient struct {
	response string
	err      error
	calls    int
	lastReq  ai.CompletionRequest
}

func (f *fakeClient) Complete(ctx context.Context, req ai.CompletionRequest) (string, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func testProfile() nutrition.Profile {
	return nutrition.Profile{
		Age:           65,
		WeightKg:      70,
		HeightCm:      170,
		Gender:        "male",
		ActivityLevel: "moderate",
		Goal:          "weight loss",
	}
}

func TestGenerateInitialPlan(t *testing.T) {
	client := &fakeClient{response: `Of course! {"week": [{"day": "Sunday", "meals": []}]} Let me know.`}
	svc := NewService(client)

	bundle, err := svc.GenerateInitialPlan(context.Background(), testProfile())
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if len(bundle.MealPlan.Week) != 1 || bundle.MealPlan.Week[0].Day != "Sunday" {
		t.Fatalf("unexpected plan: %+v", bundle.MealPlan)
	}
	if bundle.Needs.TargetCalories != 1901 {
		t.Fatalf("expected target 1901, got %d", bundle.Needs.TargetCalories)
	}
	if bundle.Needs.LastCalculated.IsZero() {
		t.Fatal("expected LastCalculated to be stamped")
	}
	if client.calls != 1 {
		t.Fatalf("expected exactly one completion call, got %d", client.calls)
	}
	if len(client.lastReq.Messages) != 1 || client.lastReq.Messages[0].Role != "user" {
		t.Fatalf("unexpected request shape: %+v", client.lastReq.Messages)
	}
}

func TestGenerateInitialPlanInvalidProfileSkipsCompletion(t *testing.T) {
	client := &fakeClient{response: `{"week": []}`}
	svc := NewService(client)

	profile := testProfile()
	profile.Gender = "unknown"

	if _, err := svc.GenerateInitialPlan(context.Background(), profile); !errors.Is(err, nutrition.ErrInvalidProfile) {
		t.Fatalf("expected ErrInvalidProfile, got %v", err)
	}
	if client.calls != 0 {
		t.Fatalf("completion service must not be called for invalid input, got %d calls", client.calls)
	}
}

func TestGenerateInitialPlanCompletionFailure(t *testing.T) {
	client := &fakeClient{err: ai.ErrCompletionFailed}
	svc := NewService(client)

	_, err := svc.GenerateInitialPlan(context.Background(), testProfile())
	if !errors.Is(err, ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}
	if client.calls != 1 {
		t.Fatalf("expected exactly one attempt (no retry), got %d", client.calls)
	}
}

func TestGenerateInitialPlanParseFailure(t *testing.T) {
	client := &fakeClient{response: "sorry, I cannot help with that"}
	svc := NewService(client)

	if _, err := svc.GenerateInitialPlan(context.Background(), testProfile()); !errors.Is(err, ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}

	client = &fakeClient{response: `{"notweek": []}`}
	svc = NewService(client)
	if _, err := svc.GenerateInitialPlan(context.Background(), testProfile()); !errors.Is(err, ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed for schema violation, got %v", err)
	}
}

func TestRegeneratePlanFoldsChangeRequest(t *testing.T) {
	client := &fakeClient{response: `{"week": []}`}
	svc := NewService(client)

	newGoal := "weight gain"
	newAllergies := "shellfish"
	bundle, err := svc.RegeneratePlan(context.Background(), testProfile(), ChangeRequest{
		Goal:      &newGoal,
		Allergies: &newAllergies,
	})
	if err != nil {
		t.Fatalf("regenerate failed: %v", err)
	}

	prompt := client.lastReq.Messages[0].Content
	if !strings.Contains(prompt, "Goal: weight gain") {
		t.Fatalf("prompt should carry the folded goal:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Allergies: shellfish") {
		t.Fatalf("prompt should carry the folded allergies")
	}
	// Gain goal: 2237 * 1.10 = 2460.7
	if bundle.Needs.TargetCalories != 2461 {
		t.Fatalf("needs must be recomputed from the folded profile, got %d", bundle.Needs.TargetCalories)
	}
}

func TestRegeneratePlanRejectsBadMedicationsBeforeCalling(t *testing.T) {
	client := &fakeClient{response: `{"week": []}`}
	svc := NewService(client)

	meds := []nutrition.Medication{
		{Name: "A", Timing: "AM", Dosage: "5mg"},
		{Name: "", Timing: "PM", Dosage: "1mg"},
	}

	_, err := svc.RegeneratePlan(context.Background(), testProfile(), ChangeRequest{Medications: &meds})
	if !errors.Is(err, ErrInvalidMedication) {
		t.Fatalf("expected ErrInvalidMedication, got %v", err)
	}
	if !strings.Contains(err.Error(), "medication[1]") {
		t.Fatalf("error must reference the offending index, got %q", err.Error())
	}
	if client.calls != 0 {
		t.Fatalf("no completion call may happen on invalid medications, got %d", client.calls)
	}
}

func TestValidateMedications(t *testing.T) {
	valid := []nutrition.Medication{
		{Name: "Metformin", Timing: "after breakfast", Dosage: "500mg", WithFood: true},
	}
	if err := ValidateMedications(valid); err != nil {
		t.Fatalf("expected valid batch, got %v", err)
	}

	if err := ValidateMedications(nil); err != nil {
		t.Fatalf("empty batch must pass, got %v", err)
	}

	missingTiming := []nutrition.Medication{{Name: "A", Timing: " ", Dosage: "5mg"}}
	if err := ValidateMedications(missingTiming); !errors.Is(err, ErrInvalidMedication) {
		t.Fatalf("expected ErrInvalidMedication, got %v", err)
	}
}
