package prompts

import (
	"strings"
	"testing"
	"time"

	"github.com/nvarma/eldercare-hub/internal/nutrition"
	"github.com/nvarma/eldercare-hub/internal/plan"
)

func testProfile() nutrition.Profile {
	return nutrition.Profile{
		Age:           72,
		WeightKg:      68,
		HeightCm:      165,
		Gender:        "female",
		HealthIssues:  "type 2 diabetes",
		Allergies:     "peanuts",
		Goal:          "weight loss",
		ActivityLevel: "light",
		Medications: []nutrition.Medication{
			{Name: "Metformin", Timing: "after breakfast", Dosage: "500mg", WithFood: true},
			{Name: "Lisinopril", Timing: "morning", Dosage: "10mg"},
		},
	}
}

func testNeeds(t *testing.T) nutrition.Needs {
	t.Helper()
	needs, err := nutrition.Compute(testProfile())
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	return needs
}

func TestInitialPlanIsDeterministic(t *testing.T) {
	p := testProfile()
	needs := testNeeds(t)

	a := InitialPlan(p, needs)
	b := InitialPlan(p, needs)
	if a != b {
		t.Fatal("expected identical prompts for identical inputs")
	}
}

func TestInitialPlanIncludesTargetsAndMedications(t *testing.T) {
	p := testProfile()
	needs := testNeeds(t)
	prompt := InitialPlan(p, needs)

	for _, want := range []string{
		"Sunday to Saturday",
		"BMR:",
		"Daily Target Calories:",
		"- Metformin (500mg) - Take after breakfast with food",
		"- Lisinopril (10mg) - Take morning",
		`"week"`,
		"Return only JSON",
		"Health Issues: type 2 diabetes",
		"Allergies: peanuts",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestInitialPlanRendersNoneForAbsentFields(t *testing.T) {
	p := testProfile()
	p.HealthIssues = ""
	p.Cuisines = ""
	p.Medications = nil

	prompt := InitialPlan(p, testNeeds(t))

	if !strings.Contains(prompt, "Health Issues: None") {
		t.Fatal("expected explicit None for missing health issues")
	}
	if !strings.Contains(prompt, "Cuisine Preferences: None") {
		t.Fatal("expected explicit None for missing cuisines")
	}
	if !strings.Contains(prompt, "No medications listed") {
		t.Fatal("expected explicit no-medications token")
	}
}

func TestModificationIncludesRequestAndGoals(t *testing.T) {
	p := testProfile()
	needs := testNeeds(t)

	prompt := Modification("Asha", p, needs, "change meal for Tuesday dinner to something lighter")

	for _, want := range []string{
		"Asha, you are a nutrition expert",
		"MODIFICATION REQUEST:",
		"change meal for Tuesday dinner",
		"CURRENT USER CONTEXT:",
		`"modifications"`,
		`"focusAreas"`,
		`"currentMeal"`,
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}

	// The restated goals must carry the computed numbers verbatim.
	if !strings.Contains(prompt, `"targetCalories": `) {
		t.Fatal("prompt missing restated target calories")
	}
}

func TestDocumentAnalysisWithAndWithoutProfile(t *testing.T) {
	p := testProfile()
	withProfile := DocumentAnalysis("Hemoglobin 10.2 g/dL", "Asha", &p)

	for _, want := range []string{
		"medical document analyzer",
		"for Asha",
		"Patient Age: 72",
		"Health Context: type 2 diabetes",
		"1. Key health indicators",
		"5. Follow-up suggestions",
		"Document text: Hemoglobin 10.2 g/dL",
	} {
		if !strings.Contains(withProfile, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}

	withoutProfile := DocumentAnalysis("Hemoglobin 10.2 g/dL", "", nil)
	if strings.Contains(withoutProfile, "Patient Age") {
		t.Fatal("anonymous analysis must not include patient context")
	}
}

func TestGeneralChatContextBlock(t *testing.T) {
	mealPlan := &plan.MealPlan{Week: []plan.DayPlan{
		{Day: "Monday", Meals: []plan.Meal{{
			MealType:    "Breakfast",
			Meal:        "Idli with sambar",
			MealTime:    "8:00 AM",
			Ingredients: []string{"rice", "urad dal"},
			NutritionalInfo: plan.NutritionalInfo{
				Calories: "350 kcal", Protein: "12 g", Carbs: "60 g", Fat: "6 g", Fiber: "5 g",
			},
			ServingSize: "3 idlis",
		}}},
	}}

	reports := make([]WellbeingReport, 0, 6)
	for i := 0; i < 6; i++ {
		reports = append(reports, WellbeingReport{
			Date:           time.Date(2026, 7, 1+i*7, 0, 0, 0, 0, time.UTC),
			OverallFeeling: 3 + i%2,
			EnergyLevels:   3,
		})
	}

	out := GeneralChat(GeneralChatInput{
		Name:     "Asha",
		Profile:  testProfile(),
		MealPlan: mealPlan,
		Today:    "Monday",
		Reports:  reports,
		Question: "how am I doing?",
	})

	for _, want := range []string{
		"- Name: Asha",
		"Idli with sambar at 8:00 AM",
		"Recent Health Updates:",
		"Question: how am I doing?",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("context missing %q:\n%s", want, out)
		}
	}

	// Only the 4 most recent reports appear.
	if got := strings.Count(out, "Report Date:"); got != 4 {
		t.Fatalf("expected 4 reports in context, got %d", got)
	}
	if strings.Contains(out, "2026-07-01") || strings.Contains(out, "2026-07-08") {
		t.Fatal("oldest reports should be trimmed from context")
	}
}

func TestGeneralChatNoDataTokens(t *testing.T) {
	out := GeneralChat(GeneralChatInput{
		Profile:  testProfile(),
		Today:    "Tuesday",
		Question: "what should I eat?",
	})

	if !strings.Contains(out, "No meal plan available.") {
		t.Fatal("expected explicit no-plan token")
	}
	if !strings.Contains(out, "No weekly reports available.") {
		t.Fatal("expected explicit no-reports token")
	}
	if !strings.Contains(out, "- Name: User") {
		t.Fatal("expected default name token")
	}
}

func TestTodaysMealsMissingDay(t *testing.T) {
	mealPlan := &plan.MealPlan{Week: []plan.DayPlan{{Day: "Sunday"}}}
	out := TodaysMeals(mealPlan, "Friday")
	if out != "No meal plan found for today (Friday)." {
		t.Fatalf("unexpected output: %q", out)
	}
}
