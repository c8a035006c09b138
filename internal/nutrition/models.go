package nutrition

import (
	"strings"
	"time"
)

// Medication is a single medication entry on a profile. Timing is a free-text
// schedule cue ("after breakfast", "8am"), not a parsed structure.
type Medication struct {
	Name     string `json:"name"`
	Timing   string `json:"timing"`
	Dosage   string `json:"dosage"`
	WithFood bool   `json:"withFood"`
}

// Profile is the immutable input snapshot for a nutrition computation.
// Optional free-text fields are kept as strings the way the client sends them.
type Profile struct {
	Age                 int          `json:"age"`
	WeightKg            float64      `json:"weight"`
	HeightCm            float64      `json:"height"`
	Gender              string       `json:"gender"`
	HealthIssues        string       `json:"health_issues,omitempty"`
	Allergies           string       `json:"allergies,omitempty"`
	Cuisines            string       `json:"cuisines,omitempty"`
	Goal                string       `json:"goal,omitempty"`
	ActivityLevel       string       `json:"activity_level,omitempty"`
	DietaryRestrictions string       `json:"dietary_restrictions,omitempty"`
	MealPreferences     string       `json:"meal_preferences,omitempty"`
	Medications         []Medication `json:"medications,omitempty"`
}

// MacroTargets are daily gram targets.
type MacroTargets struct {
	Protein int `json:"protein"`
	Carbs   int `json:"carbs"`
	Fats    int `json:"fats"`
	Fiber   int `json:"fiber"`
}

// MealDistribution splits the daily calorie target across meals (kcal).
type MealDistribution struct {
	Breakfast int `json:"breakfast"`
	Lunch     int `json:"lunch"`
	Snacks    int `json:"snacks"`
	Dinner    int `json:"dinner"`
}

// Needs is the derived nutrition target set for a profile. LastCalculated is
// stamped by the caller that persists the result, never by Compute.
type Needs struct {
	BMR              int              `json:"bmr"`
	TDEE             int              `json:"tdee"`
	TargetCalories   int              `json:"targetCalories"`
	MacroTargets     MacroTargets     `json:"macroTargets"`
	MealDistribution MealDistribution `json:"mealDistribution"`
	LastCalculated   time.Time        `json:"lastCalculated,omitempty"`
}

// OrDefault returns the value or "None" when empty, so prompts built from a
// profile are stable and never silently drop a section.
func OrDefault(v string) string {
	if strings.TrimSpace(v) == "" {
		return "None"
	}
	return v
}
