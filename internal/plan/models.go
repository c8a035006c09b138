package plan

import "github.com/nvarma/eldercare-hub/internal/nutrition"

// NutritionalInfo holds per-meal nutrition facts as display strings, exactly
// as the model emits them ("450 kcal", "20 g"). The core never does math on
// these values.
type NutritionalInfo struct {
	Calories string `json:"calories"`
	Protein  string `json:"protein"`
	Carbs    string `json:"carbs"`
	Fat      string `json:"fat"`
	Fiber    string `json:"fiber"`
}

// Meal is a single generated meal entry.
type Meal struct {
	MealType        string          `json:"mealType"`
	Meal            string          `json:"meal"`
	Recipe          string          `json:"recipe"`
	Ingredients     []string        `json:"ingredients"`
	NutritionalInfo NutritionalInfo `json:"nutritionalInfo"`
	ServingSize     string          `json:"servingSize"`
	MealTime        string          `json:"mealTime"`
}

// DayPlan is one day of the weekly plan.
type DayPlan struct {
	Day   string `json:"day"`
	Meals []Meal `json:"meals"`
}

// MealPlan is the full Sunday-to-Saturday plan produced by the model.
type MealPlan struct {
	Week []DayPlan `json:"week"`
}

// DayByName returns the plan for a weekday ("Monday") if present.
func (p *MealPlan) DayByName(day string) (DayPlan, bool) {
	if p == nil {
		return DayPlan{}, false
	}
	for _, d := range p.Week {
		if d.Day == day {
			return d, true
		}
	}
	return DayPlan{}, false
}

// NutritionalGoals restates the computed targets inside a modification result.
type NutritionalGoals struct {
	BMR            int                    `json:"bmr"`
	TDEE           int                    `json:"tdee"`
	TargetCalories int                    `json:"targetCalories"`
	MacroTargets   nutrition.MacroTargets `json:"macroTargets"`
}

// MealChange is one day/meal swap proposed by the model.
type MealChange struct {
	Day         string `json:"day"`
	MealType    string `json:"mealType"`
	CurrentMeal string `json:"currentMeal"`
	NewMeal     Meal   `json:"newMeal"`
}

// Modification is the body of a modification result.
type Modification struct {
	Reasoning        string           `json:"reasoning"`
	FocusAreas       []string         `json:"focusAreas"`
	NutritionalGoals NutritionalGoals `json:"nutritionalGoals"`
	Changes          []MealChange     `json:"changes"`
}

// ModificationResult is the top-level modification payload.
type ModificationResult struct {
	Modifications Modification `json:"modifications"`
}
