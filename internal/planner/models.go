package planner

import (
	"github.com/nvarma/eldercare-hub/internal/nutrition"
	"github.com/nvarma/eldercare-hub/internal/plan"
)

// PlanBundle is the result of a generation run: the parsed weekly plan plus
// the targets it was generated against.
type PlanBundle struct {
	MealPlan *plan.MealPlan  `json:"mealPlan"`
	Needs    nutrition.Needs `json:"nutritionalNeeds"`
}

// ChangeRequest carries the profile fields a regeneration may override. Nil
// pointers leave the stored value untouched; a non-nil Medications slice
// replaces the whole batch (validated first, all-or-nothing).
type ChangeRequest struct {
	Age                 *int                    `json:"age,omitempty"`
	WeightKg            *float64                `json:"weight,omitempty"`
	HeightCm            *float64                `json:"height,omitempty"`
	Goal                *string                 `json:"goal,omitempty"`
	ActivityLevel       *string                 `json:"activity_level,omitempty"`
	HealthIssues        *string                 `json:"health_issues,omitempty"`
	Allergies           *string                 `json:"allergies,omitempty"`
	Cuisines            *string                 `json:"cuisines,omitempty"`
	DietaryRestrictions *string                 `json:"dietary_restrictions,omitempty"`
	MealPreferences     *string                 `json:"meal_preferences,omitempty"`
	Medications         *[]nutrition.Medication `json:"medications,omitempty"`
}

// fold applies the change request on top of a copy of the profile.
func (c ChangeRequest) fold(p nutrition.Profile) nutrition.Profile {
	if c.Age != nil {
		p.Age = *c.Age
	}
	if c.WeightKg != nil {
		p.WeightKg = *c.WeightKg
	}
	if c.HeightCm != nil {
		p.HeightCm = *c.HeightCm
	}
	if c.Goal != nil {
		p.Goal = *c.Goal
	}
	if c.ActivityLevel != nil {
		p.ActivityLevel = *c.ActivityLevel
	}
	if c.HealthIssues != nil {
		p.HealthIssues = *c.HealthIssues
	}
	if c.Allergies != nil {
		p.Allergies = *c.Allergies
	}
	if c.Cuisines != nil {
		p.Cuisines = *c.Cuisines
	}
	if c.DietaryRestrictions != nil {
		p.DietaryRestrictions = *c.DietaryRestrictions
	}
	if c.MealPreferences != nil {
		p.MealPreferences = *c.MealPreferences
	}
	if c.Medications != nil {
		p.Medications = append([]nutrition.Medication(nil), (*c.Medications)...)
	}
	return p
}
