package users

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nvarma/eldercare-hub/internal/nutrition"
	"github.com/nvarma/eldercare-hub/internal/storage"
)

// RegisterRequest — request for POST /v1/users
type RegisterRequest struct {
	UID                 string                 `json:"uid"`
	PhoneNo             string                 `json:"phoneNo"`
	Email               string                 `json:"email"`
	Name                string                 `json:"name"`
	Age                 int                    `json:"age"`
	Weight              float64                `json:"weight"`
	Height              float64                `json:"height"`
	Gender              string                 `json:"gender"`
	HealthIssues        string                 `json:"healthIssues"`
	Allergies           string                 `json:"allergies"`
	Cuisines            string                 `json:"cuisines"`
	Goal                string                 `json:"goal"`
	DoctorNo            string                 `json:"doctorNo"`
	ExtraInfo           string                 `json:"extraInfo"`
	BirthDate           string                 `json:"birthDate"`
	ActivityLevel       string                 `json:"activityLevel"`
	DietaryRestrictions string                 `json:"dietaryRestrictions"`
	MealPreferences     string                 `json:"mealPreferences"`
	Medications         []nutrition.Medication `json:"medications"`
}

// Validate checks the fields registration cannot proceed without.
func (r RegisterRequest) Validate() error {
	var missing []string
	if strings.TrimSpace(r.UID) == "" {
		missing = append(missing, "uid")
	}
	if strings.TrimSpace(r.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(r.Name) == "" {
		missing = append(missing, "name")
	}
	if r.Age <= 0 {
		missing = append(missing, "age")
	}
	if r.Weight <= 0 {
		missing = append(missing, "weight")
	}
	if r.Height <= 0 {
		missing = append(missing, "height")
	}
	if strings.TrimSpace(r.Gender) == "" {
		missing = append(missing, "gender")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}

// Profile maps the request onto the calculator's input shape.
func (r RegisterRequest) Profile() nutrition.Profile {
	return nutrition.Profile{
		Age:                 r.Age,
		WeightKg:            r.Weight,
		HeightCm:            r.Height,
		Gender:              r.Gender,
		HealthIssues:        r.HealthIssues,
		Allergies:           r.Allergies,
		Cuisines:            r.Cuisines,
		Goal:                r.Goal,
		ActivityLevel:       r.ActivityLevel,
		DietaryRestrictions: r.DietaryRestrictions,
		MealPreferences:     r.MealPreferences,
		Medications:         r.Medications,
	}
}

// UpdateRequest — request for PATCH /v1/users/{uid}. Nil fields are left
// unchanged.
type UpdateRequest struct {
	PhoneNo             *string  `json:"phoneNo"`
	Email               *string  `json:"email"`
	Name                *string  `json:"name"`
	Age                 *int     `json:"age"`
	Weight              *float64 `json:"weight"`
	Height              *float64 `json:"height"`
	Gender              *string  `json:"gender"`
	HealthIssues        *string  `json:"healthIssues"`
	Allergies           *string  `json:"allergies"`
	Cuisines            *string  `json:"cuisines"`
	Goal                *string  `json:"goal"`
	DoctorNo            *string  `json:"doctorNo"`
	ExtraInfo           *string  `json:"extraInfo"`
	BirthDate           *string  `json:"birthDate"`
	ActivityLevel       *string  `json:"activityLevel"`
	DietaryRestrictions *string  `json:"dietaryRestrictions"`
	MealPreferences     *string  `json:"mealPreferences"`
}

// touchesNeeds reports whether the update changes any input of the
// nutritional-needs calculation.
func (r UpdateRequest) touchesNeeds() bool {
	return r.Age != nil || r.Weight != nil || r.Height != nil ||
		r.Gender != nil || r.Goal != nil || r.ActivityLevel != nil
}

// MedicationsRequest — request for PUT /v1/users/{uid}/medications
type MedicationsRequest struct {
	Medications []nutrition.Medication `json:"medications"`
}

// UserDTO — API shape of the stored record. MealPlan and NutritionalNeeds are
// passed through as the JSON the planner produced.
type UserDTO struct {
	UID                 string          `json:"uid"`
	PhoneNo             string          `json:"phoneNo"`
	Email               string          `json:"email"`
	Name                string          `json:"name"`
	Age                 int             `json:"age"`
	Weight              float64         `json:"weight"`
	Height              float64         `json:"height"`
	Gender              string          `json:"gender"`
	HealthIssues        string          `json:"healthIssues"`
	Allergies           string          `json:"allergies"`
	Cuisines            string          `json:"cuisines"`
	Goal                string          `json:"goal"`
	DoctorNo            string          `json:"doctorNo"`
	ExtraInfo           string          `json:"extraInfo"`
	BirthDate           string          `json:"birthDate"`
	ActivityLevel       string          `json:"activityLevel"`
	DietaryRestrictions string          `json:"dietaryRestrictions"`
	MealPreferences     string          `json:"mealPreferences"`
	Medications         json.RawMessage `json:"medications"`
	MealPlan            json.RawMessage `json:"mealPlan,omitempty"`
	NutritionalNeeds    json.RawMessage `json:"nutritionalNeeds,omitempty"`
	LastPlanUpdate      *time.Time      `json:"lastPlanUpdate,omitempty"`
	CreatedAt           time.Time       `json:"createdAt"`
	UpdatedAt           time.Time       `json:"updatedAt"`
}

func toDTO(u *storage.User) UserDTO {
	meds := u.Medications
	if len(meds) == 0 {
		meds = []byte("[]")
	}
	return UserDTO{
		UID:                 u.UID,
		PhoneNo:             u.PhoneNo,
		Email:               u.Email,
		Name:                u.Name,
		Age:                 u.Age,
		Weight:              u.WeightKg,
		Height:              u.HeightCm,
		Gender:              u.Gender,
		HealthIssues:        u.HealthIssues,
		Allergies:           u.Allergies,
		Cuisines:            u.Cuisines,
		Goal:                u.Goal,
		DoctorNo:            u.DoctorNo,
		ExtraInfo:           u.ExtraInfo,
		BirthDate:           u.BirthDate,
		ActivityLevel:       u.ActivityLevel,
		DietaryRestrictions: u.DietaryRestrictions,
		MealPreferences:     u.MealPreferences,
		Medications:         json.RawMessage(meds),
		MealPlan:            json.RawMessage(u.MealPlan),
		NutritionalNeeds:    json.RawMessage(u.NutritionalNeeds),
		LastPlanUpdate:      u.LastPlanUpdate,
		CreatedAt:           u.CreatedAt,
		UpdatedAt:           u.UpdatedAt,
	}
}
