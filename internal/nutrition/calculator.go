package nutrition

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrInvalidProfile indicates biometrics that cannot feed the formulas.
	ErrInvalidProfile = errors.New("invalid profile")
)

// activityMultipliers maps activity level to the TDEE multiplier. Lookup is
// case-insensitive; unknown or empty levels fall back to moderate.
var activityMultipliers = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very active": 1.9,
}

const defaultActivityMultiplier = 1.55 // moderate

// Compute derives BMR, TDEE, calorie target, macro targets and the per-meal
// calorie split for a profile using the Mifflin-St Jeor equation.
//
// Gender must be an explicit choice: "male" takes the male formula, "female"
// and "other" take the non-male formula. Anything else is rejected rather
// than silently defaulted — unlike activity level, there is no safe fallback
// between the two BMR branches.
func Compute(p Profile) (Needs, error) {
	if p.Age <= 0 {
		return Needs{}, fmt.Errorf("%w: age must be positive, got %d", ErrInvalidProfile, p.Age)
	}
	if p.WeightKg <= 0 {
		return Needs{}, fmt.Errorf("%w: weight must be positive, got %g", ErrInvalidProfile, p.WeightKg)
	}
	if p.HeightCm <= 0 {
		return Needs{}, fmt.Errorf("%w: height must be positive, got %g", ErrInvalidProfile, p.HeightCm)
	}

	var rawBMR float64
	switch strings.ToLower(strings.TrimSpace(p.Gender)) {
	case "male":
		rawBMR = 10*p.WeightKg + 6.25*p.HeightCm - 5*float64(p.Age) + 5
	case "female", "other":
		rawBMR = 10*p.WeightKg + 6.25*p.HeightCm - 5*float64(p.Age) - 161
	default:
		return Needs{}, fmt.Errorf("%w: unrecognized gender %q", ErrInvalidProfile, p.Gender)
	}

	multiplier, ok := activityMultipliers[strings.ToLower(strings.TrimSpace(p.ActivityLevel))]
	if !ok {
		multiplier = defaultActivityMultiplier
	}

	// Each stage rounds before feeding the next, so the published kcal
	// numbers are internally consistent (TDEE is exactly BMR x multiplier
	// of the BMR the user sees).
	bmr := round(rawBMR)
	tdee := round(float64(bmr) * multiplier)

	// 15% deficit for weight loss, 10% surplus for weight gain.
	rawTarget := float64(tdee)
	goal := strings.ToLower(p.Goal)
	switch {
	case strings.Contains(goal, "loss"):
		rawTarget *= 0.85
	case strings.Contains(goal, "gain"):
		rawTarget *= 1.10
	}
	targetCalories := round(rawTarget)

	return Needs{
		BMR:            bmr,
		TDEE:           tdee,
		TargetCalories: targetCalories,
		MacroTargets: MacroTargets{
			Protein: round(p.WeightKg * 1.2), // 1.2 g/kg for elderly adults
			Carbs:   round(float64(targetCalories) * 0.45 / 4),
			Fats:    round(float64(targetCalories) * 0.30 / 9),
			Fiber:   25,
		},
		MealDistribution: MealDistribution{
			Breakfast: round(float64(targetCalories) * 0.25),
			Lunch:     round(float64(targetCalories) * 0.30),
			Snacks:    round(float64(targetCalories) * 0.15),
			Dinner:    round(float64(targetCalories) * 0.30),
		},
	}, nil
}

func round(v float64) int {
	return int(math.Round(v))
}
