// Package prompts assembles the model prompts for plan generation, plan
// modification, document analysis and general chat. Every builder is a pure
// string-template function: deterministic for a given input, no I/O, and
// optional fields render as explicit "None"/"no data" tokens so the output is
// stable enough to assert on in tests.
package prompts

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nvarma/eldercare-hub/internal/nutrition"
	"github.com/nvarma/eldercare-hub/internal/plan"
)

// GeneralChatSystem frames the assistant for plain Q&A turns.
const GeneralChatSystem = "You are a helpful nutrition assistant. Provide clear, specific answers based on the user's profile and meal plan."

// DocumentAnalysisUserMessage is the fixed user turn paired with the
// document-analysis system prompt.
const DocumentAnalysisUserMessage = "Please analyze this medical document and provide a clear, structured report."

// InitialPlan requests a full Sunday-to-Saturday plan that honors the
// computed targets, medication schedule and stated preferences, and instructs
// the model to answer with nothing but the weekly-plan JSON object.
func InitialPlan(p nutrition.Profile, needs nutrition.Needs) string {
	var b strings.Builder

	b.WriteString("You are a professional nutrition guide who creates meal plans for elders.\n\n")

	writeTargets(&b, needs)

	b.WriteString("MEDICATIONS:\n")
	b.WriteString(medicationLines(p.Medications))
	b.WriteString("\n\n")

	b.WriteString("Generate a full weekly meal plan (Sunday to Saturday) based on the following user details:\n\n")
	fmt.Fprintf(&b, "Age: %d\n", p.Age)
	fmt.Fprintf(&b, "Weight: %g kg\n", p.WeightKg)
	fmt.Fprintf(&b, "Height: %g cm\n", p.HeightCm)
	fmt.Fprintf(&b, "Gender: %s\n", p.Gender)
	fmt.Fprintf(&b, "Health Issues: %s\n", nutrition.OrDefault(p.HealthIssues))
	fmt.Fprintf(&b, "Allergies: %s\n", nutrition.OrDefault(p.Allergies))
	fmt.Fprintf(&b, "Meal Preferences: %s\n", nutrition.OrDefault(p.MealPreferences))
	fmt.Fprintf(&b, "Dietary Restrictions: %s\n", nutrition.OrDefault(p.DietaryRestrictions))
	fmt.Fprintf(&b, "Goal: %s\n", nutrition.OrDefault(p.Goal))
	fmt.Fprintf(&b, "Activity Level: %s\n", nutrition.OrDefault(p.ActivityLevel))
	fmt.Fprintf(&b, "Cuisine Preferences: %s\n", nutrition.OrDefault(p.Cuisines))

	b.WriteString(`
Additional Requirements:
- Consider medication timings and requirements (with/without food)
- Schedule meals around medication timings
- Avoid food interactions with medications
- Ensure appropriate gaps between medications and meals when required
- Include specific nutrients that support medication absorption when needed
- Account for any dietary restrictions due to medications

Return only JSON output, without any additional text. The JSON structure should be:

{
  "week": [
    {
      "day": "Sunday",
      "meals": [
        {
          "mealType": "Breakfast",
          "meal": "Meal name",
          "recipe": "Recipe instructions",
          "ingredients": ["ingredient 1", "ingredient 2", "ingredient 3"],
          "nutritionalInfo": {
            "calories": "Calories",
            "protein": "Protein",
            "carbs": "Carbohydrates",
            "fat": "Fat",
            "fiber": "Fiber"
          },
          "servingSize": "Serving Size",
          "mealTime": "Meal Time"
        }
      ]
    }
  ]
}
`)

	return b.String()
}

// Modification carries the same nutritional framing as the initial plan plus
// the modification request and the full current profile as context, and
// requires the modification-result JSON shape in response.
func Modification(name string, p nutrition.Profile, needs nutrition.Needs, request string) string {
	if strings.TrimSpace(name) == "" {
		name = "User"
	}

	profileJSON, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		profileJSON = []byte("{}")
	}
	macroJSON, err := json.Marshal(needs.MacroTargets)
	if err != nil {
		macroJSON = []byte("{}")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s, you are a nutrition expert specializing in elderly care.\n\n", name)

	writeTargets(&b, needs)

	b.WriteString("MODIFICATION REQUEST:\n")
	b.WriteString(request)
	b.WriteString("\n\nCURRENT USER CONTEXT:\n")
	b.Write(profileJSON)
	b.WriteString(`

Generate meal modifications that:
1. Match the calculated nutritional needs
2. Follow all dietary restrictions
3. Consider health conditions
4. Maintain nutritional balance
5. Use preferred cuisines
6. Are easy to prepare

Return ONLY JSON in this format:
{
  "modifications": {
    "reasoning": "Explanation based on health data",
    "focusAreas": ["area1", "area2"],
    "nutritionalGoals": {
`)
	fmt.Fprintf(&b, "      \"bmr\": %d,\n", needs.BMR)
	fmt.Fprintf(&b, "      \"tdee\": %d,\n", needs.TDEE)
	fmt.Fprintf(&b, "      \"targetCalories\": %d,\n", needs.TargetCalories)
	fmt.Fprintf(&b, "      \"macroTargets\": %s\n", macroJSON)
	b.WriteString(`    },
    "changes": [{
      "day": "Day name",
      "mealType": "Meal type",
      "currentMeal": "Current meal name",
      "newMeal": {
        "meal": "New meal name",
        "recipe": "Recipe instructions",
        "ingredients": ["ingredient1", "ingredient2"],
        "nutritionalInfo": {
          "calories": "xxx kcal",
          "protein": "xx g",
          "carbs": "xx g",
          "fat": "xx g",
          "fiber": "xx g"
        },
        "servingSize": "serving size",
        "mealTime": "suggested time"
      }
    }]
  }
}`)

	return b.String()
}

// DocumentAnalysis frames the model as a medical-document analyzer. The
// profile is optional; when present, patient context lines are always emitted
// (with "None" for blank fields) so prompts stay stable.
func DocumentAnalysis(extractedText string, name string, p *nutrition.Profile) string {
	var b strings.Builder

	b.WriteString("You are a medical document analyzer. Analyze this medical document")
	if strings.TrimSpace(name) != "" {
		fmt.Fprintf(&b, " for %s", name)
	}
	b.WriteString(".\n")

	if p != nil {
		fmt.Fprintf(&b, "Patient Age: %d\n", p.Age)
		fmt.Fprintf(&b, "Health Context: %s\n", nutrition.OrDefault(p.HealthIssues))
		fmt.Fprintf(&b, "Allergies: %s\n", nutrition.OrDefault(p.Allergies))
	}

	b.WriteString(`
Please analyze and provide insights about:
1. Key health indicators
2. Test results and their meanings
3. Any concerning values
4. Recommended actions
5. Follow-up suggestions

Document text: `)
	b.WriteString(extractedText)

	return b.String()
}

// WellbeingReport is the prompt-facing view of a weekly well-being report.
type WellbeingReport struct {
	Date             time.Time
	OverallFeeling   int
	EnergyLevels     int
	SleepQuality     int
	StressLevels     int
	DietAdherence    int
	PhysicalActivity int
	DigestiveHealth  int
	Challenges       string
	Improvements     string
	Notes            string
}

// GeneralChatInput bundles everything the general-chat context block needs.
// Today is the weekday name ("Monday") resolved by the caller so the builder
// stays deterministic.
type GeneralChatInput struct {
	Name     string
	Profile  nutrition.Profile
	MealPlan *plan.MealPlan
	Today    string
	Reports  []WellbeingReport
	Question string
}

// GeneralChat builds the user turn for a plain chat question: a context block
// (profile, today's meals, recent well-being reports) followed by the
// question itself. Pair it with GeneralChatSystem.
func GeneralChat(in GeneralChatInput) string {
	name := in.Name
	if strings.TrimSpace(name) == "" {
		name = "User"
	}

	var b strings.Builder
	b.WriteString("Context: \nUser Profile:\n")
	fmt.Fprintf(&b, "- Name: %s\n", name)
	fmt.Fprintf(&b, "- Age: %d\n", in.Profile.Age)
	fmt.Fprintf(&b, "- Health Issues: %s\n", nutrition.OrDefault(in.Profile.HealthIssues))
	fmt.Fprintf(&b, "- Allergies: %s\n", nutrition.OrDefault(in.Profile.Allergies))
	fmt.Fprintf(&b, "- Diet Restrictions: %s\n", nutrition.OrDefault(in.Profile.DietaryRestrictions))

	b.WriteString("\nToday's Meals:\n")
	b.WriteString(TodaysMeals(in.MealPlan, in.Today))

	b.WriteString("\n\nRecent Health Updates:\n")
	b.WriteString(FormatWellbeingReports(in.Reports))

	b.WriteString("\n\nQuestion: ")
	b.WriteString(in.Question)

	return b.String()
}

// TodaysMeals renders the stored plan entries for the given weekday, or an
// explicit no-data token when the plan or the day is missing.
func TodaysMeals(mealPlan *plan.MealPlan, today string) string {
	if mealPlan == nil || len(mealPlan.Week) == 0 {
		return "No meal plan available."
	}
	day, ok := mealPlan.DayByName(today)
	if !ok {
		return fmt.Sprintf("No meal plan found for today (%s).", today)
	}
	return formatDay(day)
}

// FormatMealPlan renders the whole weekly plan as prompt text.
func FormatMealPlan(mealPlan *plan.MealPlan) string {
	if mealPlan == nil || len(mealPlan.Week) == 0 {
		return "No meal plan available."
	}
	days := make([]string, 0, len(mealPlan.Week))
	for _, day := range mealPlan.Week {
		days = append(days, formatDay(day))
	}
	return strings.Join(days, "\n\n")
}

func formatDay(day plan.DayPlan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:\n", day.Day)
	for i, meal := range day.Meals {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "- %s: %s at %s\n", meal.MealType, meal.Meal, meal.MealTime)
		fmt.Fprintf(&b, "  Recipe: %s\n", meal.Recipe)
		fmt.Fprintf(&b, "  Ingredients: %s\n", strings.Join(meal.Ingredients, ", "))
		fmt.Fprintf(&b, "  Nutrition: %s, Protein: %s, Carbs: %s, Fat: %s, Fiber: %s\n",
			meal.NutritionalInfo.Calories,
			meal.NutritionalInfo.Protein,
			meal.NutritionalInfo.Carbs,
			meal.NutritionalInfo.Fat,
			meal.NutritionalInfo.Fiber,
		)
		fmt.Fprintf(&b, "  Serving Size: %s", meal.ServingSize)
	}
	return b.String()
}

// FormatWellbeingReports renders the most recent four reports, oldest first.
func FormatWellbeingReports(reports []WellbeingReport) string {
	if len(reports) == 0 {
		return "No weekly reports available."
	}
	if len(reports) > 4 {
		reports = reports[len(reports)-4:]
	}

	formatted := make([]string, 0, len(reports))
	for _, r := range reports {
		var b strings.Builder
		fmt.Fprintf(&b, "Report Date: %s\n", r.Date.Format("2006-01-02"))
		fmt.Fprintf(&b, "Overall Feeling: %d/5\n", r.OverallFeeling)
		fmt.Fprintf(&b, "Energy Levels: %d/5\n", r.EnergyLevels)
		fmt.Fprintf(&b, "Sleep Quality: %d/5\n", r.SleepQuality)
		fmt.Fprintf(&b, "Stress Levels: %d/5\n", r.StressLevels)
		fmt.Fprintf(&b, "Diet Adherence: %d/5\n", r.DietAdherence)
		fmt.Fprintf(&b, "Physical Activity: %d/5\n", r.PhysicalActivity)
		fmt.Fprintf(&b, "Digestive Health: %d/5\n", r.DigestiveHealth)
		fmt.Fprintf(&b, "Challenges: %s\n", orNoneReported(r.Challenges))
		fmt.Fprintf(&b, "Improvements: %s\n", orNoneReported(r.Improvements))
		fmt.Fprintf(&b, "Notes: %s", orToken(r.Notes, "No additional notes"))
		formatted = append(formatted, b.String())
	}
	return strings.Join(formatted, "\n\n")
}

func writeTargets(b *strings.Builder, needs nutrition.Needs) {
	b.WriteString("CALCULATED NUTRITIONAL NEEDS:\n")
	fmt.Fprintf(b, "BMR: %d kcal/day\n", needs.BMR)
	fmt.Fprintf(b, "TDEE: %d kcal/day\n", needs.TDEE)
	fmt.Fprintf(b, "Daily Target Calories: %d kcal\n\n", needs.TargetCalories)

	b.WriteString("MACRO TARGETS:\n")
	fmt.Fprintf(b, "Protein: %dg (%d kcal)\n", needs.MacroTargets.Protein, needs.MacroTargets.Protein*4)
	fmt.Fprintf(b, "Carbs: %dg (%d kcal)\n", needs.MacroTargets.Carbs, needs.MacroTargets.Carbs*4)
	fmt.Fprintf(b, "Fats: %dg (%d kcal)\n", needs.MacroTargets.Fats, needs.MacroTargets.Fats*9)
	fmt.Fprintf(b, "Fiber: %dg\n\n", needs.MacroTargets.Fiber)

	b.WriteString("MEAL DISTRIBUTION:\n")
	fmt.Fprintf(b, "Breakfast: %d kcal\n", needs.MealDistribution.Breakfast)
	fmt.Fprintf(b, "Lunch: %d kcal\n", needs.MealDistribution.Lunch)
	fmt.Fprintf(b, "Snacks: %d kcal\n", needs.MealDistribution.Snacks)
	fmt.Fprintf(b, "Dinner: %d kcal\n\n", needs.MealDistribution.Dinner)
}

func medicationLines(meds []nutrition.Medication) string {
	if len(meds) == 0 {
		return "No medications listed"
	}
	lines := make([]string, 0, len(meds))
	for _, med := range meds {
		line := fmt.Sprintf("- %s (%s) - Take %s", med.Name, med.Dosage, med.Timing)
		if med.WithFood {
			line += " with food"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func orNoneReported(v string) string {
	return orToken(v, "None reported")
}

func orToken(v, token string) string {
	if strings.TrimSpace(v) == "" {
		return token
	}
	return v
}
