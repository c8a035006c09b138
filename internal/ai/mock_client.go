package ai

import (
	"context"
	"strings"
)

// MockClient answers without any network call. It inspects the prompt for the
// required output shape and returns a canned, schema-valid response wrapped in
// a little prose, the way a real model tends to answer.
type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (c *MockClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	_ = ctx

	var combined strings.Builder
	for _, msg := range req.Messages {
		combined.WriteString(msg.Content)
		combined.WriteString("\n")
	}
	promptText := combined.String()

	switch {
	case strings.Contains(promptText, `"modifications"`):
		return "Here are the requested changes:\n" + mockModificationJSON, nil
	case strings.Contains(promptText, `"week"`):
		return "Here is the weekly plan you asked for:\n" + mockMealPlanJSON + "\nStay healthy!", nil
	case strings.Contains(promptText, "medical document"):
		return mockDocumentAnalysis, nil
	default:
		return "This is a demo response. Based on your profile and today's meals, keep " +
			"your protein intake spread across the day and drink water regularly.", nil
	}
}

const mockMealPlanJSON = `{
  "week": [
    {
      "day": "Sunday",
      "meals": [
        {
          "mealType": "Breakfast",
          "meal": "Vegetable oats porridge",
          "recipe": "Cook oats with water, stir in steamed vegetables and a pinch of salt.",
          "ingredients": ["rolled oats", "carrot", "peas", "spinach"],
          "nutritionalInfo": {
            "calories": "430 kcal",
            "protein": "15 g",
            "carbs": "64 g",
            "fat": "11 g",
            "fiber": "9 g"
          },
          "servingSize": "1 large bowl",
          "mealTime": "8:00 AM"
        },
        {
          "mealType": "Lunch",
          "meal": "Grilled fish with rice and salad",
          "recipe": "Grill the fish with lemon, serve with steamed rice and a cucumber salad.",
          "ingredients": ["white fish", "rice", "cucumber", "tomato", "lemon"],
          "nutritionalInfo": {
            "calories": "560 kcal",
            "protein": "34 g",
            "carbs": "68 g",
            "fat": "14 g",
            "fiber": "6 g"
          },
          "servingSize": "1 plate",
          "mealTime": "1:00 PM"
        },
        {
          "mealType": "Snacks",
          "meal": "Yogurt with walnuts",
          "recipe": "Top plain yogurt with crushed walnuts.",
          "ingredients": ["plain yogurt", "walnuts"],
          "nutritionalInfo": {
            "calories": "250 kcal",
            "protein": "10 g",
            "carbs": "18 g",
            "fat": "15 g",
            "fiber": "2 g"
          },
          "servingSize": "1 cup",
          "mealTime": "4:30 PM"
        },
        {
          "mealType": "Dinner",
          "meal": "Lentil soup with whole-wheat bread",
          "recipe": "Simmer lentils with onion, garlic and cumin; serve with toasted bread.",
          "ingredients": ["red lentils", "onion", "garlic", "whole-wheat bread"],
          "nutritionalInfo": {
            "calories": "520 kcal",
            "protein": "26 g",
            "carbs": "74 g",
            "fat": "12 g",
            "fiber": "14 g"
          },
          "servingSize": "1 bowl with 2 slices",
          "mealTime": "7:00 PM"
        }
      ]
    }
  ]
}`

const mockModificationJSON = `{
  "modifications": {
    "reasoning": "Demo modification keeping the calorie target unchanged.",
    "focusAreas": ["variety", "fiber"],
    "nutritionalGoals": {
      "bmr": 1443,
      "tdee": 2237,
      "targetCalories": 1901,
      "macroTargets": {"protein": 84, "carbs": 214, "fats": 63, "fiber": 25}
    },
    "changes": [
      {
        "day": "Tuesday",
        "mealType": "Dinner",
        "currentMeal": "Lentil soup with whole-wheat bread",
        "newMeal": {
          "meal": "Baked vegetable khichdi",
          "recipe": "Pressure-cook rice and lentils with vegetables and mild spices.",
          "ingredients": ["rice", "moong dal", "carrot", "beans"],
          "nutritionalInfo": {
            "calories": "510 kcal",
            "protein": "22 g",
            "carbs": "78 g",
            "fat": "10 g",
            "fiber": "12 g"
          },
          "servingSize": "1 bowl",
          "mealTime": "7:00 PM"
        }
      }
    ]
  }
}`

const mockDocumentAnalysis = `1. Key health indicators: demo mode, no real document was analyzed.
2. Test results: not available.
3. Concerning values: none detected in demo mode.
4. Recommended actions: consult your doctor for a real interpretation.
5. Follow-up suggestions: re-run with a real AI provider configured.`
