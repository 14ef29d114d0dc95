package generator

import (
	"fmt"
	"strings"

	"github.com/linusc17/fitness-planner/internal/models"
)

// Ingredient vocabulary the meal plan prompt steers the model towards.
var filipinoCuisine = []string{
	"Rice dishes (sinangag, garlic rice, brown rice)",
	"Traditional proteins (adobo chicken/pork, grilled fish, tinola, sinigang)",
	"Filipino vegetables (kangkong, sitaw, okra, malunggay, camote tops)",
	"Healthy Filipino snacks (turon with banana, buko, fresh tropical fruits)",
	"Filipino breakfast items (tapsilog, longsilog, bangsilog variations)",
	"Traditional soups and stews (sinigang, tinola, nilaga)",
}

const jsonOnly = "Format as JSON with this exact structure (respond with only valid JSON, no other text):"

func WorkoutPrompt(req models.WorkoutRequest) string {
	limitations := req.Limitations
	if strings.TrimSpace(limitations) == "" {
		limitations = "None"
	}
	equipment := strings.Join(req.Equipment, ", ")
	if equipment == "" {
		equipment = "Bodyweight only"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Generate a personalized %s workout plan for:\n", req.Level)
	fmt.Fprintf(&b, "- Fitness Goal: %s\n", req.Goal)
	fmt.Fprintf(&b, "- Experience Level: %s\n", req.Level)
	fmt.Fprintf(&b, "- Available Time: %d minutes\n", req.Time)
	fmt.Fprintf(&b, "- Workout Type: %s\n", req.WorkoutType)
	fmt.Fprintf(&b, "- Equipment: %s\n", equipment)
	fmt.Fprintf(&b, "- Any limitations: %s\n\n", limitations)
	b.WriteString(jsonOnly + "\n")
	fmt.Fprintf(&b, `{
  "name": "Workout Name",
  "duration": %d,
  "difficulty": "%s",
  "exercises": [
    {
      "name": "Exercise Name",
      "sets": 3,
      "reps": "12-15",
      "rest": "60 seconds",
      "description": "Brief exercise description and form tips"
    }
  ]
}`, req.Time, req.Level)
	return b.String()
}

func MealPlanPrompt(req models.MealPlanRequest) string {
	calories := req.Calories
	if calories == 0 {
		calories = models.DefaultCalories(req.Goal)
	}

	var b strings.Builder
	b.WriteString("Create a 7-day Filipino meal plan focusing on traditional and popular Filipino cuisine for:\n")
	fmt.Fprintf(&b, "- Fitness Goal: %s\n", req.Goal)
	fmt.Fprintf(&b, "- Dietary Restrictions: %s\n", listOrNone(req.Restrictions))
	fmt.Fprintf(&b, "- Calorie Target: %d calories per day\n", calories)
	fmt.Fprintf(&b, "- Meal Preferences: %s\n\n", listOrNone(req.Preferences))
	b.WriteString("Include authentic Filipino dishes and ingredients such as:\n")
	for _, c := range filipinoCuisine {
		fmt.Fprintf(&b, "- %s\n", c)
	}
	b.WriteString("\nUse locally available Filipino ingredients and cooking methods. ")
	b.WriteString("Make meals nutritious while staying true to Filipino flavors.\n")
	b.WriteString("Every one of the 7 days must include breakfast, lunch, dinner and snack.\n\n")
	b.WriteString(jsonOnly + "\n")
	fmt.Fprintf(&b, `{
  "name": "Filipino Weekly Meal Plan",
  "totalCalories": %d,
  "days": [
    {
      "day": "Monday",
      "meals": {
        "breakfast": { "name": "Filipino breakfast name", "calories": 400, "description": "Brief description with Filipino ingredients" },
        "lunch": { "name": "Filipino lunch name", "calories": 500, "description": "Brief description with Filipino ingredients" },
        "dinner": { "name": "Filipino dinner name", "calories": 600, "description": "Brief description with Filipino ingredients" },
        "snack": { "name": "Filipino snack name", "calories": 200, "description": "Brief description with Filipino ingredients" }
      }
    }
  ]
}`, calories)
	return b.String()
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return strings.Join(items, ", ")
}
