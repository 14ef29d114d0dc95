package models

import "time"

type Meal struct {
	Name        string `json:"name"`
	Calories    int    `json:"calories"`
	Description string `json:"description"`
}

type DayMeals struct {
	Day   string `json:"day"`
	Meals Meals  `json:"meals"`
}

type Meals struct {
	Breakfast Meal `json:"breakfast"`
	Lunch     Meal `json:"lunch"`
	Dinner    Meal `json:"dinner"`
	Snack     Meal `json:"snack"`
}

type MealPlan struct {
	ID             string     `json:"id,omitempty"`
	UserID         string     `json:"user_id"`
	Name           string     `json:"plan_name"`
	Days           []DayMeals `json:"meals"`
	CaloriesTarget int        `json:"calories_target"`
	CreatedAt      time.Time  `json:"created_at"`
	Persisted      bool       `json:"persisted"`
}

// MealPlanRequest carries the parameters for a meal plan generation.
// A zero Calories means the goal's default target.
type MealPlanRequest struct {
	Goal         string   `json:"goal"`
	Restrictions []string `json:"restrictions"`
	Calories     int      `json:"calories,omitempty"`
	Preferences  []string `json:"preferences"`
}

// Slot returns the meal stored under one of MealSlots.
func (m Meals) Slot(name string) Meal {
	switch name {
	case "breakfast":
		return m.Breakfast
	case "lunch":
		return m.Lunch
	case "dinner":
		return m.Dinner
	default:
		return m.Snack
	}
}
