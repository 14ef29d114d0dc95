package validation

import (
	"sort"

	"github.com/linusc17/fitness-planner/internal/models"
)

// WorkoutPlan coerces raw generator output into a workout plan.
func WorkoutPlan(raw map[string]any) (models.WorkoutPlan, error) {
	var c checker
	plan := models.WorkoutPlan{
		Name:       c.str(raw, "", "name", true),
		Duration:   c.integer(raw, "", "duration", true),
		Difficulty: c.str(raw, "", "difficulty", true),
	}

	items := c.list(raw, "", "exercises")
	plan.Exercises = make([]models.Exercise, 0, len(items))
	for i, item := range items {
		path := index("exercises", i)
		obj := c.object(item, path)
		if obj == nil {
			plan.Exercises = append(plan.Exercises, models.Exercise{})
			continue
		}
		plan.Exercises = append(plan.Exercises, models.Exercise{
			Name:        c.str(obj, path, "name", true),
			Sets:        c.integer(obj, path, "sets", true),
			Reps:        c.text(obj, path, "reps"),
			Rest:        c.str(obj, path, "rest", true),
			Description: c.str(obj, path, "description", true),
		})
	}

	checkWorkoutPlan(&c, plan, false)
	return plan, c.err()
}

// CheckWorkoutPlan re-checks a typed workout plan before it is stored.
func CheckWorkoutPlan(plan models.WorkoutPlan) error {
	var c checker
	checkWorkoutPlan(&c, plan, true)
	return c.err()
}

func checkWorkoutPlan(c *checker, plan models.WorkoutPlan, stored bool) {
	c.length("name", plan.Name, 1, 100)
	c.between("duration", plan.Duration, 15, 180)
	c.oneOf("difficulty", plan.Difficulty, models.ExperienceLevels)
	if stored {
		c.length("workout_type", plan.WorkoutType, 1, 50)
	}
	for i, ex := range plan.Exercises {
		path := index("exercises", i)
		c.length(join(path, "name"), ex.Name, 1, 100)
		c.between(join(path, "sets"), ex.Sets, 1, 10)
		c.length(join(path, "reps"), ex.Reps, 1, 50)
		c.length(join(path, "rest"), ex.Rest, 1, 50)
		c.length(join(path, "description"), ex.Description, 1, 500)
	}
	c.count("exercises", len(plan.Exercises), 1, 20)
}

// MealPlan coerces raw generator output into a meal plan. The plan must have
// exactly seven days, each with exactly the four meal slots.
func MealPlan(raw map[string]any) (models.MealPlan, error) {
	var c checker
	plan := models.MealPlan{
		Name:           c.str(raw, "", "name", true),
		CaloriesTarget: c.integer(raw, "", "totalCalories", true),
	}

	items := c.list(raw, "", "days")
	plan.Days = make([]models.DayMeals, 0, len(items))
	for i, item := range items {
		path := index("days", i)
		obj := c.object(item, path)
		if obj == nil {
			plan.Days = append(plan.Days, models.DayMeals{})
			continue
		}
		day := models.DayMeals{Day: c.str(obj, path, "day", true)}
		mealsPath := join(path, "meals")
		if meals := c.object(obj["meals"], mealsPath); meals != nil {
			keys := make([]string, 0, len(meals))
			for key := range meals {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			for _, key := range keys {
				if !isMealSlot(key) {
					c.fail(join(mealsPath, key), "unexpected meal slot")
				}
			}
			day.Meals = models.Meals{
				Breakfast: c.meal(meals, mealsPath, "breakfast"),
				Lunch:     c.meal(meals, mealsPath, "lunch"),
				Dinner:    c.meal(meals, mealsPath, "dinner"),
				Snack:     c.meal(meals, mealsPath, "snack"),
			}
		}
		plan.Days = append(plan.Days, day)
	}

	checkMealPlan(&c, plan, "totalCalories")
	return plan, c.err()
}

func (c *checker) meal(meals map[string]any, path, slot string) models.Meal {
	field := join(path, slot)
	obj := c.object(meals[slot], field)
	if obj == nil {
		return models.Meal{}
	}
	return models.Meal{
		Name:        c.str(obj, field, "name", true),
		Calories:    c.integer(obj, field, "calories", true),
		Description: c.str(obj, field, "description", true),
	}
}

func isMealSlot(key string) bool {
	for _, s := range models.MealSlots {
		if s == key {
			return true
		}
	}
	return false
}

// CheckMealPlan re-checks a typed meal plan before it is stored.
func CheckMealPlan(plan models.MealPlan) error {
	var c checker
	checkMealPlan(&c, plan, "calories_target")
	return c.err()
}

func checkMealPlan(c *checker, plan models.MealPlan, caloriesField string) {
	c.length("name", plan.Name, 1, 100)
	c.between(caloriesField, plan.CaloriesTarget, 1200, 4000)
	for i, day := range plan.Days {
		path := index("days", i)
		c.length(join(path, "day"), day.Day, 1, 20)
		mealsPath := join(path, "meals")
		for _, slot := range models.MealSlots {
			m := day.Meals.Slot(slot)
			field := join(mealsPath, slot)
			c.length(join(field, "name"), m.Name, 1, 100)
			c.between(join(field, "calories"), m.Calories, 0, 2000)
			c.length(join(field, "description"), m.Description, 1, 300)
		}
	}
	c.count("days", len(plan.Days), models.DaysPerMealPlan, models.DaysPerMealPlan)
}
