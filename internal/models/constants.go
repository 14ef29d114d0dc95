package models

const (
	GoalWeightLoss     = "Weight Loss"
	GoalMuscleGain     = "Muscle Gain"
	GoalEndurance      = "Endurance"
	GoalStrength       = "Strength"
	GoalGeneralFitness = "General Fitness"
	GoalFlexibility    = "Flexibility"
)

const (
	LevelBeginner     = "Beginner"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"
)

var FitnessGoals = []string{
	GoalWeightLoss,
	GoalMuscleGain,
	GoalEndurance,
	GoalStrength,
	GoalGeneralFitness,
	GoalFlexibility,
}

var ExperienceLevels = []string{LevelBeginner, LevelIntermediate, LevelAdvanced}

// Suggested daily calorie target per fitness goal.
var CalorieTargets = map[string]int{
	GoalWeightLoss:     1800,
	GoalMuscleGain:     2500,
	GoalEndurance:      2200,
	GoalStrength:       2300,
	GoalGeneralFitness: 2000,
	GoalFlexibility:    1900,
}

const FallbackCalories = 2000

// DefaultCalories returns the suggested daily target for goal, or
// FallbackCalories when the goal is not one of FitnessGoals.
func DefaultCalories(goal string) int {
	if c, ok := CalorieTargets[goal]; ok {
		return c
	}
	return FallbackCalories
}

// Meal slots every day of a meal plan must fill, in display order.
var MealSlots = []string{"breakfast", "lunch", "dinner", "snack"}

const DaysPerMealPlan = 7
