package validation

import (
	"time"

	"github.com/google/uuid"
	"github.com/linusc17/fitness-planner/internal/models"
)

// WorkoutRequest validates a workout generation request body.
func WorkoutRequest(data []byte) (models.WorkoutRequest, error) {
	obj, err := Decode(data)
	if err != nil {
		return models.WorkoutRequest{}, err
	}

	var c checker
	req := models.WorkoutRequest{
		Goal:        c.str(obj, "", "goal", true),
		Level:       c.str(obj, "", "level", true),
		Time:        c.integer(obj, "", "time", true),
		Equipment:   c.stringList(obj, "", "equipment"),
		Limitations: c.str(obj, "", "limitations", false),
		WorkoutType: c.str(obj, "", "workoutType", true),
	}

	c.length("goal", req.Goal, 1, 50)
	c.oneOf("level", req.Level, models.ExperienceLevels)
	c.between("time", req.Time, 15, 180)
	c.count("equipment", len(req.Equipment), 0, 10)
	c.eachLength("equipment", req.Equipment, 1, 50)
	c.length("limitations", req.Limitations, 0, 500)
	c.length("workoutType", req.WorkoutType, 1, 50)

	return req, c.err()
}

// MealPlanRequest validates a meal plan generation request body. An absent or
// zero calories value is left as zero for the caller to replace with the
// goal's default target.
func MealPlanRequest(data []byte) (models.MealPlanRequest, error) {
	obj, err := Decode(data)
	if err != nil {
		return models.MealPlanRequest{}, err
	}

	var c checker
	req := models.MealPlanRequest{
		Goal:         c.str(obj, "", "goal", true),
		Restrictions: c.stringList(obj, "", "restrictions"),
		Calories:     c.integer(obj, "", "calories", false),
		Preferences:  c.stringList(obj, "", "preferences"),
	}

	c.length("goal", req.Goal, 1, 50)
	c.count("restrictions", len(req.Restrictions), 0, 10)
	c.eachLength("restrictions", req.Restrictions, 0, 50)
	if req.Calories != 0 {
		c.between("calories", req.Calories, 1200, 4000)
	}
	c.count("preferences", len(req.Preferences), 0, 20)
	c.eachLength("preferences", req.Preferences, 0, 100)

	return req, c.err()
}

// ProgressRequest validates a save-progress body. The returned log has no id,
// owner or creation time yet.
func ProgressRequest(data []byte) (models.ProgressLog, error) {
	obj, err := Decode(data)
	if err != nil {
		return models.ProgressLog{}, err
	}

	var c checker
	log := models.ProgressLog{
		WorkoutPlanID: c.str(obj, "", "workout_plan_id", true),
		Notes:         c.str(obj, "", "notes", false),
		Rating:        c.integer(obj, "", "rating", true),
	}
	completedAt := c.str(obj, "", "completed_at", true)

	if _, err := uuid.Parse(log.WorkoutPlanID); err != nil || len(log.WorkoutPlanID) != 36 {
		c.fail("workout_plan_id", "must be a uuid")
	}
	if t, err := time.Parse(time.RFC3339, completedAt); err != nil {
		c.fail("completed_at", "must be an RFC 3339 timestamp")
	} else {
		log.CompletedAt = t.UTC()
	}
	checkProgressFields(&c, log)

	return log, c.err()
}

// ProfileRequest validates an onboarding profile body.
func ProfileRequest(data []byte) (models.UserProfile, error) {
	obj, err := Decode(data)
	if err != nil {
		return models.UserProfile{}, err
	}

	var c checker
	p := models.UserProfile{
		FitnessGoal:         c.str(obj, "", "fitness_goal", true),
		ExperienceLevel:     c.str(obj, "", "experience_level", true),
		AvailableTime:       c.integer(obj, "", "available_time", true),
		Equipment:           c.stringList(obj, "", "equipment"),
		DietaryRestrictions: c.stringList(obj, "", "dietary_restrictions"),
	}

	c.oneOf("fitness_goal", p.FitnessGoal, models.FitnessGoals)
	c.oneOf("experience_level", p.ExperienceLevel, models.ExperienceLevels)
	c.between("available_time", p.AvailableTime, 15, 180)
	c.count("equipment", len(p.Equipment), 0, 10)
	c.count("dietary_restrictions", len(p.DietaryRestrictions), 0, 10)

	return p, c.err()
}

// CheckProgressLog re-checks a typed progress log before it is stored.
func CheckProgressLog(log models.ProgressLog) error {
	var c checker
	if _, err := uuid.Parse(log.WorkoutPlanID); err != nil {
		c.fail("workout_plan_id", "must be a uuid")
	}
	if log.CompletedAt.IsZero() {
		c.fail("completed_at", "required")
	}
	checkProgressFields(&c, log)
	return c.err()
}

func checkProgressFields(c *checker, log models.ProgressLog) {
	c.length("notes", log.Notes, 0, 500)
	c.between("rating", log.Rating, 1, 5)
}
