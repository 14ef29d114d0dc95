package models

import "time"

type ProgressLog struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	WorkoutPlanID string    `json:"workout_plan_id"`
	CompletedAt   time.Time `json:"completed_at"`
	Notes         string    `json:"notes,omitempty"`
	Rating        int       `json:"rating"`
	CreatedAt     time.Time `json:"created_at"`
}

// ProgressEntry is a progress log joined with a summary of its workout plan.
type ProgressEntry struct {
	ProgressLog
	PlanName    string `json:"plan_name"`
	Duration    int    `json:"duration"`
	Difficulty  string `json:"difficulty"`
	WorkoutType string `json:"workout_type"`
}

type ProgressSummary struct {
	TotalWorkouts int     `json:"total_workouts"`
	TotalMinutes  int     `json:"total_minutes"`
	AverageRating float64 `json:"average_rating"`
}

// Summarize aggregates the progress page totals.
func Summarize(entries []ProgressEntry) ProgressSummary {
	var s ProgressSummary
	var ratings int
	for _, e := range entries {
		s.TotalWorkouts++
		s.TotalMinutes += e.Duration
		ratings += e.Rating
	}
	if s.TotalWorkouts > 0 {
		s.AverageRating = float64(ratings) / float64(s.TotalWorkouts)
	}
	return s
}

const (
	ActivityWorkoutCreated   = "workout_created"
	ActivityWorkoutCompleted = "workout_completed"
	ActivityMealPlanCreated  = "meal_plan_created"
)

// Activity is one dashboard entry.
type Activity struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	PlanName  string    `json:"description"`
	ItemID    string    `json:"item_id"`
	Timestamp time.Time `json:"created_at"`
}
