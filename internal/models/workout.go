package models

import "time"

type WorkoutPlan struct {
	ID          string     `json:"id,omitempty"`
	UserID      string     `json:"user_id"`
	Name        string     `json:"plan_name"`
	Exercises   []Exercise `json:"exercises"`
	Duration    int        `json:"duration"`
	Difficulty  string     `json:"difficulty"`
	WorkoutType string     `json:"workout_type"`
	CreatedAt   time.Time  `json:"created_at"`
	// Persisted is false when generation succeeded but the plan could not be stored.
	Persisted bool `json:"persisted"`
}

// WorkoutRequest carries the parameters for a workout generation.
type WorkoutRequest struct {
	Goal        string   `json:"goal"`
	Level       string   `json:"level"`
	Time        int      `json:"time"`
	Equipment   []string `json:"equipment"`
	Limitations string   `json:"limitations,omitempty"`
	WorkoutType string   `json:"workoutType"`
}
