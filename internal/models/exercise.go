package models

// Exercise is a single movement inside a generated workout plan.
type Exercise struct {
	Name        string `json:"name"`
	Sets        int    `json:"sets"`
	Reps        string `json:"reps"` // "12-15", "30 seconds", "AMRAP".
	Rest        string `json:"rest"`
	Description string `json:"description"`
}
