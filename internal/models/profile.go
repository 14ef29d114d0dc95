package models

import "time"

type UserProfile struct {
	ID                  string    `json:"id"`
	UserID              string    `json:"user_id"`
	FitnessGoal         string    `json:"fitness_goal"`
	ExperienceLevel     string    `json:"experience_level"`
	AvailableTime       int       `json:"available_time"`
	Equipment           []string  `json:"equipment"`
	DietaryRestrictions []string  `json:"dietary_restrictions"`
	CreatedAt           time.Time `json:"created_at"`
}
