package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/linusc17/fitness-planner/internal/models"
)

// CreateProfile stores the onboarding profile. A user has at most one profile;
// a second call returns ErrExists.
func (s *Storage) CreateProfile(ctx context.Context, userID string, p models.UserProfile) (models.UserProfile, error) {
	if err := requireUser(userID); err != nil {
		return models.UserProfile{}, err
	}
	if p.Equipment == nil {
		p.Equipment = []string{}
	}
	if p.DietaryRestrictions == nil {
		p.DietaryRestrictions = []string{}
	}
	equipment, err := json.Marshal(p.Equipment)
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("Failed to encode equipment: %w", err)
	}
	restrictions, err := json.Marshal(p.DietaryRestrictions)
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("Failed to encode dietary restrictions: %w", err)
	}

	p.ID = uuid.New().String()
	p.UserID = userID
	p.CreatedAt = s.stamp()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.DB.ExecContext(ctx,
		`INSERT INTO user_profiles
			(id, user_id, fitness_goal, experience_level, available_time, equipment, dietary_restrictions, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(user_id) DO NOTHING`,
		p.ID,
		p.UserID,
		p.FitnessGoal,
		p.ExperienceLevel,
		p.AvailableTime,
		string(equipment),
		string(restrictions),
		formatTime(p.CreatedAt),
	)
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("Failed to create profile: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("Failed to create profile: %w", err)
	}
	if n == 0 {
		return models.UserProfile{}, ErrExists
	}
	return p, nil
}

func (s *Storage) GetProfile(ctx context.Context, userID string) (models.UserProfile, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var p models.UserProfile
	var equipment, restrictions, createdAt string
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, user_id, fitness_goal, experience_level, available_time, equipment, dietary_restrictions, created_at
		FROM user_profiles WHERE user_id = ?`,
		userID,
	).Scan(
		&p.ID,
		&p.UserID,
		&p.FitnessGoal,
		&p.ExperienceLevel,
		&p.AvailableTime,
		&equipment,
		&restrictions,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.UserProfile{}, ErrNotFound
	}
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("Failed to get profile: %w", err)
	}

	if err := json.Unmarshal([]byte(equipment), &p.Equipment); err != nil {
		return models.UserProfile{}, fmt.Errorf("corrupt equipment for profile %s: %w", p.ID, err)
	}
	if err := json.Unmarshal([]byte(restrictions), &p.DietaryRestrictions); err != nil {
		return models.UserProfile{}, fmt.Errorf("corrupt dietary restrictions for profile %s: %w", p.ID, err)
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.UserProfile{}, fmt.Errorf("corrupt created_at for profile %s: %w", p.ID, err)
	}
	return p, nil
}
