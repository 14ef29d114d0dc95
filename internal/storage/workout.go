package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/linusc17/fitness-planner/internal/models"
	"github.com/linusc17/fitness-planner/internal/validation"
)

// SaveWorkoutPlan stores plan under userID and returns the stored record.
func (s *Storage) SaveWorkoutPlan(ctx context.Context, userID string, plan models.WorkoutPlan) (models.WorkoutPlan, error) {
	if err := requireUser(userID); err != nil {
		return models.WorkoutPlan{}, err
	}
	if err := validation.CheckWorkoutPlan(plan); err != nil {
		return models.WorkoutPlan{}, fmt.Errorf("refusing to store workout plan: %w", err)
	}

	exercises, err := json.Marshal(plan.Exercises)
	if err != nil {
		return models.WorkoutPlan{}, fmt.Errorf("Failed to encode exercises: %w", err)
	}

	plan.ID = uuid.New().String()
	plan.UserID = userID
	plan.CreatedAt = s.stamp()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err = s.DB.ExecContext(ctx,
		`INSERT INTO workout_plans
			(id, user_id, plan_name, exercises, duration, difficulty, workout_type, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		plan.ID,
		plan.UserID,
		plan.Name,
		string(exercises),
		plan.Duration,
		plan.Difficulty,
		plan.WorkoutType,
		formatTime(plan.CreatedAt),
	)
	if err != nil {
		return models.WorkoutPlan{}, fmt.Errorf("Failed to create workout plan: %w", err)
	}

	plan.Persisted = true
	return plan, nil
}

const workoutColumns = `id, user_id, plan_name, exercises, duration, difficulty, workout_type, created_at`

// GetWorkoutPlan returns ErrNotFound both for a missing id and for an id owned
// by another user.
func (s *Storage) GetWorkoutPlan(ctx context.Context, userID, id string) (models.WorkoutPlan, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	row := s.DB.QueryRowContext(ctx,
		`SELECT `+workoutColumns+` FROM workout_plans WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	plan, err := scanWorkoutPlan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.WorkoutPlan{}, ErrNotFound
	}
	if err != nil {
		return models.WorkoutPlan{}, fmt.Errorf("Failed to get workout plan: %w", err)
	}
	return plan, nil
}

// ListWorkoutPlans returns userID's workout plans, newest first.
func (s *Storage) ListWorkoutPlans(ctx context.Context, userID string) ([]models.WorkoutPlan, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+workoutColumns+` FROM workout_plans
		WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("Failed to query workout plans: %w", err)
	}
	defer rows.Close()

	plans := []models.WorkoutPlan{}
	for rows.Next() {
		plan, err := scanWorkoutPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("Failed to scan workout plan: %w", err)
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanWorkoutPlan(row scanner) (models.WorkoutPlan, error) {
	var plan models.WorkoutPlan
	var exercises, createdAt string

	err := row.Scan(
		&plan.ID,
		&plan.UserID,
		&plan.Name,
		&exercises,
		&plan.Duration,
		&plan.Difficulty,
		&plan.WorkoutType,
		&createdAt,
	)
	if err != nil {
		return models.WorkoutPlan{}, err
	}

	if err := json.Unmarshal([]byte(exercises), &plan.Exercises); err != nil {
		return models.WorkoutPlan{}, fmt.Errorf("corrupt exercises for plan %s: %w", plan.ID, err)
	}
	if plan.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.WorkoutPlan{}, fmt.Errorf("corrupt created_at for plan %s: %w", plan.ID, err)
	}
	plan.Persisted = true
	return plan, nil
}
