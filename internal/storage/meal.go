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

// SaveMealPlan stores plan under userID. Plans without exactly seven complete
// days are refused.
func (s *Storage) SaveMealPlan(ctx context.Context, userID string, plan models.MealPlan) (models.MealPlan, error) {
	if err := requireUser(userID); err != nil {
		return models.MealPlan{}, err
	}
	if err := validation.CheckMealPlan(plan); err != nil {
		return models.MealPlan{}, fmt.Errorf("refusing to store meal plan: %w", err)
	}

	days, err := json.Marshal(plan.Days)
	if err != nil {
		return models.MealPlan{}, fmt.Errorf("Failed to encode meals: %w", err)
	}

	plan.ID = uuid.New().String()
	plan.UserID = userID
	plan.CreatedAt = s.stamp()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err = s.DB.ExecContext(ctx,
		`INSERT INTO meal_plans
			(id, user_id, plan_name, meals, calories_target, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
		plan.ID,
		plan.UserID,
		plan.Name,
		string(days),
		plan.CaloriesTarget,
		formatTime(plan.CreatedAt),
	)
	if err != nil {
		return models.MealPlan{}, fmt.Errorf("Failed to create meal plan: %w", err)
	}

	plan.Persisted = true
	return plan, nil
}

const mealColumns = `id, user_id, plan_name, meals, calories_target, created_at`

func (s *Storage) GetMealPlan(ctx context.Context, userID, id string) (models.MealPlan, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	row := s.DB.QueryRowContext(ctx,
		`SELECT `+mealColumns+` FROM meal_plans WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	plan, err := scanMealPlan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.MealPlan{}, ErrNotFound
	}
	if err != nil {
		return models.MealPlan{}, fmt.Errorf("Failed to get meal plan: %w", err)
	}
	return plan, nil
}

// ListMealPlans returns userID's meal plans, newest first.
func (s *Storage) ListMealPlans(ctx context.Context, userID string) ([]models.MealPlan, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+mealColumns+` FROM meal_plans
		WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("Failed to query meal plans: %w", err)
	}
	defer rows.Close()

	plans := []models.MealPlan{}
	for rows.Next() {
		plan, err := scanMealPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("Failed to scan meal plan: %w", err)
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}

func scanMealPlan(row scanner) (models.MealPlan, error) {
	var plan models.MealPlan
	var days, createdAt string

	err := row.Scan(
		&plan.ID,
		&plan.UserID,
		&plan.Name,
		&days,
		&plan.CaloriesTarget,
		&createdAt,
	)
	if err != nil {
		return models.MealPlan{}, err
	}

	if err := json.Unmarshal([]byte(days), &plan.Days); err != nil {
		return models.MealPlan{}, fmt.Errorf("corrupt meals for plan %s: %w", plan.ID, err)
	}
	if plan.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.MealPlan{}, fmt.Errorf("corrupt created_at for plan %s: %w", plan.ID, err)
	}
	plan.Persisted = true
	return plan, nil
}
