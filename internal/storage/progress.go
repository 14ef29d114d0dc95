package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/linusc17/fitness-planner/internal/models"
	"github.com/linusc17/fitness-planner/internal/validation"
)

// SaveProgressLog records a completed workout. The insert only happens when the
// referenced workout plan belongs to userID; otherwise ErrNotFound is returned.
func (s *Storage) SaveProgressLog(ctx context.Context, userID string, log models.ProgressLog) (models.ProgressLog, error) {
	if err := requireUser(userID); err != nil {
		return models.ProgressLog{}, err
	}
	if err := validation.CheckProgressLog(log); err != nil {
		return models.ProgressLog{}, fmt.Errorf("refusing to store progress log: %w", err)
	}

	log.ID = uuid.New().String()
	log.UserID = userID
	log.CompletedAt = log.CompletedAt.UTC()
	log.CreatedAt = s.stamp()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.DB.ExecContext(ctx,
		`INSERT INTO progress_logs
			(id, user_id, workout_plan_id, completed_at, notes, rating, created_at)
			SELECT ?, ?, ?, ?, ?, ?, ?
			WHERE EXISTS (SELECT 1 FROM workout_plans WHERE id = ? AND user_id = ?)`,
		log.ID,
		log.UserID,
		log.WorkoutPlanID,
		formatTime(log.CompletedAt),
		log.Notes,
		log.Rating,
		formatTime(log.CreatedAt),
		log.WorkoutPlanID,
		userID,
	)
	if err != nil {
		return models.ProgressLog{}, fmt.Errorf("Failed to create progress log: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return models.ProgressLog{}, fmt.Errorf("Failed to create progress log: %w", err)
	}
	if n == 0 {
		return models.ProgressLog{}, ErrNotFound
	}
	return log, nil
}

// ListProgressLogs returns userID's logs joined with their workout plan,
// most recently completed first.
func (s *Storage) ListProgressLogs(ctx context.Context, userID string) ([]models.ProgressEntry, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.DB.QueryContext(ctx, `
        SELECT pl.id, pl.user_id, pl.workout_plan_id, pl.completed_at, pl.notes, pl.rating, pl.created_at,
               COALESCE(wp.plan_name, ''), COALESCE(wp.duration, 0),
               COALESCE(wp.difficulty, ''), COALESCE(wp.workout_type, '')
        FROM progress_logs pl
        LEFT JOIN workout_plans wp ON wp.id = pl.workout_plan_id AND wp.user_id = pl.user_id
        WHERE pl.user_id = ?
        ORDER BY pl.completed_at DESC, pl.rowid DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("Failed to query progress logs: %w", err)
	}
	defer rows.Close()

	entries := []models.ProgressEntry{}
	for rows.Next() {
		var e models.ProgressEntry
		var completedAt, createdAt string
		if err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.WorkoutPlanID,
			&completedAt,
			&e.Notes,
			&e.Rating,
			&createdAt,
			&e.PlanName,
			&e.Duration,
			&e.Difficulty,
			&e.WorkoutType,
		); err != nil {
			return nil, fmt.Errorf("Failed to scan progress log: %w", err)
		}
		if e.CompletedAt, err = parseTime(completedAt); err != nil {
			return nil, fmt.Errorf("corrupt completed_at for log %s: %w", e.ID, err)
		}
		if e.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("corrupt created_at for log %s: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
