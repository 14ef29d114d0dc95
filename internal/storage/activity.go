package storage

import (
	"context"
	"fmt"
	"sort"

	"github.com/linusc17/fitness-planner/internal/models"
)

// RecentActivity merges the latest limit workouts created, workouts completed
// and meal plans created for userID, newest first.
func (s *Storage) RecentActivity(ctx context.Context, userID string, limit int) ([]models.Activity, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	queries := []struct {
		kind  string
		title string
		query string
	}{
		{
			kind:  models.ActivityWorkoutCreated,
			title: "Created workout plan",
			query: `SELECT id, plan_name, id, created_at FROM workout_plans
				WHERE user_id = ? ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		},
		{
			kind:  models.ActivityWorkoutCompleted,
			title: "Completed workout",
			query: `SELECT pl.id, wp.plan_name, wp.id, pl.completed_at FROM progress_logs pl
				JOIN workout_plans wp ON wp.id = pl.workout_plan_id AND wp.user_id = pl.user_id
				WHERE pl.user_id = ? ORDER BY pl.completed_at DESC, pl.rowid DESC LIMIT ?`,
		},
		{
			kind:  models.ActivityMealPlanCreated,
			title: "Created meal plan",
			query: `SELECT id, plan_name, id, created_at FROM meal_plans
				WHERE user_id = ? ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		},
	}

	activities := []models.Activity{}
	for _, q := range queries {
		rows, err := s.DB.QueryContext(ctx, q.query, userID, limit)
		if err != nil {
			return nil, fmt.Errorf("Failed to query %s activity: %w", q.kind, err)
		}
		for rows.Next() {
			var a models.Activity
			var rowID, ts string
			if err := rows.Scan(&rowID, &a.PlanName, &a.ItemID, &ts); err != nil {
				rows.Close()
				return nil, fmt.Errorf("Failed to scan %s activity: %w", q.kind, err)
			}
			a.ID = q.kind + "_" + rowID
			a.Type = q.kind
			a.Title = q.title
			if a.Timestamp, err = parseTime(ts); err != nil {
				rows.Close()
				return nil, fmt.Errorf("corrupt timestamp for %s: %w", a.ID, err)
			}
			activities = append(activities, a)
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, err
		}
	}

	sort.SliceStable(activities, func(i, j int) bool {
		return activities[i].Timestamp.After(activities[j].Timestamp)
	})
	return activities, nil
}
