package cmd

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/linusc17/fitness-planner/internal/models"
	"github.com/linusc17/fitness-planner/internal/utils"
	"github.com/spf13/cobra"
)

var (
	historyUser string
	filterPlan  string
	filterType  string
	filterDay   string
)

// historyCmd shows completed workouts grouped by plan and day.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Display completed workouts, optionally filtered by plan name, workout type and/or day",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, st, err := openStorage()
		if err != nil {
			return err
		}
		defer st.Close()
		loc := displayLocation(cfg)

		entries, err := st.ListProgressLogs(cmd.Context(), historyUser)
		if err != nil {
			return fmt.Errorf("failed to retrieve progress logs: %w", err)
		}

		var day string
		if filterDay != "" {
			parsed, err := time.Parse(time.DateOnly, filterDay)
			if err != nil {
				parsed, err = time.Parse("02/01/06", filterDay)
			}
			if err != nil {
				return fmt.Errorf("failed to parse day: %w", err)
			}
			day = parsed.Format(time.DateOnly)
		}

		// Case insensitive filtering.
		var filtered []models.ProgressEntry
		for _, e := range entries {
			if filterPlan != "" && !strings.EqualFold(e.PlanName, filterPlan) {
				continue
			}
			if filterType != "" && !strings.EqualFold(e.WorkoutType, filterType) {
				continue
			}
			if day != "" && utils.DayKey(e.CompletedAt, loc) != day {
				continue
			}
			filtered = append(filtered, e)
		}

		grouped := make(map[string]map[string][]models.ProgressEntry)
		for _, e := range filtered {
			name := e.PlanName
			if name == "" {
				name = "Unknown"
			}
			if _, ok := grouped[name]; !ok {
				grouped[name] = make(map[string][]models.ProgressEntry)
			}
			d := utils.DayKey(e.CompletedAt, loc)
			grouped[name][d] = append(grouped[name][d], e)
		}

		var planKeys []string
		for p := range grouped {
			planKeys = append(planKeys, p)
		}
		sort.Strings(planKeys)
		for _, plan := range planKeys {
			fmt.Printf("Plan: %s\n", plan)
			var days []string
			for d := range grouped[plan] {
				days = append(days, d)
			}
			sort.Strings(days)
			for _, d := range days {
				fmt.Printf("  Date: %s\n", d)
				list := grouped[plan][d]
				sort.Slice(list, func(i, j int) bool {
					return list[i].CompletedAt.Before(list[j].CompletedAt)
				})
				for _, e := range list {
					fmt.Printf("    %s | %d min | Rating: %s",
						e.CompletedAt.In(loc).Format("15:04"),
						e.Duration,
						strings.Repeat("★", e.Rating)+strings.Repeat("☆", 5-e.Rating),
					)
					if e.Notes != "" {
						fmt.Printf(" | %s", e.Notes)
					}
					fmt.Println()
				}
			}
			fmt.Println()
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	userFlag(historyCmd, &historyUser)
	historyCmd.Flags().StringVarP(&filterPlan, "plan", "p", "", "Filter by plan name (case insensitive)")
	historyCmd.Flags().StringVarP(&filterType, "type", "t", "", "Filter by workout type (case insensitive)")
	historyCmd.Flags().StringVarP(&filterDay, "day", "d", "", "Filter by day (e.g. 2026-10-19 or 19/10/26)")
}
