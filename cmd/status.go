package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/linusc17/fitness-planner/internal/models"
	"github.com/linusc17/fitness-planner/internal/utils"
	"github.com/spf13/cobra"
)

var statusUser string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show progress totals, week streak and recent activity",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, st, err := openStorage()
		if err != nil {
			return err
		}
		defer st.Close()
		loc := displayLocation(cfg)

		entries, err := st.ListProgressLogs(cmd.Context(), statusUser)
		if err != nil {
			return fmt.Errorf("failed to retrieve progress logs: %w", err)
		}
		summary := models.Summarize(entries)

		completed := make([]time.Time, 0, len(entries))
		for _, e := range entries {
			completed = append(completed, e.CompletedAt)
		}
		streak := utils.WeekStreak(completed, time.Now(), loc)

		printBoxedHeader("STATUS")
		printMetric("Workouts completed", summary.TotalWorkouts)
		printMetric("Total training time", (time.Duration(summary.TotalMinutes) * time.Minute).String())
		printMetric("Average rating", fmt.Sprintf("%.1f / 5", summary.AverageRating))
		printMetric("Week streak", fmt.Sprintf("%d weeks", streak))
		if p, err := st.GetProfile(cmd.Context(), statusUser); err == nil {
			printMetric("Goal", fmt.Sprintf("%s (%d kcal/day)", p.FitnessGoal, models.DefaultCalories(p.FitnessGoal)))
		}
		fmt.Println()

		activity, err := st.RecentActivity(cmd.Context(), statusUser, 3)
		if err != nil {
			return fmt.Errorf("failed to retrieve recent activity: %w", err)
		}
		fmt.Println(color.New(color.FgGreen, color.Bold).Sprint("Recent activity:"))
		if len(activity) == 0 {
			fmt.Println("  Nothing yet.")
		}
		for _, a := range activity {
			fmt.Printf("  • %s: %s (%s)\n",
				color.New(color.FgMagenta, color.Bold).Sprint(a.Title),
				a.PlanName,
				a.Timestamp.In(loc).Format("Jan 02 15:04"))
		}
		fmt.Println()

		return nil
	},
}

// printBoxedHeader prints the title in a Unicode box with a fixed width.
func printBoxedHeader(title string) {
	width := 40
	cyanBold := color.New(color.FgCyan, color.Bold).SprintFunc()
	border := strings.Repeat("═", width)
	fmt.Println(cyanBold("╔" + border + "╗"))
	fmt.Println(cyanBold("║" + padCenter(title, width) + "║"))
	fmt.Println(cyanBold("╚" + border + "╝"))
}

func padCenter(s string, width int) string {
	if len(s) >= width {
		return s
	}
	padding := (width - len(s)) / 2
	return strings.Repeat(" ", padding) + s + strings.Repeat(" ", width-len(s)-padding)
}

// printMetric prints a label and value using bold yellow for the label.
func printMetric(label string, value interface{}) {
	yellowBold := color.New(color.FgYellow, color.Bold).SprintFunc()
	fmt.Printf("  %s: %v\n", yellowBold(label), value)
}

func init() {
	rootCmd.AddCommand(statusCmd)
	userFlag(statusCmd, &statusUser)
}
