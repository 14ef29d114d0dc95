package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/linusc17/fitness-planner/internal/models"
	"github.com/spf13/cobra"
)

var (
	calendarUser string
	details      bool // Print each completed workout below the grid.
)

// calendarCmd prints a month grid. Days with completed workouts are colored
// by workout type, with a legend below the calendar.
var calendarCmd = &cobra.Command{
	Use:   "calendar [month] [year]",
	Short: "Display a calendar of workout days with a legend mapping colors to workout types",
	Args:  cobra.RangeArgs(0, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, st, err := openStorage()
		if err != nil {
			return err
		}
		defer st.Close()
		loc := displayLocation(cfg)

		// Default to the current month and year.
		now := time.Now().In(loc)
		month := now.Month()
		year := now.Year()
		if len(args) >= 1 {
			m, err := strconv.Atoi(args[0])
			if err != nil || m < 1 || m > 12 {
				return fmt.Errorf("invalid month: %s", args[0])
			}
			month = time.Month(m)
		}
		if len(args) == 2 {
			y, err := strconv.Atoi(args[1])
			if err != nil || y < 1 {
				return fmt.Errorf("invalid year: %s", args[1])
			}
			year = y
		}

		firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, loc)
		lastOfMonth := firstOfMonth.AddDate(0, 1, -1)

		entries, err := st.ListProgressLogs(cmd.Context(), calendarUser)
		if err != nil {
			return fmt.Errorf("failed to get progress logs: %w", err)
		}

		byDay := make(map[int][]models.ProgressEntry)
		typeSet := make(map[string]bool)
		for _, e := range entries {
			t := e.CompletedAt.In(loc)
			if t.Year() != year || t.Month() != month {
				continue
			}
			byDay[t.Day()] = append(byDay[t.Day()], e)
			typeSet[workoutTypeOf(e)] = true
		}

		var types []string
		for t := range typeSet {
			types = append(types, t)
		}
		sort.Strings(types)

		palette := []color.Attribute{
			color.FgRed, color.FgGreen, color.FgYellow,
			color.FgBlue, color.FgMagenta, color.FgCyan,
		}
		typeColors := make(map[string]func(a ...interface{}) string)
		for i, t := range types {
			typeColors[t] = color.New(palette[i%len(palette)]).SprintFunc()
		}

		header := fmt.Sprintf("%s %d", month.String(), year)
		fmt.Println(centerText(header, 20))
		fmt.Println("Su Mo Tu We Th Fr Sa")

		// 0 = Sunday.
		weekday := int(firstOfMonth.Weekday())
		for i := 0; i < weekday; i++ {
			fmt.Print("   ")
		}

		for day := 1; day <= lastOfMonth.Day(); day++ {
			dayStr := fmt.Sprintf("%2d", day)
			if list, ok := byDay[day]; ok {
				dayStr = typeColors[workoutTypeOf(list[0])](dayStr + "*")
			}
			fmt.Printf("%s ", dayStr)
			weekday++
			if weekday%7 == 0 {
				fmt.Println()
			}
		}
		fmt.Print("\n\n")

		fmt.Println("Legend:")
		for _, t := range types {
			fmt.Printf("  %s: %s\n", typeColors[t]("██"), t)
		}

		if details {
			fmt.Println("\nWorkout Details:")
			var days []int
			for d := range byDay {
				days = append(days, d)
			}
			sort.Ints(days)
			for _, day := range days {
				dayDate := time.Date(year, month, day, 0, 0, 0, 0, loc)
				fmt.Printf("\n%s:\n", dayDate.Format("Mon, 02 Jan 2006"))
				for _, e := range byDay[day] {
					fmt.Printf("  %s (%s) at %s, rated %d/5\n",
						e.PlanName, workoutTypeOf(e), e.CompletedAt.In(loc).Format("15:04"), e.Rating)
				}
			}
		}

		return nil
	},
}

func workoutTypeOf(e models.ProgressEntry) string {
	if strings.TrimSpace(e.WorkoutType) == "" {
		return "Other"
	}
	return e.WorkoutType
}

// centerText centers the given string in a field of the specified width.
func centerText(s string, width int) string {
	if len(s) >= width {
		return s
	}
	padding := (width - len(s)) / 2
	return strings.Repeat(" ", padding) + s
}

func init() {
	rootCmd.AddCommand(calendarCmd)
	userFlag(calendarCmd, &calendarUser)
	calendarCmd.Flags().BoolVarP(&details, "details", "d", false, "Print each completed workout")
}
