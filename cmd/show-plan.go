package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/linusc17/fitness-planner/internal/models"
	"github.com/linusc17/fitness-planner/internal/utils"
	"github.com/spf13/cobra"
)

var (
	showUser  string
	dayFilter string // Optional day filter for meal plans.
)

var showWorkoutCmd = &cobra.Command{
	Use:   "show-workout [plan-id]",
	Short: "Display a saved workout plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, st, err := openStorage()
		if err != nil {
			return err
		}
		defer st.Close()

		plan, err := st.GetWorkoutPlan(cmd.Context(), showUser, args[0])
		if err != nil {
			return fmt.Errorf("failed to load workout plan: %w", err)
		}

		green := color.New(color.FgGreen).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()

		fmt.Printf("\n%s\n", green(strings.ToUpper(plan.Name)))
		fmt.Printf("%s: %s\n", cyan("Type"), plan.WorkoutType)
		fmt.Printf("%s: %s\n", cyan("Difficulty"), plan.Difficulty)
		fmt.Printf("%s: %d min\n", cyan("Duration"), plan.Duration)
		fmt.Printf("%s: %s\n", cyan("Created At"), utils.FormatLocal(plan.CreatedAt, displayLocation(cfg)))
		fmt.Println(strings.Repeat("=", 60))

		for i, ex := range plan.Exercises {
			fmt.Printf("%d. %s\n", i+1, ex.Name)
			fmt.Printf("   %s: %d x %s\n", cyan("Target"), ex.Sets, ex.Reps)
			fmt.Printf("   %s: %s\n", cyan("Rest"), ex.Rest)
			fmt.Printf("   %s: %s\n", cyan("Notes"), ex.Description)
		}
		fmt.Println()
		return nil
	},
}

var showMealCmd = &cobra.Command{
	Use:   "show-meal [plan-id]",
	Short: "Display a saved meal plan (optionally filter by day)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, st, err := openStorage()
		if err != nil {
			return err
		}
		defer st.Close()

		plan, err := st.GetMealPlan(cmd.Context(), showUser, args[0])
		if err != nil {
			return fmt.Errorf("failed to load meal plan: %w", err)
		}

		green := color.New(color.FgGreen).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()

		fmt.Printf("\n%s\n", green(strings.ToUpper(plan.Name)))
		fmt.Printf("%s: %d kcal\n", cyan("Daily target"), plan.CaloriesTarget)
		fmt.Println(strings.Repeat("=", 60))

		for _, day := range plan.Days {
			if dayFilter != "" && !strings.EqualFold(day.Day, dayFilter) {
				continue
			}

			fmt.Printf("\n%s\n", yellow(day.Day))
			fmt.Println(strings.Repeat("-", 60))
			total := 0
			for _, slot := range models.MealSlots {
				m := day.Meals.Slot(slot)
				total += m.Calories
				fmt.Printf("%-10s %s (%d kcal)\n", cyan(slot), m.Name, m.Calories)
				fmt.Printf("           %s\n", m.Description)
			}
			fmt.Printf("%s: %d kcal\n", cyan("Total"), total)
		}
		fmt.Println()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showWorkoutCmd)
	rootCmd.AddCommand(showMealCmd)
	userFlag(showWorkoutCmd, &showUser)
	userFlag(showMealCmd, &showUser)
	showMealCmd.Flags().StringVarP(&dayFilter, "day", "d", "", "Filter by day (e.g. Monday)")
}
