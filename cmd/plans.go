package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/linusc17/fitness-planner/internal/utils"
	"github.com/spf13/cobra"
)

var (
	plansUser  string
	plansMeals bool
)

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "List a user's saved workout plans (or meal plans with --meals), newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, st, err := openStorage()
		if err != nil {
			return err
		}
		defer st.Close()
		loc := displayLocation(cfg)

		green := color.New(color.FgGreen).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()

		if plansMeals {
			plans, err := st.ListMealPlans(cmd.Context(), plansUser)
			if err != nil {
				return fmt.Errorf("failed to list meal plans: %w", err)
			}
			if len(plans) == 0 {
				fmt.Println("No meal plans yet.")
				return nil
			}
			for _, p := range plans {
				fmt.Printf("%s %s\n", green(p.Name), cyan(fmt.Sprintf("(%d kcal/day)", p.CaloriesTarget)))
				fmt.Printf("   %s | %s\n", p.ID, utils.FormatLocal(p.CreatedAt, loc))
			}
			return nil
		}

		plans, err := st.ListWorkoutPlans(cmd.Context(), plansUser)
		if err != nil {
			return fmt.Errorf("failed to list workout plans: %w", err)
		}
		if len(plans) == 0 {
			fmt.Println("No workout plans yet.")
			return nil
		}
		for _, p := range plans {
			fmt.Printf("%s %s\n", green(p.Name),
				cyan(fmt.Sprintf("(%s, %s, %d min, %d exercises)", p.WorkoutType, p.Difficulty, p.Duration, len(p.Exercises))))
			fmt.Printf("   %s | %s\n", p.ID, utils.FormatLocal(p.CreatedAt, loc))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(plansCmd)
	userFlag(plansCmd, &plansUser)
	plansCmd.Flags().BoolVarP(&plansMeals, "meals", "m", false, "List meal plans instead of workout plans")
}
