package cmd

import (
	"fmt"

	"github.com/linusc17/fitness-planner/internal/export"
	"github.com/spf13/cobra"
)

var (
	exportUser string
	exportPath string
)

var progressExportCmd = &cobra.Command{
	Use:   "progress-export",
	Short: "Write a user's progress logs and totals to an Excel workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, st, err := openStorage()
		if err != nil {
			return err
		}
		defer st.Close()

		entries, err := st.ListProgressLogs(cmd.Context(), exportUser)
		if err != nil {
			return fmt.Errorf("failed to retrieve progress logs: %w", err)
		}

		if err := export.SaveProgress(exportPath, entries, displayLocation(cfg)); err != nil {
			return err
		}
		fmt.Printf("✅ Exported %d workouts to %s\n", len(entries), exportPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(progressExportCmd)
	userFlag(progressExportCmd, &exportUser)
	progressExportCmd.Flags().StringVarP(&exportPath, "out", "o", "progress.xlsx", "Output .xlsx path")
}
