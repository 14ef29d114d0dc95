package cmd

import (
	"fmt"

	"github.com/linusc17/fitness-planner/internal/storage"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [output-file]",
	Short: "Export all the database data to a TOML file (default ~/.config/fitness-planner/db_dump.toml)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outputFile, err := dumpPath(args)
		if err != nil {
			return err
		}

		_, st, err := openStorage()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.ExportDump(cmd.Context(), outputFile); err != nil {
			return fmt.Errorf("error exporting database: %w", err)
		}

		fmt.Printf("✅ Database exported successfully to %s\n", outputFile)
		return nil
	},
}

var buildDBCmd = &cobra.Command{
	Use:   "build-db [dump-file]",
	Short: "Build the entire database from the given TOML dump file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dumpFile, err := dumpPath(args)
		if err != nil {
			return err
		}

		_, st, err := openStorage()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.ImportDump(cmd.Context(), dumpFile); err != nil {
			return fmt.Errorf("Failed to build database: %w", err)
		}
		fmt.Println("✅ Database built successfully from TOML dump.")
		return nil
	},
}

// dumpPath is the optional path argument, or ~/.config/fitness-planner/db_dump.toml.
func dumpPath(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	return storage.DefaultDumpPath()
}

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(buildDBCmd)
}
