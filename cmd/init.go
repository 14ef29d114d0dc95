package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var initSetupCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the database tables in the configured database",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Open creates the schema.
		cfg, st, err := openStorage()
		if err != nil {
			return fmt.Errorf("Failed to initialize database: %w", err)
		}
		defer st.Close()

		fmt.Printf("✅ Database initialized successfully at %s\n", redact(cfg.DB.ConnectionString))
		return nil
	},
}

// redact drops the query string, which may carry an auth token.
func redact(conn string) string {
	base, _, _ := strings.Cut(conn, "?")
	return base
}

func init() {
	rootCmd.AddCommand(initSetupCmd)
}
