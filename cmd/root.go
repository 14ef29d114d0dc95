package cmd

import (
	"fmt"
	"time"

	"github.com/linusc17/fitness-planner/internal/config"
	"github.com/linusc17/fitness-planner/internal/storage"
	"github.com/linusc17/fitness-planner/internal/utils"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "fitness-planner",
	Short: "AI workout and Filipino meal planner",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default ~/.config/fitness-planner/config.toml)")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if cfg.DB.ConnectionString == "" {
		return nil, fmt.Errorf("database.connection_string is not set (use TURSO_DATABASE_URL or DEV_MODE=true)")
	}
	return cfg, nil
}

// openStorage loads the config and connects to the configured database.
func openStorage() (*config.Config, *storage.Storage, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	st, err := storage.Open(cfg.DB.ConnectionString, cfg.DB.AuthToken, cfg.DB.Timeout.Duration)
	if err != nil {
		return nil, nil, err
	}
	return cfg, st, nil
}

func displayLocation(cfg *config.Config) *time.Location {
	loc, err := utils.LoadLocation(cfg.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// userFlag registers the --user flag every per-user command takes.
func userFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "user", "u", "", "User id (required)")
	cmd.MarkFlagRequired("user")
}
