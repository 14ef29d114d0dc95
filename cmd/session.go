package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/linusc17/fitness-planner/internal/auth"
	"github.com/spf13/cobra"
)

var sessionUser string

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Issue or revoke API session tokens",
}

var sessionCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Issue a session token for a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		sessions := auth.NewSessions(auth.NewRedisClient(cfg.Redis), cfg.Redis.SessionTTL.Duration)
		defer sessions.Close()

		token, err := sessions.Create(cmd.Context(), sessionUser)
		if err != nil {
			return err
		}

		fmt.Printf("✅ Session created for %s (expires in %s)\n", sessionUser, cfg.Redis.SessionTTL.Duration)
		fmt.Printf("%s: %s\n", color.New(color.FgCyan).Sprint("Token"), token)
		return nil
	},
}

var sessionRevokeCmd = &cobra.Command{
	Use:   "revoke [token]",
	Short: "Revoke a session token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		sessions := auth.NewSessions(auth.NewRedisClient(cfg.Redis), cfg.Redis.SessionTTL.Duration)
		defer sessions.Close()

		if err := sessions.Revoke(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("✅ Session revoked")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionCreateCmd)
	sessionCmd.AddCommand(sessionRevokeCmd)
	userFlag(sessionCreateCmd, &sessionUser)
}
