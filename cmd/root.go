package cmd

import (
	"fmt"
	"os"

	"github.com/ainize-bot/crowdy/pkg/config"
	"github.com/ainize-bot/crowdy/pkg/crowdy"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "crowdy",
	Short: "A CLI and TUI for finding uncrowded places nearby",
	Long: `crowdy shows how busy supermarkets, malls, restaurants and other
places around you are right now, so you can pick the quiet ones.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		crowdy.SetBaseURL(cfg.APIBaseURL)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
