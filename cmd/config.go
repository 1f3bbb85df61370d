package cmd

import (
	"fmt"
	"strings"

	"github.com/ainize-bot/crowdy/pkg/config"
	"github.com/ainize-bot/crowdy/pkg/tui"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage crowdy configuration",
	Long:  "View or edit your local configuration settings (starting point, default category, backend URL).",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		changed := false

		if setOrigin, _ := cmd.Flags().GetString("set-origin"); setOrigin != "" {
			point, err := parseLatLng(setOrigin)
			if err != nil {
				return fmt.Errorf("invalid origin: %w", err)
			}
			cfg.HomeLat = fmt.Sprintf("%.6f", point.Lat)
			cfg.HomeLng = fmt.Sprintf("%.6f", point.Lng)
			fmt.Printf("✅ Home coordinates saved as: %s, %s\n", cfg.HomeLat, cfg.HomeLng)
			changed = true
		}

		if setCategory, _ := cmd.Flags().GetString("set-category"); setCategory != "" {
			idx, err := resolveCategory(setCategory)
			if err != nil {
				return err
			}
			cfg.DefaultCategory = idx
			fmt.Printf("✅ Default category saved.\n")
			changed = true
		}

		if setURL, _ := cmd.Flags().GetString("set-api-url"); setURL != "" {
			if !strings.HasPrefix(setURL, "http://") && !strings.HasPrefix(setURL, "https://") {
				return fmt.Errorf("backend URL must start with http:// or https://")
			}
			cfg.APIBaseURL = setURL
			fmt.Printf("✅ Backend URL saved as: %s\n", setURL)
			changed = true
		}

		if changed {
			return config.Save(cfg)
		}

		// If no flags are given, launch the interactive TUI flow
		return tui.RunConfigTUI()
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().StringP("set-origin", "s", "", "Set your home coordinates as lat,lng")
	configCmd.Flags().String("set-category", "", "Set the default category by name or index")
	configCmd.Flags().String("set-api-url", "", "Point the client at a different backend deployment")
}
