package tui

import (
	"fmt"
	"strings"

	"github.com/ainize-bot/crowdy/pkg/config"
	"github.com/ainize-bot/crowdy/pkg/pipeline"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// RunConfigTUI launches the interactive experience for managing configurations
func RunConfigTUI() error {
	for {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		var action string

		initialForm := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Configuration Settings").
					Options(
						huh.NewOption("Set Accent Color (Theme)", "theme"),
						huh.NewOption("Set Home Coordinates (Starting Point)", "home"),
						huh.NewOption("Set Default Category", "category"),
						huh.NewOption("Set Backend URL", "backend"),
						huh.NewOption("View Current Config", "view"),
						huh.NewOption("Back to Main Menu", "back"),
					).
					Value(&action),
			),
		).WithTheme(GetTheme())

		if err := initialForm.Run(); err != nil {
			return err
		}

		if action == "back" {
			return nil
		}

		if action == "theme" {
			err = runSetThemeTUI(cfg)
		} else if action == "home" {
			err = runSetHomeTUI(cfg)
		} else if action == "category" {
			err = runSetCategoryTUI(cfg)
		} else if action == "backend" {
			err = runSetBackendTUI(cfg)
		} else if action == "view" {
			fmt.Println(accentStyle.Render("\n--- Current Configuration (~/.crowdy.json) ---"))
			if cfg.HomeLat == "" {
				fmt.Println("Home Coordinates: Not set")
			} else {
				fmt.Printf("Home Coordinates: %s, %s\n", cfg.HomeLat, cfg.HomeLng)
			}

			fmt.Printf("Default Category: %s\n", pipeline.Categories[clampCategory(cfg.DefaultCategory)])
			if cfg.APIBaseURL != "" {
				fmt.Printf("Backend URL: %s\n", cfg.APIBaseURL)
			}
			fmt.Printf("Accent Color: %s\n", cfg.AccentColor)
			fmt.Println()
		}

		if err != nil {
			return err
		}
	}
}

func clampCategory(c int) int {
	if c < 0 || c >= len(pipeline.Categories) {
		return 0
	}
	return c
}

func runSetCategoryTUI(cfg *config.AppConfig) error {
	selected := clampCategory(cfg.DefaultCategory)

	options := make([]huh.Option[int], len(pipeline.Categories))
	for i, name := range pipeline.Categories {
		options[i] = huh.NewOption(name, i)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Select the category shown when a session starts").
				Options(options...).
				Value(&selected),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return err
	}

	cfg.DefaultCategory = selected
	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Println(accentStyle.Render(fmt.Sprintf("\n✅ Default category changed to: %s\n", pipeline.Categories[selected])))
	return nil
}

func runSetHomeTUI(cfg *config.AppConfig) error {
	var input string

	inputForm := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Enter your home coordinates").
				Description("Saved as the starting point for sessions without geolocation.").
				Placeholder("1.3521,103.8198").
				Value(&input).
				Validate(func(v string) error {
					if v == "" {
						return nil
					}
					_, err := parseCoords(v)
					return err
				}),
		),
	).WithTheme(GetTheme())

	if err := inputForm.Run(); err != nil {
		return err
	}

	if input == "" {
		fmt.Println("Operation cancelled: No coordinates provided.")
		return nil
	}

	point, err := parseCoords(input)
	if err != nil {
		return err
	}

	cfg.HomeLat = fmt.Sprintf("%.6f", point.Lat)
	cfg.HomeLng = fmt.Sprintf("%.6f", point.Lng)

	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Println(accentStyle.Render(fmt.Sprintf("\n✅ Successfully saved home coordinates: %s, %s\n", cfg.HomeLat, cfg.HomeLng)))
	return nil
}

func runSetBackendTUI(cfg *config.AppConfig) error {
	input := cfg.APIBaseURL

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Backend base URL").
				Description("Leave empty for the public deployment. CROWDY_API_URL overrides this.").
				Placeholder("http://localhost:5000").
				Value(&input).
				Validate(func(v string) error {
					if v != "" && !strings.HasPrefix(v, "http://") && !strings.HasPrefix(v, "https://") {
						return fmt.Errorf("must start with http:// or https://")
					}
					return nil
				}),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return err
	}

	cfg.APIBaseURL = input
	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Println(accentStyle.Render("\n✅ Backend URL saved.\n"))
	return nil
}

func colorBlock(color string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("██")
}

func runSetThemeTUI(cfg *config.AppConfig) error {
	var input string

	inputForm := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Choose an Accent Color for crowdy").
				Description("Select a curated Charm style or choose Custom to enter your own Hex.").
				Options(
					huh.NewOption(fmt.Sprintf("%s Crowdy Teal", colorBlock("43")), "43"),
					huh.NewOption(fmt.Sprintf("%s Sakura Pink", colorBlock("205")), "205"),
					huh.NewOption(fmt.Sprintf("%s Ocean Blue", colorBlock("86")), "86"),
					huh.NewOption(fmt.Sprintf("%s Matrix Green", colorBlock("42")), "42"),
					huh.NewOption("✨ Custom Hex Code", "custom"),
				).
				Value(&input),
		),
	).WithTheme(GetTheme())

	if err := inputForm.Run(); err != nil {
		return err
	}

	if input == "custom" {
		var hexInput string
		hexForm := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Enter a Hex Color Code").
					Description("Include the `#` symbol. Example: #FF00FF").
					Placeholder("#").
					Value(&hexInput).
					Validate(func(str string) error {
						if len(str) != 7 || !strings.HasPrefix(str, "#") {
							return fmt.Errorf("must be a valid 6-character hex code starting with #")
						}
						return nil
					}),
			),
		).WithTheme(GetTheme())

		if err := hexForm.Run(); err != nil {
			return err
		}
		cfg.AccentColor = hexInput
	} else {
		cfg.AccentColor = input
	}

	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Println(accentStyle.Render("\n✅ Beautiful! The theme color is now saved.\n"))
	return nil
}
