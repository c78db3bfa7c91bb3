package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to guilddash! Let's connect the dashboard to your bot.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Bot API.
	apiPrompt := promptui.Prompt{
		Label:    "Bot API base URL",
		Default:  cfg.APIBaseURL,
		Validate: validateHTTPURL,
	}
	apiURL, err := apiPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("api base url: %w", err)
	}
	cfg.APIBaseURL = strings.TrimRight(apiURL, "/")

	// 2. Refresh interval.
	items := make([]string, len(intervalChoices))
	cursor := 0
	for i, d := range intervalChoices {
		items[i] = d.String()
		if d == cfg.RefreshInterval {
			cursor = i
		}
	}
	intervalPrompt := promptui.Select{
		Label:     "Refresh interval",
		Items:     items,
		CursorPos: cursor,
	}
	idx, _, err := intervalPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("refresh interval: %w", err)
	}
	cfg.RefreshInterval = intervalChoices[idx]

	// 3. Port.
	portPrompt := promptui.Prompt{
		Label:    "Dashboard port",
		Default:  strconv.Itoa(cfg.Port),
		Validate: validatePort,
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(strings.TrimSpace(portStr))

	// 4. Optional webhook.
	webhookPrompt := promptui.Prompt{
		Label: "Discord webhook for notifications (leave blank to skip)",
		Validate: func(s string) error {
			if s == "" {
				return nil
			}
			return validateHTTPURL(s)
		},
	}
	cfg.NotifyWebhookURL, err = webhookPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("webhook: %w", err)
	}

	// 5. Default guild for the CLI.
	guildPrompt := promptui.Prompt{
		Label: "Default guild ID for CLI commands (leave blank to pick each time)",
	}
	cfg.DefaultGuildID, err = guildPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("default guild: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func validatePort(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("port must be a number")
	}
	if n < 1 || n > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	return nil
}
