package cmd

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"

	"github.com/ziadkadry99/guilddash/internal/api"
	"github.com/ziadkadry99/guilddash/internal/config"
)

var (
	okColor   = color.New(color.FgGreen)
	failColor = color.New(color.FgRed)
	dimColor  = color.New(color.Faint)
	headColor = color.New(color.Bold)
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `guilddash init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newClient creates the bot API client described by cfg.
func newClient(cfg *config.Config) *api.Client {
	return api.New(cfg.APIBaseURL, api.WithTimeout(cfg.RequestTimeout))
}

// pickGuild asks the user to choose one of guilds.
func pickGuild(guilds []api.Guild) (string, error) {
	switch len(guilds) {
	case 0:
		return "", fmt.Errorf("the bot is not in any guild")
	case 1:
		return guilds[0].ID, nil
	}

	prompt := promptui.Select{
		Label: "Guild",
		Items: guilds,
		Size:  10,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}",
			Active:   "▸ {{ .Name | cyan }} ({{ .ID }})",
			Inactive: "  {{ .Name }} ({{ .ID }})",
			Selected: "Guild: {{ .Name | green }}",
		},
	}
	idx, _, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("selecting guild: %w", err)
	}
	return guilds[idx].ID, nil
}

// resolveGuild returns flagValue, then the configured default guild, and
// finally asks the user to pick one of the bot's guilds.
func resolveGuild(ctx context.Context, client *api.Client, cfg *config.Config, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if cfg.DefaultGuildID != "" {
		return cfg.DefaultGuildID, nil
	}
	guilds, err := client.Guilds(ctx)
	if err != nil {
		return "", fmt.Errorf("listing guilds: %w", err)
	}
	return pickGuild(guilds)
}
