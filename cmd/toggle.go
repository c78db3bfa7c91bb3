package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/guilddash/internal/api"
	"github.com/ziadkadry99/guilddash/internal/render"
	"github.com/ziadkadry99/guilddash/internal/toggle"
)

var toggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Enable or disable welcome or leave messages for a guild",
	RunE:  runToggle,
}

func init() {
	toggleCmd.Flags().String("guild", "", "guild id (defaults to default_guild_id, then a picker)")
	toggleCmd.Flags().String("feature", "", "feature to toggle: welcome or leave")
	toggleCmd.Flags().Bool("enabled", true, "enable (true) or disable (false) the feature")
	toggleCmd.MarkFlagRequired("feature")
	rootCmd.AddCommand(toggleCmd)
}

func runToggle(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	feature, _ := cmd.Flags().GetString("feature")
	enabled, _ := cmd.Flags().GetBool("enabled")
	guildFlag, _ := cmd.Flags().GetString("guild")

	f := api.Feature(feature)
	if !f.Valid() {
		return fmt.Errorf("--feature must be %q or %q", api.FeatureWelcome, api.FeatureLeave)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client := newClient(cfg)

	guildID, err := resolveGuild(ctx, client, cfg, guildFlag)
	if err != nil {
		return err
	}

	// No page to update here; switch renders go to an empty board.
	ctrl := toggle.New(guildID, client, nil, render.NewBoard(nil, nil), nil)
	t := ctrl.Toggle(ctx, f, enabled)
	if t.Phase != toggle.PhaseConfirmed {
		return errors.New(t.Message)
	}
	okColor.Println("✓ " + t.Message)
	return nil
}
