package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/guilddash/internal/api"
	"github.com/ziadkadry99/guilddash/internal/render"
)

var guildsCmd = &cobra.Command{
	Use:   "guilds",
	Short: "List the guilds the bot can show dashboards for",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		guilds, err := newClient(cfg).Guilds(ctx)
		if err != nil {
			return fmt.Errorf("listing guilds: %w", err)
		}
		if len(guilds) == 0 {
			fmt.Println("The bot is not in any guild yet.")
			return nil
		}
		printGuilds(os.Stdout, guilds)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(guildsCmd)
}

func printGuilds(out io.Writer, guilds []api.Guild) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tMEMBERS")
	for _, g := range guilds {
		fmt.Fprintf(w, "%s\t%s\t%s\n", g.ID, g.Name, render.Comma(int64(g.MemberCount)))
	}
	w.Flush()
}
