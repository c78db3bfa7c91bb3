package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "guilddash",
	Short: "Live web dashboard for a Discord bot's guild data",
	Long: `guilddash serves a per-guild web dashboard for a Discord bot. It polls the
bot's HTTP API for levels, daily check-ins, welcome settings, birthdays,
game stats and server statistics, aggregates them and pushes the rendered
panels to connected browsers. Welcome and leave messages can be toggled
from the dashboard or the command line.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".guilddash.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
