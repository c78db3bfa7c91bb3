package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/guilddash/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a guilddash configuration with an interactive wizard",
	Long:  `Runs an interactive wizard that asks for the bot API address, refresh interval and dashboard port, then writes .guilddash.yml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := config.RunWizard(cfgFile); err != nil {
			return err
		}
		fmt.Printf("Configuration written to %s\n", cfgFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
