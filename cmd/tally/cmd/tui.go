package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pengelbrecht/tally/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive calculator",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return tui.Run(cfg.GetPrecision())
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
