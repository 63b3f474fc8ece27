package cmd

import (
	"errors"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pengelbrecht/tally/internal/config"
	"github.com/pengelbrecht/tally/internal/logging"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "tally",
	Short: "A small calculator",
	Long: `tally evaluates binary arithmetic from the command line, an interactive
terminal UI, or a websocket service.

Negative operands must follow "--" so they are not read as flags:
  tally subtract -- -1 5`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logging.ConfigureRuntime(cfg.Log.GetLevel())
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", filepath.Join(".tally", "config.json"), "path to config file (.json or .toml)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func loadConfig() (config.Config, error) {
	return config.LoadOrDefault(configPath)
}

// usageError marks errors caused by bad invocation rather than failed work.
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ue usageError
	if errors.As(err, &ue) {
		return 2
	}
	return 1
}
