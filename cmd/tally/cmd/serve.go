package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pengelbrecht/tally/internal/config"
	"github.com/pengelbrecht/tally/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the calculator over HTTP and websocket",
	Long: `Serve the calculator over HTTP and websocket.

Endpoints:
  GET /healthz                     liveness check
  GET /v1/eval?op=add&a=2&b=3      single evaluation
  GET /ws                          websocket, one JSON request per message

Changes to the config file's precision are picked up without a restart.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, "+config.DefaultServerAddr+")")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.GetAddr()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(log.Logger, cfg.GetPrecision())

	if watcher := startConfigWatcher(); watcher != nil {
		defer watcher.Stop()
		go followConfig(ctx, watcher, srv)
	}

	if err := srv.ListenAndServe(ctx, addr); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// startConfigWatcher returns nil when there is no config directory to watch.
func startConfigWatcher() *config.Watcher {
	if _, err := os.Stat(filepath.Dir(configPath)); err != nil {
		log.Debug().Str("path", configPath).Msg("config directory missing, not watching")
		return nil
	}
	w := config.NewWatcher(configPath)
	if err := w.Start(); err != nil {
		log.Warn().Err(err).Msg("config watcher failed to start")
		return nil
	}
	return w
}

func followConfig(ctx context.Context, w *config.Watcher, srv *server.Server) {
	for {
		select {
		case <-ctx.Done():
			return
		case cfg, ok := <-w.Configs():
			if !ok {
				return
			}
			if p := cfg.GetPrecision(); p != srv.Precision() {
				srv.SetPrecision(p)
			}
		case err, ok := <-w.Errors():
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("config reload failed, keeping previous settings")
		}
	}
}
