package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/pengelbrecht/tally/internal/config"
	"github.com/pengelbrecht/tally/internal/server"
)

func writeConfigFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func waitForPrecision(t *testing.T, srv *server.Server, want int) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if srv.Precision() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected precision %d, still %d", want, srv.Precision())
}

func TestFollowConfigUpdatesPrecision(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	writeConfigFile(t, path, `{"version":1,"precision":1}`)

	srv := server.New(zerolog.Nop(), 1)
	w := config.NewWatcher(path)
	if err := w.Start(); err != nil {
		t.Fatalf("start watcher: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		followConfig(ctx, w, srv)
		close(done)
	}()
	defer func() {
		cancel()
		<-done
		w.Stop()
	}()

	t.Run("valid rewrite applies", func(t *testing.T) {
		writeConfigFile(t, path, `{"version":1,"precision":4}`)
		waitForPrecision(t, srv, 4)
	})

	t.Run("invalid rewrite keeps previous precision", func(t *testing.T) {
		writeConfigFile(t, path, `{"version":9,"precision":7}`)
		time.Sleep(500 * time.Millisecond)
		if got := srv.Precision(); got != 4 {
			t.Fatalf("expected precision to stay 4, got %d", got)
		}

		// the watcher keeps going after a bad file
		writeConfigFile(t, path, `{"version":1,"precision":6}`)
		waitForPrecision(t, srv, 6)
	})
}

func TestStartConfigWatcher(t *testing.T) {
	saved := configPath
	t.Cleanup(func() { configPath = saved })

	configPath = filepath.Join(t.TempDir(), "missing", "config.json")
	if w := startConfigWatcher(); w != nil {
		w.Stop()
		t.Fatal("expected no watcher when the config directory is missing")
	}

	configPath = filepath.Join(t.TempDir(), "config.json")
	w := startConfigWatcher()
	if w == nil {
		t.Fatal("expected watcher for existing config directory")
	}
	w.Stop()
}
