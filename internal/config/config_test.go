package config

import (
	"os"
	"path/filepath"
	"testing"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	if cfg.Version != DefaultVersion {
		t.Fatalf("expected version %d, got %d", DefaultVersion, cfg.Version)
	}
	if cfg.GetPrecision() != DefaultPrecision {
		t.Fatalf("expected precision %d, got %d", DefaultPrecision, cfg.GetPrecision())
	}
	if cfg.Server.GetAddr() != DefaultServerAddr {
		t.Fatalf("expected addr %s, got %s", DefaultServerAddr, cfg.Server.GetAddr())
	}
	if cfg.Log.GetLevel() != DefaultLogLevel {
		t.Fatalf("expected log level %s, got %s", DefaultLogLevel, cfg.Log.GetLevel())
	}
}

func TestLoadMissingConfig(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "config.json"))
	if err == nil {
		t.Fatalf("expected error for missing config")
	}
}

func TestLoadOrDefaultMissingConfig(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Version != DefaultVersion {
		t.Fatalf("expected default version, got %d", cfg.Version)
	}
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Version != DefaultVersion {
		t.Fatalf("expected default version %d, got %d", DefaultVersion, cfg.Version)
	}
	if cfg.GetPrecision() != DefaultPrecision {
		t.Fatalf("expected default precision, got %d", cfg.GetPrecision())
	}
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	data := "version = 1\nprecision = 3\n\n[server]\naddr = \":9000\"\n\n[log]\nlevel = \"debug\"\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.GetPrecision() != 3 {
		t.Fatalf("expected precision 3, got %d", cfg.GetPrecision())
	}
	if cfg.Server.GetAddr() != ":9000" {
		t.Fatalf("expected addr :9000, got %s", cfg.Server.GetAddr())
	}
	if cfg.Log.GetLevel() != "debug" {
		t.Fatalf("expected log level debug, got %s", cfg.Log.GetLevel())
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"default", Default(), false},
		{"shortest precision", Config{Version: 1, Precision: intPtr(-1)}, false},
		{"max precision", Config{Version: 1, Precision: intPtr(MaxPrecision)}, false},
		{"precision too low", Config{Version: 1, Precision: intPtr(-2)}, true},
		{"precision too high", Config{Version: 1, Precision: intPtr(16)}, true},
		{"bad version", Config{Version: 2}, true},
		{"bad log level", Config{Version: 1, Log: &LogConfig{Level: strPtr("loud")}}, true},
		{"warn log level", Config{Version: 1, Log: &LogConfig{Level: strPtr("WARN")}}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{"precision": 99}`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error")
	}

	if err := os.WriteFile(path, []byte(`{not json`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadOrDefault(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	for _, name := range []string{"config.json", "config.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ".tally", name)

			cfg := Config{
				Version:   DefaultVersion,
				Precision: intPtr(4),
				Server:    &ServerConfig{Addr: strPtr("localhost:8080")},
			}
			if err := Save(path, cfg); err != nil {
				t.Fatalf("save config: %v", err)
			}

			loaded, err := Load(path)
			if err != nil {
				t.Fatalf("load config: %v", err)
			}
			if loaded.GetPrecision() != 4 {
				t.Fatalf("expected precision 4, got %d", loaded.GetPrecision())
			}
			if loaded.Server.GetAddr() != "localhost:8080" {
				t.Fatalf("expected addr localhost:8080, got %s", loaded.Server.GetAddr())
			}
		})
	}
}
