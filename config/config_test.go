package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDecode(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := Decode("")
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Server.Port != 4000 {
			t.Errorf("expected port 4000; got %d", cfg.Server.Port)
		}
		if cfg.Cache.SummaryTTL != time.Minute {
			t.Errorf("expected summary ttl 1m; got %s", cfg.Cache.SummaryTTL)
		}
		if cfg.OpenLibrary.Timeout != 10*time.Second {
			t.Errorf("expected openlibrary timeout 10s; got %s", cfg.OpenLibrary.Timeout)
		}
		if !cfg.Limiter.Enabled {
			t.Error("expected limiter to be enabled by default")
		}
	})

	t.Run("File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		body := []byte("server:\n  port: 8080\n  env: staging\ndatabase:\n  dsn: postgres://catalog@localhost/catalog\nsmtp:\n  notify: desk@library.test\n")
		if err := os.WriteFile(path, body, 0o600); err != nil {
			t.Fatal(err)
		}
		cfg, err := Decode(path)
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Server.Port != 8080 || cfg.Server.Env != "staging" {
			t.Errorf("unexpected server section: %+v", cfg.Server)
		}
		if cfg.Database.DSN != "postgres://catalog@localhost/catalog" {
			t.Errorf("unexpected dsn %q", cfg.Database.DSN)
		}
		if cfg.Smtp.Notify != "desk@library.test" {
			t.Errorf("unexpected notify recipient %q", cfg.Smtp.Notify)
		}
	})

	t.Run("Env overrides file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		if err := os.WriteFile(path, []byte("server:\n  port: 8080\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		t.Setenv("PORT", "9090")
		cfg, err := Decode(path)
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Server.Port != 9090 {
			t.Errorf("expected port 9090; got %d", cfg.Server.Port)
		}
	})
}
