package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "getweb.yaml")
	data := `
transport: http
http_addr: ":9090"
fetchlog_db: "db/log.db"
retention:
  days: 7
  vacuum: true
rate_limit:
  rate_per_second: 2
  burst: 4
google:
  api_key: "k"
  engine_id: "cx"
jina:
  api_key: "j"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfigFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Transport != "http" || cfg.HTTPAddr != ":9090" {
		t.Fatalf("transport=%q addr=%q", cfg.Transport, cfg.HTTPAddr)
	}
	if cfg.Retention.Days != 7 || !cfg.Retention.Vacuum {
		t.Fatalf("retention: %+v", cfg.Retention)
	}
	if cfg.RateLimit.RatePerSecond != 2 || cfg.RateLimit.Burst != 4 {
		t.Fatalf("rate limit: %+v", cfg.RateLimit)
	}
	if cfg.Google.APIKey != "k" || cfg.Google.EngineID != "cx" || cfg.Jina.APIKey != "j" {
		t.Fatalf("credentials: %+v", cfg)
	}
	// LogLevel untouched by the file falls back to the default.
	if cfg.LogLevel != "info" {
		t.Fatalf("log level: %q", cfg.LogLevel)
	}
}

func TestApplyDefaults(t *testing.T) {
	var cfg fileConfig
	cfg.applyDefaults()
	if cfg.Transport != "stdio" || cfg.HTTPAddr != ":8080" || cfg.LogLevel != "info" || cfg.Retention.Days != 30 {
		t.Fatalf("defaults: %+v", cfg)
	}
}

func TestLoadConfigFile_Missing(t *testing.T) {
	if _, err := loadConfigFile("/nonexistent/getweb.yaml"); err == nil {
		t.Fatal("missing file accepted")
	}
}
