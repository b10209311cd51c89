package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const validYAML = `
storage:
  path: "/var/lib/musclememo/data.db"
timezone: "Asia/Tokyo"
export:
  dir: "/tmp/exports"
log:
  level: "debug"
  format: "json"
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestLoadValid verifies that a well-formed YAML config loads with all fields populated.
func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Storage.Path != "/var/lib/musclememo/data.db" {
		t.Errorf("storage.path = %q, want %q", cfg.Storage.Path, "/var/lib/musclememo/data.db")
	}
	if cfg.Export.Dir != "/tmp/exports" {
		t.Errorf("export.dir = %q, want %q", cfg.Export.Dir, "/tmp/exports")
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("log = %+v, want debug/json", cfg.Log)
	}
	loc, err := cfg.Location()
	if err != nil {
		t.Fatalf("Location: %v", err)
	}
	if loc.String() != "Asia/Tokyo" {
		t.Errorf("Location() = %q, want Asia/Tokyo", loc)
	}
}

// TestLoadDefaults verifies an empty path yields the defaults.
func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(cfg.Storage.Path) != "musclememo.db" {
		t.Errorf("storage.path = %q, want a musclememo.db file", cfg.Storage.Path)
	}
	if cfg.Timezone != "Local" || cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("defaults = %+v", cfg)
	}
}

// TestPartialFileKeepsDefaults verifies keys missing from the file keep their defaults.
func TestPartialFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeTemp(t, "timezone: UTC\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Log.Level != "info" || cfg.Export.Dir != "." {
		t.Errorf("log.level = %q, export.dir = %q; want defaults", cfg.Log.Level, cfg.Export.Dir)
	}
}

// TestEnvOverride verifies that MUSCLEMEMO_ env vars take precedence over YAML values.
func TestEnvOverride(t *testing.T) {
	t.Setenv("MUSCLEMEMO_STORAGE_PATH", "/override.db")
	t.Setenv("MUSCLEMEMO_TIMEZONE", "UTC")
	t.Setenv("MUSCLEMEMO_LOG_FORMAT", "text")

	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Storage.Path != "/override.db" {
		t.Errorf("storage.path = %q, want %q", cfg.Storage.Path, "/override.db")
	}
	if cfg.Timezone != "UTC" {
		t.Errorf("timezone = %q, want UTC", cfg.Timezone)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("log.format = %q, want text", cfg.Log.Format)
	}
	// Unchanged fields should keep YAML values
	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q, want debug", cfg.Log.Level)
	}
}

// TestValidationBadTimezone verifies an unknown zone name is rejected.
func TestValidationBadTimezone(t *testing.T) {
	_, err := Load(writeTemp(t, "timezone: Mars/Olympus\n"))
	if err == nil {
		t.Fatal("expected validation error for unknown timezone")
	}
}

// TestValidationBadLogLevel verifies that an unknown log level is rejected.
func TestValidationBadLogLevel(t *testing.T) {
	_, err := Load(writeTemp(t, "log:\n  level: verbose\n"))
	if err == nil {
		t.Fatal("expected validation error for log level")
	}
}

// TestLocalTimezone verifies "Local" resolves to the process zone.
func TestLocalTimezone(t *testing.T) {
	cfg := Default()
	loc, err := cfg.Location()
	if err != nil || loc != time.Local {
		t.Errorf("Location() = %v, %v; want time.Local", loc, err)
	}
}

// TestLoadMissingFile verifies that a missing config file returns a clear error.
func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
