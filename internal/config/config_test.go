package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "label-ocr.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.LedgerPath != "ocr_data.xlsx" {
		t.Errorf("LedgerPath = %q", cfg.LedgerPath)
	}
	if cfg.UploadDir != "uploads" {
		t.Errorf("UploadDir = %q", cfg.UploadDir)
	}
	if cfg.SaveAttempts != 1 {
		t.Errorf("SaveAttempts = %d, want 1", cfg.SaveAttempts)
	}
	if cfg.Preprocess.Enabled {
		t.Error("preprocessing should be off by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty ledger path", func(c *Config) { c.LedgerPath = "" }},
		{"empty upload dir", func(c *Config) { c.UploadDir = "" }},
		{"zero attempts", func(c *Config) { c.SaveAttempts = 0 }},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestNewManager(t *testing.T) {
	t.Run("loads from config file", func(t *testing.T) {
		dir := t.TempDir()
		path := writeConfig(t, dir, `
ledger_path: /data/labels.xlsx
upload_dir: /data/uploads
language: deu
log_level: debug
save_attempts: 3
preprocess:
  enabled: true
  min_width: 1600
`)

		cm, err := NewManager(path)
		if err != nil {
			t.Fatalf("NewManager failed: %v", err)
		}

		cfg := cm.Get()
		if cfg.LedgerPath != "/data/labels.xlsx" {
			t.Errorf("LedgerPath = %q", cfg.LedgerPath)
		}
		if cfg.UploadDir != "/data/uploads" {
			t.Errorf("UploadDir = %q", cfg.UploadDir)
		}
		if cfg.Language != "deu" || cfg.LogLevel != "debug" {
			t.Errorf("Language/LogLevel = %q/%q", cfg.Language, cfg.LogLevel)
		}
		if cfg.SaveAttempts != 3 {
			t.Errorf("SaveAttempts = %d, want 3", cfg.SaveAttempts)
		}
		if !cfg.Preprocess.Enabled || cfg.Preprocess.MinWidth != 1600 {
			t.Errorf("Preprocess = %+v", cfg.Preprocess)
		}
		// Unset nested keys keep their defaults
		if !cfg.Preprocess.InvertDark {
			t.Error("InvertDark default lost")
		}
		if cm.ConfigFile() != path {
			t.Errorf("ConfigFile() = %q, want %q", cm.ConfigFile(), path)
		}
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("LABEL_OCR_LEDGER_PATH", "/env/ledger.xlsx")
		t.Setenv("LABEL_OCR_PREPROCESS_ENABLED", "true")

		dir := t.TempDir()
		path := writeConfig(t, dir, "ledger_path: /file/ledger.xlsx\n")

		cm, err := NewManager(path)
		if err != nil {
			t.Fatalf("NewManager failed: %v", err)
		}
		if got := cm.Get().LedgerPath; got != "/env/ledger.xlsx" {
			t.Errorf("LedgerPath = %q, want env value", got)
		}
		if !cm.Get().Preprocess.Enabled {
			t.Error("nested env override not applied")
		}
	})

	t.Run("invalid values rejected", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "log_level: chatty\n")
		if _, err := NewManager(path); err == nil {
			t.Error("expected error for invalid log level")
		}
	})

	t.Run("malformed file rejected", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "ledger_path: [unterminated\n")
		if _, err := NewManager(path); err == nil {
			t.Error("expected error for malformed YAML")
		}
	})

	t.Run("missing explicit file rejected", func(t *testing.T) {
		if _, err := NewManager(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
			t.Error("expected error for missing explicit config file")
		}
	})
}

func TestManager_Reload(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "ledger_path: first.xlsx\n")

	cm, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	var seen []string
	cm.OnChange(func(c *Config) { seen = append(seen, c.LedgerPath) })

	writeConfig(t, dir, "ledger_path: second.xlsx\n")
	if err := cm.v.ReadInConfig(); err != nil {
		t.Fatal(err)
	}
	cm.reload(nil)

	if got := cm.Get().LedgerPath; got != "second.xlsx" {
		t.Errorf("LedgerPath after reload = %q", got)
	}
	if len(seen) != 1 || seen[0] != "second.xlsx" {
		t.Errorf("callbacks saw %v", seen)
	}

	// A bad reload keeps the previous config
	writeConfig(t, dir, "save_attempts: 0\n")
	if err := cm.v.ReadInConfig(); err != nil {
		t.Fatal(err)
	}
	var reloadErr error
	cm.reload(func(err error) { reloadErr = err })

	if reloadErr == nil {
		t.Error("expected reload error")
	}
	if got := cm.Get().LedgerPath; got != "second.xlsx" {
		t.Errorf("config replaced after failed reload: %q", got)
	}
}

func TestConfig_Pipeline(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LedgerPath = "/data/labels.xlsx"
	cfg.KeepCaptures = false
	cfg.SaveAttempts = 3

	p := cfg.Pipeline()
	if p.LedgerPath != cfg.LedgerPath || p.UploadDir != cfg.UploadDir {
		t.Errorf("paths not carried over: %+v", p)
	}
	if p.KeepCaptures || p.SaveAttempts != 3 {
		t.Errorf("flags not carried over: %+v", p)
	}
	if p.Preprocess != cfg.Preprocess {
		t.Errorf("Preprocess = %+v", p.Preprocess)
	}
}

func TestConfig_SlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
	}
	for in, want := range tests {
		cfg := Config{LogLevel: in}
		if got := cfg.SlogLevel(); got != want {
			t.Errorf("SlogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
