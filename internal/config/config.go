// Package config loads label-ocr settings from an optional YAML file and
// LABEL_OCR_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/ironsheep/label-ocr/internal/imaging"
	"github.com/ironsheep/label-ocr/internal/pipeline"
)

// EnvPrefix is prepended to environment variable overrides, e.g.
// LABEL_OCR_LEDGER_PATH or LABEL_OCR_PREPROCESS_ENABLED.
const EnvPrefix = "LABEL_OCR"

// Config holds every setting the pipeline and its collaborators need.
// It is passed explicitly; nothing reads process-wide paths.
type Config struct {
	// LedgerPath is the .xlsx workbook records are appended to.
	LedgerPath string `mapstructure:"ledger_path"`

	// UploadDir receives uploaded images and kept captures.
	UploadDir string `mapstructure:"upload_dir"`

	// KeepCaptures stores decoded data-URL captures in UploadDir.
	KeepCaptures bool `mapstructure:"keep_captures"`

	Language       string `mapstructure:"language"`
	TessdataPrefix string `mapstructure:"tessdata_prefix"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`

	// SaveAttempts bounds how often a failed ledger append is retried.
	SaveAttempts uint `mapstructure:"save_attempts"`

	Preprocess imaging.PreprocessOptions `mapstructure:"preprocess"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		LedgerPath:   "ocr_data.xlsx",
		UploadDir:    "uploads",
		KeepCaptures: true,
		Language:     "eng",
		LogLevel:     "info",
		SaveAttempts: 1,
		Preprocess:   imaging.DefaultPreprocessOptions(),
	}
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	if c.LedgerPath == "" {
		return errors.New("ledger_path must not be empty")
	}
	if c.UploadDir == "" {
		return errors.New("upload_dir must not be empty")
	}
	if c.SaveAttempts < 1 {
		return errors.New("save_attempts must be at least 1")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}

// Pipeline returns the I/O settings a pipeline.Pipeline runs with.
func (c *Config) Pipeline() pipeline.Config {
	return pipeline.Config{
		LedgerPath:   c.LedgerPath,
		UploadDir:    c.UploadDir,
		KeepCaptures: c.KeepCaptures,
		SaveAttempts: c.SaveAttempts,
		Preprocess:   c.Preprocess,
	}
}

// SlogLevel maps LogLevel onto a slog.Level; unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	v *viper.Viper

	mu        sync.RWMutex
	config    *Config
	callbacks []func(*Config)
}

// NewManager creates a config manager and loads the initial config.
// cfgFile may be empty, in which case ./label-ocr.yaml and
// $HOME/.label-ocr/label-ocr.yaml are tried; a missing file is not an error.
func NewManager(cfgFile string) (*Manager, error) {
	cm := &Manager{
		v:         viper.New(),
		callbacks: make([]func(*Config), 0),
	}

	if err := cm.initViper(cfgFile); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg

	return cm, nil
}

// initViper sets up viper with defaults, env overrides and the config file.
func (cm *Manager) initViper(cfgFile string) error {
	v := cm.v
	d := DefaultConfig()

	v.SetDefault("ledger_path", d.LedgerPath)
	v.SetDefault("upload_dir", d.UploadDir)
	v.SetDefault("keep_captures", d.KeepCaptures)
	v.SetDefault("language", d.Language)
	v.SetDefault("tessdata_prefix", d.TessdataPrefix)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("save_attempts", d.SaveAttempts)
	v.SetDefault("preprocess.enabled", d.Preprocess.Enabled)
	v.SetDefault("preprocess.min_width", d.Preprocess.MinWidth)
	v.SetDefault("preprocess.contrast", d.Preprocess.Contrast)
	v.SetDefault("preprocess.sharpen", d.Preprocess.Sharpen)
	v.SetDefault("preprocess.invert_dark", d.Preprocess.InvertDark)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("label-ocr")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.label-ocr")
	}

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// load parses the current viper state into a validated Config.
func (cm *Manager) load() (*Config, error) {
	var cfg Config
	if err := cm.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Get returns the current configuration (thread-safe).
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// ConfigFile returns the file the config was read from, or "" if defaults
// and environment variables alone were used.
func (cm *Manager) ConfigFile() string {
	return cm.v.ConfigFileUsed()
}

// OnChange registers a callback for config changes.
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// Watch enables hot-reloading of the config file. Reloads that fail to
// parse or validate are reported to onError and the previous config is kept.
func (cm *Manager) Watch(onError func(error)) {
	cm.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cm.reload(onError)
	})
	cm.v.WatchConfig()
}

func (cm *Manager) reload(onError func(error)) {
	cfg, err := cm.load()
	if err != nil {
		if onError != nil {
			onError(err)
		}
		return
	}

	cm.mu.Lock()
	cm.config = cfg
	callbacks := make([]func(*Config), len(cm.callbacks))
	copy(callbacks, cm.callbacks)
	cm.mu.Unlock()

	for _, fn := range callbacks {
		fn(cfg)
	}
}
