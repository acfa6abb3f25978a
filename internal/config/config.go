// Package config manages application configuration from various sources.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/marcozac/go-jsonc"
	"github.com/spf13/viper"
)

// Data defines where counters, logs and the SQLite store live.
type Data struct {
	Directory string `json:"directory,omitempty"`
}

// TUIConfig defines the configuration for the Terminal User Interface.
type TUIConfig struct {
	Theme string `json:"theme,omitempty"`
}

// QRConfig holds the generation defaults.
type QRConfig struct {
	DefaultSize   string `json:"defaultSize,omitempty"`
	DefaultColor  string `json:"defaultColor,omitempty"`
	MaxTextLength int    `json:"maxTextLength,omitempty"`
	Encoder       string `json:"encoder,omitempty"`
}

// StorageConfig selects the key-value backend used for the persisted record.
type StorageConfig struct {
	Backend string `json:"backend,omitempty"`
	Key     string `json:"key,omitempty"`
}

type ExportConfig struct {
	Directory string `json:"directory,omitempty"`
}

// ShareConfig configures the local HTTP share surface. Sharing is
// unavailable unless Enabled is set.
type ShareConfig struct {
	Enabled   bool   `json:"enabled,omitempty"`
	Address   string `json:"address,omitempty"`
	PublicURL string `json:"publicURL,omitempty"`
}

type DeviceConfig struct {
	CompactBreakpoint int `json:"compactBreakpoint,omitempty"`
	CellWidthPx       int `json:"cellWidthPx,omitempty"`
}

type FeedbackConfig struct {
	Bell bool `json:"bell,omitempty"`
}

// Config is the main configuration structure for the application.
type Config struct {
	Data       Data           `json:"data"`
	WorkingDir string         `json:"wd,omitempty"`
	Debug      bool           `json:"debug,omitempty"`
	TUI        TUIConfig      `json:"tui"`
	QR         QRConfig       `json:"qr"`
	Storage    StorageConfig  `json:"storage"`
	Export     ExportConfig   `json:"export"`
	Share      ShareConfig    `json:"share"`
	Device     DeviceConfig   `json:"device"`
	Feedback   FeedbackConfig `json:"feedback"`
}

// Application constants
const (
	appName              = "glassqr"
	localConfigFile      = "glassqr.jsonc"
	defaultDataDirectory = ".glassqr"

	DefaultMaxTextLength     = 1000
	DefaultStorageKey        = "glassqr_data"
	DefaultCompactBreakpoint = 100
	DefaultCellWidthPx       = 9
	DefaultShareAddress      = "127.0.0.1:8765"
)

var (
	validThemes   = []string{"dark", "light"}
	validSizes    = []string{"small", "medium", "large"}
	validColors   = []string{"dark", "primary", "accent"}
	validEncoders = []string{"skip2", "rsc"}
	validBackends = []string{"blob", "sqlite"}
)

// ErrInvalidConfig wraps every validation failure returned by Load.
var ErrInvalidConfig = errors.New("invalid config")

// Load initializes the configuration from environment variables and config files.
// If debug is true, debug mode is enabled and log level is set to debug.
// It returns an error if configuration loading fails.
func Load(workingDir string, debug bool) (*Config, error) {
	cfg := &Config{
		WorkingDir: workingDir,
	}

	v := viper.New()
	configureViper(v)
	setDefaults(v, debug)

	// Read global config
	if err := readConfig(v.ReadInConfig()); err != nil {
		return cfg, err
	}

	// Load and merge local config
	if err := mergeLocalConfig(v, workingDir); err != nil {
		return cfg, err
	}

	// Apply configuration to the struct
	if err := v.Unmarshal(cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.WorkingDir = workingDir
	if debug {
		cfg.Debug = true
	}
	cfg.resolvePaths()

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// configureViper sets up viper's configuration paths and environment variables.
func configureViper(v *viper.Viper) {
	v.SetConfigName(fmt.Sprintf(".%s", appName))
	v.SetConfigType("json")
	v.AddConfigPath("$HOME")
	v.AddConfigPath(fmt.Sprintf("$XDG_CONFIG_HOME/%s", appName))
	v.AddConfigPath(fmt.Sprintf("$HOME/.config/%s", appName))
	v.SetEnvPrefix(strings.ToUpper(appName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// setDefaults configures default values for configuration options.
func setDefaults(v *viper.Viper, debug bool) {
	v.SetDefault("data.directory", defaultDataDir())
	v.SetDefault("debug", debug)
	v.SetDefault("tui.theme", "dark")
	v.SetDefault("qr.defaultSize", "small")
	v.SetDefault("qr.defaultColor", "dark")
	v.SetDefault("qr.maxTextLength", DefaultMaxTextLength)
	v.SetDefault("qr.encoder", "skip2")
	v.SetDefault("storage.backend", "blob")
	v.SetDefault("storage.key", DefaultStorageKey)
	v.SetDefault("export.directory", ".")
	v.SetDefault("share.enabled", false)
	v.SetDefault("share.address", DefaultShareAddress)
	v.SetDefault("share.publicURL", "")
	v.SetDefault("device.compactBreakpoint", DefaultCompactBreakpoint)
	v.SetDefault("device.cellWidthPx", DefaultCellWidthPx)
	v.SetDefault("feedback.bell", false)
}

func defaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return defaultDataDirectory
	}
	return filepath.Join(dir, appName)
}

// readConfig handles the result of reading a configuration file.
func readConfig(err error) error {
	if err == nil {
		return nil
	}

	// It's okay if the config file doesn't exist
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return nil
	}

	return fmt.Errorf("failed to read config: %w", err)
}

// mergeLocalConfig merges glassqr.jsonc from the working directory. The file
// may carry comments.
func mergeLocalConfig(v *viper.Viper, workingDir string) error {
	path := filepath.Join(workingDir, localConfigFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	var local map[string]any
	if err := jsonc.Unmarshal(data, &local); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	slog.Debug("merging local config", "path", path)
	return v.MergeConfigMap(local)
}

func (c *Config) resolvePaths() {
	if c.Data.Directory != "" && !filepath.IsAbs(c.Data.Directory) {
		c.Data.Directory = filepath.Join(c.WorkingDir, c.Data.Directory)
	}
	if c.Export.Directory == "" {
		c.Export.Directory = "."
	}
	if !filepath.IsAbs(c.Export.Directory) {
		c.Export.Directory = filepath.Join(c.WorkingDir, c.Export.Directory)
	}
}

// Validate checks enum fields and numeric bounds.
func (c *Config) Validate() error {
	checks := []struct {
		key   string
		value string
		valid []string
	}{
		{"tui.theme", c.TUI.Theme, validThemes},
		{"qr.defaultSize", c.QR.DefaultSize, validSizes},
		{"qr.defaultColor", c.QR.DefaultColor, validColors},
		{"qr.encoder", c.QR.Encoder, validEncoders},
		{"storage.backend", c.Storage.Backend, validBackends},
	}
	for _, check := range checks {
		if !slices.Contains(check.valid, check.value) {
			return fmt.Errorf("%w: %s must be one of %s, got %q",
				ErrInvalidConfig, check.key, strings.Join(check.valid, "|"), check.value)
		}
	}
	if c.QR.MaxTextLength <= 0 {
		return fmt.Errorf("%w: qr.maxTextLength must be positive", ErrInvalidConfig)
	}
	if c.Storage.Key == "" {
		return fmt.Errorf("%w: storage.key must not be empty", ErrInvalidConfig)
	}
	if c.Device.CompactBreakpoint < 0 || c.Device.CellWidthPx <= 0 {
		return fmt.Errorf("%w: device settings out of range", ErrInvalidConfig)
	}
	if c.Share.Enabled && c.Share.Address == "" {
		return fmt.Errorf("%w: share.address is required when sharing is enabled", ErrInvalidConfig)
	}
	return nil
}

// LogDir returns the directory for the log file.
func (c *Config) LogDir() string {
	return filepath.Join(c.Data.Directory, "log")
}

// StoreDir returns the directory holding the key-value store.
func (c *Config) StoreDir() string {
	return filepath.Join(c.Data.Directory, "storage")
}
