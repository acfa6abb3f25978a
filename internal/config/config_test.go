package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	return t.TempDir()
}

func TestLoadDefaults(t *testing.T) {
	wd := isolate(t)

	cfg, err := Load(wd, false)
	require.NoError(t, err)

	assert.Equal(t, "dark", cfg.TUI.Theme)
	assert.Equal(t, "small", cfg.QR.DefaultSize)
	assert.Equal(t, "dark", cfg.QR.DefaultColor)
	assert.Equal(t, DefaultMaxTextLength, cfg.QR.MaxTextLength)
	assert.Equal(t, "skip2", cfg.QR.Encoder)
	assert.Equal(t, "blob", cfg.Storage.Backend)
	assert.Equal(t, DefaultStorageKey, cfg.Storage.Key)
	assert.Equal(t, wd, cfg.Export.Directory)
	assert.False(t, cfg.Share.Enabled)
	assert.Equal(t, DefaultCompactBreakpoint, cfg.Device.CompactBreakpoint)
	assert.Equal(t, DefaultCellWidthPx, cfg.Device.CellWidthPx)
	assert.False(t, cfg.Debug)
}

func TestLoadMergesLocalJSONC(t *testing.T) {
	wd := isolate(t)
	local := `{
		// switch to the sqlite backend for this project
		"storage": {"backend": "sqlite"},
		"qr": {"defaultColor": "accent", "encoder": "rsc"},
		"data": {"directory": "state"},
		"share": {"enabled": true}
	}`
	require.NoError(t, os.WriteFile(filepath.Join(wd, localConfigFile), []byte(local), 0o644))

	cfg, err := Load(wd, true)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "accent", cfg.QR.DefaultColor)
	assert.Equal(t, "rsc", cfg.QR.Encoder)
	assert.Equal(t, filepath.Join(wd, "state"), cfg.Data.Directory)
	assert.True(t, cfg.Share.Enabled)
	assert.Equal(t, DefaultShareAddress, cfg.Share.Address)
	assert.True(t, cfg.Debug)
}

func TestLoadEnvironmentOverride(t *testing.T) {
	wd := isolate(t)
	t.Setenv("GLASSQR_TUI_THEME", "light")

	cfg, err := Load(wd, false)
	require.NoError(t, err)
	assert.Equal(t, "light", cfg.TUI.Theme)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	wd := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(wd, localConfigFile), []byte(`{"qr": {"defaultSize": "huge"}}`), 0o644))

	_, err := Load(wd, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "qr.defaultSize")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := func() Config {
		return Config{
			TUI:     TUIConfig{Theme: "dark"},
			QR:      QRConfig{DefaultSize: "medium", DefaultColor: "primary", MaxTextLength: 1000, Encoder: "skip2"},
			Storage: StorageConfig{Backend: "blob", Key: DefaultStorageKey},
			Device:  DeviceConfig{CompactBreakpoint: 100, CellWidthPx: 9},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "unknown theme", mutate: func(c *Config) { c.TUI.Theme = "sepia" }, wantErr: true},
		{name: "unknown backend", mutate: func(c *Config) { c.Storage.Backend = "redis" }, wantErr: true},
		{name: "zero max length", mutate: func(c *Config) { c.QR.MaxTextLength = 0 }, wantErr: true},
		{name: "empty storage key", mutate: func(c *Config) { c.Storage.Key = "" }, wantErr: true},
		{name: "zero cell width", mutate: func(c *Config) { c.Device.CellWidthPx = 0 }, wantErr: true},
		{name: "share without address", mutate: func(c *Config) { c.Share.Enabled = true }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			assert.NoError(t, err)
		})
	}
}
