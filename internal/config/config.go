// Package config loads and saves cashburn configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds all cashburn configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Schema     Schema           `toml:"schema"`
	Appearance AppearanceConfig `toml:"appearance"`
	Server     ServerConfig     `toml:"server"`
	Log        LogConfig        `toml:"log"`
}

// GeneralConfig holds analysis preferences.
type GeneralConfig struct {
	SmoothingPoints int      `toml:"smoothing_points"`
	TrendColumn     string   `toml:"trend_column"`            // closing, opening or burn
	CurrentBalance  string   `toml:"current_balance"`         // first or latest
	DateLayouts     []string `toml:"date_layouts,omitempty"` // extra layouts tried before the defaults
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// ServerConfig holds settings for `cashburn serve`.
type ServerConfig struct {
	Addr           string   `toml:"addr"`
	MaxUploadMB    int      `toml:"max_upload_mb"`
	AllowedOrigins []string `toml:"allowed_origins,omitempty"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `toml:"level"`
	Pretty bool   `toml:"pretty"`
}

// Trend columns accepted by GeneralConfig.TrendColumn.
const (
	TrendClosing = "closing"
	TrendOpening = "opening"
	TrendBurn    = "burn"
)

// Current balance policies accepted by GeneralConfig.CurrentBalance.
const (
	BalanceFirst  = "first"
	BalanceLatest = "latest"
)

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			SmoothingPoints: 500,
			TrendColumn:     TrendClosing,
			CurrentBalance:  BalanceFirst,
		},
		Schema: DefaultSchema(),
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Server: ServerConfig{
			Addr:        "127.0.0.1:8787",
			MaxUploadMB: 10,
		},
		Log: LogConfig{
			Level:  "info",
			Pretty: true,
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "cashburn")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "cashburn")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
// Environment overrides are applied last.
func Load() (Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the config at path, returning defaults if it doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // config path is chosen by the local user
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Schema.fillDefaults()
	if cfg.General.SmoothingPoints < 2 {
		cfg.General.SmoothingPoints = 500
	}
	applyEnv(&cfg)
	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveTo(Path(), cfg)
}

// SaveTo writes the config to path, creating parent directories.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // local config file
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return toml.NewEncoder(f).Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// LoadDotEnv loads a .env file from the working directory if one exists.
func LoadDotEnv() {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("CASHBURN_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("CASHBURN_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("CASHBURN_MAX_UPLOAD_MB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Server.MaxUploadMB = n
		}
	}
}
