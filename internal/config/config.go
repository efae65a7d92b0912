package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// DefaultPath is where the config file is looked for when no --config
// flag is given. A missing file is not an error; defaults apply.
const DefaultPath = "/etc/krpa/config.yaml"

// Config holds all tunable settings. Every field has a working default,
// can be set in the YAML config file, and can be overridden with a
// KRPA_* environment variable (e.g. KRPA_LOG_FILE).
type Config struct {
	FstabPath    string        `mapstructure:"fstab_path"`
	LogFile      string        `mapstructure:"log_file"`
	MarkerFile   string        `mapstructure:"marker_file"`
	DmesgWindow  int           `mapstructure:"dmesg_window"`
	SettleDelay  time.Duration `mapstructure:"settle_delay"`
	FallbackType string        `mapstructure:"fallback_type"`
	NTFSAliases  []string      `mapstructure:"ntfs_aliases"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		FstabPath:    "/etc/fstab",
		LogFile:      "/var/log/krpa.log",
		MarkerFile:   "/var/lib/krpa/lastrun",
		DmesgWindow:  50,
		SettleDelay:  2 * time.Second,
		FallbackType: "ntfs-3g",
	}
}

// Load reads configuration from path (or DefaultPath when path is empty),
// layered under KRPA_* environment overrides. A missing default config
// file falls back to defaults silently; an explicitly named file must exist.
func Load(path string) (*Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("fstab_path", def.FstabPath)
	v.SetDefault("log_file", def.LogFile)
	v.SetDefault("marker_file", def.MarkerFile)
	v.SetDefault("dmesg_window", def.DmesgWindow)
	v.SetDefault("settle_delay", def.SettleDelay)
	v.SetDefault("fallback_type", def.FallbackType)
	v.SetDefault("ntfs_aliases", []string{})

	v.SetEnvPrefix("KRPA")
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		// the default config file is optional; an explicitly named one is not
		if explicit || !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.DmesgWindow <= 0 {
		cfg.DmesgWindow = def.DmesgWindow
	}
	if cfg.FallbackType == "" {
		cfg.FallbackType = def.FallbackType
	}

	return &cfg, nil
}
