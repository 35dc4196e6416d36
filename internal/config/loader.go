package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. MARQUEE_UI_CAROUSEL_STYLE=dark.
const EnvPrefix = "MARQUEE"

// pathOverride replaces the default ConfigPath when set.
var pathOverride string

// SetConfigPath points ConfigPath at path, as the --config flag does.
func SetConfigPath(path string) {
	pathOverride = path
}

// SetTestConfigPath points ConfigPath at path. Tests only.
func SetTestConfigPath(path string) {
	SetConfigPath(path)
}

// ResetTestConfigPath restores the default ConfigPath.
func ResetTestConfigPath() {
	pathOverride = ""
}

// ConfigPath returns ~/.config/marquee/config.json
func ConfigPath() string {
	if pathOverride != "" {
		return pathOverride
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "marquee", "config.json")
}

// ConfigDir returns the directory holding the config file.
func ConfigDir() string {
	return filepath.Dir(ConfigPath())
}

// Load reads the config from ConfigPath.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads the config at path, layering environment overrides on top.
// A missing file is not an error; defaults are used instead.
func LoadFrom(path string) (*Config, error) {
	return load(path, true)
}

// LoadFile reads ConfigPath without environment overrides. Savers start from
// it so that a MARQUEE_ variable never ends up written to the file.
func LoadFile() (*Config, error) {
	return LoadFileFrom(ConfigPath())
}

// LoadFileFrom reads the config at path without environment overrides.
func LoadFileFrom(path string) (*Config, error) {
	return load(path, false)
}

func load(path string, withEnv bool) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	if withEnv {
		v.SetEnvPrefix(EnvPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("json")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every scalar key so environment overrides reach Unmarshal.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("features.store.driver", d.Features.Store.Driver)
	v.SetDefault("features.store.path", d.Features.Store.Path)

	v.SetDefault("ui.showHelp", d.UI.ShowHelp)
	v.SetDefault("ui.carousel.style", d.UI.Carousel.Style)
	v.SetDefault("ui.carousel.deckDir", d.UI.Carousel.DeckDir)
	v.SetDefault("ui.carousel.wrap", d.UI.Carousel.Wrap)
	v.SetDefault("ui.carousel.interval", d.UI.Carousel.Interval)
	v.SetDefault("ui.carousel.persistStyle", d.UI.Carousel.PersistStyle)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("logging.maxSizeMB", d.Logging.MaxSizeMB)
	v.SetDefault("logging.maxBackups", d.Logging.MaxBackups)
}
