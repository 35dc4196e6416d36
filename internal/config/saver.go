package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// saveConfig is the JSON-marshaling intermediary that uses string durations.
type saveConfig struct {
	Features FeaturesConfig `json:"features,omitempty"`
	UI       saveUIConfig   `json:"ui"`
	Logging  LoggingConfig  `json:"logging"`
}

type saveUIConfig struct {
	ShowHelp *bool              `json:"showHelp,omitempty"`
	Carousel saveCarouselConfig `json:"carousel"`
}

type saveCarouselConfig struct {
	Style        string            `json:"style,omitempty"`
	DeckDir      string            `json:"deckDir,omitempty"`
	Wrap         *bool             `json:"wrap,omitempty"`
	Interval     string            `json:"interval,omitempty"`
	PersistStyle *bool             `json:"persistStyle,omitempty"`
	Overrides    map[string]string `json:"overrides,omitempty"`
}

// toSaveConfig converts Config to the JSON-serializable format.
func toSaveConfig(cfg *Config) saveConfig {
	return saveConfig{
		Features: cfg.Features,
		UI: saveUIConfig{
			ShowHelp: &cfg.UI.ShowHelp,
			Carousel: saveCarouselConfig{
				Style:        cfg.UI.Carousel.Style,
				DeckDir:      cfg.UI.Carousel.DeckDir,
				Wrap:         &cfg.UI.Carousel.Wrap,
				Interval:     cfg.UI.Carousel.Interval.String(),
				PersistStyle: &cfg.UI.Carousel.PersistStyle,
				Overrides:    cfg.UI.Carousel.Overrides,
			},
		},
		Logging: cfg.Logging,
	}
}

// Save writes the config to ConfigPath.
func Save(cfg *Config) error {
	return SaveTo(ConfigPath(), cfg)
}

// SaveTo writes the config to path.
func SaveTo(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	sc := toSaveConfig(cfg)
	data, err := json.MarshalIndent(sc, "", "  ")
	if err != nil {
		return err
	}

	// Watchers must only ever see a complete file.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// SaveStyle updates only the carousel style in config and saves.
func SaveStyle(style string) error {
	cfg, err := LoadFile()
	if err != nil {
		return err
	}
	cfg.UI.Carousel.Style = style
	return Save(cfg)
}

// SaveFlag updates a single feature flag in config and saves. It returns the
// flags as written.
func SaveFlag(name string, enabled bool) (map[string]bool, error) {
	cfg, err := LoadFile()
	if err != nil {
		return nil, err
	}
	if cfg.Features.Flags == nil {
		cfg.Features.Flags = make(map[string]bool)
	}
	cfg.Features.Flags[name] = enabled
	return cfg.Features.Flags, Save(cfg)
}

// DeleteFlag removes a feature flag from config and saves. It returns the
// flags as written.
func DeleteFlag(name string) (map[string]bool, error) {
	cfg, err := LoadFile()
	if err != nil {
		return nil, err
	}
	delete(cfg.Features.Flags, name)
	return cfg.Features.Flags, Save(cfg)
}
