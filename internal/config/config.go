package config

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	// DefaultInterval is the autoplay delay between slides.
	DefaultInterval = 8 * time.Second
	// MinInterval is the shortest autoplay delay accepted from config.
	MinInterval = time.Second
)

// Config is the root configuration structure.
type Config struct {
	Features FeaturesConfig `json:"features" mapstructure:"features"`
	UI       UIConfig       `json:"ui" mapstructure:"ui"`
	Logging  LoggingConfig  `json:"logging" mapstructure:"logging"`
}

// FeaturesConfig holds feature flag settings.
type FeaturesConfig struct {
	Flags map[string]bool `json:"flags" mapstructure:"flags"`
	Store FlagStoreConfig `json:"store" mapstructure:"store"`
}

// FlagStoreConfig configures the persisted flag store. An empty Path disables it.
type FlagStoreConfig struct {
	Driver string `json:"driver" mapstructure:"driver"` // "sqlite" (pure Go) or "sqlite3" (cgo)
	Path   string `json:"path" mapstructure:"path"`
}

// UIConfig configures UI appearance.
type UIConfig struct {
	ShowHelp bool           `json:"showHelp" mapstructure:"showHelp"`
	Carousel CarouselConfig `json:"carousel" mapstructure:"carousel"`
}

// CarouselConfig configures the slide carousel.
type CarouselConfig struct {
	Style        string            `json:"style" mapstructure:"style"` // light, dark or white
	DeckDir      string            `json:"deckDir" mapstructure:"deckDir"`
	Wrap         bool              `json:"wrap" mapstructure:"wrap"`
	Interval     time.Duration     `json:"interval" mapstructure:"interval"`
	PersistStyle bool              `json:"persistStyle" mapstructure:"persistStyle"`
	Overrides    map[string]string `json:"overrides" mapstructure:"overrides"` // palette key -> hex color
}

// LoggingConfig configures the slog output.
type LoggingConfig struct {
	Level      string `json:"level" mapstructure:"level"`
	File       string `json:"file" mapstructure:"file"` // empty means <config dir>/marquee.log for the TUI
	MaxSizeMB  int    `json:"maxSizeMB" mapstructure:"maxSizeMB"`
	MaxBackups int    `json:"maxBackups" mapstructure:"maxBackups"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Features: FeaturesConfig{
			Flags: make(map[string]bool),
			Store: FlagStoreConfig{
				Driver: "sqlite",
			},
		},
		UI: UIConfig{
			ShowHelp: true,
			Carousel: CarouselConfig{
				Style:        "light",
				DeckDir:      ".",
				Wrap:         true,
				Interval:     DefaultInterval,
				PersistStyle: true,
				Overrides:    make(map[string]string),
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  5,
			MaxBackups: 3,
		},
	}
}

// Validate normalizes out-of-range values and checks the configuration for errors.
func (c *Config) Validate() error {
	if c.UI.Carousel.Interval < MinInterval {
		c.UI.Carousel.Interval = DefaultInterval
	}
	if c.Features.Store.Driver == "" {
		c.Features.Store.Driver = "sqlite"
	}
	if c.Features.Flags == nil {
		c.Features.Flags = make(map[string]bool)
	}
	if c.UI.Carousel.Overrides == nil {
		c.UI.Carousel.Overrides = make(map[string]string)
	}
	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = 5
	}

	carousel := &c.UI.Carousel
	if err := validation.ValidateStruct(carousel,
		validation.Field(&carousel.Style, validation.Required, validation.In("light", "dark", "white")),
	); err != nil {
		return fmt.Errorf("ui.carousel: %w", err)
	}

	store := &c.Features.Store
	if err := validation.ValidateStruct(store,
		validation.Field(&store.Driver, validation.In("sqlite", "sqlite3")),
	); err != nil {
		return fmt.Errorf("features.store: %w", err)
	}

	logging := &c.Logging
	if err := validation.ValidateStruct(logging,
		validation.Field(&logging.Level, validation.In("debug", "info", "warn", "error")),
		validation.Field(&logging.MaxBackups, validation.Min(0)),
	); err != nil {
		return fmt.Errorf("logging: %w", err)
	}

	return nil
}
