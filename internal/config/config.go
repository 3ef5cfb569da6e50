package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/nikbrunner/folio/internal/layout"
)

// EnvPrefix prefixes every environment override, e.g. FOLIO_VIEWPORT_WIDTH.
const EnvPrefix = "FOLIO"

// ErrInvalidConfig is returned when a loaded value is out of range.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds application configuration.
type Config struct {
	Catalog    string           `mapstructure:"catalog"`
	Gallery    GalleryConfig    `mapstructure:"gallery"`
	Viewport   ViewportConfig   `mapstructure:"viewport"`
	Preload    PreloadConfig    `mapstructure:"preload"`
	Contact    ContactConfig    `mapstructure:"contact"`
	Pagination PaginationConfig `mapstructure:"pagination"`
	Logger     LoggerConfig     `mapstructure:"logger"`
}

type GalleryConfig struct {
	Debounce              time.Duration `mapstructure:"debounce"`
	MinItemHeight         float64       `mapstructure:"min_item_height"`
	FocusViewportFraction float64       `mapstructure:"focus_viewport_fraction"`
	DefaultDimension      int           `mapstructure:"default_dimension"`
}

// ViewportConfig is the surface size used by the non-interactive commands.
type ViewportConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

type PreloadConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Concurrency   int           `mapstructure:"concurrency"`
	Timeout       time.Duration `mapstructure:"timeout"`
	RateLimit     float64       `mapstructure:"rate_limit"`
	MaxProbeBytes int64         `mapstructure:"max_probe_bytes"`
	BaseDir       string        `mapstructure:"base_dir"`
	Cache         string        `mapstructure:"cache"`
}

type ContactConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type PaginationConfig struct {
	GalleryPerPage int `mapstructure:"gallery_per_page"`
	ShopPerPage    int `mapstructure:"shop_per_page"`
}

// LoggerConfig controls log level, encoding and the optional rotated file sink.
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"` // console or json
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"` // megabytes
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
	Compress   bool   `mapstructure:"compress"`
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("catalog", "")

	v.SetDefault("gallery.debounce", "150ms")
	v.SetDefault("gallery.min_item_height", 80)
	v.SetDefault("gallery.focus_viewport_fraction", 0.9)
	v.SetDefault("gallery.default_dimension", 1000)

	v.SetDefault("viewport.width", 1500)
	v.SetDefault("viewport.height", 900)

	v.SetDefault("preload.enabled", true)
	v.SetDefault("preload.concurrency", 8)
	v.SetDefault("preload.timeout", "10s")
	v.SetDefault("preload.rate_limit", 0)
	v.SetDefault("preload.max_probe_bytes", 4<<20)
	v.SetDefault("preload.base_dir", "")
	v.SetDefault("preload.cache", "")

	v.SetDefault("contact.endpoint", "https://formspree.io/f/mqaglzrb")
	v.SetDefault("contact.timeout", "15s")

	v.SetDefault("pagination.gallery_per_page", 4)
	v.SetDefault("pagination.shop_per_page", 3)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.file", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 28)
	v.SetDefault("logger.compress", false)
}

// New returns a viper instance with defaults, env overrides and the config
// search path set up. An explicit file wins over the search path.
func New(file string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("folio")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/folio")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file (a missing one is fine when searching),
// applies overrides and validates the result.
func Load(v *viper.Viper) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the configuration with no file or environment applied.
func Default() Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return cfg
}

// Validate rejects values the gallery cannot work with.
func (c Config) Validate() error {
	switch {
	case c.Gallery.Debounce < 0:
		return fmt.Errorf("%w: gallery.debounce must not be negative", ErrInvalidConfig)
	case c.Gallery.MinItemHeight < 0:
		return fmt.Errorf("%w: gallery.min_item_height must not be negative", ErrInvalidConfig)
	case c.Gallery.FocusViewportFraction <= 0 || c.Gallery.FocusViewportFraction > 1:
		return fmt.Errorf("%w: gallery.focus_viewport_fraction must be in (0, 1]", ErrInvalidConfig)
	case c.Gallery.DefaultDimension <= 0:
		return fmt.Errorf("%w: gallery.default_dimension must be positive", ErrInvalidConfig)
	case c.Viewport.Width < 0 || c.Viewport.Height < 0:
		return fmt.Errorf("%w: viewport size must not be negative", ErrInvalidConfig)
	case c.Preload.Concurrency < 1:
		return fmt.Errorf("%w: preload.concurrency must be at least 1", ErrInvalidConfig)
	case c.Preload.RateLimit < 0:
		return fmt.Errorf("%w: preload.rate_limit must not be negative", ErrInvalidConfig)
	case c.Pagination.GalleryPerPage < 1 || c.Pagination.ShopPerPage < 1:
		return fmt.Errorf("%w: pagination sizes must be at least 1", ErrInvalidConfig)
	}
	return nil
}

// Layout returns the layout engine configuration with the default breakpoints.
func (c Config) Layout() layout.Config {
	cfg := layout.DefaultConfig()
	cfg.MinItemHeight = c.Gallery.MinItemHeight
	cfg.FocusViewportFraction = c.Gallery.FocusViewportFraction
	cfg.DefaultDimension = c.Gallery.DefaultDimension
	return cfg
}
