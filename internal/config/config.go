// Package config loads server settings from environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Themes the layout can be rendered with.
const (
	ThemeClassic = "classic"
	ThemeNeon    = "neon"
)

const minSecretLength = 32

// ImagePattern is a numbered run of image URLs, e.g. base "https://host/dozzi",
// extension ".jpeg", 1..1092.
type ImagePattern struct {
	Base      string `env:"BASE"`
	Extension string `env:"EXT" envDefault:".jpeg"`
	Start     int    `env:"START" envDefault:"1"`
	End       int    `env:"END"`
}

// Config is the full server configuration.
type Config struct {
	Port          string `env:"PORT" envDefault:"8080"`
	DatabasePath  string `env:"DATABASE_PATH" envDefault:"dodgeball.db"`
	SessionSecret string `env:"SESSION_SECRET,required"`
	// Default to secure cookies; disable only for local development.
	CookieSecure bool   `env:"COOKIE_SECURE" envDefault:"true"`
	Theme        string `env:"THEME" envDefault:"classic"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`

	// ImageFeedBaseURL is where "<feed>.json" documents are fetched from.
	// Empty means the documents this server generates under /img.
	ImageFeedBaseURL string        `env:"IMAGE_FEED_BASE_URL"`
	ImageFeedTTL     time.Duration `env:"IMAGE_FEED_TTL" envDefault:"5m"`

	HeroImages    ImagePattern `envPrefix:"HERO_IMAGES_"`
	GalleryImages ImagePattern `envPrefix:"GALLERY_IMAGES_"`

	OTELEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	cfg := Config{
		HeroImages: ImagePattern{
			Base: "https://wprs.my-hobby.space/wp-content/uploads/2025/11/dozzi_main",
			End:  73,
		},
		GalleryImages: ImagePattern{
			Base: "https://wprs.my-hobby.space/wp-content/uploads/2025/11/dozzi",
			End:  1092,
		},
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every problem with the configuration at once.
func (c Config) Validate() error {
	var errs []error
	if len(c.SessionSecret) < minSecretLength {
		errs = append(errs, fmt.Errorf("SESSION_SECRET must be at least %d characters for HMAC-SHA256 security", minSecretLength))
	}
	if c.Theme != ThemeClassic && c.Theme != ThemeNeon {
		errs = append(errs, fmt.Errorf("THEME must be %q or %q, got %q", ThemeClassic, ThemeNeon, c.Theme))
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	if c.ImageFeedTTL < 0 {
		errs = append(errs, errors.New("IMAGE_FEED_TTL must not be negative"))
	}
	for name, p := range map[string]ImagePattern{"HERO_IMAGES": c.HeroImages, "GALLERY_IMAGES": c.GalleryImages} {
		if strings.TrimSpace(p.Base) == "" {
			errs = append(errs, fmt.Errorf("%s_BASE is required", name))
		}
		if p.Start < 0 || p.End < p.Start {
			errs = append(errs, fmt.Errorf("%s range %d..%d is invalid", name, p.Start, p.End))
		}
	}
	return errors.Join(errs...)
}

// SlogLevel maps LOG_LEVEL to a slog level.
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return level, nil
}

// FeedBaseURL returns the base URL image feed documents are fetched from.
func (c Config) FeedBaseURL() string {
	if c.ImageFeedBaseURL != "" {
		return c.ImageFeedBaseURL
	}
	return "http://localhost:" + c.Port + "/img"
}
