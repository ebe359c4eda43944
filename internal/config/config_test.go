package config_test

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/msomdec/dodgeball-fanpage/internal/config"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", testSecret)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.Theme != config.ThemeClassic {
		t.Fatalf("expected classic theme, got %s", cfg.Theme)
	}
	if !cfg.CookieSecure {
		t.Fatal("expected secure cookies by default")
	}
	if cfg.ImageFeedTTL != 5*time.Minute {
		t.Fatalf("expected 5m TTL, got %s", cfg.ImageFeedTTL)
	}
	if cfg.HeroImages.End != 73 || cfg.GalleryImages.End != 1092 {
		t.Fatalf("unexpected image ranges: %+v %+v", cfg.HeroImages, cfg.GalleryImages)
	}
	if cfg.HeroImages.Extension != ".jpeg" || cfg.HeroImages.Start != 1 {
		t.Fatalf("unexpected hero pattern: %+v", cfg.HeroImages)
	}
	if got := cfg.FeedBaseURL(); got != "http://localhost:8080/img" {
		t.Fatalf("unexpected feed base URL %s", got)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SESSION_SECRET", testSecret)
	t.Setenv("PORT", "9000")
	t.Setenv("THEME", "neon")
	t.Setenv("COOKIE_SECURE", "false")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("IMAGE_FEED_BASE_URL", "https://cdn.example/img")
	t.Setenv("IMAGE_FEED_TTL", "30s")
	t.Setenv("GALLERY_IMAGES_BASE", "https://cdn.example/pic")
	t.Setenv("GALLERY_IMAGES_END", "10")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9000" || cfg.Theme != config.ThemeNeon || cfg.CookieSecure {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.ImageFeedTTL != 30*time.Second {
		t.Fatalf("expected 30s TTL, got %s", cfg.ImageFeedTTL)
	}
	if cfg.GalleryImages.Base != "https://cdn.example/pic" || cfg.GalleryImages.End != 10 {
		t.Fatalf("unexpected gallery pattern: %+v", cfg.GalleryImages)
	}
	if got := cfg.FeedBaseURL(); got != "https://cdn.example/img" {
		t.Fatalf("unexpected feed base URL %s", got)
	}
	level, err := cfg.SlogLevel()
	if err != nil || level != slog.LevelDebug {
		t.Fatalf("expected debug level, got %v (%v)", level, err)
	}
}

func TestLoad_RequiresSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")

	if _, err := config.Load(); err == nil {
		t.Fatal("expected error without SESSION_SECRET")
	}
}

func TestLoad_ParseError(t *testing.T) {
	t.Setenv("SESSION_SECRET", testSecret)
	t.Setenv("IMAGE_FEED_TTL", "soon")

	_, err := config.Load()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	cfg := config.Config{
		SessionSecret: "short",
		Theme:         "sepia",
		LogLevel:      "loud",
		HeroImages:    config.ImagePattern{Base: "https://cdn.example/a", Start: 5, End: 1},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"SESSION_SECRET", "THEME", "LOG_LEVEL", "HERO_IMAGES range", "GALLERY_IMAGES_BASE"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in error, got %v", want, err)
		}
	}
}
