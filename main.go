package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/msomdec/dodgeball-fanpage/internal/config"
	"github.com/msomdec/dodgeball-fanpage/internal/domain"
	"github.com/msomdec/dodgeball-fanpage/internal/handler"
	"github.com/msomdec/dodgeball-fanpage/internal/repository/sqlite"
	"github.com/msomdec/dodgeball-fanpage/internal/seed"
	"github.com/msomdec/dodgeball-fanpage/internal/service"
	"github.com/msomdec/dodgeball-fanpage/internal/telemetry"
	"github.com/msomdec/dodgeball-fanpage/internal/view"
)

const serviceName = "dodgeball-fanpage"

func main() {
	logLevel := new(slog.LevelVar)
	logOpts := &slog.HandlerOptions{Level: logLevel}
	logger := slog.New(slog.NewMultiHandler(
		slog.NewTextHandler(os.Stdout, logOpts),
		slog.NewJSONHandler(os.Stderr, logOpts),
	))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	level, _ := cfg.SlogLevel()
	logLevel.Set(level)

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, serviceName, cfg.OTELEndpoint)
	if err != nil {
		slog.Error("failed to set up tracing", "error", err)
		os.Exit(1)
	}
	defer shutdownTracing(context.Background())

	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	members, err := seed.Members()
	if err != nil {
		slog.Error("failed to read member seed", "error", err)
		os.Exit(1)
	}
	dir, err := loadDirectory(ctx, db, members)
	if err != nil {
		slog.Error("failed to prepare member directory", "error", err)
		os.Exit(1)
	}
	slog.Info("member directory loaded", "members", dir.Len())

	imageLists, err := handler.NewImageListHandler(map[domain.Feed]service.URLPattern{
		domain.FeedHero:    urlPattern(cfg.HeroImages),
		domain.FeedGallery: urlPattern(cfg.GalleryImages),
	})
	if err != nil {
		slog.Error("failed to build image lists", "error", err)
		os.Exit(1)
	}

	surfaces := view.NewSurfaces()
	sessions := service.NewViewerSessions(func() *service.ModalController {
		return service.NewModalController(dir, surfaces.Func())
	}, service.DefaultSessionIdle)
	go sessions.Run(ctx, service.DefaultSweepEvery)

	// One retry token every 10 seconds, bursts of 3.
	limiter := service.NewTokenBucket(0.1, 3)
	go limiter.Run(ctx)

	feed := service.NewHTTPImageFeed(&http.Client{Timeout: 10 * time.Second}, cfg.FeedBaseURL(), cfg.ImageFeedTTL)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, handler.Dependencies{
		Directory:    dir,
		Sessions:     sessions,
		Visitors:     service.NewVisitorService(cfg.SessionSecret),
		Feed:         feed,
		Limiter:      limiter,
		ImageLists:   imageLists,
		Theme:        view.ParseTheme(cfg.Theme),
		Timings:      handler.DefaultHeroTimings(),
		CookieSecure: cfg.CookieSecure,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.SecurityHeaders(mux),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
		// Streams end with the process context instead of holding up Shutdown.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "theme", cfg.Theme)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// loadDirectory brings the store's schema up to date, seeds it with members
// (idempotent) and reads the directory back in order.
func loadDirectory(ctx context.Context, store domain.Database, members []domain.Member) (*domain.Directory, error) {
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	memberService := service.NewMemberService(store.Members())
	if err := memberService.Seed(ctx, members); err != nil {
		return nil, fmt.Errorf("seed members: %w", err)
	}
	return memberService.LoadDirectory(ctx)
}

func urlPattern(p config.ImagePattern) service.URLPattern {
	return service.URLPattern{Base: p.Base, Extension: p.Extension, Start: p.Start, End: p.End}
}
