package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/msomdec/dodgeball-fanpage/internal/domain"
	"github.com/msomdec/dodgeball-fanpage/internal/i18n"
	"github.com/msomdec/dodgeball-fanpage/internal/service"
	"github.com/msomdec/dodgeball-fanpage/internal/view"
)

const (
	heroNoticeID = "hero-notice"
	loaderID     = "loader"
	// heroRetryEvent bubbles from the notice's retry button to #hero, which
	// reopens the stream.
	heroRetryEvent = "hero-retry"
)

// HeroTimings are the cosmetic intervals of the landing page stream.
type HeroTimings struct {
	ProgressTick time.Duration
	LoaderMin    time.Duration
	Shuffle      time.Duration
}

// DefaultHeroTimings returns the production intervals.
func DefaultHeroTimings() HeroTimings {
	return HeroTimings{
		ProgressTick: service.ProgressTick,
		LoaderMin:    service.LoaderMinDisplay,
		Shuffle:      service.HeroShuffleInterval,
	}
}

// HeroHandler streams the loading screen and the hero image grid.
type HeroHandler struct {
	feed    domain.ImageFeed
	limiter *service.TokenBucket
	theme   view.Theme
	timings HeroTimings
}

// NewHeroHandler creates a new HeroHandler.
func NewHeroHandler(feed domain.ImageFeed, limiter *service.TokenBucket, theme view.Theme, timings HeroTimings) *HeroHandler {
	return &HeroHandler{feed: feed, limiter: limiter, theme: theme, timings: timings}
}

type viewportSignals struct {
	Width  int `json:"vw"`
	Height int `json:"vh"`
}

// HandleStream drives the landing page hero over one SSE response. A first
// load advances the loader while the feed is fetched, keeps it up for the
// minimum display time and removes it. The grid is then patched with a
// sample sized for the viewport and reshuffled until the client goes away.
// With resume set (viewport change) or retry set (after a failure) the
// loader is skipped.
// GET /hero/stream
func (h *HeroHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	var signals viewportSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		slog.Debug("read viewport signals", "error", err)
	}
	count := service.HeroImageCount(service.Viewport{Width: signals.Width, Height: signals.Height})

	q := r.URL.Query()
	retry := q.Get("retry") != ""
	withLoader := q.Get("resume") == "" && !retry

	tag, _ := i18n.ResolveTag(r)
	page := view.NewPage(tag, h.theme, "/")
	ctx := r.Context()
	sse := datastar.NewSSE(w, r)

	if retry {
		visitor := VisitorFromContext(ctx)
		if ok, wait := h.limiter.Reserve(visitor); !ok {
			slog.Info("hero retry rate limited", "visitor", visitor, "retry_in", wait)
			h.patchNotice(sse, page, "feed.rate_limited")
			return
		}
		invalidate(h.feed, domain.FeedHero)
	}

	var urls []string
	var err error
	if withLoader {
		urls, err = h.loadWithProgress(ctx, sse)
	} else {
		urls, err = h.feed.ListImages(ctx, domain.FeedHero)
	}
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		slog.Error("load hero images", "error", err)
		h.patchNotice(sse, page, "feed.error")
		return
	}

	rng := service.NewRand()
	if !h.patchGrid(sse, page, service.Sample(urls, count, rng)) {
		return
	}

	ticker := time.NewTicker(h.timings.Shuffle)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !h.patchGrid(sse, page, service.Sample(urls, count, rng)) {
				return
			}
		}
	}
}

type feedResult struct {
	urls []string
	err  error
}

// loadWithProgress fetches the hero feed while ticking the loader, then
// holds the loader for the rest of its minimum display time and removes it.
func (h *HeroHandler) loadWithProgress(ctx context.Context, sse *datastar.ServerSentEventGenerator) ([]string, error) {
	progress := service.NewLoadingProgress(time.Now(), h.timings.LoaderMin)
	rng := service.NewRand()

	done := make(chan feedResult, 1)
	go func() {
		urls, err := h.feed.ListImages(ctx, domain.FeedHero)
		done <- feedResult{urls: urls, err: err}
	}()

	ticker := time.NewTicker(h.timings.ProgressTick)
	defer ticker.Stop()

	var res feedResult
loading:
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case res = <-done:
			break loading
		case <-ticker.C:
			progress.Tick(rng)
			h.patch(sse, view.LoaderProgress(progress.Percent()))
		}
	}

	progress.Complete()
	h.patch(sse, view.LoaderProgress(progress.Percent()))

	if wait := progress.Remaining(time.Now()); wait > 0 {
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	if err := sse.RemoveElementByID(loaderID); err != nil {
		slog.Debug("remove loader", "error", err)
	}
	return res.urls, res.err
}

func (h *HeroHandler) patchGrid(sse *datastar.ServerSentEventGenerator, page view.Page, urls []string) bool {
	return h.patch(sse, view.HeroGrid(view.NewHeroData(page, urls, service.PriorityImages)))
}

func (h *HeroHandler) patchNotice(sse *datastar.ServerSentEventGenerator, page view.Page, key string) {
	h.patch(sse, view.HeroGrid(view.HeroData{Page: page, Notice: &view.Notice{
		ID:         heroNoticeID,
		Message:    page.T(key),
		RetryLabel: page.T("feed.retry"),
		RetryEvent: heroRetryEvent,
	}}))
}

// patch reports false once the client has gone away.
func (h *HeroHandler) patch(sse *datastar.ServerSentEventGenerator, c templ.Component) bool {
	if err := sse.PatchElementTempl(c); err != nil {
		slog.Debug("patch hero stream", "error", err)
		return false
	}
	return true
}

// invalidator is implemented by feeds that cache documents.
type invalidator interface {
	Invalidate(feed domain.Feed)
}

func invalidate(feed domain.ImageFeed, name domain.Feed) {
	if inv, ok := feed.(invalidator); ok {
		inv.Invalidate(name)
	}
}
