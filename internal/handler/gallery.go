package handler

import (
	"log/slog"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/msomdec/dodgeball-fanpage/internal/domain"
	"github.com/msomdec/dodgeball-fanpage/internal/i18n"
	"github.com/msomdec/dodgeball-fanpage/internal/service"
	"github.com/msomdec/dodgeball-fanpage/internal/view"
)

const (
	galleryNoticeID = "gallery-notice"
	galleryRetryURL = "/gallery/retry"
	// galleryPriority is how many leading gallery images load eagerly.
	galleryPriority = 8
)

// GalleryHandler serves the gallery page and its shuffle and retry patches.
type GalleryHandler struct {
	feed     domain.ImageFeed
	limiter  *service.TokenBucket
	sessions *service.ViewerSessions
	theme    view.Theme
}

// NewGalleryHandler creates a new GalleryHandler.
func NewGalleryHandler(feed domain.ImageFeed, limiter *service.TokenBucket, sessions *service.ViewerSessions, theme view.Theme) *GalleryHandler {
	return &GalleryHandler{feed: feed, limiter: limiter, sessions: sessions, theme: theme}
}

// HandleGallery renders the gallery page with every image in random order.
// A feed failure renders the page with a retry notice. Like the landing
// page, a full load tears down any modal the visitor left open.
// GET /gallery
func (h *GalleryHandler) HandleGallery(w http.ResponseWriter, r *http.Request) {
	if visitor := VisitorFromContext(r.Context()); visitor != "" {
		h.sessions.Reset(visitor, service.DetachedDocument{})
	}

	tag, persist := i18n.ResolveTag(r)
	if persist {
		i18n.SetLanguageCookie(w, tag)
	}
	page := view.NewPage(tag, h.theme, "/gallery")
	view.GalleryPage(h.grid(r, page)).Render(r.Context(), w)
}

// HandleShuffle patches the grid with a new permutation.
// POST /gallery/shuffle
func (h *GalleryHandler) HandleShuffle(w http.ResponseWriter, r *http.Request) {
	tag, _ := i18n.ResolveTag(r)
	page := view.NewPage(tag, h.theme, "/gallery")
	h.patchGrid(w, r, h.grid(r, page))
}

// HandleRetry refetches the feed after a failure, at most as often as the
// visitor's rate limit allows.
// GET /gallery/retry
func (h *GalleryHandler) HandleRetry(w http.ResponseWriter, r *http.Request) {
	tag, _ := i18n.ResolveTag(r)
	page := view.NewPage(tag, h.theme, "/gallery")
	visitor := VisitorFromContext(r.Context())
	if ok, wait := h.limiter.Reserve(visitor); !ok {
		slog.Info("gallery retry rate limited", "visitor", visitor, "retry_in", wait)
		h.patchGrid(w, r, view.GalleryData{Page: page, Notice: galleryNotice(page, "feed.rate_limited")})
		return
	}
	invalidate(h.feed, domain.FeedGallery)
	h.patchGrid(w, r, h.grid(r, page))
}

func (h *GalleryHandler) grid(r *http.Request, page view.Page) view.GalleryData {
	urls, err := h.feed.ListImages(r.Context(), domain.FeedGallery)
	if err != nil {
		slog.Error("load gallery images", "error", err)
		return view.GalleryData{Page: page, Notice: galleryNotice(page, "feed.error")}
	}
	return view.NewGalleryData(page, service.Shuffle(urls, service.NewRand()), galleryPriority)
}

func (h *GalleryHandler) patchGrid(w http.ResponseWriter, r *http.Request, d view.GalleryData) {
	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElementTempl(view.GalleryGrid(d)); err != nil {
		slog.Error("patch gallery grid", "error", err)
	}
}

func galleryNotice(page view.Page, key string) *view.Notice {
	return &view.Notice{
		ID:         galleryNoticeID,
		Message:    page.T(key),
		RetryLabel: page.T("feed.retry"),
		RetryURL:   galleryRetryURL,
	}
}
