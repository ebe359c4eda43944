package handler

import (
	"net/http"

	"github.com/msomdec/dodgeball-fanpage/internal/domain"
	"github.com/msomdec/dodgeball-fanpage/internal/service"
	"github.com/msomdec/dodgeball-fanpage/internal/view"
)

// Dependencies are the services the routes are built from.
type Dependencies struct {
	Directory  *domain.Directory
	Sessions   *service.ViewerSessions
	Visitors   *service.VisitorService
	Feed       domain.ImageFeed
	Limiter    *service.TokenBucket
	ImageLists *ImageListHandler
	Theme      view.Theme
	Timings    HeroTimings
	// Default to secure cookies; disable only for local development.
	CookieSecure bool
}

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, d Dependencies) {
	home := NewHomeHandler(d.Directory, d.Sessions, d.Theme)
	gallery := NewGalleryHandler(d.Feed, d.Limiter, d.Sessions, d.Theme)
	hero := NewHeroHandler(d.Feed, d.Limiter, d.Theme, d.Timings)
	modal := NewModalHandler(d.Sessions, d.Theme)

	visitor := func(h http.HandlerFunc) http.Handler {
		return Visitor(d.Visitors, d.CookieSecure, h)
	}

	mux.HandleFunc("GET /healthz", HandleHealthz)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(view.Static())))
	if d.ImageLists != nil {
		mux.HandleFunc("GET /img/{file}", d.ImageLists.HandleImageList)
	}

	mux.Handle("GET /", visitor(home.HandleHome))
	mux.Handle("GET /gallery", visitor(gallery.HandleGallery))
	mux.Handle("POST /gallery/shuffle", visitor(gallery.HandleShuffle))
	mux.Handle("GET /gallery/retry", visitor(gallery.HandleRetry))
	mux.Handle("GET /hero/stream", visitor(hero.HandleStream))

	mux.Handle("POST /members/{id}/open", visitor(modal.HandleOpen))
	mux.Handle("POST /modal/prev", visitor(modal.HandlePrevious))
	mux.Handle("POST /modal/next", visitor(modal.HandleNext))
	mux.Handle("POST /modal/close", visitor(modal.HandleClose))
	mux.Handle("POST /modal/key", visitor(modal.HandleKey))
	mux.Handle("POST /modal/backdrop", visitor(modal.HandleBackdrop))
}
