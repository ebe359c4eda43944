package handler

import (
	"net/http"

	"github.com/msomdec/dodgeball-fanpage/internal/domain"
	"github.com/msomdec/dodgeball-fanpage/internal/i18n"
	"github.com/msomdec/dodgeball-fanpage/internal/service"
	"github.com/msomdec/dodgeball-fanpage/internal/view"
)

// heroPlaceholders fills the hero grid until the stream patches it.
const heroPlaceholders = 20

// HomeHandler serves the landing page.
type HomeHandler struct {
	dir      *domain.Directory
	sessions *service.ViewerSessions
	theme    view.Theme
}

// NewHomeHandler creates a new HomeHandler.
func NewHomeHandler(dir *domain.Directory, sessions *service.ViewerSessions, theme view.Theme) *HomeHandler {
	return &HomeHandler{dir: dir, sessions: sessions, theme: theme}
}

// HandleHome renders the landing page. A fresh page has no modal open, so
// whatever the visitor left open on a previous page is torn down.
func (h *HomeHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	if visitor := VisitorFromContext(r.Context()); visitor != "" {
		h.sessions.Reset(visitor, service.DetachedDocument{})
	}

	tag, persist := i18n.ResolveTag(r)
	if persist {
		i18n.SetLanguageCookie(w, tag)
	}
	page := view.NewPage(tag, h.theme, "/")
	view.HomePage(view.NewHomeData(page, h.dir.Members(), heroPlaceholders)).Render(r.Context(), w)
}
