package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/msomdec/dodgeball-fanpage/internal/domain"
	"github.com/msomdec/dodgeball-fanpage/internal/i18n"
	"github.com/msomdec/dodgeball-fanpage/internal/service"
	"github.com/msomdec/dodgeball-fanpage/internal/view"
)

// ModalHandler drives the visitor's member detail modal over SSE.
type ModalHandler struct {
	sessions *service.ViewerSessions
	theme    view.Theme
}

// NewModalHandler creates a new ModalHandler.
func NewModalHandler(sessions *service.ViewerSessions, theme view.Theme) *ModalHandler {
	return &ModalHandler{sessions: sessions, theme: theme}
}

// modalSignals are the client signals sent with every modal request.
type modalSignals struct {
	Focused string `json:"focused"`
	Key     string `json:"key"`
	Shift   bool   `json:"shift"`
	Target  string `json:"target"`
}

// HandleOpen activates the member in the path.
// POST /members/{id}/open
func (h *ModalHandler) HandleOpen(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	h.dispatch(w, r, nil, func(c *service.ModalController, doc service.Document, _ modalSignals) error {
		return c.Activate(doc, id)
	})
}

// HandlePrevious selects the preceding member.
// POST /modal/prev
func (h *ModalHandler) HandlePrevious(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, nil, func(c *service.ModalController, doc service.Document, _ modalSignals) error {
		return c.Previous(doc)
	})
}

// HandleNext selects the following member.
// POST /modal/next
func (h *ModalHandler) HandleNext(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, nil, func(c *service.ModalController, doc service.Document, _ modalSignals) error {
		return c.Next(doc)
	})
}

// HandleClose closes the modal.
// POST /modal/close
func (h *ModalHandler) HandleClose(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, alwaysCloses, func(c *service.ModalController, doc service.Document, _ modalSignals) error {
		return c.Close(doc)
	})
}

// HandleKey forwards a keyboard event.
// POST /modal/key
func (h *ModalHandler) HandleKey(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, escapeCloses, func(c *service.ModalController, doc service.Document, s modalSignals) error {
		return c.HandleKey(doc, service.Key{Name: s.Key, Shift: s.Shift})
	})
}

// HandleBackdrop forwards a click on the backdrop or anything inside it.
// POST /modal/backdrop
func (h *ModalHandler) HandleBackdrop(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, backdropCloses, func(c *service.ModalController, doc service.Document, s modalSignals) error {
		return c.BackdropClick(doc, service.ElementID(s.Target))
	})
}

type modalOp func(c *service.ModalController, doc service.Document, s modalSignals) error

// closeIntent reports whether a request asks for the modal to go away.
type closeIntent func(s modalSignals) bool

func alwaysCloses(modalSignals) bool { return true }

func escapeCloses(s modalSignals) bool { return s.Key == service.KeyEscape }

func backdropCloses(s modalSignals) bool { return s.Target == view.ModalBackdropID }

// dispatch runs op against the visitor's controller and streams the result:
// the modal markup when the selection changed, its removal when it closed,
// then the buffered focus and scroll lock changes. A close request that
// finds the controller already closed still clears the page: the dialog
// can outlive its controller after an idle sweep or a reload in another
// tab, and must not be left on screen with scrolling locked.
func (h *ModalHandler) dispatch(w http.ResponseWriter, r *http.Request, closes closeIntent, op modalOp) {
	visitor := VisitorFromContext(r.Context())
	if visitor == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var signals modalSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	doc := newSSEDocument(service.ElementID(signals.Focused))
	var before, after service.ModalView
	var wasOpen, isOpen bool
	err := h.sessions.With(visitor, func(c *service.ModalController) error {
		before, wasOpen = c.View()
		opErr := op(c, doc, signals)
		after, isOpen = c.View()
		return opErr
	})
	switch {
	case err == nil, errors.Is(err, domain.ErrModalClosed):
	case errors.Is(err, domain.ErrNotFound) && wasOpen == isOpen && !doc.changed():
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	case errors.Is(err, domain.ErrNotFound):
		// A stale selection closed the modal; the closed state still goes out.
		slog.Warn("modal selection went stale", "visitor", visitor, "error", err)
	default:
		slog.Error("dispatch modal event", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	orphaned := !wasOpen && !isOpen && closes != nil && closes(signals)
	if orphaned {
		doc.SetScrollLocked(false)
		doc.Focus(service.ElementBody)
	}

	tag, _ := i18n.ResolveTag(r)
	sse := datastar.NewSSE(w, r)
	switch {
	case isOpen && (!wasOpen || before.Member.ID != after.Member.ID):
		page := view.NewPage(tag, h.theme, "/")
		if err := sse.PatchElementTempl(
			view.Modal(view.NewModalData(page, after)),
			datastar.WithSelectorID(view.ModalRootID),
			datastar.WithModeInner(),
		); err != nil {
			slog.Error("patch modal", "error", err)
			return
		}
	case wasOpen && !isOpen, orphaned:
		if err := sse.RemoveElementByID(view.ModalBackdropID); err != nil {
			slog.Error("remove modal", "error", err)
			return
		}
	}
	if err := doc.flush(sse); err != nil {
		slog.Error("flush modal document", "error", err)
		return
	}
	if err := sse.MarshalAndPatchSignals(map[string]any{"modalOpen": isOpen}); err != nil {
		slog.Error("patch modal signals", "error", err)
	}
}
