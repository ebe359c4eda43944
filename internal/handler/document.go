package handler

import (
	"encoding/json"
	"fmt"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/msomdec/dodgeball-fanpage/internal/domain"
	"github.com/msomdec/dodgeball-fanpage/internal/service"
)

// sseDocument is the browser page as seen from one modal request. The
// active element arrives with the request signals; focus moves and scroll
// lock changes are buffered and sent as scripts after the element patches,
// so they apply to the updated DOM.
type sseDocument struct {
	active service.ElementID

	focus  service.ElementID
	scroll *bool
}

func newSSEDocument(active service.ElementID) *sseDocument {
	return &sseDocument{active: active}
}

func (d *sseDocument) ActiveElement() service.ElementID {
	return d.active
}

// Focus records the focus target. The server cannot see the page, so only
// an empty ID is rejected; an ID missing in the browser falls back to the
// body client side.
func (d *sseDocument) Focus(id service.ElementID) error {
	if id == "" {
		return fmt.Errorf("focus: %w", domain.ErrNotFound)
	}
	d.focus = id
	d.active = id
	return nil
}

func (d *sseDocument) SetScrollLocked(locked bool) {
	d.scroll = &locked
}

// changed reports whether anything needs to be sent to the browser.
func (d *sseDocument) changed() bool {
	return d.focus != "" || d.scroll != nil
}

// flush sends the buffered scroll lock and focus changes.
func (d *sseDocument) flush(sse *datastar.ServerSentEventGenerator) error {
	if d.scroll != nil {
		overflow := ""
		if *d.scroll {
			overflow = "hidden"
		}
		if err := sse.ExecuteScript(fmt.Sprintf("document.body.style.overflow = %q", overflow)); err != nil {
			return fmt.Errorf("send scroll lock: %w", err)
		}
	}
	if d.focus != "" {
		script, err := focusScript(d.focus)
		if err != nil {
			return err
		}
		if err := sse.ExecuteScript(script); err != nil {
			return fmt.Errorf("send focus: %w", err)
		}
	}
	return nil
}

func focusScript(id service.ElementID) (string, error) {
	if id == service.ElementBody {
		return "document.body.focus()", nil
	}
	// JSON escapes <, > and & so the ID cannot end the script element.
	quoted, err := json.Marshal(string(id))
	if err != nil {
		return "", fmt.Errorf("encode focus target: %w", err)
	}
	return fmt.Sprintf("(document.getElementById(%s) || document.body).focus()", quoted), nil
}
