package service

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/msomdec/dodgeball-fanpage/internal/domain"
)

// ElementID identifies an element of the rendered page.
type ElementID string

// ElementBody is the focus target of last resort.
const ElementBody ElementID = "body"

// Document is the slice of the browser a ModalController may touch. The
// controller never reaches for page globals; the HTTP layer supplies a
// Document per request.
type Document interface {
	// ActiveElement returns the element that currently has keyboard focus,
	// or "" when unknown.
	ActiveElement() ElementID
	// Focus moves keyboard focus to id. It returns an error wrapping
	// domain.ErrNotFound when the element no longer exists.
	Focus(id ElementID) error
	// SetScrollLocked suspends or restores scrolling of the page body.
	SetScrollLocked(locked bool)
}

// DetachedDocument is a Document with no page behind it, used when a
// controller is torn down outside of a request.
type DetachedDocument struct{}

func (DetachedDocument) ActiveElement() ElementID { return "" }
func (DetachedDocument) Focus(ElementID) error    { return nil }
func (DetachedDocument) SetScrollLocked(bool)     {}

// Surface describes the rendered modal for one member.
type Surface struct {
	ID         ElementID   // The dialog container; focused when nothing inside is focusable.
	Backdrop   ElementID   // Clicks whose target is exactly this element close the modal.
	Focusables []ElementID // Focusable descendants in document order.
}

// SurfaceFunc returns the surface rendered for a member.
type SurfaceFunc func(domain.Member) Surface

// Keys handled while the modal is open.
const (
	KeyEscape     = "Escape"
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
	KeyTab        = "Tab"
)

// Key is a keyboard event delivered to the modal.
type Key struct {
	Name  string
	Shift bool
}

// Position is the place of the selected member in the directory.
type Position struct {
	Index int // zero-based
	Total int
}

// String renders the 1-based indicator, zero-padded to the digit width of
// Total: "3 / 9", "03 / 12".
func (p Position) String() string {
	width := len(strconv.Itoa(p.Total))
	return fmt.Sprintf("%0*d / %0*d", width, p.Index+1, width, p.Total)
}

// ModalView is what the modal renders for the current selection.
type ModalView struct {
	Member   domain.Member
	Position Position
	Previous domain.Member
	Next     domain.Member
}

// ModalController is the member detail modal: a two-state machine
// (closed, open on one member) with circular navigation, a focus trap and
// a body scroll lock held for as long as it is open.
//
// A ModalController is not safe for concurrent use; ViewerSessions
// serializes access per visitor.
type ModalController struct {
	dir     *domain.Directory
	surface SurfaceFunc

	open     bool
	selected string
	returnTo ElementID
	locked   bool
}

// NewModalController creates a closed controller over dir.
func NewModalController(dir *domain.Directory, surface SurfaceFunc) *ModalController {
	return &ModalController{dir: dir, surface: surface}
}

// IsOpen reports whether a member is selected.
func (c *ModalController) IsOpen() bool {
	return c.open
}

// Selected returns the selected member.
func (c *ModalController) Selected() (domain.Member, bool) {
	if !c.open {
		return domain.Member{}, false
	}
	m, err := c.dir.Get(c.selected)
	if err != nil {
		return domain.Member{}, false
	}
	return m, true
}

// View returns the render model for the open modal.
func (c *ModalController) View() (ModalView, bool) {
	if !c.open {
		return ModalView{}, false
	}
	i, err := c.dir.IndexOf(c.selected)
	if err != nil {
		return ModalView{}, false
	}
	n := c.dir.Len()
	return ModalView{
		Member:   c.dir.At(i),
		Position: Position{Index: i, Total: n},
		Previous: c.dir.At((i - 1 + n) % n),
		Next:     c.dir.At((i + 1) % n),
	}, true
}

// Activate opens the modal on the member with the given id. The element
// focused before opening becomes the return-focus target. Activating while
// already open replaces the selection and keeps the original target.
func (c *ModalController) Activate(doc Document, id string) error {
	m, err := c.dir.Get(id)
	if err != nil {
		return fmt.Errorf("activate: %w", err)
	}
	if !c.open {
		c.returnTo = doc.ActiveElement()
		c.lockScroll(doc)
		c.open = true
	}
	c.selected = m.ID
	c.focusFirst(doc, m)
	return nil
}

// Previous selects the preceding member, wrapping from the first to the last.
func (c *ModalController) Previous(doc Document) error {
	return c.step(doc, -1)
}

// Next selects the following member, wrapping from the last to the first.
func (c *ModalController) Next(doc Document) error {
	return c.step(doc, 1)
}

func (c *ModalController) step(doc Document, delta int) error {
	if !c.open {
		return domain.ErrModalClosed
	}
	i, err := c.dir.IndexOf(c.selected)
	if err != nil {
		// The selection went stale; leave the open state cleanly.
		c.Close(doc)
		return fmt.Errorf("navigate: %w", err)
	}
	n := c.dir.Len()
	m := c.dir.At(((i+delta)%n + n) % n)
	c.selected = m.ID
	c.focusFirst(doc, m)
	return nil
}

// Close closes the modal, restores scrolling and returns focus to the
// element recorded on activation, or to the body when it is gone.
func (c *ModalController) Close(doc Document) error {
	if !c.open {
		return domain.ErrModalClosed
	}
	c.unlockScroll(doc)
	target := c.returnTo
	c.reset()
	if target == "" || doc.Focus(target) != nil {
		doc.Focus(ElementBody)
	}
	return nil
}

// Teardown releases everything the controller holds when its page goes
// away without a close. It is safe to call in any state.
func (c *ModalController) Teardown(doc Document) {
	doc.SetScrollLocked(false)
	c.locked = false
	c.reset()
}

// HandleKey dispatches a keyboard event. Keys are ignored while closed.
func (c *ModalController) HandleKey(doc Document, key Key) error {
	if !c.open {
		return nil
	}
	switch key.Name {
	case KeyEscape:
		return c.Close(doc)
	case KeyArrowLeft:
		return c.Previous(doc)
	case KeyArrowRight:
		return c.Next(doc)
	case KeyTab:
		return c.cycleFocus(doc, key.Shift)
	}
	return nil
}

// BackdropClick closes the modal when target is the backdrop itself rather
// than one of its descendants.
func (c *ModalController) BackdropClick(doc Document, target ElementID) error {
	if !c.open {
		return nil
	}
	m, ok := c.Selected()
	if !ok {
		return c.Close(doc)
	}
	if target != c.surface(m).Backdrop {
		return nil
	}
	return c.Close(doc)
}

// cycleFocus moves focus one step through the surface's focusable elements,
// wrapping at both ends. Focus found outside the surface is pulled back in.
func (c *ModalController) cycleFocus(doc Document, backwards bool) error {
	m, ok := c.Selected()
	if !ok {
		return c.Close(doc)
	}
	s := c.surface(m)
	if len(s.Focusables) == 0 {
		doc.Focus(s.ID)
		return nil
	}

	last := len(s.Focusables) - 1
	pos := slices.Index(s.Focusables, doc.ActiveElement())
	var next int
	switch {
	case backwards && pos <= 0:
		next = last
	case backwards:
		next = pos - 1
	case pos < 0 || pos == last:
		next = 0
	default:
		next = pos + 1
	}
	if err := doc.Focus(s.Focusables[next]); err != nil {
		doc.Focus(s.ID)
	}
	return nil
}

func (c *ModalController) focusFirst(doc Document, m domain.Member) {
	s := c.surface(m)
	if len(s.Focusables) > 0 && doc.Focus(s.Focusables[0]) == nil {
		return
	}
	doc.Focus(s.ID)
}

func (c *ModalController) lockScroll(doc Document) {
	if c.locked {
		return
	}
	doc.SetScrollLocked(true)
	c.locked = true
}

func (c *ModalController) unlockScroll(doc Document) {
	if !c.locked {
		return
	}
	doc.SetScrollLocked(false)
	c.locked = false
}

func (c *ModalController) reset() {
	c.open = false
	c.selected = ""
	c.returnTo = ""
}
