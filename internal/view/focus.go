package view

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/language"

	"github.com/msomdec/dodgeball-fanpage/internal/domain"
	"github.com/msomdec/dodgeball-fanpage/internal/service"
)

// Focusables returns the IDs of the keyboard-focusable descendants of the
// element with id root, in document order. An element counts when it is a
// button, input, select or textarea, carries an href, or has a tabindex
// other than -1; disabled and aria-hidden elements are skipped. Elements
// without an id cannot be focused from the server and are left out.
func Focusables(r io.Reader, root string) ([]service.ElementID, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}
	container := findByID(doc, root)
	if container == nil {
		return nil, fmt.Errorf("%w: element %q", domain.ErrNotFound, root)
	}

	var out []service.ElementID
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			if isFocusable(c) {
				if id := attr(c, "id"); id != "" {
					out = append(out, service.ElementID(id))
				}
			}
			walk(c)
		}
	}
	walk(container)
	return out, nil
}

func isFocusable(n *html.Node) bool {
	if hasAttr(n, "disabled") || attr(n, "aria-hidden") == "true" {
		return false
	}
	switch n.DataAtom {
	case atom.Button, atom.Input, atom.Select, atom.Textarea:
		return true
	}
	if hasAttr(n, "href") {
		return true
	}
	if tabindex, ok := lookupAttr(n, "tabindex"); ok && strings.TrimSpace(tabindex) != "-1" {
		return true
	}
	return false
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode && attr(n, "id") == id {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

func lookupAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func attr(n *html.Node, key string) string {
	v, _ := lookupAttr(n, key)
	return v
}

func hasAttr(n *html.Node, key string) bool {
	_, ok := lookupAttr(n, key)
	return ok
}

// Surfaces derives the modal surface of each member from the rendered
// modal markup and caches it. The focus order does not depend on language
// or theme, so one rendering per member is enough.
type Surfaces struct {
	mu    sync.Mutex
	cache map[string]service.Surface
}

// NewSurfaces creates an empty surface cache.
func NewSurfaces() *Surfaces {
	return &Surfaces{cache: make(map[string]service.Surface)}
}

// Func adapts the cache to the modal controller.
func (s *Surfaces) Func() service.SurfaceFunc {
	return s.Surface
}

// Surface returns the surface of the modal opened on m.
func (s *Surfaces) Surface(m domain.Member) service.Surface {
	s.mu.Lock()
	defer s.mu.Unlock()
	if surface, ok := s.cache[m.ID]; ok {
		return surface
	}
	surface, err := renderSurface(m)
	if err != nil {
		slog.Warn("derive modal surface", "member", m.ID, "error", err)
		// Not cached: the next call retries.
		return service.Surface{ID: ModalSurfaceID, Backdrop: ModalBackdropID}
	}
	s.cache[m.ID] = surface
	return surface
}

func renderSurface(m domain.Member) (service.Surface, error) {
	var buf bytes.Buffer
	d := NewModalData(NewPage(language.Japanese, ThemeClassic, "/"), service.ModalView{
		Member:   m,
		Position: service.Position{Index: 0, Total: 1},
	})
	if err := Modal(d).Render(context.Background(), &buf); err != nil {
		return service.Surface{}, fmt.Errorf("render modal: %w", err)
	}
	focusables, err := Focusables(&buf, ModalSurfaceID)
	if err != nil {
		return service.Surface{}, err
	}
	return service.Surface{
		ID:         ModalSurfaceID,
		Backdrop:   ModalBackdropID,
		Focusables: focusables,
	}, nil
}
