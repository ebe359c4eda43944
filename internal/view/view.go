// Package view renders the site's pages and SSE fragments as templ
// components, so handlers can render them directly or patch them over
// datastar. The _templ.go files are generated from the .templ sources.
package view

import (
	"embed"
	"fmt"
	"io/fs"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/msomdec/dodgeball-fanpage/internal/i18n"
)

// DatastarScriptURL is the client runtime the pages load.
const DatastarScriptURL = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.6/bundles/datastar.js"

// LogoURL is the group logo shown in the header and on the loading screen.
const LogoURL = "https://wprs.my-hobby.space/wp-content/uploads/2025/11/dozzi_love.jpg"

// Scroll positions, in pixels, at which the header turns translucent and the
// back-to-top button appears.
const (
	HeaderTranslucentAt = 50
	BackToTopAt         = 500
)

// scrollSignals updates the header and back-to-top signals on scroll.
var scrollSignals = fmt.Sprintf("$scrolled = window.scrollY > %d; $showTop = window.scrollY > %d", HeaderTranslucentAt, BackToTopAt)

// Stagger delays for scroll reveal animations, in milliseconds.
const (
	MemberRevealStagger  = 100
	GalleryRevealStagger = 50
	HeroRevealStagger    = 30
	galleryStaggerCycle  = 20
)

// Theme selects the visual variant of the layout.
type Theme string

const (
	ThemeClassic Theme = "classic"
	ThemeNeon    Theme = "neon"
)

// ParseTheme maps a configuration value to a Theme, defaulting to classic.
func ParseTheme(s string) Theme {
	if Theme(s) == ThemeNeon {
		return ThemeNeon
	}
	return ThemeClassic
}

//go:embed static
var staticFS embed.FS

// Static returns the embedded stylesheet and assets, rooted at "static".
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Page carries what every component needs: language, theme and the printer
// for UI strings.
type Page struct {
	Lang  language.Tag
	Theme Theme
	Path  string

	printer *message.Printer
}

// NewPage creates the shared page context for one request.
func NewPage(tag language.Tag, theme Theme, path string) Page {
	return Page{Lang: i18n.Match(tag), Theme: theme, Path: path, printer: i18n.Printer(tag)}
}

// T prints a UI string from the catalogs.
func (p Page) T(key string, args ...any) string {
	if p.printer == nil {
		p.printer = i18n.Printer(p.Lang)
	}
	return p.printer.Sprintf(key, args...)
}

// IsNeon reports whether the neon theme is active.
func (p Page) IsNeon() bool { return p.Theme == ThemeNeon }
