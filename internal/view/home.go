package view

import (
	"fmt"
	"html/template"
	"net/url"

	"github.com/msomdec/dodgeball-fanpage/internal/domain"
)

// MemberCard is one entry of the member grid.
type MemberCard struct {
	Member  domain.Member
	Profile template.HTML
	Delay   int
}

// CardID is the element ID of the card, recorded as the focus return target
// when the card opens the modal.
func (c MemberCard) CardID() string { return "member-card-" + c.Member.ID }

func (c MemberCard) openAction() string {
	return fmt.Sprintf("@post('/members/%s/open')", url.PathEscape(c.Member.ID))
}

// HomeData is the landing page.
type HomeData struct {
	Page
	Members      []MemberCard
	Placeholders int
}

// NewHomeData builds the landing page model for the directory.
func NewHomeData(p Page, members []domain.Member, placeholders int) HomeData {
	cards := make([]MemberCard, len(members))
	for i, m := range members {
		cards[i] = MemberCard{Member: m, Profile: Markdown(m.Profile), Delay: i * MemberRevealStagger}
	}
	return HomeData{
		Page:         p,
		Members:      cards,
		Placeholders: max(placeholders, 0),
	}
}

// Tile is one image of the hero or gallery grid.
type Tile struct {
	URL      string
	Number   int // 1-based, for alt text.
	Delay    int
	Priority bool
}

func (t Tile) loading() string {
	if t.Priority {
		return "eager"
	}
	return "lazy"
}

// Notice is an inline message shown in place of images, optionally with a
// retry control.
type Notice struct {
	ID         string
	Message    string
	RetryLabel string
	// RetryEvent is dispatched from the retry button and bubbles to the
	// section that owns the request.
	RetryEvent string
	// RetryURL is requested directly when RetryEvent is empty.
	RetryURL string
}

func (n Notice) retryAction() string {
	if n.RetryEvent != "" {
		return fmt.Sprintf("el.dispatchEvent(new CustomEvent('%s', {bubbles: true}))", n.RetryEvent)
	}
	return fmt.Sprintf("@get('%s')", n.RetryURL)
}

// HeroData is the hero image grid.
type HeroData struct {
	Page
	Tiles  []Tile
	Notice *Notice
}

// NewHeroData lays out urls as hero tiles.
func NewHeroData(p Page, urls []string, priority int) HeroData {
	tiles := make([]Tile, len(urls))
	for i, u := range urls {
		tiles[i] = Tile{URL: u, Number: i + 1, Delay: i * HeroRevealStagger, Priority: i < priority}
	}
	return HeroData{Page: p, Tiles: tiles}
}
