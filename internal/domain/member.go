package domain

import (
	"context"
	"unicode/utf8"
)

// Member is one profile shown on the landing page. Members are value objects:
// they are loaded once at startup and never mutated afterwards.
type Member struct {
	ID           string
	Name         string
	NameRomaji   string // Optional transliterations, display only.
	NameKana     string
	NameEn       string
	Profile      string // Free text; light Markdown is rendered.
	ImageURL     string // Empty means the initial-letter glyph is shown.
	InstagramURL string
	Birthday     string // YYYY-MM-DD, may be empty or malformed.
}

// Initial returns the first character of the member's name, used as the
// portrait fallback glyph.
func (m Member) Initial() string {
	r, size := utf8.DecodeRuneInString(m.Name)
	if size == 0 || r == utf8.RuneError {
		return ""
	}
	return string(r)
}

// Transliteration returns the first non-empty alternate spelling of the name.
func (m Member) Transliteration() string {
	for _, s := range []string{m.NameRomaji, m.NameEn, m.NameKana} {
		if s != "" {
			return s
		}
	}
	return ""
}

// MemberRepository defines persistence operations for member records.
// Position is the zero-based slot in the directory order.
type MemberRepository interface {
	Upsert(ctx context.Context, member Member, position int) error
	ListOrdered(ctx context.Context) ([]Member, error)
	DeleteNotIn(ctx context.Context, ids []string) error
}
