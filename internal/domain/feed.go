package domain

import "context"

// Feed names one remote image list document.
type Feed string

const (
	FeedHero    Feed = "main"  // Landing page background grid.
	FeedGallery Feed = "image" // Gallery page.
)

// Valid reports whether f is a known feed.
func (f Feed) Valid() bool {
	return f == FeedHero || f == FeedGallery
}

// ImageFeed lists the image URLs of a feed. Implementations return an error
// wrapping ErrFeedUnavailable when the document cannot be fetched or parsed.
type ImageFeed interface {
	ListImages(ctx context.Context, feed Feed) ([]string, error)
}
