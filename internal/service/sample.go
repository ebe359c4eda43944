package service

import (
	"math"
	"math/rand/v2"
	"time"
)

// Cosmetic timings for the landing page.
const (
	HeroShuffleInterval = 5 * time.Second
	ResizeDebounce      = 200 * time.Millisecond
	LoaderMinDisplay    = 2 * time.Second
	ProgressTick        = 100 * time.Millisecond
)

const (
	defaultHeroCount = 20
	// PriorityImages is how many leading hero images load eagerly.
	PriorityImages = 4
)

// Viewport is the browser window size reported by the client.
type Viewport struct {
	Width  int
	Height int
}

// HeroImageCount returns how many tiles fill the hero grid for a viewport:
// 2, 3 or 4 square columns below 640px, below 1024px and above, enough
// rows to cover the height, and never fewer than 16, 12 or 20 tiles.
func HeroImageCount(v Viewport) int {
	if v.Width <= 0 || v.Height <= 0 {
		return defaultHeroCount
	}
	cols, minimum := 4, 20
	switch {
	case v.Width < 640:
		cols, minimum = 2, 16
	case v.Width < 1024:
		cols, minimum = 3, 12
	}
	tile := float64(v.Width) / float64(cols)
	rows := int(math.Ceil(float64(v.Height) / tile))
	return max(minimum, rows*cols)
}

// Sample returns up to count URLs picked at random without replacement, in
// random order. The input is not modified.
func Sample(urls []string, count int, rng *rand.Rand) []string {
	count = max(0, min(count, len(urls)))
	out := make([]string, len(urls))
	copy(out, urls)
	// Partial Fisher-Yates: only the first count slots need settling.
	for i := 0; i < count; i++ {
		j := i + rng.IntN(len(out)-i)
		out[i], out[j] = out[j], out[i]
	}
	return out[:count:count]
}

// Shuffle returns a shuffled copy of urls.
func Shuffle(urls []string, rng *rand.Rand) []string {
	out := make([]string, len(urls))
	copy(out, urls)
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// NewRand returns a generator seeded from the runtime's random source.
func NewRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
