package service

import (
	"math"
	"math/rand/v2"
	"time"
)

const (
	progressCap          = 90.0
	progressIncrementMax = 10.0
)

// LoadingProgress simulates loader progress while the hero feed is being
// fetched. It creeps toward 90% in random steps and only reaches 100% on
// Complete.
type LoadingProgress struct {
	value      float64
	started    time.Time
	minDisplay time.Duration
}

// NewLoadingProgress starts a simulation at the given time. The loader is
// kept up for at least minDisplay.
func NewLoadingProgress(started time.Time, minDisplay time.Duration) *LoadingProgress {
	return &LoadingProgress{started: started, minDisplay: minDisplay}
}

// Tick advances the simulation by one random step.
func (p *LoadingProgress) Tick(rng *rand.Rand) {
	if p.value >= progressCap {
		return
	}
	p.value = min(p.value+rng.Float64()*progressIncrementMax, progressCap)
}

// Complete marks the fetch as finished.
func (p *LoadingProgress) Complete() {
	p.value = 100
}

// Percent returns the rounded progress in [0, 100].
func (p *LoadingProgress) Percent() int {
	return int(math.Round(p.value))
}

// Remaining returns how long the loader must stay visible after now so that
// it is shown for at least its minimum display time.
func (p *LoadingProgress) Remaining(now time.Time) time.Duration {
	return max(0, p.minDisplay-now.Sub(p.started))
}
