package service_test

import (
	"testing"
	"time"

	"github.com/msomdec/dodgeball-fanpage/internal/service"
)

func TestLoadingProgress_CapsBeforeCompletion(t *testing.T) {
	p := service.NewLoadingProgress(time.Now(), service.LoaderMinDisplay)
	rng := seeded()
	prev := 0
	for i := 0; i < 500; i++ {
		p.Tick(rng)
		got := p.Percent()
		if got < prev {
			t.Fatalf("progress went backwards: %d -> %d", prev, got)
		}
		if got > 90 {
			t.Fatalf("progress exceeded 90 before completion: %d", got)
		}
		prev = got
	}
	if prev != 90 {
		t.Fatalf("expected progress to settle at 90, got %d", prev)
	}
}

func TestLoadingProgress_Complete(t *testing.T) {
	p := service.NewLoadingProgress(time.Now(), service.LoaderMinDisplay)
	p.Tick(seeded())
	p.Complete()
	if p.Percent() != 100 {
		t.Fatalf("expected 100, got %d", p.Percent())
	}
	p.Tick(seeded())
	if p.Percent() != 100 {
		t.Fatalf("tick after completion changed progress to %d", p.Percent())
	}
}

func TestLoadingProgress_Remaining(t *testing.T) {
	start := time.Date(2025, 11, 1, 12, 0, 0, 0, time.UTC)
	p := service.NewLoadingProgress(start, service.LoaderMinDisplay)

	if got := p.Remaining(start.Add(500 * time.Millisecond)); got != 1500*time.Millisecond {
		t.Fatalf("expected 1.5s remaining, got %v", got)
	}
	if got := p.Remaining(start.Add(3 * time.Second)); got != 0 {
		t.Fatalf("expected no remaining time, got %v", got)
	}
}
