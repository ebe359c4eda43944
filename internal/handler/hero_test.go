package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/msomdec/dodgeball-fanpage/internal/handler"
	"github.com/msomdec/dodgeball-fanpage/internal/view"
)

func newHeroHandler(t *testing.T, feed *stubFeed) *handler.HeroHandler {
	t.Helper()
	deps := newTestDeps(t, feed)
	return handler.NewHeroHandler(deps.Feed, deps.Limiter, view.ThemeClassic, deps.Timings)
}

// stream runs the hero stream until it returns or timeout passes.
func stream(t *testing.T, h *handler.HeroHandler, target string, timeout time.Duration) (*httptest.ResponseRecorder, string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, target, nil).WithContext(ctx)
	w := httptest.NewRecorder()
	h.HandleStream(w, req)
	return w, w.Body.String()
}

func TestHeroStream_FeedRejectionShowsRetryNotice(t *testing.T) {
	h := newHeroHandler(t, failingFeed())

	w, body := stream(t, h, "/hero/stream", 5*time.Second)
	if w.Code != http.StatusOK {
		t.Fatalf("feed failure must not fail the response, got %d", w.Code)
	}
	for _, want := range []string{`id="hero-notice"`, `id="hero-notice-retry"`, "hero-retry", "#loader", "mode remove"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected stream to contain %q\n%s", want, body)
		}
	}
	if strings.Contains(body, "<img src=\"https://img.example") {
		t.Error("no hero tiles expected after a failure")
	}
}

func TestHeroStream_LoaderProgressThenGrid(t *testing.T) {
	feed := newStubFeed(30)
	feed.delay = 30 * time.Millisecond
	h := newHeroHandler(t, feed)

	_, body := stream(t, h, "/hero/stream", 200*time.Millisecond)

	progress := strings.Index(body, `id="loader-progress"`)
	complete := strings.Index(body, "100%")
	removed := strings.Index(body, "#loader\n")
	grid := strings.Index(body, `id="hero-grid"`)
	if progress < 0 || complete < 0 || grid < 0 {
		t.Fatalf("expected progress, completion and grid patches:\n%s", body)
	}
	if !(progress < complete && complete < grid) {
		t.Fatalf("patches out of order: progress=%d complete=%d grid=%d", progress, complete, grid)
	}
	if removed >= 0 && removed > grid {
		t.Fatalf("loader should be removed before the grid is patched")
	}
	// The shuffle keeps patching while the client stays.
	if n := strings.Count(body, `id="hero-grid"`); n < 2 {
		t.Fatalf("expected the grid to be reshuffled, got %d patches", n)
	}
}

func TestHeroStream_CountFollowsViewport(t *testing.T) {
	h := newHeroHandler(t, newStubFeed(40))

	signals := url.QueryEscape(`{"vw":500,"vh":800}`)
	_, body := stream(t, h, "/hero/stream?resume=1&datastar="+signals, 50*time.Millisecond)

	first := body
	if i := strings.Index(body[1:], "event: datastar-patch-elements"); i >= 0 {
		first = body[:i+1]
	}
	if strings.Contains(body, `id="loader-progress"`) {
		t.Fatal("resume must skip the loader")
	}
	// 500x800: two columns of 250px, four rows, raised to the minimum of 16.
	if n := strings.Count(first, "<img"); n != 16 {
		t.Fatalf("expected 16 tiles, got %d\n%s", n, first)
	}
}

func TestHeroStream_RetryIsRateLimited(t *testing.T) {
	feed := failingFeed()
	h := newHeroHandler(t, feed)

	_, body := stream(t, h, "/hero/stream?retry=1", time.Second)
	if _, invalidated := feed.counts(); invalidated != 1 {
		t.Fatalf("expected the retry to invalidate the cache once, got %d", invalidated)
	}
	if !strings.Contains(body, `id="hero-notice"`) {
		t.Fatalf("expected the failure notice again:\n%s", body)
	}

	calls, _ := feed.counts()
	_, body = stream(t, h, "/hero/stream?retry=1", time.Second)
	if after, _ := feed.counts(); after != calls {
		t.Fatal("a rate limited retry must not hit the feed")
	}
	if !strings.Contains(body, "hero-notice") {
		t.Fatalf("expected a rate limit notice:\n%s", body)
	}
}

func TestHeroStream_StopsWhenClientLeaves(t *testing.T) {
	h := newHeroHandler(t, newStubFeed(10))

	done := make(chan struct{})
	go func() {
		stream(t, h, "/hero/stream?resume=1", 30*time.Millisecond)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream kept running after the client went away")
	}
}
