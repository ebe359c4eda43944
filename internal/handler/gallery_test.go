package handler_test

import (
	"net/http"
	"strings"
	"testing"
)

func TestGallery_RendersShuffledImages(t *testing.T) {
	app := newTestApp(t, newStubFeed(25))

	resp, body := app.get(t, "/gallery?lang=en")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if n := strings.Count(body, `<img src="https://img.example/dozzi`); n != 25 {
		t.Fatalf("expected 25 images, got %d", n)
	}
	if !strings.Contains(body, "25 images") {
		t.Fatal("expected the image count footer")
	}
}

func TestGallery_FeedRejectionShowsRetryNotice(t *testing.T) {
	app := newTestApp(t, failingFeed())

	resp, body := app.get(t, "/gallery?lang=en")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("feed failure must not fail the page, got %d", resp.StatusCode)
	}
	for _, want := range []string{`id="gallery-notice"`, "The images could not be loaded.", `id="gallery-notice-retry"`, `@get(`} {
		if !strings.Contains(body, want) {
			t.Errorf("expected page to contain %q", want)
		}
	}
}

func TestGallery_ShufflePatchesGrid(t *testing.T) {
	app := newTestApp(t, newStubFeed(12))
	app.get(t, "/gallery")

	resp, body := app.post(t, "/gallery/shuffle", `{}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "datastar-patch-elements") || !strings.Contains(body, `id="gallery-grid"`) {
		t.Fatalf("expected a grid patch:\n%s", body)
	}
	if n := strings.Count(body, "<img"); n != 12 {
		t.Fatalf("expected 12 images, got %d", n)
	}
}

func TestGallery_RetryInvalidatesThenRateLimits(t *testing.T) {
	feed := failingFeed()
	app := newTestApp(t, feed)
	app.get(t, "/gallery?lang=en")

	_, body := app.get(t, "/gallery/retry")
	if _, invalidated := feed.counts(); invalidated != 1 {
		t.Fatalf("expected one invalidation, got %d", invalidated)
	}
	if !strings.Contains(body, "The images could not be loaded.") {
		t.Fatalf("expected the failure notice:\n%s", body)
	}

	calls, _ := feed.counts()
	_, body = app.get(t, "/gallery/retry")
	if after, _ := feed.counts(); after != calls {
		t.Fatal("a rate limited retry must not hit the feed")
	}
	if !strings.Contains(body, "Please wait a moment before retrying.") {
		t.Fatalf("expected the rate limit notice:\n%s", body)
	}
}

func TestGallery_PageLoadResetsOpenModal(t *testing.T) {
	app := newTestApp(t, newStubFeed(10))
	app.get(t, "/")
	app.post(t, "/members/4/open", `{"focused":"member-card-4"}`)

	app.get(t, "/gallery")

	_, body := app.post(t, "/modal/next", `{}`)
	if strings.Contains(body, "modal-surface") {
		t.Fatalf("a modal left open on another page must not survive the gallery load:\n%s", body)
	}
	if !strings.Contains(body, `"modalOpen":false`) {
		t.Fatalf("expected modalOpen=false:\n%s", body)
	}
}
