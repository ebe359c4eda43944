package handler_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/msomdec/dodgeball-fanpage/internal/domain"
	"github.com/msomdec/dodgeball-fanpage/internal/handler"
	"github.com/msomdec/dodgeball-fanpage/internal/service"
)

func TestImageList_ServesDocument(t *testing.T) {
	app := newTestApp(t, newStubFeed(1))

	resp, body := app.get(t, "/img/main.json")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected application/json, got %q", ct)
	}
	var urls []string
	if err := json.Unmarshal([]byte(body), &urls); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(urls) != 73 || urls[0] != "https://img.example/dozzi_main1.jpeg" || urls[72] != "https://img.example/dozzi_main73.jpeg" {
		t.Fatalf("unexpected document: %d entries, first %q", len(urls), urls[0])
	}
}

func TestImageList_ConditionalRequest(t *testing.T) {
	app := newTestApp(t, newStubFeed(1))

	resp, _ := app.get(t, "/img/image.json")
	etag := resp.Header.Get("ETag")
	if etag == "" {
		t.Fatal("expected an ETag")
	}

	req, _ := http.NewRequest(http.MethodGet, app.server.URL+"/img/image.json", nil)
	req.Header.Set("If-None-Match", `"other", `+etag)
	resp, err := app.client.Do(req)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", resp.StatusCode)
	}
	if body != "" {
		t.Fatal("304 must have no body")
	}
}

func TestImageList_UnknownDocuments(t *testing.T) {
	app := newTestApp(t, newStubFeed(1))

	for _, path := range []string{"/img/other.json", "/img/main.txt", "/img/main"} {
		resp, _ := app.get(t, path)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", path, resp.StatusCode)
		}
	}
}

func TestNewImageListHandler_RejectsBadPatterns(t *testing.T) {
	_, err := handler.NewImageListHandler(map[domain.Feed]service.URLPattern{
		domain.FeedHero: {Base: "", Start: 1, End: 2},
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	_, err = handler.NewImageListHandler(map[domain.Feed]service.URLPattern{
		"thumbs": {Base: "https://x/", Start: 1, End: 2},
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for an unknown feed, got %v", err)
	}
}
