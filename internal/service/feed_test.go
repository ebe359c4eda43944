package service_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/msomdec/dodgeball-fanpage/internal/domain"
	"github.com/msomdec/dodgeball-fanpage/internal/service"
)

func noDelay() backoff.BackOff { return &backoff.ZeroBackOff{} }

func newTestFeed(t *testing.T, handler http.HandlerFunc, ttl time.Duration, opts ...service.FeedOption) (*service.HTTPImageFeed, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	opts = append([]service.FeedOption{service.WithFeedRetries(3, noDelay)}, opts...)
	return service.NewHTTPImageFeed(srv.Client(), srv.URL+"/img", ttl, opts...), &hits
}

func TestHTTPImageFeed_ListImages(t *testing.T) {
	feed, _ := newTestFeed(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/img/main.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`["https://cdn.example/a.jpeg", "", "  ", "https://cdn.example/b.jpeg"]`))
	}, 0)

	urls, err := feed.ListImages(context.Background(), domain.FeedHero)
	if err != nil {
		t.Fatalf("ListImages: %v", err)
	}
	if len(urls) != 2 || urls[0] != "https://cdn.example/a.jpeg" || urls[1] != "https://cdn.example/b.jpeg" {
		t.Fatalf("unexpected urls: %v", urls)
	}
}

func TestHTTPImageFeed_UnknownFeed(t *testing.T) {
	feed, hits := newTestFeed(t, func(w http.ResponseWriter, r *http.Request) {}, 0)

	_, err := feed.ListImages(context.Background(), domain.Feed("../secret"))
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if hits.Load() != 0 {
		t.Fatalf("expected no request, got %d", hits.Load())
	}
}

func TestHTTPImageFeed_ServerErrorIsRetried(t *testing.T) {
	var calls atomic.Int32
	feed, _ := newTestFeed(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`["https://cdn.example/a.jpeg"]`))
	}, 0)

	urls, err := feed.ListImages(context.Background(), domain.FeedGallery)
	if err != nil {
		t.Fatalf("ListImages: %v", err)
	}
	if len(urls) != 1 {
		t.Fatalf("expected 1 url, got %v", urls)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestHTTPImageFeed_GivesUpAfterMaxTries(t *testing.T) {
	feed, hits := newTestFeed(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}, 0)

	_, err := feed.ListImages(context.Background(), domain.FeedHero)
	if !errors.Is(err, domain.ErrFeedUnavailable) {
		t.Fatalf("expected ErrFeedUnavailable, got %v", err)
	}
	if hits.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", hits.Load())
	}
}

func TestHTTPImageFeed_ClientErrorIsPermanent(t *testing.T) {
	feed, hits := newTestFeed(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}, 0)

	_, err := feed.ListImages(context.Background(), domain.FeedHero)
	if !errors.Is(err, domain.ErrFeedUnavailable) {
		t.Fatalf("expected ErrFeedUnavailable, got %v", err)
	}
	if hits.Load() != 1 {
		t.Fatalf("expected a single attempt, got %d", hits.Load())
	}
}

func TestHTTPImageFeed_MalformedDocument(t *testing.T) {
	feed, hits := newTestFeed(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"images": "nope"}`))
	}, 0)

	_, err := feed.ListImages(context.Background(), domain.FeedHero)
	if !errors.Is(err, domain.ErrFeedUnavailable) {
		t.Fatalf("expected ErrFeedUnavailable, got %v", err)
	}
	if hits.Load() != 1 {
		t.Fatalf("malformed JSON should not be retried, got %d attempts", hits.Load())
	}
}

func TestHTTPImageFeed_CachesForTTL(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	feed, hits := newTestFeed(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`["https://cdn.example/a.jpeg"]`))
	}, time.Minute, service.WithFeedClock(clock))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := feed.ListImages(ctx, domain.FeedHero); err != nil {
			t.Fatalf("ListImages %d: %v", i, err)
		}
	}
	if hits.Load() != 1 {
		t.Fatalf("expected 1 fetch while cached, got %d", hits.Load())
	}

	now = now.Add(2 * time.Minute)
	if _, err := feed.ListImages(ctx, domain.FeedHero); err != nil {
		t.Fatalf("ListImages after expiry: %v", err)
	}
	if hits.Load() != 2 {
		t.Fatalf("expected refetch after TTL, got %d fetches", hits.Load())
	}

	feed.Invalidate(domain.FeedHero)
	if _, err := feed.ListImages(ctx, domain.FeedHero); err != nil {
		t.Fatalf("ListImages after invalidate: %v", err)
	}
	if hits.Load() != 3 {
		t.Fatalf("expected refetch after invalidate, got %d fetches", hits.Load())
	}
}

func TestHTTPImageFeed_CachedSliceIsACopy(t *testing.T) {
	feed, _ := newTestFeed(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`["https://cdn.example/a.jpeg"]`))
	}, time.Hour)
	ctx := context.Background()

	first, err := feed.ListImages(ctx, domain.FeedHero)
	if err != nil {
		t.Fatalf("ListImages: %v", err)
	}
	first[0] = "mutated"

	second, err := feed.ListImages(ctx, domain.FeedHero)
	if err != nil {
		t.Fatalf("ListImages: %v", err)
	}
	if second[0] != "https://cdn.example/a.jpeg" {
		t.Fatalf("cache was mutated through a returned slice: %v", second)
	}
}

func TestHTTPImageFeed_ConcurrentCallsShareFetch(t *testing.T) {
	release := make(chan struct{})
	feed, hits := newTestFeed(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Write([]byte(`["https://cdn.example/a.jpeg"]`))
	}, time.Hour)

	var wg sync.WaitGroup
	errs := make(chan error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := feed.ListImages(context.Background(), domain.FeedGallery)
			errs <- err
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("ListImages: %v", err)
		}
	}
	if hits.Load() != 1 {
		t.Fatalf("expected concurrent calls to share one fetch, got %d", hits.Load())
	}
}

func TestHTTPImageFeed_CancelledCallerDoesNotFailOthers(t *testing.T) {
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	feed, hits := newTestFeed(t, func(w http.ResponseWriter, r *http.Request) {
		started <- struct{}{}
		<-release
		w.Write([]byte(`["https://cdn.example/a.jpeg"]`))
	}, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := feed.ListImages(ctx, domain.FeedHero)
		first <- err
	}()
	<-started

	second := make(chan []string, 1)
	secondErr := make(chan error, 1)
	go func() {
		urls, err := feed.ListImages(context.Background(), domain.FeedHero)
		second <- urls
		secondErr <- err
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()
	select {
	case err := <-first:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected the cancelled caller to see context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("cancelled caller kept waiting for the shared fetch")
	}

	close(release)
	urls := <-second
	if err := <-secondErr; err != nil {
		t.Fatalf("ListImages: %v", err)
	}
	if len(urls) != 1 || urls[0] != "https://cdn.example/a.jpeg" {
		t.Fatalf("unexpected urls: %v", urls)
	}
	if hits.Load() != 1 {
		t.Fatalf("expected one shared fetch, got %d", hits.Load())
	}
}

func TestHTTPImageFeed_FetchTimeout(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	feed, _ := newTestFeed(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, 0, service.WithFeedRetries(1, noDelay), service.WithFeedTimeout(20*time.Millisecond))

	_, err := feed.ListImages(context.Background(), domain.FeedHero)
	if !errors.Is(err, domain.ErrFeedUnavailable) {
		t.Fatalf("expected ErrFeedUnavailable, got %v", err)
	}
}

func TestParseImageList(t *testing.T) {
	urls, err := service.ParseImageList([]byte(`[]`))
	if err != nil {
		t.Fatalf("ParseImageList: %v", err)
	}
	if len(urls) != 0 {
		t.Fatalf("expected empty list, got %v", urls)
	}

	if _, err := service.ParseImageList([]byte(`not json`)); !errors.Is(err, domain.ErrFeedUnavailable) {
		t.Fatalf("expected ErrFeedUnavailable, got %v", err)
	}
}
