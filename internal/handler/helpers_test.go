package handler_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/msomdec/dodgeball-fanpage/internal/domain"
	"github.com/msomdec/dodgeball-fanpage/internal/handler"
	"github.com/msomdec/dodgeball-fanpage/internal/service"
	"github.com/msomdec/dodgeball-fanpage/internal/view"
)

const testSecret = "test-secret-that-is-at-least-32-characters"

// stubFeed serves fixed lists, or fails every call when err is set.
type stubFeed struct {
	mu          sync.Mutex
	lists       map[domain.Feed][]string
	err         error
	delay       time.Duration
	calls       int
	invalidated int
}

func newStubFeed(n int) *stubFeed {
	urls := make([]string, n)
	for i := range urls {
		urls[i] = fmt.Sprintf("https://img.example/dozzi%d.jpeg", i+1)
	}
	return &stubFeed{lists: map[domain.Feed][]string{domain.FeedHero: urls, domain.FeedGallery: urls}}
}

func failingFeed() *stubFeed {
	return &stubFeed{err: fmt.Errorf("fetch: %w", domain.ErrFeedUnavailable)}
}

func (f *stubFeed) ListImages(ctx context.Context, feed domain.Feed) ([]string, error) {
	f.mu.Lock()
	f.calls++
	delay, err, urls := f.delay, f.err, f.lists[feed]
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	if err != nil {
		return nil, err
	}
	return urls, nil
}

func (f *stubFeed) Invalidate(domain.Feed) {
	f.mu.Lock()
	f.invalidated++
	f.mu.Unlock()
}

func (f *stubFeed) counts() (calls, invalidated int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls, f.invalidated
}

func testMembers() []domain.Member {
	return []domain.Member{
		{ID: "1", Name: "Aya", Profile: "first", InstagramURL: "https://www.instagram.com/aya/", Birthday: "2003-04-13"},
		{ID: "4", Name: "Ben", Profile: "second"},
		{ID: "5", Name: "Cy", Profile: "third"},
	}
}

func fastTimings() handler.HeroTimings {
	return handler.HeroTimings{
		ProgressTick: 5 * time.Millisecond,
		LoaderMin:    20 * time.Millisecond,
		Shuffle:      20 * time.Millisecond,
	}
}

type testApp struct {
	deps   handler.Dependencies
	feed   *stubFeed
	server *httptest.Server
	client *http.Client
}

func newTestDeps(t *testing.T, feed *stubFeed) handler.Dependencies {
	t.Helper()
	dir, err := domain.NewDirectory(testMembers())
	if err != nil {
		t.Fatalf("NewDirectory: %v", err)
	}
	surfaces := view.NewSurfaces()
	lists, err := handler.NewImageListHandler(map[domain.Feed]service.URLPattern{
		domain.FeedHero:    {Base: "https://img.example/dozzi_main", Extension: ".jpeg", Start: 1, End: 73},
		domain.FeedGallery: {Base: "https://img.example/dozzi", Extension: ".jpeg", Start: 1, End: 1092},
	})
	if err != nil {
		t.Fatalf("NewImageListHandler: %v", err)
	}
	return handler.Dependencies{
		Directory: dir,
		Sessions: service.NewViewerSessions(func() *service.ModalController {
			return service.NewModalController(dir, surfaces.Func())
		}, service.DefaultSessionIdle),
		Visitors:   service.NewVisitorService(testSecret),
		Feed:       feed,
		Limiter:    service.NewTokenBucket(0.001, 1),
		ImageLists: lists,
		Theme:      view.ThemeClassic,
		Timings:    fastTimings(),
	}
}

// newTestApp starts a server with a cookie-keeping client, so requests after
// the first share one visitor.
func newTestApp(t *testing.T, feed *stubFeed) *testApp {
	t.Helper()
	deps := newTestDeps(t, feed)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, deps)
	srv := httptest.NewServer(handler.SecurityHeaders(mux))
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("create cookie jar: %v", err)
	}
	return &testApp{deps: deps, feed: feed, server: srv, client: &http.Client{Jar: jar}}
}

func (a *testApp) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := a.client.Get(a.server.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return resp, readBody(t, resp)
}

func (a *testApp) post(t *testing.T, path, signals string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, a.server.URL+path, strings.NewReader(signals))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Datastar-Request", "true")
	resp, err := a.client.Do(req)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp, readBody(t, resp)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(body)
}
