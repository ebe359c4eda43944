package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/msomdec/dodgeball-fanpage/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

const (
	maxFeedDocumentSize = 4 << 20 // 4MB
	defaultFeedTries    = 3
	defaultFetchTimeout = 30 * time.Second
)

// HTTPImageFeed fetches image list documents ("<base>/<feed>.json") over
// HTTP. Successful results are cached in memory for the configured TTL and
// concurrent fetches of the same feed share one request.
type HTTPImageFeed struct {
	client   *http.Client
	baseURL  string
	ttl      time.Duration
	maxTries uint
	timeout  time.Duration
	backoff  func() backoff.BackOff
	tracer   trace.Tracer
	now      func() time.Time

	group singleflight.Group
	mu    sync.Mutex
	cache map[domain.Feed]cachedList
}

type cachedList struct {
	urls    []string
	expires time.Time
}

// FeedOption configures an HTTPImageFeed.
type FeedOption func(*HTTPImageFeed)

// WithFeedRetries sets how many attempts a fetch makes and the backoff
// between them.
func WithFeedRetries(tries uint, b func() backoff.BackOff) FeedOption {
	return func(f *HTTPImageFeed) {
		f.maxTries = tries
		f.backoff = b
	}
}

// WithFeedTimeout bounds one shared fetch, retries included.
func WithFeedTimeout(d time.Duration) FeedOption {
	return func(f *HTTPImageFeed) { f.timeout = d }
}

// WithFeedClock overrides the clock used for cache expiry.
func WithFeedClock(now func() time.Time) FeedOption {
	return func(f *HTTPImageFeed) { f.now = now }
}

// NewHTTPImageFeed creates a feed client for documents under baseURL.
// A zero ttl disables caching.
func NewHTTPImageFeed(client *http.Client, baseURL string, ttl time.Duration, opts ...FeedOption) *HTTPImageFeed {
	f := &HTTPImageFeed{
		client:   client,
		baseURL:  baseURL,
		ttl:      ttl,
		maxTries: defaultFeedTries,
		timeout:  defaultFetchTimeout,
		backoff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 200 * time.Millisecond
			b.MaxInterval = 2 * time.Second
			return b
		},
		tracer: otel.Tracer("github.com/msomdec/dodgeball-fanpage/internal/service"),
		now:    time.Now,
		cache:  make(map[domain.Feed]cachedList),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// ListImages returns the URLs listed by the feed document. A caller whose
// ctx ends stops waiting, but a fetch shared with other callers runs on
// under its own timeout.
func (f *HTTPImageFeed) ListImages(ctx context.Context, feed domain.Feed) ([]string, error) {
	if !feed.Valid() {
		return nil, fmt.Errorf("%w: unknown feed %q", domain.ErrInvalidInput, feed)
	}
	if urls, ok := f.cached(feed); ok {
		return urls, nil
	}

	// Keep the first caller's trace and values, not its cancellation.
	shared := context.WithoutCancel(ctx)
	ch := f.group.DoChan(string(feed), func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(shared, f.timeout)
		defer cancel()
		urls, err := f.fetch(fetchCtx, feed)
		if err != nil {
			return nil, err
		}
		f.store(feed, urls)
		return urls, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return cloneStrings(res.Val.([]string)), nil
	}
}

// Invalidate drops the cached copy of a feed so the next call refetches it.
func (f *HTTPImageFeed) Invalidate(feed domain.Feed) {
	f.mu.Lock()
	delete(f.cache, feed)
	f.mu.Unlock()
}

func (f *HTTPImageFeed) cached(feed domain.Feed) ([]string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.cache[feed]
	if !ok || !f.now().Before(c.expires) {
		return nil, false
	}
	return cloneStrings(c.urls), true
}

func (f *HTTPImageFeed) store(feed domain.Feed, urls []string) {
	if f.ttl <= 0 {
		return
	}
	f.mu.Lock()
	f.cache[feed] = cachedList{urls: urls, expires: f.now().Add(f.ttl)}
	f.mu.Unlock()
}

func (f *HTTPImageFeed) fetch(ctx context.Context, feed domain.Feed) ([]string, error) {
	ctx, span := f.tracer.Start(ctx, "imagefeed.fetch",
		trace.WithAttributes(attribute.String("feed", string(feed))))
	defer span.End()

	docURL, err := url.JoinPath(f.baseURL, string(feed)+".json")
	if err != nil {
		err = fmt.Errorf("%w: bad feed URL: %v", domain.ErrFeedUnavailable, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "bad feed URL")
		return nil, err
	}
	span.SetAttributes(attribute.String("url.full", docURL))

	attempts := 0
	urls, err := backoff.Retry(ctx, func() ([]string, error) {
		attempts++
		return f.fetchOnce(ctx, docURL)
	},
		backoff.WithBackOff(f.backoff()),
		backoff.WithMaxTries(f.maxTries),
	)
	span.SetAttributes(attribute.Int("attempts", attempts))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		if !errors.Is(err, domain.ErrFeedUnavailable) {
			err = fmt.Errorf("%w: %v", domain.ErrFeedUnavailable, err)
		}
		return nil, err
	}
	span.SetAttributes(attribute.Int("images", len(urls)))
	return urls, nil
}

// fetchOnce performs one request. Errors that a retry cannot fix are
// returned as permanent.
func (f *HTTPImageFeed) fetchOnce(ctx context.Context, docURL string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, docURL, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("%w: build request: %v", domain.ErrFeedUnavailable, err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFeedUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("%w: status %d", domain.ErrFeedUnavailable, resp.StatusCode)
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return nil, err
		}
		return nil, backoff.Permanent(err)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", domain.ErrFeedUnavailable, err)
	}
	if len(body) > maxFeedDocumentSize {
		return nil, backoff.Permanent(fmt.Errorf("%w: document exceeds %d bytes", domain.ErrFeedUnavailable, maxFeedDocumentSize))
	}
	urls, err := ParseImageList(body)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	return urls, nil
}

// ParseImageList decodes a feed document: a JSON array of URL strings.
// Blank entries are dropped.
func ParseImageList(data []byte) ([]string, error) {
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: malformed document: %v", domain.ErrFeedUnavailable, err)
	}
	urls := make([]string, 0, len(raw))
	for _, u := range raw {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}
	return urls, nil
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
