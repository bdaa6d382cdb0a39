// Package assets resolves menu item image URLs, falling back to a
// placeholder when an image cannot be loaded.
package assets

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"menucatalog/internal/catalog"
)

// DefaultPlaceholder is shown for images that fail to load.
const DefaultPlaceholder = "https://via.placeholder.com/400x300?text=No+Image"

const (
	defaultProbeTimeout = 3 * time.Second
	maxConcurrentProbes = 8
)

// Resolver maps image URLs to something displayable. Results are cached
// per URL and concurrent probes of the same URL share one request.
type Resolver struct {
	client      *http.Client
	placeholder string
	probe       bool
	timeout     time.Duration
	log         *zap.Logger

	group singleflight.Group
	mu    sync.RWMutex
	cache map[string]string
}

type Option func(*Resolver)

// WithProbe enables HTTP probing. Without it URLs are returned as-is.
func WithProbe(enabled bool) Option {
	return func(r *Resolver) { r.probe = enabled }
}

func WithPlaceholder(url string) Option {
	return func(r *Resolver) {
		if url != "" {
			r.placeholder = url
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.timeout = d
		}
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(r *Resolver) {
		if c != nil {
			r.client = c
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(r *Resolver) {
		if log != nil {
			r.log = log
		}
	}
}

func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		client:      http.DefaultClient,
		placeholder: DefaultPlaceholder,
		timeout:     defaultProbeTimeout,
		log:         zap.NewNop(),
		cache:       make(map[string]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.Named("assets")
	return r
}

// Resolve returns url if it serves an image, otherwise the placeholder.
func (r *Resolver) Resolve(ctx context.Context, url string) string {
	url = strings.TrimSpace(url)
	if url == "" {
		return r.placeholder
	}
	if !r.probe {
		return url
	}

	if got, ok := r.cached(url); ok {
		return got
	}

	v, _, _ := r.group.Do(url, func() (interface{}, error) {
		if got, ok := r.cached(url); ok {
			return got, nil
		}
		ok, definite := r.isImage(ctx, url)
		resolved := r.placeholder
		if ok {
			resolved = url
		}
		// Transport failures and cancelled probes are retried on the next call.
		if !definite || ctx.Err() != nil {
			r.log.Debug("image probe inconclusive", zap.String("url", url))
			return resolved, nil
		}
		if !ok {
			r.log.Debug("image unavailable, using placeholder", zap.String("url", url))
		}
		r.mu.Lock()
		r.cache[url] = resolved
		r.mu.Unlock()
		return resolved, nil
	})
	return v.(string)
}

// Cached reports the resolved URL without probing.
func (r *Resolver) Cached(url string) (string, bool) {
	url = strings.TrimSpace(url)
	if url == "" {
		return r.placeholder, true
	}
	if !r.probe {
		return url, true
	}
	return r.cached(url)
}

func (r *Resolver) cached(url string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	got, ok := r.cache[url]
	return got, ok
}

// ResolveAll resolves every item image concurrently and returns a map from
// the original URL to the displayable one.
func (r *Resolver) ResolveAll(ctx context.Context, items []catalog.MenuItem) (map[string]string, error) {
	var mu sync.Mutex
	out := make(map[string]string, len(items))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentProbes)
	for _, it := range items {
		url := it.Image
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			resolved := r.Resolve(gCtx, url)
			mu.Lock()
			out[url] = resolved
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return out, err
	}
	return out, nil
}

// isImage probes url. definite is false when no HTTP status came back.
func (r *Resolver) isImage(ctx context.Context, url string) (ok, definite bool) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	ok, status := r.try(ctx, http.MethodHead, url)
	if ok {
		return true, true
	}
	// Some hosts reject HEAD.
	if status == http.StatusMethodNotAllowed || status == http.StatusNotImplemented || status == 0 {
		ok, status = r.try(ctx, http.MethodGet, url)
	}
	return ok, status != 0
}

func (r *Resolver) try(ctx context.Context, method, url string) (bool, int) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return false, -1
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return false, 0
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 512))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, resp.StatusCode
	}
	return strings.HasPrefix(resp.Header.Get("Content-Type"), "image/"), resp.StatusCode
}
