package assets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menucatalog/internal/catalog"
)

func imageServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		switch r.URL.Path {
		case "/pizza.png":
			w.Header().Set("Content-Type", "image/png")
			w.WriteHeader(http.StatusOK)
		case "/get-only.jpg":
			if r.Method == http.MethodHead {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			w.Header().Set("Content-Type", "image/jpeg")
			w.WriteHeader(http.StatusOK)
		case "/page.html":
			w.Header().Set("Content-Type", "text/html")
			w.WriteHeader(http.StatusOK)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestResolve(t *testing.T) {
	var hits int32
	srv := imageServer(t, &hits)
	r := NewResolver(WithProbe(true), WithHTTPClient(srv.Client()))
	ctx := context.Background()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{"image", srv.URL + "/pizza.png", srv.URL + "/pizza.png"},
		{"head rejected, get works", srv.URL + "/get-only.jpg", srv.URL + "/get-only.jpg"},
		{"not an image", srv.URL + "/page.html", DefaultPlaceholder},
		{"missing", srv.URL + "/gone.png", DefaultPlaceholder},
		{"empty", "", DefaultPlaceholder},
		{"unreachable", "http://127.0.0.1:1/x.png", DefaultPlaceholder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(ctx, tt.url))
		})
	}
}

func TestResolve_Caches(t *testing.T) {
	var hits int32
	srv := imageServer(t, &hits)
	r := NewResolver(WithProbe(true), WithHTTPClient(srv.Client()))

	url := srv.URL + "/pizza.png"
	_, ok := r.Cached(url)
	assert.False(t, ok)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, url, r.Resolve(context.Background(), url))
		}()
	}
	wg.Wait()
	r.Resolve(context.Background(), url)

	got, ok := r.Cached(url)
	assert.True(t, ok)
	assert.Equal(t, url, got)
	// Concurrent callers may each miss the cache before the first probe
	// finishes, but singleflight collapses them; later calls hit the cache.
	assert.LessOrEqual(t, atomic.LoadInt32(&hits), int32(10))
	before := atomic.LoadInt32(&hits)
	r.Resolve(context.Background(), url)
	assert.Equal(t, before, atomic.LoadInt32(&hits))
}

func TestResolve_NoProbe(t *testing.T) {
	r := NewResolver(WithPlaceholder("placeholder.png"))
	assert.Equal(t, "http://x/y.png", r.Resolve(context.Background(), "http://x/y.png"))
	assert.Equal(t, "placeholder.png", r.Resolve(context.Background(), " "))
	got, ok := r.Cached("http://x/y.png")
	assert.True(t, ok)
	assert.Equal(t, "http://x/y.png", got)
}

func TestResolveAll(t *testing.T) {
	var hits int32
	srv := imageServer(t, &hits)
	r := NewResolver(WithProbe(true), WithHTTPClient(srv.Client()))

	items := []catalog.MenuItem{
		{ID: "1", ItemName: "Pizza", Image: srv.URL + "/pizza.png"},
		{ID: "2", ItemName: "Cola", Image: srv.URL + "/gone.png"},
		{ID: "3", ItemName: "Salad"},
	}
	got, err := r.ResolveAll(context.Background(), items)
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/pizza.png", got[srv.URL+"/pizza.png"])
	assert.Equal(t, DefaultPlaceholder, got[srv.URL+"/gone.png"])
	assert.Equal(t, DefaultPlaceholder, got[""])
}

func TestResolve_InconclusiveNotCached(t *testing.T) {
	var hits int32
	srv := imageServer(t, &hits)
	r := NewResolver(WithProbe(true), WithHTTPClient(srv.Client()))
	url := srv.URL + "/pizza.png"

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, DefaultPlaceholder, r.Resolve(cancelled, url))
	_, ok := r.Cached(url)
	assert.False(t, ok, "cancelled probe must not be cached")

	assert.Equal(t, url, r.Resolve(context.Background(), url))
	got, ok := r.Cached(url)
	assert.True(t, ok)
	assert.Equal(t, url, got)
}

func TestResolve_UnreachableNotCached(t *testing.T) {
	r := NewResolver(WithProbe(true))
	url := "http://127.0.0.1:1/x.png"

	assert.Equal(t, DefaultPlaceholder, r.Resolve(context.Background(), url))
	_, ok := r.Cached(url)
	assert.False(t, ok)
}

func TestResolve_MissingIsCached(t *testing.T) {
	var hits int32
	srv := imageServer(t, &hits)
	r := NewResolver(WithProbe(true), WithHTTPClient(srv.Client()))
	url := srv.URL + "/gone.png"

	assert.Equal(t, DefaultPlaceholder, r.Resolve(context.Background(), url))
	got, ok := r.Cached(url)
	assert.True(t, ok)
	assert.Equal(t, DefaultPlaceholder, got)
}
