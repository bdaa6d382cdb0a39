package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"menucatalog/internal/catalog"
)

const DefaultFetchTimeout = 10 * time.Second

// HTTPSource fetches the catalog as JSON from a menu API endpoint.
type HTTPSource struct {
	URL     string
	Client  *http.Client
	Timeout time.Duration
}

func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &HTTPSource{URL: url, Client: http.DefaultClient, Timeout: timeout}
}

func (s *HTTPSource) Name() string {
	return "http:" + s.URL
}

func (s *HTTPSource) Load(ctx context.Context) ([]catalog.MenuItem, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build menu request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch menu: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch menu: %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read menu response: %w", err)
	}

	items, err := decodeJSON(data)
	if err != nil {
		return nil, err
	}
	if err := validate(items); err != nil {
		return nil, err
	}
	return items, nil
}
