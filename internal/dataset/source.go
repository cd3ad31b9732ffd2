package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultURL is the published ATT&CK Enterprise bundle location.
const DefaultURL = "https://raw.githubusercontent.com/mitre/cti/master/enterprise-attack/enterprise-attack.json"

// Source yields raw bundle bytes.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// HTTPSource fetches the bundle over HTTP. One attempt, no retries.
type HTTPSource struct {
	url    string
	client *http.Client
}

// HTTPConfig configures the HTTP source.
type HTTPConfig struct {
	URL     string
	Timeout time.Duration
}

// NewHTTPSource creates an HTTP source.
func NewHTTPSource(cfg HTTPConfig) *HTTPSource {
	url := cfg.URL
	if url == "" {
		url = DefaultURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPSource{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch performs a single GET of the bundle.
func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, &FetchError{URL: s.url, Err: err}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: s.url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, &FetchError{URL: s.url, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: s.url, Err: err}
	}
	return body, nil
}
