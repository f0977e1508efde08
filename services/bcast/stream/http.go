package stream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/02loveslollipop/tpvbc/services/bcast/models"
)

// DefaultRequestTimeout bounds a single GET to one retry interval.
const DefaultRequestTimeout = RetryInterval

// HTTPBackend polls {base}/bcast/{feed}.
type HTTPBackend struct {
	client  *http.Client
	timeout time.Duration
}

// NewHTTPBackend uses client, or a default client when nil. Each request is
// bounded by the shorter of the client timeout and DefaultRequestTimeout.
func NewHTTPBackend(client *http.Client) *HTTPBackend {
	if client == nil {
		client = &http.Client{}
	}
	timeout := DefaultRequestTimeout
	if client.Timeout > 0 {
		timeout = min(client.Timeout, timeout)
	}
	return &HTTPBackend{client: client, timeout: timeout}
}

func (b *HTTPBackend) Name() string { return "http" }

func (b *HTTPBackend) Interval(feed time.Duration) time.Duration { return feed }

func (b *HTTPBackend) Open(_ context.Context, base string, kind models.Kind) (Source, error) {
	return &httpSource{client: b.client, timeout: b.timeout, url: base + "/" + kind.Path()}, nil
}

type httpSource struct {
	client  *http.Client
	timeout time.Duration
	url     string
}

func (s *httpSource) Fetch(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", s.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: s.url, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.url, err)
	}
	return body, nil
}

func (s *httpSource) Close() error { return nil }
