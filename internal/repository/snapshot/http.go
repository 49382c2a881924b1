package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/oshokin/proctor-alert/internal/domain/analytics"
)

// SessionHeader carries the monitoring session id on every request.
const SessionHeader = "X-Session-ID"

// maxBodySize caps the analytics response size.
const maxBodySize = 1 << 20

// errAddressRequired is returned when the analytics URL is missing.
var errAddressRequired = errors.New("analytics URL must be provided")

// HTTPSource fetches snapshots from the backend's analytics endpoint.
type HTTPSource struct {
	// url is the analytics endpoint.
	url string
	// sessionID is sent in SessionHeader when set.
	sessionID string
	// client performs the requests.
	client *http.Client
	// now stamps fetched snapshots.
	now func() time.Time
}

// HTTPOption configures an HTTPSource.
type HTTPOption func(*HTTPSource)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(s *HTTPSource) {
		if client != nil {
			s.client = client
		}
	}
}

// WithTimeout sets the per-request timeout of the default client.
func WithTimeout(timeout time.Duration) HTTPOption {
	return func(s *HTTPSource) {
		if timeout > 0 {
			s.client.Timeout = timeout
		}
	}
}

// WithSessionID tags requests with the monitoring session id.
func WithSessionID(id string) HTTPOption {
	return func(s *HTTPSource) {
		s.sessionID = id
	}
}

// WithClock sets the clock used to stamp snapshots.
func WithClock(now func() time.Time) HTTPOption {
	return func(s *HTTPSource) {
		if now != nil {
			s.now = now
		}
	}
}

// NewHTTPSource creates a source polling url.
func NewHTTPSource(url string, opts ...HTTPOption) (*HTTPSource, error) {
	if url == "" {
		return nil, errAddressRequired
	}

	source := &HTTPSource{
		url: url,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		now: time.Now,
	}

	for _, opt := range opts {
		opt(source)
	}

	return source, nil
}

// Fetch performs one GET and decodes the JSON body.
func (s *HTTPSource) Fetch(ctx context.Context) (analytics.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return analytics.Snapshot{}, fmt.Errorf("%w: build request: %w", ErrTransport, err)
	}

	req.Header.Set("Accept", "application/json")

	if s.sessionID != "" {
		req.Header.Set(SessionHeader, s.sessionID)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return analytics.Snapshot{}, fmt.Errorf("%w: get analytics: %w", ErrTransport, err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return analytics.Snapshot{}, fmt.Errorf("%w: analytics returned status %s", ErrTransport, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return analytics.Snapshot{}, fmt.Errorf("%w: read body: %w", ErrTransport, err)
	}

	snapshot, err := analytics.Decode(body, s.now())
	if err != nil {
		return analytics.Snapshot{}, fmt.Errorf("%w: %w", ErrFormat, err)
	}

	return snapshot, nil
}
