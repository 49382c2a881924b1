package monitor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/oshokin/proctor-alert/internal/version"
)

// errStreamStatus is returned when the stream endpoint answers with a non-2xx status.
var errStreamStatus = errors.New("unexpected stream status")

// HTTPProbe checks a video stream URL. Only the response headers are read,
// so endless MJPEG bodies are never consumed.
type HTTPProbe struct {
	url     string
	client  *http.Client
	timeout time.Duration
}

// NewHTTPProbe creates a probe for url with a per-check timeout.
func NewHTTPProbe(url string, timeout time.Duration) *HTTPProbe {
	return &HTTPProbe{
		url:     url,
		client:  new(http.Client),
		timeout: timeout,
	}
}

// Probe issues a GET and checks the status code.
func (p *HTTPProbe) Probe(ctx context.Context) error {
	if p.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return fmt.Errorf("build stream request: %w", err)
	}

	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("request stream: %w", err)
	}

	_ = resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: %d", errStreamStatus, resp.StatusCode)
	}

	return nil
}
