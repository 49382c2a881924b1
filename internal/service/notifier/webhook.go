package notifier

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/oshokin/proctor-alert/internal/version"
)

// SignatureHeader carries the HMAC-SHA256 signature of the body.
const SignatureHeader = "X-Signature-256"

// Webhook posts alert events to an HTTP endpoint.
type Webhook struct {
	url       string
	secret    string
	sessionID string
	client    *http.Client

	// mu guards active.
	mu sync.Mutex
	// active is set after a fire until the matching stop is sent.
	active bool
}

// NewWebhook creates a webhook channel. A non-empty secret signs every request.
func NewWebhook(url, secret, sessionID string, timeout time.Duration) *Webhook {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Webhook{
		url:       url,
		secret:    secret,
		sessionID: sessionID,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fire posts an alert_fired event.
func (w *Webhook) Fire(ctx context.Context, message string) {
	w.mu.Lock()
	w.active = true
	w.mu.Unlock()

	if err := w.send(ctx, newEvent(EventFired, message, w.sessionID, time.Now())); err != nil {
		report(ctx, "webhook", "fire", err)
	}
}

// Stop posts an alert_stopped event if a fire is outstanding.
func (w *Webhook) Stop(ctx context.Context) {
	w.mu.Lock()
	wasActive := w.active
	w.active = false
	w.mu.Unlock()

	if !wasActive {
		return
	}

	if err := w.send(ctx, newEvent(EventStopped, "", w.sessionID, time.Now())); err != nil {
		report(ctx, "webhook", "stop", err)
	}
}

func (w *Webhook) send(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	if w.secret != "" {
		req.Header.Set(SignatureHeader, "sha256="+computeHMAC(body, []byte(w.secret)))
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("send webhook event: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode) //nolint:err113 // Status is dynamic.
	}

	return nil
}

func computeHMAC(message, key []byte) string {
	mac := hmac.New(sha256.New, key)
	mac.Write(message)

	return hex.EncodeToString(mac.Sum(nil))
}
