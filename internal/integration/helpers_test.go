package integration

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/proctor-alert/internal/config"
	"github.com/oshokin/proctor-alert/internal/render"
)

// reservePort returns a free local address. The listener is closed right away.
func reservePort(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	addr := l.Addr().String()
	_ = l.Close()

	return addr
}

// writeConfig saves cfg into a temporary settings file.
func writeConfig(t *testing.T, cfg *config.Config) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), config.DefaultConfigFilename)
	require.NoError(t, config.Save(path, cfg))

	return path
}

// analyticsBackend serves the given bodies in order and repeats the last one.
func analyticsBackend(t *testing.T, bodies ...string) *httptest.Server {
	t.Helper()

	var calls atomic.Int64

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		i := min(int(calls.Add(1))-1, len(bodies)-1)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(bodies[i]))
	}))
	t.Cleanup(srv.Close)

	return srv
}

// body returns an analytics payload; alertType "" encodes null.
func body(alertType, label string) string {
	typ := "null"
	if alertType != "" {
		typ = `"` + alertType + `"`
	}

	return `{"face_count":1,"sleeping_status":"Awake","focus_score":71.5,` +
		`"unauthorized_activity":"None Detected","copy_attempt":"None Detected",` +
		`"proctoring_alert":"` + label + `","alert_type":` + typ + `}`
}

// frameRecorder is a renderer that keeps every frame and error.
type frameRecorder struct {
	mu     sync.Mutex
	frames []render.Frame
	errors []error
}

func (r *frameRecorder) Render(_ context.Context, frame render.Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.frames = append(r.frames, frame)
}

func (r *frameRecorder) RenderError(_ context.Context, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.errors = append(r.errors, err)
}

func (r *frameRecorder) RenderStreamError(context.Context, error) {}

func (r *frameRecorder) frameCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.frames)
}

func (r *frameRecorder) errorCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.errors)
}
