package analytics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/oshokin/proctor-alert/internal/domain/alert"
	domain "github.com/oshokin/proctor-alert/internal/domain/analytics"
)

// TestServer_GetSnapshot_Unavailable asserts an empty store yields codes.Unavailable.
func TestServer_GetSnapshot_Unavailable(t *testing.T) {
	t.Parallel()

	srv := NewServer(NewStore())

	_, err := srv.GetSnapshot(context.Background(), new(emptypb.Empty))
	require.Error(t, err)
	require.Equal(t, codes.Unavailable, status.Code(err))
}

// TestServer_GetSnapshot returns the stored snapshot in wire shape.
func TestServer_GetSnapshot(t *testing.T) {
	t.Parallel()

	store := NewStore()
	store.Put(domain.Snapshot{
		FaceCount:       1,
		SleepingStatus:  "Awake",
		FocusScore:      88,
		ProctoringAlert: "Attention Diverted!",
		AlertType:       alert.GazeViolation,
	})

	payload, err := NewServer(store).GetSnapshot(context.Background(), new(emptypb.Empty))
	require.NoError(t, err)

	fields := payload.AsMap()
	require.InDelta(t, 1.0, fields["face_count"], 0.0001)
	require.Equal(t, "Attention Diverted!", fields["proctoring_alert"])
	require.Equal(t, "gaze_violation", fields["alert_type"])
}

// TestStore_Latest checks the store reports emptiness and keeps the last snapshot.
func TestStore_Latest(t *testing.T) {
	t.Parallel()

	store := NewStore()

	_, ok := store.Latest()
	require.False(t, ok)

	store.Put(domain.Snapshot{FaceCount: 1})
	store.Put(domain.Snapshot{FaceCount: 2})

	got, ok := store.Latest()
	require.True(t, ok)
	require.Equal(t, 2, got.FaceCount)
}

// TestServer_GetSnapshot_AfterInvalidate stops serving a snapshot once the store is invalidated.
func TestServer_GetSnapshot_AfterInvalidate(t *testing.T) {
	t.Parallel()

	store := NewStore()
	store.Put(domain.Snapshot{AlertType: alert.CopyAttempt})
	store.Invalidate()

	_, ok := store.Latest()
	require.False(t, ok)

	_, err := NewServer(store).GetSnapshot(context.Background(), new(emptypb.Empty))
	require.Equal(t, codes.Unavailable, status.Code(err))

	store.Put(domain.Snapshot{AlertType: alert.Yawn})

	latest, ok := store.Latest()
	require.True(t, ok)
	require.Equal(t, alert.Yawn, latest.AlertType)
}
