package notifier

import (
	"bytes"
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/require"
)

// requireSleep skips the test when no sleep binary is available.
func requireSleep(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep binary not available")
	}
}

// TestSpeaker_FireSupersedesPrevious ensures a new fire kills the previous tone and utterance.
func TestSpeaker_FireSupersedesPrevious(t *testing.T) {
	t.Parallel()
	requireSleep(t)

	s := NewSpeaker(
		WithToneCommand([]string{"sleep", "30"}),
		WithSpeechCommand([]string{"sleep", "30"}),
	)
	ctx := context.Background()

	s.Fire(ctx, "first")
	firstTone, firstSpeech := s.tone, s.speech

	require.True(t, firstTone.running())
	require.True(t, firstSpeech.running())

	s.Fire(ctx, "second")

	require.False(t, firstTone.running())
	require.False(t, firstSpeech.running())
	require.True(t, s.active())

	s.Stop(ctx)
	require.False(t, s.active())
}

// TestSpeaker_StopIsIdempotent verifies stopping an idle speaker is a no-op.
func TestSpeaker_StopIsIdempotent(t *testing.T) {
	t.Parallel()

	s := NewSpeaker(WithBell(nil), WithSpeechCommand(nil))

	s.Stop(context.Background())
	s.Stop(context.Background())
	require.False(t, s.active())
}

// TestSpeaker_BellWithoutToneCommand rings the bell when no tone player is set.
func TestSpeaker_BellWithoutToneCommand(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	s := NewSpeaker(WithBell(&buf), WithSpeechCommand(nil))

	s.Fire(context.Background(), "ding")
	s.Fire(context.Background(), "ding")

	require.Equal(t, "\a\a", buf.String())
}

// TestSpeaker_FailingCommandIsSwallowed checks that a missing program does not panic or leave state.
func TestSpeaker_FailingCommandIsSwallowed(t *testing.T) {
	t.Parallel()

	s := NewSpeaker(
		WithToneCommand([]string{"/nonexistent/proctor-tone"}),
		WithSpeechCommand([]string{"/nonexistent/proctor-speech", MessagePlaceholder}),
	)

	require.NotPanics(t, func() {
		s.Fire(context.Background(), "hello")
		s.Stop(context.Background())
	})
	require.False(t, s.active())
}

// TestStartProcess_EmptyCommand rejects empty argv.
func TestStartProcess_EmptyCommand(t *testing.T) {
	t.Parallel()

	_, err := startProcess(nil, "x")
	require.ErrorIs(t, err, errEmptyCommand)

	_, err = startProcess([]string{""}, "x")
	require.ErrorIs(t, err, errEmptyCommand)
}

// TestExpand replaces the message placeholder in every argument.
func TestExpand(t *testing.T) {
	t.Parallel()

	got := expand([]string{"-v", "en", MessagePlaceholder, "say: " + MessagePlaceholder}, "Student absent")
	require.Equal(t, []string{"-v", "en", "Student absent", "say: Student absent"}, got)
}

// TestDefaultSpeechCommand always carries a program and the message.
func TestDefaultSpeechCommand(t *testing.T) {
	t.Parallel()

	argv := DefaultSpeechCommand()
	require.NotEmpty(t, argv)
	require.NotEmpty(t, argv[0])
}
