package notifier

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/oshokin/proctor-alert/internal/logger"
)

// TestLog_WritesCalls logs fire at info and stop at debug.
func TestLog_WritesCalls(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	ctx := logger.ToContext(context.Background(), logger.NewWithSink(zapcore.AddSync(&out), zapcore.DebugLevel))

	var channel Channel = Log{}

	channel.Fire(ctx, "Student absent")
	channel.Stop(ctx)

	require.Contains(t, out.String(), "Dry run: fire")
	require.Contains(t, out.String(), "Student absent")
	require.Contains(t, out.String(), "Dry run: stop")
}
