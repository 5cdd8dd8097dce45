package requestctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoggerDefaultsToNoop(t *testing.T) {
	require.Same(t, NoopLogger(), Logger(context.Background()))
	require.Same(t, NoopLogger(), Logger(WithLogger(context.Background(), nil)))
}

func TestLoggerRoundTrip(t *testing.T) {
	logger := zap.NewExample()
	ctx := WithLogger(context.Background(), logger)
	require.Same(t, logger, Logger(ctx))
}

func TestTraceRoundTrip(t *testing.T) {
	_, ok := Trace(context.Background())
	require.False(t, ok)
	require.Empty(t, TraceID(context.Background()))

	ctx := WithTrace(context.Background(), TraceInfo{TraceID: "abc", SpanID: "def", Sampled: true})
	info, ok := Trace(ctx)
	require.True(t, ok)
	require.Equal(t, "abc", info.TraceID)
	require.Equal(t, "abc", TraceID(ctx))
}

func TestTraceFields(t *testing.T) {
	require.Nil(t, TraceFields(context.Background()))

	ctx := WithTrace(context.Background(), TraceInfo{TraceID: "abc", SpanID: "def"})
	fields := TraceFields(ctx)
	require.Len(t, fields, 3)
	require.Equal(t, "trace_id", fields[0].Key)
	require.Equal(t, "abc", fields[0].String)
}
