package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_PassesFieldsThrough(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapLogger(zap.New(core))
	ctx := context.Background()

	log.With("component", "poller").Warn(ctx, "poll failed", "table", "rankings")
	log.Debug(ctx, "tick")

	entries := logs.All()
	require.Len(t, entries, 2)

	require.Equal(t, zapcore.WarnLevel, entries[0].Level)
	require.Equal(t, "poll failed", entries[0].Message)
	fields := entries[0].ContextMap()
	require.Equal(t, "poller", fields["component"])
	require.Equal(t, "rankings", fields["table"])

	require.Equal(t, zapcore.DebugLevel, entries[1].Level)
}
