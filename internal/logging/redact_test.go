package logging

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRedact(t *testing.T) {
	tests := []struct {
		name string
		in   []any
		want []any
	}{
		{"nothing sensitive", []any{"user_id", "u-1", "status", 200}, []any{"user_id", "u-1", "status", 200}},
		{"pair", []any{"access_token", "tok", "status", 200}, []any{"access_token", Redacted, "status", 200}},
		{"case insensitive", []any{"Authorization", "Bearer tok"}, []any{"Authorization", Redacted}},
		{"attr", []any{slog.String("password", "secret")}, []any{slog.String("password", Redacted)}},
		{"sensitive word as value", []any{"field", "password"}, []any{"field", "password"}},
		{"dangling key", []any{"refresh_token"}, []any{"refresh_token"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, redact(tt.in))
		})
	}
}

func TestRedact_DoesNotMutateInput(t *testing.T) {
	in := []any{"apikey", "k"}
	out := redact(in)
	assert.Equal(t, "k", in[1])
	assert.Equal(t, Redacted, out[1])
}

func TestSlogLogger_MasksSensitiveValues(t *testing.T) {
	log, buf := newTestLogger(t)

	log.With("apikey", "anon-key").Info(context.Background(), "signed in", "access_token", "tok-123", "user_id", "u-1")

	out := buf.String()
	assert.NotContains(t, out, "anon-key")
	assert.NotContains(t, out, "tok-123")
	assert.Contains(t, out, "user_id=u-1")
	assert.Contains(t, out, "access_token="+Redacted)
}

func TestZapLogger_MasksSensitiveValues(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapLogger(zap.New(core))

	log.With("passphrase", "hunter2").Info(context.Background(), "store opened", "refresh_token", "r-1")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, Redacted, fields["passphrase"])
	assert.Equal(t, Redacted, fields["refresh_token"])
}
