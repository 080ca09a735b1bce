package logger_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/pkg/logger"
)

func TestError(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
}

func TestIdentifiers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		attr slog.Attr
		key  string
		want any
	}{
		{logger.UserID("123"), "user_id", "123"},
		{logger.RequestID("abc"), "request_id", "abc"},
		{logger.Provider("github"), "provider", "github"},
		{logger.Component("auth"), "component", "auth"},
		{logger.Event("login"), "event", "login"},
		{logger.Driver("mongo"), "driver", "mongo"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.key, tt.attr.Key)
			assert.Equal(t, tt.want, tt.attr.Value.Any())
		})
	}

	assert.True(t, logger.UserID(nil).Equal(slog.Attr{}))
}

func TestHTTP(t *testing.T) {
	t.Parallel()

	attr := logger.HTTP("POST", "/auth/login", 200, time.Second)
	require.Equal(t, "http", attr.Key)
	g := attr.Value.Group()
	require.Len(t, g, 4)
	assert.Equal(t, "method", g[0].Key)
	assert.Equal(t, int64(200), g[2].Value.Int64())
}
