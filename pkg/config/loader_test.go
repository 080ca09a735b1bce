package config_test

import (
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/pkg/auth"
	"github.com/dmitrymomot/authkit/pkg/config"
	"github.com/dmitrymomot/authkit/pkg/jwt"
)

type cachedConfig struct {
	Value string `env:"AUTHKIT_CONFIG_TEST_VALUE" envDefault:"default"`
}

type requiredConfig struct {
	Secret string `env:"AUTHKIT_CONFIG_TEST_REQUIRED,required"`
}

func TestLoad(t *testing.T) {
	t.Setenv("AUTHKIT_CONFIG_TEST_VALUE", "first")

	var cfg cachedConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "first", cfg.Value)

	// Later changes are not picked up for an already loaded type.
	require.NoError(t, os.Setenv("AUTHKIT_CONFIG_TEST_VALUE", "second"))

	var again cachedConfig
	require.NoError(t, config.Load(&again))
	assert.Equal(t, "first", again.Value)

	assert.ErrorIs(t, config.Load[cachedConfig](nil), config.ErrNilPointer)
}

func TestLoad_RequiredRetriesAfterFailure(t *testing.T) {
	var cfg requiredConfig
	err := config.Load(&cfg)
	require.ErrorIs(t, err, config.ErrParsingConfig)
	assert.Panics(t, func() { config.MustLoad(&requiredConfig{}) })

	t.Setenv("AUTHKIT_CONFIG_TEST_REQUIRED", "s3cret")
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "s3cret", cfg.Secret)
}

func TestLoad_Concurrent(t *testing.T) {
	type concurrentConfig struct {
		Port int `env:"AUTHKIT_CONFIG_TEST_PORT" envDefault:"8080"`
	}

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var cfg concurrentConfig
			assert.NoError(t, config.Load(&cfg))
			assert.Equal(t, 8080, cfg.Port)
		}()
	}
	wg.Wait()
}

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("package configs", func(t *testing.T) {
		t.Parallel()

		tokens, err := config.Parse[auth.TokenConfig](map[string]string{
			"JWT_ACCESS_TOKEN_EXPIRES_IN": "5m",
		})
		require.NoError(t, err)
		assert.Equal(t, 5*time.Minute, tokens.AccessTokenTTL)
		assert.Equal(t, 720*time.Hour, tokens.RefreshTokenTTL)

		jwtCfg, err := config.Parse[jwt.Config](map[string]string{"JWT_SECRET": "secret"})
		require.NoError(t, err)
		assert.Equal(t, "secret", jwtCfg.Secret)
	})

	t.Run("missing required", func(t *testing.T) {
		t.Parallel()

		_, err := config.Parse[requiredConfig](map[string]string{})
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Parallel()

		_, err := config.Parse[auth.TokenConfig](map[string]string{"JWT_ACCESS_TOKEN_EXPIRES_IN": "soon"})
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})
}
