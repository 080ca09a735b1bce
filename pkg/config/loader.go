package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	dotenvOnce sync.Once
	cache      sync.Map // reflect.Type -> value
	parseMu    sync.Mutex
)

// Load parses the environment into v, caching the result per type.
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	dotenvOnce.Do(func() {
		// A missing .env file is normal outside local development.
		_ = godotenv.Load()
	})

	key := reflect.TypeFor[T]()
	if cached, ok := cache.Load(key); ok {
		*v = cached.(T)
		return nil
	}

	parseMu.Lock()
	defer parseMu.Unlock()

	if cached, ok := cache.Load(key); ok {
		*v = cached.(T)
		return nil
	}

	var parsed T
	if err := env.Parse(&parsed); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	cache.Store(key, parsed)
	*v = parsed
	return nil
}

// MustLoad is Load that panics on error, for startup code.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

// Parse fills a T from environ alone.
func Parse[T any](environ map[string]string) (T, error) {
	var v T
	if err := env.ParseWithOptions(&v, env.Options{Environment: environ}); err != nil {
		return v, errors.Join(ErrParsingConfig, err)
	}
	return v, nil
}
