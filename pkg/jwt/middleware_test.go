package jwt_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/pkg/jwt"
)

func TestMiddleware(t *testing.T) {
	t.Parallel()

	service, err := jwt.New([]byte("test-secret"))
	require.NoError(t, err)

	token, err := service.Generate(validClaims())
	require.NoError(t, err)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := jwt.GetClaims[jwt.MapClaims](r.Context())
		if !ok || claims["sub"] != "user123" {
			http.Error(w, "claims missing", http.StatusInternalServerError)
			return
		}
		raw, _ := jwt.GetToken(r.Context())
		_, _ = w.Write([]byte(raw))
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid bearer token", "Bearer " + token, http.StatusOK},
		{"lowercase scheme", "bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"no token", "Bearer ", http.StatusUnauthorized},
		{"tampered token", "Bearer " + token + "x", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			jwt.Middleware(service)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, token, rec.Body.String())
			}
		})
	}
}

func TestMiddlewareWithConfig(t *testing.T) {
	t.Parallel()

	service, err := jwt.New([]byte("test-secret"))
	require.NoError(t, err)

	token, err := service.Generate(validClaims())
	require.NoError(t, err)

	t.Run("typed claims and custom header", func(t *testing.T) {
		t.Parallel()

		mw := jwt.MiddlewareWithConfig(jwt.MiddlewareConfig{
			Service:   service,
			Extractor: jwt.HeaderTokenExtractor("X-Token"),
			NewClaims: func() jwt.Claims { return &testClaims{} },
		})

		var got *testClaims
		h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, _ = jwt.GetClaims[*testClaims](r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Token", token)
		h.ServeHTTP(httptest.NewRecorder(), req)

		require.NotNil(t, got)
		assert.Equal(t, "a@x.com", got.Email)
	})

	t.Run("skip and error handler", func(t *testing.T) {
		t.Parallel()

		var handled error
		mw := jwt.MiddlewareWithConfig(jwt.MiddlewareConfig{
			Service: service,
			Skip:    func(r *http.Request) bool { return r.URL.Path == "/public" },
			ErrorHandler: func(w http.ResponseWriter, _ *http.Request, err error) {
				handled = err
				w.WriteHeader(http.StatusTeapot)
			},
		})
		h := mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/public", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/private", nil))
		assert.Equal(t, http.StatusTeapot, rec.Code)
		assert.ErrorIs(t, handled, jwt.ErrInvalidToken)
	})
}
