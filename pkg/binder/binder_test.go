package binder_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/pkg/binder"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func TestJSON(t *testing.T) {
	t.Parallel()

	bind := binder.JSON()

	newRequest := func(body, contentType string) *http.Request {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		if contentType != "" {
			r.Header.Set("Content-Type", contentType)
		}
		return r
	}

	t.Run("valid body", func(t *testing.T) {
		t.Parallel()

		var req loginRequest
		err := bind(newRequest(`{"email":"a@x.com","password":"secret"}`, "application/json; charset=utf-8"), &req)
		require.NoError(t, err)
		assert.Equal(t, loginRequest{Email: "a@x.com", Password: "secret"}, req)
	})

	tests := []struct {
		name        string
		body        string
		contentType string
		wantErr     error
	}{
		{"missing content type", `{}`, "", binder.ErrMissingContentType},
		{"wrong content type", `{}`, "text/plain", binder.ErrUnsupportedMediaType},
		{"empty body", ``, "application/json", binder.ErrFailedToParseJSON},
		{"malformed", `{"email":`, "application/json", binder.ErrFailedToParseJSON},
		{"unknown field", `{"email":"a@x.com","admin":true}`, "application/json", binder.ErrFailedToParseJSON},
		{"trailing data", `{"email":"a@x.com"}{}`, "application/json", binder.ErrFailedToParseJSON},
		{"wrong type", `{"email":42}`, "application/json", binder.ErrFailedToParseJSON},
		{"too large", `{"email":"` + strings.Repeat("a", binder.DefaultMaxJSONSize) + `"}`, "application/json", binder.ErrFailedToParseJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var req loginRequest
			err := bind(newRequest(tt.body, tt.contentType), &req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var req loginRequest
		err := bind(newRequest(`{}`, "application/json").WithContext(ctx), &req)
		assert.ErrorIs(t, err, binder.ErrFailedToParseJSON)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

type callbackRequest struct {
	Provider string   `path:"provider"`
	Code     string   `query:"code"`
	State    string   `query:"state"`
	Page     *int     `query:"page"`
	Scopes   []string `query:"scope"`
	Ignored  string   `query:"-"`
	Plain    string
}

func TestPathAndQuery(t *testing.T) {
	t.Parallel()

	params := map[string]string{"provider": "github"}
	extractor := func(_ *http.Request, key string) string { return params[key] }

	t.Run("binds tagged fields only", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodGet, "/?code=abc&state=xyz&page=2&scope=a&scope=b&Ignored=v&plain=p", nil)

		var req callbackRequest
		require.NoError(t, binder.Path(extractor)(r, &req))
		require.NoError(t, binder.Query()(r, &req))

		assert.Equal(t, "github", req.Provider)
		assert.Equal(t, "abc", req.Code)
		assert.Equal(t, "xyz", req.State)
		require.NotNil(t, req.Page)
		assert.Equal(t, 2, *req.Page)
		assert.Equal(t, []string{"a", "b"}, req.Scopes)
		assert.Empty(t, req.Ignored)
		assert.Empty(t, req.Plain)
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodGet, "/?page=two", nil)
		var req callbackRequest
		assert.ErrorIs(t, binder.Query()(r, &req), binder.ErrFailedToParseQuery)
	})

	t.Run("non pointer target", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		assert.ErrorIs(t, binder.Query()(r, callbackRequest{}), binder.ErrFailedToParseQuery)
		assert.ErrorIs(t, binder.Path(nil)(r, &callbackRequest{}), binder.ErrFailedToParsePath)
	})
}
