package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/handler"
	"github.com/dmitrymomot/authkit/pkg/binder"
	"github.com/dmitrymomot/authkit/pkg/logger"
	"github.com/dmitrymomot/authkit/pkg/requestid"
	"github.com/dmitrymomot/authkit/pkg/validator"
)

type greetRequest struct {
	Name string `json:"name"`
}

var errDomainConflict = errors.New("already exists")

func conflictMapper(err error) (handler.HTTPError, bool) {
	if errors.Is(err, errDomainConflict) {
		return handler.NewHTTPError(http.StatusConflict, "already_exists"), true
	}
	return handler.HTTPError{}, false
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) handler.JSONResponse {
	t.Helper()
	var body handler.JSONResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestWrap(t *testing.T) {
	t.Parallel()

	greet := func(ctx handler.Context, req greetRequest) handler.Response {
		switch req.Name {
		case "":
			return handler.Error(validator.Apply(validator.Required("name", req.Name)))
		case "taken":
			return handler.Error(errDomainConflict)
		case "nil":
			return nil
		case "boom":
			return handler.Error(errors.New("db connection string leaked"))
		}
		return handler.JSON(map[string]string{"hello": req.Name}, handler.WithJSONStatus(http.StatusCreated))
	}

	h := handler.Wrap(greet,
		handler.WithBinders[handler.Context, greetRequest](binder.JSON()),
		handler.WithErrorHandler[handler.Context, greetRequest](handler.NewErrorHandler[handler.Context](nil, conflictMapper)),
	)

	do := func(body, contentType string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		rec := httptest.NewRecorder()
		h(rec, req)
		return rec
	}

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		rec := do(`{"name":"bob"}`, "application/json")
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, map[string]any{"hello": "bob"}, decodeBody(t, rec).Data)
	})

	tests := []struct {
		name        string
		body        string
		contentType string
		status      int
		code        string
	}{
		{"validation error", `{"name":""}`, "application/json", http.StatusUnprocessableEntity, "validation_error"},
		{"mapped domain error", `{"name":"taken"}`, "application/json", http.StatusConflict, "already_exists"},
		{"nil response", `{"name":"nil"}`, "application/json", http.StatusInternalServerError, "internal_server_error"},
		{"malformed body", `{"name":`, "application/json", http.StatusBadRequest, "bad_request"},
		{"wrong content type", `name=bob`, "application/x-www-form-urlencoded", http.StatusUnsupportedMediaType, "unsupported_media_type"},
		{"unknown error", `{"name":"boom"}`, "application/json", http.StatusInternalServerError, "internal_server_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := do(tt.body, tt.contentType)
			assert.Equal(t, tt.status, rec.Code)

			body := decodeBody(t, rec)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
			assert.Nil(t, body.Data)
			assert.NotContains(t, rec.Body.String(), "leaked")
		})
	}

	t.Run("validation details", func(t *testing.T) {
		t.Parallel()

		body := decodeBody(t, do(`{"name":""}`, "application/json"))
		require.NotNil(t, body.Error)
		assert.Equal(t, map[string][]string{"name": {"field is required"}}, body.Error.Details)
	})
}

func TestWrap_DefaultErrorHandler(t *testing.T) {
	t.Parallel()

	h := handler.Wrap(func(handler.Context, struct{}) handler.Response {
		return handler.Error(handler.ErrForbidden)
	})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	body := decodeBody(t, rec)
	require.NotNil(t, body.Error)
	assert.Equal(t, "forbidden", body.Error.Code)
	assert.Equal(t, "Forbidden", body.Error.Message)
}

type appContext struct {
	handler.Context
	tenant string
}

func TestWrap_CustomContext(t *testing.T) {
	t.Parallel()

	h := handler.Wrap(
		func(ctx *appContext, _ struct{}) handler.Response {
			return handler.JSON(ctx.tenant)
		},
		handler.WithContextFactory[*appContext, struct{}](func(w http.ResponseWriter, r *http.Request) *appContext {
			return &appContext{Context: handler.NewContext(w, r), tenant: "acme"}
		}),
	)

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "acme", decodeBody(t, rec).Data)
}

func TestErrorHandler_Logging(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf))
	eh := handler.NewErrorHandler[handler.Context](log)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req = req.WithContext(requestid.WithContext(req.Context(), "req-42"))
	rec := httptest.NewRecorder()

	eh(handler.NewContext(rec, req), errors.New("disk full"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
	assert.Contains(t, buf.String(), `"request_id":"req-42"`)
	assert.Contains(t, buf.String(), "disk full")
	assert.NotContains(t, rec.Body.String(), "disk full")
}

func TestResponses(t *testing.T) {
	t.Parallel()

	t.Run("json with header and meta", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		err := handler.JSON("ok",
			handler.WithJSONHeader("Authorization", "Bearer abc"),
			handler.WithJSONMeta(map[string]int{"page": 1}),
		).Render(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Bearer abc", rec.Header().Get("Authorization"))
		assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"data":"ok","meta":{"page":1}}`, rec.Body.String())
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		require.NoError(t, handler.EmptyWithStatus(http.StatusAccepted).Render(rec, httptest.NewRequest(http.MethodPost, "/", nil)))
		assert.Equal(t, http.StatusAccepted, rec.Code)
		assert.Empty(t, rec.Body.String())

		rec = httptest.NewRecorder()
		require.NoError(t, handler.Empty().Render(rec, httptest.NewRequest(http.MethodDelete, "/", nil)))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("redirect", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		require.NoError(t, handler.RedirectWithCode("https://github.com/login", http.StatusFound).Render(rec, req))
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "https://github.com/login", rec.Header().Get("Location"))

		rec = httptest.NewRecorder()
		require.NoError(t, handler.Redirect("/done").Render(rec, req))
		assert.Equal(t, http.StatusSeeOther, rec.Code)
	})
}
