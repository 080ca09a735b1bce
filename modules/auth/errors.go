package auth

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/authkit/handler"
	authsvc "github.com/dmitrymomot/authkit/pkg/auth"
	"github.com/dmitrymomot/authkit/pkg/ratelimiter"
)

var errorTable = []struct {
	err     error
	httpErr handler.HTTPError
}{
	{authsvc.ErrAlreadyRegistered, handler.NewHTTPError(http.StatusConflict, "already_registered")},
	{authsvc.ErrAlreadyVerified, handler.NewHTTPError(http.StatusConflict, "already_verified")},
	{authsvc.ErrInvalidToken, handler.NewHTTPError(http.StatusBadRequest, "invalid_token")},
	{authsvc.ErrIncorrectPassword, handler.NewHTTPError(http.StatusUnauthorized, "incorrect_password")},
	{authsvc.ErrEmailNotConfirmed, handler.NewHTTPError(http.StatusForbidden, "email_not_confirmed")},
	{authsvc.ErrUserNotFound, handler.NewHTTPError(http.StatusNotFound, "user_not_found")},
	{authsvc.ErrInvalidOrExpiredToken, handler.NewHTTPError(http.StatusUnauthorized, "invalid_or_expired_token")},
	{authsvc.ErrInvalidState, handler.NewHTTPError(http.StatusBadRequest, "invalid_state")},
	{authsvc.ErrInvalidCode, handler.NewHTTPError(http.StatusBadRequest, "invalid_code")},
	{authsvc.ErrNoProviderID, handler.NewHTTPError(http.StatusBadGateway, "invalid_provider_response")},
	{authsvc.ErrUnknownProvider, handler.NewHTTPError(http.StatusNotFound, "unknown_provider")},
	{authsvc.ErrUnauthorized, handler.NewHTTPError(http.StatusUnauthorized, "unauthorized")},
	{authsvc.ErrNotificationFailure, handler.NewHTTPError(http.StatusBadGateway, "notification_failure")},
	{ratelimiter.ErrRateLimited, handler.NewHTTPError(http.StatusTooManyRequests, "too_many_requests")},
}

// ErrorMapper translates account service errors into HTTP errors.
// ErrPersistenceFailure and unknown errors fall through to 500.
func ErrorMapper(err error) (handler.HTTPError, bool) {
	for _, e := range errorTable {
		if errors.Is(err, e.err) {
			return e.httpErr, true
		}
	}
	return handler.HTTPError{}, false
}
