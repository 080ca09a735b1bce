package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/authkit/pkg/binder"
	"github.com/dmitrymomot/authkit/pkg/logger"
	"github.com/dmitrymomot/authkit/pkg/requestid"
	"github.com/dmitrymomot/authkit/pkg/validator"
)

// ErrorMapper translates a domain error into an HTTPError.
// It returns false when it does not recognize err.
type ErrorMapper func(err error) (HTTPError, bool)

type errorResponse struct {
	err error
}

func (e errorResponse) Render(http.ResponseWriter, *http.Request) error {
	return e.err
}

// Error returns a Response that routes err to the wrapper's ErrorHandler.
func Error(err error) Response {
	if err == nil {
		err = ErrInternalServerError
	}
	return errorResponse{err: err}
}

// NewErrorHandler renders errors as JSON and logs them. Mappers are tried in
// order after validation, binder and HTTPError values.
func NewErrorHandler[C Context](log *slog.Logger, mappers ...ErrorMapper) ErrorHandler[C] {
	if log == nil {
		log = logger.Discard()
	}

	return func(ctx C, err error) {
		r := ctx.Request()
		status, detail := classifyError(err, mappers)

		level := slog.LevelWarn
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		log.LogAttrs(r.Context(), level, "request failed",
			logger.RequestID(requestid.FromContext(r.Context())),
			logger.Error(err),
			slog.Int("status", status),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			logger.Component("error_handler"),
		)

		if renderErr := jsonError(status, detail).Render(ctx.ResponseWriter(), r); renderErr != nil {
			log.ErrorContext(r.Context(), "failed to render error response",
				logger.Error(renderErr),
				logger.Component("error_handler"),
			)
		}
	}
}

func classifyError(err error, mappers []ErrorMapper) (int, *ErrorDetail) {
	if ve := validator.ExtractValidationErrors(err); ve != nil {
		details := make(map[string][]string, len(ve))
		for _, field := range ve.Fields() {
			details[field] = ve.Get(field)
		}
		return ErrUnprocessableEntity.Code, &ErrorDetail{
			Code:    ErrUnprocessableEntity.Key,
			Message: "Validation failed",
			Details: details,
		}
	}

	httpErr := ErrInternalServerError
	switch {
	case errors.Is(err, binder.ErrMissingContentType), errors.Is(err, binder.ErrUnsupportedMediaType):
		httpErr = ErrUnsupportedMediaType
	case errors.Is(err, binder.ErrFailedToParseJSON),
		errors.Is(err, binder.ErrFailedToParseQuery),
		errors.Is(err, binder.ErrFailedToParsePath):
		httpErr = ErrBadRequest
	case errors.As(err, &httpErr):
	default:
		for _, m := range mappers {
			if mapped, ok := m(err); ok {
				httpErr = mapped
				break
			}
		}
	}

	return httpErr.Code, &ErrorDetail{
		Code:    httpErr.Key,
		Message: http.StatusText(httpErr.Code),
	}
}
