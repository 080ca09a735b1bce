// Package handler turns typed functions into http.HandlerFunc values.
//
// A HandlerFunc receives a Context and a request struct filled by binders
// from pkg/binder, and returns a Response:
//
//	type loginRequest struct {
//		Email    string `json:"email"`
//		Password string `json:"password"`
//	}
//
//	func login(ctx handler.Context, req loginRequest) handler.Response {
//		pair, err := svc.Login(ctx, req.Email, req.Password)
//		if err != nil {
//			return handler.Error(err)
//		}
//		return handler.JSON(pair)
//	}
//
//	r.Post("/login", handler.Wrap(login,
//		handler.WithBinders[handler.Context, loginRequest](binder.JSON()),
//		handler.WithErrorHandler[handler.Context, loginRequest](errHandler),
//	))
//
// # Responses
//
// JSON wraps data in {"data": ...}. Empty and EmptyWithStatus write a bare
// status. Redirect answers 303 by default. Error hands an error to the
// configured ErrorHandler instead of rendering it.
//
// # Errors
//
// NewErrorHandler renders every failure as {"error": {"code", "message"}}.
// Validation errors from pkg/validator become 422 with per-field details,
// binder failures become 400 or 415, HTTPError values keep their status, and
// ErrorMapper functions translate domain errors. Anything else is a 500 whose
// body never carries the underlying message. Every error is logged with the
// request id, at warn level for 4xx and error level for 5xx.
package handler
