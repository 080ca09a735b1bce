package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/authkit/handler"
	authsvc "github.com/dmitrymomot/authkit/pkg/auth"
	"github.com/dmitrymomot/authkit/pkg/binder"
	"github.com/dmitrymomot/authkit/pkg/jwt"
	"github.com/dmitrymomot/authkit/pkg/logger"
	"github.com/dmitrymomot/authkit/pkg/ratelimiter"
)

// Module serves the account HTTP API.
type Module struct {
	svc          *authsvc.Service
	oauth        *authsvc.OAuthFlow
	limiter      ratelimiter.Limiter
	logger       *slog.Logger
	errorHandler handler.ErrorHandler[handler.Context]
}

type Option func(*Module)

// WithOAuthFlow enables the /oauth routes.
func WithOAuthFlow(flow *authsvc.OAuthFlow) Option {
	return func(m *Module) {
		m.oauth = flow
	}
}

// WithRateLimiter throttles the credential endpoints per client address and route.
func WithRateLimiter(l ratelimiter.Limiter) Option {
	return func(m *Module) {
		m.limiter = l
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Module) {
		if l != nil {
			m.logger = l
		}
	}
}

func New(svc *authsvc.Service, opts ...Option) *Module {
	m := &Module{
		svc:    svc,
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.errorHandler = handler.NewErrorHandler[handler.Context](m.logger, ErrorMapper)
	return m
}

// Router returns the module routes. OAuth routes are only registered
// when an OAuthFlow was provided.
func (m *Module) Router() chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		if m.limiter != nil {
			r.Use(ratelimiter.Middleware(m.limiter,
				ratelimiter.Composite(ratelimiter.ByClientIP, ratelimiter.ByRoute),
				ratelimiter.WithDeniedHandler(m.writeError),
				ratelimiter.WithErrorHandler(m.writeError),
			))
		}
		r.Post("/register", wrap(m, m.register, binder.JSON()))
		r.Post("/confirm/resend", wrap(m, m.resend, binder.JSON()))
		r.Post("/login", wrap(m, m.login, binder.JSON()))
		r.Post("/refresh", wrap(m, m.refresh, binder.JSON()))
	})
	r.Get("/confirm/{token}", wrap(m, m.confirm, binder.Path(chi.URLParam)))

	r.Group(func(r chi.Router) {
		r.Use(m.RequireAuth)
		r.Get("/me", wrap[struct{}](m, m.me))
	})

	if m.oauth != nil {
		r.Get("/oauth/{provider}", wrap(m, m.oauthRedirect, binder.Path(chi.URLParam)))
		r.Get("/oauth/{provider}/callback", wrap(m, m.oauthCallback,
			binder.Path(chi.URLParam),
			binder.Query(),
		))
	}

	return r
}

// RequireAuth rejects requests without a valid bearer access token and
// stores the verified claims in the request context.
func (m *Module) RequireAuth(next http.Handler) http.Handler {
	return jwt.MiddlewareWithConfig(jwt.MiddlewareConfig{
		Service:   m.svc,
		NewClaims: func() jwt.Claims { return &authsvc.AccessClaims{} },
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			if !errors.Is(err, authsvc.ErrUnauthorized) {
				err = errors.Join(authsvc.ErrUnauthorized, err)
			}
			m.writeError(w, r, err)
		},
	})(next)
}

func (m *Module) writeError(w http.ResponseWriter, r *http.Request, err error) {
	m.errorHandler(handler.NewContext(w, r), err)
}

func wrap[R any](m *Module, h handler.HandlerFunc[handler.Context, R], binders ...handler.Bind) http.HandlerFunc {
	return handler.Wrap(h,
		handler.WithBinders[handler.Context, R](binders...),
		handler.WithErrorHandler[handler.Context, R](m.errorHandler),
	)
}
