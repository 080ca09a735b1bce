// Command authd serves the account API.
//
// Storage, mail delivery and OAuth providers are chosen through environment
// variables, read from .env when present. See appConfig for the switches.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	authhttp "github.com/dmitrymomot/authkit/modules/auth"
	"github.com/dmitrymomot/authkit/pkg/auth"
	"github.com/dmitrymomot/authkit/pkg/clientip"
	"github.com/dmitrymomot/authkit/pkg/config"
	"github.com/dmitrymomot/authkit/pkg/email"
	"github.com/dmitrymomot/authkit/pkg/httpserver"
	"github.com/dmitrymomot/authkit/pkg/jwt"
	"github.com/dmitrymomot/authkit/pkg/logger"
	"github.com/dmitrymomot/authkit/pkg/ratelimiter"
	"github.com/dmitrymomot/authkit/pkg/requestid"
	"github.com/dmitrymomot/authkit/pkg/secrets"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "authd: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var app appConfig
	if err := config.Load(&app); err != nil {
		return err
	}

	log := logger.New(
		logger.WithEnvironment(app.Env, app.Name),
		logger.WithContextExtractors(requestid.LoggerExtractor(), clientip.LoggerExtractor()),
	)
	slog.SetDefault(log)

	var (
		hasherCfg auth.HasherConfig
		tokenCfg  auth.TokenConfig
		jwtCfg    jwt.Config
		httpCfg   httpserver.Config
		githubCfg auth.GitHubOAuthConfig
		googleCfg auth.GoogleOAuthConfig
		rateCfg   ratelimiter.Config
		secretCfg secrets.Config
	)
	if err := errors.Join(
		config.Load(&hasherCfg),
		config.Load(&tokenCfg),
		config.Load(&jwtCfg),
		config.Load(&httpCfg),
		config.Load(&githubCfg),
		config.Load(&googleCfg),
		config.Load(&rateCfg),
		config.Load(&secretCfg),
	); err != nil {
		return err
	}

	store, err := openBackends(ctx, app, tokenCfg.RefreshTokenTTL, log)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer store.Close(context.Background())

	hasher, err := auth.NewCredentialHasher(hasherCfg)
	if err != nil {
		return err
	}
	signer, err := jwt.NewFromConfig(jwtCfg)
	if err != nil {
		return err
	}
	notifier, err := newNotifier(app, log)
	if err != nil {
		return err
	}

	svcOpts := []auth.ServiceOption{
		auth.WithLogger(log),
		auth.WithConfirmURL(strings.ReplaceAll(strings.TrimRight(app.BaseURL, "/"), "%", "%%") + "/auth/confirm/%s"),
	}
	if secretCfg.Key != "" {
		sealer, err := secrets.NewFromConfig(secretCfg, "oauth-provider-tokens")
		if err != nil {
			return err
		}
		svcOpts = append(svcOpts, auth.WithProviderTokenSealer(sealer))
	} else {
		log.WarnContext(ctx, "SECRETS_KEY not set, provider tokens are stored unencrypted", logger.Component("authd"))
	}

	issuer := auth.NewTokenIssuer(signer, store.refresh,
		auth.WithTokenConfig(tokenCfg),
		auth.WithIssuerLogger(log),
	)
	svc := auth.NewService(store.users, hasher, issuer, notifier, svcOpts...)

	var adapters []auth.ProviderAdapter
	if githubCfg.Enabled() {
		adapters = append(adapters, auth.NewGitHubAdapter(githubCfg))
	}
	if googleCfg.Enabled() {
		adapters = append(adapters, auth.NewGoogleAdapter(googleCfg))
	}

	modOpts := []authhttp.Option{authhttp.WithLogger(log)}
	if len(adapters) > 0 {
		modOpts = append(modOpts, authhttp.WithOAuthFlow(auth.NewOAuthFlow(store.states, svc, adapters...)))
	}

	if app.RateLimitEnabled {
		limiter, err := ratelimiter.NewBucket(store.limits, rateCfg)
		if err != nil {
			return err
		}
		modOpts = append(modOpts, authhttp.WithRateLimiter(limiter))
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestid.Middleware)
	r.Use(clientip.Middleware(app.TrustedIPHeaders...))
	r.Use(httpserver.RequestLogger(log))

	r.Get("/health/live", httpserver.Liveness())
	r.Get("/health/ready", httpserver.Readiness(log, store.checks...))
	r.Mount("/auth", authhttp.New(svc, modOpts...).Router())

	go runPurge(ctx, store.purge, app.PurgeInterval, log)

	srv := httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log))
	return srv.Run(ctx, r)
}

func newNotifier(app appConfig, log *slog.Logger) (*email.Notifier, error) {
	var cfg email.Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}

	var sender email.EmailSender
	switch app.EmailDriver {
	case emailPostmark:
		pm, err := email.NewPostmarkClient(cfg)
		if err != nil {
			return nil, err
		}
		sender = pm
	case emailDev:
		sender = email.NewDevSender(cfg.DevDir)
	default:
		return nil, fmt.Errorf("unknown EMAIL_DRIVER %q", app.EmailDriver)
	}

	return email.NewNotifier(sender,
		email.WithAppName(app.Name),
		email.WithNotifierLogger(log),
	), nil
}
