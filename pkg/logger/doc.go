// Package logger builds *slog.Logger instances for authkit services and
// provides attribute helpers so field names stay consistent across packages.
//
//	log := logger.New(
//		logger.WithEnvironment(cfg.Env, "authd"),
//		logger.WithContextExtractors(requestid.LogExtractor()),
//	)
//	log.InfoContext(ctx, "user logged in", logger.UserID(user.ID), logger.Component("auth"))
//
// Libraries in this module default to Discard and accept a logger through
// a WithLogger option.
package logger
