// Package requestid tags every request with an identifier.
//
// Middleware reuses a well-formed X-Request-ID header or generates a UUID,
// echoes it in the response and stores it in the request context.
// LoggerExtractor plugs the id into pkg/logger so every record written with
// a request context carries it:
//
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
package requestid
