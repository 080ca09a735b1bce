// Package auth exposes the account service over HTTP as a JSON API.
//
// Routes are relative so the router can be mounted anywhere, usually /auth:
//
//	POST /register                   create a pending account
//	GET  /confirm/{token}            confirm an email address
//	POST /confirm/resend             send the verification email again
//	POST /login                      exchange credentials for a token pair
//	POST /refresh                    rotate a token pair
//	GET  /me                         return the access token payload
//	GET  /oauth/{provider}           redirect to the provider consent page
//	GET  /oauth/{provider}/callback  finish the OAuth sign in
//
// Successful bodies are wrapped as {"data": ...} and failures as
// {"error": {"code", "message", "details"}}. Domain errors are translated by
// ErrorMapper; see errors.go for the table. With WithRateLimiter the
// register, resend, login and refresh routes answer 429 once a client
// exhausts its bucket.
//
// Usage:
//
//	mod := auth.New(svc, auth.WithOAuthFlow(flow), auth.WithLogger(log))
//	r.Mount("/auth", mod.Router())
package auth
