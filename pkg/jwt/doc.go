// Package jwt signs and verifies HMAC JSON Web Tokens and provides HTTP
// middleware and context helpers around them.
//
// Signing is delegated to github.com/golang-jwt/jwt/v5. A Service is bound to
// one algorithm (HS256, HS384 or HS512) and rejects tokens signed with any other,
// which closes the usual algorithm confusion hole.
//
// # Usage
//
//	svc, err := jwt.NewFromConfig(jwt.Config{Secret: "super-secret", Algorithm: "HS512"})
//	if err != nil {
//		// handle error
//	}
//
//	token, err := svc.Generate(jwt.RegisteredClaims{
//		Subject:   "123",
//		ExpiresAt: jwt.NewNumericDate(time.Now().Add(15 * time.Minute)),
//	})
//
//	var parsed jwt.RegisteredClaims
//	if err := svc.Parse(token, &parsed); err != nil {
//		// expired, tampered or foreign token
//	}
//
//	http.Handle("/api", jwt.Middleware(svc)(yourHandler))
//
// # Error Handling
//
// Parse joins a package sentinel (ErrExpiredToken, ErrInvalidSignature,
// ErrInvalidClaims, ErrInvalidToken) with the library error, so both can be
// matched with errors.Is.
package jwt
