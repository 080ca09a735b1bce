// Package clientip resolves the address of the caller behind reverse proxies.
//
// Forwarding headers are only honored when named explicitly, since any client
// can send them. A service behind Cloudflare would trust "CF-Connecting-IP",
// one behind nginx "X-Real-IP" or "X-Forwarded-For". Without trusted headers
// the TCP peer address is used.
//
//	r.Use(clientip.Middleware("X-Forwarded-For"))
//	...
//	ip := clientip.FromContext(r.Context())
package clientip
