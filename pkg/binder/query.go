package binder

import "net/http"

// Query binds `query:"name"` fields from the URL query string.
func Query() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		values := r.URL.Query()
		return bindFields(v, "query", func(key string) []string {
			return values[key]
		}, ErrFailedToParseQuery)
	}
}
