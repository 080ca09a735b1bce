package binder

import (
	"fmt"
	"net/http"
)

// Path binds `path:"name"` fields through extractor, typically chi.URLParam.
func Path(extractor func(r *http.Request, key string) string) func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		if extractor == nil {
			return fmt.Errorf("%w: extractor function is nil", ErrFailedToParsePath)
		}
		return bindFields(v, "path", func(key string) []string {
			if value := extractor(r, key); value != "" {
				return []string{value}
			}
			return nil
		}, ErrFailedToParsePath)
	}
}
