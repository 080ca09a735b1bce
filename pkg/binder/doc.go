// Package binder fills typed request structs from an *http.Request.
//
// Each binder reads one source and only touches fields tagged for it:
//
//	type refreshRequest struct {
//		AccessToken  string `json:"accessToken"`
//		RefreshToken string `json:"refreshToken"`
//	}
//
//	type callbackRequest struct {
//		Provider string `path:"provider"`
//		Code     string `query:"code"`
//		State    string `query:"state"`
//	}
//
// JSON requires an application/json body, rejects unknown fields and
// trailing data, and caps the body at DefaultMaxJSONSize. Path takes the
// router's parameter lookup, e.g. chi.URLParam. Query reads r.URL.Query().
package binder
