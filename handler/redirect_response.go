package handler

import "net/http"

type redirectResponse struct {
	url  string
	code int
}

func (r redirectResponse) Render(w http.ResponseWriter, req *http.Request) error {
	http.Redirect(w, req, r.url, r.code)
	return nil
}

// Redirect answers 303 See Other.
func Redirect(url string) Response {
	return redirectResponse{url: url, code: http.StatusSeeOther}
}

// RedirectWithCode uses one of 301, 302, 303, 307 or 308.
func RedirectWithCode(url string, code int) Response {
	return redirectResponse{url: url, code: code}
}
