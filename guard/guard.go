package guard

import (
	"net/http"
	"net/url"
)

// FromParam carries the originally requested location through the login
// redirect, so a successful login can return the user there.
const FromParam = "from"

// SessionView is the read-only slice of the session store the gates consult.
// Passing it explicitly (rather than reaching for a singleton) lets tests
// inject a fake session without touching durable storage.
type SessionView interface {
	SignedIn() bool
	HasPermission(module, action string) bool
}

// RequireSession gates the nested handler tree behind a signed-in session.
// Unauthenticated visitors are redirected to loginPath with the original
// location recorded in the [FromParam] query parameter.
func RequireSession(view SessionView, loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !view.SignedIn() {
				dest := loginPath + "?" + FromParam + "=" + url.QueryEscape(r.URL.RequestURI())
				http.Redirect(w, r, dest, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequirePermission gates the nested handler tree behind a module/action
// permission. Visitors without it are redirected to fallbackPath silently,
// with no error surfaced.
func RequirePermission(view SessionView, module, action, fallbackPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !view.HasPermission(module, action) {
				http.Redirect(w, r, fallbackPath, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
