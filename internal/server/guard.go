package server

import (
	"net/http"

	"github.com/dysebot/dashboard/internal/session"
)

// sessionSource exposes the current authentication state to the guard
type sessionSource interface {
	State() session.State
}

// NewRouteGuard protects browser views: requests without a valid
// session are redirected to the login page. The decision is a pure
// function of the current controller state. Requests carrying fresh
// OAuth callback parameters pass through so the view can consume them
// before the session exists.
func NewRouteGuard(source sessionSource) MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if hasCallbackParams(r) {
				next.ServeHTTP(w, r)
				return
			}
			state := source.State()
			if !state.Session.Valid() {
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func hasCallbackParams(r *http.Request) bool {
	q := r.URL.Query()
	return q.Get("token") != "" && q.Get("user") != "" && q.Get("guilds") != ""
}
