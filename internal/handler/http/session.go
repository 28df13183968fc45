package http

import (
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/vasiliy-maslov/storefront/internal/auth"
)

type sessionHandlerFunc func(w http.ResponseWriter, r *http.Request, s *auth.Session)

// withSession loads the caller's session and passes it explicitly.
func withSession(m *auth.Manager, fn sessionHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fn(w, r, m.Load(r))
	}
}

// requireAdmin rejects anonymous callers with 401 before fn runs.
func requireAdmin(m *auth.Manager, fn sessionHandlerFunc) http.HandlerFunc {
	return withSession(m, func(w http.ResponseWriter, r *http.Request, s *auth.Session) {
		if !s.IsAdmin() {
			hlog.FromRequest(r).Warn().Str("path", r.URL.Path).Msg("Admin session required")
			respondWithError(w, http.StatusUnauthorized, "admin login required")
			return
		}
		fn(w, r, s)
	})
}
