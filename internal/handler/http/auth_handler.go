package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vasiliy-maslov/storefront/internal/auth"
)

type LoginRequest struct {
	Password string `json:"password"`
}

type MeResponse struct {
	IsAdmin bool `json:"isAdmin"`
}

type AuthHandler struct {
	errorResponder
	sessions *auth.Manager
}

func NewAuthHandler(sessions *auth.Manager, exposeErrorDetail bool) *AuthHandler {
	return &AuthHandler{
		errorResponder: errorResponder{exposeDetail: exposeErrorDetail},
		sessions:       sessions,
	}
}

func (h *AuthHandler) RegisterRoutes(router chi.Router) {
	router.Post("/api/login", withSession(h.sessions, h.handleLogin))
	router.Post("/api/logout", withSession(h.sessions, h.handleLogout))
	router.Get("/api/me", withSession(h.sessions, h.handleMe))
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request, s *auth.Session) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	if err := s.Login(w, req.Password); err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request, s *auth.Session) {
	if err := s.Logout(w); err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *AuthHandler) handleMe(w http.ResponseWriter, _ *http.Request, s *auth.Session) {
	respondWithJSON(w, http.StatusOK, MeResponse{IsAdmin: s.IsAdmin()})
}
