package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"

	"massage-booking-api/internal/apperr"
	"massage-booking-api/internal/auth"
	"massage-booking-api/internal/middleware"
)

const refreshTokenTTL = 30 * 24 * time.Hour

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         any    `json:"user,omitempty"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req loginRequest
	if err := readJSON(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		h.fail(w, apperr.BadRequest("Email et mot de passe requis"))
		return
	}

	u, err := h.store.UserByEmail(r.Context(), normalizeEmail(req.Email))
	if err != nil || !auth.CheckPassword(u.PasswordHash, req.Password) {
		// same answer whether the account exists or not
		h.fail(w, apperr.Unauthorized("Invalid credentials"))
		return
	}

	access, err := auth.MakeToken(u.ID, u.Email, h.secret)
	if err != nil {
		h.fail(w, err)
		return
	}

	raw, hash, err := auth.GenerateRefreshToken()
	if err != nil {
		h.fail(w, err)
		return
	}
	if _, err := h.store.CreateRefreshToken(r.Context(), u.ID, hash, time.Now().Add(refreshTokenTTL)); err != nil {
		h.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: access, RefreshToken: raw, User: u})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req refreshRequest
	if err := readJSON(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	if req.RefreshToken == "" {
		h.fail(w, apperr.BadRequest("refresh_token requis"))
		return
	}

	rt, err := h.store.RefreshTokenByHash(r.Context(), auth.HashRefreshToken(req.RefreshToken))
	if err != nil {
		h.fail(w, apperr.Unauthorized("Invalid credentials"))
		return
	}
	if rt.Revoked {
		// reuse of a rotated token smells like theft: kill the family
		_ = h.store.RevokeAllRefreshTokens(r.Context(), rt.UserID)
		h.fail(w, apperr.Unauthorized("Invalid credentials"))
		return
	}
	if time.Now().After(rt.ExpiresAt) {
		h.fail(w, apperr.Unauthorized("Invalid credentials"))
		return
	}

	u, err := h.store.UserByID(r.Context(), rt.UserID)
	if err != nil {
		h.fail(w, apperr.Unauthorized("Invalid credentials"))
		return
	}

	newRaw, newHash, err := auth.GenerateRefreshToken()
	if err != nil {
		h.fail(w, err)
		return
	}
	newID := uuid.New().String()
	if err := h.store.RotateRefreshToken(r.Context(), rt.ID, newID, rt.UserID, newHash, time.Now().Add(refreshTokenTTL)); err != nil {
		h.fail(w, err)
		return
	}

	access, err := auth.MakeToken(u.ID, u.Email, h.secret)
	if err != nil {
		h.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: access, RefreshToken: newRaw})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	uid := middleware.UserID(r.Context())
	if err := h.store.RevokeAllRefreshTokens(r.Context(), uid); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Déconnexion réussie"})
}
