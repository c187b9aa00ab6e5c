package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"massage-booking-api/internal/auth"
	"massage-booking-api/internal/middleware"
	"massage-booking-api/internal/model"
)

const secret = "test-secret"

type staticRoles struct {
	role model.Role
	err  error
}

func (s staticRoles) RoleByID(context.Context, string) (model.Role, error) {
	return s.role, s.err
}

func passthrough(captured *string) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		*captured = middleware.UserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}
}

func TestAuthenticate(t *testing.T) {
	t.Run("valid token reaches the handler", func(t *testing.T) {
		tok, err := auth.MakeToken("user-1", "jean@test.com", secret)
		require.NoError(t, err)

		var uid string
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		middleware.Authenticate(secret, passthrough(&uid))(rec, req, nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "user-1", uid)
	})

	t.Run("missing header", func(t *testing.T) {
		var uid string
		rec := httptest.NewRecorder()
		middleware.Authenticate(secret, passthrough(&uid))(rec, httptest.NewRequest("GET", "/", nil), nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Authentification requise")
		assert.Empty(t, uid)
	})

	t.Run("garbage token", func(t *testing.T) {
		var uid string
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		middleware.Authenticate(secret, passthrough(&uid))(rec, req, nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		tok, err := auth.MakeToken("user-1", "jean@test.com", "other")
		require.NoError(t, err)

		var uid string
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		middleware.Authenticate(secret, passthrough(&uid))(rec, req, nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	var uid string

	t.Run("admin passes", func(t *testing.T) {
		rec := httptest.NewRecorder()
		middleware.RequireAdmin(staticRoles{role: model.RoleAdmin}, passthrough(&uid))(
			rec, httptest.NewRequest("GET", "/", nil), nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("plain user refused", func(t *testing.T) {
		rec := httptest.NewRecorder()
		middleware.RequireAdmin(staticRoles{role: model.RoleUser}, passthrough(&uid))(
			rec, httptest.NewRequest("GET", "/", nil), nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "Accès réservé aux administrateurs")
	})

	t.Run("lookup failure refused", func(t *testing.T) {
		rec := httptest.NewRecorder()
		middleware.RequireAdmin(staticRoles{err: errors.New("db down")}, passthrough(&uid))(
			rec, httptest.NewRequest("GET", "/", nil), nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestRateLimiter(t *testing.T) {
	rl := middleware.NewRateLimiter(1, 2)
	var uid string
	limited := rl.Limit(passthrough(&uid))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		limited(rec, req, nil)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	// another IP has its own bucket
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	limited(rec, req, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSecurityHeaders(t *testing.T) {
	h := middleware.SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-referrer", rec.Header().Get("Referrer-Policy"))
	assert.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))
}

func TestRecoverMiddleware(t *testing.T) {
	h := middleware.Recover(zerolog.Nop(), http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Erreur interne du serveur")
}
