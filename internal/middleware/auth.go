package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"massage-booking-api/internal/apperr"
	"massage-booking-api/internal/auth"
	"massage-booking-api/internal/model"
)

type ctxKey string

const UserIDKey ctxKey = "uid"

// RoleProvider reads the caller's current role from storage. The role
// embedded in an old token is never trusted; a demoted admin is locked
// out on their very next request.
type RoleProvider interface {
	RoleByID(ctx context.Context, id string) (model.Role, error)
}

func Authenticate(secret string, next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		raw := r.Header.Get("Authorization")
		if !strings.HasPrefix(raw, "Bearer ") {
			apperr.Write(w, apperr.Unauthorized("Authentification requise"))
			return
		}

		claims, err := auth.ParseToken(strings.TrimPrefix(raw, "Bearer "), secret)
		if err != nil {
			apperr.Write(w, apperr.Unauthorized("Invalid token"))
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
		next(w, r.WithContext(ctx), ps)
	}
}

func RequireAdmin(roles RoleProvider, next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		role, err := roles.RoleByID(r.Context(), UserID(r.Context()))
		if err != nil || role != model.RoleAdmin {
			apperr.Write(w, apperr.Forbidden("Accès réservé aux administrateurs"))
			return
		}
		next(w, r, ps)
	}
}

// UserID returns the authenticated caller's id, or "" outside an
// authenticated chain.
func UserID(ctx context.Context) string {
	uid, _ := ctx.Value(UserIDKey).(string)
	return uid
}
