package handler

import (
	"net/http"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"

	"massage-booking-api/internal/apperr"
	"massage-booking-api/internal/auth"
	"massage-booking-api/internal/model"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// validatePassword enforces the account policy: at least 11 characters
// mixing upper case, lower case, digits and symbols.
func validatePassword(pw string) []string {
	var problems []string
	if utf8.RuneCountInString(pw) < 11 {
		problems = append(problems, "Le mot de passe doit contenir au moins 11 caractères")
	}
	var upper, lower, digit, symbol bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}
	if !upper {
		problems = append(problems, "Le mot de passe doit contenir au moins une majuscule")
	}
	if !lower {
		problems = append(problems, "Le mot de passe doit contenir au moins une minuscule")
	}
	if !digit {
		problems = append(problems, "Le mot de passe doit contenir au moins un chiffre")
	}
	if !symbol {
		problems = append(problems, "Le mot de passe doit contenir au moins un symbole")
	}
	return problems
}

type createUserRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Firstname   string `json:"firstname"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request, role model.Role) {
	var req createUserRequest
	if err := readJSON(r, &req); err != nil {
		h.fail(w, err)
		return
	}

	email := normalizeEmail(req.Email)
	var problems []string
	if !emailRe.MatchString(email) {
		problems = append(problems, "L'adresse email n'est pas valide")
	}
	problems = append(problems, validatePassword(req.Password)...)
	if len(problems) > 0 {
		h.fail(w, apperr.BadRequest(strings.Join(problems, " ; ")))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.fail(w, err)
		return
	}

	u := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		Firstname:    req.Firstname,
		Name:         req.Name,
		PhoneNumber:  req.PhoneNumber,
		Role:         role,
	}
	if err := h.store.CreateUser(r.Context(), u); err != nil {
		h.fail(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, u)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.createUser(w, r, model.RoleUser)
}

func (h *Handler) CreateAdmin(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.createUser(w, r, model.RoleAdmin)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	u, err := h.store.UserByID(r.Context(), ps.ByName("userId"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

type updateUserRequest struct {
	Email       *string `json:"email"`
	Firstname   *string `json:"firstname"`
	Name        *string `json:"name"`
	PhoneNumber *string `json:"phoneNumber"`
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req updateUserRequest
	if err := readJSON(r, &req); err != nil {
		h.fail(w, err)
		return
	}

	u, err := h.store.UserByID(r.Context(), ps.ByName("userId"))
	if err != nil {
		h.fail(w, err)
		return
	}

	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if !emailRe.MatchString(email) {
			h.fail(w, apperr.BadRequest("L'adresse email n'est pas valide"))
			return
		}
		u.Email = email
	}
	if req.Firstname != nil {
		u.Firstname = *req.Firstname
	}
	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.PhoneNumber != nil {
		u.PhoneNumber = *req.PhoneNumber
	}

	if err := h.store.UpdateUser(r.Context(), u); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.store.DeleteUser(r.Context(), ps.ByName("userId")); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Utilisateur supprimé"})
}

type updateRoleRequest struct {
	Role model.Role `json:"role"`
}

func (h *Handler) UpdateUserRole(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req updateRoleRequest
	if err := readJSON(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	if req.Role != model.RoleUser && req.Role != model.RoleAdmin {
		h.fail(w, apperr.BadRequest("Rôle invalide (USER ou ADMIN attendu)"))
		return
	}
	if err := h.store.UpdateUserRole(r.Context(), ps.ByName("userId"), req.Role); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Rôle mis à jour"})
}
