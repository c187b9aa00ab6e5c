package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"massage-booking-api/internal/apperr"
	"massage-booking-api/internal/planning"
	"massage-booking-api/internal/store"
)

type Handler struct {
	store     *store.Store
	planning  *planning.Service
	secret    string
	uploadDir string
	log       zerolog.Logger
}

func New(st *store.Store, svc *planning.Service, secret, uploadDir string, log zerolog.Logger) *Handler {
	return &Handler{
		store:     st,
		planning:  svc,
		secret:    secret,
		uploadDir: uploadDir,
		log:       log,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func readJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.BadRequest("Corps de requête invalide")
	}
	return nil
}

// fail logs server faults and sends the domain error body.
func (h *Handler) fail(w http.ResponseWriter, err error) {
	if apperr.Status(err) >= http.StatusInternalServerError {
		h.log.Error().Err(err).Msg("request failed")
	}
	apperr.Write(w, err)
}
