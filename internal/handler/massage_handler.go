package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"

	"massage-booking-api/internal/apperr"
	"massage-booking-api/internal/filemgr"
	"massage-booking-api/internal/model"
)

const maxUploadBytes = 10 << 20

func (h *Handler) ListMassages(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	massages, err := h.store.ListMassages(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, massages)
}

func (h *Handler) GetMassage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	m, err := h.store.MassageByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// saveUploadedImage stores the optional "image" form file and returns
// its stored name, or "" when the field is absent.
func (h *Handler) saveUploadedImage(r *http.Request) (string, error) {
	file, header, err := r.FormFile("image")
	if err == http.ErrMissingFile {
		return "", nil
	}
	if err != nil {
		return "", apperr.BadRequest("Fichier image invalide")
	}
	defer file.Close()
	return filemgr.SaveImage(file, header, h.uploadDir)
}

func (h *Handler) CreateMassage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.fail(w, apperr.BadRequest("Formulaire multipart invalide"))
		return
	}

	name := r.FormValue("name")
	duration, derr := strconv.Atoi(r.FormValue("duration"))
	price, perr := strconv.ParseFloat(r.FormValue("price"), 64)
	if name == "" || derr != nil || perr != nil {
		h.fail(w, apperr.BadRequest("Nom, durée et prix sont requis"))
		return
	}
	if duration <= 0 {
		h.fail(w, apperr.BadRequest("La durée doit être positive"))
		return
	}
	if price < 0 {
		h.fail(w, apperr.BadRequest("Le prix ne peut pas être négatif"))
		return
	}
	position, _ := strconv.Atoi(r.FormValue("position"))

	image, err := h.saveUploadedImage(r)
	if err != nil {
		h.fail(w, err)
		return
	}

	m := &model.Massage{
		ID:          uuid.New().String(),
		Name:        name,
		Description: r.FormValue("description"),
		Duration:    duration,
		Price:       price,
		Position:    position,
		Image:       image,
	}
	if err := h.store.CreateMassage(r.Context(), m); err != nil {
		filemgr.Remove(h.uploadDir, image)
		h.fail(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, m)
}

func (h *Handler) UpdateMassage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.fail(w, apperr.BadRequest("Formulaire multipart invalide"))
		return
	}

	m, err := h.store.MassageByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.fail(w, err)
		return
	}

	if v := r.FormValue("name"); v != "" {
		m.Name = v
	}
	if _, ok := r.MultipartForm.Value["description"]; ok {
		m.Description = r.FormValue("description")
	}
	if v := r.FormValue("duration"); v != "" {
		d, err := strconv.Atoi(v)
		if err != nil || d <= 0 {
			h.fail(w, apperr.BadRequest("La durée doit être positive"))
			return
		}
		m.Duration = d
	}
	if v := r.FormValue("price"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil || p < 0 {
			h.fail(w, apperr.BadRequest("Le prix ne peut pas être négatif"))
			return
		}
		m.Price = p
	}
	if v := r.FormValue("position"); v != "" {
		pos, err := strconv.Atoi(v)
		if err != nil {
			h.fail(w, apperr.BadRequest("Position invalide"))
			return
		}
		m.Position = pos
	}

	if image, err := h.saveUploadedImage(r); err != nil {
		h.fail(w, err)
		return
	} else if image != "" {
		filemgr.Remove(h.uploadDir, m.Image)
		m.Image = image
	}

	if err := h.store.UpdateMassage(r.Context(), m); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *Handler) DeleteMassage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	m, err := h.store.MassageByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	if err := h.store.DeleteMassage(r.Context(), m.ID); err != nil {
		h.fail(w, err)
		return
	}
	filemgr.Remove(h.uploadDir, m.Image)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Massage supprimé"})
}

func (h *Handler) ServeMassageImage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	filemgr.ServeImage(w, r, h.uploadDir, ps.ByName("filename"))
}
