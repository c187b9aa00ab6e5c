package handler

import (
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"massage-booking-api/internal/apperr"
	"massage-booking-api/internal/middleware"
	"massage-booking-api/internal/model"
	"massage-booking-api/internal/planning"
)

type createSlotRequest struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

func (h *Handler) CreateSlot(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req createSlotRequest
	if err := readJSON(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		h.fail(w, apperr.BadRequest("startTime et endTime sont requis"))
		return
	}

	ts, err := h.planning.CreateSlot(r.Context(), req.StartTime, req.EndTime)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ts)
}

func (h *Handler) ListSlots(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	slots, err := h.planning.ListSlots(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	if slots == nil {
		slots = []model.TimeSlot{}
	}
	writeJSON(w, http.StatusOK, slots)
}

type updateSlotRequest struct {
	StartTime *time.Time `json:"startTime"`
	EndTime   *time.Time `json:"endTime"`
	IsActive  *bool      `json:"isActive"`
}

func (h *Handler) UpdateSlot(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req updateSlotRequest
	if err := readJSON(r, &req); err != nil {
		h.fail(w, err)
		return
	}

	ts, err := h.planning.UpdateSlot(r.Context(), ps.ByName("id"), planning.SlotPatch{
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		IsActive:  req.IsActive,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ts)
}

func (h *Handler) DeactivateSlot(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.planning.DeactivateSlot(r.Context(), ps.ByName("id")); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Créneau désactivé"})
}

type createBookingRequest struct {
	MassageID  string    `json:"massageId"`
	TimeSlotID string    `json:"timeSlotId"`
	StartTime  time.Time `json:"startTime"`
	Notes      string    `json:"notes"`
}

func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req createBookingRequest
	if err := readJSON(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	if req.MassageID == "" || req.TimeSlotID == "" || req.StartTime.IsZero() {
		h.fail(w, apperr.BadRequest("massageId, timeSlotId et startTime sont requis"))
		return
	}

	booking, err := h.planning.Reserve(r.Context(), middleware.UserID(r.Context()), planning.ReserveInput{
		MassageID:  req.MassageID,
		TimeSlotID: req.TimeSlotID,
		StartTime:  req.StartTime,
		Notes:      req.Notes,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (h *Handler) ListMyBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	bookings, err := h.planning.ListMine(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		h.fail(w, err)
		return
	}
	if bookings == nil {
		bookings = []model.Booking{}
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (h *Handler) ListAllBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	bookings, err := h.planning.ListAll(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	if bookings == nil {
		bookings = []model.Booking{}
	}
	writeJSON(w, http.StatusOK, bookings)
}

type updateBookingRequest struct {
	Notes  *string              `json:"notes"`
	Status *model.BookingStatus `json:"status"`
}

func (h *Handler) UpdateBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req updateBookingRequest
	if err := readJSON(r, &req); err != nil {
		h.fail(w, err)
		return
	}

	booking, err := h.planning.Update(r.Context(), ps.ByName("id"), planning.BookingPatch{
		Notes:  req.Notes,
		Status: req.Status,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.planning.Cancel(r.Context(), ps.ByName("id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *Handler) DeleteBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.planning.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Réservation supprimée"})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
