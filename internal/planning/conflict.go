package planning

import (
	"fmt"
	"time"

	"massage-booking-api/internal/apperr"
	"massage-booking-api/internal/model"
)

// BufferMinutes is the mandatory gap between two massages in a slot:
// the practitioner needs it to reset the room.
const BufferMinutes = 30

const buffer = BufferMinutes * time.Minute

// checkBounds rejects a reservation that starts before the slot opens
// or would run past its end.
func checkBounds(slot *model.TimeSlot, start, end time.Time) error {
	if start.Before(slot.StartTime) {
		return apperr.BadRequest(fmt.Sprintf(
			"Impossible de réserver avant le début du créneau (le créneau commence à %s)",
			slot.StartTime.Format("15:04")))
	}
	if end.After(slot.EndTime) {
		return apperr.BadRequest(fmt.Sprintf(
			"Ce massage se terminerait après la fin du créneau (le créneau se termine à %s)",
			slot.EndTime.Format("15:04")))
	}
	return nil
}

// checkConflicts compares [start, end) against every existing booking.
// A direct overlap is a hard conflict; otherwise the gap on whichever
// side the existing booking sits must be at least the buffer.
func checkConflicts(existing []model.Booking, start, end time.Time) error {
	for _, b := range existing {
		if start.Before(b.EndTime) && end.After(b.StartTime) {
			return apperr.Conflict("Conflit d'horaire avec une réservation existante")
		}
		var gap time.Duration
		if !end.After(b.StartTime) {
			gap = b.StartTime.Sub(end)
		} else {
			gap = start.Sub(b.EndTime)
		}
		if gap < buffer {
			return apperr.Conflict(fmt.Sprintf(
				"Il faut %d minutes de pause minimum entre deux réservations", BufferMinutes))
		}
	}
	return nil
}
