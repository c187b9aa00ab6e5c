package planning

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"massage-booking-api/internal/apperr"
	"massage-booking-api/internal/model"
)

func day(hour, min int) time.Time {
	return time.Date(2025, 8, 25, hour, min, 0, 0, time.UTC)
}

func slot(start, end time.Time) *model.TimeSlot {
	return &model.TimeSlot{ID: "slot-1", StartTime: start, EndTime: end, IsActive: true}
}

func booking(start, end time.Time) model.Booking {
	return model.Booking{ID: "existing", StartTime: start, EndTime: end, Status: model.BookingPending}
}

func TestCheckBounds(t *testing.T) {
	ts := slot(day(9, 0), day(17, 0))

	t.Run("inside slot", func(t *testing.T) {
		assert.NoError(t, checkBounds(ts, day(9, 0), day(10, 0)))
		assert.NoError(t, checkBounds(ts, day(16, 0), day(17, 0)))
	})

	t.Run("starts before slot opens", func(t *testing.T) {
		err := checkBounds(ts, day(8, 30), day(9, 30))
		require.Error(t, err)
		assert.Equal(t, 400, apperr.Status(err))
		assert.Contains(t, err.Error(), "créneau commence à 09:00")
	})

	t.Run("ends after slot closes", func(t *testing.T) {
		// 16:30 + 60min would run until 17:30
		err := checkBounds(ts, day(16, 30), day(17, 30))
		require.Error(t, err)
		assert.Equal(t, 400, apperr.Status(err))
		assert.Contains(t, err.Error(), "créneau se termine à 17:00")
	})
}

func TestCheckConflicts(t *testing.T) {
	existing := []model.Booking{booking(day(14, 0), day(15, 0))}

	t.Run("empty slot accepts anything", func(t *testing.T) {
		assert.NoError(t, checkConflicts(nil, day(9, 0), day(10, 0)))
	})

	t.Run("direct overlap rejected", func(t *testing.T) {
		err := checkConflicts(existing, day(14, 30), day(15, 30))
		require.Error(t, err)
		assert.Equal(t, 409, apperr.Status(err))
		assert.Contains(t, err.Error(), "Conflit d'horaire")
	})

	t.Run("contained overlap rejected", func(t *testing.T) {
		err := checkConflicts(existing, day(14, 15), day(14, 45))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Conflit d'horaire")
	})

	t.Run("surrounding overlap rejected", func(t *testing.T) {
		err := checkConflicts(existing, day(13, 30), day(15, 30))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Conflit d'horaire")
	})

	t.Run("insufficient break after existing", func(t *testing.T) {
		// only 15 minutes after the 14:00-15:00 booking
		err := checkConflicts(existing, day(15, 15), day(16, 15))
		require.Error(t, err)
		assert.Equal(t, 409, apperr.Status(err))
		assert.Contains(t, err.Error(), "30 minutes de pause minimum")
	})

	t.Run("insufficient break before existing", func(t *testing.T) {
		// ends 13:45, only 15 minutes before the 14:00 start
		err := checkConflicts(existing, day(12, 45), day(13, 45))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "30 minutes de pause minimum")
	})

	t.Run("exact buffer accepted on both sides", func(t *testing.T) {
		assert.NoError(t, checkConflicts(existing, day(15, 30), day(16, 30)))
		assert.NoError(t, checkConflicts(existing, day(12, 30), day(13, 30)))
	})

	t.Run("comfortable gap accepted", func(t *testing.T) {
		// 45 minutes after the existing booking
		assert.NoError(t, checkConflicts(existing, day(15, 45), day(16, 45)))
	})

	t.Run("back to back rejected as overlap-free but too close", func(t *testing.T) {
		err := checkConflicts(existing, day(15, 0), day(16, 0))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "30 minutes de pause minimum")
	})

	t.Run("every existing booking is checked", func(t *testing.T) {
		crowded := []model.Booking{
			booking(day(9, 0), day(10, 0)),
			booking(day(14, 0), day(15, 0)),
		}
		// fine against the morning booking, too close to the afternoon one
		err := checkConflicts(crowded, day(13, 45), day(13, 50))
		require.Error(t, err)

		assert.NoError(t, checkConflicts(crowded, day(11, 0), day(12, 0)))
	})
}

// the accepted set never violates the pairwise property from the
// scheduling rules: no overlap and at least the buffer between any two
func TestAcceptedBookingsKeepInvariant(t *testing.T) {
	accepted := []model.Booking{booking(day(14, 0), day(15, 0))}

	candidates := []struct {
		start time.Time
		end   time.Time
	}{
		{day(15, 45), day(16, 45)},
		{day(9, 0), day(10, 0)},
		{day(12, 0), day(13, 0)},
	}

	for _, c := range candidates {
		if checkConflicts(accepted, c.start, c.end) == nil {
			accepted = append(accepted, booking(c.start, c.end))
		}
	}

	for i := range accepted {
		for j := range accepted {
			if i == j {
				continue
			}
			a, b := accepted[i], accepted[j]
			overlap := a.StartTime.Before(b.EndTime) && b.StartTime.Before(a.EndTime)
			assert.False(t, overlap, "bookings %d and %d overlap", i, j)
			if !a.EndTime.After(b.StartTime) {
				assert.GreaterOrEqual(t, b.StartTime.Sub(a.EndTime), buffer)
			}
		}
	}
}
