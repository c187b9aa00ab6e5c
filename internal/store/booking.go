package store

import (
	"context"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"

	"massage-booking-api/internal/apperr"
	"massage-booking-api/internal/model"
)

// ReserveBooking runs the read-check-write sequence of a reservation in
// one transaction. The slot row is locked FOR UPDATE so two concurrent
// reservations on the same slot serialize; validate sees the slot and
// its non-cancelled bookings under that lock. The exclusion constraint
// on (slot, padded interval) catches anything that still slips through.
func (s *Store) ReserveBooking(
	ctx context.Context,
	b *model.Booking,
	validate func(slot *model.TimeSlot, existing []model.Booking) error,
) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	slot, err := scanSlot(tx.QueryRow(ctx,
		`SELECT `+slotCols+` FROM time_slots WHERE id = $1 FOR UPDATE`, b.TimeSlotID))
	if err != nil {
		if apperr.Status(err) == http.StatusNotFound {
			return apperr.NotFound("Ce créneau n'est pas disponible")
		}
		return err
	}
	if !slot.IsActive {
		return apperr.NotFound("Ce créneau n'est pas disponible")
	}

	rows, err := tx.Query(ctx,
		`SELECT id, start_time, end_time, status
		 FROM bookings
		 WHERE time_slot_id = $1 AND status <> $2
		 ORDER BY start_time`, b.TimeSlotID, model.BookingCancelled)
	if err != nil {
		return err
	}
	var existing []model.Booking
	for rows.Next() {
		var e model.Booking
		if err := rows.Scan(&e.ID, &e.StartTime, &e.EndTime, &e.Status); err != nil {
			rows.Close()
			return err
		}
		existing = append(existing, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	if err := validate(slot, existing); err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO bookings (id, user_id, massage_id, time_slot_id, start_time, end_time, status, notes)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,NULLIF($8,''))`,
		b.ID, b.UserID, b.MassageID, b.TimeSlotID, b.StartTime, b.EndTime, b.Status, b.Notes,
	)
	if pgCode(err, pgExclusionViolation) {
		// a concurrent writer won the slot
		return apperr.Conflict("Conflit d'horaire avec une réservation existante")
	}
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

const bookingJoinCols = `b.id, b.user_id, b.massage_id, b.time_slot_id,
	        b.start_time, b.end_time, b.status, COALESCE(b.notes,''), b.created_at, b.updated_at,
	        u.id, u.email, u.firstname, u.name, u.phone_number, u.role, u.created_at, u.updated_at,
	        m.id, m.name, m.description, m.duration, m.price, m.position, COALESCE(m.image,''), m.created_at, m.updated_at,
	        ts.id, ts.start_time, ts.end_time, ts.is_active, ts.created_at, ts.updated_at`

const bookingJoin = ` FROM bookings b
	 JOIN users u ON u.id = b.user_id
	 JOIN massages m ON m.id = b.massage_id
	 JOIN time_slots ts ON ts.id = b.time_slot_id`

func scanBookingJoin(row pgx.Row) (*model.Booking, error) {
	b := &model.Booking{User: &model.User{}, Massage: &model.Massage{}, TimeSlot: &model.TimeSlot{}}
	u, m, ts := b.User, b.Massage, b.TimeSlot
	err := row.Scan(
		&b.ID, &b.UserID, &b.MassageID, &b.TimeSlotID,
		&b.StartTime, &b.EndTime, &b.Status, &b.Notes, &b.CreatedAt, &b.UpdatedAt,
		&u.ID, &u.Email, &u.Firstname, &u.Name, &u.PhoneNumber, &u.Role, &u.CreatedAt, &u.UpdatedAt,
		&m.ID, &m.Name, &m.Description, &m.Duration, &m.Price, &m.Position, &m.Image, &m.CreatedAt, &m.UpdatedAt,
		&ts.ID, &ts.StartTime, &ts.EndTime, &ts.IsActive, &ts.CreatedAt, &ts.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("Cette réservation n'existe pas")
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Store) BookingByID(ctx context.Context, id string) (*model.Booking, error) {
	return scanBookingJoin(s.pool.QueryRow(ctx,
		`SELECT `+bookingJoinCols+bookingJoin+` WHERE b.id = $1`, id))
}

func (s *Store) listBookings(ctx context.Context, where string, args ...any) ([]model.Booking, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+bookingJoinCols+bookingJoin+where+` ORDER BY ts.start_time, b.start_time`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Booking
	for rows.Next() {
		b, err := scanBookingJoin(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func (s *Store) ListBookingsByUser(ctx context.Context, userID string) ([]model.Booking, error) {
	return s.listBookings(ctx, ` WHERE b.user_id = $1`, userID)
}

func (s *Store) ListAllBookings(ctx context.Context) ([]model.Booking, error) {
	return s.listBookings(ctx, ``)
}

func (s *Store) UpdateBooking(ctx context.Context, id string, notes string, status model.BookingStatus) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE bookings SET notes=NULLIF($1,''), status=$2, updated_at=NOW() WHERE id=$3`,
		notes, status, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Cette réservation n'existe pas")
	}
	return nil
}

func (s *Store) DeleteBooking(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Cette réservation n'existe pas")
	}
	return nil
}
