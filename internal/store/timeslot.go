package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"massage-booking-api/internal/apperr"
	"massage-booking-api/internal/model"
)

const slotCols = `id, start_time, end_time, is_active, created_at, updated_at`

func scanSlot(row pgx.Row) (*model.TimeSlot, error) {
	ts := &model.TimeSlot{}
	err := row.Scan(&ts.ID, &ts.StartTime, &ts.EndTime, &ts.IsActive,
		&ts.CreatedAt, &ts.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("Ce créneau n'existe pas")
	}
	if err != nil {
		return nil, err
	}
	return ts, nil
}

// CreateTimeSlot refuses any window overlapping an active slot. The
// three-way predicate mirrors the reservation rules: new start inside an
// existing window, new end inside one, or the new window swallowing one.
// A gist exclusion constraint backs it up under concurrent creations.
func (s *Store) CreateTimeSlot(ctx context.Context, ts *model.TimeSlot) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var overlaps bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM time_slots
			WHERE is_active
			  AND (   (start_time <= $1 AND end_time >  $1)
			       OR (start_time <  $2 AND end_time >= $2)
			       OR (start_time >= $1 AND end_time <= $2))
		)`, ts.StartTime, ts.EndTime,
	).Scan(&overlaps)
	if err != nil {
		return err
	}
	if overlaps {
		return apperr.Conflict("Un créneau existe déjà sur cette période")
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO time_slots (id, start_time, end_time, is_active) VALUES ($1,$2,$3,true)`,
		ts.ID, ts.StartTime, ts.EndTime,
	)
	if pgCode(err, pgExclusionViolation) {
		return apperr.Conflict("Un créneau existe déjà sur cette période")
	}
	if err != nil {
		return err
	}
	ts.IsActive = true

	return tx.Commit(ctx)
}

func (s *Store) SlotByID(ctx context.Context, id string) (*model.TimeSlot, error) {
	return scanSlot(s.pool.QueryRow(ctx,
		`SELECT `+slotCols+` FROM time_slots WHERE id = $1`, id))
}

// ListActiveSlots returns active windows ordered by start, each with the
// summaries of its non-cancelled bookings.
func (s *Store) ListActiveSlots(ctx context.Context) ([]model.TimeSlot, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+slotCols+` FROM time_slots WHERE is_active ORDER BY start_time`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []model.TimeSlot
	index := map[string]int{}
	for rows.Next() {
		var ts model.TimeSlot
		if err := rows.Scan(&ts.ID, &ts.StartTime, &ts.EndTime, &ts.IsActive,
			&ts.CreatedAt, &ts.UpdatedAt); err != nil {
			return nil, err
		}
		index[ts.ID] = len(slots)
		slots = append(slots, ts)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(slots) == 0 {
		return slots, nil
	}

	brows, err := s.pool.Query(ctx,
		`SELECT b.id, b.time_slot_id, b.start_time, b.end_time, b.status, COALESCE(b.notes,''),
		        u.firstname, u.name, u.email,
		        m.id, m.name, m.duration
		 FROM bookings b
		 JOIN time_slots ts ON ts.id = b.time_slot_id
		 JOIN users u ON u.id = b.user_id
		 JOIN massages m ON m.id = b.massage_id
		 WHERE ts.is_active AND b.status <> $1
		 ORDER BY b.start_time`, model.BookingCancelled)
	if err != nil {
		return nil, err
	}
	defer brows.Close()

	for brows.Next() {
		var b model.Booking
		var u model.User
		var m model.Massage
		if err := brows.Scan(&b.ID, &b.TimeSlotID, &b.StartTime, &b.EndTime, &b.Status, &b.Notes,
			&u.Firstname, &u.Name, &u.Email,
			&m.ID, &m.Name, &m.Duration); err != nil {
			return nil, err
		}
		b.User = &u
		b.Massage = &m
		b.MassageID = m.ID
		if i, ok := index[b.TimeSlotID]; ok {
			slots[i].Bookings = append(slots[i].Bookings, b)
		}
	}
	return slots, brows.Err()
}

func (s *Store) UpdateTimeSlot(ctx context.Context, ts *model.TimeSlot) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE time_slots
		 SET start_time=$1, end_time=$2, is_active=$3, updated_at=NOW()
		 WHERE id=$4`,
		ts.StartTime, ts.EndTime, ts.IsActive, ts.ID,
	)
	if pgCode(err, pgExclusionViolation) {
		return apperr.Conflict("Un créneau existe déjà sur cette période")
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Ce créneau n'existe pas")
	}
	return nil
}

// DeactivateTimeSlot is a soft delete; existing bookings keep their slot.
func (s *Store) DeactivateTimeSlot(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE time_slots SET is_active=false, updated_at=NOW() WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Ce créneau n'existe pas")
	}
	return nil
}
