package planning

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"massage-booking-api/internal/apperr"
	"massage-booking-api/internal/model"
)

// Service is the booking engine: it owns the containment, overlap and
// buffer rules and drives best-effort notifications.
type Service struct {
	massages MassageRepo
	slots    SlotRepo
	bookings BookingRepo
	notifier Notifier
	log      zerolog.Logger
}

func NewService(massages MassageRepo, slots SlotRepo, bookings BookingRepo, notifier Notifier, log zerolog.Logger) *Service {
	return &Service{
		massages: massages,
		slots:    slots,
		bookings: bookings,
		notifier: notifier,
		log:      log,
	}
}

type ReserveInput struct {
	MassageID  string
	TimeSlotID string
	StartTime  time.Time
	Notes      string
}

func (s *Service) Reserve(ctx context.Context, userID string, in ReserveInput) (*model.Booking, error) {
	massage, err := s.massages.MassageByID(ctx, in.MassageID)
	if err != nil {
		return nil, err
	}

	start := in.StartTime
	end := start.Add(time.Duration(massage.Duration) * time.Minute)

	booking := &model.Booking{
		ID:         uuid.New().String(),
		UserID:     userID,
		MassageID:  in.MassageID,
		TimeSlotID: in.TimeSlotID,
		StartTime:  start,
		EndTime:    end,
		Status:     model.BookingPending,
		Notes:      in.Notes,
	}

	err = s.bookings.ReserveBooking(ctx, booking, func(slot *model.TimeSlot, existing []model.Booking) error {
		if err := checkBounds(slot, start, end); err != nil {
			return err
		}
		return checkConflicts(existing, start, end)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("booking_id", booking.ID).
		Str("user_id", userID).
		Str("time_slot_id", in.TimeSlotID).
		Time("start", start).
		Msg("booking created")

	created, err := s.bookings.BookingByID(ctx, booking.ID)
	if err != nil {
		// the write committed; fall back to what we already hold
		s.log.Error().Err(err).Str("booking_id", booking.ID).Msg("reload booking failed")
		created = booking
	}

	details := detailsFrom(created)
	go func(ctx context.Context) {
		if err := s.notifier.SendBookingConfirmation(ctx, details); err != nil {
			s.log.Error().Err(err).Str("booking_id", booking.ID).Msg("confirmation email failed")
		}
		if err := s.notifier.NotifyAdmins(ctx, details); err != nil {
			s.log.Error().Err(err).Str("booking_id", booking.ID).Msg("admin notification failed")
		}
	}(context.WithoutCancel(ctx))

	return created, nil
}

func (s *Service) ListMine(ctx context.Context, userID string) ([]model.Booking, error) {
	return s.bookings.ListBookingsByUser(ctx, userID)
}

func (s *Service) ListAll(ctx context.Context) ([]model.Booking, error) {
	return s.bookings.ListAllBookings(ctx)
}

type BookingPatch struct {
	Notes  *string
	Status *model.BookingStatus
}

// legal status transitions; absent statuses are terminal
var transitions = map[model.BookingStatus][]model.BookingStatus{
	model.BookingPending:   {model.BookingConfirmed, model.BookingCancelled},
	model.BookingConfirmed: {model.BookingCompleted, model.BookingCancelled},
}

func canTransition(from, to model.BookingStatus) bool {
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Update merges notes and status. Conflict rules are not re-checked:
// times are immutable once a booking exists.
func (s *Service) Update(ctx context.Context, id string, patch BookingPatch) (*model.Booking, error) {
	booking, err := s.bookings.BookingByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Notes != nil {
		booking.Notes = *patch.Notes
	}
	if patch.Status != nil {
		if !canTransition(booking.Status, *patch.Status) {
			return nil, apperr.BadRequest(fmt.Sprintf(
				"Transition de statut invalide: %s vers %s", booking.Status, *patch.Status))
		}
		booking.Status = *patch.Status
	}

	if err := s.bookings.UpdateBooking(ctx, id, booking.Notes, booking.Status); err != nil {
		return nil, err
	}
	return s.bookings.BookingByID(ctx, id)
}

// Cancel marks the booking CANCELLED and emails the client. The slot
// interval it occupied becomes bookable again because cancelled
// bookings are excluded from the conflict scan.
func (s *Service) Cancel(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.bookings.BookingByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// same status machine as Update; re-cancelling is refused too so the
	// cancellation email goes out exactly once
	if booking.Status == model.BookingCancelled || !canTransition(booking.Status, model.BookingCancelled) {
		return nil, apperr.BadRequest(fmt.Sprintf(
			"Transition de statut invalide: %s vers %s", booking.Status, model.BookingCancelled))
	}

	if err := s.bookings.UpdateBooking(ctx, id, booking.Notes, model.BookingCancelled); err != nil {
		return nil, err
	}
	booking.Status = model.BookingCancelled

	s.log.Info().Str("booking_id", id).Msg("booking cancelled")

	details := detailsFrom(booking)
	go func(ctx context.Context) {
		if err := s.notifier.SendBookingCancellation(ctx, details); err != nil {
			s.log.Error().Err(err).Str("booking_id", id).Msg("cancellation email failed")
		}
	}(context.WithoutCancel(ctx))

	return booking, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.bookings.DeleteBooking(ctx, id)
}

// --- time slots ---

func (s *Service) CreateSlot(ctx context.Context, start, end time.Time) (*model.TimeSlot, error) {
	if !end.After(start) {
		return nil, apperr.BadRequest("L'heure de fin doit être après l'heure de début")
	}
	ts := &model.TimeSlot{
		ID:        uuid.New().String(),
		StartTime: start,
		EndTime:   end,
		IsActive:  true,
	}
	if err := s.slots.CreateTimeSlot(ctx, ts); err != nil {
		return nil, err
	}
	s.log.Info().Str("time_slot_id", ts.ID).Time("start", start).Time("end", end).Msg("time slot created")
	return ts, nil
}

func (s *Service) ListSlots(ctx context.Context) ([]model.TimeSlot, error) {
	return s.slots.ListActiveSlots(ctx)
}

type SlotPatch struct {
	StartTime *time.Time
	EndTime   *time.Time
	IsActive  *bool
}

func (s *Service) UpdateSlot(ctx context.Context, id string, patch SlotPatch) (*model.TimeSlot, error) {
	ts, err := s.slots.SlotByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.StartTime != nil {
		ts.StartTime = *patch.StartTime
	}
	if patch.EndTime != nil {
		ts.EndTime = *patch.EndTime
	}
	if patch.IsActive != nil {
		ts.IsActive = *patch.IsActive
	}
	if !ts.EndTime.After(ts.StartTime) {
		return nil, apperr.BadRequest("L'heure de fin doit être après l'heure de début")
	}

	if err := s.slots.UpdateTimeSlot(ctx, ts); err != nil {
		return nil, err
	}
	return ts, nil
}

// DeactivateSlot soft-deletes the window; its bookings are untouched.
func (s *Service) DeactivateSlot(ctx context.Context, id string) error {
	return s.slots.DeactivateTimeSlot(ctx, id)
}

func detailsFrom(b *model.Booking) model.BookingDetails {
	d := model.BookingDetails{
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		Notes:     b.Notes,
	}
	if b.User != nil {
		d.ClientFirstname = b.User.Firstname
		d.ClientName = b.User.Name
		d.ClientEmail = b.User.Email
		d.ClientPhone = b.User.PhoneNumber
	}
	if b.Massage != nil {
		d.MassageName = b.Massage.Name
		d.MassageDuration = b.Massage.Duration
		d.MassagePrice = b.Massage.Price
	}
	return d
}
