package planning

import (
	"context"

	"massage-booking-api/internal/model"
)

type MassageRepo interface {
	MassageByID(ctx context.Context, id string) (*model.Massage, error)
}

type SlotRepo interface {
	CreateTimeSlot(ctx context.Context, ts *model.TimeSlot) error
	SlotByID(ctx context.Context, id string) (*model.TimeSlot, error)
	ListActiveSlots(ctx context.Context) ([]model.TimeSlot, error)
	UpdateTimeSlot(ctx context.Context, ts *model.TimeSlot) error
	DeactivateTimeSlot(ctx context.Context, id string) error
}

type BookingRepo interface {
	// ReserveBooking must run validate against the slot and its
	// non-cancelled bookings under mutual exclusion with concurrent
	// reservations on the same slot, then persist b.
	ReserveBooking(ctx context.Context, b *model.Booking, validate func(slot *model.TimeSlot, existing []model.Booking) error) error
	BookingByID(ctx context.Context, id string) (*model.Booking, error)
	ListBookingsByUser(ctx context.Context, userID string) ([]model.Booking, error)
	ListAllBookings(ctx context.Context) ([]model.Booking, error)
	UpdateBooking(ctx context.Context, id string, notes string, status model.BookingStatus) error
	DeleteBooking(ctx context.Context, id string) error
}

// Notifier failures are logged by the caller and never surface to the
// client; a booking is never rolled back because an email did not leave.
type Notifier interface {
	SendBookingConfirmation(ctx context.Context, details model.BookingDetails) error
	SendBookingCancellation(ctx context.Context, details model.BookingDetails) error
	NotifyAdmins(ctx context.Context, details model.BookingDetails) error
}
