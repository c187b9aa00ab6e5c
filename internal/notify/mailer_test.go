package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"massage-booking-api/internal/model"
)

type staticAdmins struct {
	emails []string
	err    error
}

func (s staticAdmins) AdminEmails(context.Context) ([]string, error) {
	return s.emails, s.err
}

func TestFormatFrench(t *testing.T) {
	cases := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2025, 8, 25, 14, 0, 0, 0, time.UTC), "25 août 2025 à 14:00"},
		{time.Date(2026, 1, 2, 9, 5, 0, 0, time.UTC), "2 janvier 2026 à 09:05"},
		{time.Date(2025, 12, 31, 23, 30, 0, 0, time.UTC), "31 décembre 2025 à 23:30"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, formatFrench(c.in))
	}
}

func TestNotifyAdminsWithoutRecipients(t *testing.T) {
	// no admin registered: nothing to send, and that is not an error
	m := NewMailer("localhost", "2525", "", "", "noreply@test.com", staticAdmins{}, zerolog.Nop())
	assert.NoError(t, m.NotifyAdmins(context.Background(), model.BookingDetails{MassageName: "Massage Global"}))
}

func TestNotifyAdminsDirectoryFailure(t *testing.T) {
	m := NewMailer("localhost", "2525", "", "", "noreply@test.com",
		staticAdmins{err: errors.New("db down")}, zerolog.Nop())
	err := m.NotifyAdmins(context.Background(), model.BookingDetails{})
	assert.Error(t, err)
}
