// Package notify sends the booking emails. Every exported method
// returns its error to the caller, which logs and swallows it: mail
// trouble must never undo a booking.
package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"massage-booking-api/internal/model"
)

// AdminDirectory supplies the current admin recipient list; it is read
// live so newly promoted admins get notified without a restart.
type AdminDirectory interface {
	AdminEmails(ctx context.Context) ([]string, error)
}

type Mailer struct {
	host     string
	port     string
	username string
	password string
	from     string
	admins   AdminDirectory
	log      zerolog.Logger
}

func NewMailer(host, port, username, password, from string, admins AdminDirectory, log zerolog.Logger) *Mailer {
	return &Mailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		admins:   admins,
		log:      log,
	}
}

func (m *Mailer) send(to []string, subject, body string) error {
	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + strings.Join(to, ", "),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}
	return smtp.SendMail(m.host+":"+m.port, auth, m.from, to, []byte(msg))
}

func (m *Mailer) SendBookingConfirmation(ctx context.Context, d model.BookingDetails) error {
	subject := fmt.Sprintf("Confirmation de votre rendez-vous - %s", d.MassageName)
	body := fmt.Sprintf(
		"Bonjour %s %s,\n\n"+
			"Votre réservation est bien enregistrée.\n\n"+
			"Massage : %s (%d minutes, %.2f €)\n"+
			"Rendez-vous : %s\n",
		d.ClientFirstname, d.ClientName,
		d.MassageName, d.MassageDuration, d.MassagePrice,
		formatFrench(d.StartTime))
	if d.Notes != "" {
		body += fmt.Sprintf("Vos remarques : %s\n", d.Notes)
	}
	body += "\nÀ bientôt !"

	if err := m.send([]string{d.ClientEmail}, subject, body); err != nil {
		return fmt.Errorf("confirmation to %s: %w", d.ClientEmail, err)
	}
	m.log.Info().Str("to", d.ClientEmail).Msg("confirmation email sent")
	return nil
}

func (m *Mailer) SendBookingCancellation(ctx context.Context, d model.BookingDetails) error {
	subject := fmt.Sprintf("Annulation de votre rendez-vous - %s", d.MassageName)
	body := fmt.Sprintf(
		"Bonjour %s %s,\n\n"+
			"Votre rendez-vous du %s pour le massage %s a bien été annulé.\n\n"+
			"N'hésitez pas à réserver un autre créneau.",
		d.ClientFirstname, d.ClientName,
		formatFrench(d.StartTime), d.MassageName)

	if err := m.send([]string{d.ClientEmail}, subject, body); err != nil {
		return fmt.Errorf("cancellation to %s: %w", d.ClientEmail, err)
	}
	m.log.Info().Str("to", d.ClientEmail).Msg("cancellation email sent")
	return nil
}

func (m *Mailer) NotifyAdmins(ctx context.Context, d model.BookingDetails) error {
	emails, err := m.admins.AdminEmails(ctx)
	if err != nil {
		return fmt.Errorf("admin recipients: %w", err)
	}
	if len(emails) == 0 {
		m.log.Warn().Msg("no admin found for booking notification")
		return nil
	}

	subject := fmt.Sprintf("Nouvelle réservation - %s", d.MassageName)
	body := fmt.Sprintf(
		"Nouvelle réservation reçue.\n\n"+
			"Client : %s %s (%s",
		d.ClientFirstname, d.ClientName, d.ClientEmail)
	if d.ClientPhone != "" {
		body += ", " + d.ClientPhone
	}
	body += fmt.Sprintf(")\nMassage : %s (%d minutes, %.2f €)\nRendez-vous : %s\n",
		d.MassageName, d.MassageDuration, d.MassagePrice, formatFrench(d.StartTime))
	if d.Notes != "" {
		body += fmt.Sprintf("Remarques : %s\n", d.Notes)
	}

	if err := m.send(emails, subject, body); err != nil {
		return fmt.Errorf("admin notification: %w", err)
	}
	m.log.Info().Int("recipients", len(emails)).Msg("admin notification sent")
	return nil
}

var frenchMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

func formatFrench(t time.Time) string {
	return fmt.Sprintf("%d %s %d à %02d:%02d",
		t.Day(), frenchMonths[t.Month()-1], t.Year(), t.Hour(), t.Minute())
}
