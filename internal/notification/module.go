// Package notification sends email in response to domain events. It
// subscribes to the bus so the directory and signup modules never touch
// email providers or templates directly.
package notification

import (
	"context"

	"smartdivorce_backend/internal/email"
	"smartdivorce_backend/internal/events"
	"smartdivorce_backend/platform/logger"
)

// Config narrows the app config to what notifications need.
type Config interface {
	GetAdminEmail() string
}

// Module handles notification side effects for domain events.
type Module struct {
	sender email.Sender
	cfg    Config
	log    *logger.Logger
}

// New creates the notification module. Call Register to attach it to a bus.
func New(sender email.Sender, cfg Config, log *logger.Logger) *Module {
	return &Module{sender: sender, cfg: cfg, log: log}
}

// Register subscribes the module's handlers on the event bus.
func (m *Module) Register(bus events.Bus) {
	bus.Subscribe("signup.application.received", events.HandlerFunc(m.handleApplicationReceived))
	bus.Subscribe("signup.newsletter.subscribed", events.HandlerFunc(m.handleNewsletterSubscribed))
	bus.Subscribe("directory.sponsorship.activated", events.HandlerFunc(m.handleSponsorshipActivated))
}

func (m *Module) handleApplicationReceived(ctx context.Context, e events.Event) error {
	event, ok := e.(events.ApplicationReceived)
	if !ok {
		return nil
	}

	applicantName := event.FirstName + " " + event.LastName
	if err := m.sender.SendApplicationAdminAlert(ctx, m.cfg.GetAdminEmail(), event.FirmName, applicantName, event.Summary); err != nil {
		m.log.EmailError("application_admin_alert", m.cfg.GetAdminEmail(), err)
	}
	if err := m.sender.SendApplicationConfirmation(ctx, event.Email, event.FirstName, event.FirmName); err != nil {
		m.log.EmailError("application_confirmation", event.Email, err)
	}
	return nil
}

func (m *Module) handleNewsletterSubscribed(ctx context.Context, e events.Event) error {
	event, ok := e.(events.NewsletterSubscribed)
	if !ok {
		return nil
	}

	if err := m.sender.SendNewsletterWelcome(ctx, event.Email); err != nil {
		m.log.EmailError("newsletter_welcome", event.Email, err)
	}
	return nil
}

func (m *Module) handleSponsorshipActivated(ctx context.Context, e events.Event) error {
	event, ok := e.(events.SponsorshipActivated)
	if !ok {
		return nil
	}

	endDate := event.EndDate.Format("January 2, 2006")
	if err := m.sender.SendSponsorshipReceipt(ctx, event.ContactEmail, event.Tier, event.AmountUSD, endDate); err != nil {
		m.log.EmailError("sponsorship_receipt", event.ContactEmail, err)
	}
	return nil
}
