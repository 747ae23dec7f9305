// Package email renders and delivers transactional mail. Delivery is
// best-effort everywhere: callers log failures and move on.
package email

import "context"

// Sender delivers the application's transactional mail.
type Sender interface {
	// SendApplicationAdminAlert notifies the site admin of a new
	// directory application.
	SendApplicationAdminAlert(ctx context.Context, adminEmail, firmName, applicantName, summary string) error

	// SendApplicationConfirmation acknowledges a directory application to
	// the applicant.
	SendApplicationConfirmation(ctx context.Context, toEmail, firstName, firmName string) error

	// SendNewsletterWelcome greets a new newsletter subscriber.
	SendNewsletterWelcome(ctx context.Context, toEmail string) error

	// SendSponsorshipReceipt confirms a sponsorship purchase with its
	// term and amount.
	SendSponsorshipReceipt(ctx context.Context, toEmail, tier string, amountUSD int, endDate string) error

	// SendOutreachDigest sends the admin the targeting report produced by
	// the collector.
	SendOutreachDigest(ctx context.Context, adminEmail, report string) error
}

// NoopSender is used when email is not configured. Every send succeeds
// silently.
type NoopSender struct{}

var _ Sender = NoopSender{}

func (NoopSender) SendApplicationAdminAlert(context.Context, string, string, string, string) error {
	return nil
}

func (NoopSender) SendApplicationConfirmation(context.Context, string, string, string) error {
	return nil
}

func (NoopSender) SendNewsletterWelcome(context.Context, string) error { return nil }

func (NoopSender) SendSponsorshipReceipt(context.Context, string, string, int, string) error {
	return nil
}

func (NoopSender) SendOutreachDigest(context.Context, string, string) error { return nil }
