package email

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements Sender over a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender with the given SMTP credentials.
func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

var _ Sender = (*SMTPSender)(nil)

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

func (s *SMTPSender) SendApplicationAdminAlert(ctx context.Context, adminEmail, firmName, applicantName, summary string) error {
	subject := fmt.Sprintf(subjectAdminAlertFmt, firmName)
	content, err := renderEmailTemplate("admin_alert.html", adminAlertEmailData{
		baseEmailData: baseEmailData{
			Title:   subject,
			Heading: "New directory application",
		},
		FirmName:      firmName,
		ApplicantName: applicantName,
		SummaryLines:  splitLines(summary),
	})
	if err != nil {
		return err
	}
	return s.send(ctx, adminEmail, subject, content)
}

func (s *SMTPSender) SendApplicationConfirmation(ctx context.Context, toEmail, firstName, firmName string) error {
	content, err := renderEmailTemplate("application_confirmation.html", confirmationEmailData{
		baseEmailData: baseEmailData{
			Title:   subjectConfirmation,
			Heading: "Application received",
		},
		FirstName: firstName,
		FirmName:  firmName,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectConfirmation, content)
}

func (s *SMTPSender) SendNewsletterWelcome(ctx context.Context, toEmail string) error {
	content, err := renderEmailTemplate("newsletter_welcome.html", newsletterWelcomeEmailData{
		baseEmailData: baseEmailData{
			Title:   subjectNewsletterWelcome,
			Heading: "Welcome aboard",
		},
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectNewsletterWelcome, content)
}

func (s *SMTPSender) SendSponsorshipReceipt(ctx context.Context, toEmail, tier string, amountUSD int, endDate string) error {
	content, err := renderEmailTemplate("sponsorship_receipt.html", sponsorshipReceiptEmailData{
		baseEmailData: baseEmailData{
			Title:   subjectSponsorshipReceipt,
			Heading: "Sponsorship confirmed",
		},
		Tier:            tier,
		AmountFormatted: formatCurrencyUSD(amountUSD),
		EndDate:         endDate,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectSponsorshipReceipt, content)
}

func (s *SMTPSender) SendOutreachDigest(ctx context.Context, adminEmail, report string) error {
	content, err := renderEmailTemplate("outreach_digest.html", outreachDigestEmailData{
		baseEmailData: baseEmailData{
			Title:   subjectOutreachDigest,
			Heading: "Outreach targets",
		},
		ReportLines: splitLines(report),
	})
	if err != nil {
		return err
	}
	return s.send(ctx, adminEmail, subjectOutreachDigest, content)
}

func splitLines(text string) []string {
	raw := strings.Split(strings.TrimRight(text, "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
