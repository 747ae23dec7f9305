package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"smartdivorce_backend/internal/events"
	"smartdivorce_backend/platform/logger"

	"github.com/google/uuid"
)

type testConfig struct{}

func (testConfig) GetAdminEmail() string { return "admin@example.com" }

type testSender struct {
	mu                sync.Mutex
	adminAlerts       []string
	confirmations     []string
	welcomes          []string
	receipts          []string
	failConfirmations bool
}

func (s *testSender) SendApplicationAdminAlert(_ context.Context, adminEmail, _, _, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.adminAlerts = append(s.adminAlerts, adminEmail)
	return nil
}

func (s *testSender) SendApplicationConfirmation(_ context.Context, toEmail, _, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failConfirmations {
		return errors.New("550 rejected")
	}
	s.confirmations = append(s.confirmations, toEmail)
	return nil
}

func (s *testSender) SendNewsletterWelcome(_ context.Context, toEmail string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.welcomes = append(s.welcomes, toEmail)
	return nil
}

func (s *testSender) SendSponsorshipReceipt(_ context.Context, toEmail, _ string, _ int, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.receipts = append(s.receipts, toEmail)
	return nil
}

func (s *testSender) SendOutreachDigest(context.Context, string, string) error { return nil }

func waitFor(t *testing.T, check func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !check() {
		if time.Now().After(deadline) {
			t.Fatal("condition never met")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestApplicationReceivedSendsBothEmails(t *testing.T) {
	sender := &testSender{}
	log := logger.New("development")
	bus := events.NewInMemoryBus(log)
	New(sender, testConfig{}, log).Register(bus)

	bus.Publish(context.Background(), events.ApplicationReceived{
		BaseEvent:     events.NewBaseEvent(),
		ApplicationID: uuid.New(),
		FirstName:     "Maria",
		LastName:      "Garcia",
		Email:         "maria@example.com",
		FirmName:      "Garcia Family Law",
		Summary:       "Bar number: NV12345\n",
	})

	waitFor(t, func() bool {
		sender.mu.Lock()
		defer sender.mu.Unlock()
		return len(sender.adminAlerts) == 1 && len(sender.confirmations) == 1
	})

	sender.mu.Lock()
	defer sender.mu.Unlock()
	if sender.adminAlerts[0] != "admin@example.com" {
		t.Fatalf("admin alert went to %q", sender.adminAlerts[0])
	}
	if sender.confirmations[0] != "maria@example.com" {
		t.Fatalf("confirmation went to %q", sender.confirmations[0])
	}
}

func TestConfirmationFailureStillSendsAdminAlert(t *testing.T) {
	sender := &testSender{failConfirmations: true}
	log := logger.New("development")
	bus := events.NewInMemoryBus(log)
	New(sender, testConfig{}, log).Register(bus)

	if err := bus.PublishSync(context.Background(), events.ApplicationReceived{
		BaseEvent: events.NewBaseEvent(),
		Email:     "maria@example.com",
		FirstName: "Maria",
		FirmName:  "Garcia Family Law",
	}); err != nil {
		t.Fatalf("email failure must not surface: %v", err)
	}

	sender.mu.Lock()
	defer sender.mu.Unlock()
	if len(sender.adminAlerts) != 1 {
		t.Fatalf("admin alerts = %d, want 1", len(sender.adminAlerts))
	}
}

func TestNewsletterSubscribedSendsWelcome(t *testing.T) {
	sender := &testSender{}
	log := logger.New("development")
	bus := events.NewInMemoryBus(log)
	New(sender, testConfig{}, log).Register(bus)

	bus.Publish(context.Background(), events.NewsletterSubscribed{
		BaseEvent: events.NewBaseEvent(),
		Email:     "reader@example.com",
	})

	waitFor(t, func() bool {
		sender.mu.Lock()
		defer sender.mu.Unlock()
		return len(sender.welcomes) == 1
	})
}

func TestSponsorshipActivatedSendsReceipt(t *testing.T) {
	sender := &testSender{}
	log := logger.New("development")
	bus := events.NewInMemoryBus(log)
	New(sender, testConfig{}, log).Register(bus)

	bus.Publish(context.Background(), events.SponsorshipActivated{
		BaseEvent:     events.NewBaseEvent(),
		SponsorshipID: uuid.New(),
		PlaceID:       "p1",
		Tier:          "premium",
		ContactEmail:  "owner@example.com",
		AmountUSD:     299,
		EndDate:       time.Now().AddDate(0, 0, 30),
	})

	waitFor(t, func() bool {
		sender.mu.Lock()
		defer sender.mu.Unlock()
		return len(sender.receipts) == 1 && sender.receipts[0] == "owner@example.com"
	})
}
