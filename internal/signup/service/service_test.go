package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"smartdivorce_backend/internal/events"
	"smartdivorce_backend/internal/signup/repository"
	"smartdivorce_backend/platform/logger"
)

func newTestService() (*Service, *repository.MemoryStore, *events.InMemoryBus) {
	log := logger.New("development")
	store := repository.NewMemoryStore()
	bus := events.NewInMemoryBus(log)
	return New(store, bus, log), store, bus
}

func validParams() ApplicationParams {
	return ApplicationParams{
		FirstName:        "  Maria ",
		LastName:         "Garcia",
		Email:            "Maria.Garcia@Example.COM",
		Phone:            "(702) 555-0142",
		FirmName:         "Garcia Family Law",
		BarNumber:        "NV12345",
		YearsExperience:  8,
		Street:           "200 S 4th St",
		City:             "Las Vegas",
		State:            "nv",
		Zip:              "89101",
		PracticeAreas:    []string{"divorce", "custody"},
		ClientTypes:      []string{"individuals"},
		ConsultationType: "free",
		SponsorshipTier:  "premium",
	}
}

func TestSubmitApplicationNormalizes(t *testing.T) {
	svc, store, _ := newTestService()

	app, err := svc.SubmitApplication(context.Background(), validParams())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if app.FirstName != "Maria" {
		t.Fatalf("first name = %q, want trimmed", app.FirstName)
	}
	if app.Email != "maria.garcia@example.com" {
		t.Fatalf("email = %q, want lowercased", app.Email)
	}
	if app.Phone != "+17025550142" {
		t.Fatalf("phone = %q, want E.164", app.Phone)
	}
	if app.State != "NV" {
		t.Fatalf("state = %q, want uppercased", app.State)
	}

	if len(store.Applications) != 1 {
		t.Fatalf("stored %d applications, want 1", len(store.Applications))
	}
}

func TestSubmitApplicationPublishesSummary(t *testing.T) {
	svc, _, bus := newTestService()

	var mu sync.Mutex
	var got []events.ApplicationReceived
	bus.Subscribe("signup.application.received", events.HandlerFunc(func(_ context.Context, e events.Event) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, e.(events.ApplicationReceived))
		return nil
	}))

	if _, err := svc.SubmitApplication(context.Background(), validParams()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n := len(got)
		mu.Unlock()
		if n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("application event never arrived")
		}
		time.Sleep(10 * time.Millisecond)
	}

	mu.Lock()
	defer mu.Unlock()
	event := got[0]
	if event.FirmName != "Garcia Family Law" || event.Tier != "premium" {
		t.Fatalf("event = %+v", event)
	}
	for _, want := range []string{"Garcia Family Law", "NV12345", "+17025550142", "divorce, custody"} {
		if !strings.Contains(event.Summary, want) {
			t.Fatalf("summary missing %q:\n%s", want, event.Summary)
		}
	}
}

func TestSubscribeDeduplicates(t *testing.T) {
	svc, store, bus := newTestService()

	var mu sync.Mutex
	published := 0
	bus.Subscribe("signup.newsletter.subscribed", events.HandlerFunc(func(context.Context, events.Event) error {
		mu.Lock()
		defer mu.Unlock()
		published++
		return nil
	}))

	ctx := context.Background()
	if err := svc.Subscribe(ctx, "Reader@Example.com"); err != nil {
		t.Fatalf("first subscribe: %v", err)
	}
	// Same address with different casing is the same subscriber.
	if err := svc.Subscribe(ctx, "  reader@example.COM "); err != nil {
		t.Fatalf("resubscribe must be a silent success: %v", err)
	}

	if len(store.Subscribers) != 1 {
		t.Fatalf("subscribers = %d, want 1", len(store.Subscribers))
	}
	if _, ok := store.Subscribers["reader@example.com"]; !ok {
		t.Fatal("email not normalized before storage")
	}

	time.Sleep(100 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if published != 1 {
		t.Fatalf("welcome event published %d times, want 1", published)
	}
}
