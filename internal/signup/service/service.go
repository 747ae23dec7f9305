// Package service handles lawyer applications and newsletter signups.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"smartdivorce_backend/internal/events"
	"smartdivorce_backend/internal/signup/repository"
	"smartdivorce_backend/platform/logger"
	"smartdivorce_backend/platform/phone"

	"github.com/google/uuid"
)

// ApplicationParams is the validated input for a directory application.
type ApplicationParams struct {
	FirstName        string
	LastName         string
	Email            string
	Phone            string
	FirmName         string
	BarNumber        string
	YearsExperience  int
	Website          *string
	Street           string
	City             string
	State            string
	Zip              string
	PracticeAreas    []string
	ClientTypes      []string
	ConsultationType string
	SponsorshipTier  string
	Comments         *string
}

// Service implements the signup use cases.
type Service struct {
	store    repository.Store
	eventBus events.Bus
	log      *logger.Logger
	now      func() time.Time
}

func New(store repository.Store, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{
		store:    store,
		eventBus: eventBus,
		log:      log,
		now:      time.Now,
	}
}

// SubmitApplication persists a directory application and publishes it for
// admin and applicant notification. The submission succeeds once the
// record is stored; notification delivery is someone else's problem.
func (s *Service) SubmitApplication(ctx context.Context, params ApplicationParams) (repository.Application, error) {
	app := repository.Application{
		ID:               uuid.New(),
		FirstName:        strings.TrimSpace(params.FirstName),
		LastName:         strings.TrimSpace(params.LastName),
		Email:            strings.ToLower(strings.TrimSpace(params.Email)),
		Phone:            phone.NormalizeE164(params.Phone),
		FirmName:         strings.TrimSpace(params.FirmName),
		BarNumber:        strings.TrimSpace(params.BarNumber),
		YearsExperience:  params.YearsExperience,
		Website:          params.Website,
		Street:           strings.TrimSpace(params.Street),
		City:             strings.TrimSpace(params.City),
		State:            strings.ToUpper(strings.TrimSpace(params.State)),
		Zip:              strings.TrimSpace(params.Zip),
		PracticeAreas:    params.PracticeAreas,
		ClientTypes:      params.ClientTypes,
		ConsultationType: params.ConsultationType,
		SponsorshipTier:  params.SponsorshipTier,
		Comments:         params.Comments,
		CreatedAt:        s.now(),
	}

	if err := s.store.CreateApplication(ctx, app); err != nil {
		return repository.Application{}, err
	}

	s.log.Info("application received",
		"application_id", app.ID.String(),
		"firm", app.FirmName,
		"state", app.State,
	)
	s.eventBus.Publish(ctx, events.ApplicationReceived{
		BaseEvent:     events.NewBaseEvent(),
		ApplicationID: app.ID,
		FirstName:     app.FirstName,
		LastName:      app.LastName,
		Email:         app.Email,
		FirmName:      app.FirmName,
		City:          app.City,
		State:         app.State,
		Tier:          app.SponsorshipTier,
		Summary:       applicationSummary(app),
	})

	return app, nil
}

// Subscribe records a newsletter signup. Resubscribing an existing email
// is a silent success and publishes nothing.
func (s *Service) Subscribe(ctx context.Context, email string) error {
	normalized := strings.ToLower(strings.TrimSpace(email))

	created, err := s.store.SubscribeNewsletter(ctx, normalized, s.now())
	if err != nil {
		return err
	}
	if !created {
		return nil
	}

	s.eventBus.Publish(ctx, events.NewsletterSubscribed{
		BaseEvent: events.NewBaseEvent(),
		Email:     normalized,
	})
	return nil
}

// applicationSummary renders the admin notification body lines.
func applicationSummary(app repository.Application) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s %s\n", app.FirstName, app.LastName)
	fmt.Fprintf(&b, "Firm: %s\n", app.FirmName)
	fmt.Fprintf(&b, "Bar number: %s\n", app.BarNumber)
	fmt.Fprintf(&b, "Experience: %d years\n", app.YearsExperience)
	fmt.Fprintf(&b, "Email: %s\n", app.Email)
	fmt.Fprintf(&b, "Phone: %s\n", app.Phone)
	fmt.Fprintf(&b, "Address: %s, %s, %s %s\n", app.Street, app.City, app.State, app.Zip)
	fmt.Fprintf(&b, "Practice areas: %s\n", strings.Join(app.PracticeAreas, ", "))
	fmt.Fprintf(&b, "Client types: %s\n", strings.Join(app.ClientTypes, ", "))
	fmt.Fprintf(&b, "Consultation: %s\n", app.ConsultationType)
	fmt.Fprintf(&b, "Requested tier: %s\n", app.SponsorshipTier)
	if app.Website != nil {
		fmt.Fprintf(&b, "Website: %s\n", *app.Website)
	}
	if app.Comments != nil && strings.TrimSpace(*app.Comments) != "" {
		fmt.Fprintf(&b, "Comments: %s\n", *app.Comments)
	}
	return b.String()
}
