// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"smartdivorce_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Directory Domain Events
// =============================================================================

// LawyerCaptured is published when a search result is recorded into the directory.
type LawyerCaptured struct {
	BaseEvent
	PlaceID        string `json:"placeId"`
	Name           string `json:"name"`
	Created        bool   `json:"created"` // false when an existing record was refreshed
	SearchCount    int    `json:"searchCount"`
	TargetingScore int    `json:"targetingScore"`
}

func (e LawyerCaptured) EventName() string { return "directory.lawyer.captured" }

// SponsorshipActivated is published when a new sponsorship record is created.
type SponsorshipActivated struct {
	BaseEvent
	SponsorshipID uuid.UUID `json:"sponsorshipId"`
	PlaceID       string    `json:"placeId"`
	Tier          string    `json:"tier"`
	ContactEmail  string    `json:"contactEmail"`
	AmountUSD     int       `json:"amountUsd"`
	EndDate       time.Time `json:"endDate"`
}

func (e SponsorshipActivated) EventName() string { return "directory.sponsorship.activated" }

// SponsorshipExpired is published by the sweeper when a sponsorship passes its end date.
type SponsorshipExpired struct {
	BaseEvent
	SponsorshipID uuid.UUID `json:"sponsorshipId"`
	PlaceID       string    `json:"placeId"`
	Tier          string    `json:"tier"`
}

func (e SponsorshipExpired) EventName() string { return "directory.sponsorship.expired" }

// =============================================================================
// Signup Domain Events
// =============================================================================

// ApplicationReceived is published when a lawyer submits a directory application.
type ApplicationReceived struct {
	BaseEvent
	ApplicationID uuid.UUID `json:"applicationId"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	Email         string    `json:"email"`
	FirmName      string    `json:"firmName"`
	City          string    `json:"city"`
	State         string    `json:"state"`
	Tier          string    `json:"tier"`
	Summary       string    `json:"summary"` // pre-rendered admin summary lines
}

func (e ApplicationReceived) EventName() string { return "signup.application.received" }

// NewsletterSubscribed is published on a successful newsletter signup.
type NewsletterSubscribed struct {
	BaseEvent
	Email string `json:"email"`
}

func (e NewsletterSubscribed) EventName() string { return "signup.newsletter.subscribed" }
