package repository

import (
	"context"
	"time"

	"smartdivorce_backend/internal/directory/domain"

	"github.com/google/uuid"
)

// Sponsorship is a paid placement record for one directory entry.
type Sponsorship struct {
	ID                uuid.UUID
	PlaceID           string
	Tier              domain.Tier
	StartDate         time.Time
	EndDate           time.Time
	AmountUSD         int
	Status            string // "active" or "expired"
	CustomBadge       *string
	CustomDescription *string
	ContactEmail      string
	ContactPhone      *string
	CreatedAt         time.Time
}

// CaptureParams carries the precomputed scoring output alongside the
// candidate so the upsert can write everything in one statement.
type CaptureParams struct {
	Candidate      domain.Candidate
	CaptureTime    time.Time
	TargetingScore int
	IsNewPractice  bool
	HasNoWebsite   bool
	HasLowReviews  bool
}

// DetailUpdate merges lazily fetched place details into a record.
// Nil fields leave the stored value untouched.
type DetailUpdate struct {
	Phone            *string
	Website          *string
	ProfileCreatedAt *time.Time
	// TargetingScore and IsNewPractice are set when the caller rescored
	// the record against the fuller detail picture.
	TargetingScore *int
	IsNewPractice  *bool
}

// Store is the directory datastore. The Postgres implementation backs
// production; the in-memory implementation backs tests and the collector's
// dry-run mode.
type Store interface {
	// GetByPlaceID returns the record for an external place identifier.
	// Returns apperr.NotFound when no record exists.
	GetByPlaceID(ctx context.Context, placeID string) (domain.Lawyer, error)

	// Capture records one appearance of a candidate in a search. New
	// identifiers create a record with search_count 1; existing ones are
	// merged field-by-field (non-null incoming values win, nulls never
	// erase known data), search_count incremented and last_seen advanced.
	// The whole operation is atomic per identifier: concurrent captures
	// of the same place must both be reflected in the final state.
	// Returns the post-capture record and whether it was newly created.
	Capture(ctx context.Context, params CaptureParams) (domain.Lawyer, bool, error)

	// UpdateDetails merges lazily fetched details into an existing record.
	UpdateDetails(ctx context.Context, placeID string, update DetailUpdate) error

	// ListSponsoredNear returns sponsored records within radiusKm of the
	// point, ordered by tier rank then first capture.
	ListSponsoredNear(ctx context.Context, lat, lng, radiusKm float64) ([]domain.Lawyer, error)

	// ListTopTargets returns unsponsored records ordered by descending
	// targeting score, for the outreach report.
	ListTopTargets(ctx context.Context, limit int) ([]domain.Lawyer, error)

	// CreateSponsorship stores a sponsorship and flags the lawyer record
	// with the tier. The lawyer must already exist.
	CreateSponsorship(ctx context.Context, s Sponsorship) error

	// ExpireSponsorship marks a sponsorship expired and clears the
	// lawyer's sponsorship flag when no other active sponsorship remains.
	ExpireSponsorship(ctx context.Context, id uuid.UUID) (Sponsorship, error)

	// ListSponsorshipsDue returns active sponsorships whose end date has
	// passed, for the periodic sweep.
	ListSponsorshipsDue(ctx context.Context, now time.Time) ([]Sponsorship, error)
}
