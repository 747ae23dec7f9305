// Package service orchestrates the directory's capture and sponsorship flows.
package service

import (
	"context"
	"fmt"
	"time"

	"smartdivorce_backend/internal/directory/domain"
	"smartdivorce_backend/internal/directory/repository"
	"smartdivorce_backend/internal/directory/scoring"
	"smartdivorce_backend/internal/directory/sponsorship"
	"smartdivorce_backend/internal/events"
	"smartdivorce_backend/platform/apperr"
	"smartdivorce_backend/platform/logger"
	"smartdivorce_backend/platform/phone"

	"github.com/google/uuid"
)

// sponsorshipDays is the paid placement term started at purchase time.
const sponsorshipDays = 30

// ExpiryScheduler schedules a deactivation task for when a sponsorship's
// term ends. The asynq-backed implementation lives in internal/scheduler.
type ExpiryScheduler interface {
	ScheduleExpiry(ctx context.Context, sponsorshipID uuid.UUID, placeID string, at time.Time) error
}

// NoopScheduler is used when no task queue is configured. Expiry then
// relies solely on the sweeper's periodic due-list scan.
type NoopScheduler struct{}

func (NoopScheduler) ScheduleExpiry(context.Context, uuid.UUID, string, time.Time) error {
	return nil
}

// CaptureResult is the outcome of recording one search result.
type CaptureResult struct {
	Lawyer  domain.Lawyer
	Created bool
	// Stored is false when the datastore write failed and the capture was
	// dropped. The caller still acknowledges: capture is telemetry.
	Stored bool
}

// CreateSponsorshipParams is the validated input for a sponsorship purchase.
type CreateSponsorshipParams struct {
	PlaceID           string
	Tier              domain.Tier
	ContactEmail      string
	ContactPhone      *string
	CustomBadge       *string
	CustomDescription *string
}

// Service implements the directory use cases.
type Service struct {
	store     repository.Store
	matcher   *sponsorship.Matcher
	scheduler ExpiryScheduler
	eventBus  events.Bus
	log       *logger.Logger
	now       func() time.Time
}

func New(store repository.Store, matcher *sponsorship.Matcher, scheduler ExpiryScheduler, eventBus events.Bus, log *logger.Logger) *Service {
	if scheduler == nil {
		scheduler = NoopScheduler{}
	}
	return &Service{
		store:     store,
		matcher:   matcher,
		scheduler: scheduler,
		eventBus:  eventBus,
		log:       log,
		now:       time.Now,
	}
}

// Capture records one place search result into the directory. The raw
// record is normalized, matched against sponsor rules, scored, and
// upserted keyed by its place id. Datastore failure is logged and
// swallowed: the search that produced the record already succeeded.
func (s *Service) Capture(ctx context.Context, record domain.PlaceRecord, origin domain.SearchOrigin) (CaptureResult, error) {
	cand := domain.NewCandidate(record, origin)
	if !cand.Valid() {
		return CaptureResult{}, apperr.Validation("place id and name are required")
	}

	_, sponsored := s.matcher.Match(cand)
	captureTime := s.now()

	inputs := scoring.Inputs{
		ReviewCount: cand.ReviewCount,
		Sponsored:   sponsored,
	}
	score := scoring.Score(inputs, captureTime)

	lawyer, created, err := s.store.Capture(ctx, repository.CaptureParams{
		Candidate:      cand,
		CaptureTime:    captureTime,
		TargetingScore: score,
		IsNewPractice:  scoring.IsNewPractice(inputs.ProfileCreatedAt, captureTime),
		HasNoWebsite:   inputs.Website == nil,
		HasLowReviews:  scoring.HasLowReviews(cand.ReviewCount),
	})
	if err != nil {
		s.log.DatabaseError("capture lawyer", err)
		return CaptureResult{Stored: false}, nil
	}

	s.log.CaptureEvent(lawyer.PlaceID, created, lawyer.SearchCount)
	s.publishCaptured(ctx, lawyer, created)

	return CaptureResult{Lawyer: lawyer, Created: created, Stored: true}, nil
}

// RefreshDetails merges lazily fetched place details into a record and
// rescores it against the fuller picture.
func (s *Service) RefreshDetails(ctx context.Context, placeID string, update repository.DetailUpdate) (domain.Lawyer, error) {
	current, err := s.store.GetByPlaceID(ctx, placeID)
	if err != nil {
		return domain.Lawyer{}, err
	}

	if update.Phone != nil {
		normalized := phone.NormalizeE164(*update.Phone)
		update.Phone = &normalized
	}

	evalTime := s.now()
	inputs := scoring.Inputs{
		ProfileCreatedAt: coalesceTime(update.ProfileCreatedAt, current.ProfileCreatedAt),
		Website:          coalesceStr(update.Website, current.Website),
		ReviewCount:      current.ReviewCount,
		Sponsored:        current.Sponsored,
	}
	score := scoring.Score(inputs, evalTime)
	isNew := scoring.IsNewPractice(inputs.ProfileCreatedAt, evalTime)
	update.TargetingScore = &score
	update.IsNewPractice = &isNew

	if err := s.store.UpdateDetails(ctx, placeID, update); err != nil {
		return domain.Lawyer{}, err
	}
	return s.store.GetByPlaceID(ctx, placeID)
}

func coalesceTime(incoming, current *time.Time) *time.Time {
	if incoming != nil {
		return incoming
	}
	return current
}

func coalesceStr(incoming, current *string) *string {
	if incoming != nil {
		return incoming
	}
	return current
}

// SponsoredListings returns display-ready sponsored entries near a point,
// featured tier first. Matcher rules supply badge and description
// overrides for statically configured sponsors.
func (s *Service) SponsoredListings(ctx context.Context, lat, lng, radiusKm float64) ([]domain.Listing, error) {
	lawyers, err := s.store.ListSponsoredNear(ctx, lat, lng, radiusKm)
	if err != nil {
		return nil, err
	}

	listings := make([]domain.Listing, 0, len(lawyers))
	for _, lawyer := range lawyers {
		listing := domain.Listing{
			Candidate: domain.Candidate{
				PlaceID:     lawyer.PlaceID,
				Name:        lawyer.Name,
				Address:     lawyer.Address,
				Rating:      lawyer.Rating,
				ReviewCount: lawyer.ReviewCount,
				PhotoURL:    lawyer.PhotoURL,
				Origin:      domain.SearchOrigin{Lat: lawyer.SearchLat, Lng: lawyer.SearchLng},
			},
			Sponsored: true,
			Tier:      lawyer.SponsorshipTier,
		}
		if match, ok := s.matcher.Match(listing.Candidate); ok {
			if match.Badge != "" {
				badge := match.Badge
				listing.Badge = &badge
			}
			if match.Description != "" {
				desc := match.Description
				listing.Description = &desc
			}
		}
		listings = append(listings, listing)
	}

	return domain.OrderListings(listings), nil
}

// AnnotateResults resolves sponsorship for raw search results and orders
// them for display, sponsored tiers first, provider order preserved
// within a tier.
func (s *Service) AnnotateResults(records []domain.PlaceRecord, origin domain.SearchOrigin) []domain.Listing {
	listings := make([]domain.Listing, 0, len(records))
	for _, record := range records {
		cand := domain.NewCandidate(record, origin)
		if !cand.Valid() {
			continue
		}
		listing := domain.Listing{Candidate: cand}
		if match, ok := s.matcher.Match(cand); ok {
			listing.Sponsored = true
			listing.Tier = match.Tier
			if match.Badge != "" {
				badge := match.Badge
				listing.Badge = &badge
			}
			if match.Description != "" {
				desc := match.Description
				listing.Description = &desc
			}
		}
		listings = append(listings, listing)
	}
	return domain.OrderListings(listings)
}

// CreateSponsorship records a paid placement for an already captured
// lawyer. The term runs a fixed number of days from purchase at the
// tier's fixed monthly price; an expiry task is scheduled for the end
// date.
func (s *Service) CreateSponsorship(ctx context.Context, params CreateSponsorshipParams) (repository.Sponsorship, error) {
	price, ok := sponsorship.PriceFor(params.Tier)
	if !ok {
		return repository.Sponsorship{}, apperr.Validation("unknown sponsorship tier")
	}

	start := s.now()
	sp := repository.Sponsorship{
		ID:                uuid.New(),
		PlaceID:           params.PlaceID,
		Tier:              params.Tier,
		StartDate:         start,
		EndDate:           start.AddDate(0, 0, sponsorshipDays),
		AmountUSD:         price,
		Status:            "active",
		CustomBadge:       params.CustomBadge,
		CustomDescription: params.CustomDescription,
		ContactEmail:      params.ContactEmail,
		ContactPhone:      params.ContactPhone,
		CreatedAt:         start,
	}

	if err := s.store.CreateSponsorship(ctx, sp); err != nil {
		return repository.Sponsorship{}, err
	}

	if err := s.scheduler.ScheduleExpiry(ctx, sp.ID, sp.PlaceID, sp.EndDate); err != nil {
		// The sweeper's due-list scan still catches it.
		s.log.Error("failed to schedule sponsorship expiry",
			"sponsorship_id", sp.ID.String(),
			"error", err.Error(),
		)
	}

	s.publish(ctx, events.SponsorshipActivated{
		BaseEvent:     events.NewBaseEvent(),
		SponsorshipID: sp.ID,
		PlaceID:       sp.PlaceID,
		Tier:          string(sp.Tier),
		ContactEmail:  sp.ContactEmail,
		AmountUSD:     sp.AmountUSD,
		EndDate:       sp.EndDate,
	})

	return sp, nil
}

// ExpireSponsorship deactivates a sponsorship whose term has ended.
// Called by the sweeper worker.
func (s *Service) ExpireSponsorship(ctx context.Context, id uuid.UUID) error {
	sp, err := s.store.ExpireSponsorship(ctx, id)
	if err != nil {
		return err
	}

	s.log.Info("sponsorship expired",
		"sponsorship_id", sp.ID.String(),
		"place_id", sp.PlaceID,
		"tier", string(sp.Tier),
	)
	s.publish(ctx, events.SponsorshipExpired{
		BaseEvent:     events.NewBaseEvent(),
		SponsorshipID: sp.ID,
		PlaceID:       sp.PlaceID,
		Tier:          string(sp.Tier),
	})
	return nil
}

// ExpireDue deactivates every active sponsorship past its end date and
// returns how many were expired. Safety net behind the scheduled tasks.
func (s *Service) ExpireDue(ctx context.Context) (int, error) {
	due, err := s.store.ListSponsorshipsDue(ctx, s.now())
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, sp := range due {
		if err := s.ExpireSponsorship(ctx, sp.ID); err != nil {
			// Already expired by a racing task is fine.
			if apperr.GetKind(err) == apperr.KindNotFound {
				continue
			}
			return expired, fmt.Errorf("expire sponsorship %s: %w", sp.ID, err)
		}
		expired++
	}
	return expired, nil
}

// TopTargets lists unsponsored lawyers by descending targeting score for
// the outreach report.
func (s *Service) TopTargets(ctx context.Context, limit int) ([]domain.Lawyer, error) {
	return s.store.ListTopTargets(ctx, limit)
}

func (s *Service) publishCaptured(ctx context.Context, lawyer domain.Lawyer, created bool) {
	s.publish(ctx, events.LawyerCaptured{
		BaseEvent:      events.NewBaseEvent(),
		PlaceID:        lawyer.PlaceID,
		Name:           lawyer.Name,
		Created:        created,
		SearchCount:    lawyer.SearchCount,
		TargetingScore: lawyer.TargetingScore,
	})
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.eventBus == nil {
		return
	}
	s.eventBus.Publish(ctx, event)
}
