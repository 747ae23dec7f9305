package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"smartdivorce_backend/internal/directory/domain"
	"smartdivorce_backend/internal/directory/scoring"
	"smartdivorce_backend/platform/apperr"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store used by tests and the collector's
// dry-run mode. Captures serialize per place id, not globally, so the
// merge semantics under concurrency match the database's row-level
// behavior. The map itself is guarded separately by mu; records are
// stored by value and replaced whole, never mutated in place.
type MemoryStore struct {
	mu           sync.Mutex
	keyLocks     map[string]*sync.Mutex
	lawyers      map[string]domain.Lawyer
	sponsorships map[uuid.UUID]Sponsorship
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		keyLocks:     make(map[string]*sync.Mutex),
		lawyers:      make(map[string]domain.Lawyer),
		sponsorships: make(map[uuid.UUID]Sponsorship),
	}
}

// lockFor returns the mutex serializing read-modify-write cycles for one
// place id, creating it on first use.
func (s *MemoryStore) lockFor(placeID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.keyLocks[placeID]
	if !ok {
		lock = &sync.Mutex{}
		s.keyLocks[placeID] = lock
	}
	return lock
}

func (s *MemoryStore) getLawyer(placeID string) (domain.Lawyer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lawyer, ok := s.lawyers[placeID]
	return lawyer, ok
}

func (s *MemoryStore) putLawyer(lawyer domain.Lawyer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lawyers[lawyer.PlaceID] = lawyer
}

func (s *MemoryStore) GetByPlaceID(_ context.Context, placeID string) (domain.Lawyer, error) {
	lawyer, ok := s.getLawyer(placeID)
	if !ok {
		return domain.Lawyer{}, apperr.NotFound(lawyerNotFoundMsg)
	}
	return lawyer, nil
}

func (s *MemoryStore) Capture(_ context.Context, params CaptureParams) (domain.Lawyer, bool, error) {
	cand := params.Candidate
	lock := s.lockFor(cand.PlaceID)
	lock.Lock()
	defer lock.Unlock()

	existing, ok := s.getLawyer(cand.PlaceID)
	if !ok {
		lawyer := domain.Lawyer{
			PlaceID:        cand.PlaceID,
			Name:           cand.Name,
			Address:        cand.Address,
			Rating:         cand.Rating,
			ReviewCount:    cand.ReviewCount,
			PhotoURL:       cand.PhotoURL,
			SearchLat:      cand.Origin.Lat,
			SearchLng:      cand.Origin.Lng,
			FirstSeen:      params.CaptureTime,
			LastSeen:       params.CaptureTime,
			SearchCount:    1,
			TargetingScore: params.TargetingScore,
			IsNewPractice:  params.IsNewPractice,
			HasNoWebsite:   params.HasNoWebsite,
			HasLowReviews:  params.HasLowReviews,
		}
		s.putLawyer(lawyer)
		return lawyer, true, nil
	}

	existing.Name = cand.Name
	existing.Address = cand.Address
	if cand.Rating != nil {
		existing.Rating = cand.Rating
	}
	if cand.ReviewCount != nil {
		existing.ReviewCount = cand.ReviewCount
	}
	if cand.PhotoURL != nil {
		existing.PhotoURL = cand.PhotoURL
	}
	existing.SearchLat = cand.Origin.Lat
	existing.SearchLng = cand.Origin.Lng
	if params.CaptureTime.After(existing.LastSeen) {
		existing.LastSeen = params.CaptureTime
	}
	existing.SearchCount++

	// Targeting signals re-derive from the merged record, never from the
	// incoming candidate: enrichment learned between captures survives.
	existing.HasLowReviews = scoring.HasLowReviews(existing.ReviewCount)
	existing.TargetingScore = scoring.ScoreFromFlags(
		existing.IsNewPractice,
		existing.HasNoWebsite,
		existing.HasLowReviews,
		existing.Sponsored,
	)

	s.putLawyer(existing)
	return existing, false, nil
}

func (s *MemoryStore) UpdateDetails(_ context.Context, placeID string, update DetailUpdate) error {
	lock := s.lockFor(placeID)
	lock.Lock()
	defer lock.Unlock()

	lawyer, ok := s.getLawyer(placeID)
	if !ok {
		return apperr.NotFound(lawyerNotFoundMsg)
	}
	if update.Phone != nil {
		lawyer.Phone = update.Phone
	}
	if update.Website != nil {
		lawyer.Website = update.Website
		lawyer.HasNoWebsite = false
	}
	if update.ProfileCreatedAt != nil {
		lawyer.ProfileCreatedAt = update.ProfileCreatedAt
	}
	if update.TargetingScore != nil {
		lawyer.TargetingScore = *update.TargetingScore
	}
	if update.IsNewPractice != nil {
		lawyer.IsNewPractice = *update.IsNewPractice
	}
	s.putLawyer(lawyer)
	return nil
}

func (s *MemoryStore) ListSponsoredNear(_ context.Context, lat, lng, radiusKm float64) ([]domain.Lawyer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matches := make([]domain.Lawyer, 0)
	for _, lawyer := range s.lawyers {
		if !lawyer.Sponsored {
			continue
		}
		if domain.DistanceKm(lat, lng, lawyer.SearchLat, lawyer.SearchLng) > radiusKm {
			continue
		}
		matches = append(matches, lawyer)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		ri, rj := matches[i].SponsorshipTier.Rank(), matches[j].SponsorshipTier.Rank()
		if ri != rj {
			return ri < rj
		}
		return matches[i].FirstSeen.Before(matches[j].FirstSeen)
	})

	return matches, nil
}

func (s *MemoryStore) ListTopTargets(_ context.Context, limit int) ([]domain.Lawyer, error) {
	if limit < 1 {
		limit = 20
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	targets := make([]domain.Lawyer, 0)
	for _, lawyer := range s.lawyers {
		if lawyer.Sponsored {
			continue
		}
		targets = append(targets, lawyer)
	}

	sort.SliceStable(targets, func(i, j int) bool {
		if targets[i].TargetingScore != targets[j].TargetingScore {
			return targets[i].TargetingScore > targets[j].TargetingScore
		}
		return targets[i].SearchCount > targets[j].SearchCount
	})

	if len(targets) > limit {
		targets = targets[:limit]
	}
	return targets, nil
}

func (s *MemoryStore) CreateSponsorship(_ context.Context, sp Sponsorship) error {
	lock := s.lockFor(sp.PlaceID)
	lock.Lock()
	defer lock.Unlock()

	lawyer, ok := s.getLawyer(sp.PlaceID)
	if !ok {
		return apperr.NotFound(lawyerNotFoundMsg)
	}

	s.mu.Lock()
	s.sponsorships[sp.ID] = sp
	s.mu.Unlock()

	lawyer.Sponsored = true
	lawyer.SponsorshipTier = sp.Tier
	s.putLawyer(lawyer)
	return nil
}

func (s *MemoryStore) ExpireSponsorship(_ context.Context, id uuid.UUID) (Sponsorship, error) {
	s.mu.Lock()
	sp, ok := s.sponsorships[id]
	if !ok || sp.Status != "active" {
		s.mu.Unlock()
		return Sponsorship{}, apperr.NotFound(sponsorshipNotFoundMsg)
	}
	sp.Status = "expired"
	s.sponsorships[id] = sp

	// The best remaining active sponsorship keeps the lawyer flagged.
	var remaining *Sponsorship
	for _, other := range s.sponsorships {
		if other.PlaceID != sp.PlaceID || other.Status != "active" {
			continue
		}
		if remaining == nil || other.Tier.Rank() < remaining.Tier.Rank() {
			copied := other
			remaining = &copied
		}
	}
	s.mu.Unlock()

	lock := s.lockFor(sp.PlaceID)
	lock.Lock()
	defer lock.Unlock()

	if lawyer, ok := s.getLawyer(sp.PlaceID); ok {
		if remaining != nil {
			lawyer.Sponsored = true
			lawyer.SponsorshipTier = remaining.Tier
		} else {
			lawyer.Sponsored = false
			lawyer.SponsorshipTier = domain.TierNone
		}
		s.putLawyer(lawyer)
	}

	return sp, nil
}

func (s *MemoryStore) ListSponsorshipsDue(_ context.Context, now time.Time) ([]Sponsorship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	due := make([]Sponsorship, 0)
	for _, sp := range s.sponsorships {
		if sp.Status == "active" && !sp.EndDate.After(now) {
			due = append(due, sp)
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		return due[i].EndDate.Before(due[j].EndDate)
	})
	return due, nil
}
