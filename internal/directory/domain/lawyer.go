// Package domain holds the directory's core types and the pure decision
// logic applied to captured search results.
package domain

import "time"

// Tier is a ranked sponsorship level.
type Tier string

const (
	TierFeatured Tier = "featured"
	TierPremium  Tier = "premium"
	TierBasic    Tier = "basic"
	// TierNone marks an unsponsored listing.
	TierNone Tier = ""
)

// ParseTier returns the tier for a wire value, or false for anything unknown.
func ParseTier(value string) (Tier, bool) {
	switch Tier(value) {
	case TierFeatured, TierPremium, TierBasic:
		return Tier(value), true
	}
	return TierNone, false
}

// Rank orders tiers for display: featured < premium < basic < unsponsored.
func (t Tier) Rank() int {
	switch t {
	case TierFeatured:
		return 0
	case TierPremium:
		return 1
	case TierBasic:
		return 2
	default:
		return 3
	}
}

// SearchOrigin is the geographic point a search was issued from.
type SearchOrigin struct {
	Lat float64
	Lng float64
}

// PlaceRecord is one raw search result from the places provider, before
// normalization. Optional provider fields stay nil when absent.
type PlaceRecord struct {
	PlaceID     string
	Name        string
	Address     string
	Rating      *float64
	ReviewCount *int
	PhotoURL    *string
}

// Candidate is a normalized, not-yet-persisted representation of one
// search result.
type Candidate struct {
	PlaceID     string
	Name        string
	Address     string
	Rating      *float64
	ReviewCount *int
	PhotoURL    *string
	Origin      SearchOrigin
}

// Lawyer is the persisted directory record for a captured practice.
type Lawyer struct {
	PlaceID          string
	Name             string
	Address          string
	Rating           *float64
	ReviewCount      *int
	PhotoURL         *string
	Phone            *string
	Website          *string
	ProfileCreatedAt *time.Time
	SearchLat        float64
	SearchLng        float64
	FirstSeen        time.Time
	LastSeen         time.Time
	SearchCount      int
	Sponsored        bool
	SponsorshipTier  Tier
	Verified         bool
	TargetingScore   int
	IsNewPractice    bool
	HasNoWebsite     bool
	HasLowReviews    bool
}

// Listing is a display-ready entry: a candidate plus its resolved
// sponsorship state.
type Listing struct {
	Candidate
	Sponsored   bool
	Tier        Tier
	Badge       *string
	Description *string
}
