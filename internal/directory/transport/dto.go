// Package transport defines the directory module's HTTP request and
// response shapes.
package transport

import (
	"time"

	"smartdivorce_backend/internal/directory/domain"
	"smartdivorce_backend/internal/directory/repository"
	"smartdivorce_backend/internal/directory/sponsorship"

	"github.com/google/uuid"
)

// CaptureRequest is one search result reported by the search frontend,
// together with the origin of the search that produced it.
type CaptureRequest struct {
	PlaceID     string   `json:"placeId" validate:"required"`
	Name        string   `json:"name" validate:"required"`
	Address     string   `json:"address"`
	Rating      *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
	ReviewCount *int     `json:"reviewCount" validate:"omitempty,gte=0"`
	PhotoURL    *string  `json:"photoUrl" validate:"omitempty,url"`
	SearchLat   float64  `json:"searchLat" validate:"gte=-90,lte=90"`
	SearchLng   float64  `json:"searchLng" validate:"gte=-180,lte=180"`
}

func (r CaptureRequest) Record() domain.PlaceRecord {
	return domain.PlaceRecord{
		PlaceID:     r.PlaceID,
		Name:        r.Name,
		Address:     r.Address,
		Rating:      r.Rating,
		ReviewCount: r.ReviewCount,
		PhotoURL:    r.PhotoURL,
	}
}

func (r CaptureRequest) Origin() domain.SearchOrigin {
	return domain.SearchOrigin{Lat: r.SearchLat, Lng: r.SearchLng}
}

// CaptureResponse acknowledges a capture. The capture is telemetry, so
// the acknowledgment carries no persistence guarantee.
type CaptureResponse struct {
	Status      string `json:"status"`
	Created     bool   `json:"created,omitempty"`
	SearchCount int    `json:"searchCount,omitempty"`
}

// SponsoredQuery selects sponsored listings near a point. RadiusKm
// defaults to 50 when omitted.
type SponsoredQuery struct {
	Lat      *float64 `form:"lat" validate:"required,gte=-90,lte=90"`
	Lng      *float64 `form:"lng" validate:"required,gte=-180,lte=180"`
	RadiusKm *float64 `form:"radius" validate:"omitempty,gt=0,lte=500"`
}

func (q SponsoredQuery) Radius() float64 {
	if q.RadiusKm == nil {
		return 50
	}
	return *q.RadiusKm
}

// ListingResponse is one display-ready directory entry.
type ListingResponse struct {
	PlaceID     string   `json:"placeId"`
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	Rating      *float64 `json:"rating,omitempty"`
	ReviewCount *int     `json:"reviewCount,omitempty"`
	PhotoURL    *string  `json:"photoUrl,omitempty"`
	Sponsored   bool     `json:"sponsored"`
	Tier        string   `json:"tier,omitempty"`
	Badge       *string  `json:"badge,omitempty"`
	Description *string  `json:"description,omitempty"`
}

func ToListingResponse(l domain.Listing) ListingResponse {
	return ListingResponse{
		PlaceID:     l.PlaceID,
		Name:        l.Name,
		Address:     l.Address,
		Rating:      l.Rating,
		ReviewCount: l.ReviewCount,
		PhotoURL:    l.PhotoURL,
		Sponsored:   l.Sponsored,
		Tier:        string(l.Tier),
		Badge:       l.Badge,
		Description: l.Description,
	}
}

func ToListingResponses(listings []domain.Listing) []ListingResponse {
	out := make([]ListingResponse, 0, len(listings))
	for _, l := range listings {
		out = append(out, ToListingResponse(l))
	}
	return out
}

// CreateSponsorshipRequest purchases a placement for a captured lawyer.
type CreateSponsorshipRequest struct {
	PlaceID           string  `json:"placeId" validate:"required"`
	Tier              string  `json:"tier" validate:"required,oneof=basic premium featured"`
	ContactEmail      string  `json:"contactEmail" validate:"required,email"`
	ContactPhone      *string `json:"contactPhone" validate:"omitempty,min=7"`
	CustomBadge       *string `json:"customBadge" validate:"omitempty,max=40"`
	CustomDescription *string `json:"customDescription" validate:"omitempty,max=500"`
}

// SponsorshipResponse describes a created sponsorship.
type SponsorshipResponse struct {
	ID        uuid.UUID `json:"id"`
	PlaceID   string    `json:"placeId"`
	Tier      string    `json:"tier"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	AmountUSD int       `json:"amountUsd"`
	Status    string    `json:"status"`
}

func ToSponsorshipResponse(s repository.Sponsorship) SponsorshipResponse {
	return SponsorshipResponse{
		ID:        s.ID,
		PlaceID:   s.PlaceID,
		Tier:      string(s.Tier),
		StartDate: s.StartDate,
		EndDate:   s.EndDate,
		AmountUSD: s.AmountUSD,
		Status:    s.Status,
	}
}

// PackageResponse is one tier of the static pricing catalog.
type PackageResponse struct {
	Tier         string   `json:"tier"`
	MonthlyPrice int      `json:"monthlyPrice"`
	Features     []string `json:"features"`
}

func ToPackageResponses() []PackageResponse {
	tiers := []domain.Tier{domain.TierBasic, domain.TierPremium, domain.TierFeatured}
	out := make([]PackageResponse, 0, len(tiers))
	for _, tier := range tiers {
		pkg := sponsorship.Packages[tier]
		out = append(out, PackageResponse{
			Tier:         string(pkg.Tier),
			MonthlyPrice: pkg.MonthlyPrice,
			Features:     pkg.Features,
		})
	}
	return out
}
