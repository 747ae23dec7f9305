package domain

import "strings"

// NewCandidate normalizes a raw place record into a Candidate.
// Missing optional fields stay nil; they are never replaced with zero or
// empty-string placeholders that could be mistaken for real data.
func NewCandidate(record PlaceRecord, origin SearchOrigin) Candidate {
	cand := Candidate{
		PlaceID: strings.TrimSpace(record.PlaceID),
		Name:    strings.TrimSpace(record.Name),
		Address: strings.TrimSpace(record.Address),
		Origin:  origin,
	}

	if record.Rating != nil {
		rating := *record.Rating
		cand.Rating = &rating
	}
	if record.ReviewCount != nil {
		count := *record.ReviewCount
		cand.ReviewCount = &count
	}
	if record.PhotoURL != nil && strings.TrimSpace(*record.PhotoURL) != "" {
		photo := strings.TrimSpace(*record.PhotoURL)
		cand.PhotoURL = &photo
	}

	return cand
}

// Valid reports whether the candidate carries the fields required for
// capture. Anything else is rejected before it reaches the store.
func (c Candidate) Valid() bool {
	return c.PlaceID != "" && c.Name != ""
}
