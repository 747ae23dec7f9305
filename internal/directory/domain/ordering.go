package domain

import "sort"

// OrderListings sorts listings for display: featured first, then premium,
// basic, and unsponsored results. The sort is stable, so the upstream
// provider's relative order is preserved within each tier.
func OrderListings(listings []Listing) []Listing {
	ordered := make([]Listing, len(listings))
	copy(ordered, listings)

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Tier.Rank() < ordered[j].Tier.Rank()
	})

	return ordered
}
