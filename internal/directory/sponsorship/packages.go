package sponsorship

import "smartdivorce_backend/internal/directory/domain"

// Package describes one sponsorship tier for pricing and display.
type Package struct {
	Tier         domain.Tier `json:"tier"`
	MonthlyPrice int         `json:"monthlyPrice"` // USD
	Features     []string    `json:"features"`
}

// Packages is the static tier catalog. Used for display and the fixed
// price lookup on sponsorship creation; never for match decisions.
var Packages = map[domain.Tier]Package{
	domain.TierBasic: {
		Tier:         domain.TierBasic,
		MonthlyPrice: 99,
		Features: []string{
			"Highlighted listing",
			"Basic badge",
			"Contact info visible",
			"Up to 3 photos",
		},
	},
	domain.TierPremium: {
		Tier:         domain.TierPremium,
		MonthlyPrice: 299,
		Features: []string{
			"Priority placement",
			"Premium badge",
			"Custom description",
			"Up to 10 photos",
			"Direct contact button",
			"Monthly analytics report",
		},
	},
	domain.TierFeatured: {
		Tier:         domain.TierFeatured,
		MonthlyPrice: 599,
		Features: []string{
			"Top placement always",
			"Featured badge",
			"Full profile customization",
			"Unlimited photos",
			"Video introduction",
			"Weekly analytics",
			"Competitor ad removal",
			"Priority support",
		},
	},
}

// PriceFor returns the fixed monthly price for a tier.
func PriceFor(tier domain.Tier) (int, bool) {
	pkg, ok := Packages[tier]
	if !ok {
		return 0, false
	}
	return pkg.MonthlyPrice, true
}
