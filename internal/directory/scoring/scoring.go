// Package scoring computes the outreach-priority score for captured
// lawyers. The score ranks which practices the sponsorship sales flow
// should target first.
package scoring

import "time"

const (
	// newPracticeWindowDays is how recently a Google Business profile must
	// have been created for the practice to count as "new".
	newPracticeWindowDays = 365

	// lowReviewThreshold is the review count below which a practice is
	// considered to need reputation building.
	lowReviewThreshold = 5

	newPracticeBonus = 40
	noWebsiteBonus   = 20
	lowReviewBonus   = 20
	unsponsoredBonus = 10

	// MaxScore caps the final score regardless of how the weights evolve.
	MaxScore = 100
)

// DefaultMarketCompetitionBonus stands in for a population-based
// market-size lookup that does not exist yet. Override it per call via
// Config until a real signal is supplied.
const DefaultMarketCompetitionBonus = 10

// Inputs are the record fields the scorer reads. Optional fields are nil
// when the value was never observed; an unknown value earns no bonus.
type Inputs struct {
	ProfileCreatedAt *time.Time
	Website          *string
	ReviewCount      *int
	Sponsored        bool
}

// Config tunes the scorer. The zero value uses the defaults.
type Config struct {
	// MarketCompetitionBonus replaces DefaultMarketCompetitionBonus when
	// a real market-size signal is available.
	MarketCompetitionBonus *int
}

// Score computes the outreach-priority score in [0, MaxScore].
// It is a pure function: the evaluation time is an explicit parameter so
// the profile-age comparison never reads the wall clock.
func Score(in Inputs, evalTime time.Time) int {
	return ScoreWithConfig(in, evalTime, Config{})
}

// ScoreWithConfig is Score with an explicit configuration.
func ScoreWithConfig(in Inputs, evalTime time.Time, cfg Config) int {
	score := 0

	if IsNewPractice(in.ProfileCreatedAt, evalTime) {
		score += newPracticeBonus
	}
	if in.Website == nil || *in.Website == "" {
		score += noWebsiteBonus
	}
	if in.ReviewCount != nil && *in.ReviewCount < lowReviewThreshold {
		score += lowReviewBonus
	}
	if !in.Sponsored {
		score += unsponsoredBonus
	}

	market := DefaultMarketCompetitionBonus
	if cfg.MarketCompetitionBonus != nil {
		market = *cfg.MarketCompetitionBonus
	}
	score += market

	if score > MaxScore {
		score = MaxScore
	}
	if score < 0 {
		score = 0
	}
	return score
}

// ScoreFromFlags recomputes the score from already-derived signal flags.
// The capture merge path uses it: a search result carries no website or
// profile age, so flags learned from enrichment stay authoritative and a
// re-capture must never rescore them away.
func ScoreFromFlags(isNewPractice, hasNoWebsite, hasLowReviews, sponsored bool) int {
	score := 0
	if isNewPractice {
		score += newPracticeBonus
	}
	if hasNoWebsite {
		score += noWebsiteBonus
	}
	if hasLowReviews {
		score += lowReviewBonus
	}
	if !sponsored {
		score += unsponsoredBonus
	}
	score += DefaultMarketCompetitionBonus

	if score > MaxScore {
		score = MaxScore
	}
	return score
}

// IsNewPractice reports whether the profile is known to be under the
// new-practice window at evalTime. Unknown profile age is never "new".
func IsNewPractice(profileCreatedAt *time.Time, evalTime time.Time) bool {
	if profileCreatedAt == nil {
		return false
	}
	ageDays := int(evalTime.Sub(*profileCreatedAt).Hours() / 24)
	return ageDays >= 0 && ageDays < newPracticeWindowDays
}

// HasLowReviews reports whether the known review count is under the
// low-review threshold. Unknown counts are not "low".
func HasLowReviews(reviewCount *int) bool {
	return reviewCount != nil && *reviewCount < lowReviewThreshold
}
