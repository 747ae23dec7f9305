package scoring

import (
	"testing"
	"time"
)

var evalTime = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

func daysAgo(days int) *time.Time {
	t := evalTime.AddDate(0, 0, -days)
	return &t
}

func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }

func TestScoreAllSignalsFire(t *testing.T) {
	// 40 (new practice) + 20 (no website) + 20 (low reviews) + 10 (not
	// sponsored) + 10 (market) = 100.
	in := Inputs{
		ProfileCreatedAt: daysAgo(40),
		Website:          nil,
		ReviewCount:      intPtr(2),
		Sponsored:        false,
	}

	if got := Score(in, evalTime); got != 100 {
		t.Fatalf("Score = %d, want 100", got)
	}
}

func TestScoreEstablishedSponsoredFirm(t *testing.T) {
	in := Inputs{
		ProfileCreatedAt: daysAgo(2000),
		Website:          strPtr("https://example.com"),
		ReviewCount:      intPtr(120),
		Sponsored:        true,
	}

	// Only the market constant applies.
	if got := Score(in, evalTime); got != DefaultMarketCompetitionBonus {
		t.Fatalf("Score = %d, want %d", got, DefaultMarketCompetitionBonus)
	}
}

func TestScoreUnknownSignalsEarnNoBonus(t *testing.T) {
	in := Inputs{Sponsored: true}

	// Unknown profile age and review count score nothing; missing website
	// still counts because absence is the signal itself.
	want := noWebsiteBonus + DefaultMarketCompetitionBonus
	if got := Score(in, evalTime); got != want {
		t.Fatalf("Score = %d, want %d", got, want)
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	in := Inputs{
		ProfileCreatedAt: daysAgo(100),
		ReviewCount:      intPtr(3),
	}

	first := Score(in, evalTime)
	for i := 0; i < 10; i++ {
		if got := Score(in, evalTime); got != first {
			t.Fatalf("score changed between calls: %d vs %d", first, got)
		}
	}
}

func TestScoreClampedToMax(t *testing.T) {
	bonus := 500
	in := Inputs{
		ProfileCreatedAt: daysAgo(1),
		ReviewCount:      intPtr(0),
	}

	got := ScoreWithConfig(in, evalTime, Config{MarketCompetitionBonus: &bonus})
	if got != MaxScore {
		t.Fatalf("Score = %d, want clamp at %d", got, MaxScore)
	}
}

func TestScoreNeverNegative(t *testing.T) {
	bonus := -500
	in := Inputs{
		Website:     strPtr("https://example.com"),
		ReviewCount: intPtr(50),
		Sponsored:   true,
	}

	if got := ScoreWithConfig(in, evalTime, Config{MarketCompetitionBonus: &bonus}); got != 0 {
		t.Fatalf("Score = %d, want floor at 0", got)
	}
}

func TestScoreFromFlags(t *testing.T) {
	if got := ScoreFromFlags(true, true, true, false); got != MaxScore {
		t.Fatalf("all signals = %d, want clamped to %d", got, MaxScore)
	}
	if got := ScoreFromFlags(false, false, false, false); got != 20 {
		t.Fatalf("unsponsored baseline = %d, want 20", got)
	}
	if got := ScoreFromFlags(false, false, false, true); got != 10 {
		t.Fatalf("sponsored baseline = %d, want 10", got)
	}
	if got := ScoreFromFlags(false, true, false, false); got != 40 {
		t.Fatalf("no-website = %d, want 40", got)
	}
}

func TestIsNewPracticeBoundaries(t *testing.T) {
	if !IsNewPractice(daysAgo(364), evalTime) {
		t.Fatal("364 days old must be a new practice")
	}
	if IsNewPractice(daysAgo(365), evalTime) {
		t.Fatal("365 days old must not be a new practice")
	}
	if IsNewPractice(nil, evalTime) {
		t.Fatal("unknown profile age must not be a new practice")
	}
	if IsNewPractice(daysAgo(-10), evalTime) {
		t.Fatal("a profile created in the future must not count")
	}
}

func TestHasLowReviews(t *testing.T) {
	if !HasLowReviews(intPtr(4)) {
		t.Fatal("4 reviews is low")
	}
	if HasLowReviews(intPtr(5)) {
		t.Fatal("5 reviews is not low")
	}
	if HasLowReviews(nil) {
		t.Fatal("unknown review count is not low")
	}
}
