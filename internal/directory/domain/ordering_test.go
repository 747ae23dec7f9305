package domain

import "testing"

func listing(name string, tier Tier) Listing {
	return Listing{
		Candidate: Candidate{PlaceID: "id-" + name, Name: name},
		Sponsored: tier != TierNone,
		Tier:      tier,
	}
}

func TestOrderListingsByTier(t *testing.T) {
	in := []Listing{
		listing("a", TierBasic),
		listing("b", TierFeatured),
		listing("c", TierPremium),
	}

	got := OrderListings(in)

	want := []Tier{TierFeatured, TierPremium, TierBasic}
	for i, tier := range want {
		if got[i].Tier != tier {
			t.Fatalf("position %d: got tier %q, want %q", i, got[i].Tier, tier)
		}
	}
}

func TestOrderListingsIsStableWithinTier(t *testing.T) {
	in := []Listing{
		listing("first-organic", TierNone),
		listing("first-premium", TierPremium),
		listing("second-organic", TierNone),
		listing("second-premium", TierPremium),
	}

	got := OrderListings(in)

	wantNames := []string{"first-premium", "second-premium", "first-organic", "second-organic"}
	for i, name := range wantNames {
		if got[i].Name != name {
			t.Fatalf("position %d: got %q, want %q", i, got[i].Name, name)
		}
	}
}

func TestOrderListingsDoesNotMutateInput(t *testing.T) {
	in := []Listing{
		listing("a", TierNone),
		listing("b", TierFeatured),
	}

	_ = OrderListings(in)

	if in[0].Name != "a" || in[1].Name != "b" {
		t.Fatal("input slice was reordered in place")
	}
}

func TestOrderListingsEmpty(t *testing.T) {
	if got := OrderListings(nil); len(got) != 0 {
		t.Fatalf("expected empty output, got %d entries", len(got))
	}
}

func TestTierRank(t *testing.T) {
	if TierFeatured.Rank() >= TierPremium.Rank() {
		t.Fatal("featured must rank before premium")
	}
	if TierPremium.Rank() >= TierBasic.Rank() {
		t.Fatal("premium must rank before basic")
	}
	if TierBasic.Rank() >= TierNone.Rank() {
		t.Fatal("basic must rank before unsponsored")
	}
}

func TestParseTier(t *testing.T) {
	if tier, ok := ParseTier("premium"); !ok || tier != TierPremium {
		t.Fatalf("ParseTier(premium) = %q, %v", tier, ok)
	}
	if _, ok := ParseTier("platinum"); ok {
		t.Fatal("unknown tier must not parse")
	}
}
