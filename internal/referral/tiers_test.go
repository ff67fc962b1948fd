package referral

import (
	"math"
	"testing"
)

func TestTierProgressDefaults(t *testing.T) {
	cases := []struct {
		name          string
		count         int
		wantCurrent   string
		wantNext      string // "" means no next tier
		wantProgress  float64
		wantRemaining int
	}{
		{name: "fresh join", count: 0, wantCurrent: "On the waitlist", wantNext: "Unlock beta access", wantProgress: 0, wantRemaining: 5},
		{name: "part way to beta", count: 3, wantCurrent: "On the waitlist", wantNext: "Unlock beta access", wantProgress: 0.6, wantRemaining: 2},
		{name: "beta unlocked", count: 5, wantCurrent: "Unlock beta access", wantNext: "Priority onboarding", wantProgress: 0, wantRemaining: 5},
		{name: "part way to priority", count: 7, wantCurrent: "Unlock beta access", wantNext: "Priority onboarding", wantProgress: 0.4, wantRemaining: 3},
		{name: "top tier exactly", count: 25, wantCurrent: "VIP perks", wantNext: "", wantProgress: 1, wantRemaining: 0},
		{name: "beyond top tier", count: 100, wantCurrent: "VIP perks", wantNext: "", wantProgress: 1, wantRemaining: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := TierProgress(tc.count, DefaultTiers)
			if p.CurrentTier.Label != tc.wantCurrent {
				t.Fatalf("current tier = %q, want %q", p.CurrentTier.Label, tc.wantCurrent)
			}
			if tc.wantNext == "" {
				if p.NextTier != nil {
					t.Fatalf("expected no next tier, got %+v", p.NextTier)
				}
			} else if p.NextTier == nil || p.NextTier.Label != tc.wantNext {
				t.Fatalf("next tier = %+v, want %q", p.NextTier, tc.wantNext)
			}
			if math.Abs(p.ProgressToNextTier-tc.wantProgress) > 1e-9 {
				t.Fatalf("progress = %v, want %v", p.ProgressToNextTier, tc.wantProgress)
			}
			if p.RemainingToNextTier != tc.wantRemaining {
				t.Fatalf("remaining = %d, want %d", p.RemainingToNextTier, tc.wantRemaining)
			}
		})
	}
}

func TestTierProgressSortsUnorderedInput(t *testing.T) {
	tiers := []Tier{
		{ReferralsRequired: 25, Label: "gold"},
		{ReferralsRequired: 0, Label: "base"},
		{ReferralsRequired: 10, Label: "silver"},
	}

	p := TierProgress(12, tiers)
	if p.CurrentTier.Label != "silver" {
		t.Fatalf("current tier = %q, want silver", p.CurrentTier.Label)
	}
	if p.NextTier == nil || p.NextTier.Label != "gold" {
		t.Fatalf("next tier = %+v, want gold", p.NextTier)
	}
	if p.RemainingToNextTier != 13 {
		t.Fatalf("remaining = %d, want 13", p.RemainingToNextTier)
	}

	// Input must not be reordered.
	if tiers[0].Label != "gold" || tiers[2].Label != "silver" {
		t.Fatalf("input slice was mutated: %+v", tiers)
	}
}

func TestTierProgressMonotonicWithinTier(t *testing.T) {
	prev := -1.0
	for count := 0; count < 5; count++ {
		p := TierProgress(count, DefaultTiers)
		if p.ProgressToNextTier < prev {
			t.Fatalf("progress decreased within tier at count %d: %v < %v", count, p.ProgressToNextTier, prev)
		}
		prev = p.ProgressToNextTier
	}
}

func TestTierProgressFullyUnlockedBoundary(t *testing.T) {
	for count := 0; count <= 40; count++ {
		p := TierProgress(count, DefaultTiers)
		atTop := count >= 25
		if (p.ProgressToNextTier == 1 && p.NextTier == nil) != atTop {
			t.Fatalf("count %d: progress=%v nextTier=%v, fully-unlocked should be %v",
				count, p.ProgressToNextTier, p.NextTier, atTop)
		}
	}
}

func TestTierProgressDegenerateTables(t *testing.T) {
	single := []Tier{{ReferralsRequired: 0, Label: "only"}}
	p := TierProgress(3, single)
	if p.CurrentTier.Label != "only" || p.NextTier != nil || p.ProgressToNextTier != 1 || p.RemainingToNextTier != 0 {
		t.Fatalf("single tier: %+v", p)
	}

	p = TierProgress(3, nil)
	if p.ProgressToNextTier != 1 {
		t.Fatalf("empty table should report fully unlocked, got %+v", p)
	}
}
