package referral

import "sort"

// Tier is a referral-count threshold that unlocks a named perk.
type Tier struct {
	ReferralsRequired int    `json:"referralsRequired"`
	Label             string `json:"label"`
}

// DefaultTiers is the standard unlock ladder.
var DefaultTiers = []Tier{
	{ReferralsRequired: 0, Label: "On the waitlist"},
	{ReferralsRequired: 5, Label: "Unlock beta access"},
	{ReferralsRequired: 10, Label: "Priority onboarding"},
	{ReferralsRequired: 25, Label: "VIP perks"},
}

// Progress describes where a referral count sits on the tier ladder.
// NextTier is nil once the top tier is reached.
type Progress struct {
	CurrentTier         Tier    `json:"currentTier"`
	NextTier            *Tier   `json:"nextTier"`
	ProgressToNextTier  float64 `json:"progressToNextTier"`
	RemainingToNextTier int     `json:"remainingToNextTier"`
}

// TierProgress maps a referral count onto the tier ladder. The input slice is
// not mutated; tiers are ordered by requirement internally regardless of the
// order given.
func TierProgress(referralsCount int, tiers []Tier) Progress {
	sorted := make([]Tier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ReferralsRequired < sorted[j].ReferralsRequired
	})

	if len(sorted) == 0 {
		return Progress{ProgressToNextTier: 1}
	}

	current := 0
	for i := range sorted {
		if referralsCount >= sorted[i].ReferralsRequired {
			current = i
		}
	}

	if current == len(sorted)-1 {
		return Progress{
			CurrentTier:         sorted[current],
			NextTier:            nil,
			ProgressToNextTier:  1,
			RemainingToNextTier: 0,
		}
	}

	next := sorted[current+1]
	span := next.ReferralsRequired - sorted[current].ReferralsRequired
	progressed := referralsCount - sorted[current].ReferralsRequired

	return Progress{
		CurrentTier:         sorted[current],
		NextTier:            &next,
		ProgressToNextTier:  clamp01(float64(progressed) / float64(span)),
		RemainingToNextTier: max(0, next.ReferralsRequired-referralsCount),
	}
}

func clamp01(n float64) float64 {
	if n != n { // NaN
		return 0
	}
	if n < 0 {
		return 0
	}
	if n > 1 {
		return 1
	}
	return n
}
