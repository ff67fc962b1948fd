package dto

import (
	"github.com/google/uuid"

	"waitlist/internal/referral"
)

type WaitlistStats struct {
	UserID         uuid.UUID `json:"userId"`
	ReferralCode   string    `json:"referralCode"`
	ReferralsCount int       `json:"referralsCount"`
	Position       int       `json:"position"`
	TotalWaitlist  int       `json:"totalWaitlist"`
	TotalReferrals int       `json:"totalReferrals"`
}

type LeaderboardEntry struct {
	UserID         uuid.UUID `json:"userId"`
	ReferralCode   string    `json:"referralCode"`
	ReferralsCount int       `json:"referralsCount"`
	Position       int       `json:"position"`
}

// DashboardResponse is the join composition without the join side effect.
type DashboardResponse struct {
	UserID         uuid.UUID          `json:"userId"`
	ReferralCode   string             `json:"referralCode"`
	ReferralLink   string             `json:"referralLink"`
	ReferralsCount int                `json:"referralsCount"`
	Position       int                `json:"position"`
	TotalWaitlist  int                `json:"totalWaitlist"`
	TotalReferrals int                `json:"totalReferrals"`
	Leaderboard    []LeaderboardEntry `json:"leaderboard"`
	Tiers          []referral.Tier    `json:"tiers"`
	TierProgress   referral.Progress  `json:"tierProgress"`
}
