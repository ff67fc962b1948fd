package dto

import (
	"github.com/google/uuid"

	"waitlist/internal/referral"
)

// JoinInput is what the repository layer needs to process a join.
type JoinInput struct {
	Email        string `json:"email"`
	ReferralCode string `json:"referralCode,omitempty"`
}

// JoinResult is the repository's answer to a join: the entrant's state plus
// flags telling the caller whether anything actually happened.
type JoinResult struct {
	UserID             uuid.UUID `json:"userId"`
	ReferralCode       string    `json:"referralCode"`
	ReferralsCount     int       `json:"referralsCount"`
	Position           int       `json:"position"`
	WasCreated         bool      `json:"wasCreated"`
	ReferralWasApplied bool      `json:"referralWasApplied"`
}

// JoinRequest is the public HTTP body for a join submission.
type JoinRequest struct {
	Email        string `json:"email"`
	FirstName    string `json:"firstName,omitempty"`
	ReferralCode string `json:"referralCode,omitempty"`
}

type JoinMeta struct {
	WasCreated         bool `json:"wasCreated"`
	ReferralWasApplied bool `json:"referralWasApplied"`
}

// JoinResponse merges identity, ranking, social-proof totals, the leaderboard
// snapshot and tier state into the single object the UI renders after a join.
type JoinResponse struct {
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
	JoinMeta       JoinMeta           `json:"joinMeta"`
}
