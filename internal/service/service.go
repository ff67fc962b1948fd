package service

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"waitlist/internal/dto"
	"waitlist/internal/referral"
	"waitlist/internal/repository"
)

var (
	ErrNilRepository = errors.New("repository is required")
	ErrEmptyBaseURL  = errors.New("base url is required")
)

const (
	joinLeaderboardSize      = 5
	dashboardLeaderboardSize = 10
)

// ReferralService is the facade external callers use. It is a thin composer
// over the repository: it adds referral links and tier progress but no error
// wrapping, so repository failures reach the caller unchanged.
type ReferralService struct {
	repo    repository.Waitlist
	baseURL string
	tiers   []referral.Tier
}

func New(repo repository.Waitlist, baseURL string, tiers []referral.Tier) (*ReferralService, error) {
	if repo == nil {
		return nil, ErrNilRepository
	}
	if strings.TrimSpace(baseURL) == "" {
		return nil, ErrEmptyBaseURL
	}
	if len(tiers) == 0 {
		tiers = referral.DefaultTiers
	}
	return &ReferralService{
		repo:    repo,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		tiers:   tiers,
	}, nil
}

func (s *ReferralService) JoinWaitlist(ctx context.Context, in dto.JoinInput) (*dto.JoinResponse, error) {
	result, err := s.repo.JoinWaitlist(ctx, in)
	if err != nil {
		return nil, err
	}

	stats, err := s.repo.GetWaitlistStats(ctx, result.UserID)
	if err != nil {
		return nil, err
	}

	leaderboard, err := s.repo.GetReferralLeaderboard(ctx, joinLeaderboardSize)
	if err != nil {
		return nil, err
	}

	return &dto.JoinResponse{
		UserID:         stats.UserID,
		ReferralCode:   stats.ReferralCode,
		ReferralLink:   s.ReferralLink(stats.ReferralCode),
		ReferralsCount: stats.ReferralsCount,
		Position:       stats.Position,
		TotalWaitlist:  stats.TotalWaitlist,
		TotalReferrals: stats.TotalReferrals,
		Leaderboard:    leaderboard,
		Tiers:          s.tiers,
		TierProgress:   referral.TierProgress(stats.ReferralsCount, s.tiers),
		JoinMeta: dto.JoinMeta{
			WasCreated:         result.WasCreated,
			ReferralWasApplied: result.ReferralWasApplied,
		},
	}, nil
}

func (s *ReferralService) GetDashboard(ctx context.Context, userID uuid.UUID) (*dto.DashboardResponse, error) {
	stats, err := s.repo.GetWaitlistStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	leaderboard, err := s.repo.GetReferralLeaderboard(ctx, dashboardLeaderboardSize)
	if err != nil {
		return nil, err
	}

	return &dto.DashboardResponse{
		UserID:         stats.UserID,
		ReferralCode:   stats.ReferralCode,
		ReferralLink:   s.ReferralLink(stats.ReferralCode),
		ReferralsCount: stats.ReferralsCount,
		Position:       stats.Position,
		TotalWaitlist:  stats.TotalWaitlist,
		TotalReferrals: stats.TotalReferrals,
		Leaderboard:    leaderboard,
		Tiers:          s.tiers,
		TierProgress:   referral.TierProgress(stats.ReferralsCount, s.tiers),
	}, nil
}

// ReferralLink builds the shareable URL for a code.
func (s *ReferralService) ReferralLink(code string) string {
	return s.baseURL + "/?ref=" + url.QueryEscape(code)
}
