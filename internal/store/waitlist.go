package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"waitlist/internal/domain"
	"waitlist/internal/dto"
	"waitlist/internal/repository"
)

// WaitlistRepository is the database-backed implementation of
// repository.Waitlist. Each join runs in a single transaction; the unique
// indexes on email and referral_code arbitrate concurrent creations, so a
// duplicate-key loser simply re-reads the winner's row.
type WaitlistRepository struct {
	store *Store
	codes repository.CodeSource
}

func NewWaitlistRepository(db *gorm.DB, codes repository.CodeSource) *WaitlistRepository {
	return &WaitlistRepository{store: New(db), codes: codes}
}

func (r *WaitlistRepository) JoinWaitlist(ctx context.Context, in dto.JoinInput) (*dto.JoinResult, error) {
	email := repository.NormalizeEmail(in.Email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}
	refCode := strings.TrimSpace(in.ReferralCode)

	var result *dto.JoinResult
	err := r.store.WithTx(ctx, func(tx *Store) error {
		existing, err := tx.Users().GetByEmail(ctx, email)
		if err == nil {
			result, err = r.existingResult(ctx, tx, existing)
			return err
		}
		if !errors.Is(err, ErrRecordNotFound) {
			return err
		}

		code, err := r.uniqueCode(ctx, tx)
		if err != nil {
			return err
		}

		user := &domain.User{
			ID:           uuid.New(),
			Email:        email,
			ReferralCode: code,
			CreatedAt:    time.Now().UTC(),
		}

		// Resolve the referrer before the insert so referred_by_id is written
		// at creation and never mutated afterwards. Unknown codes are ignored.
		var referrer *domain.User
		if refCode != "" {
			referrer, err = tx.Users().GetByReferralCode(ctx, refCode)
			if err != nil && !errors.Is(err, ErrRecordNotFound) {
				return err
			}
			if referrer != nil && referrer.ID != user.ID {
				user.ReferredByID = &referrer.ID
			} else {
				referrer = nil
			}
		}

		if err := tx.Users().Create(ctx, user); err != nil {
			return err
		}

		applied := false
		if referrer != nil {
			if err := tx.Users().IncrementReferrals(ctx, referrer.ID); err != nil {
				return err
			}
			applied = true
		}

		position, err := tx.Users().Rank(ctx, user)
		if err != nil {
			return err
		}

		result = &dto.JoinResult{
			UserID:             user.ID,
			ReferralCode:       user.ReferralCode,
			ReferralsCount:     user.ReferralsCount,
			Position:           position,
			WasCreated:         true,
			ReferralWasApplied: applied,
		}
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost a same-email creation race: the winner's row exists now.
		return r.joinExisting(ctx, email)
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *WaitlistRepository) joinExisting(ctx context.Context, email string) (*dto.JoinResult, error) {
	var result *dto.JoinResult
	err := r.store.WithTx(ctx, func(tx *Store) error {
		existing, err := tx.Users().GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		result, err = r.existingResult(ctx, tx, existing)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *WaitlistRepository) existingResult(ctx context.Context, tx *Store, user *domain.User) (*dto.JoinResult, error) {
	position, err := tx.Users().Rank(ctx, user)
	if err != nil {
		return nil, err
	}
	return &dto.JoinResult{
		UserID:             user.ID,
		ReferralCode:       user.ReferralCode,
		ReferralsCount:     user.ReferralsCount,
		Position:           position,
		WasCreated:         false,
		ReferralWasApplied: false,
	}, nil
}

func (r *WaitlistRepository) uniqueCode(ctx context.Context, tx *Store) (string, error) {
	for attempt := 0; attempt < repository.MaxCodeAttempts; attempt++ {
		code, err := r.codes.Generate()
		if err != nil {
			return "", err
		}
		taken, err := tx.Users().CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", domain.ErrCodeSpaceExhausted
}

func (r *WaitlistRepository) GetWaitlistStats(ctx context.Context, userID uuid.UUID) (*dto.WaitlistStats, error) {
	var stats *dto.WaitlistStats
	err := r.store.WithTx(ctx, func(tx *Store) error {
		user, err := tx.Users().GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", domain.ErrNotFound, userID)
			}
			return err
		}
		position, err := tx.Users().Rank(ctx, user)
		if err != nil {
			return err
		}
		total, err := tx.Users().Count(ctx)
		if err != nil {
			return err
		}
		referrals, err := tx.Users().SumReferrals(ctx)
		if err != nil {
			return err
		}
		stats = &dto.WaitlistStats{
			UserID:         user.ID,
			ReferralCode:   user.ReferralCode,
			ReferralsCount: user.ReferralsCount,
			Position:       position,
			TotalWaitlist:  int(total),
			TotalReferrals: int(referrals),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *WaitlistRepository) GetReferralLeaderboard(ctx context.Context, limit int) ([]dto.LeaderboardEntry, error) {
	if limit < 1 {
		limit = 1
	}
	users, err := r.store.Users().ListRanked(ctx, limit)
	if err != nil {
		return nil, err
	}
	entries := make([]dto.LeaderboardEntry, 0, len(users))
	for i, u := range users {
		entries = append(entries, dto.LeaderboardEntry{
			UserID:         u.ID,
			ReferralCode:   u.ReferralCode,
			ReferralsCount: u.ReferralsCount,
			Position:       i + 1,
		})
	}
	return entries, nil
}
