package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"waitlist/internal/domain"
)

type UserStore struct{ db *gorm.DB }

func (s *Store) Users() *UserStore { return &UserStore{db: s.DB} }

func (u *UserStore) Create(ctx context.Context, usr *domain.User) error {
	if usr.ID == uuid.Nil {
		usr.ID = uuid.New()
	}
	return u.db.WithContext(ctx).Create(usr).Error
}

func (u *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	if err := u.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (u *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := u.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (u *UserStore) GetByReferralCode(ctx context.Context, code string) (*domain.User, error) {
	var user domain.User
	if err := u.db.WithContext(ctx).First(&user, "referral_code = ?", code).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (u *UserStore) CodeExists(ctx context.Context, code string) (bool, error) {
	var n int64
	err := u.db.WithContext(ctx).Model(&domain.User{}).
		Where("referral_code = ?", code).
		Count(&n).Error
	return n > 0, err
}

// IncrementReferrals bumps the referrer's counter as a SQL expression so two
// simultaneous referees cannot lose each other's update.
func (u *UserStore) IncrementReferrals(ctx context.Context, userID uuid.UUID) error {
	return u.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", userID).
		Update("referrals_count", gorm.Expr("referrals_count + ?", 1)).Error
}

func (u *UserStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := u.db.WithContext(ctx).Model(&domain.User{}).Count(&n).Error
	return n, err
}

func (u *UserStore) SumReferrals(ctx context.Context) (int64, error) {
	var total int64
	err := u.db.WithContext(ctx).Model(&domain.User{}).
		Select("COALESCE(SUM(referrals_count), 0)").
		Scan(&total).Error
	return total, err
}

// Rank is the 1-based position: one more than the number of users ranked
// strictly higher. Higher means more referrals, or equal referrals and an
// earlier join.
func (u *UserStore) Rank(ctx context.Context, usr *domain.User) (int, error) {
	var better int64
	err := u.db.WithContext(ctx).Model(&domain.User{}).
		Where("referrals_count > ? OR (referrals_count = ? AND created_at < ?)",
			usr.ReferralsCount, usr.ReferralsCount, usr.CreatedAt).
		Count(&better).Error
	if err != nil {
		return 0, err
	}
	return int(better) + 1, nil
}

func (u *UserStore) ListRanked(ctx context.Context, limit int) ([]domain.User, error) {
	var users []domain.User
	err := u.db.WithContext(ctx).
		Order("referrals_count DESC, created_at ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}
