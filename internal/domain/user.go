package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a waitlist entrant. Everything except ReferralsCount is immutable
// after creation; ReferredByID is set at most once, during the join that
// created the record.
type User struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email          string     `gorm:"not null;uniqueIndex:ux_waitlist_users_email" json:"email"`
	ReferralCode   string     `gorm:"size:32;not null;uniqueIndex:ux_waitlist_users_code" json:"referralCode"`
	ReferredByID   *uuid.UUID `gorm:"type:uuid;index" json:"referredById"`
	ReferralsCount int        `gorm:"not null;default:0" json:"referralsCount"`
	CreatedAt      time.Time  `gorm:"not null;index" json:"createdAt"`
}

func (User) TableName() string { return "waitlist_users" }
