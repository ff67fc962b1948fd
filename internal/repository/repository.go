package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"waitlist/internal/dto"
)

// Waitlist is the ownership boundary for persisted entrants. Any storage
// technology may sit behind it, but every implementation must honor the same
// external semantics: idempotent joins per email, at-most-once referral
// crediting, and ranking by referrals_count descending with created_at
// ascending as the tie-break.
type Waitlist interface {
	JoinWaitlist(ctx context.Context, in dto.JoinInput) (*dto.JoinResult, error)
	GetWaitlistStats(ctx context.Context, userID uuid.UUID) (*dto.WaitlistStats, error)
	GetReferralLeaderboard(ctx context.Context, limit int) ([]dto.LeaderboardEntry, error)
}

// CodeSource yields fresh referral codes. Implementations do not guarantee
// uniqueness; the repository retries against its code index.
type CodeSource interface {
	Generate() (string, error)
}

// MaxCodeAttempts bounds the unique-code retry loop. With the default
// alphabet and length this bound is never reached in practice; hitting it
// means the code space is under-provisioned for the population.
const MaxCodeAttempts = 20

// NormalizeEmail trims and lower-cases an email so it can act as a unique key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
