package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"waitlist/internal/domain"
	"waitlist/internal/dto"
	"waitlist/internal/referral"
)

// Memory is the development and test backend. All state lives behind a single
// mutex, which serializes joins per the contract: two concurrent joins for the
// same new email cannot both create a record.
type Memory struct {
	mu sync.Mutex

	usersByID  map[uuid.UUID]*domain.User
	idByEmail  map[string]uuid.UUID
	idByCode   map[string]uuid.UUID
	creditedBy map[uuid.UUID]struct{} // referee ids that already granted credit

	codes CodeSource
}

var _ Waitlist = (*Memory)(nil)

func NewMemory() *Memory {
	return NewMemoryWithCodes(referral.DefaultGenerator())
}

func NewMemoryWithCodes(codes CodeSource) *Memory {
	return &Memory{
		usersByID:  make(map[uuid.UUID]*domain.User),
		idByEmail:  make(map[string]uuid.UUID),
		idByCode:   make(map[string]uuid.UUID),
		creditedBy: make(map[uuid.UUID]struct{}),
		codes:      codes,
	}
}

func (m *Memory) JoinWaitlist(ctx context.Context, in dto.JoinInput) (*dto.JoinResult, error) {
	email := NormalizeEmail(in.Email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}
	refCode := strings.TrimSpace(in.ReferralCode)

	m.mu.Lock()
	defer m.mu.Unlock()

	if id, ok := m.idByEmail[email]; ok {
		// Re-submission: report current state, never re-apply a referral.
		existing := m.usersByID[id]
		return &dto.JoinResult{
			UserID:             existing.ID,
			ReferralCode:       existing.ReferralCode,
			ReferralsCount:     existing.ReferralsCount,
			Position:           m.positionLocked(existing.ID),
			WasCreated:         false,
			ReferralWasApplied: false,
		}, nil
	}

	code, err := m.uniqueCodeLocked()
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		ReferralCode: code,
		CreatedAt:    time.Now().UTC(),
	}
	m.usersByID[user.ID] = user
	m.idByEmail[email] = user.ID
	m.idByCode[code] = user.ID

	applied := false
	if refCode != "" {
		if referrerID, ok := m.idByCode[refCode]; ok && referrerID != user.ID {
			if _, credited := m.creditedBy[user.ID]; !credited {
				m.creditedBy[user.ID] = struct{}{}
				m.usersByID[referrerID].ReferralsCount++
				user.ReferredByID = &referrerID
				applied = true
			}
		}
		// Unknown codes are ignored: a referral is optional, not validated here.
	}

	return &dto.JoinResult{
		UserID:             user.ID,
		ReferralCode:       user.ReferralCode,
		ReferralsCount:     user.ReferralsCount,
		Position:           m.positionLocked(user.ID),
		WasCreated:         true,
		ReferralWasApplied: applied,
	}, nil
}

func (m *Memory) GetWaitlistStats(ctx context.Context, userID uuid.UUID) (*dto.WaitlistStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.usersByID[userID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, userID)
	}

	totalReferrals := 0
	for _, u := range m.usersByID {
		totalReferrals += u.ReferralsCount
	}

	return &dto.WaitlistStats{
		UserID:         user.ID,
		ReferralCode:   user.ReferralCode,
		ReferralsCount: user.ReferralsCount,
		Position:       m.positionLocked(user.ID),
		TotalWaitlist:  len(m.usersByID),
		TotalReferrals: totalReferrals,
	}, nil
}

func (m *Memory) GetReferralLeaderboard(ctx context.Context, limit int) ([]dto.LeaderboardEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if limit < 1 {
		limit = 1
	}

	ranked := m.rankedLocked()
	if limit > len(ranked) {
		limit = len(ranked)
	}

	entries := make([]dto.LeaderboardEntry, 0, limit)
	for i := 0; i < limit; i++ {
		u := ranked[i]
		entries = append(entries, dto.LeaderboardEntry{
			UserID:         u.ID,
			ReferralCode:   u.ReferralCode,
			ReferralsCount: u.ReferralsCount,
			Position:       i + 1,
		})
	}
	return entries, nil
}

func (m *Memory) uniqueCodeLocked() (string, error) {
	for attempt := 0; attempt < MaxCodeAttempts; attempt++ {
		code, err := m.codes.Generate()
		if err != nil {
			return "", err
		}
		if _, taken := m.idByCode[code]; !taken {
			return code, nil
		}
	}
	return "", domain.ErrCodeSpaceExhausted
}

// rankedLocked recomputes the full order on every call. Fine for moderate
// waitlist sizes; a cached order would have to keep the exact tie-break.
func (m *Memory) rankedLocked() []*domain.User {
	users := make([]*domain.User, 0, len(m.usersByID))
	for _, u := range m.usersByID {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].ReferralsCount != users[j].ReferralsCount {
			return users[i].ReferralsCount > users[j].ReferralsCount
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users
}

func (m *Memory) positionLocked(userID uuid.UUID) int {
	for i, u := range m.rankedLocked() {
		if u.ID == userID {
			return i + 1
		}
	}
	return 0
}
