package store_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"waitlist/internal/domain"
	"waitlist/internal/dto"
	"waitlist/internal/referral"
	"waitlist/internal/repository"
	"waitlist/internal/store"
)

type scriptedCodes struct {
	codes []string
	next  int
}

func (s *scriptedCodes) Generate() (string, error) {
	if s.next < len(s.codes) {
		c := s.codes[s.next]
		s.next++
		return c, nil
	}
	return s.codes[len(s.codes)-1], nil
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Named per test so parallel tests never share a database.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func setupRepo(t *testing.T) *store.WaitlistRepository {
	t.Helper()
	return store.NewWaitlistRepository(setupDB(t), referral.DefaultGenerator())
}

func TestWaitlistRepositoryJoinIsIdempotent(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	first, err := repo.JoinWaitlist(ctx, dto.JoinInput{Email: " New@Example.com "})
	if err != nil {
		t.Fatalf("first join: %v", err)
	}
	if !first.WasCreated || first.Position != 1 {
		t.Fatalf("unexpected first join: %+v", first)
	}

	second, err := repo.JoinWaitlist(ctx, dto.JoinInput{Email: "new@example.com"})
	if err != nil {
		t.Fatalf("second join: %v", err)
	}
	if second.WasCreated {
		t.Fatal("second join must not create")
	}
	if second.UserID != first.UserID || second.ReferralCode != first.ReferralCode {
		t.Fatalf("identity changed: %+v vs %+v", first, second)
	}
}

func TestWaitlistRepositoryEmptyEmail(t *testing.T) {
	repo := setupRepo(t)

	if _, err := repo.JoinWaitlist(context.Background(), dto.JoinInput{Email: "   "}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestWaitlistRepositoryReferralCreditedOnce(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	referrer, err := repo.JoinWaitlist(ctx, dto.JoinInput{Email: "r@example.com"})
	if err != nil {
		t.Fatalf("referrer: %v", err)
	}

	referee, err := repo.JoinWaitlist(ctx, dto.JoinInput{Email: "f@example.com", ReferralCode: referrer.ReferralCode})
	if err != nil {
		t.Fatalf("referee: %v", err)
	}
	if !referee.ReferralWasApplied {
		t.Fatalf("referral not applied: %+v", referee)
	}

	dup, err := repo.JoinWaitlist(ctx, dto.JoinInput{Email: "f@example.com", ReferralCode: referrer.ReferralCode})
	if err != nil {
		t.Fatalf("duplicate: %v", err)
	}
	if dup.WasCreated || dup.ReferralWasApplied {
		t.Fatalf("duplicate join credited again: %+v", dup)
	}

	stats, err := repo.GetWaitlistStats(ctx, referrer.UserID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.ReferralsCount != 1 {
		t.Fatalf("referrer count = %d, want 1", stats.ReferralsCount)
	}
	if stats.TotalWaitlist != 2 || stats.TotalReferrals != 1 {
		t.Fatalf("totals = %d/%d, want 2/1", stats.TotalWaitlist, stats.TotalReferrals)
	}
}

func TestWaitlistRepositoryUnknownCodeIgnored(t *testing.T) {
	repo := setupRepo(t)

	res, err := repo.JoinWaitlist(context.Background(), dto.JoinInput{Email: "x@example.com", ReferralCode: "ZZZZ99"})
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if !res.WasCreated || res.ReferralWasApplied {
		t.Fatalf("unknown code should be ignored: %+v", res)
	}
}

func TestWaitlistRepositoryCodeSpaceExhausted(t *testing.T) {
	repo := store.NewWaitlistRepository(setupDB(t), &scriptedCodes{codes: []string{"DUP111"}})
	ctx := context.Background()

	if _, err := repo.JoinWaitlist(ctx, dto.JoinInput{Email: "a@example.com"}); err != nil {
		t.Fatalf("first join: %v", err)
	}
	if _, err := repo.JoinWaitlist(ctx, dto.JoinInput{Email: "b@example.com"}); !errors.Is(err, domain.ErrCodeSpaceExhausted) {
		t.Fatalf("expected ErrCodeSpaceExhausted, got %v", err)
	}
}

func TestWaitlistRepositoryRankingAndTieBreak(t *testing.T) {
	db := setupDB(t)
	repo := store.NewWaitlistRepository(db, referral.DefaultGenerator())
	ctx := context.Background()

	// Seed rows directly so counts and join times are exact.
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	users := []domain.User{
		{ID: uuid.New(), Email: "early-two@example.com", ReferralCode: "CODEA1", ReferralsCount: 2, CreatedAt: base},
		{ID: uuid.New(), Email: "late-two@example.com", ReferralCode: "CODEB2", ReferralsCount: 2, CreatedAt: base.Add(time.Hour)},
		{ID: uuid.New(), Email: "five@example.com", ReferralCode: "CODEC3", ReferralsCount: 5, CreatedAt: base.Add(2 * time.Hour)},
		{ID: uuid.New(), Email: "zero@example.com", ReferralCode: "CODED4", ReferralsCount: 0, CreatedAt: base.Add(3 * time.Hour)},
	}
	st := store.New(db)
	for i := range users {
		if err := st.Users().Create(ctx, &users[i]); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}

	board, err := repo.GetReferralLeaderboard(ctx, 10)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	wantOrder := []string{"CODEC3", "CODEA1", "CODEB2", "CODED4"}
	if len(board) != len(wantOrder) {
		t.Fatalf("board size = %d, want %d", len(board), len(wantOrder))
	}
	for i, want := range wantOrder {
		if board[i].ReferralCode != want {
			t.Fatalf("board[%d] = %s, want %s", i, board[i].ReferralCode, want)
		}
		if board[i].Position != i+1 {
			t.Fatalf("board[%d] position = %d, want %d", i, board[i].Position, i+1)
		}
	}

	// Stats positions agree with the board, no gaps or duplicates.
	seen := make(map[int]bool)
	for _, u := range users {
		stats, err := repo.GetWaitlistStats(ctx, u.ID)
		if err != nil {
			t.Fatalf("stats: %v", err)
		}
		if seen[stats.Position] {
			t.Fatalf("duplicate position %d", stats.Position)
		}
		seen[stats.Position] = true
	}
	for p := 1; p <= len(users); p++ {
		if !seen[p] {
			t.Fatalf("missing position %d", p)
		}
	}
}

func TestWaitlistRepositoryLeaderboardLimit(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if _, err := repo.JoinWaitlist(ctx, dto.JoinInput{Email: fmt.Sprintf("u%d@example.com", i)}); err != nil {
			t.Fatalf("join: %v", err)
		}
	}

	board, err := repo.GetReferralLeaderboard(ctx, 2)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(board) != 2 {
		t.Fatalf("limit 2 returned %d entries", len(board))
	}

	board, err = repo.GetReferralLeaderboard(ctx, -5)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(board) != 1 {
		t.Fatalf("negative limit should floor to 1, got %d", len(board))
	}
}

func TestWaitlistRepositoryStatsNotFound(t *testing.T) {
	repo := setupRepo(t)

	if _, err := repo.GetWaitlistStats(context.Background(), uuid.New()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// The repository contract is shared with the in-memory backend; both must be
// assignable wherever a repository.Waitlist is expected.
var _ repository.Waitlist = (*store.WaitlistRepository)(nil)
