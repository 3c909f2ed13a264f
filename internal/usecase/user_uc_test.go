//go:build !integration

package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"telegram-wallpaper-bot/internal/domain"
	"telegram-wallpaper-bot/internal/domain/model"
)

func TestUserUseCase_Lookup(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()

	newRepos := func() (*memUserRepo, *memClickRepo) {
		users := newMemUserRepo()
		users.put(&model.User{
			TelegramID:  42,
			Username:    "alice",
			FirstName:   "Alice",
			FirstSeenAt: time.Now().Add(-time.Hour),
		})
		clicks := newMemClickRepo()
		for i := 0; i < 2; i++ {
			c, _ := model.NewLinkClick(42, "alice", "wp1")
			_ = clicks.Insert(ctx, c)
		}
		return users, clicks
	}

	t.Run("resolves @username", func(t *testing.T) {
		users, clicks := newRepos()
		uc := NewUserUseCase(users, clicks, logger)

		info, err := uc.Lookup(ctx, "@alice")
		if err != nil {
			t.Fatalf("Lookup failed: %v", err)
		}
		if info.User.TelegramID != 42 {
			t.Errorf("TelegramID = %d, want 42", info.User.TelegramID)
		}
		if info.LinkClicks != 2 {
			t.Errorf("LinkClicks = %d, want 2", info.LinkClicks)
		}
	})

	t.Run("resolves numeric id", func(t *testing.T) {
		users, clicks := newRepos()
		uc := NewUserUseCase(users, clicks, logger)

		info, err := uc.Lookup(ctx, "42")
		if err != nil {
			t.Fatalf("Lookup failed: %v", err)
		}
		if info.User.Username != "alice" {
			t.Errorf("Username = %q, want alice", info.User.Username)
		}
	})

	t.Run("non-numeric id without @ is invalid", func(t *testing.T) {
		users, clicks := newRepos()
		uc := NewUserUseCase(users, clicks, logger)

		if _, err := uc.Lookup(ctx, "alice"); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("empty query is invalid", func(t *testing.T) {
		users, clicks := newRepos()
		uc := NewUserUseCase(users, clicks, logger)

		if _, err := uc.Lookup(ctx, "   "); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("unknown user yields ErrNotFound", func(t *testing.T) {
		users, clicks := newRepos()
		uc := NewUserUseCase(users, clicks, logger)

		if _, err := uc.Lookup(ctx, "@nobody"); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if _, err := uc.Lookup(ctx, "999"); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("click count failure degrades to zero", func(t *testing.T) {
		users, _ := newRepos()
		uc := NewUserUseCase(users, failingClickRepo{}, logger)

		info, err := uc.Lookup(ctx, "42")
		if err != nil {
			t.Fatalf("Lookup failed: %v", err)
		}
		if info.LinkClicks != 0 {
			t.Errorf("LinkClicks = %d, want 0 on count failure", info.LinkClicks)
		}
	})
}

// failingClickRepo errors every derived count while keeping the rest inert.
type failingClickRepo struct{}

func (failingClickRepo) Insert(ctx context.Context, c *model.LinkClick) error { return nil }
func (failingClickRepo) CountAll(ctx context.Context) (int, error)            { return 0, nil }
func (failingClickRepo) CountByTelegramID(ctx context.Context, tgID int64) (int, error) {
	return 0, errors.New("count unavailable")
}
func (failingClickRepo) TopWallpapers(ctx context.Context, limit int) ([]model.WallpaperClicks, error) {
	return nil, nil
}

func TestUserUseCase_RecentUsers(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()

	users := newMemUserRepo()
	now := time.Now()
	for i := 0; i < 15; i++ {
		users.put(&model.User{
			TelegramID:  int64(i + 1),
			FirstSeenAt: now.Add(-time.Duration(i) * time.Minute),
		})
	}
	uc := NewUserUseCase(users, newMemClickRepo(), logger)

	t.Run("newest first, truncated to limit", func(t *testing.T) {
		got, err := uc.RecentUsers(ctx, 3)
		if err != nil {
			t.Fatalf("RecentUsers failed: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("expected 3 users, got %d", len(got))
		}
		for i, wantID := range []int64{1, 2, 3} {
			if got[i].TelegramID != wantID {
				t.Errorf("got[%d].TelegramID = %d, want %d", i, got[i].TelegramID, wantID)
			}
		}
	})

	t.Run("non-positive limit falls back to default", func(t *testing.T) {
		got, err := uc.RecentUsers(ctx, 0)
		if err != nil {
			t.Fatalf("RecentUsers failed: %v", err)
		}
		if len(got) != defaultRecentUsersLimit {
			t.Errorf("expected %d users, got %d", defaultRecentUsersLimit, len(got))
		}
	})
}
