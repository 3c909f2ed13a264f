//go:build !integration

package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"telegram-wallpaper-bot/internal/domain/model"
)

func seedUserAt(repo *memUserRepo, tgID int64, firstSeen time.Time, premium bool) {
	repo.put(&model.User{
		TelegramID:   tgID,
		FirstSeenAt:  firstSeen,
		LastActiveAt: firstSeen,
		Interactions: 1,
		IsPremium:    premium,
	})
}

func TestStatsUseCase_Summary(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()

	t.Run("counts users per window with midnight boundary", func(t *testing.T) {
		users := newMemUserRepo()
		clicks := newMemClickRepo()

		now := time.Now()
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

		seedUserAt(users, 1, midnight, false)                    // exactly midnight: today
		seedUserAt(users, 2, midnight.Add(-time.Minute), false)  // 23:59 yesterday: not today
		seedUserAt(users, 3, now.AddDate(0, 0, -10), true)       // inside 30d only
		seedUserAt(users, 4, now.AddDate(0, 0, -40), true)       // outside every window

		for i := 0; i < 3; i++ {
			c, _ := model.NewLinkClick(1, "", "wp1")
			_ = clicks.Insert(ctx, c)
		}

		uc := NewStatsUseCase(users, clicks, logger)
		s, err := uc.Summary(ctx)
		if err != nil {
			t.Fatalf("Summary failed: %v", err)
		}

		if s.TotalUsers != 4 {
			t.Errorf("TotalUsers = %d, want 4", s.TotalUsers)
		}
		if s.UsersToday != 1 {
			t.Errorf("UsersToday = %d, want 1 (midnight counts, 23:59 prior day does not)", s.UsersToday)
		}
		if s.Users7Days != 2 {
			t.Errorf("Users7Days = %d, want 2", s.Users7Days)
		}
		if s.Users30Days != 3 {
			t.Errorf("Users30Days = %d, want 3", s.Users30Days)
		}
		if s.PremiumUsers != 2 {
			t.Errorf("PremiumUsers = %d, want 2", s.PremiumUsers)
		}
		if s.TotalClicks != 3 {
			t.Errorf("TotalClicks = %d, want 3", s.TotalClicks)
		}
	})

	t.Run("today window starts at local midnight", func(t *testing.T) {
		users := newMemUserRepo()
		var captured []time.Time
		users.CountSeenSinceFunc = func(ctx context.Context, since time.Time) (int, error) {
			captured = append(captured, since)
			return 0, nil
		}

		uc := NewStatsUseCase(users, newMemClickRepo(), logger)
		if _, err := uc.Summary(ctx); err != nil {
			t.Fatalf("Summary failed: %v", err)
		}
		if len(captured) != 3 {
			t.Fatalf("expected 3 windowed counts, got %d", len(captured))
		}

		today := captured[0]
		if today.Hour() != 0 || today.Minute() != 0 || today.Second() != 0 || today.Nanosecond() != 0 {
			t.Errorf("today boundary is not midnight: %v", today)
		}
		if today.Location() != time.Local {
			t.Errorf("today boundary not in local time: %v", today.Location())
		}
	})

	t.Run("propagates a store error", func(t *testing.T) {
		users := newMemUserRepo()
		storeErr := errors.New("boom")
		users.CountSeenSinceFunc = func(ctx context.Context, since time.Time) (int, error) {
			return 0, storeErr
		}
		uc := NewStatsUseCase(users, newMemClickRepo(), logger)
		if _, err := uc.Summary(ctx); !errors.Is(err, storeErr) {
			t.Fatalf("expected store error, got %v", err)
		}
	})
}
