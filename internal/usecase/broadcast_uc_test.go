//go:build !integration

package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"telegram-wallpaper-bot/internal/domain/model"
)

func TestBroadcastUseCase_Broadcast(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()

	t.Run("failed recipient is tallied and later ones still receive", func(t *testing.T) {
		users := newMemUserRepo()
		for _, id := range []int64{1, 2, 3} {
			users.put(&model.User{TelegramID: id, FirstSeenAt: time.Now()})
		}
		bot := newMockBot()
		bot.SendErrFor = map[int64]error{2: errors.New("blocked by user")}

		uc := NewBroadcastUseCase(users, bot, 0, logger)
		report, err := uc.Broadcast(ctx, "hello")
		if err != nil {
			t.Fatalf("Broadcast failed: %v", err)
		}

		if report.Total != 3 || report.Sent != 2 || report.Failed != 1 {
			t.Errorf("report = %+v, want Total=3 Sent=2 Failed=1", report)
		}
		sent := bot.sentTo()
		if len(sent) != 2 {
			t.Fatalf("expected 2 deliveries, got %d", len(sent))
		}
		if sent[0].TgID != 1 || sent[1].TgID != 3 {
			t.Errorf("delivered to %d and %d, want 1 and 3", sent[0].TgID, sent[1].TgID)
		}
		for _, m := range sent {
			if m.Text != "hello" {
				t.Errorf("delivered text %q, want hello", m.Text)
			}
		}
	})

	t.Run("listing recipients fails", func(t *testing.T) {
		users := newMemUserRepo()
		listErr := errors.New("db down")
		users.ListTelegramIDsFunc = func(ctx context.Context) ([]int64, error) {
			return nil, listErr
		}

		uc := NewBroadcastUseCase(users, newMockBot(), 0, logger)
		if _, err := uc.Broadcast(ctx, "hello"); !errors.Is(err, listErr) {
			t.Fatalf("expected list error, got %v", err)
		}
	})

	t.Run("cancelled context aborts between sends", func(t *testing.T) {
		users := newMemUserRepo()
		for _, id := range []int64{1, 2, 3} {
			users.put(&model.User{TelegramID: id, FirstSeenAt: time.Now()})
		}
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		uc := NewBroadcastUseCase(users, newMockBot(), 50*time.Millisecond, logger)
		report, err := uc.Broadcast(cctx, "hello")
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if report.Sent != 1 {
			t.Errorf("Sent = %d, want 1 (only the first recipient before the delay)", report.Sent)
		}
	})

	t.Run("empty recipient list", func(t *testing.T) {
		uc := NewBroadcastUseCase(newMemUserRepo(), newMockBot(), 0, logger)
		report, err := uc.Broadcast(ctx, "hello")
		if err != nil {
			t.Fatalf("Broadcast failed: %v", err)
		}
		if report.Total != 0 || report.Sent != 0 || report.Failed != 0 {
			t.Errorf("report = %+v, want all zero", report)
		}
	})
}
