package repository

import (
	"context"
	"time"

	"telegram-wallpaper-bot/internal/domain/model"
)

// -----------------------------
// Users
// -----------------------------

type UserRepository interface {
	// Upsert creates the user on first interaction or refreshes the profile
	// snapshot on later ones. The implementation must increment the
	// interaction counter atomically and append wallpaperID to the viewed
	// set only if absent; wallpaperID may be empty. Returns the row as it
	// exists after the write.
	Upsert(ctx context.Context, p model.Profile, wallpaperID string) (*model.User, error)

	FindByTelegramID(ctx context.Context, tgID int64) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	ListRecent(ctx context.Context, limit int) ([]*model.User, error)
	ListTelegramIDs(ctx context.Context) ([]int64, error)

	CountUsers(ctx context.Context) (int, error)
	CountSeenSince(ctx context.Context, since time.Time) (int, error)
	CountPremium(ctx context.Context) (int, error)
}
