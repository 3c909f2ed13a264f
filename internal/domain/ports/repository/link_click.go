package repository

import (
	"context"

	"telegram-wallpaper-bot/internal/domain/model"
)

// -----------------------------
// Link clicks
// -----------------------------

type LinkClickRepository interface {
	// Insert appends one click event; the log is never updated or deleted.
	Insert(ctx context.Context, c *model.LinkClick) error

	CountAll(ctx context.Context) (int, error)
	CountByTelegramID(ctx context.Context, tgID int64) (int, error)

	// TopWallpapers groups clicks by wallpaper id and returns at most limit
	// rows ordered by click count descending.
	TopWallpapers(ctx context.Context, limit int) ([]model.WallpaperClicks, error)
}
