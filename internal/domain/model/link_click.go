package model

import (
	"time"

	"github.com/google/uuid"

	"telegram-wallpaper-bot/internal/domain"
)

// LinkClick is one deep-link arrival event. Records are append-only and
// never updated; the wallpaper id is an opaque caller-supplied string.
type LinkClick struct {
	ID          string
	WallpaperID string
	TelegramID  int64
	Username    string
	ClickedAt   time.Time
}

func NewLinkClick(tgID int64, username, wallpaperID string) (*LinkClick, error) {
	if tgID <= 0 || wallpaperID == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &LinkClick{
		ID:          uuid.NewString(),
		WallpaperID: wallpaperID,
		TelegramID:  tgID,
		Username:    username,
		ClickedAt:   time.Now(),
	}, nil
}

// WallpaperClicks is one row of the /toplinks aggregation.
type WallpaperClicks struct {
	WallpaperID string
	Clicks      int64
}
