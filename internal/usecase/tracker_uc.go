package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"telegram-wallpaper-bot/internal/domain"
	"telegram-wallpaper-bot/internal/domain/model"
	"telegram-wallpaper-bot/internal/domain/ports/repository"
	"telegram-wallpaper-bot/internal/infra/logging"
	"telegram-wallpaper-bot/internal/infra/metrics"
)

// Compile-time check
var _ TrackerUseCase = (*trackerUC)(nil)

// TrackerUseCase records user interactions and deep-link clicks. Both
// operations return real errors; callers decide whether a failure is fatal
// (the bot handlers treat tracking as best-effort and only log).
type TrackerUseCase interface {
	RecordInteraction(ctx context.Context, p model.Profile, wallpaperID string) (*model.User, error)
	RecordLinkClick(ctx context.Context, tgID int64, username, wallpaperID string) (*model.LinkClick, error)
}

type trackerUC struct {
	users  repository.UserRepository
	clicks repository.LinkClickRepository
	log    *zerolog.Logger
}

func NewTrackerUseCase(users repository.UserRepository, clicks repository.LinkClickRepository, logger *zerolog.Logger) *trackerUC {
	return &trackerUC{users: users, clicks: clicks, log: logger}
}

func (t *trackerUC) RecordInteraction(ctx context.Context, p model.Profile, wallpaperID string) (*model.User, error) {
	defer logging.TraceDuration(t.log, "TrackerUC.RecordInteraction")()

	if p.TelegramID <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	u, err := t.users.Upsert(ctx, p, wallpaperID)
	if err != nil {
		return nil, err
	}
	metrics.IncUserTracked(u.Interactions == 1)
	return u, nil
}

func (t *trackerUC) RecordLinkClick(ctx context.Context, tgID int64, username, wallpaperID string) (*model.LinkClick, error) {
	defer logging.TraceDuration(t.log, "TrackerUC.RecordLinkClick")()

	c, err := model.NewLinkClick(tgID, username, wallpaperID)
	if err != nil {
		return nil, err
	}
	if err := t.clicks.Insert(ctx, c); err != nil {
		return nil, err
	}
	metrics.IncLinkClickRecorded()
	return c, nil
}
