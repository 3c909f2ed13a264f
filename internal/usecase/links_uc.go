package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"telegram-wallpaper-bot/internal/domain/model"
	"telegram-wallpaper-bot/internal/domain/ports/repository"
	"telegram-wallpaper-bot/internal/infra/logging"
)

const defaultTopLinksLimit = 10

// Compile-time check
var _ LinksUseCase = (*linksUC)(nil)

type LinksUseCase interface {
	TopLinks(ctx context.Context, limit int) ([]model.WallpaperClicks, error)
}

type linksUC struct {
	clicks repository.LinkClickRepository
	log    *zerolog.Logger
}

func NewLinksUseCase(clicks repository.LinkClickRepository, logger *zerolog.Logger) *linksUC {
	return &linksUC{clicks: clicks, log: logger}
}

// TopLinks returns at most limit wallpapers ordered by click count. The
// aggregation itself is pushed down to the store.
func (l *linksUC) TopLinks(ctx context.Context, limit int) ([]model.WallpaperClicks, error) {
	defer logging.TraceDuration(l.log, "LinksUC.TopLinks")()

	if limit <= 0 {
		limit = defaultTopLinksLimit
	}
	return l.clicks.TopWallpapers(ctx, limit)
}
