package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"telegram-wallpaper-bot/internal/domain/model"
	"telegram-wallpaper-bot/internal/domain/ports/repository"
	"telegram-wallpaper-bot/internal/infra/logging"
)

// Compile-time check
var _ StatsUseCase = (*statsUC)(nil)

type StatsUseCase interface {
	Summary(ctx context.Context) (model.StatsSummary, error)
}

type statsUC struct {
	users  repository.UserRepository
	clicks repository.LinkClickRepository
	log    *zerolog.Logger
}

func NewStatsUseCase(users repository.UserRepository, clicks repository.LinkClickRepository, logger *zerolog.Logger) *statsUC {
	return &statsUC{users: users, clicks: clicks, log: logger}
}

// Summary counts users bucketed by first-seen windows. "Today" starts at
// local midnight: a user first seen exactly at midnight counts, one from
// 23:59 the previous day does not.
func (s *statsUC) Summary(ctx context.Context) (model.StatsSummary, error) {
	defer logging.TraceDuration(s.log, "StatsUC.Summary")()

	var out model.StatsSummary

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var err error
	if out.TotalUsers, err = s.users.CountUsers(ctx); err != nil {
		return out, err
	}
	if out.UsersToday, err = s.users.CountSeenSince(ctx, midnight); err != nil {
		return out, err
	}
	if out.Users7Days, err = s.users.CountSeenSince(ctx, now.AddDate(0, 0, -7)); err != nil {
		return out, err
	}
	if out.Users30Days, err = s.users.CountSeenSince(ctx, now.AddDate(0, 0, -30)); err != nil {
		return out, err
	}
	if out.PremiumUsers, err = s.users.CountPremium(ctx); err != nil {
		return out, err
	}
	if out.TotalClicks, err = s.clicks.CountAll(ctx); err != nil {
		return out, err
	}
	return out, nil
}
