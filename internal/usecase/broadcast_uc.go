package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"telegram-wallpaper-bot/internal/domain/model"
	"telegram-wallpaper-bot/internal/domain/ports/adapter"
	"telegram-wallpaper-bot/internal/domain/ports/repository"
	"telegram-wallpaper-bot/internal/infra/metrics"
)

// Compile-time check
var _ BroadcastUseCase = (*broadcastUC)(nil)

type BroadcastUseCase interface {
	Broadcast(ctx context.Context, message string) (model.BroadcastReport, error)
}

type broadcastUC struct {
	users repository.UserRepository
	bot   adapter.TelegramBotAdapter
	delay time.Duration
	log   *zerolog.Logger
}

func NewBroadcastUseCase(users repository.UserRepository, bot adapter.TelegramBotAdapter, delay time.Duration, logger *zerolog.Logger) *broadcastUC {
	return &broadcastUC{users: users, bot: bot, delay: delay, log: logger}
}

// Broadcast sends message to every known user, one at a time with a fixed
// delay between sends to stay under Telegram's rate limits. A failed send is
// tallied and the run continues; only a failure to list recipients or a
// cancelled context aborts the run.
func (uc *broadcastUC) Broadcast(ctx context.Context, message string) (model.BroadcastReport, error) {
	ids, err := uc.users.ListTelegramIDs(ctx)
	if err != nil {
		uc.log.Error().Err(err).Msg("failed to list broadcast recipients")
		return model.BroadcastReport{}, err
	}

	report := model.BroadcastReport{Total: len(ids)}
	uc.log.Info().Int("recipients", report.Total).Msg("starting broadcast")

	for i, id := range ids {
		if i > 0 {
			select {
			case <-ctx.Done():
				return report, ctx.Err()
			case <-time.After(uc.delay):
			}
		}

		if err := uc.bot.SendMessage(ctx, id, message); err != nil {
			report.Failed++
			metrics.IncBroadcastSend(false)
			uc.log.Warn().Err(err).Int64("tg_id", id).Msg("broadcast send failed")
			continue
		}
		report.Sent++
		metrics.IncBroadcastSend(true)
	}

	uc.log.Info().Int("sent", report.Sent).Int("failed", report.Failed).Msg("broadcast finished")
	return report, nil
}
