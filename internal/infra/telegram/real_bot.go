package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegram-wallpaper-bot/internal/application"
	"telegram-wallpaper-bot/internal/config"
	"telegram-wallpaper-bot/internal/domain/model"
	"telegram-wallpaper-bot/internal/domain/ports/adapter"
	"telegram-wallpaper-bot/internal/infra/logging"
	"telegram-wallpaper-bot/internal/infra/metrics"
	red "telegram-wallpaper-bot/internal/infra/redis"
)

// botAPI is the slice of tgbotapi.BotAPI the adapter actually uses.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

var _ botAPI = (*tgbotapi.BotAPI)(nil)

// RealTelegramBotAdapter wraps tgbotapi: it receives updates (webhook body
// or polling), dispatches commands to the facade, and sends replies.
type RealTelegramBotAdapter struct {
	bot         botAPI
	self        tgbotapi.User
	cfg         *config.BotConfig
	facade      *application.BotFacade
	rateLimiter *red.RateLimiter
	log         *zerolog.Logger

	adminIDsMap   map[int64]struct{}
	updateWorkers int
	cancelPolling context.CancelFunc
}

func NewRealTelegramBotAdapter(cfg *config.BotConfig, facade *application.BotFacade, rateLimiter *red.RateLimiter, logger *zerolog.Logger, updateWorkers int) (*RealTelegramBotAdapter, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	if facade == nil {
		return nil, errors.New("bot facade is nil")
	}
	if updateWorkers <= 0 {
		updateWorkers = 5
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}

	adminMap := map[int64]struct{}{}
	for _, id := range cfg.AdminIDs {
		adminMap[id] = struct{}{}
	}

	return &RealTelegramBotAdapter{
		bot:           bot,
		self:          bot.Self,
		cfg:           cfg,
		facade:        facade,
		rateLimiter:   rateLimiter,
		log:           logger,
		adminIDsMap:   adminMap,
		updateWorkers: updateWorkers,
	}, nil
}

// Username reports the account name tgbotapi resolved during auth.
func (r *RealTelegramBotAdapter) Username() string {
	if r.self.UserName != "" {
		return r.self.UserName
	}
	return r.cfg.Username
}

// WebhookPath is the inbound route suffixed with the bot token, so only the
// gateway (which knows the token) can hit it with plausible payloads.
func (r *RealTelegramBotAdapter) WebhookPath() string {
	return "/webhook/" + r.cfg.Token
}

// RegisterWebhook points Telegram at baseURL+WebhookPath.
func (r *RealTelegramBotAdapter) RegisterWebhook(baseURL string) error {
	u := strings.TrimRight(baseURL, "/") + r.WebhookPath()
	wh, err := tgbotapi.NewWebhook(u)
	if err != nil {
		return fmt.Errorf("build webhook config: %w", err)
	}
	if _, err := r.bot.Request(wh); err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}
	return nil
}

// premiumProbe pulls message.from.is_premium out of the raw payload; the
// pinned library version predates that Bot API field.
type premiumProbe struct {
	Message struct {
		From struct {
			IsPremium bool `json:"is_premium"`
		} `json:"from"`
	} `json:"message"`
}

// ProcessWebhookBody decodes one webhook POST body and handles the update.
// Decode errors are returned so the front door can count them, but the HTTP
// acknowledgment never depends on the outcome.
func (r *RealTelegramBotAdapter) ProcessWebhookBody(ctx context.Context, body []byte) error {
	var update tgbotapi.Update
	if err := json.Unmarshal(body, &update); err != nil {
		return fmt.Errorf("decode update: %w", err)
	}
	var probe premiumProbe
	_ = json.Unmarshal(body, &probe)

	return r.handleUpdate(ctx, update, probe.Message.From.IsPremium)
}

// StartPolling is the dev-mode receive path when no public URL is available.
func (r *RealTelegramBotAdapter) StartPolling(ctx context.Context) error {
	// A leftover webhook blocks getUpdates.
	if _, err := r.bot.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		r.log.Warn().Err(err).Msg("failed to delete webhook before polling")
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := r.bot.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	r.cancelPolling = cancel

	var wg sync.WaitGroup
	updateChan := make(chan tgbotapi.Update, 100)

	for i := 0; i < r.updateWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case up := <-updateChan:
					if err := r.handleUpdate(ctx, up, false); err != nil {
						r.log.Error().Err(err).Int("worker", id).Msg("update handling failed")
					}
				}
			}
		}(i)
	}

	for {
		select {
		case <-ctx.Done():
			r.bot.StopReceivingUpdates()
			wg.Wait()
			return ctx.Err()
		case up := <-updates:
			updateChan <- up
		}
	}
}

func (r *RealTelegramBotAdapter) StopPolling() {
	if r.cancelPolling != nil {
		r.cancelPolling()
	}
}

// SendMessage implements the adapter port.
func (r *RealTelegramBotAdapter) SendMessage(ctx context.Context, tgID int64, text string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	msg := tgbotapi.NewMessage(tgID, text)
	if _, err := r.bot.Send(msg); err != nil {
		metrics.IncSendError()
		return err
	}
	return nil
}

// SendButtons sends a message with inline buttons.
// - If btn.URL is set, the button opens a link
// - Else if btn.Data is set, the button sends callback data
// - Else a safe fallback uses btn.Text as callback data
func (r *RealTelegramBotAdapter) SendButtons(ctx context.Context, tgID int64, text string, rows [][]adapter.InlineButton) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	kbRows := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		kbRow := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			label := strings.TrimSpace(btn.Text)
			if label == "" {
				label = "•"
			}
			var kb tgbotapi.InlineKeyboardButton
			switch {
			case btn.URL != "":
				kb = tgbotapi.NewInlineKeyboardButtonURL(label, btn.URL)
			case btn.Data != "":
				kb = tgbotapi.NewInlineKeyboardButtonData(label, btn.Data)
			default:
				kb = tgbotapi.NewInlineKeyboardButtonData(label, label)
			}
			kbRow = append(kbRow, kb)
		}
		kbRows = append(kbRows, kbRow)
	}

	msg := tgbotapi.NewMessage(tgID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(kbRows...)
	if _, err := r.bot.Send(msg); err != nil {
		metrics.IncSendError()
		return err
	}
	return nil
}

func (r *RealTelegramBotAdapter) handleUpdate(ctx context.Context, update tgbotapi.Update, isPremium bool) error {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return nil
	}

	ctx = logging.WithTgID(ctx, msg.From.ID)

	profile := model.Profile{
		TelegramID:   msg.From.ID,
		Username:     msg.From.UserName,
		FirstName:    msg.From.FirstName,
		LastName:     msg.From.LastName,
		LanguageCode: msg.From.LanguageCode,
		IsBot:        msg.From.IsBot,
		IsPremium:    isPremium,
	}

	command := msg.Command()
	label := command
	if label == "" {
		label = "message"
	}
	metrics.IncTelegramCommand(label)

	if r.rateLimiter != nil {
		allowed, err := r.rateLimiter.Allow(ctx, red.UserCommandKey(msg.From.ID, label), 20, time.Minute)
		if err != nil {
			r.log.Warn().Err(err).Msg("rate limiter unavailable")
		} else if !allowed {
			metrics.IncRateLimitTriggered()
			return r.SendMessage(ctx, msg.Chat.ID, "Slow down a little and try again in a minute.")
		}
	}

	// Every interaction updates the user record. /start does its own
	// tracking so the deep-link parameter lands in the same write.
	if command != "start" {
		if _, err := r.facade.TrackerUC.RecordInteraction(ctx, profile, ""); err != nil {
			metrics.IncTrackingFailure("interaction")
			logging.With(ctx, r.log).Error().Err(err).Msg("failed to record interaction")
		}
	}

	if command == "" {
		// Plain text: nothing to do beyond tracking.
		return nil
	}

	handler, ok := r.commandRoutes()[command]
	if !ok {
		return nil
	}
	return handler(ctx, msg, profile)
}
