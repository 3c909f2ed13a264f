package telegram

import (
	"context"
	"errors"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-wallpaper-bot/internal/domain"
	"telegram-wallpaper-bot/internal/domain/model"
	"telegram-wallpaper-bot/internal/domain/ports/adapter"
	"telegram-wallpaper-bot/internal/infra/metrics"
)

type commandHandler func(ctx context.Context, message *tgbotapi.Message, p model.Profile) error

// commandRoutes defines all available bot commands and their handlers. The
// command name is parsed once from the message; dispatch is a plain map
// lookup, so exactly one handler runs per message.
func (r *RealTelegramBotAdapter) commandRoutes() map[string]commandHandler {
	return map[string]commandHandler{
		"start": r.handleStartCommand,

		// Admin-gated handlers. adminhelp aborts silently on a miss; the
		// rest tell the caller off.
		"stats":       r.adminOnly(r.handleStatsCommand),
		"toplinks":    r.adminOnly(r.handleTopLinksCommand),
		"recentusers": r.adminOnly(r.handleRecentUsersCommand),
		"userinfo":    r.adminOnly(r.handleUserInfoCommand),
		"broadcast":   r.adminOnly(r.handleBroadcastCommand),
		"adminhelp":   r.adminOnlySilent(r.handleAdminHelpCommand),
	}
}

// isAdmin reports whether the sender may run privileged commands. With no
// admin ids configured everyone passes; that open default is preserved on
// purpose and warned about at startup.
func (r *RealTelegramBotAdapter) isAdmin(tgID int64) bool {
	if len(r.adminIDsMap) == 0 {
		return true
	}
	_, ok := r.adminIDsMap[tgID]
	return ok
}

func (r *RealTelegramBotAdapter) adminOnly(next commandHandler) commandHandler {
	return func(ctx context.Context, message *tgbotapi.Message, p model.Profile) error {
		if !r.isAdmin(message.From.ID) {
			metrics.IncAdminCommand("/"+message.Command(), "unauthorized")
			return r.SendMessage(ctx, message.Chat.ID, "Unauthorized.")
		}
		metrics.IncAdminCommand("/"+message.Command(), "authorized")
		return next(ctx, message, p)
	}
}

func (r *RealTelegramBotAdapter) adminOnlySilent(next commandHandler) commandHandler {
	return func(ctx context.Context, message *tgbotapi.Message, p model.Profile) error {
		if !r.isAdmin(message.From.ID) {
			metrics.IncAdminCommand("/"+message.Command(), "unauthorized")
			return nil
		}
		metrics.IncAdminCommand("/"+message.Command(), "authorized")
		return next(ctx, message, p)
	}
}

// handleStartCommand greets the user, records the interaction and, when a
// deep-link parameter is present, the click event.
func (r *RealTelegramBotAdapter) handleStartCommand(ctx context.Context, message *tgbotapi.Message, p model.Profile) error {
	wallpaperID := strings.TrimSpace(message.CommandArguments())
	text := r.facade.HandleStart(ctx, p, wallpaperID)

	rows := r.startKeyboard(wallpaperID)
	if len(rows) == 0 {
		return r.SendMessage(ctx, message.Chat.ID, text)
	}
	return r.SendButtons(ctx, message.Chat.ID, text, rows)
}

// startKeyboard builds the welcome keyboard: a channel-join button always,
// plus a wallpaper-view button when the user arrived via a deep link.
func (r *RealTelegramBotAdapter) startKeyboard(wallpaperID string) [][]adapter.InlineButton {
	channel := strings.TrimRight(r.cfg.ChannelURL, "/")
	if channel == "" {
		return nil
	}
	rows := [][]adapter.InlineButton{
		{{Text: "📣 Join the channel", URL: channel}},
	}
	if wallpaperID != "" {
		rows = append(rows, []adapter.InlineButton{
			{Text: "🖼 View wallpaper", URL: channel + "/" + wallpaperID},
		})
	}
	return rows
}

func (r *RealTelegramBotAdapter) handleStatsCommand(ctx context.Context, message *tgbotapi.Message, _ model.Profile) error {
	text, err := r.facade.HandleStats(ctx)
	if err != nil {
		r.log.Error().Err(err).Msg("failed to load stats")
		return r.SendMessage(ctx, message.Chat.ID, "Failed to load stats.")
	}
	return r.SendMessage(ctx, message.Chat.ID, text)
}

// parseLimitArg reads the optional numeric argument of /toplinks and
// /recentusers. The argument, when present, must be a positive integer:
// zero, negatives and non-numbers all yield ok=false and a usage reply.
func parseLimitArg(args string) (limit int, ok bool) {
	args = strings.TrimSpace(args)
	if args == "" {
		return 0, true
	}
	n, err := strconv.Atoi(strings.Fields(args)[0])
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func (r *RealTelegramBotAdapter) handleTopLinksCommand(ctx context.Context, message *tgbotapi.Message, _ model.Profile) error {
	limit, ok := parseLimitArg(message.CommandArguments())
	if !ok {
		return r.SendMessage(ctx, message.Chat.ID, "Usage: /toplinks [limit], limit must be a positive number.")
	}
	text, err := r.facade.HandleTopLinks(ctx, limit)
	if err != nil {
		r.log.Error().Err(err).Msg("failed to load top links")
		return r.SendMessage(ctx, message.Chat.ID, "Failed to load top links.")
	}
	return r.SendMessage(ctx, message.Chat.ID, text)
}

func (r *RealTelegramBotAdapter) handleRecentUsersCommand(ctx context.Context, message *tgbotapi.Message, _ model.Profile) error {
	limit, ok := parseLimitArg(message.CommandArguments())
	if !ok {
		return r.SendMessage(ctx, message.Chat.ID, "Usage: /recentusers [limit], limit must be a positive number.")
	}
	text, err := r.facade.HandleRecentUsers(ctx, limit)
	if err != nil {
		r.log.Error().Err(err).Msg("failed to load recent users")
		return r.SendMessage(ctx, message.Chat.ID, "Failed to load recent users.")
	}
	return r.SendMessage(ctx, message.Chat.ID, text)
}

func (r *RealTelegramBotAdapter) handleUserInfoCommand(ctx context.Context, message *tgbotapi.Message, _ model.Profile) error {
	query := strings.TrimSpace(message.CommandArguments())
	if query == "" {
		return r.SendMessage(ctx, message.Chat.ID, "Usage: /userinfo <id> or /userinfo @username")
	}

	text, err := r.facade.HandleUserInfo(ctx, query)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument):
			return r.SendMessage(ctx, message.Chat.ID, "That doesn't look like a user id. Use /userinfo <id> or /userinfo @username.")
		case errors.Is(err, domain.ErrNotFound):
			return r.SendMessage(ctx, message.Chat.ID, "User not found.")
		default:
			r.log.Error().Err(err).Str("query", query).Msg("failed to look up user")
			return r.SendMessage(ctx, message.Chat.ID, "Failed to look up user.")
		}
	}
	return r.SendMessage(ctx, message.Chat.ID, text)
}

func (r *RealTelegramBotAdapter) handleBroadcastCommand(ctx context.Context, message *tgbotapi.Message, _ model.Profile) error {
	text := strings.TrimSpace(message.CommandArguments())
	if text == "" {
		return r.SendMessage(ctx, message.Chat.ID, "Usage: /broadcast <text>")
	}

	// A long recipient list outlives the webhook processing deadline.
	// Detach it (keeping the log fields) so the run and the final tally
	// are never cut off mid-send.
	ctx = context.WithoutCancel(ctx)

	// The run is sequential and throttled, so tell the invoker it started.
	_ = r.SendMessage(ctx, message.Chat.ID, "📢 Broadcast started…")

	report, err := r.facade.HandleBroadcast(ctx, text)
	if err != nil {
		r.log.Error().Err(err).Msg("broadcast failed")
		return r.SendMessage(ctx, message.Chat.ID, "Broadcast failed.")
	}
	return r.SendMessage(ctx, message.Chat.ID, report)
}

func (r *RealTelegramBotAdapter) handleAdminHelpCommand(ctx context.Context, message *tgbotapi.Message, _ model.Profile) error {
	return r.SendMessage(ctx, message.Chat.ID, r.facade.AdminHelp())
}
