package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"telegram-wallpaper-bot/internal/domain/model"
	"telegram-wallpaper-bot/internal/infra/metrics"
	"telegram-wallpaper-bot/internal/usecase"
)

// BotFacade composes usecases into high-level bot commands.
// Facade methods return strings so the Telegram adapter just forwards them
// to the chat.
type BotFacade struct {
	TrackerUC   usecase.TrackerUseCase
	StatsUC     usecase.StatsUseCase
	LinksUC     usecase.LinksUseCase
	UserUC      usecase.UserUseCase
	BroadcastUC usecase.BroadcastUseCase

	log *zerolog.Logger
}

func NewBotFacade(
	trackerUC usecase.TrackerUseCase,
	statsUC usecase.StatsUseCase,
	linksUC usecase.LinksUseCase,
	userUC usecase.UserUseCase,
	broadcastUC usecase.BroadcastUseCase,
	logger *zerolog.Logger,
) *BotFacade {
	return &BotFacade{
		TrackerUC:   trackerUC,
		StatsUC:     statsUC,
		LinksUC:     linksUC,
		UserUC:      userUC,
		BroadcastUC: broadcastUC,
		log:         logger,
	}
}

// HandleStart tracks the interaction (and the deep-link click when a
// wallpaper id came with /start) and returns the welcome text. Tracking is
// best-effort: a store failure is logged and counted but never surfaces to
// the user.
func (b *BotFacade) HandleStart(ctx context.Context, p model.Profile, wallpaperID string) string {
	if _, err := b.TrackerUC.RecordInteraction(ctx, p, wallpaperID); err != nil {
		metrics.IncTrackingFailure("interaction")
		b.log.Error().Err(err).Int64("tg_id", p.TelegramID).Msg("failed to record interaction")
	}
	if wallpaperID != "" {
		if _, err := b.TrackerUC.RecordLinkClick(ctx, p.TelegramID, p.Username, wallpaperID); err != nil {
			metrics.IncTrackingFailure("link_click")
			b.log.Error().Err(err).Int64("tg_id", p.TelegramID).Str("wallpaper_id", wallpaperID).Msg("failed to record link click")
		}
	}

	name := p.FirstName
	if name == "" {
		name = p.Username
	}
	if name == "" {
		name = "there"
	}
	if wallpaperID != "" {
		return fmt.Sprintf("Hi %s! 🖼\nHere is the wallpaper you picked. Join the channel for a fresh one every day!", name)
	}
	return fmt.Sprintf("Hi %s! 🖼\nI post hand-picked wallpapers every day. Join the channel and never miss one!", name)
}

// HandleStats renders the /stats overview.
func (b *BotFacade) HandleStats(ctx context.Context) (string, error) {
	s, err := b.StatsUC.Summary(ctx)
	if err != nil {
		return "", fmt.Errorf("stats summary: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("📊 Bot stats\n\n")
	sb.WriteString(fmt.Sprintf("Users total: %d\n", s.TotalUsers))
	sb.WriteString(fmt.Sprintf("New today: %d\n", s.UsersToday))
	sb.WriteString(fmt.Sprintf("New last 7 days: %d\n", s.Users7Days))
	sb.WriteString(fmt.Sprintf("New last 30 days: %d\n", s.Users30Days))
	sb.WriteString(fmt.Sprintf("Premium users: %d\n", s.PremiumUsers))
	sb.WriteString(fmt.Sprintf("Link clicks total: %d", s.TotalClicks))
	return sb.String(), nil
}

// HandleTopLinks renders the /toplinks table.
func (b *BotFacade) HandleTopLinks(ctx context.Context, limit int) (string, error) {
	rows, err := b.LinksUC.TopLinks(ctx, limit)
	if err != nil {
		return "", fmt.Errorf("top links: %w", err)
	}
	if len(rows) == 0 {
		return "No link clicks yet.", nil
	}

	var sb strings.Builder
	sb.WriteString("🔗 Top wallpapers by clicks\n\n")
	for i, r := range rows {
		sb.WriteString(fmt.Sprintf("%d. %s — %d\n", i+1, r.WallpaperID, r.Clicks))
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}

// HandleRecentUsers renders the /recentusers list.
func (b *BotFacade) HandleRecentUsers(ctx context.Context, limit int) (string, error) {
	users, err := b.UserUC.RecentUsers(ctx, limit)
	if err != nil {
		return "", fmt.Errorf("recent users: %w", err)
	}
	if len(users) == 0 {
		return "No users yet.", nil
	}

	var sb strings.Builder
	sb.WriteString("🆕 Recent users\n\n")
	for i, u := range users {
		sb.WriteString(fmt.Sprintf("%d. %s (id %d) — first seen %s\n",
			i+1, u.DisplayName(), u.TelegramID, u.FirstSeenAt.Format("2006-01-02 15:04")))
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}

// HandleUserInfo renders the full profile for one user. Argument errors and
// missing users come back as domain errors for the adapter to translate.
func (b *BotFacade) HandleUserInfo(ctx context.Context, query string) (string, error) {
	info, err := b.UserUC.Lookup(ctx, query)
	if err != nil {
		return "", err
	}
	u := info.User

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("👤 %s\n\n", u.DisplayName()))
	sb.WriteString(fmt.Sprintf("Telegram id: %d\n", u.TelegramID))
	if u.Username != "" {
		sb.WriteString(fmt.Sprintf("Username: @%s\n", u.Username))
	}
	if u.LanguageCode != "" {
		sb.WriteString(fmt.Sprintf("Language: %s\n", u.LanguageCode))
	}
	sb.WriteString(fmt.Sprintf("Bot: %t, Premium: %t\n", u.IsBot, u.IsPremium))
	sb.WriteString(fmt.Sprintf("First seen: %s\n", u.FirstSeenAt.Format("2006-01-02 15:04")))
	sb.WriteString(fmt.Sprintf("Last active: %s\n", u.LastActiveAt.Format("2006-01-02 15:04")))
	sb.WriteString(fmt.Sprintf("Interactions: %d\n", u.Interactions))
	sb.WriteString(fmt.Sprintf("Wallpapers viewed: %d\n", len(u.WallpapersViewed)))
	if len(u.WallpapersViewed) > 0 {
		sb.WriteString(fmt.Sprintf("  %s\n", strings.Join(u.WallpapersViewed, ", ")))
	}
	sb.WriteString(fmt.Sprintf("Link clicks: %d", info.LinkClicks))
	return sb.String(), nil
}

// HandleBroadcast runs the broadcast and renders the final tally.
func (b *BotFacade) HandleBroadcast(ctx context.Context, message string) (string, error) {
	report, err := b.BroadcastUC.Broadcast(ctx, message)
	if err != nil {
		return "", fmt.Errorf("broadcast: %w", err)
	}
	return fmt.Sprintf("📢 Broadcast finished.\nRecipients: %d\nSent: %d\nFailed: %d",
		report.Total, report.Sent, report.Failed), nil
}

// AdminHelp lists the admin commands.
func (b *BotFacade) AdminHelp() string {
	return strings.Join([]string{
		"🛠 Admin commands",
		"",
		"/stats — user and click totals",
		"/toplinks [limit] — most clicked wallpapers",
		"/recentusers [limit] — newest users",
		"/userinfo <id|@username> — full profile",
		"/broadcast <text> — message every user",
		"/adminhelp — this list",
	}, "\n")
}
