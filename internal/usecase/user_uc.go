package usecase

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"telegram-wallpaper-bot/internal/domain"
	"telegram-wallpaper-bot/internal/domain/model"
	"telegram-wallpaper-bot/internal/domain/ports/repository"
	"telegram-wallpaper-bot/internal/infra/logging"
)

const defaultRecentUsersLimit = 10

// Compile-time check
var _ UserUseCase = (*userUC)(nil)

// UserUseCase exposes the admin-facing user queries.
type UserUseCase interface {
	RecentUsers(ctx context.Context, limit int) ([]*model.User, error)
	Lookup(ctx context.Context, query string) (*model.UserInfo, error)
}

type userUC struct {
	users  repository.UserRepository
	clicks repository.LinkClickRepository
	log    *zerolog.Logger
}

func NewUserUseCase(users repository.UserRepository, clicks repository.LinkClickRepository, logger *zerolog.Logger) *userUC {
	return &userUC{users: users, clicks: clicks, log: logger}
}

func (u *userUC) RecentUsers(ctx context.Context, limit int) ([]*model.User, error) {
	defer logging.TraceDuration(u.log, "UserUC.RecentUsers")()

	if limit <= 0 {
		limit = defaultRecentUsersLimit
	}
	return u.users.ListRecent(ctx, limit)
}

// Lookup resolves "@username" by username and anything else as a numeric
// Telegram id. A non-numeric id yields domain.ErrInvalidArgument, a missing
// user domain.ErrNotFound.
func (u *userUC) Lookup(ctx context.Context, query string) (*model.UserInfo, error) {
	defer logging.TraceDuration(u.log, "UserUC.Lookup")()

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrInvalidArgument
	}

	var (
		usr *model.User
		err error
	)
	if strings.HasPrefix(query, "@") {
		usr, err = u.users.FindByUsername(ctx, strings.TrimPrefix(query, "@"))
	} else {
		id, perr := strconv.ParseInt(query, 10, 64)
		if perr != nil {
			return nil, domain.ErrInvalidArgument
		}
		usr, err = u.users.FindByTelegramID(ctx, id)
	}
	if err != nil {
		return nil, err
	}

	clicks, err := u.clicks.CountByTelegramID(ctx, usr.TelegramID)
	if err != nil {
		// The profile is still useful without the derived count.
		u.log.Warn().Err(err).Int64("tg_id", usr.TelegramID).Msg("failed to count link clicks for user")
		clicks = 0
	}
	return &model.UserInfo{User: usr, LinkClicks: clicks}, nil
}
