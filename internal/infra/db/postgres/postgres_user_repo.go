package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-wallpaper-bot/internal/domain"
	"telegram-wallpaper-bot/internal/domain/model"
	"telegram-wallpaper-bot/internal/domain/ports/repository"
)

var _ repository.UserRepository = (*PostgresUserRepo)(nil)

type PostgresUserRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresUserRepo(pool *pgxpool.Pool) *PostgresUserRepo {
	return &PostgresUserRepo{pool: pool}
}

const userColumns = `telegram_id, username, first_name, last_name, language_code,
       is_bot, is_premium, first_seen_at, last_active_at, interactions, wallpapers_viewed`

// Upsert is a single statement so concurrent interactions from the same user
// cannot lose counter increments: the increment and the set-append both
// happen inside the ON CONFLICT update.
func (r *PostgresUserRepo) Upsert(ctx context.Context, p model.Profile, wallpaperID string) (*model.User, error) {
	const q = `
INSERT INTO users (
  telegram_id, username, first_name, last_name, language_code, is_bot, is_premium,
  first_seen_at, last_active_at, interactions, wallpapers_viewed
) VALUES (
  $1,$2,$3,$4,$5,$6,$7, now(), now(), 1,
  CASE WHEN $8 = '' THEN '{}'::text[] ELSE ARRAY[$8::text] END
) ON CONFLICT (telegram_id) DO UPDATE SET
  username=EXCLUDED.username,
  first_name=EXCLUDED.first_name,
  last_name=EXCLUDED.last_name,
  language_code=EXCLUDED.language_code,
  is_bot=EXCLUDED.is_bot,
  is_premium=EXCLUDED.is_premium,
  last_active_at=now(),
  interactions=users.interactions + 1,
  wallpapers_viewed=CASE
    WHEN $8 = '' OR $8 = ANY(users.wallpapers_viewed) THEN users.wallpapers_viewed
    ELSE array_append(users.wallpapers_viewed, $8::text)
  END
RETURNING ` + userColumns + `;`

	row := r.pool.QueryRow(ctx, q,
		p.TelegramID, p.Username, p.FirstName, p.LastName, p.LanguageCode, p.IsBot, p.IsPremium,
		wallpaperID,
	)
	u, err := scanUser(row)
	if err != nil {
		return nil, wrapErr("upsert user", err)
	}
	return u, nil
}

func (r *PostgresUserRepo) FindByTelegramID(ctx context.Context, tgID int64) (*model.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE telegram_id=$1;`, tgID)
	u, err := scanUser(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, wrapErr("find user by telegram id", err)
	}
	return u, nil
}

func (r *PostgresUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username=$1 ORDER BY last_active_at DESC LIMIT 1;`, username)
	u, err := scanUser(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, wrapErr("find user by username", err)
	}
	return u, nil
}

func (r *PostgresUserRepo) ListRecent(ctx context.Context, limit int) ([]*model.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY first_seen_at DESC LIMIT $1;`, limit)
	if err != nil {
		return nil, wrapErr("list recent users", err)
	}
	defer rows.Close()

	var out []*model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, wrapErr("scan recent user", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *PostgresUserRepo) ListTelegramIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT telegram_id FROM users ORDER BY telegram_id;`)
	if err != nil {
		return nil, wrapErr("list telegram ids", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, wrapErr("scan telegram id", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *PostgresUserRepo) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users;`).Scan(&n); err != nil {
		return 0, wrapErr("count users", err)
	}
	return n, nil
}

func (r *PostgresUserRepo) CountSeenSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE first_seen_at >= $1;`, since).Scan(&n); err != nil {
		return 0, wrapErr("count users since", err)
	}
	return n, nil
}

func (r *PostgresUserRepo) CountPremium(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE is_premium;`).Scan(&n); err != nil {
		return 0, wrapErr("count premium users", err)
	}
	return n, nil
}

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	if err := row.Scan(
		&u.TelegramID, &u.Username, &u.FirstName, &u.LastName, &u.LanguageCode,
		&u.IsBot, &u.IsPremium, &u.FirstSeenAt, &u.LastActiveAt, &u.Interactions, &u.WallpapersViewed,
	); err != nil {
		return nil, err
	}
	return &u, nil
}
