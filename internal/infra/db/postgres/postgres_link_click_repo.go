package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-wallpaper-bot/internal/domain/model"
	"telegram-wallpaper-bot/internal/domain/ports/repository"
)

var _ repository.LinkClickRepository = (*PostgresLinkClickRepo)(nil)

type PostgresLinkClickRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresLinkClickRepo(pool *pgxpool.Pool) *PostgresLinkClickRepo {
	return &PostgresLinkClickRepo{pool: pool}
}

func (r *PostgresLinkClickRepo) Insert(ctx context.Context, c *model.LinkClick) error {
	const q = `
INSERT INTO link_clicks (id, wallpaper_id, telegram_id, username, clicked_at)
VALUES ($1,$2,$3,$4,$5);`
	if _, err := r.pool.Exec(ctx, q, c.ID, c.WallpaperID, c.TelegramID, c.Username, c.ClickedAt); err != nil {
		return wrapErr("insert link click", err)
	}
	return nil
}

func (r *PostgresLinkClickRepo) CountAll(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM link_clicks;`).Scan(&n); err != nil {
		return 0, wrapErr("count link clicks", err)
	}
	return n, nil
}

func (r *PostgresLinkClickRepo) CountByTelegramID(ctx context.Context, tgID int64) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM link_clicks WHERE telegram_id=$1;`, tgID).Scan(&n); err != nil {
		return 0, wrapErr("count link clicks by user", err)
	}
	return n, nil
}

// TopWallpapers pushes the group/sort/limit down to Postgres. Ties on the
// click count come back in wallpaper-id order so results are deterministic.
func (r *PostgresLinkClickRepo) TopWallpapers(ctx context.Context, limit int) ([]model.WallpaperClicks, error) {
	const q = `
SELECT wallpaper_id, COUNT(*) AS clicks
  FROM link_clicks
 GROUP BY wallpaper_id
 ORDER BY clicks DESC, wallpaper_id ASC
 LIMIT $1;`
	rows, err := r.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, wrapErr("top wallpapers", err)
	}
	defer rows.Close()

	var out []model.WallpaperClicks
	for rows.Next() {
		var wc model.WallpaperClicks
		if err := rows.Scan(&wc.WallpaperID, &wc.Clicks); err != nil {
			return nil, wrapErr("scan top wallpapers", err)
		}
		out = append(out, wc)
	}
	return out, rows.Err()
}
