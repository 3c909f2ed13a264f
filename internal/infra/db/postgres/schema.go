package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS users (
  telegram_id       BIGINT PRIMARY KEY,
  username          TEXT NOT NULL DEFAULT '',
  first_name        TEXT NOT NULL DEFAULT '',
  last_name         TEXT NOT NULL DEFAULT '',
  language_code     TEXT NOT NULL DEFAULT '',
  is_bot            BOOLEAN NOT NULL DEFAULT FALSE,
  is_premium        BOOLEAN NOT NULL DEFAULT FALSE,
  first_seen_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
  last_active_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  interactions      BIGINT NOT NULL DEFAULT 0,
  wallpapers_viewed TEXT[] NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS idx_users_first_seen ON users (first_seen_at DESC);
CREATE INDEX IF NOT EXISTS idx_users_username ON users (username);

CREATE TABLE IF NOT EXISTS link_clicks (
  id           UUID PRIMARY KEY,
  wallpaper_id TEXT NOT NULL,
  telegram_id  BIGINT NOT NULL,
  username     TEXT NOT NULL DEFAULT '',
  clicked_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_link_clicks_wallpaper ON link_clicks (wallpaper_id);
CREATE INDEX IF NOT EXISTS idx_link_clicks_user ON link_clicks (telegram_id);
`

// EnsureSchema creates the two tables if they do not exist yet. Idempotent.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
