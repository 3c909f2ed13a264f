package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
)

// wrapErr annotates a store error with the Postgres error code when one is
// available, so swallowed tracking failures remain diagnosable from logs.
func wrapErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("%s: %w (sqlstate %s)", op, err, pgErr.Code)
	}
	return fmt.Errorf("%s: %w", op, err)
}
