package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// UniqueViolationCode is the Postgres error code for unique constraint violations.
const UniqueViolationCode = "23505"

// AsPgError extracts a *pgconn.PgError from err, if present.
func AsPgError(err error) (*pgconn.PgError, bool) {
	var pe *pgconn.PgError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
