package service

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error code for unique constraint violations.
const uniqueViolationCode = "23505"

// isUniqueViolation reports whether err is a Postgres unique-violation.
// Duplicate inserts that slip past a service-level existence check are
// caught here off the storage constraint.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
