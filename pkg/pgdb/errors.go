package pgdb

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrConnectionFailed  = errors.New("pgdb: failed to open connection")
	ErrInvalidConfig     = errors.New("pgdb: failed to parse connection config")
	ErrHealthcheckFailed = errors.New("pgdb: healthcheck failed")
	ErrMigrationFailed   = errors.New("pgdb: failed to apply migrations")
	ErrMigrationsMissing = errors.New("pgdb: migrations directory not found")
)

// IsNotFound detects pgx.ErrNoRows for consistent not-found handling.
func IsNotFound(err error) bool {
	return err != nil && errors.Is(err, pgx.ErrNoRows)
}

// IsDuplicateKey detects unique constraint violations (SQLSTATE 23505).
func IsDuplicateKey(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
