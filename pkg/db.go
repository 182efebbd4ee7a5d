package pkg

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// https://www.postgresql.org/docs/8.2/errcodes-appendix.html
const uniqueViolationCode = "23505"

// IsUniqueViolationError checks if the error is a unique violation error,
// coming either from pgx or from a database/sql connection using lib/pq
func IsUniqueViolationError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolationCode
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolationCode
	}
	return false
}
