package errx

import (
	"context"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// WrapPostgres maps pgx errors to AppError; pgx.ErrNoRows becomes a 404 and
// a timed out query a 504.
func WrapPostgres(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return New(err, http.StatusNotFound, PostgresNotFoundMessage)
	case errors.Is(err, context.DeadlineExceeded):
		return New(err, http.StatusGatewayTimeout, PostgresErrorMessage)
	default:
		return New(err, http.StatusBadGateway, PostgresErrorMessage)
	}
}
