package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// sentinels traduce errores de pgx a los errores del dominio de cada repo.
type sentinels struct {
	notFound error
	exists   error
}

// mapError: context.Canceled/DeadlineExceeded pasan tal cual (envueltos).
func mapError(err error, entity, id string, s sentinels) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %s: %w", entity, id, err)
	}
	if errors.Is(err, pgx.ErrNoRows) && s.notFound != nil {
		return fmt.Errorf("%s %s: %w", entity, id, s.notFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			if s.exists != nil {
				return fmt.Errorf("%s %s: %w", entity, id, s.exists)
			}
		case "23503": // foreign_key_violation
			if s.notFound != nil {
				return fmt.Errorf("%s %s: %w", entity, id, s.notFound)
			}
		}
	}
	return fmt.Errorf("%s %s: %w", entity, id, err)
}
