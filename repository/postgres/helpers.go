package postgres

import (
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Esraa999/TeamManagementTask/domain"
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func nullTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}

// storageErr keeps unexpected persistence failures classified, without
// double-wrapping errors that already carry a domain code.
func storageErr(message string, err error) error {
	var dErr *domain.Error
	if errors.As(err, &dErr) {
		return err
	}
	return domain.WrapError(domain.ErrCodeStorage, message, err)
}
