// Package persistence holds the gorm helpers shared by every repository.
package persistence

import (
	"errors"

	"github.com/frahmantamala/task-management/internal"
	"github.com/frahmantamala/task-management/internal/core/common/pagination"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

// IsDuplicateKey reports unique-constraint violations from postgres or sqlite.
func IsDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	return false
}

// WriteError converts a failed write into an AppError. AppErrors pass through unchanged.
func WriteError(err error, message string, code internal.ErrorCode) error {
	if err == nil {
		return nil
	}
	if _, ok := internal.IsAppError(err); ok {
		return err
	}
	if IsDuplicateKey(err) {
		return internal.NewConflictError("Duplicate value violates a unique constraint.", internal.ErrCodeDuplicateKey).WithCause(err)
	}
	return internal.NewPersistenceError(message, code, err)
}

// ReadError maps gorm.ErrRecordNotFound to a NotFound AppError and anything else to a query failure.
func ReadError(err error, notFoundMessage string, notFoundCode internal.ErrorCode) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return internal.NewNotFoundError(notFoundMessage, notFoundCode)
	}
	if _, ok := internal.IsAppError(err); ok {
		return err
	}
	return internal.NewPersistenceError("Query failed.", internal.ErrCodeQueryFailed, err)
}

// Paginate counts the rows matched by query, then loads the requested page into dest.
// query must already carry its Model and filters.
func Paginate[T any](query *gorm.DB, params pagination.Params, dest *[]T) (int64, error) {
	base := query.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return 0, internal.NewPersistenceError("Query failed.", internal.ErrCodeQueryFailed, err)
	}

	if err := base.Order("id ASC").Limit(params.Limit()).Offset(params.Offset()).Find(dest).Error; err != nil {
		return 0, internal.NewPersistenceError("Query failed.", internal.ErrCodeQueryFailed, err)
	}

	return total, nil
}
