package persistence

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/taponce/backend/internal/domain/shared"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// isUniqueViolation reports whether err comes from a unique constraint,
// whichever driver produced it.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgUniqueViolation
	}
	// sqlite reports constraint failures only as text
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// translateWriteError maps driver errors from inserts and updates to domain errors
func translateWriteError(err error, conflict *shared.DomainError) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		if conflict != nil {
			return conflict
		}
		return shared.ErrAlreadyExists
	}
	return err
}

// translateFindError maps gorm.ErrRecordNotFound to shared.ErrNotFound
func translateFindError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}

// paginate applies page and size; non-positive values leave the query unbounded
func paginate(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

// orderBy applies a whitelisted sort
func orderBy(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowed, defaultField)
	return query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
}
