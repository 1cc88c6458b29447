package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	apperrors "github.com/cadastro-saude/patient-registry/pkg/errors"
	"github.com/cadastro-saude/patient-registry/pkg/metrics"
)

// postgres error codes
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	db      *sqlx.DB
	metrics *metrics.Metrics
}

// NewBaseRepository creates a new base repository
func NewBaseRepository(db *sqlx.DB, m *metrics.Metrics) BaseRepository {
	return BaseRepository{db: db, metrics: m}
}

// GetDB returns the database instance
func (r *BaseRepository) GetDB() *sqlx.DB {
	return r.db
}

// WithTx executes a function within a transaction
func (r *BaseRepository) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// q rewrites ? placeholders for the connection's driver
func (r *BaseRepository) q(query string) string {
	return r.db.Rebind(query)
}

// observe records a write; call it deferred with the named error result
func (r *BaseRepository) observe(op string, start time.Time, errp *error) {
	r.metrics.ObserveDatabase(op, *errp, time.Since(start))
}

// expectOne converts a zero-row write into NotFound
func expectOne(resource string, result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Store(fmt.Errorf("failed to get rows affected: %w", err))
	}
	if rows == 0 {
		return apperrors.NotFound(resource, sql.ErrNoRows)
	}
	return nil
}

// classify maps driver errors onto the application error kinds
func classify(resource string, err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NotFound(resource, err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return apperrors.Conflict(resource+" already exists", err).WithDetails(pqErr.Constraint)
		case pqForeignKeyViolation:
			return apperrors.Conflict(resource+" references or is referenced by another record", err)
		}
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		switch liteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return apperrors.Conflict(resource+" already exists", err).WithDetails(uniqueColumn(liteErr.Error()))
		case sqlite3.ErrConstraintForeignKey:
			return apperrors.Conflict(resource+" references or is referenced by another record", err)
		}
	}

	return apperrors.Store(err)
}

// uniqueColumn extracts "table.column" from sqlite's constraint message
func uniqueColumn(msg string) string {
	const marker = "failed: "
	if i := strings.Index(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return ""
}

func now() time.Time {
	return time.Now().UTC()
}
