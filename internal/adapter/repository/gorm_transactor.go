package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"ecofinds/internal/domain/repository"
	apperrors "ecofinds/pkg/errors"
	"ecofinds/pkg/logger"
)

const maxTxAttempts = 3

type txKey struct{}

type gormTransactor struct {
	db *gorm.DB
}

func NewGormTransactor(db *gorm.DB) repository.Transactor {
	return &gormTransactor{db: db}
}

// WithinTransaction retries the whole fn when Postgres aborts it with a
// serialization failure or a deadlock. A nested call joins the outer
// transaction.
func (t *gormTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}

	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(context.WithValue(ctx, txKey{}, tx))
		})
		if err == nil || !isRetryable(err) {
			return err
		}
		logger.Warn("Transaction aborted (attempt %d/%d): %v", attempt, maxTxAttempts, err)
	}
	return err
}

// conn returns the transaction bound to ctx, or the base handle.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func notFound(resource string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(resource, err)
	}
	return err
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func userSummaryColumns(db *gorm.DB) *gorm.DB {
	return db.Select("id", "username", "full_name")
}

func productSummaryColumns(db *gorm.DB) *gorm.DB {
	return db.Select("id", "title", "image_urls", "seller_id", "status")
}
