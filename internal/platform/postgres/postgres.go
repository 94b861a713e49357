// Package postgres provides the GORM connection plus the ambient-transaction
// plumbing the repositories share. A unit of work opens one transaction and
// threads it through the context; every repository resolves its handle via
// DB, so all writes inside the scope land on the same commit.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens a PostgreSQL connection via GORM and verifies connectivity.
func Connect(ctx context.Context, dsn string) (*gorm.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// Close unwraps and closes the underlying connection pool, logging on failure.
func Close(db *gorm.DB, logger *slog.Logger) {
	if db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		if logger != nil {
			logger.Warn("failed to unwrap postgres connection for close", slog.String("error", err.Error()))
		}
		return
	}
	_ = sqlDB.Close()
}

type txContextKey struct{}

// WithTx stores an open transaction handle on the context.
func WithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txContextKey{}, tx)
}

// DB resolves the handle a repository should use: the ambient transaction if
// one is in flight, otherwise the fallback connection.
func DB(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok && tx != nil {
		return tx.WithContext(ctx)
	}
	return fallback.WithContext(ctx)
}

// TxRunner commits a whole function as a single database transaction.
type TxRunner struct {
	db *gorm.DB
}

// NewTxRunner wires the runner. Caller manages the DB lifecycle.
func NewTxRunner(db *gorm.DB) *TxRunner {
	return &TxRunner{db: db}
}

// Within runs fn inside one transaction; the handle travels on the context so
// repositories participate transparently. fn returning an error rolls the
// whole scope back.
func (r *TxRunner) Within(ctx context.Context, fn func(ctx context.Context) error) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("postgres transaction runner not configured")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(WithTx(ctx, tx))
	})
}
