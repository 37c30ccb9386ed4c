package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"library_backend/pkg/circuitbreaker"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// ErrStoreUnavailable wraps every failure of the store itself, as opposed to a
// business rule rejecting the operation.
var ErrStoreUnavailable = errors.New("store unavailable")

// Gateway scopes store access per operation. A connection is taken from the
// pool for the duration of fn and released on every exit path.
type Gateway struct {
	db      *gorm.DB
	breaker *circuitbreaker.CircuitBreaker
}

// NewGateway wraps db. breaker may be nil.
func NewGateway(db *gorm.DB, breaker *circuitbreaker.CircuitBreaker) *Gateway {
	return &Gateway{db: db, breaker: breaker}
}

// NewStoreBreaker returns a breaker that only trips on store faults.
func NewStoreBreaker(maxFailures int, timeout time.Duration) *circuitbreaker.CircuitBreaker {
	return circuitbreaker.NewCircuitBreaker(maxFailures, timeout,
		circuitbreaker.WithFailureClassifier(IsStoreFault))
}

// Transaction runs fn inside one transaction. Any error returned by fn rolls
// the whole transaction back.
func (g *Gateway) Transaction(ctx context.Context, op string, fn func(tx *gorm.DB) error) error {
	return g.guard(op, func() error {
		return g.db.WithContext(ctx).Transaction(fn)
	})
}

// Run runs fn against the pool without opening a transaction, for reads and
// single-statement writes.
func (g *Gateway) Run(ctx context.Context, op string, fn func(db *gorm.DB) error) error {
	return g.guard(op, func() error {
		return fn(g.db.WithContext(ctx))
	})
}

func (g *Gateway) Ping(ctx context.Context) error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: ping: %w", ErrStoreUnavailable, err)
	}
	return nil
}

func (g *Gateway) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (g *Gateway) guard(op string, fn func() error) error {
	var err error
	if g.breaker != nil {
		err = g.breaker.Execute(fn)
	} else {
		err = fn()
	}
	if err == nil {
		return nil
	}
	if errors.Is(err, circuitbreaker.ErrOpen) {
		return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
	}
	if IsStoreFault(err) {
		return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
	}
	return err
}

// IsStoreFault reports whether err came from the store rather than from a
// rejected business rule. Coded errors, missing rows, constraint violations
// and caller cancellation are not faults.
func IsStoreFault(err error) bool {
	if err == nil {
		return false
	}
	var coded interface{ Code() string }
	switch {
	case errors.As(err, &coded),
		errors.Is(err, gorm.ErrRecordNotFound),
		errors.Is(err, context.Canceled),
		IsUniqueViolation(err):
		return false
	}
	return true
}

// IsUniqueViolation detects a unique constraint failure on either driver.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}
	var liteErr sqlite3.Error
	return errors.As(err, &liteErr) && liteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
