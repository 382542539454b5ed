package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// transactionManager implements TransactionManager
type transactionManager struct {
	db    *sql.DB
	cache *ReportCache
}

// NewTransactionManager creates a new transaction manager
func NewTransactionManager(db *sql.DB) TransactionManager {
	return &transactionManager{db: db}
}

// WithTransaction executes a function within a database transaction
func (tm *transactionManager) WithTransaction(ctx context.Context, fn func(repos *Repositories) error) error {
	tx, err := tm.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	var reports ReportRepository = NewReportRepository(tx)
	if tm.cache != nil {
		reports = tm.cache.Wrap(reports)
	}
	repos := &Repositories{
		Vehicle: NewVehicleRepository(tx),
		Report:  reports,
		Tx:      tm,
	}

	if err := fn(repos); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return fmt.Errorf("transaction failed: %v, rollback failed: %w", err, rollbackErr)
		}
		return fmt.Errorf("transaction failed: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// dbExecutor is an interface that both *sql.DB and *sql.Tx implement
type dbExecutor interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// NewRepositories creates a PostgreSQL-backed repository collection. When
// cache is non-nil, report reads go through it.
func NewRepositories(db *sql.DB, cache *ReportCache) *Repositories {
	var reports ReportRepository = NewReportRepository(db)
	if cache != nil {
		reports = cache.Wrap(reports)
	}
	return &Repositories{
		Vehicle: NewVehicleRepository(db),
		Report:  reports,
		Tx:      &transactionManager{db: db, cache: cache},
	}
}
