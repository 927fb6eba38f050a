package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/casalho111/gestion-motos-piste-karting-sub001/internal/database"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

// TransactionExecutor is the transactional surface controllers depend on.
// TransactionService is the production implementation; tests substitute a
// pass-through.
type TransactionExecutor interface {
	Execute(ctx context.Context, fn func(context.Context, *gorm.DB) error) error
	ExecuteWithRetry(ctx context.Context, fn func(context.Context, *gorm.DB) error) error
}

// TransactionService handles database transactions using context injection
type TransactionService struct {
	db  database.DB
	log logger.Logger
}

var _ TransactionExecutor = (*TransactionService)(nil)

func NewTransactionService(db database.DB) *TransactionService {
	return &TransactionService{
		db:  db,
		log: logger.New("TransactionService"),
	}
}

// Execute runs the provided function within a database transaction.
// Automatically handles commit/rollback based on function result. Panics are
// converted to errors unless rollback fails (which crashes the service for
// data safety).
func (ts *TransactionService) Execute(
	ctx context.Context,
	fn func(context.Context, *gorm.DB) error,
) (err error) {
	log := ts.log.Function("Execute")

	tx := ts.db.SQLWithContext(ctx).Begin()
	if tx.Error != nil {
		return log.Err("failed to begin transaction", tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			panicErr := log.ErrMsg("panic during transaction: " + fmt.Sprintf("%v", r))
			log.Er("panic during transaction, rolling back", panicErr)

			if rollbackErr := tx.Rollback().Error; rollbackErr != nil {
				log.Er("CRITICAL: failed to rollback after panic", rollbackErr, "panic", r)
				panic(
					fmt.Sprintf(
						"transaction rollback failed: %v (original panic: %v)",
						rollbackErr,
						r,
					),
				)
			}

			log.Info("transaction rolled back successfully after panic")
			err = panicErr
		}
	}()

	if err = fn(ctx, tx); err != nil {
		if rollbackErr := tx.Rollback().Error; rollbackErr != nil {
			log.Er("CRITICAL: failed to rollback after function error", rollbackErr, "originalError", err)
			return log.Error("transaction rollback failed", "rollbackError", rollbackErr, "originalError", err)
		}
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return log.Err("failed to commit transaction", err)
	}

	return nil
}

const (
	maxRetryAttempts = 3
	retryBackoffBase = 50 * time.Millisecond
)

// ExecuteWithRetry re-runs fn when the storage layer reports a serialization
// failure, deadlock, or lock timeout. Only use it for idempotent bodies:
// each attempt starts a fresh transaction, so a body that already committed
// side effects elsewhere must not go through here.
func (ts *TransactionService) ExecuteWithRetry(
	ctx context.Context,
	fn func(context.Context, *gorm.DB) error,
) error {
	log := ts.log.Function("ExecuteWithRetry")

	var err error
	for attempt := 1; attempt <= maxRetryAttempts; attempt++ {
		err = ts.Execute(ctx, fn)
		if err == nil || !IsRetryableError(err) {
			return err
		}

		log.Warn(
			"retryable transaction failure",
			"attempt", attempt,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryBackoffBase * time.Duration(attempt)):
		}
	}

	return log.Err("transaction failed after retries", err, "attempts", maxRetryAttempts)
}

// IsRetryableError classifies storage errors that a fresh transaction may
// survive: serialization failures (40001), deadlocks (40P01), lock timeouts
// (55P03) and statement timeouts (57014).
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	msg := err.Error()
	for _, code := range []string{"40001", "40P01", "55P03", "57014"} {
		if strings.Contains(msg, "SQLSTATE "+code) {
			return true
		}
	}

	return strings.Contains(msg, "deadlock detected") ||
		strings.Contains(msg, "could not serialize access")
}
