// Package service holds the POS business rules. Every multi-row mutation
// runs inside one transaction and realtime events are emitted only after
// that transaction commits.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/counterpos/api/internal/apperror"
	"github.com/counterpos/api/internal/database"
)

// maxNumberRetries bounds retries when two transactions race for the same
// order or bill sequence number.
const maxNumberRetries = 3

// TaxRate applied to every order subtotal.
var TaxRate = decimal.RequireFromString("0.05")

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// DB is a pool that can both run queries directly and open transactions.
// Satisfied by *pgxpool.Pool.
type DB interface {
	database.DBTX
	TxBeginner
}

// runInTx runs fn in a transaction, committing only when fn succeeds.
func runInTx(ctx context.Context, db TxBeginner, fn func(tx pgx.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// retryOnNumberConflict reruns attempt while it fails with a unique
// violation on one of the given sequence constraints.
func retryOnNumberConflict(constraints []string, attempt func() error) error {
	var lastErr error
	for i := 0; i < maxNumberRetries; i++ {
		err := attempt()
		if err == nil {
			return nil
		}
		if !isNumberConflict(err, constraints) {
			return err
		}
		lastErr = err
	}
	return lastErr
}

func isNumberConflict(err error, constraints []string) bool {
	for _, c := range constraints {
		if apperror.IsUniqueViolation(err, c) {
			return true
		}
	}
	return false
}

// calculateTotals derives tax and final amount from a subtotal, rounding
// half away from zero to cents.
func calculateTotals(subtotal decimal.Decimal) (tax, final decimal.Decimal) {
	tax = subtotal.Mul(TaxRate).Round(2)
	final = subtotal.Add(tax).Round(2)
	return tax, final
}

// businessDate is the calendar day numbers are sequenced under.
func businessDate(t time.Time) pgtype.Date {
	y, m, d := t.Date()
	return pgtype.Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
}

// formatNumber renders human-readable numbers such as ORD-20250102-0007.
func formatNumber(prefix string, day pgtype.Date, seq int32) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, day.Time.Format("20060102"), seq)
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.StringFixed(2))
	return n
}

// MoneyString formats a stored amount with two decimals.
func MoneyString(n pgtype.Numeric) string {
	return numericToDecimal(n).StringFixed(2)
}

func pgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

func uuidPtr(id pgtype.UUID) *uuid.UUID {
	if !id.Valid {
		return nil
	}
	v := uuid.UUID(id.Bytes)
	return &v
}
