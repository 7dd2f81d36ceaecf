package loan

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"credit-engine/internal/domain/customer"
)

type Repository interface {
	// FindByID loads one loan.
	FindByID(ctx context.Context, loanID int64) (*Loan, error)

	// FindByCustomer loads the customer's full loan history, oldest first.
	FindByCustomer(ctx context.Context, customerID int64) ([]*Loan, error)

	// FindActiveByCustomer loads the loans whose end date has not passed as of
	// the given date.
	FindActiveByCustomer(ctx context.Context, customerID int64, asOf time.Time) ([]*Loan, error)

	// Upsert inserts a loan keeping a caller-provided ID, updating the existing
	// row when the ID is already present. Used by historical ingestion.
	Upsert(ctx context.Context, l *Loan) error

	// RetireExpired flips loans past their end date to RETIRED and returns the
	// number of rows touched.
	RetireExpired(ctx context.Context, asOf time.Time) (int64, error)

	// LockCustomerForDecision takes the per-customer exclusive lock that
	// serializes a read-decide-write sequence, returning the customer row the
	// lock protects. Must be called inside tx.
	LockCustomerForDecision(ctx context.Context, tx pgx.Tx, customerID int64) (*customer.Customer, error)

	// FindByCustomerInTx is FindByCustomer reading through the decision
	// transaction, so the snapshot is the one the lock protects.
	FindByCustomerInTx(ctx context.Context, tx pgx.Tx, customerID int64) ([]*Loan, error)

	// CreateInTx persists an approved loan inside the decision transaction and
	// returns it with its assigned identity.
	CreateInTx(ctx context.Context, tx pgx.Tx, l *Loan) (*Loan, error)

	BeginTx(ctx context.Context) (pgx.Tx, error)

	CommitTx(ctx context.Context, tx pgx.Tx) error

	RollbackTx(ctx context.Context, tx pgx.Tx) error
}
