package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"credit-engine/internal/domain/customer"
	"credit-engine/internal/domain/loan"
	"credit-engine/internal/infrastructure/monitoring"
	"credit-engine/internal/pkg/apperrors"
)

const loanColumns = `id, customer_id, principal, tenure_months, annual_rate, monthly_installment, emis_paid_on_time, start_date, end_date, status, created_at, updated_at`

type LoanRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ loan.Repository = (*LoanRepository)(nil)

func NewLoanRepository(db DBPool, logger *slog.Logger) *LoanRepository {
	return &LoanRepository{db: db, logger: logger.With("component", "LoanRepository")}
}

func (r *LoanRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to begin transaction", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return tx, nil
}

func (r *LoanRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	err := tx.Commit(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to commit transaction", "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return nil
}

func (r *LoanRepository) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	err := tx.Rollback(ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		r.logger.ErrorContext(ctx, "Failed to rollback transaction", "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return nil
}

func (r *LoanRepository) FindByID(ctx context.Context, loanID int64) (*loan.Loan, error) {
	query := `
        SELECT ` + loanColumns + `
        FROM loans
        WHERE id = $1`
	status := "success"
	startTime := time.Now()

	l, err := scanLoanRow(r.db.QueryRow(ctx, query, loanID))

	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("LoanFindByID", status, time.Since(startTime))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Loan not found", "loan_id", loanID)
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get loan by ID", "loan_id", loanID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return l, nil
}

func (r *LoanRepository) FindByCustomer(ctx context.Context, customerID int64) ([]*loan.Loan, error) {
	query := `
        SELECT ` + loanColumns + `
        FROM loans
        WHERE customer_id = $1
        ORDER BY start_date ASC, id ASC`

	rows, err := r.db.Query(ctx, query, customerID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query loan history", "customer_id", customerID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	return collectLoans(rows, r.logger, customerID)
}

func (r *LoanRepository) FindActiveByCustomer(ctx context.Context, customerID int64, asOf time.Time) ([]*loan.Loan, error) {
	query := `
        SELECT ` + loanColumns + `
        FROM loans
        WHERE customer_id = $1 AND end_date >= $2
        ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, query, customerID, asOf)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query active loans", "customer_id", customerID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	return collectLoans(rows, r.logger, customerID)
}

func (r *LoanRepository) Upsert(ctx context.Context, l *loan.Loan) error {
	sql := `
        INSERT INTO loans (id, customer_id, principal, tenure_months, annual_rate, monthly_installment, emis_paid_on_time, start_date, end_date, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
        ON CONFLICT (id) DO UPDATE
        SET customer_id = EXCLUDED.customer_id,
            principal = EXCLUDED.principal,
            tenure_months = EXCLUDED.tenure_months,
            annual_rate = EXCLUDED.annual_rate,
            monthly_installment = EXCLUDED.monthly_installment,
            emis_paid_on_time = EXCLUDED.emis_paid_on_time,
            start_date = EXCLUDED.start_date,
            end_date = EXCLUDED.end_date,
            status = EXCLUDED.status,
            updated_at = NOW()`

	_, err := r.db.Exec(ctx, sql,
		l.ID, l.CustomerID, l.Principal, l.TenureMonths, l.AnnualRatePercent,
		l.MonthlyInstallment, l.EMIsPaidOnTime, l.StartDate, l.EndDate, l.Status,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to upsert loan", "loan_id", l.ID, "error", err)
		return translateDBError(err, r.logger)
	}
	return nil
}

func (r *LoanRepository) RetireExpired(ctx context.Context, asOf time.Time) (int64, error) {
	sql := `UPDATE loans SET status = $1, updated_at = NOW() WHERE status = $2 AND end_date < $3`

	cmdTag, err := r.db.Exec(ctx, sql, loan.StatusRetired, loan.StatusActive, asOf)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to retire expired loans", "error", err)
		return 0, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return cmdTag.RowsAffected(), nil
}

func (r *LoanRepository) LockCustomerForDecision(ctx context.Context, tx pgx.Tx, customerID int64) (*customer.Customer, error) {
	query := `
        SELECT id, first_name, last_name, age, phone_number, monthly_income, approved_limit, created_at, updated_at
        FROM customers
        WHERE id = $1
        FOR UPDATE`

	var c customer.Customer
	err := tx.QueryRow(ctx, query, customerID).Scan(
		&c.CustomerID, &c.FirstName, &c.LastName, &c.Age, &c.PhoneNumber,
		&c.MonthlyIncome, &c.ApprovedLimit, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Customer not found while locking for decision", "customer_id", customerID)
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to lock customer row for decision", "customer_id", customerID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return &c, nil
}

func (r *LoanRepository) FindByCustomerInTx(ctx context.Context, tx pgx.Tx, customerID int64) ([]*loan.Loan, error) {
	query := `
        SELECT ` + loanColumns + `
        FROM loans
        WHERE customer_id = $1
        ORDER BY start_date ASC, id ASC`

	rows, err := tx.Query(ctx, query, customerID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query loan history in tx", "customer_id", customerID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	return collectLoans(rows, r.logger, customerID)
}

func (r *LoanRepository) CreateInTx(ctx context.Context, tx pgx.Tx, l *loan.Loan) (*loan.Loan, error) {
	sql := `
        INSERT INTO loans (customer_id, principal, tenure_months, annual_rate, monthly_installment, emis_paid_on_time, start_date, end_date, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
        RETURNING ` + loanColumns

	created, err := scanLoanRow(tx.QueryRow(ctx, sql,
		l.CustomerID, l.Principal, l.TenureMonths, l.AnnualRatePercent,
		l.MonthlyInstallment, l.EMIsPaidOnTime, l.StartDate, l.EndDate, l.Status,
	))
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert loan", "customer_id", l.CustomerID, "error", err)
		return nil, fmt.Errorf("%w: failed to insert loan: %w", apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Loan created in DB", "loan_id", created.ID, "customer_id", created.CustomerID)
	return created, nil
}

func scanLoanRow(row pgx.Row) (*loan.Loan, error) {
	var l loan.Loan
	err := row.Scan(
		&l.ID, &l.CustomerID, &l.Principal, &l.TenureMonths, &l.AnnualRatePercent,
		&l.MonthlyInstallment, &l.EMIsPaidOnTime, &l.StartDate, &l.EndDate,
		&l.Status, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func collectLoans(rows pgx.Rows, logger *slog.Logger, customerID int64) ([]*loan.Loan, error) {
	loans := make([]*loan.Loan, 0)
	for rows.Next() {
		l, err := scanLoanRow(rows)
		if err != nil {
			logger.Error("Failed to scan loan row", "customer_id", customerID, "error", err)
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		loans = append(loans, l)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Error iterating loan rows", "customer_id", customerID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	return loans, nil
}
