package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pashagolub/pgxmock/v4"

	"credit-engine/internal/domain/customer"
	"credit-engine/internal/infrastructure/monitoring"
	"credit-engine/internal/pkg/apperrors"
)

type DBPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Acquire(ctx context.Context) (*pgxpool.Conn, error)
	Close()
}

var _ DBPool = (*pgxpool.Pool)(nil)

var _ DBPool = (pgxmock.PgxPoolIface)(nil)

var errMsgFormat = "%w: %w"

type CustomerRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ customer.CustomerRepository = (*CustomerRepository)(nil)

func NewCustomerRepository(db DBPool, logger *slog.Logger) *CustomerRepository {
	return &CustomerRepository{db: db, logger: logger.With("component", "CustomerRepository")}
}

func (r *CustomerRepository) Save(ctx context.Context, cust *customer.Customer) error {
	sql := `
        INSERT INTO customers (first_name, last_name, age, phone_number, monthly_income, approved_limit, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
        RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, sql,
		cust.FirstName, cust.LastName, cust.Age, cust.PhoneNumber, cust.MonthlyIncome, cust.ApprovedLimit,
	).Scan(&cust.CustomerID, &cust.CreatedAt, &cust.UpdatedAt)
	if err != nil {
		translated := translateDBError(err, r.logger)
		if errors.Is(translated, apperrors.ErrAlreadyExists) {
			return customer.ErrDuplicatePhoneNumber
		}
		r.logger.ErrorContext(ctx, "Failed to insert customer", "error", err)
		return translated
	}

	r.logger.InfoContext(ctx, "Customer created in DB", "customer_id", cust.CustomerID)
	return nil
}

func (r *CustomerRepository) Upsert(ctx context.Context, cust *customer.Customer) error {
	sql := `
        INSERT INTO customers (id, first_name, last_name, age, phone_number, monthly_income, approved_limit, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
        ON CONFLICT (id) DO UPDATE
        SET first_name = EXCLUDED.first_name,
            last_name = EXCLUDED.last_name,
            age = EXCLUDED.age,
            phone_number = EXCLUDED.phone_number,
            monthly_income = EXCLUDED.monthly_income,
            approved_limit = EXCLUDED.approved_limit,
            updated_at = NOW()`

	_, err := r.db.Exec(ctx, sql,
		cust.CustomerID, cust.FirstName, cust.LastName, cust.Age, cust.PhoneNumber, cust.MonthlyIncome, cust.ApprovedLimit,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to upsert customer", "customer_id", cust.CustomerID, "error", err)
		return translateDBError(err, r.logger)
	}
	return nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, customerID int64) (*customer.Customer, error) {
	query := `
        SELECT id, first_name, last_name, age, phone_number, monthly_income, approved_limit, created_at, updated_at
        FROM customers
        WHERE id = $1`
	status := "success"
	startTime := time.Now()

	var c customer.Customer
	err := r.db.QueryRow(ctx, query, customerID).Scan(
		&c.CustomerID, &c.FirstName, &c.LastName, &c.Age, &c.PhoneNumber,
		&c.MonthlyIncome, &c.ApprovedLimit, &c.CreatedAt, &c.UpdatedAt,
	)

	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("CustomerFindByID", status, time.Since(startTime))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Customer not found", "customer_id", customerID)
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get customer by ID", "customer_id", customerID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return &c, nil
}

func translateDBError(err error, contextLogger *slog.Logger) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			contextLogger.Warn("Database unique constraint violation", "detail", pgErr.Detail, "constraint", pgErr.ConstraintName)
			return fmt.Errorf("%w: %s", apperrors.ErrAlreadyExists, pgErr.ConstraintName)
		}

		contextLogger.Error("PostgreSQL specific error", "code", pgErr.Code, "message", pgErr.Message, "detail", pgErr.Detail)
		return fmt.Errorf("%w: db error code %s", apperrors.ErrDatabase, pgErr.Code)
	}

	contextLogger.Error("Generic database error", "error", err)
	return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
}
