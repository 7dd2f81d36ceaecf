package postgres

import (
	"bytes"
	"context"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"

	"credit-engine/internal/domain/customer"
	"credit-engine/internal/pkg/apperrors"
)

var testLogger = slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

func newCustomerRepo(t *testing.T) (*CustomerRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(mockPool.Close)
	return NewCustomerRepository(mockPool, testLogger), mockPool
}

func TestCustomerRepositorySave(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("assigns the generated identity", func(t *testing.T) {
		repo, mockPool := newCustomerRepo(t)

		cust := customer.NewCustomer("Asha", "Rao", 34, 60000, "9876543210")
		mockPool.ExpectQuery(regexp.QuoteMeta("INSERT INTO customers")).
			WithArgs("Asha", "Rao", 34, "9876543210", int64(60000), int64(2200000)).
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(42), now, now))

		err := repo.Save(ctx, cust)

		assert.NoError(t, err)
		assert.Equal(t, int64(42), cust.CustomerID)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("unique violation maps to the duplicate phone error", func(t *testing.T) {
		repo, mockPool := newCustomerRepo(t)

		cust := customer.NewCustomer("Asha", "Rao", 34, 60000, "9876543210")
		mockPool.ExpectQuery(regexp.QuoteMeta("INSERT INTO customers")).
			WithArgs("Asha", "Rao", 34, "9876543210", int64(60000), int64(2200000)).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "customers_phone_number_key"})

		err := repo.Save(ctx, cust)

		assert.ErrorIs(t, err, customer.ErrDuplicatePhoneNumber)
	})
}

func TestCustomerRepositoryUpsert(t *testing.T) {
	ctx := context.Background()

	repo, mockPool := newCustomerRepo(t)

	cust := &customer.Customer{
		CustomerID:    7,
		FirstName:     "Asha",
		LastName:      "Rao",
		Age:           34,
		PhoneNumber:   "9876543210",
		MonthlyIncome: 60000,
		ApprovedLimit: 2200000,
	}
	mockPool.ExpectExec(regexp.QuoteMeta("INSERT INTO customers")).
		WithArgs(int64(7), "Asha", "Rao", 34, "9876543210", int64(60000), int64(2200000)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Upsert(ctx, cust)

	assert.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestCustomerRepositoryFindByID(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("scans the full row", func(t *testing.T) {
		repo, mockPool := newCustomerRepo(t)

		rows := pgxmock.NewRows([]string{
			"id", "first_name", "last_name", "age", "phone_number",
			"monthly_income", "approved_limit", "created_at", "updated_at",
		}).AddRow(int64(42), "Asha", "Rao", 34, "9876543210", int64(60000), int64(2200000), now, now)
		mockPool.ExpectQuery(regexp.QuoteMeta("SELECT id, first_name, last_name, age, phone_number, monthly_income, approved_limit, created_at, updated_at")).
			WithArgs(int64(42)).
			WillReturnRows(rows)

		cust, err := repo.FindByID(ctx, 42)

		assert.NoError(t, err)
		assert.Equal(t, int64(42), cust.CustomerID)
		assert.Equal(t, "Asha", cust.FirstName)
		assert.Equal(t, int64(2200000), cust.ApprovedLimit)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("no rows maps to not found", func(t *testing.T) {
		repo, mockPool := newCustomerRepo(t)

		mockPool.ExpectQuery(regexp.QuoteMeta("SELECT id, first_name")).
			WithArgs(int64(99)).
			WillReturnError(pgx.ErrNoRows)

		cust, err := repo.FindByID(ctx, 99)

		assert.Nil(t, cust)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("other errors map to a database error", func(t *testing.T) {
		repo, mockPool := newCustomerRepo(t)

		mockPool.ExpectQuery(regexp.QuoteMeta("SELECT id, first_name")).
			WithArgs(int64(99)).
			WillReturnError(assert.AnError)

		_, err := repo.FindByID(ctx, 99)

		assert.ErrorIs(t, err, apperrors.ErrDatabase)
	})
}
