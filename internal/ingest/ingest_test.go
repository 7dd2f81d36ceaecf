package ingest

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"credit-engine/internal/config"
	"credit-engine/internal/domain/credit"
	"credit-engine/internal/domain/customer"
	"credit-engine/internal/domain/loan"
)

type fakeCustomerRepo struct {
	mu       sync.Mutex
	upserted []*customer.Customer
}

func (f *fakeCustomerRepo) Save(ctx context.Context, cust *customer.Customer) error {
	return f.Upsert(ctx, cust)
}

func (f *fakeCustomerRepo) Upsert(ctx context.Context, cust *customer.Customer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserted = append(f.upserted, cust)
	return nil
}

func (f *fakeCustomerRepo) FindByID(ctx context.Context, customerID int64) (*customer.Customer, error) {
	return nil, customer.ErrNotFound
}

type fakeLoanRepo struct {
	loan.Repository

	mu       sync.Mutex
	upserted []*loan.Loan
}

func (f *fakeLoanRepo) Upsert(ctx context.Context, l *loan.Loan) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserted = append(f.upserted, l)
	return nil
}

var testLogger = slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	t.Run("imports customers and loans with messy headers", func(t *testing.T) {
		dir := t.TempDir()
		customerFile := writeFile(t, dir, "customers.csv",
			"Customer ID,First Name,Last Name,Age,Phone_Number,Monthly_Salary,Approved_Limit\n"+
				"1,Asha,Rao,34,9876543210,60000,2200000\n"+
				"2,Ravi,Iyer,41,9876500000,50000,\n")
		loanFile := writeFile(t, dir, "loans.csv",
			"Customer ID,Loan ID,Loan Amount,Tenure,Interest Rate,Monthly payment,EMIs paid on Time,Date of Approval,End Date\n"+
				"1,101,250000,24,12,11768.37,10,2025-01-15,2027-01-04\n"+
				"2,102,100000,12,10,,5,15/01/2025,\n")

		customers := &fakeCustomerRepo{}
		loans := &fakeLoanRepo{}
		svc := NewService(customers, loans, config.IngestConfig{CustomerFile: customerFile, LoanFile: loanFile}, testLogger)

		sum, err := svc.Run(ctx)

		assert.NoError(t, err)
		assert.Empty(t, sum.Errors)
		assert.Equal(t, 2, sum.CustomersUpserted)
		assert.Equal(t, 2, sum.LoansUpserted)

		// Missing approved limit is derived from income.
		assert.Equal(t, int64(2200000), customers.upserted[0].ApprovedLimit)
		assert.Equal(t, int64(1800000), customers.upserted[1].ApprovedLimit)

		first := loans.upserted[0]
		assert.Equal(t, int64(101), first.ID)
		assert.Equal(t, "11768.37", first.MonthlyInstallment.StringFixed(2))

		// Missing installment is recomputed from the loan terms, missing end
		// date from the start date and tenure.
		second := loans.upserted[1]
		assert.True(t, second.MonthlyInstallment.Equal(
			credit.ComputeInstallment(decimal.NewFromInt(100000), decimal.NewFromInt(10), 12)))
		assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 360), second.EndDate)
	})

	t.Run("bad rows are reported without aborting the run", func(t *testing.T) {
		dir := t.TempDir()
		customerFile := writeFile(t, dir, "customers.csv",
			"Customer ID,First Name,Last Name,Age,Phone Number,Monthly Salary\n"+
				"1,Asha,Rao,34,9876543210,60000\n"+
				"oops,Bad,Row,0,x,y\n"+
				"3,Ravi,Iyer,41,9876500000,50000\n")
		loanFile := writeFile(t, dir, "loans.csv",
			"Customer ID,Loan ID,Loan Amount,Tenure,Interest Rate,Date of Approval\n"+
				"1,101,250000,24,12,not-a-date\n")

		customers := &fakeCustomerRepo{}
		loans := &fakeLoanRepo{}
		svc := NewService(customers, loans, config.IngestConfig{CustomerFile: customerFile, LoanFile: loanFile}, testLogger)

		sum, err := svc.Run(ctx)

		assert.NoError(t, err)
		assert.Equal(t, 2, sum.CustomersUpserted)
		assert.Equal(t, 0, sum.LoansUpserted)
		assert.Len(t, sum.Errors, 2)
	})

	t.Run("missing files are reported in the summary", func(t *testing.T) {
		customers := &fakeCustomerRepo{}
		loans := &fakeLoanRepo{}
		svc := NewService(customers, loans, config.IngestConfig{CustomerFile: "does/not/exist.csv", LoanFile: "also/missing.csv"}, testLogger)

		sum, err := svc.Run(ctx)

		assert.NoError(t, err)
		assert.Len(t, sum.Errors, 2)
	})

	t.Run("overcounted paid installments are clamped to the tenure", func(t *testing.T) {
		dir := t.TempDir()
		customerFile := writeFile(t, dir, "customers.csv", "Customer ID,First Name,Last Name,Age,Phone Number,Monthly Salary\n")
		loanFile := writeFile(t, dir, "loans.csv",
			"Customer ID,Loan ID,Loan Amount,Tenure,Interest Rate,EMIs paid on Time,Date of Approval\n"+
				"1,101,250000,24,12,40,2025-01-15\n")

		customers := &fakeCustomerRepo{}
		loans := &fakeLoanRepo{}
		svc := NewService(customers, loans, config.IngestConfig{CustomerFile: customerFile, LoanFile: loanFile}, testLogger)

		sum, err := svc.Run(ctx)

		assert.NoError(t, err)
		assert.Empty(t, sum.Errors)
		assert.Equal(t, 24, loans.upserted[0].EMIsPaidOnTime)
	})
}
