package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/shopspring/decimal"

	"credit-engine/internal/config"
	"credit-engine/internal/domain/credit"
	"credit-engine/internal/domain/customer"
	"credit-engine/internal/domain/loan"
	"credit-engine/internal/infrastructure/monitoring"
)

// Service imports historical customer and loan records from CSV exports.
// Header spellings are normalized, provided IDs are preserved, and a missing
// installment is recomputed from the loan terms. Row-level problems are
// collected in the summary instead of aborting the run.
type Service struct {
	customers customer.CustomerRepository
	loans     loan.Repository
	cfg       config.IngestConfig
	logger    *slog.Logger
}

type Summary struct {
	CustomersUpserted int      `json:"customersUpserted"`
	LoansUpserted     int      `json:"loansUpserted"`
	Errors            []string `json:"errors,omitempty"`
}

func NewService(customers customer.CustomerRepository, loans loan.Repository, cfg config.IngestConfig, logger *slog.Logger) *Service {
	if customers == nil || loans == nil {
		panic("ingest service repositories cannot be nil")
	}
	return &Service{
		customers: customers,
		loans:     loans,
		cfg:       cfg,
		logger:    logger.With(slog.String("component", "ingestService")),
	}
}

func (s *Service) Run(ctx context.Context) (*Summary, error) {
	sum := &Summary{}

	if err := s.ingestCustomers(ctx, s.cfg.CustomerFile, sum); err != nil {
		sum.Errors = append(sum.Errors, fmt.Sprintf("customers: %v", err))
	}
	if err := s.ingestLoans(ctx, s.cfg.LoanFile, sum); err != nil {
		sum.Errors = append(sum.Errors, fmt.Sprintf("loans: %v", err))
	}

	s.logger.InfoContext(ctx, "Ingestion finished",
		slog.Int("customers", sum.CustomersUpserted),
		slog.Int("loans", sum.LoansUpserted),
		slog.Int("errors", len(sum.Errors)),
	)
	return sum, nil
}

func (s *Service) ingestCustomers(ctx context.Context, path string, sum *Summary) error {
	return s.forEachRow(ctx, path, func(idx fieldIndex, record []string, line int) {
		cust, err := customerFromRow(idx, record)
		if err != nil {
			monitoring.RecordIngestedRow("customer", "error")
			sum.Errors = append(sum.Errors, fmt.Sprintf("%s line %d: %v", path, line, err))
			return
		}
		if err := s.customers.Upsert(ctx, cust); err != nil {
			monitoring.RecordIngestedRow("customer", "error")
			sum.Errors = append(sum.Errors, fmt.Sprintf("%s line %d: %v", path, line, err))
			return
		}
		monitoring.RecordIngestedRow("customer", "success")
		sum.CustomersUpserted++
	})
}

func (s *Service) ingestLoans(ctx context.Context, path string, sum *Summary) error {
	return s.forEachRow(ctx, path, func(idx fieldIndex, record []string, line int) {
		l, err := loanFromRow(idx, record)
		if err != nil {
			monitoring.RecordIngestedRow("loan", "error")
			sum.Errors = append(sum.Errors, fmt.Sprintf("%s line %d: %v", path, line, err))
			return
		}
		if err := s.loans.Upsert(ctx, l); err != nil {
			monitoring.RecordIngestedRow("loan", "error")
			sum.Errors = append(sum.Errors, fmt.Sprintf("%s line %d: %v", path, line, err))
			return
		}
		monitoring.RecordIngestedRow("loan", "success")
		sum.LoansUpserted++
	})
}

func (s *Service) forEachRow(ctx context.Context, path string, handle func(idx fieldIndex, record []string, line int)) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read header row of %s: %w", path, err)
	}
	idx := indexHeaders(headers)

	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read %s line %d: %w", path, line, err)
		}
		handle(idx, record, line)
	}
}

func customerFromRow(idx fieldIndex, record []string) (*customer.Customer, error) {
	id, err := parseInt(idx.value(record, "customer id", "customer_id", "id"))
	if err != nil {
		return nil, fmt.Errorf("customer id: %w", err)
	}

	income, err := parseInt(idx.value(record, "monthly salary", "monthly income"))
	if err != nil {
		return nil, fmt.Errorf("monthly income: %w", err)
	}

	cust := &customer.Customer{
		CustomerID:    id,
		FirstName:     idx.value(record, "first name"),
		LastName:      idx.value(record, "last name"),
		PhoneNumber:   idx.value(record, "phone number"),
		MonthlyIncome: income,
	}

	if ageStr := idx.value(record, "age"); ageStr != "" {
		if cust.Age, err = strconv.Atoi(ageStr); err != nil {
			return nil, fmt.Errorf("age: %w", err)
		}
	}

	if limitStr := idx.value(record, "approved limit"); limitStr != "" {
		if cust.ApprovedLimit, err = parseInt(limitStr); err != nil {
			return nil, fmt.Errorf("approved limit: %w", err)
		}
	} else {
		cust.ApprovedLimit = customer.ApprovedLimitFor(income)
	}

	return cust, nil
}

func loanFromRow(idx fieldIndex, record []string) (*loan.Loan, error) {
	loanID, err := parseInt(idx.value(record, "loan id", "loan_id"))
	if err != nil {
		return nil, fmt.Errorf("loan id: %w", err)
	}
	customerID, err := parseInt(idx.value(record, "customer id", "customer_id"))
	if err != nil {
		return nil, fmt.Errorf("customer id: %w", err)
	}

	principal, err := decimal.NewFromString(idx.value(record, "loan amount", "principal"))
	if err != nil {
		return nil, fmt.Errorf("loan amount: %w", err)
	}
	rate, err := decimal.NewFromString(idx.value(record, "interest rate"))
	if err != nil {
		return nil, fmt.Errorf("interest rate: %w", err)
	}
	tenure, err := strconv.Atoi(idx.value(record, "tenure", "tenure months"))
	if err != nil {
		return nil, fmt.Errorf("tenure: %w", err)
	}

	startDate, err := parseDate(idx.value(record, "date of approval", "start date"))
	if err != nil {
		return nil, fmt.Errorf("start date: %w", err)
	}

	l := &loan.Loan{
		ID:                loanID,
		CustomerID:        customerID,
		Principal:         principal,
		TenureMonths:      tenure,
		AnnualRatePercent: rate,
		StartDate:         startDate,
		Status:            loan.StatusActive,
	}

	if endStr := idx.value(record, "end date"); endStr != "" {
		if l.EndDate, err = parseDate(endStr); err != nil {
			return nil, fmt.Errorf("end date: %w", err)
		}
	} else {
		l.EndDate = startDate.AddDate(0, 0, 30*tenure)
	}

	if paidStr := idx.value(record, "emis paid on time", "installments paid on time"); paidStr != "" {
		if l.EMIsPaidOnTime, err = strconv.Atoi(paidStr); err != nil {
			return nil, fmt.Errorf("emis paid on time: %w", err)
		}
		// Best effort bound: the sheets occasionally overcount.
		if l.EMIsPaidOnTime > tenure {
			l.EMIsPaidOnTime = tenure
		}
	}

	// Recompute a missing or zero installment from the loan terms.
	emiStr := idx.value(record, "monthly payment", "monthly repayment", "monthly installment", "emi")
	if emiStr != "" {
		if l.MonthlyInstallment, err = decimal.NewFromString(emiStr); err != nil {
			return nil, fmt.Errorf("monthly installment: %w", err)
		}
	}
	if l.MonthlyInstallment.IsZero() {
		l.MonthlyInstallment = credit.ComputeInstallment(principal, rate, tenure)
	}

	return l, nil
}

func parseInt(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("missing value")
	}
	return strconv.ParseInt(s, 10, 64)
}
