package loan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"credit-engine/internal/domain/customer"
	"credit-engine/internal/pkg/apperrors"
)

// LoanService serves the read-side loan views. Decisions and loan creation live
// in the credit package.
type LoanService interface {
	GetLoanDetail(ctx context.Context, loanID int64) (*Loan, *customer.Customer, error)

	ListActiveLoans(ctx context.Context, customerID int64, asOf time.Time) ([]*Loan, error)
}

type loanService struct {
	repo      Repository
	customers customer.CustomerService
	logger    *slog.Logger
}

func NewLoanService(repo Repository, customers customer.CustomerService, logger *slog.Logger) LoanService {
	if repo == nil || customers == nil {
		panic("loan service dependencies cannot be nil")
	}
	return &loanService{
		repo:      repo,
		customers: customers,
		logger:    logger.With(slog.String("component", "loanService")),
	}
}

func (s *loanService) GetLoanDetail(ctx context.Context, loanID int64) (*Loan, *customer.Customer, error) {
	if loanID <= 0 {
		return nil, nil, fmt.Errorf("%w: loan ID must be positive", apperrors.ErrInvalidArgument)
	}

	l, err := s.repo.FindByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Loan not found", slog.Int64("loanID", loanID))
			return nil, nil, fmt.Errorf("%w: loan %d", apperrors.ErrNotFound, loanID)
		}
		s.logger.ErrorContext(ctx, "Failed to load loan", slog.Int64("loanID", loanID), slog.Any("error", err))
		return nil, nil, fmt.Errorf("failed to load loan %d: %w", loanID, err)
	}

	cust, err := s.customers.GetCustomer(ctx, l.CustomerID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load owning customer for loan",
			slog.Int64("loanID", loanID), slog.Int64("customerID", l.CustomerID), slog.Any("error", err))
		return nil, nil, err
	}

	return l, cust, nil
}

func (s *loanService) ListActiveLoans(ctx context.Context, customerID int64, asOf time.Time) ([]*Loan, error) {
	if customerID <= 0 {
		return nil, fmt.Errorf("%w: customer ID must be positive", apperrors.ErrInvalidArgument)
	}

	// Surface NotFound for unknown customers instead of an empty list.
	if _, err := s.customers.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}

	loans, err := s.repo.FindActiveByCustomer(ctx, customerID, asOf)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list active loans", slog.Int64("customerID", customerID), slog.Any("error", err))
		return nil, fmt.Errorf("failed to list active loans for customer %d: %w", customerID, err)
	}
	return loans, nil
}
