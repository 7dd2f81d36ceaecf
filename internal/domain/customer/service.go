package customer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"credit-engine/internal/event"
	"credit-engine/internal/infrastructure/monitoring"
	"credit-engine/internal/pkg/apperrors"
)

const inputValidationPassed = "Input validation passed"

type CustomerService interface {
	RegisterCustomer(ctx context.Context, firstName, lastName string, age int, monthlyIncome int64, phoneNumber string) (*Customer, error)
	GetCustomer(ctx context.Context, customerID int64) (*Customer, error)
}

var _ CustomerService = (*customerService)(nil)

type customerService struct {
	repo   CustomerRepository
	pub    event.EventPublisher
	logger *slog.Logger
}

func NewCustomerService(repo CustomerRepository, pub event.EventPublisher, logger *slog.Logger) CustomerService {
	if repo == nil {
		panic("customer repository cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerService, using default stderr handler")
	}
	if pub == nil {
		pub = event.NoopPublisher{}
	}

	return &customerService{
		repo:   repo,
		pub:    pub,
		logger: logger.With(slog.String("component", "customerService")),
	}
}

func (s *customerService) RegisterCustomer(ctx context.Context, firstName, lastName string, age int, monthlyIncome int64, phoneNumber string) (*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to register new customer")

	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	phoneNumber = strings.TrimSpace(phoneNumber)
	if firstName == "" {
		s.logger.WarnContext(ctx, "Validation failed: first name is empty")
		return nil, apperrors.NewValidationError("firstName", "cannot be empty")
	}
	if lastName == "" {
		s.logger.WarnContext(ctx, "Validation failed: last name is empty")
		return nil, apperrors.NewValidationError("lastName", "cannot be empty")
	}
	if age <= 0 {
		s.logger.WarnContext(ctx, "Validation failed: non-positive age", slog.Int("age", age))
		return nil, apperrors.NewValidationError("age", "must be positive")
	}
	if monthlyIncome < 0 {
		s.logger.WarnContext(ctx, "Validation failed: negative monthly income")
		return nil, apperrors.NewValidationError("monthlyIncome", "cannot be negative")
	}
	if phoneNumber == "" {
		s.logger.WarnContext(ctx, "Validation failed: phone number is empty")
		return nil, apperrors.NewValidationError("phoneNumber", "cannot be empty")
	}
	s.logger.InfoContext(ctx, inputValidationPassed)

	cust := NewCustomer(firstName, lastName, age, monthlyIncome, phoneNumber)

	if err := s.repo.Save(ctx, cust); err != nil {
		if errors.Is(err, ErrDuplicatePhoneNumber) || errors.Is(err, apperrors.ErrAlreadyExists) {
			s.logger.WarnContext(ctx, "Duplicate phone number", slog.String("phone", phoneNumber))
			return nil, fmt.Errorf("%w: phone number %s already registered", apperrors.ErrConflict, phoneNumber)
		}
		s.logger.ErrorContext(ctx, "Failed to save customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save customer: %w", err)
	}

	monitoring.RecordCustomerRegistered()
	s.publishRegisteredEvent(ctx, cust)
	s.logger.InfoContext(ctx, "Customer registered", slog.Int64("customerID", cust.CustomerID), slog.Int64("approvedLimit", cust.ApprovedLimit))

	return cust, nil
}

func (s *customerService) GetCustomer(ctx context.Context, customerID int64) (*Customer, error) {
	if customerID <= 0 {
		return nil, fmt.Errorf("%w: customer ID must be positive", apperrors.ErrInvalidArgument)
	}

	cust, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Customer not found", slog.Int64("customerID", customerID))
			return nil, fmt.Errorf("%w: customer %d", apperrors.ErrNotFound, customerID)
		}
		s.logger.ErrorContext(ctx, "Failed to load customer", slog.Int64("customerID", customerID), slog.Any("error", err))
		return nil, fmt.Errorf("failed to load customer %d: %w", customerID, err)
	}
	return cust, nil
}

func (s *customerService) publishRegisteredEvent(ctx context.Context, cust *Customer) {
	evt := event.CustomerRegisteredEvent{
		CustomerID:    cust.CustomerID,
		MonthlyIncome: cust.MonthlyIncome,
		ApprovedLimit: cust.ApprovedLimit,
		Timestamp:     cust.CreatedAt,
	}
	if err := s.pub.PublishCustomerRegistered(ctx, evt); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish customer registered event", slog.Any("error", err))
	}
}
