package credit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"credit-engine/internal/domain/customer"
	"credit-engine/internal/domain/loan"
	"credit-engine/internal/event"
	"credit-engine/internal/infrastructure/monitoring"
	"credit-engine/internal/pkg/apperrors"
)

// MaxTenureMonths bounds requested tenures to a sane maximum (50 years).
const MaxTenureMonths = 600

const (
	msgApproved = "Loan approved"
	msgRejected = "Loan not approved based on credit rules/affordability."
)

type EvaluationRequest struct {
	CustomerID   int64
	LoanAmount   decimal.Decimal
	InterestRate decimal.Decimal
	TenureMonths int
}

func (r *EvaluationRequest) Validate() error {
	if r.CustomerID <= 0 {
		return apperrors.NewValidationError("customerId", "must be positive")
	}
	if r.LoanAmount.LessThanOrEqual(decimal.Zero) {
		return apperrors.NewValidationError("loanAmount", "must be greater than zero")
	}
	if r.InterestRate.LessThan(decimal.Zero) {
		return apperrors.NewValidationError("interestRate", "cannot be negative")
	}
	if r.TenureMonths <= 0 {
		return apperrors.NewValidationError("tenure", "must be positive")
	}
	if r.TenureMonths > MaxTenureMonths {
		return apperrors.NewValidationError("tenure", fmt.Sprintf("cannot exceed %d months", MaxTenureMonths))
	}
	return nil
}

// Evaluation is the terminal state of one decision pass.
type Evaluation struct {
	CustomerID            int64
	Approved              bool
	Score                 int
	InterestRate          decimal.Decimal
	CorrectedInterestRate decimal.Decimal
	TenureMonths          int
	MonthlyInstallment    decimal.Decimal
}

type CreationResult struct {
	LoanID             *int64
	CustomerID         int64
	Approved           bool
	Message            string
	MonthlyInstallment decimal.Decimal
}

type DecisionService interface {
	// Evaluate runs the decision pipeline against the current snapshot with no
	// side effects.
	Evaluate(ctx context.Context, req EvaluationRequest) (*Evaluation, error)

	// CreateLoan re-runs the evaluation under the per-customer lock and
	// persists a loan when the decision is an approval.
	CreateLoan(ctx context.Context, req EvaluationRequest) (*CreationResult, error)
}

type decisionService struct {
	customers customer.CustomerRepository
	loans     loan.Repository
	pub       event.EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewDecisionService(customers customer.CustomerRepository, loans loan.Repository, pub event.EventPublisher, logger *slog.Logger) DecisionService {
	if customers == nil || loans == nil {
		panic("decision service repositories cannot be nil")
	}
	if pub == nil {
		pub = event.NoopPublisher{}
	}
	return &decisionService{
		customers: customers,
		loans:     loans,
		pub:       pub,
		logger:    logger.With(slog.String("component", "decisionService")),
		now:       time.Now,
	}
}

func (s *decisionService) Evaluate(ctx context.Context, req EvaluationRequest) (*Evaluation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cust, err := s.customers.FindByID(ctx, req.CustomerID)
	if err != nil {
		return nil, s.translateCustomerError(ctx, req.CustomerID, err)
	}

	history, err := s.loans.FindByCustomer(ctx, req.CustomerID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load loan history", slog.Int64("customerID", req.CustomerID), slog.Any("error", err))
		return nil, fmt.Errorf("failed to load loan history for customer %d: %w", req.CustomerID, err)
	}

	eval := evaluateSnapshot(cust, history, req, s.now())
	monitoring.RecordDecision(outcomeLabel(eval.Approved))
	s.logger.InfoContext(ctx, "Eligibility evaluated",
		slog.Int64("customerID", req.CustomerID),
		slog.Int("score", eval.Score),
		slog.Bool("approved", eval.Approved),
		slog.String("correctedRate", eval.CorrectedInterestRate.String()),
	)
	return eval, nil
}

func (s *decisionService) CreateLoan(ctx context.Context, req EvaluationRequest) (result *CreationResult, err error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.loans.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: could not begin decision transaction: %v", apperrors.ErrInternalServer, err)
	}
	defer func() {
		if err != nil {
			_ = s.loans.RollbackTx(ctx, tx)
		}
	}()

	// The row lock serializes concurrent create-loan calls for this customer:
	// the snapshot read below cannot go stale before the write commits.
	cust, err := s.loans.LockCustomerForDecision(ctx, tx, req.CustomerID)
	if err != nil {
		return nil, s.translateCustomerError(ctx, req.CustomerID, err)
	}

	history, err := s.loans.FindByCustomerInTx(ctx, tx, req.CustomerID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load loan history in decision transaction", slog.Int64("customerID", req.CustomerID), slog.Any("error", err))
		return nil, fmt.Errorf("failed to load loan history for customer %d: %w", req.CustomerID, err)
	}

	evaluationDate := s.now()
	eval := evaluateSnapshot(cust, history, req, evaluationDate)
	monitoring.RecordDecision(outcomeLabel(eval.Approved))

	if !eval.Approved {
		if rbErr := s.loans.RollbackTx(ctx, tx); rbErr != nil {
			s.logger.WarnContext(ctx, "Failed to release decision transaction after rejection", slog.Any("error", rbErr))
		}
		s.publishDecisionEvent(ctx, eval, nil)
		s.logger.InfoContext(ctx, "Loan rejected", slog.Int64("customerID", req.CustomerID), slog.Int("score", eval.Score))
		return &CreationResult{
			LoanID:             nil,
			CustomerID:         req.CustomerID,
			Approved:           false,
			Message:            msgRejected,
			MonthlyInstallment: eval.MonthlyInstallment,
		}, nil
	}

	startDate := truncateToDay(evaluationDate)
	newLoan := loan.NewLoan(cust.CustomerID, req.LoanAmount, req.TenureMonths, eval.CorrectedInterestRate, eval.MonthlyInstallment, startDate)

	created, err := s.loans.CreateInTx(ctx, tx, newLoan)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist approved loan", slog.Int64("customerID", req.CustomerID), slog.Any("error", err))
		return nil, fmt.Errorf("failed to persist approved loan: %w", err)
	}

	if err = s.loans.CommitTx(ctx, tx); err != nil {
		return nil, fmt.Errorf("%w: could not commit decision transaction: %v", apperrors.ErrInternalServer, err)
	}

	monitoring.RecordLoanCreated()
	s.publishDecisionEvent(ctx, eval, &created.ID)
	s.logger.InfoContext(ctx, "Loan created",
		slog.Int64("loanID", created.ID),
		slog.Int64("customerID", cust.CustomerID),
		slog.String("installment", created.MonthlyInstallment.StringFixed(2)),
	)

	return &CreationResult{
		LoanID:             &created.ID,
		CustomerID:         cust.CustomerID,
		Approved:           true,
		Message:            msgApproved,
		MonthlyInstallment: created.MonthlyInstallment,
	}, nil
}

// evaluateSnapshot is the pure decision pipeline:
// Scored -> RateAdjusted -> AffordabilityChecked -> Decided, one pass, no
// branching back. Affordability runs against the requested-rate installment;
// the slab correction applies only on the path that survives it.
func evaluateSnapshot(cust *customer.Customer, history []*loan.Loan, req EvaluationRequest, evaluationDate time.Time) *Evaluation {
	score := Score(cust, history, evaluationDate)
	installmentAtRequested := ComputeInstallment(req.LoanAmount, req.InterestRate, req.TenureMonths)
	active := loan.ActiveLoans(history, evaluationDate)

	if !IsAffordable(cust, active, installmentAtRequested) {
		return &Evaluation{
			CustomerID:            cust.CustomerID,
			Approved:              false,
			Score:                 score,
			InterestRate:          req.InterestRate,
			CorrectedInterestRate: req.InterestRate,
			TenureMonths:          req.TenureMonths,
			MonthlyInstallment:    installmentAtRequested,
		}
	}

	allowed, correctedRate := ApplySlab(score, req.InterestRate)
	installmentAtCorrected := ComputeInstallment(req.LoanAmount, correctedRate, req.TenureMonths)

	return &Evaluation{
		CustomerID:            cust.CustomerID,
		Approved:              allowed && score > slabRejectAt,
		Score:                 score,
		InterestRate:          req.InterestRate,
		CorrectedInterestRate: correctedRate,
		TenureMonths:          req.TenureMonths,
		MonthlyInstallment:    installmentAtCorrected,
	}
}

func (s *decisionService) translateCustomerError(ctx context.Context, customerID int64, err error) error {
	if errors.Is(err, customer.ErrNotFound) || errors.Is(err, apperrors.ErrNotFound) {
		s.logger.WarnContext(ctx, "Customer not found", slog.Int64("customerID", customerID))
		return fmt.Errorf("%w: customer %d", apperrors.ErrNotFound, customerID)
	}
	s.logger.ErrorContext(ctx, "Failed to load customer", slog.Int64("customerID", customerID), slog.Any("error", err))
	return fmt.Errorf("failed to load customer %d: %w", customerID, err)
}

func (s *decisionService) publishDecisionEvent(ctx context.Context, eval *Evaluation, loanID *int64) {
	evt := event.LoanDecisionEvent{
		CustomerID:            eval.CustomerID,
		LoanID:                loanID,
		Approved:              eval.Approved,
		CreditScore:           eval.Score,
		CorrectedInterestRate: eval.CorrectedInterestRate.String(),
		MonthlyInstallment:    eval.MonthlyInstallment.StringFixed(2),
		Timestamp:             s.now(),
	}
	if err := s.pub.PublishLoanDecision(ctx, evt); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish loan decision event", slog.Any("error", err))
	}
}

func outcomeLabel(approved bool) string {
	if approved {
		return "approved"
	}
	return "rejected"
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
