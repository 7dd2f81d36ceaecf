package dto

import (
	"fmt"

	"github.com/shopspring/decimal"

	"credit-engine/internal/domain/credit"
	"credit-engine/internal/domain/loan"
)

const dateLayout = "2006-01-02"

type EligibilityRequest struct {
	CustomerID   int64           `json:"customerId"`
	LoanAmount   decimal.Decimal `json:"loanAmount"`
	InterestRate decimal.Decimal `json:"interestRate"`
	TenureMonths int             `json:"tenure"`
}

func (r *EligibilityRequest) Validate() error {
	if r.CustomerID <= 0 {
		return fmt.Errorf("customerId must be positive")
	}
	if r.LoanAmount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("loanAmount must be greater than zero")
	}
	if r.InterestRate.LessThan(decimal.Zero) {
		return fmt.Errorf("interestRate cannot be negative")
	}
	if r.TenureMonths <= 0 {
		return fmt.Errorf("tenure must be positive")
	}
	return nil
}

func (r *EligibilityRequest) ToEvaluationRequest() credit.EvaluationRequest {
	return credit.EvaluationRequest{
		CustomerID:   r.CustomerID,
		LoanAmount:   r.LoanAmount,
		InterestRate: r.InterestRate,
		TenureMonths: r.TenureMonths,
	}
}

type EligibilityResponse struct {
	CustomerID            int64  `json:"customerId"`
	Approval              bool   `json:"approval"`
	InterestRate          string `json:"interestRate"`
	CorrectedInterestRate string `json:"correctedInterestRate"`
	TenureMonths          int    `json:"tenure"`
	MonthlyInstallment    string `json:"monthlyInstallment"`
}

func NewEligibilityResponse(eval *credit.Evaluation) EligibilityResponse {
	return EligibilityResponse{
		CustomerID:            eval.CustomerID,
		Approval:              eval.Approved,
		InterestRate:          eval.InterestRate.String(),
		CorrectedInterestRate: eval.CorrectedInterestRate.String(),
		TenureMonths:          eval.TenureMonths,
		MonthlyInstallment:    eval.MonthlyInstallment.StringFixed(2),
	}
}

type CreateLoanResponse struct {
	LoanID             *int64 `json:"loanId"`
	CustomerID         int64  `json:"customerId"`
	LoanApproved       bool   `json:"loanApproved"`
	Message            string `json:"message"`
	MonthlyInstallment string `json:"monthlyInstallment"`
}

func NewCreateLoanResponse(res *credit.CreationResult) CreateLoanResponse {
	return CreateLoanResponse{
		LoanID:             res.LoanID,
		CustomerID:         res.CustomerID,
		LoanApproved:       res.Approved,
		Message:            res.Message,
		MonthlyInstallment: res.MonthlyInstallment.StringFixed(2),
	}
}

type LoanDetailResponse struct {
	LoanID             int64                   `json:"loanId"`
	Customer           CustomerSummaryResponse `json:"customer"`
	LoanAmount         string                  `json:"loanAmount"`
	InterestRate       string                  `json:"interestRate"`
	MonthlyInstallment string                  `json:"monthlyInstallment"`
	TenureMonths       int                     `json:"tenure"`
	StartDate          string                  `json:"startDate"`
	EndDate            string                  `json:"endDate"`
	Status             string                  `json:"status"`
}

func NewLoanDetailResponse(l *loan.Loan, cust CustomerSummaryResponse) LoanDetailResponse {
	return LoanDetailResponse{
		LoanID:             l.ID,
		Customer:           cust,
		LoanAmount:         l.Principal.StringFixed(2),
		InterestRate:       l.AnnualRatePercent.String(),
		MonthlyInstallment: l.MonthlyInstallment.StringFixed(2),
		TenureMonths:       l.TenureMonths,
		StartDate:          l.StartDate.Format(dateLayout),
		EndDate:            l.EndDate.Format(dateLayout),
		Status:             string(l.Status),
	}
}

type CustomerLoanItem struct {
	LoanID             int64  `json:"loanId"`
	LoanAmount         string `json:"loanAmount"`
	InterestRate       string `json:"interestRate"`
	MonthlyInstallment string `json:"monthlyInstallment"`
	RepaymentsLeft     int    `json:"repaymentsLeft"`
}

func NewCustomerLoanItem(l *loan.Loan) CustomerLoanItem {
	return CustomerLoanItem{
		LoanID:             l.ID,
		LoanAmount:         l.Principal.StringFixed(2),
		InterestRate:       l.AnnualRatePercent.String(),
		MonthlyInstallment: l.MonthlyInstallment.StringFixed(2),
		RepaymentsLeft:     l.RepaymentsLeft(),
	}
}

type IngestResponse struct {
	Message string `json:"message"`
}

type ErrorDetail struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type TokenRequest struct {
	Username string `json:"username"`
}
