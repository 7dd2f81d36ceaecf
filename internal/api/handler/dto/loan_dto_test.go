package dto

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"credit-engine/internal/domain/credit"
	"credit-engine/internal/domain/loan"
)

func validEligibilityRequest() EligibilityRequest {
	return EligibilityRequest{
		CustomerID:   42,
		LoanAmount:   decimal.NewFromInt(250000),
		InterestRate: decimal.NewFromInt(12),
		TenureMonths: 24,
	}
}

func TestEligibilityRequestValidate(t *testing.T) {
	t.Run("accepts a valid request", func(t *testing.T) {
		req := validEligibilityRequest()
		assert.NoError(t, req.Validate())
	})

	t.Run("accepts a zero interest rate", func(t *testing.T) {
		req := validEligibilityRequest()
		req.InterestRate = decimal.Zero
		assert.NoError(t, req.Validate())
	})

	t.Run("rejects invalid fields", func(t *testing.T) {
		cases := []struct {
			name    string
			mutate  func(*EligibilityRequest)
			wantMsg string
		}{
			{"zero customer id", func(r *EligibilityRequest) { r.CustomerID = 0 }, "customerId"},
			{"negative loan amount", func(r *EligibilityRequest) { r.LoanAmount = decimal.NewFromInt(-1) }, "loanAmount"},
			{"zero loan amount", func(r *EligibilityRequest) { r.LoanAmount = decimal.Zero }, "loanAmount"},
			{"negative interest rate", func(r *EligibilityRequest) { r.InterestRate = decimal.NewFromInt(-1) }, "interestRate"},
			{"zero tenure", func(r *EligibilityRequest) { r.TenureMonths = 0 }, "tenure"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				req := validEligibilityRequest()
				tc.mutate(&req)
				err := req.Validate()
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantMsg)
			})
		}
	})
}

func TestToEvaluationRequest(t *testing.T) {
	req := validEligibilityRequest()
	eval := req.ToEvaluationRequest()

	assert.Equal(t, int64(42), eval.CustomerID)
	assert.True(t, eval.LoanAmount.Equal(decimal.NewFromInt(250000)))
	assert.True(t, eval.InterestRate.Equal(decimal.NewFromInt(12)))
	assert.Equal(t, 24, eval.TenureMonths)
}

func TestNewEligibilityResponse(t *testing.T) {
	eval := &credit.Evaluation{
		CustomerID:            42,
		Approved:              true,
		Score:                 60,
		InterestRate:          decimal.NewFromInt(12),
		CorrectedInterestRate: decimal.NewFromInt(16),
		TenureMonths:          24,
		MonthlyInstallment:    decimal.RequireFromString("11768.37"),
	}

	resp := NewEligibilityResponse(eval)

	assert.Equal(t, int64(42), resp.CustomerID)
	assert.True(t, resp.Approval)
	assert.Equal(t, "12", resp.InterestRate)
	assert.Equal(t, "16", resp.CorrectedInterestRate)
	assert.Equal(t, 24, resp.TenureMonths)
	assert.Equal(t, "11768.37", resp.MonthlyInstallment)
}

func TestNewCreateLoanResponse(t *testing.T) {
	t.Run("approved with a loan ID", func(t *testing.T) {
		loanID := int64(77)
		resp := NewCreateLoanResponse(&credit.CreationResult{
			LoanID:             &loanID,
			CustomerID:         42,
			Approved:           true,
			Message:            "Loan approved",
			MonthlyInstallment: decimal.RequireFromString("11768.37"),
		})

		assert.NotNil(t, resp.LoanID)
		assert.Equal(t, int64(77), *resp.LoanID)
		assert.True(t, resp.LoanApproved)
		assert.Equal(t, "Loan approved", resp.Message)
		assert.Equal(t, "11768.37", resp.MonthlyInstallment)
	})

	t.Run("rejected without a loan ID", func(t *testing.T) {
		resp := NewCreateLoanResponse(&credit.CreationResult{
			LoanID:             nil,
			CustomerID:         42,
			Approved:           false,
			Message:            "Loan not approved based on credit rules/affordability.",
			MonthlyInstallment: decimal.RequireFromString("11768.37"),
		})

		assert.Nil(t, resp.LoanID)
		assert.False(t, resp.LoanApproved)
	})
}

func TestNewLoanDetailResponse(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	l := &loan.Loan{
		ID:                 123,
		CustomerID:         42,
		Principal:          decimal.NewFromInt(250000),
		TenureMonths:       24,
		AnnualRatePercent:  decimal.NewFromInt(12),
		MonthlyInstallment: decimal.RequireFromString("11768.37"),
		EMIsPaidOnTime:     3,
		StartDate:          start,
		EndDate:            start.AddDate(0, 0, 720),
		Status:             loan.StatusActive,
	}
	cust := CustomerSummaryResponse{CustomerID: 42, FirstName: "Asha", LastName: "Rao", Age: 34, PhoneNumber: "9876543210"}

	resp := NewLoanDetailResponse(l, cust)

	assert.Equal(t, int64(123), resp.LoanID)
	assert.Equal(t, cust, resp.Customer)
	assert.Equal(t, "250000.00", resp.LoanAmount)
	assert.Equal(t, "12", resp.InterestRate)
	assert.Equal(t, "11768.37", resp.MonthlyInstallment)
	assert.Equal(t, 24, resp.TenureMonths)
	assert.Equal(t, "2025-03-01", resp.StartDate)
	assert.Equal(t, "2027-02-19", resp.EndDate)
	assert.Equal(t, string(loan.StatusActive), resp.Status)
}

func TestNewCustomerLoanItem(t *testing.T) {
	l := &loan.Loan{
		ID:                 7,
		Principal:          decimal.NewFromInt(250000),
		TenureMonths:       24,
		AnnualRatePercent:  decimal.NewFromInt(12),
		MonthlyInstallment: decimal.RequireFromString("11768.37"),
		EMIsPaidOnTime:     10,
	}

	item := NewCustomerLoanItem(l)

	assert.Equal(t, int64(7), item.LoanID)
	assert.Equal(t, "250000.00", item.LoanAmount)
	assert.Equal(t, "12", item.InterestRate)
	assert.Equal(t, "11768.37", item.MonthlyInstallment)
	assert.Equal(t, 14, item.RepaymentsLeft)
}
