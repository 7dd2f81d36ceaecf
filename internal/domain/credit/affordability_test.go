package credit

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"credit-engine/internal/domain/loan"
)

func TestIsAffordable(t *testing.T) {
	cust := scoredCustomer(2200000) // monthly income 60000, cap 30000
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("candidate at exactly half income is affordable", func(t *testing.T) {
		ok := IsAffordable(cust, nil, decimal.NewFromInt(30000))

		assert.True(t, ok)
	})

	t.Run("candidate a cent over half income is not", func(t *testing.T) {
		ok := IsAffordable(cust, nil, decimal.NewFromFloat(30000.01))

		assert.False(t, ok)
	})

	t.Run("committed installments count against the cap", func(t *testing.T) {
		active := historyLoan(100000, 24, 0, start)
		active.MonthlyInstallment = decimal.NewFromInt(20000)

		assert.True(t, IsAffordable(cust, []*loan.Loan{active}, decimal.NewFromInt(10000)))
		assert.False(t, IsAffordable(cust, []*loan.Loan{active}, decimal.NewFromFloat(10000.01)))
	})

	t.Run("zero candidate against a full book is still affordable", func(t *testing.T) {
		active := historyLoan(100000, 24, 0, start)
		active.MonthlyInstallment = decimal.NewFromInt(30000)

		assert.True(t, IsAffordable(cust, []*loan.Loan{active}, decimal.Zero))
	})
}
