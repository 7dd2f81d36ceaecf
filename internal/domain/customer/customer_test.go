package customer

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestApprovedLimitFor(t *testing.T) {
	cases := []struct {
		income int64
		want   int64
	}{
		{60000, 2200000},  // 2,160,000 rounds up
		{50000, 1800000},  // exact multiple
		{10000, 400000},   // 360,000 rounds up
		{1000, 0},         // 36,000 rounds down
		{1389, 100000},    // 50,004 rounds up past the midpoint
		{0, 0},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, ApprovedLimitFor(tc.income), "income %d", tc.income)
	}
}

func TestNewCustomer(t *testing.T) {
	cust := NewCustomer("Asha", "Rao", 34, 60000, "9876543210")

	assert.Equal(t, "Asha", cust.FirstName)
	assert.Equal(t, int64(2200000), cust.ApprovedLimit)
	assert.False(t, cust.CreatedAt.IsZero())
	assert.Equal(t, cust.CreatedAt, cust.UpdatedAt)
}

func TestFullName(t *testing.T) {
	cust := &Customer{FirstName: "Asha", LastName: "Rao"}

	assert.Equal(t, "Asha Rao", cust.FullName())
}

func TestIncomeCap(t *testing.T) {
	cust := &Customer{MonthlyIncome: 60000}

	assert.True(t, cust.IncomeCap().Equal(decimal.NewFromInt(30000)))

	odd := &Customer{MonthlyIncome: 33333}
	assert.Equal(t, "16666.50", odd.IncomeCap().StringFixed(2))
}
