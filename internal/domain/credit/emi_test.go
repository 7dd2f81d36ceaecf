package credit

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeInstallment(t *testing.T) {
	t.Run("computes a standard amortized installment", func(t *testing.T) {
		principal := decimal.NewFromInt(250000)
		rate := decimal.NewFromInt(12)

		installment := ComputeInstallment(principal, rate, 24)

		assert.Equal(t, "11768.37", installment.StringFixed(2))
	})

	t.Run("zero rate divides the principal evenly", func(t *testing.T) {
		principal := decimal.NewFromInt(120000)

		installment := ComputeInstallment(principal, decimal.Zero, 12)

		assert.Equal(t, "10000.00", installment.StringFixed(2))
	})

	t.Run("zero rate rounds half to even", func(t *testing.T) {
		principal := decimal.NewFromInt(100)

		installment := ComputeInstallment(principal, decimal.Zero, 3)

		assert.Equal(t, "33.33", installment.StringFixed(2))
	})

	t.Run("non-positive tenure yields zero", func(t *testing.T) {
		principal := decimal.NewFromInt(250000)
		rate := decimal.NewFromInt(12)

		assert.True(t, ComputeInstallment(principal, rate, 0).IsZero())
		assert.True(t, ComputeInstallment(principal, rate, -5).IsZero())
	})

	t.Run("single month tenure repays principal plus one month of interest", func(t *testing.T) {
		principal := decimal.NewFromInt(100000)
		rate := decimal.NewFromInt(12)

		installment := ComputeInstallment(principal, rate, 1)

		assert.Equal(t, "101000.00", installment.StringFixed(2))
	})

	t.Run("total repaid never falls below the principal", func(t *testing.T) {
		principal := decimal.NewFromInt(500000)
		rate := decimal.NewFromFloat(8.5)
		tenure := 60

		installment := ComputeInstallment(principal, rate, tenure)
		total := installment.Mul(decimal.NewFromInt(int64(tenure)))

		assert.True(t, total.GreaterThan(principal),
			"total %s should exceed principal %s", total, principal)
	})
}

func TestPowInt(t *testing.T) {
	base := decimal.NewFromFloat(1.01)

	assert.True(t, powInt(base, 0).Equal(decimal.NewFromInt(1)))
	assert.True(t, powInt(base, 1).Equal(base))
	assert.True(t, powInt(base, 2).Equal(base.Mul(base)))
	assert.True(t, powInt(base, 5).Equal(base.Mul(base).Mul(base).Mul(base).Mul(base)))
}
