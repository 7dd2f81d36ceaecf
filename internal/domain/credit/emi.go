package credit

import "github.com/shopspring/decimal"

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// ComputeInstallment computes the equal monthly installment for a principal at
// an annual percentage rate over a tenure in months, rounded half-to-even to
// 2 decimal places. A non-positive tenure yields zero. The monthly rate keeps
// full precision until the final rounding step.
func ComputeInstallment(principal, annualRatePercent decimal.Decimal, tenureMonths int) decimal.Decimal {
	if tenureMonths <= 0 {
		return decimal.Zero
	}

	months := decimal.NewFromInt(int64(tenureMonths))
	monthlyRate := annualRatePercent.Div(hundred).Div(twelve)
	if monthlyRate.IsZero() {
		return principal.Div(months).RoundBank(2)
	}

	// EMI = P * r * (1+r)^n / ((1+r)^n - 1)
	growth := powInt(one.Add(monthlyRate), tenureMonths)
	installment := principal.Mul(monthlyRate).Mul(growth).Div(growth.Sub(one))
	return installment.RoundBank(2)
}

// powInt raises base to a non-negative integer power by binary exponentiation.
// Decimal multiplication is exact, so precision is lost only at the division
// in ComputeInstallment.
func powInt(base decimal.Decimal, exp int) decimal.Decimal {
	result := one
	for exp > 0 {
		if exp&1 == 1 {
			result = result.Mul(base)
		}
		base = base.Mul(base)
		exp >>= 1
	}
	return result
}
