package credit

import "github.com/shopspring/decimal"

// Score slab boundaries. Each bound is exclusive on the low side: a score of
// exactly 50 lands in the middle slab, exactly 10 is rejected.
const (
	slabTopAbove    = 50
	slabMiddleAbove = 30
	slabRejectAt    = 10
)

var (
	slabFloorMiddle = decimal.NewFromInt(12)
	slabFloorBottom = decimal.NewFromInt(16)
)

// ApplySlab maps a credit score to an allow/deny outcome and the minimum
// acceptable interest rate. The requested rate is only ever raised, never
// lowered, and is returned unchanged on denial.
func ApplySlab(score int, requestedRate decimal.Decimal) (allowed bool, effectiveRate decimal.Decimal) {
	switch {
	case score > slabTopAbove:
		return true, requestedRate
	case score > slabMiddleAbove:
		return true, decimal.Max(requestedRate, slabFloorMiddle)
	case score > slabRejectAt:
		return true, decimal.Max(requestedRate, slabFloorBottom)
	default:
		return false, requestedRate
	}
}
