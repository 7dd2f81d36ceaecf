package credit

import (
	"time"

	"github.com/shopspring/decimal"

	"credit-engine/internal/domain/customer"
	"credit-engine/internal/domain/loan"
)

const (
	ScoreMin = 0
	ScoreMax = 100

	// neutralScore is assigned to customers with no loan history at all.
	neutralScore = 60

	weightOnTimeRatio    = 40
	weightLoanCount      = 15
	weightYearActivity   = 15
	weightApprovedVolume = 30

	yearActivityPenaltyPerLoan = 3
)

var (
	volumeRatioLow  = decimal.NewFromFloat(0.5)
	volumeRatioMid  = decimal.NewFromInt(1)
	volumeRatioHigh = decimal.NewFromInt(2)
)

// Score aggregates a customer's loan history into a creditworthiness score in
// [0,100]. It is a pure function of the snapshot and the evaluation date.
func Score(cust *customer.Customer, history []*loan.Loan, evaluationDate time.Time) int {
	// Hard stop: active principal above the approved limit zeroes the score.
	activePrincipal := decimal.Zero
	for _, l := range history {
		if l.IsActive(evaluationDate) {
			activePrincipal = activePrincipal.Add(l.Principal)
		}
	}
	if activePrincipal.GreaterThan(decimal.NewFromInt(cust.ApprovedLimit)) {
		return ScoreMin
	}

	if len(history) == 0 {
		return neutralScore
	}

	total := onTimeContribution(history).
		Add(decimal.NewFromInt(loanCountContribution(len(history)))).
		Add(decimal.NewFromInt(yearActivityContribution(history, evaluationDate)))
	total = total.Add(decimal.NewFromInt(volumeContribution(history, cust.ApprovedLimit)))

	score := int(total.RoundBank(0).IntPart())
	if score < ScoreMin {
		return ScoreMin
	}
	if score > ScoreMax {
		return ScoreMax
	}
	return score
}

// onTimeContribution weighs the share of installments paid on schedule across
// the whole history. Zero total tenure counts as a perfect ratio.
func onTimeContribution(history []*loan.Loan) decimal.Decimal {
	var totalTenure, totalOnTime int64
	for _, l := range history {
		totalTenure += int64(l.TenureMonths)
		totalOnTime += int64(l.EMIsPaidOnTime)
	}

	ratio := one
	if totalTenure > 0 {
		ratio = decimal.NewFromInt(totalOnTime).Div(decimal.NewFromInt(totalTenure))
	}
	if ratio.LessThan(decimal.Zero) {
		ratio = decimal.Zero
	}
	if ratio.GreaterThan(one) {
		ratio = one
	}
	return ratio.Mul(decimal.NewFromInt(weightOnTimeRatio))
}

// loanCountContribution rewards thinner files: fewer past loans score higher.
func loanCountContribution(count int) int64 {
	switch {
	case count <= 2:
		return weightLoanCount
	case count <= 5:
		return 10
	default:
		return 5
	}
}

// yearActivityContribution penalizes each loan started in the evaluation year.
func yearActivityContribution(history []*loan.Loan, evaluationDate time.Time) int64 {
	var count int64
	for _, l := range history {
		if l.StartDate.Year() == evaluationDate.Year() {
			count++
		}
	}
	contribution := weightYearActivity - yearActivityPenaltyPerLoan*count
	if contribution < 0 {
		return 0
	}
	return contribution
}

// volumeContribution compares lifetime borrowed principal against the approved
// limit. A non-positive limit falls back to a divisor of one.
func volumeContribution(history []*loan.Loan, approvedLimit int64) int64 {
	volume := decimal.Zero
	for _, l := range history {
		volume = volume.Add(l.Principal)
	}

	limit := decimal.NewFromInt(approvedLimit)
	if limit.LessThanOrEqual(decimal.Zero) {
		limit = one
	}
	ratio := volume.Div(limit)

	switch {
	case ratio.LessThanOrEqual(volumeRatioLow):
		return weightApprovedVolume
	case ratio.LessThanOrEqual(volumeRatioMid):
		return 20
	case ratio.LessThanOrEqual(volumeRatioHigh):
		return 10
	default:
		return 0
	}
}
