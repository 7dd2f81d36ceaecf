package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

type LoanStatus string

const (
	StatusActive  LoanStatus = "ACTIVE"
	StatusRetired LoanStatus = "RETIRED"
)

// daysPerInstallment spaces the loan end date: end = start + 30 * tenure days.
const daysPerInstallment = 30

type Loan struct {
	ID                 int64
	CustomerID         int64
	Principal          decimal.Decimal
	TenureMonths       int
	AnnualRatePercent  decimal.Decimal
	MonthlyInstallment decimal.Decimal
	EMIsPaidOnTime     int
	StartDate          time.Time
	EndDate            time.Time
	Status             LoanStatus
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func NewLoan(customerID int64, principal decimal.Decimal, tenureMonths int, annualRatePercent, installment decimal.Decimal, startDate time.Time) *Loan {
	return &Loan{
		CustomerID:         customerID,
		Principal:          principal,
		TenureMonths:       tenureMonths,
		AnnualRatePercent:  annualRatePercent,
		MonthlyInstallment: installment,
		EMIsPaidOnTime:     0,
		StartDate:          startDate,
		EndDate:            startDate.AddDate(0, 0, daysPerInstallment*tenureMonths),
		Status:             StatusActive,
	}
}

// IsActive reports whether the loan is current as of the given date:
// the end date has not yet passed.
func (l *Loan) IsActive(asOf time.Time) bool {
	return !l.EndDate.Before(truncateToDay(asOf))
}

func (l *Loan) RepaymentsLeft() int {
	left := l.TenureMonths - l.EMIsPaidOnTime
	if left < 0 {
		return 0
	}
	return left
}

// ActiveLoans filters a history snapshot down to the loans current as of a date.
func ActiveLoans(loans []*Loan, asOf time.Time) []*Loan {
	active := make([]*Loan, 0, len(loans))
	for _, l := range loans {
		if l.IsActive(asOf) {
			active = append(active, l)
		}
	}
	return active
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
