package credit

import (
	"github.com/shopspring/decimal"

	"credit-engine/internal/domain/customer"
	"credit-engine/internal/domain/loan"
)

// IsAffordable reports whether the candidate installment fits under the income
// cap: committed active installments plus the candidate must not exceed half of
// monthly income. The boundary itself is affordable.
func IsAffordable(cust *customer.Customer, activeLoans []*loan.Loan, candidateInstallment decimal.Decimal) bool {
	committed := decimal.Zero
	for _, l := range activeLoans {
		committed = committed.Add(l.MonthlyInstallment)
	}
	return committed.Add(candidateInstallment).LessThanOrEqual(cust.IncomeCap())
}
