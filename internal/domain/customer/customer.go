package customer

import (
	"time"

	"github.com/shopspring/decimal"
)

// approvedLimitGranularity is the unit the pre-cleared limit is rounded to at
// registration time (36x monthly income, nearest 100,000).
const approvedLimitGranularity = 100_000

const approvedLimitIncomeMultiplier = 36

type Customer struct {
	CustomerID    int64     `json:"customerId"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	Age           int       `json:"age"`
	PhoneNumber   string    `json:"phoneNumber"`
	MonthlyIncome int64     `json:"monthlyIncome"`
	ApprovedLimit int64     `json:"approvedLimit"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func NewCustomer(firstName, lastName string, age int, monthlyIncome int64, phoneNumber string) *Customer {
	now := time.Now()
	return &Customer{
		FirstName:     firstName,
		LastName:      lastName,
		Age:           age,
		PhoneNumber:   phoneNumber,
		MonthlyIncome: monthlyIncome,
		ApprovedLimit: ApprovedLimitFor(monthlyIncome),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// ApprovedLimitFor computes the pre-cleared aggregate principal for an income:
// 36x monthly income, rounded half-to-even to the nearest 100,000.
func ApprovedLimitFor(monthlyIncome int64) int64 {
	granularity := decimal.NewFromInt(approvedLimitGranularity)
	limit := decimal.NewFromInt(monthlyIncome * approvedLimitIncomeMultiplier)
	return limit.Div(granularity).RoundBank(0).Mul(granularity).IntPart()
}

func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

// IncomeCap is the affordability ceiling: half of monthly income.
func (c *Customer) IncomeCap() decimal.Decimal {
	return decimal.NewFromInt(c.MonthlyIncome).Div(decimal.NewFromInt(2))
}
