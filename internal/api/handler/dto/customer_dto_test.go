package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"credit-engine/internal/domain/customer"
)

func validRegisterRequest() RegisterCustomerRequest {
	return RegisterCustomerRequest{
		FirstName:     "Asha",
		LastName:      "Rao",
		Age:           34,
		MonthlyIncome: 60000,
		PhoneNumber:   "9876543210",
	}
}

func TestRegisterCustomerRequestValidate(t *testing.T) {
	t.Run("accepts a valid request", func(t *testing.T) {
		req := validRegisterRequest()
		assert.NoError(t, req.Validate())
	})

	t.Run("rejects invalid fields", func(t *testing.T) {
		cases := []struct {
			name    string
			mutate  func(*RegisterCustomerRequest)
			wantMsg string
		}{
			{"empty first name", func(r *RegisterCustomerRequest) { r.FirstName = "" }, "firstName"},
			{"empty last name", func(r *RegisterCustomerRequest) { r.LastName = "" }, "lastName"},
			{"zero age", func(r *RegisterCustomerRequest) { r.Age = 0 }, "age"},
			{"negative income", func(r *RegisterCustomerRequest) { r.MonthlyIncome = -1 }, "monthlyIncome"},
			{"empty phone number", func(r *RegisterCustomerRequest) { r.PhoneNumber = "" }, "phoneNumber"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				req := validRegisterRequest()
				tc.mutate(&req)
				err := req.Validate()
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantMsg)
			})
		}
	})
}

func TestNewCustomerResponse(t *testing.T) {
	now := time.Now()
	cust := &customer.Customer{
		CustomerID:    42,
		FirstName:     "Asha",
		LastName:      "Rao",
		Age:           34,
		PhoneNumber:   "9876543210",
		MonthlyIncome: 60000,
		ApprovedLimit: 2200000,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	resp := NewCustomerResponse(cust)

	assert.Equal(t, int64(42), resp.CustomerID)
	assert.Equal(t, "Asha Rao", resp.Name)
	assert.Equal(t, 34, resp.Age)
	assert.Equal(t, int64(60000), resp.MonthlyIncome)
	assert.Equal(t, int64(2200000), resp.ApprovedLimit)
	assert.Equal(t, "9876543210", resp.PhoneNumber)
	assert.Equal(t, now, resp.CreatedAt)
	assert.Equal(t, now, resp.UpdatedAt)
}

func TestNewCustomerSummaryResponse(t *testing.T) {
	cust := &customer.Customer{
		CustomerID:  42,
		FirstName:   "Asha",
		LastName:    "Rao",
		Age:         34,
		PhoneNumber: "9876543210",
	}

	resp := NewCustomerSummaryResponse(cust)

	assert.Equal(t, int64(42), resp.CustomerID)
	assert.Equal(t, "Asha", resp.FirstName)
	assert.Equal(t, "Rao", resp.LastName)
	assert.Equal(t, 34, resp.Age)
	assert.Equal(t, "9876543210", resp.PhoneNumber)
}
