package dto

import (
	"fmt"
	"time"

	"credit-engine/internal/domain/customer"
)

type RegisterCustomerRequest struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Age           int    `json:"age"`
	MonthlyIncome int64  `json:"monthlyIncome"`
	PhoneNumber   string `json:"phoneNumber"`
}

func (r *RegisterCustomerRequest) Validate() error {
	if r.FirstName == "" {
		return fmt.Errorf("firstName cannot be empty")
	}
	if r.LastName == "" {
		return fmt.Errorf("lastName cannot be empty")
	}
	if r.Age <= 0 {
		return fmt.Errorf("age must be positive")
	}
	if r.MonthlyIncome <= 0 {
		return fmt.Errorf("monthlyIncome must be positive")
	}
	if r.PhoneNumber == "" {
		return fmt.Errorf("phoneNumber cannot be empty")
	}
	return nil
}

type CustomerResponse struct {
	CustomerID    int64     `json:"customerId"`
	Name          string    `json:"name"`
	Age           int       `json:"age"`
	MonthlyIncome int64     `json:"monthlyIncome"`
	ApprovedLimit int64     `json:"approvedLimit"`
	PhoneNumber   string    `json:"phoneNumber"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func NewCustomerResponse(c *customer.Customer) CustomerResponse {
	return CustomerResponse{
		CustomerID:    c.CustomerID,
		Name:          fmt.Sprintf("%s %s", c.FirstName, c.LastName),
		Age:           c.Age,
		MonthlyIncome: c.MonthlyIncome,
		ApprovedLimit: c.ApprovedLimit,
		PhoneNumber:   c.PhoneNumber,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

type CustomerSummaryResponse struct {
	CustomerID  int64  `json:"customerId"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Age         int    `json:"age"`
	PhoneNumber string `json:"phoneNumber"`
}

func NewCustomerSummaryResponse(c *customer.Customer) CustomerSummaryResponse {
	return CustomerSummaryResponse{
		CustomerID:  c.CustomerID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Age:         c.Age,
		PhoneNumber: c.PhoneNumber,
	}
}
