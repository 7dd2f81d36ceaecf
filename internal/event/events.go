package event

import (
	"context"
	"time"
)

type CustomerRegisteredEvent struct {
	CustomerID    int64     `json:"customerId"`
	MonthlyIncome int64     `json:"monthlyIncome"`
	ApprovedLimit int64     `json:"approvedLimit"`
	Timestamp     time.Time `json:"timestamp"`
}

type LoanDecisionEvent struct {
	CustomerID            int64     `json:"customerId"`
	LoanID                *int64    `json:"loanId,omitempty"`
	Approved              bool      `json:"approved"`
	CreditScore           int       `json:"creditScore"`
	CorrectedInterestRate string    `json:"correctedInterestRate"`
	MonthlyInstallment    string    `json:"monthlyInstallment"`
	Timestamp             time.Time `json:"timestamp"`
}

type EventPublisher interface {
	PublishCustomerRegistered(ctx context.Context, event CustomerRegisteredEvent) error
	PublishLoanDecision(ctx context.Context, event LoanDecisionEvent) error
}

// NoopPublisher satisfies EventPublisher when messaging is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishCustomerRegistered(context.Context, CustomerRegisteredEvent) error {
	return nil
}

func (NoopPublisher) PublishLoanDecision(context.Context, LoanDecisionEvent) error {
	return nil
}
