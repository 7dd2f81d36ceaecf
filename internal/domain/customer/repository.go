package customer

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("customer not found")

	ErrDuplicatePhoneNumber = errors.New("phone number already registered")
)

type CustomerRepository interface {
	Save(ctx context.Context, customer *Customer) error

	// Upsert inserts a customer keeping a caller-provided ID, updating the
	// existing row when the ID is already present. Used by historical ingestion.
	Upsert(ctx context.Context, customer *Customer) error

	FindByID(ctx context.Context, customerID int64) (*Customer, error)
}
