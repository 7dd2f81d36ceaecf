package batch

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"credit-engine/internal/domain/loan"
)

type MockLoanRepository struct {
	mock.Mock
	loan.Repository
}

func (m *MockLoanRepository) RetireExpired(ctx context.Context, asOf time.Time) (int64, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).(int64), args.Error(1)
}

func newJobTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestRetireLoansJobRun(t *testing.T) {
	t.Run("retires expired loans", func(t *testing.T) {
		mockRepo := new(MockLoanRepository)
		job := NewRetireLoansJob(mockRepo, newJobTestLogger())

		mockRepo.On("RetireExpired", mock.Anything, mock.AnythingOfType("time.Time")).Return(int64(3), nil)

		err := job.Run(context.Background())

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("propagates repository failure", func(t *testing.T) {
		mockRepo := new(MockLoanRepository)
		job := NewRetireLoansJob(mockRepo, newJobTestLogger())

		repoErr := errors.New("connection reset")
		mockRepo.On("RetireExpired", mock.Anything, mock.AnythingOfType("time.Time")).Return(int64(0), repoErr)

		err := job.Run(context.Background())

		assert.Error(t, err)
		assert.ErrorIs(t, err, repoErr)
		mockRepo.AssertExpectations(t)
	})
}
