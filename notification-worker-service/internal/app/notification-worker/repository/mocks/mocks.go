package mocks

import (
	"context"
	"time"

	"shopit/notification-worker-service/internal/app/notification-worker/entity"
	"shopit/pkg/mailer"

	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) PurgeExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) ListLowStock(ctx context.Context, threshold int) ([]entity.LowStockProduct, error) {
	args := m.Called(ctx, threshold)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.LowStockProduct), args.Error(1)
}

type MockProcessedEventRepository struct {
	mock.Mock
}

func (m *MockProcessedEventRepository) MarkProcessed(ctx context.Context, eventID string) (bool, error) {
	args := m.Called(ctx, eventID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProcessedEventRepository) Unmark(ctx context.Context, eventID string) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}

// MockMailer запоминает отправленные письма
type MockMailer struct {
	mock.Mock
	Sent []mailer.Message
}

func (m *MockMailer) Send(ctx context.Context, msg mailer.Message) error {
	args := m.Called(ctx, msg)
	if args.Error(0) == nil {
		m.Sent = append(m.Sent, msg)
	}
	return args.Error(0)
}
