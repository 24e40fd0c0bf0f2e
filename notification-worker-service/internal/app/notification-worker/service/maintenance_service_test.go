package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"shopit/notification-worker-service/internal/app/notification-worker/entity"
	"shopit/notification-worker-service/internal/app/notification-worker/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type maintenanceMocks struct {
	users    *mocks.MockUserRepository
	products *mocks.MockProductRepository
	mail     *mocks.MockMailer
}

func newTestMaintenanceService(adminEmail string) (*MaintenanceService, *maintenanceMocks) {
	m := &maintenanceMocks{
		users:    new(mocks.MockUserRepository),
		products: new(mocks.MockProductRepository),
		mail:     new(mocks.MockMailer),
	}
	return NewMaintenanceService(m.users, m.products, m.mail, adminEmail, 5), m
}

func TestPurgeExpiredResetTokens(t *testing.T) {
	// Arrange
	svc, m := newTestMaintenanceService("")
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	m.users.On("PurgeExpiredResetTokens", mock.Anything, now).Return(int64(3), nil)

	// Act
	err := svc.PurgeExpiredResetTokens(context.Background())

	// Assert
	require.NoError(t, err)
	m.users.AssertExpectations(t)
}

func TestPurgeExpiredResetTokens_Error(t *testing.T) {
	// Arrange
	svc, m := newTestMaintenanceService("")
	m.users.On("PurgeExpiredResetTokens", mock.Anything, mock.Anything).Return(int64(0), errors.New("mongo down"))

	// Act
	err := svc.PurgeExpiredResetTokens(context.Background())

	// Assert
	assert.Error(t, err)
}

func TestSendLowStockReport(t *testing.T) {
	// Arrange
	svc, m := newTestMaintenanceService("admin@shopit.com")
	cameraID := primitive.NewObjectID()
	m.products.On("ListLowStock", mock.Anything, 5).Return([]entity.LowStockProduct{
		{ID: cameraID, Name: "Camera", Stock: -1},
		{ID: primitive.NewObjectID(), Name: "Lens", Stock: 4},
	}, nil)
	m.mail.On("Send", mock.Anything, mock.Anything).Return(nil)

	// Act
	err := svc.SendLowStockReport(context.Background())

	// Assert
	require.NoError(t, err)
	require.Len(t, m.mail.Sent, 1)
	assert.Equal(t, "admin@shopit.com", m.mail.Sent[0].To)
	assert.Equal(t, "ShopIT low stock report: 2 product(s)", m.mail.Sent[0].Subject)
	assert.Contains(t, m.mail.Sent[0].Body, "- Camera ("+cameraID.Hex()+"): -1")
	assert.Contains(t, m.mail.Sent[0].Body, "Lens")
}

func TestSendLowStockReport_NothingLow(t *testing.T) {
	// Arrange
	svc, m := newTestMaintenanceService("admin@shopit.com")
	m.products.On("ListLowStock", mock.Anything, 5).Return([]entity.LowStockProduct{}, nil)

	// Act
	err := svc.SendLowStockReport(context.Background())

	// Assert
	require.NoError(t, err)
	m.mail.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestSendLowStockReport_NoAdminEmail(t *testing.T) {
	// Arrange
	svc, m := newTestMaintenanceService("")

	// Act
	err := svc.SendLowStockReport(context.Background())

	// Assert
	require.NoError(t, err)
	m.products.AssertNotCalled(t, "ListLowStock", mock.Anything, mock.Anything)
}

func TestSendLowStockReport_MailFailure(t *testing.T) {
	// Arrange
	svc, m := newTestMaintenanceService("admin@shopit.com")
	m.products.On("ListLowStock", mock.Anything, 5).Return([]entity.LowStockProduct{{Name: "Camera", Stock: 0}}, nil)
	m.mail.On("Send", mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	// Act
	err := svc.SendLowStockReport(context.Background())

	// Assert
	assert.Error(t, err)
}
