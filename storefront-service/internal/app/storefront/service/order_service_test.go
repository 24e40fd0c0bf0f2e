package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"shopit/storefront-service/internal/app/storefront/entity"
	"shopit/storefront-service/internal/app/storefront/repository"
	"shopit/storefront-service/internal/app/storefront/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type orderDeps struct {
	orders    *mocks.MockOrderRepository
	users     *mocks.MockUserRepository
	publisher *mocks.MockMessagePublisher
	cache     *mocks.MockProductCache
}

func newTestOrderService() (*OrderService, *orderDeps) {
	deps := &orderDeps{
		orders:    new(mocks.MockOrderRepository),
		users:     new(mocks.MockUserRepository),
		publisher: &mocks.MockMessagePublisher{Messages: make([][]byte, 0)},
		cache:     new(mocks.MockProductCache),
	}
	return NewOrderService(deps.orders, deps.users, deps.publisher, deps.cache), deps
}

func float(v float64) *float64 { return &v }

func orderRequest() *entity.CreateOrderRequest {
	return &entity.CreateOrderRequest{
		OrderItems: []entity.OrderItem{
			{Name: "A", Quantity: 2, Price: 10.10, ProductID: primitive.NewObjectID()},
			{Name: "B", Quantity: 1, Price: 0.20, ProductID: primitive.NewObjectID()},
		},
		ShippingInfo: entity.ShippingInfo{Address: "1 Main", City: "NYC", PhoneNo: "123", PostalCode: "10001", Country: "US"},
		PaymentInfo:  entity.PaymentInfo{ID: "pi_1", Status: "succeeded"},
	}
}

// ===================== Totals =====================

func TestCalculateTotals_SmallOrderPaysShipping(t *testing.T) {
	totals := CalculateTotals(orderRequest().OrderItems)

	assert.Equal(t, "20.4", totals.Items.String())
	assert.Equal(t, "1.02", totals.Tax.String())
	assert.Equal(t, "25", totals.Shipping.String())
	assert.Equal(t, "46.42", totals.Total.String())
}

func TestCalculateTotals_FreeShippingAbove200(t *testing.T) {
	totals := CalculateTotals([]entity.OrderItem{{Quantity: 3, Price: 99.99}})

	assert.Equal(t, "299.97", totals.Items.String())
	assert.True(t, totals.Shipping.IsZero())
	assert.Equal(t, "15", totals.Tax.String())
	assert.Equal(t, "314.97", totals.Total.String())
}

// ===================== Create =====================

func TestCreateOrder_ComputesTotalsAndPublishes(t *testing.T) {
	// Arrange
	svc, deps := newTestOrderService()
	ctx := context.Background()
	userID := primitive.NewObjectID()
	principal := entity.Principal{UserID: userID.Hex(), Email: "ann@example.com", Role: entity.RoleUser}

	deps.orders.On("Create", ctx, mock.AnythingOfType("*entity.Order")).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*entity.Order).ID = primitive.NewObjectID()
	})
	deps.users.On("GetByID", ctx, userID.Hex()).Return(&entity.User{ID: userID, Name: "Ann"}, nil)
	deps.publisher.On("PublishMessage", ctx, userID.Hex(), mock.Anything).Return(nil)

	// Act
	order, err := svc.Create(ctx, principal, orderRequest())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, userID, order.UserID)
	assert.Equal(t, entity.OrderStatusProcessing, order.OrderStatus)
	assert.False(t, order.PaidAt.IsZero())
	assert.Equal(t, 20.4, order.ItemsPrice)
	assert.Equal(t, 1.02, order.TaxPrice)
	assert.Equal(t, 25.0, order.ShippingPrice)
	assert.Equal(t, 46.42, order.TotalPrice)

	require.Len(t, deps.publisher.Messages, 1)
	var event entity.ShopEvent
	require.NoError(t, json.Unmarshal(deps.publisher.Messages[0], &event))
	assert.Equal(t, entity.EventOrderCreated, event.EventType)
	assert.Equal(t, "ann@example.com", event.Email)
	assert.Equal(t, "Ann", event.Name)
	assert.Equal(t, 2, event.ItemsCount)
	assert.NotEmpty(t, event.EventID)
}

func TestCreateOrder_KeepsClientTotals(t *testing.T) {
	svc, deps := newTestOrderService()
	ctx := context.Background()
	userID := primitive.NewObjectID()
	req := orderRequest()
	req.ItemsPrice = float(20.4)
	req.TaxPrice = float(0)
	req.ShippingPrice = float(0)
	req.TotalPrice = float(20.4)

	deps.orders.On("Create", ctx, mock.Anything).Return(nil)
	deps.users.On("GetByID", ctx, mock.Anything).Return(nil, repository.ErrUserNotFound)
	deps.publisher.On("PublishMessage", ctx, mock.Anything, mock.Anything).Return(errors.New("kafka error"))

	order, err := svc.Create(ctx, entity.Principal{UserID: userID.Hex()}, req)

	require.NoError(t, err)
	assert.Equal(t, 0.0, order.ShippingPrice)
	assert.Equal(t, 20.4, order.TotalPrice)
}

func TestCreateOrder_RepoError(t *testing.T) {
	svc, deps := newTestOrderService()
	ctx := context.Background()

	deps.orders.On("Create", ctx, mock.Anything).Return(errors.New("db error"))

	order, err := svc.Create(ctx, entity.Principal{UserID: primitive.NewObjectID().Hex()}, orderRequest())

	assert.Error(t, err)
	assert.Nil(t, order)
	assert.Empty(t, deps.publisher.Messages)
}

// ===================== Get =====================

func TestGetOrder_OwnerSeesCustomer(t *testing.T) {
	// Arrange
	svc, deps := newTestOrderService()
	ctx := context.Background()
	owner := &entity.User{ID: primitive.NewObjectID(), Name: "Ann", Email: "ann@example.com"}
	order := &entity.Order{ID: primitive.NewObjectID(), UserID: owner.ID}

	deps.orders.On("GetByID", ctx, order.ID.Hex()).Return(order, nil)
	deps.users.On("GetByID", ctx, owner.ID.Hex()).Return(owner, nil)

	// Act
	result, err := svc.Get(ctx, entity.Principal{UserID: owner.ID.Hex()}, order.ID.Hex())

	// Assert
	require.NoError(t, err)
	require.NotNil(t, result.Customer)
	assert.Equal(t, "Ann", result.Customer.Name)
	assert.Equal(t, "ann@example.com", result.Customer.Email)
}

func TestGetOrder_StrangerForbidden(t *testing.T) {
	svc, deps := newTestOrderService()
	ctx := context.Background()
	order := &entity.Order{ID: primitive.NewObjectID(), UserID: primitive.NewObjectID()}

	deps.orders.On("GetByID", ctx, order.ID.Hex()).Return(order, nil)

	_, err := svc.Get(ctx, entity.Principal{UserID: primitive.NewObjectID().Hex(), Role: entity.RoleUser}, order.ID.Hex())

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestGetOrder_AdminAllowed(t *testing.T) {
	svc, deps := newTestOrderService()
	ctx := context.Background()
	order := &entity.Order{ID: primitive.NewObjectID(), UserID: primitive.NewObjectID()}

	deps.orders.On("GetByID", ctx, order.ID.Hex()).Return(order, nil)
	deps.users.On("GetByID", ctx, order.UserID.Hex()).Return(nil, repository.ErrUserNotFound)

	result, err := svc.Get(ctx, entity.Principal{UserID: "admin", Role: entity.RoleAdmin}, order.ID.Hex())

	require.NoError(t, err)
	assert.Nil(t, result.Customer)
}

func TestGetOrder_NotFound(t *testing.T) {
	svc, deps := newTestOrderService()
	ctx := context.Background()

	deps.orders.On("GetByID", ctx, "missing").Return(nil, repository.ErrOrderNotFound)

	_, err := svc.Get(ctx, entity.Principal{UserID: "u"}, "missing")

	assert.ErrorIs(t, err, ErrOrderNotFound)
}

// ===================== List =====================

func TestListMine(t *testing.T) {
	svc, deps := newTestOrderService()
	ctx := context.Background()
	userID := primitive.NewObjectID()
	orders := []entity.Order{{ID: primitive.NewObjectID(), UserID: userID}}

	deps.orders.On("ListByUser", ctx, userID).Return(orders, nil)

	result, err := svc.ListMine(ctx, entity.Principal{UserID: userID.Hex()})

	require.NoError(t, err)
	assert.Equal(t, orders, result)
}

func TestListAll_SumsTotalAmount(t *testing.T) {
	svc, deps := newTestOrderService()
	ctx := context.Background()

	deps.orders.On("List", ctx).Return([]entity.Order{
		{TotalPrice: 0.1},
		{TotalPrice: 0.2},
		{TotalPrice: 100},
	}, nil)

	result, err := svc.ListAll(ctx)

	require.NoError(t, err)
	assert.Len(t, result.Orders, 3)
	assert.Equal(t, 100.3, result.TotalAmount)
}

// ===================== UpdateStatus =====================

func TestUpdateStatus_Success(t *testing.T) {
	// Arrange
	svc, deps := newTestOrderService()
	ctx := context.Background()
	fixedNow := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixedNow }
	owner := &entity.User{ID: primitive.NewObjectID(), Name: "Ann", Email: "ann@example.com"}
	updated := &entity.Order{ID: primitive.NewObjectID(), UserID: owner.ID, OrderStatus: entity.OrderStatusShipped}

	deps.orders.On("Fulfill", ctx, updated.ID.Hex(), entity.OrderStatusShipped, fixedNow).Return(updated, nil)
	deps.users.On("GetByID", ctx, owner.ID.Hex()).Return(owner, nil)
	deps.publisher.On("PublishMessage", ctx, owner.ID.Hex(), mock.Anything).Return(nil)

	// Act
	order, err := svc.UpdateStatus(ctx, updated.ID.Hex(), "Shipped")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusShipped, order.OrderStatus)

	require.Len(t, deps.publisher.Messages, 1)
	var event entity.ShopEvent
	require.NoError(t, json.Unmarshal(deps.publisher.Messages[0], &event))
	assert.Equal(t, entity.EventOrderStatusChanged, event.EventType)
	assert.Equal(t, "Shipped", event.OrderStatus)
	assert.Equal(t, "ann@example.com", event.Email)
}

func TestUpdateStatus_InvalidStatus(t *testing.T) {
	svc, deps := newTestOrderService()

	_, err := svc.UpdateStatus(context.Background(), "id", "Teleported")

	assert.ErrorIs(t, err, ErrInvalidOrderStatus)
	deps.orders.AssertNotCalled(t, "Fulfill", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateStatus_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		repoErr error
		want    error
	}{
		{"order missing", repository.ErrOrderNotFound, ErrOrderNotFound},
		{"product missing", repository.ErrProductNotFound, ErrProductNotFound},
		{"already delivered", entity.ErrOrderAlreadyDelivered, ErrOrderAlreadyDelivered},
		{"backwards", entity.ErrInvalidStatusTransition, ErrInvalidStatusTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, deps := newTestOrderService()
			ctx := context.Background()

			deps.orders.On("Fulfill", ctx, "id", entity.OrderStatusDelivered, mock.Anything).Return(nil, tt.repoErr)

			order, err := svc.UpdateStatus(ctx, "id", "Delivered")

			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, order)
			assert.Empty(t, deps.publisher.Messages)
			deps.cache.AssertNotCalled(t, "DeleteProduct", mock.Anything, mock.Anything)
		})
	}
}

func TestUpdateStatus_InvalidatesCachedProducts(t *testing.T) {
	// Arrange
	svc, deps := newTestOrderService()
	ctx := context.Background()
	productA, productB := primitive.NewObjectID(), primitive.NewObjectID()
	updated := &entity.Order{
		ID:          primitive.NewObjectID(),
		UserID:      primitive.NewObjectID(),
		OrderStatus: entity.OrderStatusShipped,
		OrderItems: []entity.OrderItem{
			{Name: "A", Quantity: 2, ProductID: productA},
			{Name: "B", Quantity: 1, ProductID: productB},
			{Name: "A again", Quantity: 1, ProductID: productA},
		},
	}

	deps.orders.On("Fulfill", ctx, updated.ID.Hex(), entity.OrderStatusShipped, mock.Anything).Return(updated, nil)
	deps.users.On("GetByID", ctx, updated.UserID.Hex()).Return(nil, repository.ErrUserNotFound)
	deps.publisher.On("PublishMessage", ctx, mock.Anything, mock.Anything).Return(nil)
	deps.cache.On("DeleteProduct", ctx, productA.Hex()).Return(nil)
	deps.cache.On("DeleteProduct", ctx, productB.Hex()).Return(errors.New("redis down"))

	// Act
	order, err := svc.UpdateStatus(ctx, updated.ID.Hex(), "Shipped")

	// Assert
	require.NoError(t, err, "cache failure must not fail the transition")
	assert.Equal(t, entity.OrderStatusShipped, order.OrderStatus)
	deps.cache.AssertNumberOfCalls(t, "DeleteProduct", 2)
	deps.cache.AssertExpectations(t)
}

// ===================== Delete =====================

func TestDeleteOrder(t *testing.T) {
	svc, deps := newTestOrderService()
	ctx := context.Background()

	deps.orders.On("Delete", ctx, "ok").Return(nil)
	deps.orders.On("Delete", ctx, "missing").Return(repository.ErrOrderNotFound)

	assert.NoError(t, svc.Delete(ctx, "ok"))
	assert.ErrorIs(t, svc.Delete(ctx, "missing"), ErrOrderNotFound)
}
