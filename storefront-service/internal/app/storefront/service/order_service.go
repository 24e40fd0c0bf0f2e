package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shopit/pkg/logger"
	"shopit/pkg/metrics"
	"shopit/storefront-service/internal/app/storefront/entity"
	"shopit/storefront-service/internal/app/storefront/infrastructure"
	"shopit/storefront-service/internal/app/storefront/repository"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// Доставка бесплатна для заказов дороже freeShippingFrom
	freeShippingFrom = decimal.NewFromInt(200)
	shippingFee      = decimal.NewFromInt(25)
	taxRate          = decimal.NewFromFloat(0.05)
)

// OrderService - оформление заказов и их выполнение
type OrderService struct {
	orders    repository.OrderRepository
	users     repository.UserRepository
	publisher infrastructure.MessagePublisher
	cache     infrastructure.ProductCache
	now       func() time.Time
}

func NewOrderService(
	orders repository.OrderRepository,
	users repository.UserRepository,
	publisher infrastructure.MessagePublisher,
	cache infrastructure.ProductCache,
) *OrderService {
	return &OrderService{
		orders:    orders,
		users:     users,
		publisher: publisher,
		cache:     cache,
		now:       time.Now,
	}
}

// OrderTotals - суммы заказа, посчитанные по позициям
type OrderTotals struct {
	Items    decimal.Decimal
	Tax      decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

// CalculateTotals: налог 5%, доставка 25 при сумме позиций до 200 включительно
func CalculateTotals(items []entity.OrderItem) OrderTotals {
	itemsPrice := decimal.Zero
	for _, item := range items {
		itemsPrice = itemsPrice.Add(decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	itemsPrice = itemsPrice.Round(2)

	shipping := shippingFee
	if itemsPrice.GreaterThan(freeShippingFrom) {
		shipping = decimal.Zero
	}
	tax := itemsPrice.Mul(taxRate).Round(2)

	return OrderTotals{
		Items:    itemsPrice,
		Tax:      tax,
		Shipping: shipping,
		Total:    itemsPrice.Add(tax).Add(shipping),
	}
}

// Create оформляет заказ от имени вызывающего. Не переданные суммы считаются на сервере.
func (s *OrderService) Create(ctx context.Context, principal entity.Principal, req *entity.CreateOrderRequest) (*entity.Order, error) {
	userID, err := primitive.ObjectIDFromHex(principal.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	totals := CalculateTotals(req.OrderItems)

	order := &entity.Order{
		ShippingInfo:  req.ShippingInfo,
		UserID:        userID,
		OrderItems:    req.OrderItems,
		PaymentInfo:   req.PaymentInfo,
		PaidAt:        s.now(),
		ItemsPrice:    valueOr(req.ItemsPrice, totals.Items),
		TaxPrice:      valueOr(req.TaxPrice, totals.Tax),
		ShippingPrice: valueOr(req.ShippingPrice, totals.Shipping),
		OrderStatus:   entity.OrderStatusProcessing,
		CreatedAt:     s.now(),
	}

	if req.TotalPrice != nil {
		order.TotalPrice = *req.TotalPrice
	} else {
		order.TotalPrice = decimal.NewFromFloat(order.ItemsPrice).
			Add(decimal.NewFromFloat(order.TaxPrice)).
			Add(decimal.NewFromFloat(order.ShippingPrice)).
			Round(2).
			InexactFloat64()
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	metrics.OrdersCreated.Inc()
	metrics.OrdersTotal.Add(order.TotalPrice)
	logger.Info().
		Str("order_id", order.ID.Hex()).
		Str("user_id", principal.UserID).
		Float64("total_price", order.TotalPrice).
		Msg("Order created")

	publishEvent(ctx, s.publisher, entity.ShopEvent{
		EventType:   entity.EventOrderCreated,
		UserID:      principal.UserID,
		Email:       principal.Email,
		Name:        s.customerName(ctx, principal.UserID),
		OrderID:     order.ID.Hex(),
		OrderStatus: string(order.OrderStatus),
		TotalPrice:  order.TotalPrice,
		ItemsCount:  len(order.OrderItems),
	})

	return order, nil
}

func (s *OrderService) invalidateProducts(ctx context.Context, items []entity.OrderItem) {
	seen := make(map[primitive.ObjectID]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}

		if err := s.cache.DeleteProduct(ctx, item.ProductID.Hex()); err != nil {
			logger.Warn().Err(err).Str("product_id", item.ProductID.Hex()).Msg("Failed to invalidate product cache")
		}
	}
}

func valueOr(v *float64, fallback decimal.Decimal) float64 {
	if v != nil {
		return *v
	}
	return fallback.InexactFloat64()
}

// Get возвращает заказ владельцу или администратору вместе с именем и email покупателя
func (s *OrderService) Get(ctx context.Context, principal entity.Principal, id string) (*entity.OrderWithCustomer, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order.UserID.Hex() != principal.UserID && !principal.IsAdmin() {
		return nil, ErrForbidden
	}

	result := &entity.OrderWithCustomer{Order: *order}

	user, err := s.users.GetByID(ctx, order.UserID.Hex())
	switch {
	case err == nil:
		result.Customer = &entity.OrderCustomer{ID: user.ID, Name: user.Name, Email: user.Email}
	case errors.Is(err, repository.ErrUserNotFound):
		// покупатель удален, заказ отдаем без него
	default:
		return nil, fmt.Errorf("failed to get order customer: %w", err)
	}

	return result, nil
}

func (s *OrderService) ListMine(ctx context.Context, principal entity.Principal) ([]entity.Order, error) {
	userID, err := primitive.ObjectIDFromHex(principal.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// ListAll - все заказы и сумма total_price по ним
func (s *OrderService) ListAll(ctx context.Context) (*entity.AdminOrdersResponse, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(decimal.NewFromFloat(o.TotalPrice))
	}

	return &entity.AdminOrdersResponse{
		Orders:      orders,
		TotalAmount: total.Round(2).InexactFloat64(),
	}, nil
}

// UpdateStatus выполняет переход статуса со списанием остатков
func (s *OrderService) UpdateStatus(ctx context.Context, id string, status string) (*entity.Order, error) {
	target := entity.OrderStatus(status)
	if !target.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidOrderStatus, status)
	}

	order, err := s.orders.Fulfill(ctx, id, target, s.now())
	if err != nil {
		metrics.OrderTransitions.WithLabelValues(status, "rejected").Inc()
		switch {
		case errors.Is(err, repository.ErrOrderNotFound):
			return nil, ErrOrderNotFound
		case errors.Is(err, repository.ErrProductNotFound):
			return nil, fmt.Errorf("%w: %v", ErrProductNotFound, err)
		case errors.Is(err, entity.ErrOrderAlreadyDelivered):
			return nil, ErrOrderAlreadyDelivered
		case errors.Is(err, entity.ErrInvalidStatusTransition):
			return nil, ErrInvalidStatusTransition
		case errors.Is(err, entity.ErrUnknownOrderStatus):
			return nil, ErrInvalidOrderStatus
		}
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	metrics.OrderTransitions.WithLabelValues(status, "success").Inc()
	logger.Info().Str("order_id", id).Str("status", status).Msg("Order status changed")

	// Остатки в Mongo изменились, карточки в кэше устарели
	s.invalidateProducts(ctx, order.OrderItems)

	event := entity.ShopEvent{
		EventType:   entity.EventOrderStatusChanged,
		UserID:      order.UserID.Hex(),
		OrderID:     order.ID.Hex(),
		OrderStatus: string(order.OrderStatus),
		TotalPrice:  order.TotalPrice,
		ItemsCount:  len(order.OrderItems),
	}
	if user, err := s.users.GetByID(ctx, event.UserID); err == nil {
		event.Email = user.Email
		event.Name = user.Name
	}
	publishEvent(ctx, s.publisher, event)

	return order, nil
}

func (s *OrderService) Delete(ctx context.Context, id string) error {
	if err := s.orders.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("failed to delete order: %w", err)
	}
	return nil
}

func (s *OrderService) customerName(ctx context.Context, userID string) string {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return ""
	}
	return user.Name
}
