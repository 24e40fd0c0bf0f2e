package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shopit/pkg/logger"
	"shopit/pkg/metrics"
	"shopit/storefront-service/internal/app/storefront/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type orderRepository struct {
	client   *mongo.Client
	orders   *mongo.Collection
	products *mongo.Collection
}

// NewOrderRepository создает репозиторий заказов.
// Fulfill использует транзакции, поэтому MongoDB должна работать как replica set.
func NewOrderRepository(db *mongo.Database) OrderRepository {
	orders := db.Collection("orders")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}, {Key: "created_at", Value: -1}},
		Options: options.Index().SetName("user_created_idx"),
	}

	if _, err := orders.Indexes().CreateOne(ctx, indexModel); err != nil {
		logger.Warn().Err(err).Str("collection", "orders").Msg("Failed to create index")
	}

	return &orderRepository{
		client:   db.Client(),
		orders:   orders,
		products: db.Collection("products"),
	}
}

func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "orders")
	defer timer.ObserveDuration()

	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	if order.OrderStatus == "" {
		order.OrderStatus = entity.OrderStatusProcessing
	}

	result, err := r.orders.InsertOne(ctx, order)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpInsert)
		return fmt.Errorf("failed to create order: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		order.ID = oid
	}

	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrOrderNotFound
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "orders")
	defer timer.ObserveDuration()

	return findOrder(ctx, r.orders, objectID)
}

func findOrder(ctx context.Context, collection *mongo.Collection, id primitive.ObjectID) (*entity.Order, error) {
	var order entity.Order
	if err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &order, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]entity.Order, error) {
	return r.find(ctx, bson.M{"user": userID})
}

func (r *orderRepository) List(ctx context.Context) ([]entity.Order, error) {
	return r.find(ctx, bson.M{})
}

func (r *orderRepository) find(ctx context.Context, filter bson.M) ([]entity.Order, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "orders")
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.orders.Find(ctx, filter, opts)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to find orders: %w", err)
	}
	defer cursor.Close(ctx)

	orders := []entity.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}

	return orders, nil
}

// Fulfill переводит заказ в target. При первом принятом переходе остатки
// всех позиций уменьшаются на quantity (без ограничения снизу). Списание
// происходит один раз на заказ (stock_adjusted), а не на каждом переходе:
// Processing -> Shipped -> Delivered уменьшает склад только при Shipped. Чтение заказа,
// списание и смена статуса выполняются в одной транзакции: если какого-то товара
// нет, ничего не меняется.
func (r *orderRepository) Fulfill(ctx context.Context, id string, target entity.OrderStatus, now time.Time) (*entity.Order, error) {
	if !target.IsValid() {
		return nil, entity.ErrUnknownOrderStatus
	}

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrOrderNotFound
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpTxn, "orders")
	defer timer.ObserveDuration()

	session, err := r.client.StartSession()
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpTxn)
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		order, err := findOrder(sc, r.orders, objectID)
		if err != nil {
			return nil, err
		}

		previous := order.OrderStatus
		adjustStock, err := order.Transition(target, now)
		if err != nil {
			return nil, err
		}

		if adjustStock {
			for _, item := range order.OrderItems {
				res, err := r.products.UpdateOne(sc,
					bson.M{"_id": item.ProductID},
					bson.M{"$inc": bson.M{"stock": -item.Quantity}},
				)
				if err != nil {
					return nil, fmt.Errorf("failed to update stock of %s: %w", item.ProductID.Hex(), err)
				}
				if res.MatchedCount == 0 {
					return nil, fmt.Errorf("%w: %s", ErrProductNotFound, item.ProductID.Hex())
				}
			}
		}

		set := bson.M{
			"order_status":   order.OrderStatus,
			"stock_adjusted": order.StockAdjusted,
		}
		if order.DeliveredAt != nil {
			set["delivered_at"] = *order.DeliveredAt
		}

		// Условие по предыдущему статусу защищает от параллельной смены статуса
		res, err := r.orders.UpdateOne(sc,
			bson.M{"_id": objectID, "order_status": previous},
			bson.M{"$set": set},
		)
		if err != nil {
			return nil, fmt.Errorf("failed to update order status: %w", err)
		}
		if res.MatchedCount == 0 {
			return nil, entity.ErrInvalidStatusTransition
		}

		return order, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*entity.Order), nil
}

func (r *orderRepository) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrOrderNotFound
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpDelete, "orders")
	defer timer.ObserveDuration()

	result, err := r.orders.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpDelete)
		return fmt.Errorf("failed to delete order: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrOrderNotFound
	}

	return nil
}
