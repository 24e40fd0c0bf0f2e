package repository

import (
	"context"
	"fmt"

	"shopit/notification-worker-service/internal/app/notification-worker/entity"
	"shopit/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type productRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(db *mongo.Database) ProductRepository {
	return &productRepository{collection: db.Collection("products")}
}

func (r *productRepository) ListLowStock(ctx context.Context, threshold int) ([]entity.LowStockProduct, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "products")
	defer timer.ObserveDuration()

	opts := options.Find().
		SetProjection(bson.M{"name": 1, "stock": 1}).
		SetSort(bson.D{{Key: "stock", Value: 1}, {Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"stock": bson.M{"$lte": threshold}}, opts)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to find low stock products: %w", err)
	}
	defer cursor.Close(ctx)

	products := make([]entity.LowStockProduct, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	return products, nil
}
