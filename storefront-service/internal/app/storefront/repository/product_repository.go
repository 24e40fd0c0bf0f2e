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

type productRepository struct {
	collection *mongo.Collection
}

// NewProductRepository создает репозиторий товаров с индексами под фильтры каталога
func NewProductRepository(db *mongo.Database) ProductRepository {
	collection := db.Collection("products")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "category", Value: 1}, {Key: "price", Value: 1}},
			Options: options.Index().SetName("category_price_idx"),
		},
		{
			Keys:    bson.D{{Key: "stock", Value: 1}},
			Options: options.Index().SetName("stock_idx"),
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logger.Warn().Err(err).Str("collection", "products").Msg("Failed to create indexes")
	}

	return &productRepository{collection: collection}
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "products")
	defer timer.ObserveDuration()

	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now()
	}
	if product.Images == nil {
		product.Images = []entity.Image{}
	}
	if product.Reviews == nil {
		product.Reviews = []entity.Review{}
	}

	result, err := r.collection.InsertOne(ctx, product)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpInsert)
		return fmt.Errorf("failed to create product: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		product.ID = oid
	}

	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrProductNotFound
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "products")
	defer timer.ObserveDuration()

	var product entity.Product
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&product); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return &product, nil
}

// Search возвращает страницу каталога и оба счетчика: до и после фильтрации
func (r *productRepository) Search(ctx context.Context, f entity.ProductFilter) (*entity.ProductPage, error) {
	filter := BuildProductFilter(f)

	countTimer := metrics.NewDbTimer(serviceName, metrics.DbOpCount, "products")
	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpCount)
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	filtered, err := r.collection.CountDocuments(ctx, filter)
	countTimer.ObserveDuration()
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpCount)
		return nil, fmt.Errorf("failed to count filtered products: %w", err)
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "products")
	defer timer.ObserveDuration()

	cursor, err := r.collection.Find(ctx, filter, BuildProductFindOptions(f))
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	defer cursor.Close(ctx)

	products := []entity.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	return &entity.ProductPage{
		Products:              products,
		ProductsCount:         total,
		FilteredProductsCount: filtered,
		ResPerPage:            f.PageSize,
		Page:                  f.Page,
	}, nil
}

func (r *productRepository) List(ctx context.Context) ([]entity.Product, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "products")
	defer timer.ObserveDuration()

	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer cursor.Close(ctx)

	products := []entity.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	return products, nil
}

// Update перезаписывает редактируемые поля товара (отзывы не трогает)
func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, "products")
	defer timer.ObserveDuration()

	update := bson.M{
		"$set": bson.M{
			"name":        product.Name,
			"price":       product.Price,
			"description": product.Description,
			"images":      product.Images,
			"category":    product.Category,
			"seller":      product.Seller,
			"stock":       product.Stock,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": product.ID}, update)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpUpdate)
		return fmt.Errorf("failed to update product: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrProductNotFound
	}

	return nil
}

// UpdateReviews сохраняет отзывы вместе с производными ratings и num_of_reviews
func (r *productRepository) UpdateReviews(ctx context.Context, product *entity.Product) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, "products")
	defer timer.ObserveDuration()

	update := bson.M{
		"$set": bson.M{
			"reviews":        product.Reviews,
			"ratings":        product.Ratings,
			"num_of_reviews": product.NumOfReviews,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": product.ID}, update)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpUpdate)
		return fmt.Errorf("failed to update reviews: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrProductNotFound
	}

	return nil
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrProductNotFound
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpDelete, "products")
	defer timer.ObserveDuration()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpDelete)
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrProductNotFound
	}

	return nil
}
