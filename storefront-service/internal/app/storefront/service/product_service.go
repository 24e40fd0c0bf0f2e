package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"shopit/pkg/logger"
	"shopit/pkg/metrics"
	"shopit/storefront-service/internal/app/storefront/entity"
	"shopit/storefront-service/internal/app/storefront/infrastructure"
	"shopit/storefront-service/internal/app/storefront/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const productImagesFolder = "products"

// ProductService - каталог, карточки товара и отзывы
type ProductService struct {
	products repository.ProductRepository
	users    repository.UserRepository
	cache    infrastructure.ProductCache
	images   infrastructure.ImageHost
}

func NewProductService(
	products repository.ProductRepository,
	users repository.UserRepository,
	cache infrastructure.ProductCache,
	images infrastructure.ImageHost,
) *ProductService {
	return &ProductService{
		products: products,
		users:    users,
		cache:    cache,
		images:   images,
	}
}

func (s *ProductService) Search(ctx context.Context, filter entity.ProductFilter) (*entity.ProductPage, error) {
	page, err := s.products.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return page, nil
}

func (s *ProductService) ListAll(ctx context.Context) ([]entity.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (s *ProductService) Create(ctx context.Context, creatorID string, req *entity.CreateProductRequest) (*entity.Product, error) {
	if !slices.Contains(entity.Categories, req.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, req.Category)
	}

	creator, err := primitive.ObjectIDFromHex(creatorID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	images, err := s.uploadImages(ctx, req.Images)
	if err != nil {
		return nil, err
	}

	product := &entity.Product{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Images:      images,
		Category:    req.Category,
		Seller:      req.Seller,
		Stock:       req.Stock,
		Reviews:     []entity.Review{},
		CreatedBy:   creator,
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	metrics.ProductsCreated.Inc()
	logger.Info().Str("product_id", product.ID.Hex()).Str("category", product.Category).Msg("Product created")

	return product, nil
}

// Get отдает карточку из Redis, при промахе читает из MongoDB и кладет в кэш
func (s *ProductService) Get(ctx context.Context, id string) (*entity.Product, error) {
	cached, err := s.cache.GetProduct(ctx, id)
	if err != nil {
		logger.Warn().Err(err).Str("product_id", id).Msg("Failed to read product from cache")
	}
	if cached != nil {
		return cached, nil
	}

	product, err := s.getFromStore(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetProduct(ctx, product); err != nil {
		logger.Warn().Err(err).Str("product_id", id).Msg("Failed to cache product")
	}

	return product, nil
}

// Update - частичное обновление. Переданные images полностью заменяют старые.
func (s *ProductService) Update(ctx context.Context, id string, req *entity.UpdateProductRequest) (*entity.Product, error) {
	product, err := s.getFromStore(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Category != nil && !slices.Contains(entity.Categories, *req.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, *req.Category)
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Seller != nil {
		product.Seller = *req.Seller
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}

	if len(req.Images) > 0 {
		if err := s.destroyImages(ctx, product.Images); err != nil {
			return nil, err
		}
		images, err := s.uploadImages(ctx, req.Images)
		if err != nil {
			return nil, err
		}
		product.Images = images
	}

	if err := s.products.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.invalidate(ctx, id)
	return product, nil
}

// Delete сначала удаляет все изображения из хостинга, потом документ
func (s *ProductService) Delete(ctx context.Context, id string) error {
	product, err := s.getFromStore(ctx, id)
	if err != nil {
		return err
	}

	if err := s.destroyImages(ctx, product.Images); err != nil {
		return err
	}

	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.invalidate(ctx, id)
	logger.Info().Str("product_id", id).Int("images", len(product.Images)).Msg("Product deleted")
	return nil
}

// UpsertReview - один отзыв на пользователя: повторный отзыв заменяет прежний
func (s *ProductService) UpsertReview(ctx context.Context, principal entity.Principal, req *entity.ReviewRequest) (*entity.Product, error) {
	user, err := s.users.GetByID(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	product, err := s.getFromStore(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	replaced := product.UpsertReview(entity.Review{
		UserID:  user.ID,
		Name:    user.Name,
		Rating:  req.Rating,
		Comment: req.Comment,
	})

	if err := s.saveReviews(ctx, product); err != nil {
		return nil, err
	}

	kind := "created"
	if replaced {
		kind = "replaced"
	}
	metrics.ReviewsSubmitted.WithLabelValues(kind).Inc()
	metrics.ReviewsRating.Observe(req.Rating)

	return product, nil
}

func (s *ProductService) GetReviews(ctx context.Context, productID string) ([]entity.Review, error) {
	product, err := s.getFromStore(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.Reviews == nil {
		return []entity.Review{}, nil
	}
	return product.Reviews, nil
}

// DeleteReview удаляет отзыв (автор или администратор) и пересчитывает рейтинг
func (s *ProductService) DeleteReview(ctx context.Context, principal entity.Principal, productID, reviewID string) (*entity.Product, error) {
	product, err := s.getFromStore(ctx, productID)
	if err != nil {
		return nil, err
	}

	id, err := primitive.ObjectIDFromHex(reviewID)
	if err != nil {
		return nil, ErrReviewNotFound
	}

	review, ok := product.FindReview(id)
	if !ok {
		return nil, ErrReviewNotFound
	}
	if review.UserID.Hex() != principal.UserID && !principal.IsAdmin() {
		return nil, ErrForbidden
	}

	product.RemoveReview(id)

	if err := s.saveReviews(ctx, product); err != nil {
		return nil, err
	}

	metrics.ReviewsSubmitted.WithLabelValues("deleted").Inc()
	return product, nil
}

func (s *ProductService) getFromStore(ctx context.Context, id string) (*entity.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

func (s *ProductService) saveReviews(ctx context.Context, product *entity.Product) error {
	if err := s.products.UpdateReviews(ctx, product); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to save reviews: %w", err)
	}
	s.invalidate(ctx, product.ID.Hex())
	return nil
}

func (s *ProductService) uploadImages(ctx context.Context, files []string) ([]entity.Image, error) {
	images := make([]entity.Image, 0, len(files))
	for _, file := range files {
		img, err := s.images.Upload(ctx, file, infrastructure.UploadOptions{Folder: productImagesFolder})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrExternalService, err)
		}
		images = append(images, img)
	}
	return images, nil
}

func (s *ProductService) destroyImages(ctx context.Context, images []entity.Image) error {
	for _, img := range images {
		if err := s.images.Destroy(ctx, img.PublicID); err != nil {
			return fmt.Errorf("%w: %v", ErrExternalService, err)
		}
	}
	return nil
}

func (s *ProductService) invalidate(ctx context.Context, id string) {
	if err := s.cache.DeleteProduct(ctx, id); err != nil {
		logger.Warn().Err(err).Str("product_id", id).Msg("Failed to invalidate product cache")
	}
}
