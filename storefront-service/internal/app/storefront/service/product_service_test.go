package service

import (
	"context"
	"errors"
	"testing"

	"shopit/storefront-service/internal/app/storefront/entity"
	"shopit/storefront-service/internal/app/storefront/infrastructure"
	"shopit/storefront-service/internal/app/storefront/repository"
	"shopit/storefront-service/internal/app/storefront/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type productDeps struct {
	products *mocks.MockProductRepository
	users    *mocks.MockUserRepository
	cache    *mocks.MockProductCache
	images   *mocks.MockImageHost
}

func newTestProductService() (*ProductService, *productDeps) {
	deps := &productDeps{
		products: new(mocks.MockProductRepository),
		users:    new(mocks.MockUserRepository),
		cache:    new(mocks.MockProductCache),
		images:   new(mocks.MockImageHost),
	}
	return NewProductService(deps.products, deps.users, deps.cache, deps.images), deps
}

func sampleProduct(images ...entity.Image) *entity.Product {
	return &entity.Product{
		ID:       primitive.NewObjectID(),
		Name:     "Wireless Mouse",
		Price:    19.99,
		Category: "Accessories",
		Seller:   "Logi",
		Stock:    12,
		Images:   images,
		Reviews:  []entity.Review{},
	}
}

// ===================== Create =====================

func TestCreateProduct_UploadsImagesToProductsFolder(t *testing.T) {
	// Arrange
	svc, deps := newTestProductService()
	ctx := context.Background()
	creator := primitive.NewObjectID()
	req := &entity.CreateProductRequest{
		Name: "Mouse", Price: 10, Description: "d", Category: "Accessories", Seller: "s", Stock: 3,
		Images: []string{"img-1", "img-2"},
	}

	deps.images.On("Upload", ctx, "img-1", infrastructure.UploadOptions{Folder: "products"}).Return(entity.Image{PublicID: "products/1", URL: "u1"}, nil)
	deps.images.On("Upload", ctx, "img-2", infrastructure.UploadOptions{Folder: "products"}).Return(entity.Image{PublicID: "products/2", URL: "u2"}, nil)
	deps.products.On("Create", ctx, mock.AnythingOfType("*entity.Product")).Return(nil)

	// Act
	product, err := svc.Create(ctx, creator.Hex(), req)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, creator, product.CreatedBy)
	assert.Equal(t, []entity.Image{{PublicID: "products/1", URL: "u1"}, {PublicID: "products/2", URL: "u2"}}, product.Images)
	assert.Equal(t, 0, product.NumOfReviews)
}

func TestCreateProduct_UnknownCategory(t *testing.T) {
	svc, deps := newTestProductService()

	_, err := svc.Create(context.Background(), primitive.NewObjectID().Hex(), &entity.CreateProductRequest{Name: "x", Category: "Toys"})

	assert.ErrorIs(t, err, ErrValidation)
	deps.products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// ===================== Get (cache) =====================

func TestGetProduct_CacheHit(t *testing.T) {
	svc, deps := newTestProductService()
	ctx := context.Background()
	product := sampleProduct()

	deps.cache.On("GetProduct", ctx, product.ID.Hex()).Return(product, nil)

	result, err := svc.Get(ctx, product.ID.Hex())

	require.NoError(t, err)
	assert.Equal(t, product, result)
	deps.products.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestGetProduct_CacheMissFillsCache(t *testing.T) {
	// Arrange
	svc, deps := newTestProductService()
	ctx := context.Background()
	product := sampleProduct()
	id := product.ID.Hex()

	deps.cache.On("GetProduct", ctx, id).Return(nil, nil)
	deps.products.On("GetByID", ctx, id).Return(product, nil)
	deps.cache.On("SetProduct", ctx, product).Return(nil)

	// Act
	result, err := svc.Get(ctx, id)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, product, result)
	deps.cache.AssertExpectations(t)
}

func TestGetProduct_CacheErrorFallsBackToStore(t *testing.T) {
	svc, deps := newTestProductService()
	ctx := context.Background()
	product := sampleProduct()
	id := product.ID.Hex()

	deps.cache.On("GetProduct", ctx, id).Return(nil, errors.New("redis down"))
	deps.products.On("GetByID", ctx, id).Return(product, nil)
	deps.cache.On("SetProduct", ctx, product).Return(errors.New("redis down"))

	result, err := svc.Get(ctx, id)

	require.NoError(t, err)
	assert.Equal(t, product.Name, result.Name)
}

func TestGetProduct_NotFound(t *testing.T) {
	svc, deps := newTestProductService()
	ctx := context.Background()

	deps.cache.On("GetProduct", ctx, "missing").Return(nil, nil)
	deps.products.On("GetByID", ctx, "missing").Return(nil, repository.ErrProductNotFound)

	_, err := svc.Get(ctx, "missing")

	assert.ErrorIs(t, err, ErrProductNotFound)
}

// ===================== Update =====================

func TestUpdateProduct_PartialAndReplaceImages(t *testing.T) {
	// Arrange
	svc, deps := newTestProductService()
	ctx := context.Background()
	product := sampleProduct(entity.Image{PublicID: "products/old", URL: "old"})
	id := product.ID.Hex()
	price := 15.5

	var calls []string
	deps.products.On("GetByID", ctx, id).Return(product, nil)
	deps.images.On("Destroy", ctx, "products/old").Return(nil).Run(func(mock.Arguments) { calls = append(calls, "destroy") })
	deps.images.On("Upload", ctx, "new-img", infrastructure.UploadOptions{Folder: "products"}).
		Return(entity.Image{PublicID: "products/new", URL: "new"}, nil).Run(func(mock.Arguments) { calls = append(calls, "upload") })
	deps.products.On("Update", ctx, product).Return(nil)
	deps.cache.On("DeleteProduct", ctx, id).Return(nil)

	// Act
	result, err := svc.Update(ctx, id, &entity.UpdateProductRequest{Price: &price, Images: []string{"new-img"}})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"destroy", "upload"}, calls)
	assert.Equal(t, 15.5, result.Price)
	assert.Equal(t, "Wireless Mouse", result.Name)
	assert.Equal(t, []entity.Image{{PublicID: "products/new", URL: "new"}}, result.Images)
	deps.cache.AssertCalled(t, "DeleteProduct", ctx, id)
}

func TestUpdateProduct_NotFound(t *testing.T) {
	svc, deps := newTestProductService()
	ctx := context.Background()

	deps.products.On("GetByID", ctx, "missing").Return(nil, repository.ErrProductNotFound)

	_, err := svc.Update(ctx, "missing", &entity.UpdateProductRequest{})

	assert.ErrorIs(t, err, ErrProductNotFound)
}

// ===================== Delete =====================

func TestDeleteProduct_DestroysImagesBeforeDocument(t *testing.T) {
	// Arrange
	svc, deps := newTestProductService()
	ctx := context.Background()
	product := sampleProduct(
		entity.Image{PublicID: "products/a"},
		entity.Image{PublicID: "products/b"},
	)
	id := product.ID.Hex()

	var calls []string
	deps.products.On("GetByID", ctx, id).Return(product, nil)
	deps.images.On("Destroy", ctx, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		calls = append(calls, "destroy:"+args.String(1))
	})
	deps.products.On("Delete", ctx, id).Return(nil).Run(func(mock.Arguments) {
		calls = append(calls, "delete")
	})
	deps.cache.On("DeleteProduct", ctx, id).Return(nil)

	// Act
	err := svc.Delete(ctx, id)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"destroy:products/a", "destroy:products/b", "delete"}, calls)
}

func TestDeleteProduct_NoImagesNoHostCalls(t *testing.T) {
	svc, deps := newTestProductService()
	ctx := context.Background()
	product := sampleProduct()
	id := product.ID.Hex()

	deps.products.On("GetByID", ctx, id).Return(product, nil)
	deps.products.On("Delete", ctx, id).Return(nil)
	deps.cache.On("DeleteProduct", ctx, id).Return(nil)

	err := svc.Delete(ctx, id)

	require.NoError(t, err)
	deps.images.AssertNotCalled(t, "Destroy", mock.Anything, mock.Anything)
}

func TestDeleteProduct_HostFailureKeepsDocument(t *testing.T) {
	svc, deps := newTestProductService()
	ctx := context.Background()
	product := sampleProduct(entity.Image{PublicID: "products/a"})
	id := product.ID.Hex()

	deps.products.On("GetByID", ctx, id).Return(product, nil)
	deps.images.On("Destroy", ctx, "products/a").Return(errors.New("cloudinary down"))

	err := svc.Delete(ctx, id)

	assert.ErrorIs(t, err, ErrExternalService)
	deps.products.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteProduct_NotFound(t *testing.T) {
	svc, deps := newTestProductService()
	ctx := context.Background()

	deps.products.On("GetByID", ctx, "missing").Return(nil, repository.ErrProductNotFound)

	err := svc.Delete(ctx, "missing")

	assert.ErrorIs(t, err, ErrProductNotFound)
}

// ===================== Reviews =====================

func TestUpsertReview_ReplacesPreviousReviewOfSameUser(t *testing.T) {
	// Arrange
	svc, deps := newTestProductService()
	ctx := context.Background()
	user := &entity.User{ID: primitive.NewObjectID(), Name: "Ann"}
	other := primitive.NewObjectID()
	product := sampleProduct()
	product.UpsertReview(entity.Review{UserID: user.ID, Name: "Ann", Rating: 5, Comment: "first"})
	product.UpsertReview(entity.Review{UserID: other, Name: "Bob", Rating: 3, Comment: "meh"})
	id := product.ID.Hex()

	deps.users.On("GetByID", ctx, user.ID.Hex()).Return(user, nil)
	deps.products.On("GetByID", ctx, id).Return(product, nil)
	deps.products.On("UpdateReviews", ctx, product).Return(nil)
	deps.cache.On("DeleteProduct", ctx, id).Return(nil)

	// Act
	result, err := svc.UpsertReview(ctx, entity.Principal{UserID: user.ID.Hex()}, &entity.ReviewRequest{
		ProductID: id, Rating: 1, Comment: "second",
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, result.NumOfReviews)
	assert.Equal(t, 2.0, result.Ratings)
	assert.Equal(t, "second", result.Reviews[0].Comment)
}

func TestUpsertReview_ProductNotFound(t *testing.T) {
	svc, deps := newTestProductService()
	ctx := context.Background()
	user := &entity.User{ID: primitive.NewObjectID(), Name: "Ann"}

	deps.users.On("GetByID", ctx, user.ID.Hex()).Return(user, nil)
	deps.products.On("GetByID", ctx, "missing").Return(nil, repository.ErrProductNotFound)

	_, err := svc.UpsertReview(ctx, entity.Principal{UserID: user.ID.Hex()}, &entity.ReviewRequest{ProductID: "missing", Rating: 4, Comment: "c"})

	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestGetReviews(t *testing.T) {
	svc, deps := newTestProductService()
	ctx := context.Background()
	product := sampleProduct()
	product.UpsertReview(entity.Review{UserID: primitive.NewObjectID(), Rating: 4})

	deps.products.On("GetByID", ctx, product.ID.Hex()).Return(product, nil)

	reviews, err := svc.GetReviews(ctx, product.ID.Hex())

	require.NoError(t, err)
	assert.Len(t, reviews, 1)
}

func TestDeleteReview_LastReviewResetsRating(t *testing.T) {
	// Arrange
	svc, deps := newTestProductService()
	ctx := context.Background()
	author := primitive.NewObjectID()
	product := sampleProduct()
	product.UpsertReview(entity.Review{UserID: author, Rating: 4})
	id := product.ID.Hex()
	reviewID := product.Reviews[0].ID.Hex()

	deps.products.On("GetByID", ctx, id).Return(product, nil)
	deps.products.On("UpdateReviews", ctx, product).Return(nil)
	deps.cache.On("DeleteProduct", ctx, id).Return(nil)

	// Act
	result, err := svc.DeleteReview(ctx, entity.Principal{UserID: author.Hex()}, id, reviewID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 0, result.NumOfReviews)
	assert.Equal(t, 0.0, result.Ratings)
}

func TestDeleteReview_ForeignReviewForbidden(t *testing.T) {
	svc, deps := newTestProductService()
	ctx := context.Background()
	product := sampleProduct()
	product.UpsertReview(entity.Review{UserID: primitive.NewObjectID(), Rating: 4})
	id := product.ID.Hex()

	deps.products.On("GetByID", ctx, id).Return(product, nil)

	_, err := svc.DeleteReview(ctx, entity.Principal{UserID: primitive.NewObjectID().Hex(), Role: entity.RoleUser}, id, product.Reviews[0].ID.Hex())

	assert.ErrorIs(t, err, ErrForbidden)
	deps.products.AssertNotCalled(t, "UpdateReviews", mock.Anything, mock.Anything)
}

func TestDeleteReview_AdminMayDeleteAnyReview(t *testing.T) {
	svc, deps := newTestProductService()
	ctx := context.Background()
	product := sampleProduct()
	product.UpsertReview(entity.Review{UserID: primitive.NewObjectID(), Rating: 4})
	id := product.ID.Hex()

	deps.products.On("GetByID", ctx, id).Return(product, nil)
	deps.products.On("UpdateReviews", ctx, product).Return(nil)
	deps.cache.On("DeleteProduct", ctx, id).Return(nil)

	_, err := svc.DeleteReview(ctx, entity.Principal{UserID: "admin", Role: entity.RoleAdmin}, id, product.Reviews[0].ID.Hex())

	assert.NoError(t, err)
}

func TestDeleteReview_UnknownReview(t *testing.T) {
	svc, deps := newTestProductService()
	ctx := context.Background()
	product := sampleProduct()
	id := product.ID.Hex()

	deps.products.On("GetByID", ctx, id).Return(product, nil)

	_, err := svc.DeleteReview(ctx, entity.Principal{UserID: "u"}, id, primitive.NewObjectID().Hex())

	assert.ErrorIs(t, err, ErrReviewNotFound)
}
