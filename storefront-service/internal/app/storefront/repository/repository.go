package repository

import (
	"context"
	"errors"
	"time"

	"shopit/storefront-service/internal/app/storefront/entity"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const serviceName = "storefront-service"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrDuplicateEmail  = errors.New("email already registered")
	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")
)

// UserRepository - коллекция users
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByResetToken(ctx context.Context, hashedToken string, now time.Time) (*entity.User, error)
	List(ctx context.Context) ([]entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id string) error
}

// ProductRepository - коллекция products, отзывы хранятся внутри товара
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	Search(ctx context.Context, filter entity.ProductFilter) (*entity.ProductPage, error)
	List(ctx context.Context) ([]entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	UpdateReviews(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id string) error
}

// OrderRepository - коллекция orders
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]entity.Order, error)
	List(ctx context.Context) ([]entity.Order, error)
	// Fulfill меняет статус и списывает остатки в одной транзакции
	Fulfill(ctx context.Context, id string, target entity.OrderStatus, now time.Time) (*entity.Order, error)
	Delete(ctx context.Context, id string) error
}
