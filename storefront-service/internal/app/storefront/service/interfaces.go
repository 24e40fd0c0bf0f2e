package service

import (
	"context"

	"shopit/storefront-service/internal/app/storefront/entity"
)

type AuthServiceInterface interface {
	Register(ctx context.Context, req *entity.RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, req *entity.LoginRequest) (*AuthResult, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*entity.Principal, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, rawToken string, req *entity.ResetPasswordRequest) (*AuthResult, error)
	UpdatePassword(ctx context.Context, userID string, req *entity.UpdatePasswordRequest) (*AuthResult, error)
}

type UserServiceInterface interface {
	GetProfile(ctx context.Context, userID string) (*entity.User, error)
	UpdateProfile(ctx context.Context, userID string, req *entity.UpdateProfileRequest) (*entity.User, error)
	ListUsers(ctx context.Context) ([]entity.User, error)
	GetUser(ctx context.Context, id string) (*entity.User, error)
	UpdateUser(ctx context.Context, id string, req *entity.UpdateUserRequest) (*entity.User, error)
	DeleteUser(ctx context.Context, id string) error
}

type ProductServiceInterface interface {
	Search(ctx context.Context, filter entity.ProductFilter) (*entity.ProductPage, error)
	ListAll(ctx context.Context) ([]entity.Product, error)
	Create(ctx context.Context, creatorID string, req *entity.CreateProductRequest) (*entity.Product, error)
	Get(ctx context.Context, id string) (*entity.Product, error)
	Update(ctx context.Context, id string, req *entity.UpdateProductRequest) (*entity.Product, error)
	Delete(ctx context.Context, id string) error
	UpsertReview(ctx context.Context, principal entity.Principal, req *entity.ReviewRequest) (*entity.Product, error)
	GetReviews(ctx context.Context, productID string) ([]entity.Review, error)
	DeleteReview(ctx context.Context, principal entity.Principal, productID, reviewID string) (*entity.Product, error)
}

type OrderServiceInterface interface {
	Create(ctx context.Context, principal entity.Principal, req *entity.CreateOrderRequest) (*entity.Order, error)
	Get(ctx context.Context, principal entity.Principal, id string) (*entity.OrderWithCustomer, error)
	ListMine(ctx context.Context, principal entity.Principal) ([]entity.Order, error)
	ListAll(ctx context.Context) (*entity.AdminOrdersResponse, error)
	UpdateStatus(ctx context.Context, id string, status string) (*entity.Order, error)
	Delete(ctx context.Context, id string) error
}

type PaymentServiceInterface interface {
	ProcessPayment(ctx context.Context, amount int64) (string, error)
	PublishableKey() string
}
