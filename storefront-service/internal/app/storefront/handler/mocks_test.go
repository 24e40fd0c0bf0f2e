package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"time"

	"shopit/storefront-service/internal/app/storefront/entity"
	"shopit/storefront-service/internal/app/storefront/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

const (
	testUserToken  = "user-token"
	testAdminToken = "admin-token"
	testUserID     = "64b7f0c2a1b2c3d4e5f60718"
	testAdminID    = "64b7f0c2a1b2c3d4e5f60719"
)

// stubAuthenticator знает два фиксированных токена
type stubAuthenticator struct{}

func (stubAuthenticator) Authenticate(_ context.Context, token string) (*entity.Principal, error) {
	switch token {
	case testUserToken:
		return &entity.Principal{UserID: testUserID, Email: "user@example.com", Role: entity.RoleUser, Token: token}, nil
	case testAdminToken:
		return &entity.Principal{UserID: testAdminID, Email: "admin@example.com", Role: entity.RoleAdmin, Token: token}, nil
	}
	return nil, service.ErrInvalidToken
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req *entity.RegisterRequest) (*service.AuthResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResult), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req *entity.LoginRequest) (*service.AuthResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResult), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockAuthService) Authenticate(ctx context.Context, token string) (*entity.Principal, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Principal), args.Error(1)
}

func (m *MockAuthService) ForgotPassword(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockAuthService) ResetPassword(ctx context.Context, rawToken string, req *entity.ResetPasswordRequest) (*service.AuthResult, error) {
	args := m.Called(ctx, rawToken, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResult), args.Error(1)
}

func (m *MockAuthService) UpdatePassword(ctx context.Context, userID string, req *entity.UpdatePasswordRequest) (*service.AuthResult, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResult), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, userID string, req *entity.UpdateProfileRequest) (*entity.User, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserService) ListUsers(ctx context.Context) ([]entity.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.User), args.Error(1)
}

func (m *MockUserService) GetUser(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserService) UpdateUser(ctx context.Context, id string, req *entity.UpdateUserRequest) (*entity.User, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserService) DeleteUser(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) Search(ctx context.Context, filter entity.ProductFilter) (*entity.ProductPage, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ProductPage), args.Error(1)
}

func (m *MockProductService) ListAll(ctx context.Context) ([]entity.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Product), args.Error(1)
}

func (m *MockProductService) Create(ctx context.Context, creatorID string, req *entity.CreateProductRequest) (*entity.Product, error) {
	args := m.Called(ctx, creatorID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Product), args.Error(1)
}

func (m *MockProductService) Get(ctx context.Context, id string) (*entity.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Product), args.Error(1)
}

func (m *MockProductService) Update(ctx context.Context, id string, req *entity.UpdateProductRequest) (*entity.Product, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Product), args.Error(1)
}

func (m *MockProductService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductService) UpsertReview(ctx context.Context, principal entity.Principal, req *entity.ReviewRequest) (*entity.Product, error) {
	args := m.Called(ctx, principal, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Product), args.Error(1)
}

func (m *MockProductService) GetReviews(ctx context.Context, productID string) ([]entity.Review, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Review), args.Error(1)
}

func (m *MockProductService) DeleteReview(ctx context.Context, principal entity.Principal, productID, reviewID string) (*entity.Product, error) {
	args := m.Called(ctx, principal, productID, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Product), args.Error(1)
}

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Create(ctx context.Context, principal entity.Principal, req *entity.CreateOrderRequest) (*entity.Order, error) {
	args := m.Called(ctx, principal, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *MockOrderService) Get(ctx context.Context, principal entity.Principal, id string) (*entity.OrderWithCustomer, error) {
	args := m.Called(ctx, principal, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.OrderWithCustomer), args.Error(1)
}

func (m *MockOrderService) ListMine(ctx context.Context, principal entity.Principal) ([]entity.Order, error) {
	args := m.Called(ctx, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Order), args.Error(1)
}

func (m *MockOrderService) ListAll(ctx context.Context) (*entity.AdminOrdersResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AdminOrdersResponse), args.Error(1)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, id string, status string) (*entity.Order, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *MockOrderService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) ProcessPayment(ctx context.Context, amount int64) (string, error) {
	args := m.Called(ctx, amount)
	return args.String(0), args.Error(1)
}

func (m *MockPaymentService) PublishableKey() string {
	args := m.Called()
	return args.String(0)
}

type testServices struct {
	auth     *MockAuthService
	users    *MockUserService
	products *MockProductService
	orders   *MockOrderService
	payment  *MockPaymentService
}

// newTestRouter собирает полный роутер на моках сервисов
func newTestRouter() (*gin.Engine, *testServices) {
	s := &testServices{
		auth:     new(MockAuthService),
		users:    new(MockUserService),
		products: new(MockProductService),
		orders:   new(MockOrderService),
		payment:  new(MockPaymentService),
	}

	handlers := Handlers{
		Auth:    NewAuthHandler(s.auth, s.users, CookieSettings{MaxAge: 7 * 24 * time.Hour}),
		Users:   NewUserHandler(s.users),
		Product: NewProductHandler(s.products, 4),
		Order:   NewOrderHandler(s.orders),
		Payment: NewPaymentHandler(s.payment),
	}

	return SetupRoutes(handlers, NewAuthMiddleware(stubAuthenticator{}), "http://localhost:3000"), s
}

func withToken(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func performRequest(router http.Handler, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}
