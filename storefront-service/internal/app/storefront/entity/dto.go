package entity

// Categories - фиксированный список категорий каталога
var Categories = []string{
	"Electronics",
	"Cameras",
	"Laptops",
	"Accessories",
	"Headphones",
	"Food",
	"Books",
	"Clothes/Shoes",
	"Beauty/Health",
	"Sports",
	"Outdoor",
	"Home",
}

// RegisterRequest - запрос на регистрацию; avatar передается как data URI или URL
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Avatar   string `json:"avatar"`
}

// LoginRequest - запрос на вход
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordRequest - запрос ссылки для сброса пароля
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest - новый пароль по токену из письма
type ResetPasswordRequest struct {
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// UpdatePasswordRequest - смена пароля авторизованным пользователем
type UpdatePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	Password    string `json:"password" validate:"required,min=6"`
}

// UpdateProfileRequest - обновление своего профиля
type UpdateProfileRequest struct {
	Name   string `json:"name" validate:"omitempty,max=30"`
	Email  string `json:"email" validate:"omitempty,email"`
	Avatar string `json:"avatar"`
}

// UpdateUserRequest - обновление пользователя администратором
type UpdateUserRequest struct {
	Name  string `json:"name" validate:"omitempty,max=30"`
	Email string `json:"email" validate:"omitempty,email"`
	Role  string `json:"role" validate:"omitempty,oneof=user admin"`
}

// CreateProductRequest - создание товара; images - data URI или URL
type CreateProductRequest struct {
	Name        string   `json:"name" validate:"required,max=100"`
	Price       float64  `json:"price" validate:"gte=0"`
	Description string   `json:"description" validate:"required"`
	Category    string   `json:"category" validate:"required"`
	Seller      string   `json:"seller" validate:"required"`
	Stock       int      `json:"stock" validate:"gte=0"`
	Images      []string `json:"images"`
}

// UpdateProductRequest - частичное обновление товара
type UpdateProductRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,max=100"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Seller      *string  `json:"seller,omitempty"`
	Stock       *int     `json:"stock,omitempty"`
	Images      []string `json:"images,omitempty"`
}

// ReviewRequest - создание или замена отзыва
type ReviewRequest struct {
	ProductID string  `json:"product_id" validate:"required"`
	Rating    float64 `json:"rating" validate:"required,min=1,max=5"`
	Comment   string  `json:"comment" validate:"required"`
}

// CreateOrderRequest - оформление заказа. Суммы считаются на сервере, если не переданы.
type CreateOrderRequest struct {
	OrderItems    []OrderItem  `json:"order_items" validate:"required,min=1,dive"`
	ShippingInfo  ShippingInfo `json:"shipping_info" validate:"required"`
	PaymentInfo   PaymentInfo  `json:"payment_info"`
	ItemsPrice    *float64     `json:"items_price,omitempty" validate:"omitempty,gte=0"`
	TaxPrice      *float64     `json:"tax_price,omitempty" validate:"omitempty,gte=0"`
	ShippingPrice *float64     `json:"shipping_price,omitempty" validate:"omitempty,gte=0"`
	TotalPrice    *float64     `json:"total_price,omitempty" validate:"omitempty,gte=0"`
}

// UpdateOrderStatusRequest - смена статуса заказа администратором
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// PaymentRequest - сумма платежа в центах
type PaymentRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

// NumberRange - ограничения на числовое поле: price[gte]=1&price[lt]=200
type NumberRange struct {
	Gte *float64
	Gt  *float64
	Lte *float64
	Lt  *float64
}

// IsEmpty - ни одно ограничение не задано
func (r NumberRange) IsEmpty() bool {
	return r.Gte == nil && r.Gt == nil && r.Lte == nil && r.Lt == nil
}

// ProductFilter - разобранные параметры каталога
type ProductFilter struct {
	Keyword  string
	Category string
	Price    NumberRange
	Ratings  NumberRange
	Page     int
	PageSize int
}

// ProductPage - страница каталога
type ProductPage struct {
	Products              []Product `json:"products"`
	ProductsCount         int64     `json:"products_count"`
	FilteredProductsCount int64     `json:"filtered_products_count"`
	ResPerPage            int       `json:"res_per_page"`
	Page                  int       `json:"page"`
}

// AdminOrdersResponse - все заказы и сумма по ним
type AdminOrdersResponse struct {
	Orders      []Order `json:"orders"`
	TotalAmount float64 `json:"total_amount"`
}

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
