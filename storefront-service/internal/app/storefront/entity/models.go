package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Роли пользователей
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Image - ссылка на изображение во внешнем хостинге (Cloudinary)
type Image struct {
	PublicID string `json:"public_id" bson:"public_id"`
	URL      string `json:"url" bson:"url"`
}

// User представляет покупателя или администратора магазина
type User struct {
	ID                  primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name                string             `json:"name" bson:"name"`
	Email               string             `json:"email" bson:"email"`
	PasswordHash        string             `json:"-" bson:"password"` // не возвращаем в JSON
	Avatar              Image              `json:"avatar" bson:"avatar"`
	Role                string             `json:"role" bson:"role"`
	ResetPasswordToken  string             `json:"-" bson:"reset_password_token,omitempty"` // sha256 от токена из письма
	ResetPasswordExpire *time.Time         `json:"-" bson:"reset_password_expire,omitempty"`
	CreatedAt           time.Time          `json:"created_at" bson:"created_at"`
}

// IsAdmin проверяет роль администратора
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Review - отзыв пользователя, хранится внутри документа товара
type Review struct {
	ID      primitive.ObjectID `json:"id" bson:"_id"`
	UserID  primitive.ObjectID `json:"user" bson:"user"`
	Name    string             `json:"name" bson:"name"`
	Rating  float64            `json:"rating" bson:"rating"`
	Comment string             `json:"comment" bson:"comment"`
}

// Product представляет товар каталога вместе с отзывами
type Product struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Price        float64            `json:"price" bson:"price"`
	Description  string             `json:"description" bson:"description"`
	Ratings      float64            `json:"ratings" bson:"ratings"` // среднее по reviews
	Images       []Image            `json:"images" bson:"images"`
	Category     string             `json:"category" bson:"category"`
	Seller       string             `json:"seller" bson:"seller"`
	Stock        int                `json:"stock" bson:"stock"`
	NumOfReviews int                `json:"num_of_reviews" bson:"num_of_reviews"` // len(reviews)
	Reviews      []Review           `json:"reviews" bson:"reviews"`
	CreatedBy    primitive.ObjectID `json:"user" bson:"user"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
}

// ShippingInfo - адрес доставки
type ShippingInfo struct {
	Address    string `json:"address" bson:"address" validate:"required"`
	City       string `json:"city" bson:"city" validate:"required"`
	PhoneNo    string `json:"phone_no" bson:"phone_no" validate:"required"`
	PostalCode string `json:"postal_code" bson:"postal_code" validate:"required"`
	Country    string `json:"country" bson:"country" validate:"required"`
}

// PaymentInfo - ссылка на платеж в Stripe
type PaymentInfo struct {
	ID     string `json:"id" bson:"id"`
	Status string `json:"status" bson:"status"`
}

// OrderItem - позиция заказа со снимком цены на момент покупки
type OrderItem struct {
	Name      string             `json:"name" bson:"name" validate:"required"`
	Quantity  int                `json:"quantity" bson:"quantity" validate:"required,gt=0"`
	Image     string             `json:"image" bson:"image"`
	Price     float64            `json:"price" bson:"price" validate:"gte=0"`
	ProductID primitive.ObjectID `json:"product" bson:"product" validate:"required"`
}

// Order представляет заказ покупателя
type Order struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ShippingInfo  ShippingInfo       `json:"shipping_info" bson:"shipping_info"`
	UserID        primitive.ObjectID `json:"user" bson:"user"`
	OrderItems    []OrderItem        `json:"order_items" bson:"order_items"`
	PaymentInfo   PaymentInfo        `json:"payment_info" bson:"payment_info"`
	PaidAt        time.Time          `json:"paid_at" bson:"paid_at"`
	ItemsPrice    float64            `json:"items_price" bson:"items_price"`
	TaxPrice      float64            `json:"tax_price" bson:"tax_price"`
	ShippingPrice float64            `json:"shipping_price" bson:"shipping_price"`
	TotalPrice    float64            `json:"total_price" bson:"total_price"`
	OrderStatus   OrderStatus        `json:"order_status" bson:"order_status"`
	StockAdjusted bool               `json:"-" bson:"stock_adjusted"` // склад уже списан этим заказом
	DeliveredAt   *time.Time         `json:"delivered_at,omitempty" bson:"delivered_at,omitempty"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
}

// OrderCustomer - имя и email покупателя для детального просмотра заказа
type OrderCustomer struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
}

// OrderWithCustomer - заказ с данными покупателя (аналог populate)
type OrderWithCustomer struct {
	Order
	Customer *OrderCustomer `json:"customer,omitempty"`
}
