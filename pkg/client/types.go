package client

import "time"

// Image - ссылка на изображение в хостинге
type Image struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
}

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Avatar    Image     `json:"avatar"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type Review struct {
	ID      string  `json:"id"`
	UserID  string  `json:"user"`
	Name    string  `json:"name"`
	Rating  float64 `json:"rating"`
	Comment string  `json:"comment"`
}

type Product struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Price        float64   `json:"price"`
	Description  string    `json:"description"`
	Ratings      float64   `json:"ratings"`
	Images       []Image   `json:"images"`
	Category     string    `json:"category"`
	Seller       string    `json:"seller"`
	Stock        int       `json:"stock"`
	NumOfReviews int       `json:"num_of_reviews"`
	Reviews      []Review  `json:"reviews"`
	CreatedAt    time.Time `json:"created_at"`
}

// ProductPage - страница каталога вместе со счетчиками
type ProductPage struct {
	Products              []Product `json:"products"`
	ProductsCount         int64     `json:"products_count"`
	FilteredProductsCount int64     `json:"filtered_products_count"`
	ResPerPage            int       `json:"res_per_page"`
	Page                  int       `json:"page"`
}

type ShippingInfo struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PhoneNo    string `json:"phone_no"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type PaymentInfo struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type OrderItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
	ProductID string  `json:"product"`
}

type Customer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Order struct {
	ID            string       `json:"id"`
	ShippingInfo  ShippingInfo `json:"shipping_info"`
	UserID        string       `json:"user"`
	OrderItems    []OrderItem  `json:"order_items"`
	PaymentInfo   PaymentInfo  `json:"payment_info"`
	PaidAt        time.Time    `json:"paid_at"`
	ItemsPrice    float64      `json:"items_price"`
	TaxPrice      float64      `json:"tax_price"`
	ShippingPrice float64      `json:"shipping_price"`
	TotalPrice    float64      `json:"total_price"`
	OrderStatus   string       `json:"order_status"`
	DeliveredAt   *time.Time   `json:"delivered_at,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	Customer      *Customer    `json:"customer,omitempty"`
}

// NewOrder - тело POST /order/new; пустые цены сервер посчитает сам
type NewOrder struct {
	OrderItems    []OrderItem  `json:"order_items"`
	ShippingInfo  ShippingInfo `json:"shipping_info"`
	PaymentInfo   PaymentInfo  `json:"payment_info"`
	ItemsPrice    *float64     `json:"items_price,omitempty"`
	TaxPrice      *float64     `json:"tax_price,omitempty"`
	ShippingPrice *float64     `json:"shipping_price,omitempty"`
	TotalPrice    *float64     `json:"total_price,omitempty"`
}

type ProductInput struct {
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Seller      string   `json:"seller"`
	Stock       int      `json:"stock"`
	Images      []string `json:"images,omitempty"`
}

type ProfileUpdate struct {
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

// ProductQuery - фильтры каталога, переводятся в query string
type ProductQuery struct {
	Keyword   string
	Category  string
	PriceGTE  *float64
	PriceLTE  *float64
	RatingGTE *float64
	Page      int
	Limit     int
}
