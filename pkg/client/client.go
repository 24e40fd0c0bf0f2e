// Package client - типизированный клиент storefront API.
// Хранит сессионную cookie и последний ответ по каждому объекту
// (каталог по запросу, товар по id, текущий пользователь, мои заказы).
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	apiPrefix      = "/api/v1"
	defaultTimeout = 15 * time.Second
)

var ErrNotAuthenticated = errors.New("not authenticated")

// APIError - ошибочный ответ сервера
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("storefront api: %d %s", e.Status, e.Message)
}

// IsStatus проверяет, что err - APIError с указанным кодом
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

type Client struct {
	baseURL string
	http    *http.Client
	cache   *store
}

// New создает клиент с собственной cookie jar
func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/") + apiPrefix,
		http:    &http.Client{Jar: jar, Timeout: defaultTimeout},
		cache:   newStore(),
	}, nil
}

// ClearCache сбрасывает все закэшированные ответы
func (c *Client) ClearCache() {
	c.cache.reset()
}

// ==================== Auth ====================

type authResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

func (c *Client) Register(ctx context.Context, name, email, password, avatar string) (*User, error) {
	body := map[string]string{"name": name, "email": email, "password": password, "avatar": avatar}

	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/register", body, &resp); err != nil {
		return nil, err
	}

	c.cache.reset()
	c.cache.put(domainMe, "", resp.User)
	return &resp.User, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	body := map[string]string{"email": email, "password": password}

	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/login", body, &resp); err != nil {
		return nil, err
	}

	c.cache.reset()
	c.cache.put(domainMe, "", resp.User)
	return &resp.User, nil
}

func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodGet, "/logout", nil, nil)
	c.cache.reset()
	return err
}

func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/password/forgot", map[string]string{"email": email}, nil)
}

func (c *Client) ResetPassword(ctx context.Context, token, password, confirm string) (*User, error) {
	body := map[string]string{"password": password, "confirm_password": confirm}

	var resp authResponse
	if err := c.do(ctx, http.MethodPut, "/password/reset/"+url.PathEscape(token), body, &resp); err != nil {
		return nil, err
	}

	c.cache.reset()
	c.cache.put(domainMe, "", resp.User)
	return &resp.User, nil
}

func (c *Client) UpdatePassword(ctx context.Context, oldPassword, password string) error {
	body := map[string]string{"old_password": oldPassword, "password": password}
	if err := c.do(ctx, http.MethodPut, "/password/update", body, nil); err != nil {
		return err
	}
	c.cache.invalidate(domainMe)
	return nil
}

// Me возвращает текущего пользователя, из кэша если он есть
func (c *Client) Me(ctx context.Context) (*User, error) {
	if v, ok := c.cache.get(domainMe, ""); ok {
		user := v.(User)
		return &user, nil
	}

	var resp struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/me", nil, &resp); err != nil {
		if IsStatus(err, http.StatusUnauthorized) {
			return nil, ErrNotAuthenticated
		}
		return nil, err
	}

	c.cache.put(domainMe, "", resp.User)
	return &resp.User, nil
}

func (c *Client) UpdateProfile(ctx context.Context, upd ProfileUpdate) (*User, error) {
	var resp struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPut, "/me/update", upd, &resp); err != nil {
		return nil, err
	}

	c.cache.put(domainMe, "", resp.User)
	return &resp.User, nil
}

// ==================== Products ====================

// Products возвращает страницу каталога; кэш ведется по query string
func (c *Client) Products(ctx context.Context, q ProductQuery) (*ProductPage, error) {
	query := q.encode()
	if v, ok := c.cache.get(domainProducts, query); ok {
		page := v.(ProductPage)
		return &page, nil
	}

	var page ProductPage
	path := "/products"
	if query != "" {
		path += "?" + query
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}

	c.cache.put(domainProducts, query, page)
	return &page, nil
}

func (c *Client) Product(ctx context.Context, id string) (*Product, error) {
	if v, ok := c.cache.get(domainProduct, id); ok {
		product := v.(Product)
		return &product, nil
	}

	var resp struct {
		Product Product `json:"product"`
	}
	if err := c.do(ctx, http.MethodGet, "/product/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}

	c.cache.put(domainProduct, id, resp.Product)
	return &resp.Product, nil
}

// UpsertReview создает или заменяет отзыв текущего пользователя
func (c *Client) UpsertReview(ctx context.Context, productID string, rating float64, comment string) error {
	body := map[string]any{"product_id": productID, "rating": rating, "comment": comment}
	if err := c.do(ctx, http.MethodPut, "/review", body, nil); err != nil {
		return err
	}
	c.cache.invalidate(domainProduct, domainProducts)
	return nil
}

func (c *Client) Reviews(ctx context.Context, productID string) ([]Review, error) {
	var resp struct {
		Reviews []Review `json:"reviews"`
	}
	if err := c.do(ctx, http.MethodGet, "/reviews?id="+url.QueryEscape(productID), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Reviews, nil
}

func (c *Client) DeleteReview(ctx context.Context, productID, reviewID string) error {
	q := url.Values{"productId": {productID}, "id": {reviewID}}
	if err := c.do(ctx, http.MethodDelete, "/reviews?"+q.Encode(), nil, nil); err != nil {
		return err
	}
	c.cache.invalidate(domainProduct, domainProducts)
	return nil
}

// ==================== Orders ====================

func (c *Client) CreateOrder(ctx context.Context, order NewOrder) (*Order, error) {
	var resp struct {
		Order Order `json:"order"`
	}
	if err := c.do(ctx, http.MethodPost, "/order/new", order, &resp); err != nil {
		return nil, err
	}

	c.cache.invalidate(domainMyOrders)
	return &resp.Order, nil
}

func (c *Client) Order(ctx context.Context, id string) (*Order, error) {
	var resp struct {
		Order Order `json:"order"`
	}
	if err := c.do(ctx, http.MethodGet, "/order/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Order, nil
}

func (c *Client) MyOrders(ctx context.Context) ([]Order, error) {
	if v, ok := c.cache.get(domainMyOrders, ""); ok {
		return v.([]Order), nil
	}

	var resp struct {
		Orders []Order `json:"orders"`
	}
	if err := c.do(ctx, http.MethodGet, "/orders/me", nil, &resp); err != nil {
		return nil, err
	}

	c.cache.put(domainMyOrders, "", resp.Orders)
	return resp.Orders, nil
}

// ==================== Payment ====================

// ProcessPayment возвращает client_secret платежного намерения; amount в центах
func (c *Client) ProcessPayment(ctx context.Context, amount int64) (string, error) {
	var resp struct {
		ClientSecret string `json:"client_secret"`
	}
	if err := c.do(ctx, http.MethodPost, "/payment/process", map[string]int64{"amount": amount}, &resp); err != nil {
		return "", err
	}
	return resp.ClientSecret, nil
}

func (c *Client) StripeAPIKey(ctx context.Context) (string, error) {
	var resp struct {
		Key string `json:"stripeApiKey"`
	}
	if err := c.do(ctx, http.MethodGet, "/stripeapi", nil, &resp); err != nil {
		return "", err
	}
	return resp.Key, nil
}

// ==================== Admin ====================

func (c *Client) AdminUsers(ctx context.Context) ([]User, error) {
	var resp struct {
		Users []User `json:"users"`
	}
	if err := c.do(ctx, http.MethodGet, "/admin/users", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

func (c *Client) AdminUpdateUser(ctx context.Context, id, name, email, role string) (*User, error) {
	body := map[string]string{"name": name, "email": email, "role": role}

	var resp struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPut, "/admin/user/"+url.PathEscape(id), body, &resp); err != nil {
		return nil, err
	}

	c.cache.invalidate(domainMe)
	return &resp.User, nil
}

func (c *Client) AdminDeleteUser(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/admin/user/"+url.PathEscape(id), nil, nil); err != nil {
		return err
	}
	c.cache.invalidate(domainMe)
	return nil
}

func (c *Client) AdminCreateProduct(ctx context.Context, in ProductInput) (*Product, error) {
	var resp struct {
		Product Product `json:"product"`
	}
	if err := c.do(ctx, http.MethodPost, "/admin/product/new", in, &resp); err != nil {
		return nil, err
	}

	c.cache.invalidate(domainProducts)
	return &resp.Product, nil
}

func (c *Client) AdminUpdateProduct(ctx context.Context, id string, fields map[string]any) (*Product, error) {
	var resp struct {
		Product Product `json:"product"`
	}
	if err := c.do(ctx, http.MethodPut, "/admin/product/"+url.PathEscape(id), fields, &resp); err != nil {
		return nil, err
	}

	c.cache.invalidate(domainProducts, domainProduct)
	return &resp.Product, nil
}

func (c *Client) AdminDeleteProduct(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/admin/product/"+url.PathEscape(id), nil, nil); err != nil {
		return err
	}
	c.cache.invalidate(domainProducts, domainProduct)
	return nil
}

// AdminOrders возвращает все заказы и их суммарную стоимость
func (c *Client) AdminOrders(ctx context.Context) ([]Order, float64, error) {
	var resp struct {
		Orders      []Order `json:"orders"`
		TotalAmount float64 `json:"total_amount"`
	}
	if err := c.do(ctx, http.MethodGet, "/admin/orders", nil, &resp); err != nil {
		return nil, 0, err
	}
	return resp.Orders, resp.TotalAmount, nil
}

// AdminUpdateOrderStatus меняет статус; Delivered списывает склад
func (c *Client) AdminUpdateOrderStatus(ctx context.Context, id, status string) (*Order, error) {
	var resp struct {
		Order Order `json:"order"`
	}
	if err := c.do(ctx, http.MethodPut, "/admin/order/"+url.PathEscape(id), map[string]string{"status": status}, &resp); err != nil {
		return nil, err
	}

	c.cache.invalidate(domainMyOrders, domainProducts, domainProduct)
	return &resp.Order, nil
}

func (c *Client) AdminDeleteOrder(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/admin/order/"+url.PathEscape(id), nil, nil); err != nil {
		return err
	}
	c.cache.invalidate(domainMyOrders)
	return nil
}

// ==================== transport ====================

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp.StatusCode, data)
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeError(status int, data []byte) error {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(data, &body)

	msg := body.Message
	if msg == "" {
		msg = body.Error
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{Status: status, Message: msg}
}

func (q ProductQuery) encode() string {
	v := url.Values{}
	if q.Keyword != "" {
		v.Set("keyword", q.Keyword)
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.PriceGTE != nil {
		v.Set("price[gte]", formatFloat(*q.PriceGTE))
	}
	if q.PriceLTE != nil {
		v.Set("price[lte]", formatFloat(*q.PriceLTE))
	}
	if q.RatingGTE != nil {
		v.Set("ratings[gte]", formatFloat(*q.RatingGTE))
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	// Encode сортирует ключи, одинаковые фильтры дают одинаковый ключ кэша
	return v.Encode()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
