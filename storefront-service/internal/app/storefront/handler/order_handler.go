package handler

import (
	"net/http"

	"shopit/storefront-service/internal/app/storefront/entity"
	"shopit/storefront-service/internal/app/storefront/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type OrderHandler struct {
	orderService service.OrderServiceInterface
	validator    *validator.Validate
}

func NewOrderHandler(orderService service.OrderServiceInterface) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		validator:    validator.New(),
	}
}

// CreateOrder POST /order/new
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	principal, _ := currentPrincipal(c)

	var req entity.CreateOrderRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), principal, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "order": order})
}

// GetOrder GET /order/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	principal, _ := currentPrincipal(c)

	order, err := h.orderService.Get(c.Request.Context(), principal, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

// MyOrders GET /orders/me
func (h *OrderHandler) MyOrders(c *gin.Context) {
	principal, _ := currentPrincipal(c)

	orders, err := h.orderService.ListMine(c.Request.Context(), principal)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
}

// AllOrders GET /admin/orders
func (h *OrderHandler) AllOrders(c *gin.Context) {
	result, err := h.orderService.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"total_amount": result.TotalAmount,
		"orders":       result.Orders,
	})
}

// UpdateOrderStatus PUT /admin/order/:id
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	var req entity.UpdateOrderStatusRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

// DeleteOrder DELETE /admin/order/:id
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	if err := h.orderService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
