package handler

import (
	"net/http"

	"shopit/storefront-service/internal/app/storefront/entity"
	"shopit/storefront-service/internal/app/storefront/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type PaymentHandler struct {
	paymentService service.PaymentServiceInterface
	validator      *validator.Validate
}

func NewPaymentHandler(paymentService service.PaymentServiceInterface) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		validator:      validator.New(),
	}
}

// ProcessPayment POST /payment/process
func (h *PaymentHandler) ProcessPayment(c *gin.Context) {
	var req entity.PaymentRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	clientSecret, err := h.paymentService.ProcessPayment(c.Request.Context(), req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "client_secret": clientSecret})
}

// StripeAPIKey GET /stripeapi
func (h *PaymentHandler) StripeAPIKey(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"stripeApiKey": h.paymentService.PublishableKey()})
}
