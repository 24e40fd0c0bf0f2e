package service

import (
	"context"
	"fmt"

	"shopit/storefront-service/internal/app/storefront/infrastructure"
)

const paymentCurrency = "usd"

// PaymentService - платежные намерения Stripe
type PaymentService struct {
	gateway infrastructure.PaymentGateway
}

func NewPaymentService(gateway infrastructure.PaymentGateway) *PaymentService {
	return &PaymentService{gateway: gateway}
}

// ProcessPayment принимает сумму в центах и возвращает client_secret
func (s *PaymentService) ProcessPayment(ctx context.Context, amount int64) (string, error) {
	if amount <= 0 {
		return "", fmt.Errorf("%w: amount must be positive", ErrValidation)
	}

	secret, err := s.gateway.CreatePaymentIntent(ctx, amount, paymentCurrency)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExternalService, err)
	}
	return secret, nil
}

func (s *PaymentService) PublishableKey() string {
	return s.gateway.PublishableKey()
}
