package payment

import (
	"context"
	"fmt"

	"shopit/pkg/metrics"
	"shopit/storefront-service/internal/app/storefront/infrastructure"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/paymentintent"
)

// StripeGateway создает PaymentIntent через Stripe API
type StripeGateway struct {
	client         paymentintent.Client
	publishableKey string
}

var _ infrastructure.PaymentGateway = (*StripeGateway)(nil)

// NewStripeGateway: apiURL переопределяет адрес API (stripe-mock, тесты), пустой - боевой
func NewStripeGateway(secretKey, publishableKey, apiURL string) *StripeGateway {
	var backend stripe.Backend
	if apiURL != "" {
		backend = stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
			URL:               stripe.String(apiURL),
			MaxNetworkRetries: stripe.Int64(0),
		})
	} else {
		backend = stripe.GetBackend(stripe.APIBackend)
	}

	return &StripeGateway{
		client:         paymentintent.Client{B: backend, Key: secretKey},
		publishableKey: publishableKey,
	}
}

func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, amount int64, currency string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
	}
	params.Context = ctx
	params.AddMetadata("integration_check", "accept_a_payment")

	intent, err := g.client.New(params)
	if err != nil {
		metrics.PaymentIntents.WithLabelValues("failed").Inc()
		return "", fmt.Errorf("failed to create payment intent: %w", err)
	}

	metrics.PaymentIntents.WithLabelValues("success").Inc()
	return intent.ClientSecret, nil
}

func (g *StripeGateway) PublishableKey() string {
	return g.publishableKey
}
