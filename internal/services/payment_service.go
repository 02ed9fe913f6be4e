// internal/services/payment_service.go
package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"

	"github.com/pujaya/auction-backend/internal/config"
)

// PaymentService fronts Stripe for winning-bid checkout. Payment capture is
// a collaborator concern; no auction state depends on it.
type PaymentService struct {
	config *config.Config
}

type CreatePaymentIntentRequest struct {
	Amount   int64  `json:"amount" validate:"required,min=1"`
	Currency string `json:"currency,omitempty"`
}

type PaymentIntentResponse struct {
	ClientSecret string `json:"client_secret"`
	PaymentID    string `json:"payment_id"`
	Status       string `json:"status"`
}

func NewPaymentService(config *config.Config) *PaymentService {
	stripe.Key = config.Payment.StripeSecretKey

	return &PaymentService{config: config}
}

func (s *PaymentService) CreatePaymentIntent(userID uuid.UUID, req *CreatePaymentIntentRequest) (*PaymentIntentResponse, error) {
	currency := req.Currency
	if currency == "" {
		currency = "usd"
	}

	// Amounts are whole currency units; Stripe wants the minor unit.
	amountInCents := req.Amount * 100

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountInCents),
		Currency: stripe.String(currency),
	}
	params.AddMetadata("user_id", userID.String())

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return &PaymentIntentResponse{
		ClientSecret: pi.ClientSecret,
		PaymentID:    pi.ID,
		Status:       string(pi.Status),
	}, nil
}
