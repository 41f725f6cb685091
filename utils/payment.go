package utils

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// MaxMinorUnits is the largest amount Stripe accepts for a single charge
const MaxMinorUnits = 99999999

var ErrInvalidAmount = errors.New("total must be a positive amount of at most 999999.99")

// ToMinorUnits converts a major-unit total to cents, truncating any
// fraction of a cent. Decimal arithmetic keeps 19.99 at 1999.
func ToMinorUnits(total float64) (int64, error) {
	if total <= 0 {
		return 0, ErrInvalidAmount
	}
	cents := decimal.NewFromFloat(total).Mul(decimal.NewFromInt(100)).Truncate(0)
	if !cents.IsPositive() || cents.GreaterThan(decimal.NewFromInt(MaxMinorUnits)) {
		return 0, ErrInvalidAmount
	}
	return cents.IntPart(), nil
}

// PaymentService creates payment intents with Stripe
type PaymentService struct {
	api      *client.API
	currency stripe.Currency
	methods  []string
}

// NewPaymentService creates a card-only USD payment service
func NewPaymentService(secretKey string) *PaymentService {
	return &PaymentService{
		api:      client.New(secretKey, nil),
		currency: stripe.CurrencyUSD,
		methods:  []string{"card"},
	}
}

// CreatePaymentIntent requests an intent for amount minor units and returns
// its client secret
func (ps *PaymentService) CreatePaymentIntent(ctx context.Context, amount int64) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(string(ps.currency)),
		PaymentMethodTypes: stripe.StringSlice(ps.methods),
	}
	params.Context = ctx

	intent, err := ps.api.PaymentIntents.New(params)
	if err != nil {
		return "", fmt.Errorf("create payment intent: %w", err)
	}
	return intent.ClientSecret, nil
}
