// Package payment holds the Stripe implementation of the trip service's
// payment gate. The core only consumes a client secret on intent creation
// and a verified-success boolean on confirmation; everything else about the
// processor stays behind this package.
package payment

import (
	"context"
	"fmt"
	"strconv"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"github.com/trailmatch/backend/internal/domain"
)

// StripeGate implements service.PaymentGate against the Stripe API.
// The client is constructed explicitly and passed in — no package-level key.
type StripeGate struct {
	api *client.API
}

// NewStripeGate constructs a StripeGate with the given secret key.
func NewStripeGate(secretKey string) *StripeGate {
	return &StripeGate{api: client.New(secretKey, nil)}
}

// CreateIntent creates a payment intent for a listing upgrade and returns
// the client secret the frontend uses to collect the charge.
func (g *StripeGate) CreateIntent(ctx context.Context, amountCents int64, tripID, userID int64, tier domain.Tier) (string, error) {
	params := &stripe.PaymentIntentParams{
		Params:      stripe.Params{Context: ctx},
		Amount:      stripe.Int64(amountCents),
		Currency:    stripe.String(string(stripe.CurrencyUSD)),
		Description: stripe.String(fmt.Sprintf("Premium %s listing for trip #%d", tier, tripID)),
	}
	params.AddMetadata("trip_id", strconv.FormatInt(tripID, 10))
	params.AddMetadata("user_id", strconv.FormatInt(userID, 10))
	params.AddMetadata("tier", string(tier))

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return "", fmt.Errorf("payment.StripeGate.CreateIntent: %w", err)
	}
	return pi.ClientSecret, nil
}

// VerifyPayment retrieves the intent and reports whether it succeeded.
func (g *StripeGate) VerifyPayment(ctx context.Context, paymentIntentID string) (bool, error) {
	pi, err := g.api.PaymentIntents.Get(paymentIntentID, &stripe.PaymentIntentParams{
		Params: stripe.Params{Context: ctx},
	})
	if err != nil {
		return false, fmt.Errorf("payment.StripeGate.VerifyPayment: %w", err)
	}
	return pi.Status == stripe.PaymentIntentStatusSucceeded, nil
}
