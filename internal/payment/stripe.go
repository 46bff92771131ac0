package payment

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v79"
	checkoutsession "github.com/stripe/stripe-go/v79/checkout/session"
)

// StripeClient creates Stripe Checkout sessions. Provider failures are
// returned to the caller verbatim; checkout has no mock fallback once a key
// is configured.
type StripeClient struct {
	successURL string
	cancelURL  string
}

func NewStripeClient(apiKey, successURL, cancelURL string) *StripeClient {
	stripe.Key = apiKey
	return &StripeClient{successURL: successURL, cancelURL: cancelURL}
}

func (c *StripeClient) CreateSession(ctx context.Context, mode Mode, items []LineItem, customerEmail string) (Session, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(mode)),
		SuccessURL: stripe.String(c.successURL),
		CancelURL:  stripe.String(c.cancelURL),
	}
	params.Context = ctx
	if customerEmail != "" {
		params.CustomerEmail = stripe.String(customerEmail)
	}

	for _, item := range items {
		priceData := &stripe.CheckoutSessionLineItemPriceDataParams{
			Currency:   stripe.String("usd"),
			UnitAmount: stripe.Int64(item.Amount),
			ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
				Name: stripe.String(item.Name),
			},
		}
		if item.Recurring {
			priceData.Recurring = &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
				Interval: stripe.String("month"),
			}
		}
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			Quantity:  stripe.Int64(1),
			PriceData: priceData,
		})
	}

	created, err := checkoutsession.New(params)
	if err != nil {
		return Session{}, fmt.Errorf("create checkout session: %w", err)
	}
	return Session{ID: created.ID, URL: created.URL}, nil
}
