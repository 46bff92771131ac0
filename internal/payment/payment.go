// Package payment turns a checkout cart into a hosted payment session.
package payment

import (
	"context"
	"math"

	"coastline/api/internal/catalog"

	"github.com/google/uuid"
)

type Mode string

const (
	// ModePayment is a one-off charge for carts holding only one-time items.
	ModePayment Mode = "payment"
	// ModeSubscription covers the whole cart as soon as any item carries a
	// monthly price.
	ModeSubscription Mode = "subscription"
)

type CartItem struct {
	Name  string        `json:"name"`
	Price catalog.Price `json:"price"`
}

// LineItem is a provider-neutral charge line. Amount is in cents.
type LineItem struct {
	Name      string
	Amount    int64
	Recurring bool
}

type Session struct {
	ID  string
	URL string
}

// Client creates a hosted checkout session with the payment provider.
type Client interface {
	CreateSession(ctx context.Context, mode Mode, items []LineItem, customerEmail string) (Session, error)
}

// CartMode picks the session mode: any monthly-priced item switches the
// entire cart to subscription billing.
func CartMode(cart []CartItem) Mode {
	for _, item := range cart {
		if item.Price.Monthly > 0 {
			return ModeSubscription
		}
	}
	return ModePayment
}

// BuildLineItems normalizes the cart for the selected mode. In subscription
// mode the recurring amount comes from the monthly price; items without one
// stay as one-off setup charges alongside the subscription.
func BuildLineItems(cart []CartItem) (Mode, []LineItem) {
	mode := CartMode(cart)
	items := make([]LineItem, 0, len(cart))
	for _, entry := range cart {
		li := LineItem{Name: entry.Name}
		if mode == ModeSubscription && entry.Price.Monthly > 0 {
			li.Amount = cents(entry.Price.Monthly)
			li.Recurring = true
		} else {
			li.Amount = cents(entry.Price.OneTime)
		}
		items = append(items, li)
	}
	return mode, items
}

// cents rounds a dollar amount to whole cents. Plain truncation would turn
// 19.99 into 1998 because the float representation sits just under 1999.
func cents(amount catalog.Money) int64 {
	return int64(math.Round(float64(amount) * 100))
}

// MockClient stands in when no provider key is configured, so staging
// deployments can exercise checkout end to end without charging anyone.
type MockClient struct{}

func (MockClient) CreateSession(ctx context.Context, mode Mode, items []LineItem, customerEmail string) (Session, error) {
	id := "cs_mock_" + uuid.NewString()
	return Session{ID: id, URL: "/checkout/mock/" + id}, nil
}
