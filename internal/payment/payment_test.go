package payment

import (
	"context"
	"strings"
	"testing"

	"coastline/api/internal/catalog"
)

func TestCartModeOneTimeOnly(t *testing.T) {
	cart := []CartItem{
		{Name: "Website Launch", Price: catalog.Price{OneTime: 3500}},
		{Name: "Rush Upgrade", Price: catalog.Price{OneTime: 500}},
	}
	if mode := CartMode(cart); mode != ModePayment {
		t.Fatalf("expected payment mode, got %s", mode)
	}
}

func TestCartModeAnyMonthlyItemSwitchesCart(t *testing.T) {
	cart := []CartItem{
		{Name: "Website Launch", Price: catalog.Price{OneTime: 3500}},
		{Name: "WebCare Engine", Price: catalog.Price{Monthly: 500}},
	}
	if mode := CartMode(cart); mode != ModeSubscription {
		t.Fatalf("expected subscription mode, got %s", mode)
	}
}

func TestBuildLineItemsPaymentMode(t *testing.T) {
	_, items := BuildLineItems([]CartItem{
		{Name: "Website Launch", Price: catalog.Price{OneTime: 3500}},
	})
	if len(items) != 1 {
		t.Fatalf("expected one line item, got %d", len(items))
	}
	if items[0].Amount != 350000 || items[0].Recurring {
		t.Errorf("expected 350000 cents one-off, got %+v", items[0])
	}
}

func TestBuildLineItemsSubscriptionModeUsesMonthlyPrice(t *testing.T) {
	mode, items := BuildLineItems([]CartItem{
		{Name: "WebCare Engine", Price: catalog.Price{OneTime: 250, Monthly: 500}},
		{Name: "Website Launch", Price: catalog.Price{OneTime: 3500}},
	})
	if mode != ModeSubscription {
		t.Fatalf("expected subscription mode, got %s", mode)
	}
	if items[0].Amount != 50000 || !items[0].Recurring {
		t.Errorf("expected recurring amount from monthly price, got %+v", items[0])
	}
	// One-time items in a subscription cart stay as setup charges.
	if items[1].Amount != 350000 || items[1].Recurring {
		t.Errorf("expected one-off setup charge, got %+v", items[1])
	}
}

func TestBuildLineItemsRoundsFractionalPrices(t *testing.T) {
	_, items := BuildLineItems([]CartItem{
		{Name: "Starter Plan", Price: catalog.Price{Monthly: 19.99}},
		{Name: "Setup Fee", Price: catalog.Price{OneTime: 99.95}},
		{Name: "Half Dollar", Price: catalog.Price{OneTime: 1500.5}},
	})
	if items[0].Amount != 1999 {
		t.Errorf("monthly 19.99: expected 1999 cents, got %d", items[0].Amount)
	}
	if items[1].Amount != 9995 {
		t.Errorf("one-time 99.95: expected 9995 cents, got %d", items[1].Amount)
	}
	if items[2].Amount != 150050 {
		t.Errorf("one-time 1500.5: expected 150050 cents, got %d", items[2].Amount)
	}
}

func TestMockClientSessions(t *testing.T) {
	var client MockClient
	s1, err := client.CreateSession(context.Background(), ModePayment, nil, "")
	if err != nil {
		t.Fatalf("mock session: %v", err)
	}
	s2, _ := client.CreateSession(context.Background(), ModePayment, nil, "")

	if !strings.HasPrefix(s1.ID, "cs_mock_") {
		t.Errorf("expected mock prefix, got %s", s1.ID)
	}
	if s1.ID == s2.ID {
		t.Errorf("expected unique mock session IDs")
	}
	if s1.URL == "" {
		t.Errorf("expected a redirect URL")
	}
}
