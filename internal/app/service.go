// Package app wires the HTTP surface to the domain packages: catalog and
// content persistence, admin auth, checkout and analytics.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"coastline/api/internal/analytics"
	"coastline/api/internal/auth"
	"coastline/api/internal/catalog"
	"coastline/api/internal/content"
	"coastline/api/internal/docstore"
	"coastline/api/internal/payment"
	"coastline/api/internal/seed"
)

const catalogDocument = "services-data"

type Service struct {
	store     docstore.Store
	gateway   *auth.Gateway
	content   *content.Manager
	payments  payment.Client
	analytics *analytics.Service
	env       string
	started   time.Time
}

func NewService(store docstore.Store, gateway *auth.Gateway, payments payment.Client, analyticsSvc *analytics.Service, env string) *Service {
	return &Service{
		store:     store,
		gateway:   gateway,
		content:   content.NewManager(store, seed.Content),
		payments:  payments,
		analytics: analyticsSvc,
		env:       env,
		started:   time.Now(),
	}
}

func (s *Service) Gateway() *auth.Gateway {
	return s.gateway
}

// Catalog loads the services document, seeding the default catalog on first
// use.
func (s *Service) Catalog(ctx context.Context) (*catalog.Catalog, error) {
	data, err := s.store.Load(ctx, catalogDocument, seed.Catalog)
	if err != nil {
		return nil, err
	}
	doc := catalog.NewCatalog()
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("decode services document: %w", err)
	}
	return doc, nil
}

// SaveCatalog replaces the whole services document.
func (s *Service) SaveCatalog(ctx context.Context, doc *catalog.Catalog) error {
	if doc == nil || doc.Categories == nil {
		return domainError(http.StatusBadRequest, "VALIDATION_ERROR", "serviceCategories is required", nil)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode services document: %w", err)
	}
	return s.store.Save(ctx, catalogDocument, data)
}

// ReconcileCatalog rebuilds the catalog from the admin table's flat rows and
// persists the result.
func (s *Service) ReconcileCatalog(ctx context.Context, rows []catalog.FlatServiceRow, addonRows []catalog.FlatAddonRow) (*catalog.Catalog, error) {
	previous, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	next := catalog.Reconcile(rows, addonRows, previous)
	if err := s.SaveCatalog(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

func (s *Service) CreateService(ctx context.Context, categoryKey string, svc catalog.Service) (*catalog.Catalog, error) {
	doc, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	if err := doc.AddService(categoryKey, svc); err != nil {
		return nil, err
	}
	if err := s.SaveCatalog(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *Service) CreateAddon(ctx context.Context, addon catalog.Addon) (*catalog.Catalog, error) {
	doc, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	if err := doc.AddAddon(addon); err != nil {
		return nil, err
	}
	if err := s.SaveCatalog(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *Service) Content(ctx context.Context) (map[string]any, error) {
	return s.content.Get(ctx)
}

func (s *Service) SaveContent(ctx context.Context, doc map[string]any) (map[string]any, error) {
	if doc == nil {
		return nil, domainError(http.StatusBadRequest, "VALIDATION_ERROR", "content document must be a JSON object", nil)
	}
	return s.content.Put(ctx, doc)
}

// Checkout creates a hosted payment session for the cart. Any monthly-priced
// item switches the whole cart to subscription billing.
func (s *Service) Checkout(ctx context.Context, cart []payment.CartItem, customerEmail string) (payment.Session, payment.Mode, error) {
	if len(cart) == 0 {
		return payment.Session{}, "", domainError(http.StatusBadRequest, "VALIDATION_ERROR", "cart is empty", nil)
	}
	mode, items := payment.BuildLineItems(cart)
	session, err := s.payments.CreateSession(ctx, mode, items, customerEmail)
	if err != nil {
		return payment.Session{}, mode, domainError(http.StatusInternalServerError, "CHECKOUT_FAILED", "Could not create checkout session", err.Error())
	}
	return session, mode, nil
}

func (s *Service) AnalyticsRealtime(ctx context.Context) map[string]any {
	return s.analytics.Realtime(ctx)
}

func (s *Service) AnalyticsSummary(ctx context.Context) map[string]any {
	return s.analytics.Summary(ctx)
}

// Health reports process diagnostics plus a document store probe.
func (s *Service) Health(ctx context.Context) (map[string]any, bool) {
	checks := map[string]any{
		"documents": map[string]any{"status": "ok"},
	}
	healthy := true
	if _, err := s.store.Load(ctx, catalogDocument, seed.Catalog); err != nil {
		healthy = false
		checks["documents"] = map[string]any{"status": "error", "error": err.Error()}
	}
	return map[string]any{
		"ok":            healthy,
		"status":        statusWord(healthy),
		"environment":   s.env,
		"uptimeSeconds": int(time.Since(s.started).Seconds()),
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
		"checks":        checks,
	}, healthy
}

func statusWord(healthy bool) string {
	if healthy {
		return "healthy"
	}
	return "degraded"
}
