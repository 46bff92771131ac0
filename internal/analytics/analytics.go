// Package analytics serves site traffic metrics to the admin dashboard.
// Numbers come from the GA4 Data API when credentials are configured;
// otherwise, and whenever the upstream call fails, randomized mock data is
// served instead. The silent downgrade is deliberate: the dashboard must
// render on demo and staging deployments that have no analytics property.
package analytics

import (
	"context"
	"math/rand"
	"time"
)

type Provider interface {
	Realtime(ctx context.Context) (map[string]any, error)
	Summary(ctx context.Context) (map[string]any, error)
}

// Service fronts the provider with the mock fallback and an optional Redis
// response cache. Both provider and cache may be nil.
type Service struct {
	provider Provider
	cache    *Cache
}

func NewService(provider Provider, cache *Cache) *Service {
	return &Service{provider: provider, cache: cache}
}

// Realtime never fails: upstream errors downgrade to mock data.
func (s *Service) Realtime(ctx context.Context) map[string]any {
	return s.fetch(ctx, "analytics:realtime", func(p Provider) (map[string]any, error) {
		return p.Realtime(ctx)
	}, MockRealtime)
}

func (s *Service) Summary(ctx context.Context) map[string]any {
	return s.fetch(ctx, "analytics:summary", func(p Provider) (map[string]any, error) {
		return p.Summary(ctx)
	}, MockSummary)
}

func (s *Service) fetch(ctx context.Context, cacheKey string, call func(Provider) (map[string]any, error), mock func() map[string]any) map[string]any {
	if s.provider == nil {
		return mock()
	}
	if s.cache != nil {
		if payload, ok := s.cache.Get(ctx, cacheKey); ok {
			return payload
		}
	}
	payload, err := call(s.provider)
	if err != nil {
		return mock()
	}
	if s.cache != nil {
		s.cache.Set(ctx, cacheKey, payload)
	}
	return payload
}

// MockRealtime fabricates a plausible live-traffic snapshot.
func MockRealtime() map[string]any {
	return map[string]any{
		"source":      "mock",
		"activeUsers": rand.Intn(45) + 5,
		"pageViews":   rand.Intn(180) + 20,
		"topPages": []map[string]any{
			{"path": "/", "activeUsers": rand.Intn(20) + 3},
			{"path": "/growth-machine", "activeUsers": rand.Intn(10) + 1},
			{"path": "/admin.html", "activeUsers": 1},
		},
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
}

// MockSummary fabricates a 28-day traffic summary.
func MockSummary() map[string]any {
	sessions := rand.Intn(4000) + 1000
	return map[string]any{
		"source":             "mock",
		"period":             "28d",
		"totalUsers":         sessions - rand.Intn(sessions/3),
		"sessions":           sessions,
		"pageViews":          sessions*2 + rand.Intn(sessions),
		"bounceRate":         float64(rand.Intn(40)+30) / 100,
		"avgSessionDuration": rand.Intn(180) + 45,
		"topSources": []map[string]any{
			{"source": "google", "sessions": rand.Intn(sessions/2) + 100},
			{"source": "direct", "sessions": rand.Intn(sessions/3) + 50},
			{"source": "facebook", "sessions": rand.Intn(sessions/4) + 25},
		},
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
}
