package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

type fakeProvider struct {
	realtimeFn func(context.Context) (map[string]any, error)
	summaryFn  func(context.Context) (map[string]any, error)
	calls      int
}

func (f *fakeProvider) Realtime(ctx context.Context) (map[string]any, error) {
	f.calls++
	if f.realtimeFn != nil {
		return f.realtimeFn(ctx)
	}
	return map[string]any{"source": "ga4", "activeUsers": 12}, nil
}

func (f *fakeProvider) Summary(ctx context.Context) (map[string]any, error) {
	f.calls++
	if f.summaryFn != nil {
		return f.summaryFn(ctx)
	}
	return map[string]any{"source": "ga4", "sessions": 1234}, nil
}

func setupTestCache(t *testing.T) *Cache {
	t.Helper()
	s := miniredis.RunT(t)
	cache, err := NewCache("redis://"+s.Addr(), time.Minute)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	t.Cleanup(func() { cache.Close() })
	return cache
}

func TestMockFallbackWithoutProvider(t *testing.T) {
	svc := NewService(nil, nil)

	payload := svc.Realtime(context.Background())
	if payload["source"] != "mock" {
		t.Fatalf("expected mock payload, got %v", payload["source"])
	}
	if payload["activeUsers"].(int) <= 0 {
		t.Errorf("expected positive mock activeUsers, got %v", payload["activeUsers"])
	}
}

func TestMockFallbackOnUpstreamError(t *testing.T) {
	provider := &fakeProvider{
		summaryFn: func(context.Context) (map[string]any, error) {
			return nil, errors.New("upstream 503")
		},
	}
	svc := NewService(provider, nil)

	payload := svc.Summary(context.Background())
	if payload["source"] != "mock" {
		t.Fatalf("expected silent downgrade to mock, got %v", payload["source"])
	}
}

func TestUpstreamPayloadPassedThrough(t *testing.T) {
	svc := NewService(&fakeProvider{}, nil)

	payload := svc.Realtime(context.Background())
	if payload["source"] != "ga4" {
		t.Fatalf("expected upstream payload, got %v", payload["source"])
	}
}

func TestCacheShortCircuitsProvider(t *testing.T) {
	provider := &fakeProvider{}
	svc := NewService(provider, setupTestCache(t))
	ctx := context.Background()

	first := svc.Summary(ctx)
	second := svc.Summary(ctx)

	if provider.calls != 1 {
		t.Fatalf("expected one upstream call, got %d", provider.calls)
	}
	if first["source"] != "ga4" || second["source"] != "ga4" {
		t.Errorf("expected cached upstream payload, got %v / %v", first["source"], second["source"])
	}
}

func TestCacheExpiryTriggersRefetch(t *testing.T) {
	s := miniredis.RunT(t)
	cache, err := NewCache("redis://"+s.Addr(), time.Second)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	defer cache.Close()

	provider := &fakeProvider{}
	svc := NewService(provider, cache)
	ctx := context.Background()

	svc.Realtime(ctx)
	s.FastForward(2 * time.Second)
	svc.Realtime(ctx)

	if provider.calls != 2 {
		t.Fatalf("expected refetch after TTL, got %d calls", provider.calls)
	}
}

func TestMockResponsesNotCached(t *testing.T) {
	provider := &fakeProvider{
		realtimeFn: func(context.Context) (map[string]any, error) {
			return nil, errors.New("boom")
		},
	}
	svc := NewService(provider, setupTestCache(t))
	ctx := context.Background()

	svc.Realtime(ctx)
	svc.Realtime(ctx)

	if provider.calls != 2 {
		t.Fatalf("expected mock responses to bypass the cache, got %d calls", provider.calls)
	}
}
