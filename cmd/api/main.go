package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"coastline/api/internal/analytics"
	"coastline/api/internal/app"
	"coastline/api/internal/auth"
	"coastline/api/internal/config"
	"coastline/api/internal/docstore"
	"coastline/api/internal/payment"
	"coastline/api/internal/session"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	production := cfg.Env == "production"

	var store docstore.Store
	if strings.TrimSpace(cfg.DocsS3Endpoint) != "" {
		log.Printf("Using S3-compatible document storage at %s", cfg.DocsS3Endpoint)
		objectStore, err := docstore.NewObjectStore(cfg.DocsS3Endpoint, cfg.DocsS3AccessKey, cfg.DocsS3SecretKey, cfg.DocsS3Bucket, cfg.DocsS3UseSSL)
		if err != nil {
			log.Fatalf("object storage connection failed: %v", err)
		}
		store = objectStore
	} else {
		log.Printf("Using local document storage in %s", cfg.DataDir)
		fileStore, err := docstore.NewFileStore(cfg.DataDir)
		if err != nil {
			log.Fatalf("failed to prepare data dir: %v", err)
		}
		store = fileStore
	}

	if cfg.AdminPassword == "" {
		log.Printf("WARNING: ADMIN_PASSWORD not set, admin login is disabled")
	}
	sessions := session.NewRegistry()
	gateway := auth.NewGateway(cfg.AdminUsername, cfg.AdminPassword, sessions, production)

	var payments payment.Client
	if strings.TrimSpace(cfg.StripeSecretKey) != "" {
		payments = payment.NewStripeClient(cfg.StripeSecretKey, cfg.CheckoutSuccessURL, cfg.CheckoutCancelURL)
	} else {
		log.Printf("STRIPE_SECRET_KEY not set, serving mock checkout sessions")
		payments = payment.MockClient{}
	}

	var provider analytics.Provider
	if strings.TrimSpace(cfg.GAPropertyID) != "" && strings.TrimSpace(cfg.GAAccessToken) != "" {
		provider = analytics.NewGA4Client(cfg.GAPropertyID, cfg.GAAccessToken)
	} else {
		log.Printf("GA4 credentials not set, serving mock analytics")
	}
	var cache *analytics.Cache
	if strings.TrimSpace(cfg.RedisURL) != "" {
		var err error
		cache, err = analytics.NewCache(cfg.RedisURL, cfg.AnalyticsCacheTTL)
		if err != nil {
			log.Fatalf("redis connection failed: %v", err)
		}
		defer cache.Close()
	}
	analyticsSvc := analytics.NewService(provider, cache)

	service := app.NewService(store, gateway, payments, analyticsSvc, cfg.Env)

	httpServer := app.NewHTTPServer(service, cfg.CORSOrigin, cfg.StaticDir, production)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Coastline API listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
