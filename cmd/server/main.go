package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/beanery/storefront/config"
	httpDelivery "github.com/beanery/storefront/internal/delivery/http"
	"github.com/beanery/storefront/internal/domain"
	"github.com/beanery/storefront/internal/infrastructure/auth"
	"github.com/beanery/storefront/internal/infrastructure/cache"
	"github.com/beanery/storefront/internal/infrastructure/catalogapi"
	"github.com/beanery/storefront/internal/infrastructure/sqlstore"
	"github.com/beanery/storefront/internal/infrastructure/tracking"
	"github.com/beanery/storefront/internal/usecase"
)

func main() {
	// `server hash-password <password>` prints a value for BEANERY_ADMIN_PASSWORD_HASH
	if len(os.Args) == 3 && os.Args[1] == "hash-password" {
		hash, err := auth.HashPassword(os.Args[2])
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		fmt.Println(hash)
		return
	}

	if err := config.LoadEnvFile(); err != nil {
		log.Fatalf("Failed to load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting Beanery Storefront v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Catalog source: %s", cfg.Catalog.Source)

	ctx := context.Background()
	debug := cfg.Server.Debug || cfg.Server.Environment == "development"

	memoryCache := cache.NewMemoryCache(cfg.Cache.SweepInterval)
	defer memoryCache.Close()
	log.Printf("Cache TTL: products=%s carts=%s", cfg.Cache.ProductTTL, cfg.Cache.CartTTL)

	// Catalog source
	var (
		products domain.ProductRepository
		writer   domain.ProductWriter
	)
	switch cfg.Catalog.Source {
	case config.SourceSQL:
		store, err := sqlstore.Open(ctx, sqlstore.Options{
			Driver:       cfg.Database.Driver,
			DSN:          cfg.Database.DSN,
			MaxOpenConns: cfg.Database.MaxOpenConns,
		})
		if err != nil {
			log.Fatalf("Failed to open catalog database: %v", err)
		}
		defer store.Close()
		products, writer = store, store
	default:
		client := catalogapi.NewClient(catalogapi.Config{
			BaseURL:           cfg.Catalog.BaseURL,
			APIKey:            cfg.Catalog.APIKey,
			Timeout:           cfg.Catalog.Timeout,
			RequestsPerSecond: cfg.Catalog.RequestsPerSecond,
			Burst:             cfg.Catalog.Burst,
		})
		if debug {
			client.SetDebug(true)
			log.Printf("Catalog API client debug mode enabled")
		}
		log.Printf("Catalog API configured: %s (read-only)", cfg.Catalog.BaseURL)
		products = client
	}

	// Conversion tracking
	var trackers tracking.Multi
	if cfg.Tracking.GA4Enabled() {
		trackers = append(trackers, tracking.NewGA4(tracking.GA4Config{
			MeasurementID: cfg.Tracking.GA4MeasurementID,
			APISecret:     cfg.Tracking.GA4APISecret,
			Timeout:       cfg.Tracking.Timeout,
		}))
		log.Printf("GA4 Measurement Protocol tracking enabled")
	}
	if cfg.Tracking.MetaEnabled() {
		trackers = append(trackers, tracking.NewMeta(tracking.MetaConfig{
			PixelID:       cfg.Tracking.MetaPixelID,
			AccessToken:   cfg.Tracking.MetaAccessToken,
			TestEventCode: cfg.Tracking.MetaTestEventCode,
			Timeout:       cfg.Tracking.Timeout,
		}))
		log.Printf("Meta Conversions API tracking enabled")
	}
	var events *usecase.EventDispatcher
	if len(trackers) > 0 {
		events = usecase.NewEventDispatcher(trackers, cfg.Tracking.Timeout)
	}

	// Usecase layer
	catalogService := usecase.NewCatalogService(memoryCache, products, events, usecase.CatalogServiceConfig{
		CacheTTL:           cfg.Cache.ProductTTL,
		Currency:           cfg.Store.Currency,
		EnableDebugLogging: debug,
	})
	cartService := usecase.NewCartService(memoryCache, catalogService, events, usecase.CartServiceConfig{
		CartTTL: cfg.Cache.CartTTL,
	})
	adminService := usecase.NewAdminService(writer, catalogService)

	// Admin auth is only mounted when a password is configured
	var authenticator httpDelivery.Authenticator
	if cfg.Admin.PasswordHash != "" {
		a, err := auth.NewAuthenticator(auth.Config{
			Username:     cfg.Admin.Username,
			PasswordHash: cfg.Admin.PasswordHash,
			Secret:       cfg.Admin.JWTSecret,
			TokenTTL:     cfg.Admin.TokenTTL,
		})
		if err != nil {
			log.Fatalf("Failed to configure admin auth: %v", err)
		}
		authenticator = a
		log.Printf("Admin back office enabled for user %q", cfg.Admin.Username)
	} else {
		log.Printf("WARNING: admin password not configured - back office disabled")
	}

	handler := httpDelivery.NewHandler(catalogService, cartService, adminService, cfg.Catalog.Source)
	router := httpDelivery.SetupRouter(cfg, handler, authenticator)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
