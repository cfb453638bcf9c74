package main

import (
	"context"
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/fitlifehq/gym-api/internal/cache"
	"github.com/fitlifehq/gym-api/internal/config"
	dbpkg "github.com/fitlifehq/gym-api/internal/db"
	"github.com/fitlifehq/gym-api/internal/payments"
	"github.com/fitlifehq/gym-api/internal/realtime"
	"github.com/fitlifehq/gym-api/internal/routes"
	"github.com/fitlifehq/gym-api/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	db := dbpkg.NewDB(cfg)

	provider, err := buildProvider(cfg)
	if err != nil {
		log.Fatalf("failed to configure payment provider: %v", err)
	}

	store, err := storage.NewS3Store(context.Background(), cfg.S3Bucket, cfg.S3Region, cfg.CDNBaseURL)
	if err != nil {
		log.Fatalf("failed to configure media storage: %v", err)
	}

	r := gin.Default()
	routes.RegisterRoutes(r, routes.Deps{
		DB:       db,
		Config:   cfg,
		Hub:      realtime.NewHub(),
		Cache:    cache.New(cfg.RedisAddr),
		Provider: provider,
		Store:    store,
	})

	log.Printf("Server running on %s (payments: %s)", cfg.Addr(), provider.Name())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}

func buildProvider(cfg *config.Config) (payments.Provider, error) {
	switch strings.ToLower(cfg.PaymentProvider) {
	case "mercadopago":
		return payments.NewMercadoPago(cfg.MPAccessToken, cfg.MPWebhookSecret)
	default:
		return payments.NewStripe(cfg.StripeSecretKey, cfg.StripeWebhookSecret), nil
	}
}
