// Command warmer periodically pulls the vehicle catalog and option lists
// from the pricing service and writes them into the redis cache, so the API
// serves warm copies from its first request.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/yourorg/valuation-api/internal/cachex"
	"github.com/yourorg/valuation-api/internal/env"
	"github.com/yourorg/valuation-api/internal/logger"
	"github.com/yourorg/valuation-api/pricer"
)

func main() {
	_ = godotenv.Load()
	logger.Init(env.Get("LOG_LEVEL", "info"))

	pricerURL := env.Must("PRICER_URL")
	redisAddr := env.Must("REDIS_ADDR")

	interval := env.GetDuration("WARMER_INTERVAL", 15*time.Minute)
	requestTimeout := env.GetDuration("WARMER_REQUEST_TIMEOUT", 12*time.Second)
	cacheTTL := env.GetDuration("CACHE_TTL", time.Hour)
	staleAfter := env.GetDuration("CACHE_STALE_AFTER", 5*time.Minute)
	runOnce := env.GetBool("WARMER_RUN_ONCE", false)

	client := pricer.NewClient(pricerURL)
	client.SetRetryMax(env.GetInt("PRICER_RETRY_MAX", 0))

	cache := cachex.New(redisAddr, env.Get("REDIS_PASSWORD", ""), env.GetInt("REDIS_DB", 0))
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := cache.Ping(pingCtx); err != nil {
		cancel()
		logrus.Fatalf("redis ping error: %v", err)
	}
	cancel()

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	warm(rootCtx, client, cache, requestTimeout, cacheTTL, staleAfter)
	if runOnce {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-rootCtx.Done():
			return
		case <-ticker.C:
			warm(rootCtx, client, cache, requestTimeout, cacheTTL, staleAfter)
		}
	}
}

func warm(ctx context.Context, client *pricer.Client, cache *cachex.Client, timeout, ttl, staleAfter time.Duration) {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if raw, err := client.ListCars(reqCtx); err != nil {
		logrus.WithError(err).Warn("catalog warm fetch failed")
	} else if err := cache.PutEnvelope(reqCtx, cachex.KeyCatalog, raw, ttl, staleAfter, "warmer"); err != nil {
		logrus.WithError(err).Warn("catalog cache write failed")
	} else {
		logrus.WithField("records", len(pricer.MapCatalogPayload(raw))).Info("catalog warmed")
	}

	if raw, err := client.FetchOptions(reqCtx); err != nil {
		logrus.WithError(err).Warn("options warm fetch failed")
	} else if err := cache.PutEnvelope(reqCtx, cachex.KeyOptions, raw, ttl, staleAfter, "warmer"); err != nil {
		logrus.WithError(err).Warn("options cache write failed")
	} else {
		logrus.Info("options warmed")
	}
}
