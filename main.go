package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/yourorg/valuation-api/internal/cachex"
	"github.com/yourorg/valuation-api/internal/catalog"
	"github.com/yourorg/valuation-api/internal/env"
	"github.com/yourorg/valuation-api/internal/events"
	"github.com/yourorg/valuation-api/internal/logger"
	"github.com/yourorg/valuation-api/internal/predict"
	"github.com/yourorg/valuation-api/internal/refresh"
	"github.com/yourorg/valuation-api/pricer"
)

func main() {
	_ = godotenv.Load()
	logger.Init(env.Get("LOG_LEVEL", "info"))

	port := env.GetInt("PORT", 4003)
	pricerURL := env.Must("PRICER_URL")

	client := pricer.NewClient(pricerURL)
	client.SetRetryMax(env.GetInt("PRICER_RETRY_MAX", 0))

	var cache *cachex.Client
	if addr := env.Get("REDIS_ADDR", ""); addr != "" {
		cache = cachex.New(addr, env.Get("REDIS_PASSWORD", ""), env.GetInt("REDIS_DB", 0))
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := cache.Ping(pingCtx); err != nil {
			logrus.WithError(err).Warn("redis unreachable, caching disabled")
			cache = nil
		}
		cancel()
	}

	cacheTTL := env.GetDuration("CACHE_TTL", time.Hour)
	staleAfter := env.GetDuration("CACHE_STALE_AFTER", 5*time.Minute)
	negativeTTL := env.GetDuration("CACHE_NEGATIVE_TTL", 30*time.Second)

	pub := events.NewInMemory(16)
	engine := catalog.NewEngine(client)
	pipeline := predict.NewPipeline(client)

	ref := refresh.New(64, 2, func(ctx context.Context, j refresh.Job) {
		refreshTarget(ctx, j.Target, client, cache, pub, cacheTTL, staleAfter)
	})

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go engine.Run(rootCtx, pub)

	// initial catalog load; a dead upstream still serves zero results
	loadCtx, cancel := context.WithTimeout(rootCtx, 10*time.Second)
	if err := engine.Load(loadCtx); err != nil {
		logrus.WithError(err).Warn("initial catalog load failed, starting empty")
	}
	cancel()

	router := BuildRouter(routerDeps{
		Client:      client,
		Engine:      engine,
		Pipeline:    pipeline,
		Cache:       cache,
		Refresher:   ref,
		Pub:         pub,
		CacheTTL:    cacheTTL,
		StaleAfter:  staleAfter,
		NegativeTTL: negativeTTL,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: logger.Middleware(router),
	}

	go func() {
		<-rootCtx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutCtx)
	}()

	logrus.Infof("valuation-api listening on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logrus.Fatal(err)
	}
}

// refreshTarget re-fetches one cached upstream payload. A short lock keeps
// concurrent stale hits from stampeding the pricing service.
func refreshTarget(ctx context.Context, target string, client *pricer.Client, cache *cachex.Client, pub events.Publisher, ttl, staleAfter time.Duration) {
	if !cache.TryLock(ctx, target, 8*time.Second) {
		return
	}
	switch target {
	case cachex.KeyCatalog:
		raw, err := client.ListCars(ctx)
		if err != nil {
			logrus.WithError(err).Warn("catalog refresh failed")
			return
		}
		if err := cache.PutEnvelope(ctx, target, raw, ttl, staleAfter, "pricer"); err != nil {
			logrus.WithError(err).Warn("catalog cache write failed")
		}
		pub.PublishCatalogUpdated(ctx, events.CatalogUpdated{
			Cars:      pricer.MapCatalogPayload(raw),
			FetchedAt: time.Now(),
		})
	case cachex.KeyOptions:
		raw, err := client.FetchOptions(ctx)
		if err != nil {
			logrus.WithError(err).Warn("options refresh failed")
			return
		}
		if err := cache.PutEnvelope(ctx, target, raw, ttl, staleAfter, "pricer"); err != nil {
			logrus.WithError(err).Warn("options cache write failed")
		}
	}
}
