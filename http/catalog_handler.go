package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"
	"github.com/yourorg/valuation-api/internal/cachex"
	"github.com/yourorg/valuation-api/internal/events"
	"github.com/yourorg/valuation-api/internal/predict"
	"github.com/yourorg/valuation-api/internal/refresh"
	"github.com/yourorg/valuation-api/pricer"
)

type CatalogDeps struct {
	Client    *pricer.Client
	Cache     *cachex.Client
	Refresher *refresh.Refresher
	Pub       events.Publisher

	// freshness tuning for cached upstream payloads
	CacheTTL    time.Duration
	StaleAfter  time.Duration
	NegativeTTL time.Duration
}

func RegisterCatalog(r chi.Router, d CatalogDeps) {
	r.Get("/cars", func(w http.ResponseWriter, req *http.Request) {
		handleCatalog(w, req, d)
	})
	r.Get("/cars/options", func(w http.ResponseWriter, req *http.Request) {
		handleOptions(w, req, d)
	})
}

func handleCatalog(w http.ResponseWriter, req *http.Request, d CatalogDeps) {
	ctx := req.Context()

	if env, ok := d.Cache.GetEnvelope(ctx, cachex.KeyCatalog); ok {
		stale := env.Stale()
		if stale && d.Refresher != nil {
			d.Refresher.Enqueue(refresh.Job{Target: cachex.KeyCatalog})
		}
		cars := pricer.MapCatalogPayload(env.Payload)
		render.JSON(w, req, map[string]any{
			"ok":     true,
			"source": "cache",
			"stale":  stale,
			"count":  len(cars),
			"cars":   cars,
		})
		return
	}

	if d.Cache.IsMiss(ctx, cachex.KeyCatalog) {
		render.Status(req, http.StatusBadGateway)
		render.JSON(w, req, map[string]any{"error": "upstream_error", "cooldown": true})
		return
	}

	raw, err := d.Client.ListCars(ctx)
	if err != nil {
		_ = d.Cache.MarkMiss(ctx, cachex.KeyCatalog, maxDur(d.NegativeTTL, 30*time.Second))
		render.Status(req, http.StatusBadGateway)
		render.JSON(w, req, map[string]any{"error": "upstream_error", "detail": err.Error()})
		return
	}

	// non-array payloads come back as an empty catalog, not an error
	cars := pricer.MapCatalogPayload(raw)
	if err := d.Cache.PutEnvelope(ctx, cachex.KeyCatalog, raw,
		maxDur(d.CacheTTL, time.Hour), maxDur(d.StaleAfter, 5*time.Minute), "pricer"); err != nil {
		logrus.WithError(err).Warn("catalog cache write failed")
	}
	if d.Pub != nil {
		d.Pub.PublishCatalogUpdated(ctx, events.CatalogUpdated{Cars: cars, FetchedAt: time.Now()})
	}

	render.JSON(w, req, map[string]any{
		"ok":     true,
		"source": "fresh",
		"stale":  false,
		"count":  len(cars),
		"cars":   cars,
	})
}

// handleOptions always answers with a usable option set: categories the
// upstream cannot provide fall back to fixed defaults one by one, and a
// dead upstream degrades the whole set with a warning rather than failing.
func handleOptions(w http.ResponseWriter, req *http.Request, d CatalogDeps) {
	ctx := req.Context()

	if env, ok := d.Cache.GetEnvelope(ctx, cachex.KeyOptions); ok {
		if env.Stale() && d.Refresher != nil {
			d.Refresher.Enqueue(refresh.Job{Target: cachex.KeyOptions})
		}
		fetched, err := pricer.MapOptionsPayload(env.Payload)
		if err == nil {
			render.JSON(w, req, map[string]any{
				"ok":      true,
				"source":  "cache",
				"options": predict.ResolveOptions(fetched),
			})
			return
		}
		logrus.WithError(err).Warn("cached options payload unreadable")
	}

	raw, err := d.Client.FetchOptions(ctx)
	if err != nil {
		logrus.WithError(err).Warn("options fetch failed, serving defaults")
		render.JSON(w, req, map[string]any{
			"ok":       true,
			"source":   "fallback",
			"degraded": true,
			"options":  predict.FallbackOptions(),
		})
		return
	}

	fetched, err := pricer.MapOptionsPayload(raw)
	if err != nil {
		logrus.WithError(err).Warn("options payload unreadable, serving defaults")
		render.JSON(w, req, map[string]any{
			"ok":       true,
			"source":   "fallback",
			"degraded": true,
			"options":  predict.FallbackOptions(),
		})
		return
	}

	if err := d.Cache.PutEnvelope(ctx, cachex.KeyOptions, raw,
		maxDur(d.CacheTTL, time.Hour), maxDur(d.StaleAfter, 5*time.Minute), "pricer"); err != nil {
		logrus.WithError(err).Warn("options cache write failed")
	}
	render.JSON(w, req, map[string]any{
		"ok":      true,
		"source":  "fresh",
		"options": predict.ResolveOptions(fetched),
	})
}

func maxDur(a, b time.Duration) time.Duration {
	if a > 0 {
		return a
	}
	return b
}
