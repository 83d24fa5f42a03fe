package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-chi/render"
	httpapi "github.com/yourorg/valuation-api/http"
	"github.com/yourorg/valuation-api/internal/cachex"
	"github.com/yourorg/valuation-api/internal/catalog"
	"github.com/yourorg/valuation-api/internal/events"
	"github.com/yourorg/valuation-api/internal/predict"
	"github.com/yourorg/valuation-api/internal/refresh"
	"github.com/yourorg/valuation-api/pricer"
)

type routerDeps struct {
	Client    *pricer.Client
	Engine    *catalog.Engine
	Pipeline  *predict.Pipeline
	Cache     *cachex.Client
	Refresher *refresh.Refresher
	Pub       events.Publisher

	// freshness tuning
	CacheTTL    time.Duration
	StaleAfter  time.Duration
	NegativeTTL time.Duration
}

func BuildRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(httprate.LimitByIP(100, 1*time.Minute)) // protect upstream quota
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{"ok":true}`)) })

	httpapi.RegisterCatalog(r, httpapi.CatalogDeps{
		Client:      d.Client,
		Cache:       d.Cache,
		Refresher:   d.Refresher,
		Pub:         d.Pub,
		CacheTTL:    d.CacheTTL,
		StaleAfter:  d.StaleAfter,
		NegativeTTL: d.NegativeTTL,
	})
	httpapi.RegisterBrowse(r, httpapi.BrowseDeps{Engine: d.Engine})
	httpapi.RegisterPredict(r, httpapi.PredictDeps{Pipeline: d.Pipeline})
	httpapi.RegisterSimilar(r, httpapi.SimilarDeps{Client: d.Client})

	return r
}
