package catalog

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/yourorg/valuation-api/internal/events"
	"github.com/yourorg/valuation-api/pricer"
)

// Source provides raw catalog payloads. *pricer.Client satisfies it.
type Source interface {
	ListCars(ctx context.Context) ([]byte, error)
}

// Engine holds one loaded vehicle collection, the active FilterState, and
// the derived filtered view. The collection is replaced wholesale on load
// and never mutated; every filter mutation recomputes the view
// synchronously and notifies subscribers with the fresh result, so the
// derived node follows its two sources (catalog, filter state) without any
// hidden re-render machinery.
type Engine struct {
	source Source

	mu    sync.RWMutex
	cars  []pricer.Car
	opts  Options
	state FilterState
	view  []pricer.Car

	subMu sync.Mutex
	subs  []func(view []pricer.Car)
}

func NewEngine(source Source) *Engine {
	return &Engine{
		source: source,
		state:  NewFilterState(),
		view:   []pricer.Car{},
	}
}

// Load fetches the catalog once and derives the facet options. A fetch
// error or a non-array payload leaves an empty catalog so callers render
// zero results instead of failing hard; the error is returned for logging
// only.
func (e *Engine) Load(ctx context.Context) error {
	raw, err := e.source.ListCars(ctx)
	if err != nil {
		e.SetRecords(nil)
		return err
	}
	e.SetRecords(pricer.MapCatalogPayload(raw))
	return nil
}

// SetRecords replaces the collection, re-derives options, and recomputes
// the view against the current filter state.
func (e *Engine) SetRecords(cars []pricer.Car) {
	e.mu.Lock()
	e.cars = cars
	e.opts = ExtractOptions(cars)
	view := e.recomputeLocked()
	e.mu.Unlock()
	e.notify(view)
}

// Toggle flips one facet value in the active predicate.
func (e *Engine) Toggle(facet Facet, value string) {
	e.mu.Lock()
	e.state.Toggle(facet, value)
	view := e.recomputeLocked()
	e.mu.Unlock()
	e.notify(view)
}

// SetPriceRange replaces the price interval. Bounds are taken as given;
// the range control owns min<=max.
func (e *Engine) SetPriceRange(min, max float64) {
	e.mu.Lock()
	e.state.PriceMin, e.state.PriceMax = min, max
	view := e.recomputeLocked()
	e.mu.Unlock()
	e.notify(view)
}

// SetSearchQuery replaces the free-text query.
func (e *Engine) SetSearchQuery(q string) {
	e.mu.Lock()
	e.state.SearchQuery = q
	view := e.recomputeLocked()
	e.mu.Unlock()
	e.notify(view)
}

func (e *Engine) recomputeLocked() []pricer.Car {
	e.view = Apply(e.cars, e.state)
	return append([]pricer.Car(nil), e.view...)
}

// Results returns a copy of the current filtered view.
func (e *Engine) Results() []pricer.Car {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]pricer.Car{}, e.view...)
}

// Records returns a copy of the full loaded collection.
func (e *Engine) Records() []pricer.Car {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]pricer.Car{}, e.cars...)
}

// FacetOptions returns the options derived at load time.
func (e *Engine) FacetOptions() Options {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.opts
}

// State returns a copy of the active filter state.
func (e *Engine) State() FilterState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.clone()
}

// Subscribe registers fn to run with the fresh view after every
// recomputation. Callbacks run on the mutating goroutine.
func (e *Engine) Subscribe(fn func(view []pricer.Car)) {
	e.subMu.Lock()
	e.subs = append(e.subs, fn)
	e.subMu.Unlock()
}

func (e *Engine) notify(view []pricer.Car) {
	e.subMu.Lock()
	subs := append(([]func([]pricer.Car))(nil), e.subs...)
	e.subMu.Unlock()
	for _, fn := range subs {
		fn(view)
	}
}

// Run consumes catalog-updated events until ctx is done, replacing the
// collection whenever a fresh fetch lands.
func (e *Engine) Run(ctx context.Context, pub events.Publisher) {
	sub := pub.SubscribeCatalogUpdated()
	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-sub:
			e.SetRecords(evt.Cars)
			logrus.WithFields(logrus.Fields{
				"records":    len(evt.Cars),
				"fetched_at": evt.FetchedAt,
			}).Debug("catalog engine reloaded")
		}
	}
}
