package events

import (
	"context"
	"time"

	"github.com/yourorg/valuation-api/pricer"
)

// CatalogUpdated is emitted whenever a fresh copy of the vehicle catalog has
// been fetched from the pricing service.
type CatalogUpdated struct {
	Cars      []pricer.Car
	FetchedAt time.Time
}

type Publisher interface {
	PublishCatalogUpdated(ctx context.Context, evt CatalogUpdated)
	SubscribeCatalogUpdated() <-chan CatalogUpdated
}

type inMemory struct{ ch chan CatalogUpdated }

func NewInMemory(buffer int) Publisher {
	if buffer <= 0 {
		buffer = 16
	}
	return &inMemory{ch: make(chan CatalogUpdated, buffer)}
}

func (m *inMemory) PublishCatalogUpdated(_ context.Context, evt CatalogUpdated) {
	select {
	case m.ch <- evt:
	default:
	}
}

func (m *inMemory) SubscribeCatalogUpdated() <-chan CatalogUpdated { return m.ch }
