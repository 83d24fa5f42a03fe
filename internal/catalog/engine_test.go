package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourorg/valuation-api/internal/events"
	"github.com/yourorg/valuation-api/pricer"
)

type fakeSource struct {
	payload []byte
	err     error
}

func (f *fakeSource) ListCars(context.Context) ([]byte, error) {
	return f.payload, f.err
}

func TestEngineLoad(t *testing.T) {
	src := &fakeSource{payload: []byte(`[
		{"oem":"Audi","model":"A6","body_type":"Sedan","fuel_type":"Gasoline","price":"50000"},
		{"oem":"BMW","model":"X5","body_type":"SUV","fuel_type":"Diesel","price":150000}
	]`)}
	e := NewEngine(src)

	require.NoError(t, e.Load(context.Background()))
	require.Len(t, e.Results(), 2)
	assert.Equal(t, float64(50000), e.Results()[0].Price, "string prices are coerced")
	assert.Equal(t, []string{"Audi", "BMW"}, e.FacetOptions().OEMs)
}

func TestEngineLoadNonArrayPayload(t *testing.T) {
	e := NewEngine(&fakeSource{payload: []byte(`{"success":false}`)})

	require.NoError(t, e.Load(context.Background()))
	assert.Empty(t, e.Results(), "non-array payloads are served as an empty catalog")
	assert.Empty(t, e.FacetOptions().OEMs)
	assert.Empty(t, e.FacetOptions().BodyTypes)
	assert.Empty(t, e.FacetOptions().FuelTypes)
}

func TestEngineLoadFetchError(t *testing.T) {
	e := NewEngine(&fakeSource{err: errors.New("connection refused")})
	e.SetRecords([]pricer.Car{{OEM: "Stale"}})

	err := e.Load(context.Background())
	require.Error(t, err)
	assert.Empty(t, e.Results(), "a failed load leaves zero results, not a crash")
}

func TestEngineRecomputeOnMutation(t *testing.T) {
	e := NewEngine(nil)
	e.SetRecords([]pricer.Car{
		{OEM: "Audi", BodyType: "Sedan", Price: 50000},
		{OEM: "BMW", BodyType: "SUV", Price: 150000},
	})

	var notified [][]pricer.Car
	e.Subscribe(func(view []pricer.Car) {
		notified = append(notified, view)
	})

	e.Toggle(FacetBodyType, "Sedan")
	require.Len(t, e.Results(), 1)
	assert.Equal(t, "Audi", e.Results()[0].OEM)

	e.Toggle(FacetBodyType, "Sedan") // toggle back: no constraint again
	require.Len(t, e.Results(), 2)

	e.SetPriceRange(100000, 200000)
	require.Len(t, e.Results(), 1)
	assert.Equal(t, "BMW", e.Results()[0].OEM)

	e.SetSearchQuery("audi")
	assert.Empty(t, e.Results(), "query and price range are AND-combined")

	require.Len(t, notified, 4, "every mutation notifies subscribers once")
	assert.Len(t, notified[0], 1)
	assert.Len(t, notified[1], 2)
}

func TestEngineStateIsCopy(t *testing.T) {
	e := NewEngine(nil)
	e.Toggle(FacetOEM, "Audi")

	st := e.State()
	st.Toggle(FacetOEM, "BMW")

	assert.False(t, e.State().OEMs.Has("BMW"), "State() must not expose internal sets")
}

func TestEngineRunConsumesCatalogEvents(t *testing.T) {
	e := NewEngine(nil)
	pub := events.NewInMemory(4)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go e.Run(ctx, pub)

	pub.PublishCatalogUpdated(ctx, events.CatalogUpdated{
		Cars:      []pricer.Car{{OEM: "Tesla", BodyType: "Sedan"}},
		FetchedAt: time.Now(),
	})

	require.Eventually(t, func() bool {
		return len(e.Results()) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, "Tesla", e.Results()[0].OEM)
}
