package pricer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapCatalogPayload(t *testing.T) {
	raw := []byte(`[
		{"oem":"Audi","model":"A6","body_type":"Sedan","fuel_type":"Gasoline","transmission":"Automatic","seats":5,"price":"52000","model_year":2021},
		{"oem":"BMW","price":150000.5},
		{"model":"Bare"}
	]`)

	cars := MapCatalogPayload(raw)
	require.Len(t, cars, 3)

	assert.Equal(t, "Audi", cars[0].OEM)
	assert.Equal(t, float64(52000), cars[0].Price, "string prices coerce to numbers")
	assert.Equal(t, 5, cars[0].Seats)
	assert.Equal(t, 2021, cars[0].ModelYear)

	assert.Equal(t, 150000.5, cars[1].Price)

	// absent fields stay zero-valued
	assert.Empty(t, cars[2].OEM)
	assert.Zero(t, cars[2].Price)
}

func TestMapCatalogPayloadNonArray(t *testing.T) {
	for _, raw := range []string{
		`{"success":false}`,
		`"oops"`,
		`42`,
		`not json at all`,
	} {
		assert.Nil(t, MapCatalogPayload([]byte(raw)), "payload %q must coerce to an empty catalog", raw)
	}
}

func TestMapCatalogPayloadUnparseablePrice(t *testing.T) {
	cars := MapCatalogPayload([]byte(`[{"oem":"Audi","price":"ask dealer"},{"oem":"BMW","price":null}]`))
	require.Len(t, cars, 2)
	assert.Zero(t, cars[0].Price, "unparseable prices default to 0")
	assert.Zero(t, cars[1].Price)
}

func TestMapOptionsPayload(t *testing.T) {
	opts, err := MapOptionsPayload([]byte(`{"body_types":["Sedan","SUV"],"fuel_types":[],"utypes":["Used"]}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"Sedan", "SUV"}, opts.BodyTypes)
	assert.Empty(t, opts.FuelTypes)
	assert.Nil(t, opts.States, "omitted categories stay nil for the caller's fallback")
	assert.Equal(t, []string{"Used"}, opts.UTypes)

	_, err = MapOptionsPayload([]byte(`[1,2,3]`))
	assert.Error(t, err)
}

func TestMapPredictionPayload(t *testing.T) {
	res, err := MapPredictionPayload([]byte(`{"predicted_price":1250000,"similar_cars":[
		{"id":7,"model":"City","listed_price":1190000,"myear":2019,"fuel":"Petrol","km":42000,"state":"MH","body":"Sedan"}
	]}`))
	require.NoError(t, err)
	require.NotNil(t, res.PredictedPrice)
	assert.Equal(t, float64(1250000), *res.PredictedPrice)
	require.Len(t, res.SimilarCars, 1)
	assert.Equal(t, int64(7), res.SimilarCars[0].ID)
	assert.Equal(t, "City", res.SimilarCars[0].Model)
}

func TestMapPredictionPayloadNullPrice(t *testing.T) {
	res, err := MapPredictionPayload([]byte(`{"predicted_price":null,"similar_cars":[]}`))
	require.NoError(t, err)
	assert.Nil(t, res.PredictedPrice)
	assert.NotNil(t, res.SimilarCars)
	assert.Empty(t, res.SimilarCars)

	res, err = MapPredictionPayload([]byte(`{"predicted_price":5}`))
	require.NoError(t, err)
	assert.NotNil(t, res.SimilarCars, "missing similar_cars becomes an empty list")
}
