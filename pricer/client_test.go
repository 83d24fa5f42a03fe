package pricer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientListCars(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/cars", r.URL.Path)
		w.Write([]byte(`[{"oem":"Audi"}]`))
	}))
	defer srv.Close()

	raw, err := NewClient(srv.URL).ListCars(context.Background())
	require.NoError(t, err)
	assert.Len(t, MapCatalogPayload(raw), 1)
}

func TestClientPredict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/predict", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Sedan", body["body"])
		assert.Equal(t, float64(2020), body["myear"])
		w.Write([]byte(`{"predicted_price":900000,"similar_cars":[]}`))
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL).Predict(context.Background(), PredictionRequest{Body: "Sedan", ModelYear: 2020})
	require.NoError(t, err)
	require.NotNil(t, res.PredictedPrice)
	assert.Equal(t, float64(900000), *res.PredictedPrice)
}

func TestClientUpstreamStatusError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"model not loaded"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Predict(context.Background(), PredictionRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstreamStatus)
	assert.Contains(t, err.Error(), "500")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "failed calls are terminal, no automatic retry")
}

func TestClientFindByBodyPassthrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/find_by_body", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "SUV", body["body"])
		w.Write([]byte(`{"matching_cars":[{"id":3}]}`))
	}))
	defer srv.Close()

	raw, err := NewClient(srv.URL).FindByBody(context.Background(), map[string]any{
		"body":            "SUV",
		"predicted_price": 2500000,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"matching_cars":[{"id":3}]}`, string(raw))
}
