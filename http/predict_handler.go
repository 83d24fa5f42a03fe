package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/yourorg/valuation-api/internal/predict"
	"github.com/yourorg/valuation-api/pricer"
)

type PredictDeps struct {
	Pipeline *predict.Pipeline
}

func RegisterPredict(r chi.Router, d PredictDeps) {
	r.Post("/predict", func(w http.ResponseWriter, req *http.Request) {
		var body pricer.PredictionRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			render.Status(req, http.StatusBadRequest)
			render.JSON(w, req, map[string]any{"error": "invalid_json", "detail": err.Error()})
			return
		}

		out, err := d.Pipeline.Submit(req.Context(), body)
		var verrs predict.ValidationErrors
		if errors.As(err, &verrs) {
			render.Status(req, http.StatusUnprocessableEntity)
			render.JSON(w, req, map[string]any{"error": "validation_failed", "fields": verrs})
			return
		}
		if err != nil {
			render.Status(req, http.StatusBadGateway)
			render.JSON(w, req, map[string]any{"error": "upstream_error", "detail": err.Error()})
			return
		}
		render.JSON(w, req, out)
	})

	r.Get("/predict/state", func(w http.ResponseWriter, req *http.Request) {
		render.JSON(w, req, d.Pipeline.Snapshot())
	})
}
