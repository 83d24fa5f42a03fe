package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/yourorg/valuation-api/pricer"
)

type SimilarDeps struct {
	Client *pricer.Client
}

// RegisterSimilar exposes the find-by-body passthrough: the attribute bag
// goes upstream as-is and the response body comes back untouched.
func RegisterSimilar(r chi.Router, d SimilarDeps) {
	r.Post("/find_by_body", func(w http.ResponseWriter, req *http.Request) {
		var attrs map[string]any
		if err := json.NewDecoder(req.Body).Decode(&attrs); err != nil {
			render.Status(req, http.StatusBadRequest)
			render.JSON(w, req, map[string]any{"error": "invalid_json", "detail": err.Error()})
			return
		}

		raw, err := d.Client.FindByBody(req.Context(), attrs)
		if err != nil {
			render.Status(req, http.StatusBadGateway)
			render.JSON(w, req, map[string]any{"error": "upstream_error", "detail": err.Error()})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(raw)
	})
}
