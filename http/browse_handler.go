package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/yourorg/valuation-api/internal/catalog"
)

type BrowseDeps struct {
	Engine *catalog.Engine
}

type BrowseRequest struct {
	BodyTypes []string `json:"body_types,omitempty"`
	OEMs      []string `json:"oems,omitempty"`
	FuelTypes []string `json:"fuel_types,omitempty"`
	MinPrice  *float64 `json:"minprice,omitempty"`
	MaxPrice  *float64 `json:"maxprice,omitempty"`
	Query     string   `json:"q,omitempty"`
}

func RegisterBrowse(r chi.Router, d BrowseDeps) {
	// POST: JSON body
	r.Post("/browse", func(w http.ResponseWriter, req *http.Request) {
		var body BrowseRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			render.Status(req, http.StatusBadRequest)
			render.JSON(w, req, map[string]any{"error": "invalid_json", "detail": err.Error()})
			return
		}
		handleBrowseRequest(w, req, d, body)
	})

	// GET: query params (repeatable facet params)
	r.Get("/browse", func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		var body BrowseRequest
		body.BodyTypes = q["body_type"]
		body.OEMs = q["oem"]
		body.FuelTypes = q["fuel_type"]
		if v := q.Get("minprice"); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				body.MinPrice = &f
			}
		}
		if v := q.Get("maxprice"); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				body.MaxPrice = &f
			}
		}
		body.Query = q.Get("q")
		handleBrowseRequest(w, req, d, body)
	})
}

func handleBrowseRequest(w http.ResponseWriter, req *http.Request, d BrowseDeps, body BrowseRequest) {
	state := catalog.NewFilterState()
	for _, v := range body.BodyTypes {
		state.Toggle(catalog.FacetBodyType, v)
	}
	for _, v := range body.OEMs {
		state.Toggle(catalog.FacetOEM, v)
	}
	for _, v := range body.FuelTypes {
		state.Toggle(catalog.FacetFuelType, v)
	}
	if body.MinPrice != nil {
		state.PriceMin = *body.MinPrice
	}
	if body.MaxPrice != nil {
		state.PriceMax = *body.MaxPrice
	}
	state.SearchQuery = body.Query

	cars := catalog.Apply(d.Engine.Records(), state)
	render.JSON(w, req, map[string]any{
		"ok":      true,
		"count":   len(cars),
		"cars":    cars,
		"options": d.Engine.FacetOptions(),
	})
}
