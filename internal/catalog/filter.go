package catalog

import (
	"strings"

	"github.com/yourorg/valuation-api/pricer"
)

// Facet names a filterable vehicle attribute.
type Facet string

const (
	FacetBodyType Facet = "body_types"
	FacetOEM      Facet = "oems"
	FacetFuelType Facet = "fuel_types"
)

// Default slider bounds of the price control; an untouched filter matches
// everything inside them.
const (
	DefaultMinPrice = 0
	DefaultMaxPrice = 200000
)

// Set is a membership-only collection of selected facet values. An empty
// set means "no constraint": every record passes.
type Set map[string]struct{}

func (s Set) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Toggle adds v when absent and removes it when present.
func (s Set) Toggle(v string) {
	if s.Has(v) {
		delete(s, v)
	} else {
		s[v] = struct{}{}
	}
}

func (s Set) allows(v string) bool {
	return len(s) == 0 || s.Has(v)
}

func (s Set) clone() Set {
	out := make(Set, len(s))
	for v := range s {
		out[v] = struct{}{}
	}
	return out
}

// Values returns the selected values in unspecified order.
func (s Set) Values() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	return out
}

// FilterState is the active predicate over the catalog: three selected-value
// sets, a closed price interval, and a free-text query.
type FilterState struct {
	BodyTypes   Set
	OEMs        Set
	FuelTypes   Set
	PriceMin    float64
	PriceMax    float64
	SearchQuery string
}

// NewFilterState returns the all-pass default predicate.
func NewFilterState() FilterState {
	return FilterState{
		BodyTypes: make(Set),
		OEMs:      make(Set),
		FuelTypes: make(Set),
		PriceMin:  DefaultMinPrice,
		PriceMax:  DefaultMaxPrice,
	}
}

func (f *FilterState) set(facet Facet) Set {
	switch facet {
	case FacetBodyType:
		return f.BodyTypes
	case FacetOEM:
		return f.OEMs
	case FacetFuelType:
		return f.FuelTypes
	}
	return nil
}

// Toggle flips membership of value in the named facet set. Unknown facets
// are ignored.
func (f *FilterState) Toggle(facet Facet, value string) {
	if s := f.set(facet); s != nil {
		s.Toggle(value)
	}
}

func (f *FilterState) clone() FilterState {
	out := *f
	out.BodyTypes = f.BodyTypes.clone()
	out.OEMs = f.OEMs.clone()
	out.FuelTypes = f.FuelTypes.clone()
	return out
}

func facetValue(c pricer.Car, facet Facet) string {
	switch facet {
	case FacetBodyType:
		return c.BodyType
	case FacetOEM:
		return c.OEM
	case FacetFuelType:
		return c.FuelType
	}
	return ""
}

// Apply narrows cars to the records matching every active predicate. It is
// pure and order-preserving: survivors keep their relative order and the
// input slice is never mutated. All predicates are AND-combined, so the
// pass order does not change the result.
func Apply(cars []pricer.Car, f FilterState) []pricer.Car {
	q := strings.ToLower(f.SearchQuery)
	out := make([]pricer.Car, 0, len(cars))
	for _, c := range cars {
		if q != "" &&
			!strings.Contains(strings.ToLower(c.OEM), q) &&
			!strings.Contains(strings.ToLower(c.Model), q) {
			continue
		}
		if !f.BodyTypes.allows(c.BodyType) {
			continue
		}
		if !f.OEMs.allows(c.OEM) {
			continue
		}
		if !f.FuelTypes.allows(c.FuelType) {
			continue
		}
		// closed interval; unparseable upstream prices were coerced to 0
		if c.Price < f.PriceMin || c.Price > f.PriceMax {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Options are the distinct non-empty facet values observed in a catalog,
// in first-occurrence order. They are derived once per load, not per
// filter change.
type Options struct {
	BodyTypes []string `json:"body_types"`
	OEMs      []string `json:"oems"`
	FuelTypes []string `json:"fuel_types"`
}

// ExtractOptions collects the facet options for cars.
func ExtractOptions(cars []pricer.Car) Options {
	var opts Options
	opts.BodyTypes = distinct(cars, FacetBodyType)
	opts.OEMs = distinct(cars, FacetOEM)
	opts.FuelTypes = distinct(cars, FacetFuelType)
	return opts
}

func distinct(cars []pricer.Car, facet Facet) []string {
	seen := make(map[string]struct{}, len(cars))
	out := make([]string, 0, len(cars))
	for _, c := range cars {
		v := facetValue(c, facet)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
