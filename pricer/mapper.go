package pricer

import (
	"encoding/json"
	"strconv"
	"strings"
)

// flexNumber accepts number, string, or null JSON and coerces to float64.
// Unparseable values default to 0 rather than failing the whole payload.
type flexNumber float64

func (n *flexNumber) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*n = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
		if err != nil {
			*n = 0
			return nil
		}
		*n = flexNumber(f)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return err
	}
	f, err := num.Float64()
	if err != nil {
		*n = 0
		return nil
	}
	*n = flexNumber(f)
	return nil
}

// MapCatalogPayload maps a raw catalog payload to Car records. The payload
// is expected to be a top-level array; anything else (error objects, bare
// values) is served as an empty catalog so the caller can render zero
// results instead of failing hard.
func MapCatalogPayload(raw []byte) []Car {
	type wireCar struct {
		OEM          string     `json:"oem"`
		Model        string     `json:"model"`
		BodyType     string     `json:"body_type"`
		FuelType     string     `json:"fuel_type"`
		Transmission string     `json:"transmission"`
		Seats        flexNumber `json:"seats"`
		Price        flexNumber `json:"price"`
		ModelYear    flexNumber `json:"model_year"`
	}

	var items []wireCar
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}

	out := make([]Car, 0, len(items))
	for _, it := range items {
		out = append(out, Car{
			OEM:          it.OEM,
			Model:        it.Model,
			BodyType:     it.BodyType,
			FuelType:     it.FuelType,
			Transmission: it.Transmission,
			Seats:        int(it.Seats),
			Price:        float64(it.Price),
			ModelYear:    int(it.ModelYear),
		})
	}
	return out
}

// MapOptionsPayload maps a raw option-category payload. Categories the
// service omits stay nil; the caller substitutes its fallback lists per
// category.
func MapOptionsPayload(raw []byte) (OptionLists, error) {
	var opts OptionLists
	if err := json.Unmarshal(raw, &opts); err != nil {
		return OptionLists{}, err
	}
	return opts, nil
}

// MapPredictionPayload maps a raw prediction payload. predicted_price is
// kept nullable: null signals "no confident estimate", which is a valid
// outcome, not a transport failure.
func MapPredictionPayload(raw []byte) (PredictionResult, error) {
	var res PredictionResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return PredictionResult{}, err
	}
	if res.SimilarCars == nil {
		res.SimilarCars = []CarInfo{}
	}
	return res, nil
}
