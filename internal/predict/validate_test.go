package predict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourorg/valuation-api/pricer"
)

func validRequest() pricer.PredictionRequest {
	return pricer.PredictionRequest{
		Body:         "Sedan",
		Transmission: "Automatic",
		Fuel:         "Gasoline",
		UType:        "Used",
		EngineType:   "V6",
		DriveType:    "FWD",
		SteeringType: "Power",
		State:        "NY",
		OwnerType:    "First",
		ModelYear:    2020,
		Kilometers:   35000,
		Cylinders:    6,
		Length:       5052,
		Width:        1968,
		Height:       1741,
		WheelBase:    2994,
		KerbWeight:   2135,
		GearBox:      8,
		Seats:        5,
		MaxTorqueAt:  1500,
	}
}

func TestValidateAccepts(t *testing.T) {
	assert.Empty(t, Validate(validRequest()))
}

func fieldNames(errs ValidationErrors) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Field)
	}
	return out
}

func TestValidateModelYearBounds(t *testing.T) {
	req := validRequest()
	req.ModelYear = 1979
	errs := Validate(req)
	require.Len(t, errs, 1)
	assert.Equal(t, "myear", errs[0].Field)

	req.ModelYear = 2027
	errs = Validate(req)
	require.Len(t, errs, 1)
	assert.Equal(t, "myear", errs[0].Field)

	req.ModelYear = 1980
	assert.Empty(t, Validate(req))
	req.ModelYear = 2026
	assert.Empty(t, Validate(req))
}

func TestValidateCollectsAllViolations(t *testing.T) {
	req := validRequest()
	req.Body = ""
	req.State = "  "
	req.Cylinders = 0
	req.Kilometers = -1
	req.Seats = 11

	errs := Validate(req)
	assert.ElementsMatch(t,
		[]string{"body", "state", "no_of_cylinder", "km", "seats"},
		fieldNames(errs))
}

func TestValidateBoundsTable(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*pricer.PredictionRequest)
		field  string
	}{
		{"negative length", func(r *pricer.PredictionRequest) { r.Length = -1 }, "length"},
		{"negative width", func(r *pricer.PredictionRequest) { r.Width = -0.5 }, "width"},
		{"negative height", func(r *pricer.PredictionRequest) { r.Height = -10 }, "height"},
		{"negative wheel base", func(r *pricer.PredictionRequest) { r.WheelBase = -1 }, "wheel_base"},
		{"negative kerb weight", func(r *pricer.PredictionRequest) { r.KerbWeight = -1 }, "kerb_weight"},
		{"gear box too high", func(r *pricer.PredictionRequest) { r.GearBox = 11 }, "gear_box"},
		{"gear box too low", func(r *pricer.PredictionRequest) { r.GearBox = 0 }, "gear_box"},
		{"cylinders too high", func(r *pricer.PredictionRequest) { r.Cylinders = 17 }, "no_of_cylinder"},
		{"negative torque rpm", func(r *pricer.PredictionRequest) { r.MaxTorqueAt = -1 }, "max_torque_at"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)
			errs := Validate(req)
			require.Len(t, errs, 1)
			assert.Equal(t, tc.field, errs[0].Field)
			assert.NotEmpty(t, errs[0].Message)
		})
	}
}
