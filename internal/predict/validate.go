package predict

import (
	"fmt"
	"math"
	"strings"

	"github.com/yourorg/valuation-api/pricer"
)

// FieldError is one domain-constraint violation on a submitted field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects every violation in a submission; all of them
// are surfaced together.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for _, fe := range v {
		fields = append(fields, fe.Field)
	}
	return fmt.Sprintf("validation failed on: %s", strings.Join(fields, ", "))
}

type requiredRule struct {
	field, value, message string
}

type boundsRule struct {
	field    string
	value    float64
	min, max float64
	message  string
}

// Validate checks every field of req against its declared constraint and
// returns all violations. A non-empty result blocks dispatch: the request
// must never reach the network.
func Validate(req pricer.PredictionRequest) ValidationErrors {
	required := []requiredRule{
		{"body", req.Body, "body type is required"},
		{"transmission", req.Transmission, "transmission is required"},
		{"fuel", req.Fuel, "fuel type is required"},
		{"utype", req.UType, "usage type is required"},
		{"engine_type", req.EngineType, "engine type is required"},
		{"drive_type", req.DriveType, "drive type is required"},
		{"steering_type", req.SteeringType, "steering type is required"},
		{"state", req.State, "state is required"},
		{"owner_type", req.OwnerType, "owner type is required"},
	}
	bounds := []boundsRule{
		{"myear", float64(req.ModelYear), 1980, 2026, "model year must be between 1980 and 2026"},
		{"km", float64(req.Kilometers), 0, math.Inf(1), "kilometers must not be negative"},
		{"no_of_cylinder", float64(req.Cylinders), 1, 16, "cylinder count must be between 1 and 16"},
		{"length", req.Length, 0, math.Inf(1), "length must not be negative"},
		{"width", req.Width, 0, math.Inf(1), "width must not be negative"},
		{"height", req.Height, 0, math.Inf(1), "height must not be negative"},
		{"wheel_base", req.WheelBase, 0, math.Inf(1), "wheel base must not be negative"},
		{"kerb_weight", req.KerbWeight, 0, math.Inf(1), "kerb weight must not be negative"},
		{"gear_box", float64(req.GearBox), 1, 10, "gear count must be between 1 and 10"},
		{"seats", float64(req.Seats), 1, 10, "seat count must be between 1 and 10"},
		{"max_torque_at", float64(req.MaxTorqueAt), 0, math.Inf(1), "torque rpm must not be negative"},
	}

	var errs ValidationErrors
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, FieldError{Field: r.field, Message: r.message})
		}
	}
	for _, r := range bounds {
		if r.value < r.min || r.value > r.max {
			errs = append(errs, FieldError{Field: r.field, Message: r.message})
		}
	}
	return errs
}
