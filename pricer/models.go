package pricer

// Car is the semi-structured record the pricing service returns from its
// catalog. No schema is enforced upstream: any field may be absent and the
// price sometimes arrives as a string, so readers must tolerate zero values.
type Car struct {
	OEM          string  `json:"oem,omitempty"`
	Model        string  `json:"model,omitempty"`
	BodyType     string  `json:"body_type,omitempty"`
	FuelType     string  `json:"fuel_type,omitempty"`
	Transmission string  `json:"transmission,omitempty"`
	Seats        int     `json:"seats,omitempty"`
	Price        float64 `json:"price,omitempty"`
	ModelYear    int     `json:"model_year,omitempty"`
}

// PredictionRequest is the full attribute set the pricing model scores.
// Field names follow the service's cleaned column names.
type PredictionRequest struct {
	Body         string  `json:"body"`
	Transmission string  `json:"transmission"`
	Fuel         string  `json:"fuel"`
	UType        string  `json:"utype"`
	EngineType   string  `json:"engine_type"`
	DriveType    string  `json:"drive_type"`
	SteeringType string  `json:"steering_type"`
	State        string  `json:"state"`
	OwnerType    string  `json:"owner_type"`
	ModelYear    int     `json:"myear"`
	Kilometers   int     `json:"km"`
	Cylinders    int     `json:"no_of_cylinder"`
	Length       float64 `json:"length"`
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	WheelBase    float64 `json:"wheel_base"`
	KerbWeight   float64 `json:"kerb_weight"`
	GearBox      int     `json:"gear_box"`
	Seats        int     `json:"seats"`
	MaxTorqueAt  int     `json:"max_torque_at"`
}

// CarInfo is one comparable vehicle in a prediction response.
type CarInfo struct {
	ID          int64   `json:"id"`
	Model       string  `json:"model"`
	ListedPrice float64 `json:"listed_price"`
	ModelYear   int     `json:"myear"`
	Fuel        string  `json:"fuel"`
	Variant     string  `json:"variant,omitempty"`
	Kilometers  int64   `json:"km"`
	State       string  `json:"state"`
	Body        string  `json:"body"`
	ImageURL    string  `json:"image_url,omitempty"`
}

// PredictionResult carries the model's point estimate and comparables.
// A nil PredictedPrice means "valid request, no confident estimate" and is
// not a failure.
type PredictionResult struct {
	PredictedPrice *float64  `json:"predicted_price"`
	SimilarCars    []CarInfo `json:"similar_cars"`
}

// OptionLists holds the distinct values the service exposes per facet for
// form dropdowns. Any category may come back empty.
type OptionLists struct {
	BodyTypes     []string `json:"body_types"`
	FuelTypes     []string `json:"fuel_types"`
	Transmissions []string `json:"transmissions"`
	States        []string `json:"states"`
	DriveTypes    []string `json:"drive_types"`
	OwnerTypes    []string `json:"owner_types"`
	SteeringTypes []string `json:"steering_types"`
	UTypes        []string `json:"utypes"`
}
