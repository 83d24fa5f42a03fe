package predict

import (
	"context"
	"sync"

	"github.com/yourorg/valuation-api/pricer"
)

// State is the pipeline's submission phase.
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// bandSpread is the display-only ±5% heuristic around the point estimate.
// It is presentation, not a statistical interval from the model.
const bandSpread = 0.05

// Band is the derived confidence band around a point estimate.
type Band struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Outcome is a prediction response shaped for rendering.
type Outcome struct {
	PredictedPrice   *float64         `json:"predicted_price"`
	PriceBand        *Band            `json:"price_band,omitempty"`
	SimilarCars      []pricer.CarInfo `json:"similar_cars"`
	NoEstimate       bool             `json:"no_estimate"`
	NoComparableData bool             `json:"no_comparable_data"`
}

func shapeOutcome(res pricer.PredictionResult) Outcome {
	out := Outcome{
		PredictedPrice: res.PredictedPrice,
		SimilarCars:    res.SimilarCars,
	}
	if out.SimilarCars == nil {
		out.SimilarCars = []pricer.CarInfo{}
	}
	if res.PredictedPrice == nil {
		// valid request, no confident estimate; distinct from failure
		out.NoEstimate = true
		return out
	}
	p := *res.PredictedPrice
	out.PriceBand = &Band{Low: p * (1 - bandSpread), High: p * (1 + bandSpread)}
	out.NoComparableData = len(out.SimilarCars) == 0
	return out
}

// Predictor submits a validated request. *pricer.Client satisfies it.
type Predictor interface {
	Predict(ctx context.Context, req pricer.PredictionRequest) (pricer.PredictionResult, error)
}

// Snapshot is a point-in-time view of the pipeline for status rendering.
type Snapshot struct {
	State       State        `json:"state"`
	Generation  uint64       `json:"generation"`
	FieldErrors []FieldError `json:"field_errors,omitempty"`
	Outcome     *Outcome     `json:"outcome,omitempty"`
	Error       string       `json:"error,omitempty"`
}

// Pipeline validates vehicle-attribute submissions, dispatches them to the
// predictor, and keeps the latest renderable result. Each submission takes
// a monotonic generation token; only the response matching the newest token
// is applied, so a slow earlier response can never overwrite a newer
// result. In-flight requests are not cancelled.
type Pipeline struct {
	predictor Predictor

	mu        sync.Mutex
	state     State
	gen       uint64
	fieldErrs ValidationErrors
	outcome   *Outcome
	lastErr   error
}

func NewPipeline(p Predictor) *Pipeline {
	return &Pipeline{predictor: p, state: StateIdle}
}

// Submit validates req and, if every field passes, dispatches it. The
// returned Outcome belongs to this call even when a newer submission has
// superseded it; pipeline state only ever reflects the newest submission.
// A validation failure returns ValidationErrors and issues no network call.
func (p *Pipeline) Submit(ctx context.Context, req pricer.PredictionRequest) (Outcome, error) {
	p.mu.Lock()
	p.gen++
	gen := p.gen
	p.state = StateValidating
	p.fieldErrs = nil
	p.lastErr = nil

	if errs := Validate(req); len(errs) > 0 {
		p.state = StateIdle
		p.fieldErrs = errs
		p.mu.Unlock()
		return Outcome{}, errs
	}

	// entering flight clears the previous result
	p.state = StateSubmitting
	p.outcome = nil
	p.mu.Unlock()

	res, err := p.predictor.Predict(ctx, req)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.gen != gen {
		// superseded: report to the caller without touching newer state
		if err != nil {
			return Outcome{}, err
		}
		return shapeOutcome(res), nil
	}
	if err != nil {
		p.state = StateFailed
		p.lastErr = err
		return Outcome{}, err
	}
	out := shapeOutcome(res)
	p.state = StateSucceeded
	p.outcome = &out
	return out, nil
}

// Snapshot returns the current pipeline state.
func (p *Pipeline) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	snap := Snapshot{
		State:      p.state,
		Generation: p.gen,
	}
	if len(p.fieldErrs) > 0 {
		snap.FieldErrors = append([]FieldError(nil), p.fieldErrs...)
	}
	if p.outcome != nil {
		out := *p.outcome
		snap.Outcome = &out
	}
	if p.lastErr != nil {
		snap.Error = p.lastErr.Error()
	}
	return snap
}
