package models

// SweepRequest varies a single assumption over a list of values, keeping the rest of Base fixed
type SweepRequest struct {
	Base      InputParameters `json:"base"`
	Parameter string          `json:"parameter"`
	Values    []float64       `json:"values"`
}

// SweepPoint is the outcome of one value of a sweep. Error is set instead of Summary when
// the varied assumptions are invalid.
type SweepPoint struct {
	Value   float64         `json:"value"`
	Summary *SummaryMetrics `json:"summary,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// SweepResult holds the points of a sweep in request order
type SweepResult struct {
	Parameter string       `json:"parameter"`
	Points    []SweepPoint `json:"points"`
}
