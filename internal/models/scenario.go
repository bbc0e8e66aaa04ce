package models

import "time"

// Scenario is a named, persisted set of assumptions with its last computed summary.
// Floating scenarios follow the central bank key rate and are revalued by the refresh job.
type Scenario struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	Name      string          `json:"name"`
	Input     InputParameters `json:"input"`
	Floating  bool            `json:"floating"`
	Summary   SummaryMetrics  `json:"summary"`
	HMAC      string          `json:"hmac"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
