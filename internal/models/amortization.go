package models

// AmortizationRow represents one monthly loan payment.
// Period is 1-based, Balance is the balance after the payment.
type AmortizationRow struct {
	Period    int     `json:"period"`
	Payment   float64 `json:"payment"`
	Principal float64 `json:"principal"`
	Interest  float64 `json:"interest"`
	Balance   float64 `json:"balance"`
}
