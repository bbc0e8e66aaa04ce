package utils

import (
	"testing"

	"github.com/Dan9191/apartment-model/internal/models"
)

func sampleInput() models.InputParameters {
	return models.InputParameters{
		PurchasePrice:     3_500_000,
		DownPayment:       0.3,
		ClosingCosts:      0.06,
		InterestRate:      10,
		LoanTermYears:     20,
		MonthlyRent:       25_000,
		RentGrowth:        0.03,
		Vacancy:           0.05,
		OperatingExpenses: 0.25,
		HoldingYears:      10,
		ExitGrowth:        0.02,
	}
}

func TestFingerprint_Stable(t *testing.T) {
	a, err := Fingerprint(sampleInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Fingerprint(sampleInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != b {
		t.Errorf("expected identical fingerprints, got %s and %s", a, b)
	}

	changed := sampleInput()
	changed.Vacancy = 0.06
	c, _ := Fingerprint(changed)
	if a == c {
		t.Errorf("expected different fingerprint for different input")
	}
	if len(a) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(a))
	}
}

func TestHMAC_RoundTrip(t *testing.T) {
	sig, err := GenerateHMAC(sampleInput(), "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !VerifyHMAC(sampleInput(), sig, "secret") {
		t.Errorf("expected signature to verify")
	}
	if VerifyHMAC(sampleInput(), sig, "other-secret") {
		t.Errorf("expected signature to fail with another secret")
	}

	tampered := sampleInput()
	tampered.MonthlyRent = 30_000
	if VerifyHMAC(tampered, sig, "secret") {
		t.Errorf("expected signature to fail for tampered input")
	}
}
