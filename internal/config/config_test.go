package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Dan9191/apartment-model/internal/finance"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Port)
	}
	if cfg.IRR.Tolerance != 1e-7 || cfg.IRR.MaxIterations != 200 {
		t.Errorf("expected default IRR solver settings, got %+v", cfg.IRR)
	}
	if cfg.CacheTTL != time.Hour {
		t.Errorf("expected 1h cache TTL, got %v", cfg.CacheTTL)
	}
	if cfg.CacheMaxEntries != 1000 {
		t.Errorf("expected 1000 cache entries, got %d", cfg.CacheMaxEntries)
	}
}

func TestNewConfig_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("IRR_TOLERANCE", "1e-9")
	t.Setenv("IRR_MAX_ITERATIONS", "50")
	t.Setenv("CACHE_TTL", "5m")
	t.Setenv("SWEEP_WORKERS", "8")

	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if cfg.IRR.Tolerance != 1e-9 || cfg.IRR.MaxIterations != 50 {
		t.Errorf("expected overridden IRR settings, got %+v", cfg.IRR)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Errorf("expected 5m cache TTL, got %v", cfg.CacheTTL)
	}
	if cfg.SweepWorkers != 8 {
		t.Errorf("expected 8 sweep workers, got %d", cfg.SweepWorkers)
	}
}

func TestNewConfig_Invalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"IRR_TOLERANCE", "abc"},
		{"IRR_MAX_ITERATIONS", "0"},
		{"IRR_LOWER", "-1"},
		{"IRR_UPPER", "-0.995"},
		{"SWEEP_WORKERS", "0"},
		{"CACHE_MAX_ENTRIES", "0"},
		{"CACHE_TTL", "forever"},
		{"JWT_SECRET", ""},
	}

	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			if _, err := NewConfig(); err == nil {
				t.Errorf("expected error for %s=%q", tc.key, tc.value)
			}
		})
	}
}

func TestLoadAssumptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assumptions.yaml")
	content := "purchase_price: 1200000\ninterest_rate: 7.5\nholding_years: 7\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	a, err := LoadAssumptions(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p := a.Params()
	if p.PurchasePrice != 1_200_000 || p.InterestRate != 7.5 || p.HoldingYears != 7 {
		t.Errorf("expected overrides from file, got %+v", p)
	}
	if p.MonthlyRent != 25_000 || p.LoanTermYears != 20 {
		t.Errorf("expected built-in values for missing keys, got %+v", p)
	}

	p.PurchasePrice = 1
	if a.Params().PurchasePrice == 1 {
		t.Errorf("expected Params to return a copy")
	}
}

func TestLoadAssumptions_Errors(t *testing.T) {
	if _, err := LoadAssumptions(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("expected error for a missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("purchase_price: [oops"), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if _, err := LoadAssumptions(path); err == nil {
		t.Errorf("expected error for malformed YAML")
	}
}

func TestLoadAssumptions_EmptyPath(t *testing.T) {
	a, err := LoadAssumptions("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Params() != BuiltinAssumptions().Params() {
		t.Errorf("expected built-in assumptions")
	}
}

func TestLoadAssumptions_RejectsInvalidDefaults(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
	}{
		{"vacancy above one", "vacancy: 1.5\n", "vacancy"},
		{"zero price", "purchase_price: 0\n", "purchase_price"},
		{"endless holding", "holding_years: 1000000\n", "holding_years"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "assumptions.yaml")
			if err := os.WriteFile(path, []byte(tc.content), 0o600); err != nil {
				t.Fatalf("failed to write file: %v", err)
			}

			_, err := LoadAssumptions(path)
			var inputErr *finance.InputError
			if !errors.As(err, &inputErr) {
				t.Fatalf("expected *finance.InputError, got %v", err)
			}
			if inputErr.Field != tc.field {
				t.Errorf("expected field %s, got %s", tc.field, inputErr.Field)
			}
		})
	}
}
