package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Dan9191/apartment-model/internal/finance"
	"github.com/Dan9191/apartment-model/internal/middleware"
	"github.com/Dan9191/apartment-model/internal/models"
	"github.com/Dan9191/apartment-model/internal/repository"
	"github.com/Dan9191/apartment-model/internal/service"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus/hooks/test"
)

type mockService struct {
	runReq    service.RunRequest
	runErr    error
	runResult *models.ModelResult
	sweepReq  models.SweepRequest
	saved     service.SaveScenarioRequest
	userID    int64
	getErr    error
	rateErr   error
	loginErr  error
	regErr    error
}

func (m *mockService) Register(_ context.Context, username, email, _ string) (*models.User, error) {
	if m.regErr != nil {
		return nil, m.regErr
	}
	return &models.User{ID: 1, Username: username, Email: email, PasswordHash: "hash"}, nil
}

func (m *mockService) Login(context.Context, string, string) (string, error) {
	return "token", m.loginErr
}

func (m *mockService) DefaultAssumptions() models.InputParameters {
	return models.InputParameters{PurchasePrice: 3_500_000, HoldingYears: 10}
}

func (m *mockService) KeyRate(context.Context) (float64, error) {
	return 21, m.rateErr
}

func (m *mockService) RunModel(_ context.Context, req service.RunRequest) (*models.ModelResult, error) {
	m.runReq = req
	if m.runErr != nil {
		return nil, m.runErr
	}
	if m.runResult != nil {
		return m.runResult, nil
	}
	return &models.ModelResult{Input: req.InputParameters, MonthlyPayment: 100}, nil
}

func (m *mockService) Sweep(_ context.Context, req models.SweepRequest) (*models.SweepResult, error) {
	m.sweepReq = req
	return &models.SweepResult{Parameter: req.Parameter}, nil
}

func (m *mockService) SaveScenario(_ context.Context, userID int64, req service.SaveScenarioRequest) (*models.Scenario, error) {
	m.userID = userID
	m.saved = req
	return &models.Scenario{ID: 7, UserID: userID, Name: req.Name}, nil
}

func (m *mockService) ListScenarios(_ context.Context, userID int64) ([]*models.Scenario, error) {
	m.userID = userID
	return []*models.Scenario{}, nil
}

func (m *mockService) GetScenario(_ context.Context, userID, id int64) (*service.ScenarioDetail, error) {
	m.userID = userID
	if m.getErr != nil {
		return nil, m.getErr
	}
	return &service.ScenarioDetail{Scenario: &models.Scenario{ID: id, UserID: userID}}, nil
}

func (m *mockService) DeleteScenario(_ context.Context, userID, _ int64) error {
	m.userID = userID
	return m.getErr
}

func newTestHandler() (*Handler, *mockService) {
	log, _ := test.NewNullLogger()
	svc := &mockService{}
	return NewHandler(svc, log), svc
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(dst); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

func TestRunModel(t *testing.T) {
	h, svc := newTestHandler()
	body := `{"purchase_price": 3500000, "holding_years": 10, "use_key_rate": true}`

	rec := httptest.NewRecorder()
	h.RunModel(rec, httptest.NewRequest(http.MethodPost, "/models/run", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !svc.runReq.UseKeyRate || svc.runReq.PurchasePrice != 3_500_000 || svc.runReq.HoldingYears != 10 {
		t.Errorf("request not decoded: %+v", svc.runReq)
	}
	var result models.ModelResult
	decodeBody(t, rec, &result)
	if result.MonthlyPayment != 100 {
		t.Errorf("unexpected payment %v", result.MonthlyPayment)
	}
}

func TestRunModel_Errors(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		err       error
		wantCode  int
		wantField string
	}{
		{"malformed json", `{`, nil, http.StatusBadRequest, ""},
		{"validation", `{}`, &finance.InputError{Field: "purchase_price", Reason: "must be positive"}, http.StatusBadRequest, "purchase_price"},
		{"wrapped sentinel", `{}`, fmt.Errorf("years: %w", finance.ErrInvalidInput), http.StatusBadRequest, ""},
		{"upstream failure", `{}`, errors.New("boom"), http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, svc := newTestHandler()
			svc.runErr = tt.err

			rec := httptest.NewRecorder()
			h.RunModel(rec, httptest.NewRequest(http.MethodPost, "/models/run", strings.NewReader(tt.body)))

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			var resp errorResponse
			decodeBody(t, rec, &resp)
			if resp.Field != tt.wantField {
				t.Errorf("expected field %q, got %q", tt.wantField, resp.Field)
			}
			if tt.wantCode == http.StatusInternalServerError && resp.Error != "internal error" {
				t.Errorf("internal errors must not leak: %q", resp.Error)
			}
		})
	}
}

func TestSweep(t *testing.T) {
	h, svc := newTestHandler()
	body := `{"base": {"purchase_price": 1}, "parameter": "vacancy", "values": [0.05, 0.1]}`

	rec := httptest.NewRecorder()
	h.Sweep(rec, httptest.NewRequest(http.MethodPost, "/models/sweep", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.sweepReq.Parameter != "vacancy" || len(svc.sweepReq.Values) != 2 {
		t.Errorf("request not decoded: %+v", svc.sweepReq)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	h, svc := newTestHandler()

	rec := httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodPost, "/register",
		strings.NewReader(`{"username":"u","email":"u@example.com","password":"password123"}`)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "hash") {
		t.Errorf("password hash must not be serialized")
	}

	svc.regErr = fmt.Errorf("user u@example.com: %w", repository.ErrDuplicate)
	rec = httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodPost, "/register",
		strings.NewReader(`{"username":"u","email":"u@example.com","password":"password123"}`)))
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"u@example.com","password":"x"}`)))
	var token map[string]string
	decodeBody(t, rec, &token)
	if rec.Code != http.StatusOK || token["token"] != "token" {
		t.Errorf("unexpected login response %d %v", rec.Code, token)
	}

	svc.loginErr = service.ErrInvalidCredentials
	rec = httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"u@example.com","password":"x"}`)))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestKeyRate(t *testing.T) {
	h, svc := newTestHandler()

	rec := httptest.NewRecorder()
	h.KeyRate(rec, httptest.NewRequest(http.MethodGet, "/key-rate", nil))
	var resp map[string]float64
	decodeBody(t, rec, &resp)
	if rec.Code != http.StatusOK || resp["key_rate"] != 21 {
		t.Errorf("unexpected response %d %v", rec.Code, resp)
	}

	svc.rateErr = errors.New("timeout")
	rec = httptest.NewRecorder()
	h.KeyRate(rec, httptest.NewRequest(http.MethodGet, "/key-rate", nil))
	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", rec.Code)
	}
}

func TestScenarios(t *testing.T) {
	h, svc := newTestHandler()
	ctx := middleware.WithUserID(context.Background(), 5)

	req := httptest.NewRequest(http.MethodPost, "/scenarios", strings.NewReader(`{"name":"base","floating":true}`)).WithContext(ctx)
	rec := httptest.NewRecorder()
	h.SaveScenario(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if svc.userID != 5 || svc.saved.Name != "base" || !svc.saved.Floating {
		t.Errorf("request not forwarded: user %d, %+v", svc.userID, svc.saved)
	}

	rec = httptest.NewRecorder()
	h.ListScenarios(rec, httptest.NewRequest(http.MethodGet, "/scenarios", nil).WithContext(ctx))
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("expected empty list, got %d %q", rec.Code, rec.Body.String())
	}

	req = mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/scenarios/9", nil).WithContext(ctx), map[string]string{"id": "9"})
	rec = httptest.NewRecorder()
	h.GetScenario(rec, req)
	var detail service.ScenarioDetail
	decodeBody(t, rec, &detail)
	if rec.Code != http.StatusOK || detail.Scenario.ID != 9 {
		t.Errorf("unexpected response %d %+v", rec.Code, detail.Scenario)
	}

	req = mux.SetURLVars(httptest.NewRequest(http.MethodDelete, "/scenarios/9", nil).WithContext(ctx), map[string]string{"id": "9"})
	rec = httptest.NewRecorder()
	h.DeleteScenario(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
}

func TestScenarios_Errors(t *testing.T) {
	ctx := middleware.WithUserID(context.Background(), 5)
	tests := []struct {
		name     string
		id       string
		err      error
		wantCode int
	}{
		{"bad id", "abc", nil, http.StatusBadRequest},
		{"not found", "1", fmt.Errorf("scenario 1: %w", repository.ErrNotFound), http.StatusNotFound},
		{"other owner", "1", fmt.Errorf("scenario 1: %w", service.ErrForbidden), http.StatusForbidden},
		{"tampered", "1", fmt.Errorf("scenario 1: %w", service.ErrTampered), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, svc := newTestHandler()
			svc.getErr = tt.err

			req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/scenarios/"+tt.id, nil).WithContext(ctx), map[string]string{"id": tt.id})
			rec := httptest.NewRecorder()
			h.GetScenario(rec, req)
			if rec.Code != tt.wantCode {
				t.Errorf("expected %d, got %d", tt.wantCode, rec.Code)
			}
		})
	}
}

func TestScenarios_RequiresUser(t *testing.T) {
	h, _ := newTestHandler()

	rec := httptest.NewRecorder()
	h.ListScenarios(rec, httptest.NewRequest(http.MethodGet, "/scenarios", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestHealthAndDefaults(t *testing.T) {
	h, _ := newTestHandler()

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.DefaultAssumptions(rec, httptest.NewRequest(http.MethodGet, "/assumptions/defaults", nil))
	var p models.InputParameters
	decodeBody(t, rec, &p)
	if p.PurchasePrice != 3_500_000 || p.HoldingYears != 10 {
		t.Errorf("unexpected defaults %+v", p)
	}
}

func TestRunModel_UnencodableResult(t *testing.T) {
	h, svc := newTestHandler()
	svc.runResult = &models.ModelResult{Exit: models.Exit{SalePrice: math.Inf(1)}}

	rec := httptest.NewRecorder()
	h.RunModel(rec, httptest.NewRequest(http.MethodPost, "/models/run", strings.NewReader(`{}`)))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var resp errorResponse
	decodeBody(t, rec, &resp)
	if resp.Error != "internal error" {
		t.Errorf("unexpected error body %q", resp.Error)
	}
}
