package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Dan9191/apartment-model/internal/finance"
	"github.com/Dan9191/apartment-model/internal/middleware"
	"github.com/Dan9191/apartment-model/internal/models"
	"github.com/Dan9191/apartment-model/internal/repository"
	"github.com/Dan9191/apartment-model/internal/service"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Service is the business logic behind the HTTP API
type Service interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	DefaultAssumptions() models.InputParameters
	KeyRate(ctx context.Context) (float64, error)
	RunModel(ctx context.Context, req service.RunRequest) (*models.ModelResult, error)
	Sweep(ctx context.Context, req models.SweepRequest) (*models.SweepResult, error)
	SaveScenario(ctx context.Context, userID int64, req service.SaveScenarioRequest) (*models.Scenario, error)
	ListScenarios(ctx context.Context, userID int64) ([]*models.Scenario, error)
	GetScenario(ctx context.Context, userID, id int64) (*service.ScenarioDetail, error)
	DeleteScenario(ctx context.Context, userID, id int64) error
}

type Handler struct {
	svc Service
	log *logrus.Logger
}

func NewHandler(svc Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// Health reports that the process is serving
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decode(w, r, &req) {
		return
	}
	user, err := h.svc.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, user)
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req) {
		return
	}
	token, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// DefaultAssumptions returns the stock assumption set
func (h *Handler) DefaultAssumptions(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.svc.DefaultAssumptions())
}

// KeyRate returns the current lending rate
func (h *Handler) KeyRate(w http.ResponseWriter, r *http.Request) {
	rate, err := h.svc.KeyRate(r.Context())
	if err != nil {
		h.log.Errorf("Key rate unavailable: %v", err)
		h.writeJSON(w, http.StatusBadGateway, errorResponse{Error: "key rate unavailable"})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]float64{"key_rate": rate})
}

// RunModel computes the full model for the posted assumptions
func (h *Handler) RunModel(w http.ResponseWriter, r *http.Request) {
	var req service.RunRequest
	if !h.decode(w, r, &req) {
		return
	}
	result, err := h.svc.RunModel(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// Sweep runs a one-parameter sensitivity analysis
func (h *Handler) Sweep(w http.ResponseWriter, r *http.Request) {
	var req models.SweepRequest
	if !h.decode(w, r, &req) {
		return
	}
	result, err := h.svc.Sweep(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// SaveScenario stores a named scenario for the authenticated user
func (h *Handler) SaveScenario(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req service.SaveScenarioRequest
	if !h.decode(w, r, &req) {
		return
	}
	sc, err := h.svc.SaveScenario(r.Context(), userID, req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, sc)
}

func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	scenarios, err := h.svc.ListScenarios(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, scenarios)
}

func (h *Handler) GetScenario(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := h.scenarioID(w, r)
	if !ok {
		return
	}
	detail, err := h.svc.GetScenario(r.Context(), userID, id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, detail)
}

func (h *Handler) DeleteScenario(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := h.scenarioID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteScenario(r.Context(), userID, id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return false
	}
	return true
}

func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
	}
	return id, ok
}

func (h *Handler) scenarioID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid scenario id"})
		return 0, false
	}
	return id, true
}

// writeError maps domain errors to status codes. Unknown errors are logged and hidden.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var inputErr *finance.InputError
	switch {
	case errors.As(err, &inputErr):
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Field: inputErr.Field})
	case errors.Is(err, finance.ErrInvalidInput), errors.Is(err, service.ErrInvalidRequest):
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		h.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
	case errors.Is(err, service.ErrForbidden):
		h.writeJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden"})
	case errors.Is(err, repository.ErrNotFound):
		h.writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, repository.ErrDuplicate):
		h.writeJSON(w, http.StatusConflict, errorResponse{Error: "already exists"})
	default:
		h.log.Errorf("Request failed: %v", err)
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// writeJSON encodes before writing the status so an unencodable value still gets a 500
func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		h.log.Errorf("Failed to encode response: %v", err)
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Error: "internal error"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		h.log.Warnf("Failed to write response: %v", err)
	}
}
