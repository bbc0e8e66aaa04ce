package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Dan9191/apartment-model/internal/config"
	"github.com/Dan9191/apartment-model/internal/models"
	"github.com/Dan9191/apartment-model/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidRequest is returned for malformed requests that are not assumption errors
	ErrInvalidRequest = errors.New("invalid request")
	// ErrInvalidCredentials is returned by Login for an unknown email or a wrong password
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrForbidden is returned when a user touches another user's scenario
	ErrForbidden = errors.New("forbidden")
	// ErrTampered is returned when a stored scenario no longer matches its signature
	ErrTampered = errors.New("scenario signature mismatch")
)

// Store is the persistence the service needs
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id int64) (*models.User, error)
	CreateScenario(ctx context.Context, sc *models.Scenario) error
	UpdateScenario(ctx context.Context, sc *models.Scenario) error
	FindScenarioByID(ctx context.Context, id int64) (*models.Scenario, error)
	ListScenariosByUser(ctx context.Context, userID int64) ([]*models.Scenario, error)
	ListFloatingScenarios(ctx context.Context) ([]*models.Scenario, error)
	DeleteScenario(ctx context.Context, id int64) error
}

// KeyRateProvider returns the current lending rate in percent
type KeyRateProvider interface {
	GetKeyRate(ctx context.Context) (float64, error)
}

// Notifier delivers revaluation alerts to scenario owners
type Notifier interface {
	SendRevaluationAlert(to, username string, sc *models.Scenario, previous models.SummaryMetrics) error
}

// Service handles business logic
type Service struct {
	repo        Store
	cache       repository.CacheRepository
	rates       KeyRateProvider
	notifier    Notifier
	log         *logrus.Logger
	config      *config.Config
	assumptions config.Assumptions
}

// NewService initializes a new service
func NewService(
	repo Store,
	cache repository.CacheRepository,
	rates KeyRateProvider,
	notifier Notifier,
	log *logrus.Logger,
	cfg *config.Config,
	assumptions config.Assumptions,
) *Service {
	return &Service{
		repo:        repo,
		cache:       cache,
		rates:       rates,
		notifier:    notifier,
		log:         log,
		config:      cfg,
		assumptions: assumptions,
	}
}

// Register creates a new user with hashed password
func (s *Service) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	if username == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: username and a valid email are required", ErrInvalidRequest)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidRequest)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.log.Infof("User registered: %s", user.Email)
	return user, nil
}

// Login authenticates a user and returns a JWT token
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.FindUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(user.ID, 10),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("User logged in: %s", user.Email)
	return tokenString, nil
}
