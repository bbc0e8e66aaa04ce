package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Dan9191/apartment-model/internal/models"
	"github.com/lib/pq"
)

// ErrNotFound is returned when a user or scenario does not exist
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a unique constraint is violated
var ErrDuplicate = errors.New("already exists")

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser creates a new user in the database
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO invest.users (username, email, password_hash, created_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, user.Username, user.Email, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("user %s: %w", user.Email, ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindUserByEmail retrieves a user by email
func (r *Repository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findUser(ctx, "email = $1", email)
}

// FindUserByID retrieves a user by id
func (r *Repository) FindUserByID(ctx context.Context, id int64) (*models.User, error) {
	return r.findUser(ctx, "id = $1", id)
}

func (r *Repository) findUser(ctx context.Context, where string, arg any) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, email, password_hash, created_at
		FROM invest.users
		WHERE ` + where
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// CreateScenario stores a scenario with its inputs and summary as JSON documents
func (r *Repository) CreateScenario(ctx context.Context, sc *models.Scenario) error {
	input, summary, err := marshalScenario(sc)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO invest.scenarios (user_id, name, input, floating, summary, hmac, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err = r.db.QueryRowContext(ctx, query, sc.UserID, sc.Name, input, sc.Floating, summary, sc.HMAC).
		Scan(&sc.ID, &sc.CreatedAt, &sc.UpdatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("scenario %q: %w", sc.Name, ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to create scenario: %w", err)
	}
	return nil
}

// UpdateScenario replaces the inputs, summary and signature of a stored scenario
func (r *Repository) UpdateScenario(ctx context.Context, sc *models.Scenario) error {
	input, summary, err := marshalScenario(sc)
	if err != nil {
		return err
	}
	query := `
		UPDATE invest.scenarios
		SET input = $1, summary = $2, hmac = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $4
		RETURNING updated_at`
	err = r.db.QueryRowContext(ctx, query, input, summary, sc.HMAC, sc.ID).Scan(&sc.UpdatedAt)
	if err == sql.ErrNoRows {
		return fmt.Errorf("scenario %d: %w", sc.ID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to update scenario: %w", err)
	}
	return nil
}

// FindScenarioByID retrieves a scenario by id
func (r *Repository) FindScenarioByID(ctx context.Context, id int64) (*models.Scenario, error) {
	query := scenarioColumns + ` WHERE id = $1`
	sc, err := scanScenario(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("scenario %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find scenario: %w", err)
	}
	return sc, nil
}

// ListScenariosByUser returns the scenarios of a user, newest first
func (r *Repository) ListScenariosByUser(ctx context.Context, userID int64) ([]*models.Scenario, error) {
	return r.listScenarios(ctx, scenarioColumns+` WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

// ListFloatingScenarios returns every scenario that follows the key rate
func (r *Repository) ListFloatingScenarios(ctx context.Context) ([]*models.Scenario, error) {
	return r.listScenarios(ctx, scenarioColumns+` WHERE floating ORDER BY id`)
}

// DeleteScenario removes a scenario
func (r *Repository) DeleteScenario(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM invest.scenarios WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete scenario: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete scenario: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("scenario %d: %w", id, ErrNotFound)
	}
	return nil
}

const scenarioColumns = `
		SELECT id, user_id, name, input, floating, summary, hmac, created_at, updated_at
		FROM invest.scenarios`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanScenario(row rowScanner) (*models.Scenario, error) {
	sc := &models.Scenario{}
	var input, summary []byte
	if err := row.Scan(&sc.ID, &sc.UserID, &sc.Name, &input, &sc.Floating, &summary, &sc.HMAC, &sc.CreatedAt, &sc.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(input, &sc.Input); err != nil {
		return nil, fmt.Errorf("failed to decode scenario input: %w", err)
	}
	if err := json.Unmarshal(summary, &sc.Summary); err != nil {
		return nil, fmt.Errorf("failed to decode scenario summary: %w", err)
	}
	return sc, nil
}

func (r *Repository) listScenarios(ctx context.Context, query string, args ...any) ([]*models.Scenario, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}
	defer rows.Close()

	var scenarios []*models.Scenario
	for rows.Next() {
		sc, err := scanScenario(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scenario: %w", err)
		}
		scenarios = append(scenarios, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}
	return scenarios, nil
}

func marshalScenario(sc *models.Scenario) ([]byte, []byte, error) {
	input, err := json.Marshal(sc.Input)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode scenario input: %w", err)
	}
	summary, err := json.Marshal(sc.Summary)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode scenario summary: %w", err)
	}
	return input, summary, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
