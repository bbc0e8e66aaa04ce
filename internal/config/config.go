package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Dan9191/apartment-model/internal/finance"
	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port            string
	DBConn          string
	LogLevel        string
	JWTSecret       string
	CBRURL          string
	BankMargin      float64
	HMACSecret      string
	RedisAddr       string
	CacheTTL        time.Duration
	CacheMaxEntries int
	AssumptionsFile string
	RefreshSchedule string
	IRRChangeAlert  float64
	SweepWorkers    int
	IRR             finance.IRRSolver
	SMTPHost        string
	SMTPPort        string
	SMTPUsername    string
	SMTPPassword    string
	SenderEmail     string
}

// NewConfig loads configuration from environment variables, reading .env first when present
func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	defaults := finance.DefaultIRRSolver()
	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		DBConn:          getEnv("DB_CONN", "host=localhost port=5436 user=test password=test dbname=invest sslmode=disable"),
		LogLevel:        getEnv("LOG_LEVEL", "INFO"),
		JWTSecret:       getEnv("JWT_SECRET", "secret"),
		CBRURL:          getEnv("CBR_URL", "https://www.cbr.ru/DailyInfoWebServ/DailyInfo.asmx"),
		HMACSecret:      getEnv("HMAC_SECRET", "a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6"),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		AssumptionsFile: getEnv("ASSUMPTIONS_FILE", ""),
		RefreshSchedule: getEnv("REFRESH_SCHEDULE", "@daily"),
		SMTPHost:        getEnv("SMTP_HOST", "localhost"),
		SMTPPort:        getEnv("SMTP_PORT", "25"),
		SMTPUsername:    getEnv("SMTP_USERNAME", ""),
		SMTPPassword:    getEnv("SMTP_PASSWORD", ""),
		SenderEmail:     getEnv("SENDER_EMAIL", "noreply@apartment-model.local"),
	}

	var err error
	if cfg.BankMargin, err = getEnvFloat("BANK_MARGIN", 5.0); err != nil {
		return nil, err
	}
	if cfg.IRRChangeAlert, err = getEnvFloat("IRR_CHANGE_ALERT", 0.5); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = getEnvDuration("CACHE_TTL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.CacheMaxEntries, err = getEnvInt("CACHE_MAX_ENTRIES", 1000); err != nil {
		return nil, err
	}
	if cfg.SweepWorkers, err = getEnvInt("SWEEP_WORKERS", 4); err != nil {
		return nil, err
	}

	cfg.IRR = defaults
	if cfg.IRR.Guess, err = getEnvFloat("IRR_GUESS", defaults.Guess); err != nil {
		return nil, err
	}
	if cfg.IRR.Tolerance, err = getEnvFloat("IRR_TOLERANCE", defaults.Tolerance); err != nil {
		return nil, err
	}
	if cfg.IRR.MaxIterations, err = getEnvInt("IRR_MAX_ITERATIONS", defaults.MaxIterations); err != nil {
		return nil, err
	}
	if cfg.IRR.Lower, err = getEnvFloat("IRR_LOWER", defaults.Lower); err != nil {
		return nil, err
	}
	if cfg.IRR.Upper, err = getEnvFloat("IRR_UPPER", defaults.Upper); err != nil {
		return nil, err
	}

	if cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.HMACSecret == "" {
		return nil, fmt.Errorf("HMAC_SECRET is required")
	}
	if cfg.CacheMaxEntries <= 0 {
		return nil, fmt.Errorf("CACHE_MAX_ENTRIES must be positive")
	}
	if cfg.SweepWorkers <= 0 {
		return nil, fmt.Errorf("SWEEP_WORKERS must be positive")
	}
	if cfg.IRR.Tolerance <= 0 || cfg.IRR.MaxIterations <= 0 {
		return nil, fmt.Errorf("IRR_TOLERANCE and IRR_MAX_ITERATIONS must be positive")
	}
	if cfg.IRR.Lower <= -1 || cfg.IRR.Lower >= cfg.IRR.Upper {
		return nil, fmt.Errorf("IRR bracket must satisfy -1 < IRR_LOWER < IRR_UPPER")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) (float64, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getEnvInt(key string, defaultVal int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal, nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return i, nil
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
