package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for our application
type Config struct {
	Port                 string
	Origin               string
	Environment          string
	JWTSecret            string
	JWTExpirationMinutes int
	Database             DatabaseConfig
	Diagnosis            DiagnosisConfig
	Bootstrap            BootstrapConfig
}

// BootstrapConfig holds the initial admin account created when the users
// table is empty.
type BootstrapConfig struct {
	AdminEmail    string
	AdminPassword string
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	DSN      string
}

// DiagnosisConfig holds the confidence-gate policy and emergency response settings.
type DiagnosisConfig struct {
	// HighThreshold is the lowest confidence at which an AI recommendation
	// may be shown to the patient without prior clinician review.
	HighThreshold float64
	// MinThreshold is the lowest confidence at which an AI recommendation
	// is kept at all (held for doctor review). Below it the patient is
	// directed to a clinician and no recommendation is surfaced.
	MinThreshold float64
	// EmergencyNumbers are returned verbatim in emergency payloads.
	EmergencyNumbers []string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load database configuration
	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "3306"),
		Username: getEnv("DB_USERNAME", "root"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "telehealth"),
	}

	// Build DSN (Data Source Name) for MySQL connection
	dbConfig.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		dbConfig.Username, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name)

	jwtExpMinutes, err := strconv.Atoi(getEnv("JWT_EXPIRATION_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION_MINUTES: %w", err)
	}

	highThreshold, err := strconv.ParseFloat(getEnv("CONFIDENCE_HIGH_THRESHOLD", "0.7"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid CONFIDENCE_HIGH_THRESHOLD: %w", err)
	}

	minThreshold, err := strconv.ParseFloat(getEnv("CONFIDENCE_MIN_THRESHOLD", "0.4"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid CONFIDENCE_MIN_THRESHOLD: %w", err)
	}

	if minThreshold > highThreshold {
		return nil, fmt.Errorf("CONFIDENCE_MIN_THRESHOLD (%v) must not exceed CONFIDENCE_HIGH_THRESHOLD (%v)",
			minThreshold, highThreshold)
	}

	// Return complete configuration
	return &Config{
		Port:                 getEnv("PORT", "3001"),
		Origin:               getEnv("ORIGIN", "http://localhost:4200"),
		Environment:          getEnv("APP_ENV", "development"),
		JWTSecret:            getEnv("JWT_SECRET", "default_jwt_secret"),
		JWTExpirationMinutes: jwtExpMinutes,
		Database:             dbConfig,
		Diagnosis: DiagnosisConfig{
			HighThreshold:    highThreshold,
			MinThreshold:     minThreshold,
			EmergencyNumbers: splitList(getEnv("EMERGENCY_NUMBERS", "911")),
		},
		Bootstrap: BootstrapConfig{
			AdminEmail:    getEnv("ADMIN_EMAIL", "admin@localhost"),
			AdminPassword: getEnv("ADMIN_PASSWORD", "change_me_now"),
		},
	}, nil
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
