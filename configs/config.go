package configs

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Config holds every environment-driven setting the application reads.
// Load fails fast when a required variable is missing, so a half-configured
// deploy dies at boot instead of at the first request.
type Config struct {
	Env           string
	Port          string
	DatabaseURL   string
	SessionSecret string

	// AdminPINHash is the bcrypt hash of ADMIN_PIN, computed once at
	// startup. The plain PIN is never kept in memory after Load.
	AdminPINHash []byte

	ClinicName       string
	ClinicAddress    string
	PhoneCountryCode string
}

var app *Config

// Load reads the environment (plus .env outside production) and builds the
// process-wide Config.
func Load() (*Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		// Missing .env is fine in containers where vars come from the runtime.
		_ = godotenv.Load()
	}

	required := []string{"DATABASE_URL", "SESSION_SECRET", "ADMIN_PIN"}
	var missing []string
	for _, key := range required {
		if os.Getenv(key) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	pinHash, err := bcrypt.GenerateFromPassword([]byte(os.Getenv("ADMIN_PIN")), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing admin PIN: %w", err)
	}

	app = &Config{
		Env:              getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "5000"),
		DatabaseURL:      NormalizeDatabaseURL(os.Getenv("DATABASE_URL")),
		SessionSecret:    os.Getenv("SESSION_SECRET"),
		AdminPINHash:     pinHash,
		ClinicName:       getEnv("CLINIC_NAME", "Clínica Dental"),
		ClinicAddress:    getEnv("CLINIC_ADDRESS", "Av. Salaverry 1234, Lima"),
		PhoneCountryCode: getEnv("PHONE_COUNTRY_CODE", "51"),
	}
	return app, nil
}

// Get returns the loaded configuration. Load must have been called first.
func Get() *Config {
	if app == nil {
		panic("configs: Get called before Load")
	}
	return app
}

// CheckAdminPIN compares a submitted PIN against the configured hash.
func (c *Config) CheckAdminPIN(pin string) bool {
	return bcrypt.CompareHashAndPassword(c.AdminPINHash, []byte(pin)) == nil
}

// NormalizeDatabaseURL rewrites the postgres:// scheme some providers hand
// out into the postgresql:// form the driver expects.
func NormalizeDatabaseURL(raw string) string {
	if strings.HasPrefix(raw, "postgres://") {
		return "postgresql://" + strings.TrimPrefix(raw, "postgres://")
	}
	return raw
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
