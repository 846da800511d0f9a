package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"time"
)

type Config struct {
	// Database (audit persistence)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Secrets (externally supplied, never generated here)
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration
	EncryptionKey    string // hex, 32 bytes decoded

	// Rate limiting
	LoginRateLimit  int
	LoginRateWindow time.Duration

	// Billing
	TrialDays          int
	ExpiryWarningDays  int
	AuditRetentionDays int

	// Admin
	AdminEmails  string
	AdminUserIDs string
	AdminToken   string

	// Server
	Port        string
	CORSOrigins string
	LogLevel    string

	// Tenant-facing API surface for outbound notifications. Empty
	// means notifications go to the log only.
	TenantAPIBaseURL string

	// Static catalogs
	TenantsConfigPath string
	PlansConfigPath   string
}

func Load() *Config {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "resto_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTAccessExpiry:  parseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m"), 15*time.Minute),
		JWTRefreshExpiry: parseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h"), 168*time.Hour),
		EncryptionKey:    getEnv("ENCRYPTION_KEY", ""),

		LoginRateLimit:  parseInt(getEnv("LOGIN_RATE_LIMIT", "5"), 5),
		LoginRateWindow: parseDuration(getEnv("LOGIN_RATE_WINDOW", "1m"), time.Minute),

		TrialDays:          parseInt(getEnv("TRIAL_DAYS", "14"), 14),
		ExpiryWarningDays:  parseInt(getEnv("EXPIRY_WARNING_DAYS", "7"), 7),
		AuditRetentionDays: parseInt(getEnv("AUDIT_RETENTION_DAYS", "90"), 90),

		AdminEmails:  getEnv("ADMIN_EMAILS", ""),
		AdminUserIDs: getEnv("ADMIN_USER_IDS", ""),
		AdminToken:   getEnv("ADMIN_TOKEN", ""),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		TenantAPIBaseURL: getEnv("TENANT_API_BASE_URL", ""),

		TenantsConfigPath: getEnv("TENANTS_CONFIG_PATH", "tenants.json"),
		PlansConfigPath:   getEnv("PLANS_CONFIG_PATH", "plans.json"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// EncryptionKeyBytes decodes the configured hex key. AES-256 needs
// exactly 32 bytes.
func (c *Config) EncryptionKeyBytes() ([]byte, error) {
	key, err := hex.DecodeString(c.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("ENCRYPTION_KEY is not valid hex: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("ENCRYPTION_KEY must decode to 32 bytes, got %d", len(key))
	}
	return key, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil {
		return fallback
	}
	return n
}
