package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	// Embed the zone database; the policy window is meaningless if the host
	// image ships without tzdata.
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Policy   PolicyConfig
	Geo      GeoConfig
	Auth     AuthConfig
	Alerts   AlertConfig
}

type DatabaseConfig struct {
	Host              string
	Port              int
	User              string
	Password          string
	Name              string
	SSLMode           string
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
}

type ServerConfig struct {
	Port           string
	Env            string
	LogLevel       string
	TrustedProxies []string
}

// PolicyConfig holds the adaptive access policy knobs. The allowed login
// window is half-open: [StartHour, EndHour) evaluated in Location.
type PolicyConfig struct {
	MaxAttempts   int
	LockDuration  time.Duration
	StartHour     int
	EndHour       int
	AllowedRegion string
	TimeZone      string
	Location      *time.Location
	RetentionDays int
}

type GeoConfig struct {
	BaseURL       string
	LookupTimeout time.Duration
}

type AuthConfig struct {
	JWTSecret           string
	SessionTokenExpiry  time.Duration
	CleanupInterval     time.Duration
	TimingDelayBaseMs   int
	TimingDelayRandomMs int
}

type AlertConfig struct {
	Enabled     bool
	AWSRegion   string
	FromAddress string
	ToAddress   string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if len(jwtSecret) < 32 {
		return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters (got %d)", len(jwtSecret))
	}

	cfg := &Config{
		Database: DatabaseConfig{
			Host:              getEnv("DB_HOST", "localhost"),
			Port:              getEnvAsInt("DB_PORT", 5432),
			User:              getEnv("DB_USER", "postgres"),
			Password:          getEnv("DB_PASSWORD", ""),
			Name:              getEnv("DB_NAME", "bastion"),
			SSLMode:           getEnv("DB_SSLMODE", "disable"),
			MaxConns:          int32(getEnvAsInt("DB_MAX_CONNS", 25)),
			MinConns:          int32(getEnvAsInt("DB_MIN_CONNS", 5)),
			MaxConnLifetime:   getEnvAsDuration("DB_MAX_CONN_LIFETIME", 5*time.Minute),
			MaxConnIdleTime:   getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 1*time.Minute),
			HealthCheckPeriod: getEnvAsDuration("DB_HEALTH_CHECK_PERIOD", 1*time.Minute),
		},
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			Env:            getEnv("ENV", "development"),
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			TrustedProxies: getEnvAsSlice("TRUSTED_PROXIES"),
		},
		Policy: PolicyConfig{
			MaxAttempts:   getEnvAsInt("MAX_ATTEMPTS", 3),
			LockDuration:  getEnvAsDuration("LOCK_DURATION", 5*time.Minute),
			StartHour:     getEnvAsInt("ALLOWED_START_HOUR", 9),
			EndHour:       getEnvAsInt("ALLOWED_END_HOUR", 17),
			AllowedRegion: getEnv("ALLOWED_REGION", "IN"),
			TimeZone:      getEnv("TIME_ZONE", "Asia/Kolkata"),
			RetentionDays: getEnvAsInt("AUDIT_RETENTION_DAYS", 90),
		},
		Geo: GeoConfig{
			BaseURL:       getEnv("GEO_API_BASE_URL", "http://ip-api.com"),
			LookupTimeout: getEnvAsDuration("GEO_LOOKUP_TIMEOUT", 3*time.Second),
		},
		Auth: AuthConfig{
			JWTSecret:           jwtSecret,
			SessionTokenExpiry:  getEnvAsDuration("SESSION_TOKEN_EXPIRY", 15*time.Minute),
			CleanupInterval:     getEnvAsDuration("AUDIT_CLEANUP_INTERVAL", 24*time.Hour),
			TimingDelayBaseMs:   getEnvAsInt("TIMING_DELAY_BASE_MS", 100),
			TimingDelayRandomMs: getEnvAsInt("TIMING_DELAY_RANDOM_MS", 50),
		},
		Alerts: AlertConfig{
			Enabled:     getEnvAsBool("ALERTS_ENABLED", false),
			AWSRegion:   getEnv("AWS_REGION", "us-east-1"),
			FromAddress: getEnv("ALERT_FROM_ADDRESS", ""),
			ToAddress:   getEnv("ALERT_TO_ADDRESS", ""),
		},
	}

	if cfg.Database.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}

	if err := validatePolicy(&cfg.Policy); err != nil {
		return nil, err
	}

	if cfg.Alerts.Enabled && (cfg.Alerts.FromAddress == "" || cfg.Alerts.ToAddress == "") {
		return nil, fmt.Errorf("ALERT_FROM_ADDRESS and ALERT_TO_ADDRESS are required when ALERTS_ENABLED is true")
	}

	return cfg, nil
}

// validatePolicy checks policy bounds and resolves the time zone once at load
// so the hot path never re-parses it.
func validatePolicy(p *PolicyConfig) error {
	if p.MaxAttempts < 1 {
		return fmt.Errorf("MAX_ATTEMPTS must be at least 1 (got %d)", p.MaxAttempts)
	}
	if p.LockDuration <= 0 {
		return fmt.Errorf("LOCK_DURATION must be positive (got %s)", p.LockDuration)
	}
	if p.StartHour < 0 || p.StartHour > 23 {
		return fmt.Errorf("ALLOWED_START_HOUR must be in [0,23] (got %d)", p.StartHour)
	}
	if p.EndHour < 0 || p.EndHour > 23 {
		return fmt.Errorf("ALLOWED_END_HOUR must be in [0,23] (got %d)", p.EndHour)
	}
	if p.StartHour >= p.EndHour {
		return fmt.Errorf("ALLOWED_START_HOUR (%d) must be before ALLOWED_END_HOUR (%d)", p.StartHour, p.EndHour)
	}
	if p.AllowedRegion == "" {
		return fmt.Errorf("ALLOWED_REGION is required")
	}

	loc, err := time.LoadLocation(p.TimeZone)
	if err != nil {
		return fmt.Errorf("invalid TIME_ZONE %q: %w", p.TimeZone, err)
	}
	p.Location = loc

	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultVal
}

func getEnvAsSlice(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultVal
}
