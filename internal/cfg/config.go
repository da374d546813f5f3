package cfg

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// DevJWTSecret is only accepted when APP_ENV=development.
	DevJWTSecret = "dev-secret-change-me"
)

var ErrMissingJWTSecret = errors.New("JWT_SECRET is required outside development")

type Config struct {
	Env      string
	HTTPPort string
	LogLevel string

	DBHost            string
	DBPort            string
	DBUser            string
	DBPassword        string
	DBName            string
	DBSSLMode         string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	JWTSecret      string
	JWTTTL         time.Duration
	UsingDevSecret bool
	BcryptCost     int

	RedisAddr        string
	RedisPassword    string
	LoginMaxAttempts int
	LoginLockout     time.Duration

	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroupID string

	AllowedCORSOrigins  []string
	RateLimitRequests   int
	RateLimitWindow     time.Duration
	MaxBodyBytes        int64
	ShutdownGracePeriod time.Duration
	ReadTimeout         time.Duration
	WriteTimeout        time.Duration
	IdleTimeout         time.Duration
}

// Load reads .env when present and then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load(".env")
	return FromEnv()
}

// FromEnv builds the configuration from the process environment only.
func FromEnv() (Config, error) {
	cfg := Config{
		Env:      strings.ToLower(getEnv("APP_ENV", EnvDevelopment)),
		HTTPPort: getEnv("HTTP_PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        os.Getenv("DB_PASSWORD"),
		DBName:            getEnv("DB_NAME", "staff_control"),
		DBSSLMode:         getEnv("DB_SSLMODE", "disable"),
		DBMaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 20),
		DBMaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
		DBConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", time.Hour),

		JWTSecret:  os.Getenv("JWT_SECRET"),
		JWTTTL:     getEnvDuration("JWT_EXPIRES_IN", time.Hour),
		BcryptCost: getEnvInt("BCRYPT_COST", 10),

		RedisAddr:        strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		LoginMaxAttempts: getEnvInt("LOGIN_MAX_ATTEMPTS", 5),
		LoginLockout:     getEnvDuration("LOGIN_LOCKOUT", 10*time.Minute),

		KafkaBrokers: parseCSVEnv("KAFKA_BROKERS"),
		KafkaTopic:   strings.TrimSpace(os.Getenv("KAFKA_TOPIC")),
		KafkaGroupID: getEnv("KAFKA_GROUP_ID", "staff-control-notify"),

		AllowedCORSOrigins:  parseCSVEnv("ALLOWED_ORIGINS"),
		RateLimitRequests:   getEnvInt("RATE_LIMIT_REQUESTS", 60),
		RateLimitWindow:     getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		MaxBodyBytes:        getEnvInt64("MAX_BODY_BYTES", 1<<20),
		ShutdownGracePeriod: getEnvDuration("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		ReadTimeout:         getEnvDuration("READ_TIMEOUT", 15*time.Second),
		WriteTimeout:        getEnvDuration("WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:         getEnvDuration("IDLE_TIMEOUT", 60*time.Second),
	}

	switch cfg.Env {
	case EnvDevelopment, EnvTest, EnvProduction:
	default:
		return Config{}, fmt.Errorf("APP_ENV must be one of development, test, production (got %q)", cfg.Env)
	}

	if cfg.JWTSecret == "" {
		if cfg.Env != EnvDevelopment {
			return Config{}, ErrMissingJWTSecret
		}
		cfg.JWTSecret = DevJWTSecret
		cfg.UsingDevSecret = true
	}

	if cfg.JWTTTL <= 0 {
		return Config{}, fmt.Errorf("JWT_EXPIRES_IN must be positive")
	}

	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Env == EnvProduction
}

func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost,
		c.DBPort,
		c.DBUser,
		c.DBPassword,
		c.DBName,
		c.DBSSLMode,
	)
}

func (c Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

func (c Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0 && c.KafkaTopic != ""
}

func getEnv(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		if parsed, err := strconv.ParseInt(val, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func parseCSVEnv(key string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
