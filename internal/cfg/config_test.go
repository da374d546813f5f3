package cfg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv(t *testing.T) {
	t.Run("development falls back to dev secret", func(t *testing.T) {
		t.Setenv("APP_ENV", "development")
		t.Setenv("JWT_SECRET", "")

		cfg, err := FromEnv()
		require.NoError(t, err)
		assert.Equal(t, DevJWTSecret, cfg.JWTSecret)
		assert.True(t, cfg.UsingDevSecret)
		assert.Equal(t, time.Hour, cfg.JWTTTL)
	})

	t.Run("production requires secret", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		t.Setenv("JWT_SECRET", "")

		_, err := FromEnv()
		assert.ErrorIs(t, err, ErrMissingJWTSecret)
	})

	t.Run("test env requires secret too", func(t *testing.T) {
		t.Setenv("APP_ENV", "test")
		t.Setenv("JWT_SECRET", "")

		_, err := FromEnv()
		assert.ErrorIs(t, err, ErrMissingJWTSecret)
	})

	t.Run("explicit values override defaults", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		t.Setenv("JWT_SECRET", "s3cret")
		t.Setenv("JWT_EXPIRES_IN", "30m")
		t.Setenv("HTTP_PORT", "9000")
		t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
		t.Setenv("KAFKA_TOPIC", "tasks")
		t.Setenv("ALLOWED_ORIGINS", "http://a.test")
		t.Setenv("RATE_LIMIT_REQUESTS", "not-a-number")

		cfg, err := FromEnv()
		require.NoError(t, err)
		assert.Equal(t, "s3cret", cfg.JWTSecret)
		assert.False(t, cfg.UsingDevSecret)
		assert.Equal(t, 30*time.Minute, cfg.JWTTTL)
		assert.Equal(t, "9000", cfg.HTTPPort)
		assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
		assert.True(t, cfg.KafkaEnabled())
		assert.Equal(t, "staff-control-notify", cfg.KafkaGroupID)
		assert.False(t, cfg.RedisEnabled())
		assert.Equal(t, []string{"http://a.test"}, cfg.AllowedCORSOrigins)
		assert.Equal(t, 60, cfg.RateLimitRequests)
		assert.True(t, cfg.IsProduction())
	})

	t.Run("rejects unknown environment", func(t *testing.T) {
		t.Setenv("APP_ENV", "staging")
		t.Setenv("JWT_SECRET", "x")

		_, err := FromEnv()
		assert.Error(t, err)
	})
}

func TestDSN(t *testing.T) {
	cfg := Config{DBHost: "db", DBPort: "5432", DBUser: "u", DBPassword: "p", DBName: "n", DBSSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", cfg.DSN())
}
