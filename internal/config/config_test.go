package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"DB_DRIVER", "DB_HOST", "DB_PASSWORD", "JWT_SECRET", "DAILY_LIMIT", "JWT_ACCESS_EXPIRY", "PORT", "LOG_RETENTION_DAYS", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	c := Load()

	assert.Equal(t, "postgres", c.DBDriver)
	assert.Equal(t, "localhost", c.DBHost)
	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, 5, c.DailyLimit)
	assert.Equal(t, 15*time.Minute, c.JWTAccessExpiry)
	assert.Equal(t, 168*time.Hour, c.JWTRefreshExpiry)
	assert.Equal(t, 30, c.LogRetentionDays)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("DAILY_LIMIT", "10")
	t.Setenv("JWT_ACCESS_EXPIRY", "1h")
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_test")
	t.Setenv("PREMIUM_PRICE_ID", "price_123")

	c := Load()

	assert.Equal(t, 10, c.DailyLimit)
	assert.Equal(t, time.Hour, c.JWTAccessExpiry)
	assert.Equal(t, "whsec_test", c.StripeWebhookSecret)
	assert.Equal(t, "price_123", c.PremiumPriceID)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("DAILY_LIMIT", "-3")
	t.Setenv("JWT_ACCESS_EXPIRY", "soon")

	c := Load()

	assert.Equal(t, 5, c.DailyLimit)
	assert.Equal(t, 15*time.Minute, c.JWTAccessExpiry)
}

func TestValidate(t *testing.T) {
	c := &Config{}
	require.ErrorContains(t, c.Validate(), "JWT_SECRET")

	c.JWTSecret = "secret"
	require.ErrorContains(t, c.Validate(), "DB_PASSWORD")

	c.DBPassword = "pw"
	require.NoError(t, c.Validate())

	local := &Config{JWTSecret: "secret", DBDriver: "sqlite"}
	require.NoError(t, local.Validate())
}

func TestDSN(t *testing.T) {
	c := &Config{DBHost: "db", DBUser: "u", DBPassword: "p", DBName: "n", DBPort: "5432", DBSSLMode: "disable"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5432 sslmode=disable TimeZone=UTC", c.DSN())
}
