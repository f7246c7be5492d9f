package boot

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
)

func load(t *testing.T, env map[string]string) (*Config, error) {
	t.Helper()
	config := &Config{}
	err := envconfig.ProcessWith(context.Background(), config, envconfig.MapLookuper(env))
	return config, err
}

func TestConfig(t *testing.T) {
	assert := assert.New(t)

	t.Run("defaults", func(t *testing.T) {
		config, err := load(t, map[string]string{
			"SESSION_SIGNING_KEY": "test-signing-key",
		})
		assert.Nil(err)
		assert.Equal("dev", config.Env)
		assert.True(config.IsDevelopment())
		assert.False(config.IsProduction())
		assert.Equal("8080", config.Server.Port)
		assert.Equal("8081", config.Server.MetricsPort)
		assert.Equal("sqlite", config.Store.Driver)
		assert.Equal(24*time.Hour, config.Auth.SessionTTL)
		assert.Equal(time.Hour, config.Auth.ResetTokenTTL)
		assert.True(config.Auth.RequireVerifiedEmail)
		assert.Equal(587, config.Mail.SMTPPort)
	})

	t.Run("signing key is required", func(t *testing.T) {
		_, err := load(t, map[string]string{})
		assert.NotNil(err)
	})

	t.Run("overrides", func(t *testing.T) {
		config, err := load(t, map[string]string{
			"ENV":                    "prod",
			"SESSION_SIGNING_KEY":    "test-signing-key",
			"SESSION_TTL":            "1h",
			"REQUIRE_VERIFIED_EMAIL": "false",
			"STORE_DRIVER":           "memory",
			"SMTP_HOST":              "smtp.testdomain.com",
		})
		assert.Nil(err)
		assert.True(config.IsProduction())
		assert.Equal(time.Hour, config.Auth.SessionTTL)
		assert.False(config.Auth.RequireVerifiedEmail)
		assert.Equal("memory", config.Store.Driver)
		assert.Equal("smtp.testdomain.com", config.Mail.SMTPHost)
	})
}
