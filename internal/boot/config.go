package boot

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Env     string `env:"ENV,default=dev"`
	BaseURL string `env:"BASE_URL,default=http://localhost:8080"`
	Server  struct {
		Port        string `env:"PORT,default=8080"`
		MetricsPort string `env:"METRICS_PORT,default=8081"`
		Origins     string `env:"ALLOWED_ORIGINS,default=*"`
	}
	Store struct {
		Driver string `env:"STORE_DRIVER,default=sqlite"`
		DSN    string `env:"STORE_DSN,default=file:noticeboard.db"`
	}
	Auth struct {
		SigningKey           string        `env:"SESSION_SIGNING_KEY,required"`
		SessionTTL           time.Duration `env:"SESSION_TTL,default=24h"`
		ResetTokenTTL        time.Duration `env:"RESET_TOKEN_TTL,default=1h"`
		RequireVerifiedEmail bool          `env:"REQUIRE_VERIFIED_EMAIL,default=true"`
	}
	Mail struct {
		SMTPHost    string `env:"SMTP_HOST"`
		SMTPPort    int    `env:"SMTP_PORT,default=587"`
		Username    string `env:"SMTP_USERNAME"`
		Password    string `env:"SMTP_PASSWORD"`
		From        string `env:"MAIL_FROM"`
		AdminEmail  string `env:"ADMIN_EMAIL"`
		TemplateDir string `env:"MAIL_TEMPLATE_DIR"`
	}
}

func Load() (*Config, error) {
	config := &Config{}
	if err := envconfig.Process(context.Background(), config); err != nil {
		return nil, fmt.Errorf("parsing env vars: %w", err)
	}
	return config, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "prod"
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "dev"
}
