package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	HTTPPort   string `env:"HTTP_PORT,default=8080"`
	CronSecret string `env:"CRON_SECRET"`

	DBHost            string        `env:"DB_HOST,required"`
	DBPort            int           `env:"DB_PORT,default=5432"`
	DBUser            string        `env:"DB_USER,required"`
	DBPassword        string        `env:"DB_PASSWORD,required"`
	DBName            string        `env:"DB_NAME,required"`
	DBSSLMode         string        `env:"DB_SSLMODE,default=disable"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS,default=10"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS,default=25"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME,default=30m"`

	GreenhouseBaseURL string        `env:"GREENHOUSE_BASE_URL,default=https://boards-api.greenhouse.io"`
	LeverBaseURL      string        `env:"LEVER_BASE_URL,default=https://api.lever.co"`
	AshbyBaseURL      string        `env:"ASHBY_BASE_URL,default=https://api.ashbyhq.com"`
	SourceTimeout     time.Duration `env:"SOURCE_TIMEOUT,default=10s"`

	SlackWebhookURL string        `env:"SLACK_WEBHOOK_URL"`
	ResendAPIURL    string        `env:"RESEND_API_URL,default=https://api.resend.com/emails"`
	ResendAPIKey    string        `env:"RESEND_API_KEY"`
	AlertEmailTo    string        `env:"ALERT_EMAIL_TO"`
	AlertEmailFrom  string        `env:"ALERT_EMAIL_FROM,default=alerts@jobwatch.local"`
	NotifyTimeout   time.Duration `env:"NOTIFY_TIMEOUT,default=5s"`

	CheckSchedule   string        `env:"CHECK_SCHEDULE,default=@every 6h"`
	CheckMaxRuntime time.Duration `env:"CHECK_MAX_RUNTIME,default=30s"`

	LogLevel string `env:"LOG_LEVEL,default=info"`
}

func Load(ctx context.Context) (Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
