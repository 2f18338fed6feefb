package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=30m"`

	// BootstrapUsername names the protected initial admin account; it is
	// created at startup when absent and can never be deleted.
	BootstrapUsername string `env:"BOOTSTRAP_USERNAME, default=admin"`
	BootstrapPassword string `env:"BOOTSTRAP_PASSWORD, default=password123"`

	// VisibilityFilter hides admin-tagged rows from non-admin readers.
	VisibilityFilter bool   `env:"VISIBILITY_FILTER, default=true"`
	UploadDir        string `env:"UPLOAD_DIR, default=uploads"`
	StaticDir        string `env:"STATIC_DIR"`

	Mongo MongoConfig
	Redis RedisConfig
	SMTP  SMTPConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=sales_dashboard"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// SMTPConfig configures the outbound alert mailer. With an empty Username the
// mailer runs in simulation mode and only logs messages.
type SMTPConfig struct {
	Host     string `env:"SMTP_HOST, default=smtp.gmail.com"`
	Port     int    `env:"SMTP_PORT, default=587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
