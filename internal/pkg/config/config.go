package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	EnvDevelopment = "development"

	MailDriverLog  = "log"
	MailDriverSMTP = "smtp"

	minBcryptCost = 10
)

type Config struct {
	Port      string `env:"PORT,       default=8080"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	PublicURL string `env:"PUBLIC_URL, default=http://localhost:8080"`

	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
	Mail  MailConfig
	Reset ResetConfig

	ViewWorkers int `env:"VIEW_WORKERS, default=4"`
}

type AuthConfig struct {
	JWTSecret  string        `env:"JWT_SECRET"`
	JWTTTL     time.Duration `env:"JWT_TTL,     default=168h"`
	BcryptCost int           `env:"BCRYPT_COST, default=12"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=medifirst"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type MailConfig struct {
	// Driver is "log" or "smtp". Empty picks log in development and smtp
	// everywhere else.
	Driver   string        `env:"MAIL_DRIVER"`
	Host     string        `env:"SMTP_HOST"`
	Port     int           `env:"SMTP_PORT,     default=587"`
	Username string        `env:"SMTP_USERNAME"`
	Password string        `env:"SMTP_PASSWORD"`
	TLS      string        `env:"SMTP_TLS,      default=mandatory"`
	From     string        `env:"MAIL_FROM,     default=MediFirst <noreply@medifirst.app>"`
	Timeout  time.Duration `env:"MAIL_TIMEOUT,  default=10s"`
}

type ResetConfig struct {
	TokenTTL       time.Duration `env:"RESET_TOKEN_TTL,       default=1h"`
	ThrottleLimit  int           `env:"RESET_THROTTLE_LIMIT,  default=5"`
	ThrottleWindow time.Duration `env:"RESET_THROTTLE_WINDOW, default=15m"`
}

// Load reads configuration from environment variables and validates it.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// MailDriver resolves the effective notification dispatcher.
func (c *Config) MailDriver() string {
	if c.Mail.Driver != "" {
		return c.Mail.Driver
	}
	if c.IsDevelopment() {
		return MailDriverLog
	}
	return MailDriverSMTP
}

func (c *Config) Validate() error {
	var errs []error

	if c.Auth.JWTSecret == "" && !c.IsDevelopment() {
		errs = append(errs, errors.New("JWT_SECRET is required outside development"))
	}
	if c.Auth.BcryptCost < minBcryptCost {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be at least %d", minBcryptCost))
	}
	if c.Auth.JWTTTL <= 0 {
		errs = append(errs, errors.New("JWT_TTL must be positive"))
	}
	if c.Reset.TokenTTL <= 0 {
		errs = append(errs, errors.New("RESET_TOKEN_TTL must be positive"))
	}
	if c.Reset.ThrottleLimit <= 0 || c.Reset.ThrottleWindow <= 0 {
		errs = append(errs, errors.New("RESET_THROTTLE_LIMIT and RESET_THROTTLE_WINDOW must be positive"))
	}
	if c.ViewWorkers <= 0 {
		errs = append(errs, errors.New("VIEW_WORKERS must be positive"))
	}

	switch c.MailDriver() {
	case MailDriverLog:
	case MailDriverSMTP:
		if c.Mail.Host == "" {
			errs = append(errs, errors.New("SMTP_HOST is required for the smtp mail driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown MAIL_DRIVER %q", c.Mail.Driver))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
