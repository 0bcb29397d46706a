package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

const defaultConnectionString = "Host=localhost;Port=5432;Database=accounts_db;Username=postgres;Password=postgres;Timeout=30;CommandTimeout=30"

type Config struct {
	AppEnv      string `mapstructure:"APP_ENV"`
	ServerPort  string `mapstructure:"SERVER_PORT"`
	StoreDriver string `mapstructure:"STORE_DRIVER"`
	DatabaseDSN string `mapstructure:"DATABASE_DSN"`

	ChannelID  string `mapstructure:"CHANNEL_ID"`
	ChannelKey string `mapstructure:"CHANNEL_KEY"`

	CustomerDirectoryURL     string        `mapstructure:"CUSTOMER_DIRECTORY_URL"`
	CustomerDirectoryTimeout time.Duration `mapstructure:"CUSTOMER_DIRECTORY_TIMEOUT"`

	RedisAddr      string        `mapstructure:"REDIS_ADDR"`
	IdempotencyTTL time.Duration `mapstructure:"IDEMPOTENCY_TTL"`

	RabbitMQURL    string `mapstructure:"RABBITMQ_URL"`
	EventsExchange string `mapstructure:"EVENTS_EXCHANGE"`

	Timezone           string `mapstructure:"TIMEZONE"`
	CommissionPatterns string `mapstructure:"COMMISSION_PATTERNS"`
	MovementMaxRetries int    `mapstructure:"MOVEMENT_MAX_RETRIES"`

	MaintenanceFeeEnabled  bool   `mapstructure:"MAINTENANCE_FEE_ENABLED"`
	MaintenanceFeeSchedule string `mapstructure:"MAINTENANCE_FEE_SCHEDULE"`

	RateLimitPerMinute int `mapstructure:"RATE_LIMIT_PER_MINUTE"`

	LogFormat string `mapstructure:"LOG_FORMAT"`
	LogLevel  string `mapstructure:"LOG_LEVEL"`

	Location *time.Location `mapstructure:"-"`
}

var defaults = map[string]any{
	"APP_ENV":                    "development",
	"SERVER_PORT":                "8080",
	"STORE_DRIVER":               StoreDriverPostgres,
	"DATABASE_DSN":               defaultConnectionString,
	"CHANNEL_ID":                 "AccountsApp",
	"CHANNEL_KEY":                "AccountsKey001",
	"CUSTOMER_DIRECTORY_URL":     "",
	"CUSTOMER_DIRECTORY_TIMEOUT": "5s",
	"REDIS_ADDR":                 "",
	"IDEMPOTENCY_TTL":            "24h",
	"RABBITMQ_URL":               "",
	"EVENTS_EXCHANGE":            "account_events",
	"TIMEZONE":                   "UTC",
	"COMMISSION_PATTERNS":        "FEE,COMMISSION,COMISION",
	"MOVEMENT_MAX_RETRIES":       3,
	"MAINTENANCE_FEE_ENABLED":    false,
	"MAINTENANCE_FEE_SCHEDULE":   "0 3 1 * *", // 03:00 on day-of-month 1.
	"RATE_LIMIT_PER_MINUTE":      120,
	"LOG_FORMAT":                 "json",
	"LOG_LEVEL":                  "info",
}

func Load() (Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
		_ = v.BindEnv(key)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	cfg.DatabaseDSN = normalizeConnectionString(strings.TrimSpace(cfg.DatabaseDSN))
	cfg.ChannelID = strings.TrimSpace(cfg.ChannelID)
	cfg.ChannelKey = strings.TrimSpace(cfg.ChannelKey)
	cfg.CustomerDirectoryURL = strings.TrimRight(strings.TrimSpace(cfg.CustomerDirectoryURL), "/")

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	loc, err := time.LoadLocation(strings.TrimSpace(cfg.Timezone))
	if err != nil {
		return Config{}, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}
	cfg.Location = loc

	return cfg, nil
}

func (c Config) validate() error {
	switch c.StoreDriver {
	case StoreDriverPostgres:
		if c.DatabaseDSN == "" {
			return fmt.Errorf("DATABASE_DSN is required for the postgres store")
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}

	if c.MovementMaxRetries < 0 {
		return fmt.Errorf("MOVEMENT_MAX_RETRIES must not be negative")
	}
	if c.RateLimitPerMinute < 1 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be at least 1")
	}
	return nil
}

// MovementMaxAttempts counts the first try plus MOVEMENT_MAX_RETRIES retries.
func (c Config) MovementMaxAttempts() int {
	return c.MovementMaxRetries + 1
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// CommissionPatternList returns the configured fee keywords, upper-cased.
func (c Config) CommissionPatternList() []string {
	var out []string
	for _, p := range strings.Split(c.CommissionPatterns, ",") {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func normalizeConnectionString(raw string) string {
	if strings.HasPrefix(raw, "postgres://") || strings.HasPrefix(raw, "postgresql://") {
		return raw
	}

	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	hasSSLMode := false

	for _, part := range parts {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}

		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(kv[0]))
		val := strings.TrimSpace(kv[1])

		switch key {
		case "host":
			out = append(out, "host="+val)
		case "port":
			out = append(out, "port="+val)
		case "database":
			out = append(out, "dbname="+val)
		case "username":
			out = append(out, "user="+val)
		case "password":
			out = append(out, "password="+val)
		case "timeout", "connect timeout":
			out = append(out, "connect_timeout="+val)
		case "commandtimeout", "command timeout":
			out = append(out, "statement_timeout="+val+"s")
		case "sslmode":
			hasSSLMode = true
			out = append(out, "sslmode="+val)
		default:
			out = append(out, key+"="+val)
		}
	}

	if len(out) == 0 {
		return raw
	}

	if !hasSSLMode {
		out = append(out, "sslmode=disable")
	}

	return strings.Join(out, " ")
}
