package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/ecolehub/sel/internal/models"
	"github.com/spf13/viper"
)

type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	SecretKey string
}

// LedgerConfig holds the exchange rules and approval retry policy.
type LedgerConfig struct {
	InitialBalance         int64
	MinBalance             int64
	MaxBalance             int64
	MaxUnitsPerTransaction int64
	UnitsPerHour           int64
	ApproveRetries         int
	RetryBaseDelay         time.Duration
}

// Limits projects the balance rules used by the validator.
func (c LedgerConfig) Limits() models.Limits {
	return models.Limits{
		InitialBalance:         c.InitialBalance,
		MinBalance:             c.MinBalance,
		MaxBalance:             c.MaxBalance,
		MaxUnitsPerTransaction: c.MaxUnitsPerTransaction,
	}
}

type RateLimitConfig struct {
	MaxTransactions int
	Window          time.Duration
}

type AnalyticsConfig struct {
	CacheTTL time.Duration
}

type LogConfig struct {
	Level       string
	Development bool
}

type ServerConfig struct {
	Port string
}

type Config struct {
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Ledger    LedgerConfig
	RateLimit RateLimitConfig
	Analytics AnalyticsConfig
	Log       LogConfig
	Server    ServerConfig
}

var envBindings = map[string]string{
	"database.host":              "DATABASE_HOST",
	"database.port":              "DATABASE_PORT",
	"database.user":              "DATABASE_USER",
	"database.password":          "DATABASE_PASSWORD",
	"database.name":              "DATABASE_NAME",
	"database.ssl_mode":          "DATABASE_SSL_MODE",
	"database.max_open_conns":    "DATABASE_MAX_OPEN_CONNS",
	"database.max_idle_conns":    "DATABASE_MAX_IDLE_CONNS",
	"database.conn_max_lifetime": "DATABASE_CONN_MAX_LIFETIME",

	"redis.host":     "REDIS_HOST",
	"redis.port":     "REDIS_PORT",
	"redis.password": "REDIS_PASSWORD",
	"redis.db":       "REDIS_DB",

	"jwt.secret_key": "JWT_SECRET_KEY",

	"ledger.initial_balance":           "SEL_INITIAL_BALANCE",
	"ledger.min_balance":               "SEL_MIN_BALANCE",
	"ledger.max_balance":               "SEL_MAX_BALANCE",
	"ledger.max_units_per_transaction": "SEL_MAX_UNITS_PER_TRANSACTION",
	"ledger.units_per_hour":            "SEL_UNITS_PER_HOUR",
	"ledger.approve_retries":           "SEL_APPROVE_RETRIES",
	"ledger.retry_base_delay":          "SEL_RETRY_BASE_DELAY",

	"rate_limit.max_transactions": "SEL_RATE_LIMIT_MAX_TRANSACTIONS",
	"rate_limit.window":           "SEL_RATE_LIMIT_WINDOW",

	"analytics.cache_ttl": "SEL_ANALYTICS_CACHE_TTL",

	"log.level":       "LOG_LEVEL",
	"log.development": "LOG_DEVELOPMENT",

	"server.port": "PORT",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.name", "ecolehub")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	limits := models.DefaultLimits()
	v.SetDefault("ledger.initial_balance", limits.InitialBalance)
	v.SetDefault("ledger.min_balance", limits.MinBalance)
	v.SetDefault("ledger.max_balance", limits.MaxBalance)
	v.SetDefault("ledger.max_units_per_transaction", limits.MaxUnitsPerTransaction)
	v.SetDefault("ledger.units_per_hour", 60)
	v.SetDefault("ledger.approve_retries", 3)
	v.SetDefault("ledger.retry_base_delay", 20*time.Millisecond)

	v.SetDefault("rate_limit.max_transactions", 30)
	v.SetDefault("rate_limit.window", time.Hour)

	v.SetDefault("analytics.cache_ttl", 5*time.Minute)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)

	v.SetDefault("server.port", "8080")
}

// New builds a viper instance reading configFile (an .env file when empty)
// with environment variables taking precedence.
func New(configFile string) *viper.Viper {
	v := viper.New()
	if configFile == "" {
		configFile = ".env"
	}
	v.SetConfigFile(configFile)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}
	setDefaults(v)
	return v
}

// Load reads the config file, if present, and decodes v into a Config.
// A missing file is not an error; defaults and environment still apply.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config file error: %w", err)
		}
	}

	cfg := &Config{
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetString("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			Name:            v.GetString("database.name"),
			SSLMode:         v.GetString("database.ssl_mode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("database.conn_max_lifetime"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetString("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			SecretKey: v.GetString("jwt.secret_key"),
		},
		Ledger: LedgerConfig{
			InitialBalance:         v.GetInt64("ledger.initial_balance"),
			MinBalance:             v.GetInt64("ledger.min_balance"),
			MaxBalance:             v.GetInt64("ledger.max_balance"),
			MaxUnitsPerTransaction: v.GetInt64("ledger.max_units_per_transaction"),
			UnitsPerHour:           v.GetInt64("ledger.units_per_hour"),
			ApproveRetries:         v.GetInt("ledger.approve_retries"),
			RetryBaseDelay:         v.GetDuration("ledger.retry_base_delay"),
		},
		RateLimit: RateLimitConfig{
			MaxTransactions: v.GetInt("rate_limit.max_transactions"),
			Window:          v.GetDuration("rate_limit.window"),
		},
		Analytics: AnalyticsConfig{
			CacheTTL: v.GetDuration("analytics.cache_ttl"),
		},
		Log: LogConfig{
			Level:       v.GetString("log.level"),
			Development: v.GetBool("log.development"),
		},
		Server: ServerConfig{
			Port: v.GetString("server.port"),
		},
	}

	if err := cfg.Ledger.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects rule sets where the starting grant falls outside the bounds.
func (c LedgerConfig) Validate() error {
	if c.MinBalance > 0 || c.MaxBalance < 0 {
		return fmt.Errorf("ledger bounds [%d, %d] must contain zero", c.MinBalance, c.MaxBalance)
	}
	if c.InitialBalance < c.MinBalance || c.InitialBalance > c.MaxBalance {
		return fmt.Errorf("initial balance %d outside [%d, %d]", c.InitialBalance, c.MinBalance, c.MaxBalance)
	}
	if c.MaxUnitsPerTransaction <= 0 {
		return errors.New("max units per transaction must be positive")
	}
	if c.UnitsPerHour <= 0 {
		return errors.New("units per hour must be positive")
	}
	return nil
}
